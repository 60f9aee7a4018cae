package timeoutrunner_test

import (
	"errors"
	"time"

	"code.cloudfoundry.org/clock/fakeclock"
	boshsys "github.com/cloudfoundry/bosh-utils/system"
	fakesys "github.com/cloudfoundry/bosh-utils/system/fakes"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/atomic-upgrade/upgrade-tools/timeoutrunner"
)

var _ = Describe("Runner", func() {
	var (
		delegate *fakesys.FakeCmdRunner
		clk      *fakeclock.FakeClock
		runner   timeoutrunner.Runner
	)

	BeforeEach(func() {
		delegate = fakesys.NewFakeCmdRunner()
		clk = fakeclock.NewFakeClock(time.Now())
		runner = timeoutrunner.NewRunner(delegate, clk, 10*time.Second)
	})

	It("returns the command result when it finishes in time", func() {
		delegate.AddProcess("blkid -s UUID -o value /dev/sda2", &fakesys.FakeProcess{
			WaitResult: boshsys.Result{Stdout: "abc-123\n", ExitStatus: 0},
		})

		stdout, _, exitStatus, err := runner.RunCommand("blkid", "-s", "UUID", "-o", "value", "/dev/sda2")
		Expect(err).ToNot(HaveOccurred())
		Expect(stdout).To(Equal("abc-123\n"))
		Expect(exitStatus).To(Equal(0))
	})

	It("passes a command failure through", func() {
		delegate.AddProcess("cryptsetup status root_crypt", &fakesys.FakeProcess{
			WaitResult: boshsys.Result{ExitStatus: 4, Error: errors.New("fake-cryptsetup-error")},
		})

		_, _, exitStatus, err := runner.RunCommand("cryptsetup", "status", "root_crypt")
		Expect(err).To(HaveOccurred())
		Expect(exitStatus).To(Equal(4))
	})

	It("terminates a command that outlives the timeout", func() {
		process := &fakesys.FakeProcess{
			TerminatedNicelyCallBack: func(p *fakesys.FakeProcess) {
				p.WaitCh <- boshsys.Result{ExitStatus: -1, Error: errors.New("terminated")}
			},
		}
		delegate.AddProcess("dmsetup table --target crypt root_crypt", process)

		go clk.WaitForWatcherAndIncrement(10 * time.Second)

		_, _, _, err := runner.RunCommand("dmsetup", "table", "--target", "crypt", "root_crypt")
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("timed out"))
		Expect(process.TerminateNicelyKillGracePeriod).To(Equal(1 * time.Second))
	})

	It("delegates CommandExists", func() {
		delegate.AvailableCommands["findmnt"] = true

		Expect(runner.CommandExists("findmnt")).To(BeTrue())
		Expect(runner.CommandExists("dmsetup")).To(BeFalse())
	})
})
