package timeoutrunner

import (
	"time"

	"code.cloudfoundry.org/clock"
	bosherr "github.com/cloudfoundry/bosh-utils/errors"
	boshsys "github.com/cloudfoundry/bosh-utils/system"

	"github.com/atomic-upgrade/upgrade-tools/rootdev"
)

const terminateGracePeriod = 1 * time.Second

// AsyncCmdRunner is the part of boshsys.CmdRunner needed to run a command
// without blocking on it.
type AsyncCmdRunner interface {
	RunComplexCommandAsync(cmd boshsys.Command) (boshsys.Process, error)
	CommandExists(cmdName string) bool
}

var _ rootdev.CmdRunner = Runner{}

// Runner bounds every command by a fixed timeout. Commands that outlive it
// are terminated and reported as an error, so a wedged introspection tool
// degrades a single check instead of hanging the whole detection.
type Runner struct {
	runner  AsyncCmdRunner
	clock   clock.Clock
	timeout time.Duration
}

func NewRunner(runner AsyncCmdRunner, clock clock.Clock, timeout time.Duration) Runner {
	return Runner{runner: runner, clock: clock, timeout: timeout}
}

func (r Runner) RunCommand(cmdName string, args ...string) (string, string, int, error) {
	process, err := r.runner.RunComplexCommandAsync(boshsys.Command{Name: cmdName, Args: args})
	if err != nil {
		return "", "", -1, bosherr.WrapErrorf(err, "Starting command '%s'", cmdName)
	}

	timer := r.clock.NewTimer(r.timeout)
	defer timer.Stop()

	timedOut := false

	for waitCh := process.Wait(); ; {
		select {
		case result := <-waitCh:
			if timedOut {
				return "", "", -1, bosherr.Errorf("Command '%s' timed out after %s", cmdName, r.timeout)
			}
			return result.Stdout, result.Stderr, result.ExitStatus, result.Error
		case <-timer.C():
			timedOut = true
			// Ignore termination errors, the wait result carries the outcome
			_ = process.TerminateNicely(terminateGracePeriod)
		}
	}
}

func (r Runner) CommandExists(cmdName string) bool {
	return r.runner.CommandExists(cmdName)
}
