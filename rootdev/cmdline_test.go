package rootdev_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	. "github.com/atomic-upgrade/upgrade-tools/rootdev"
)

var _ = Describe("BuildCmdline", func() {
	It("orders the LUKS unlock directive before root=", func() {
		info := RootDeviceInfo{
			Source:   "/dev/mapper/root_crypt",
			FsType:   "btrfs",
			Topology: TopologyLUKS,
			LuksUUID: "abc-123",
			LuksName: "root_crypt",
			RootArg:  "/dev/mapper/root_crypt",
		}

		Expect(BuildCmdline(info, "root-2")).To(Equal(
			"rd.luks.name=abc-123=root_crypt root=/dev/mapper/root_crypt rootfstype=btrfs rootflags=subvol=root-2"))
	})

	It("emits no unlock directive for a plain device", func() {
		info := RootDeviceInfo{
			Source:   "/dev/sda2",
			FsType:   "btrfs",
			Topology: TopologyPlain,
			RootArg:  "/dev/sda2",
		}

		Expect(BuildCmdline(info, "root-b")).To(Equal(
			"root=/dev/sda2 rootfstype=btrfs rootflags=subvol=root-b"))
	})

	It("emits no unlock directive for a crypt layer without a resolved UUID", func() {
		info := RootDeviceInfo{
			Topology: TopologyLUKSOverLVM,
			RootArg:  "/dev/mapper/vg0-root",
			FsType:   "btrfs",
		}

		Expect(BuildCmdline(info, "root-b")).To(Equal(
			"root=/dev/mapper/vg0-root rootfstype=btrfs rootflags=subvol=root-b"))
	})

	It("skips rootfstype when the filesystem type is unknown", func() {
		info := RootDeviceInfo{
			Topology: TopologyPlain,
			RootArg:  "/dev/sda2",
		}

		Expect(BuildCmdline(info, "root-b")).To(Equal(
			"root=/dev/sda2 rootflags=subvol=root-b"))
	})

	It("passes the subvolume through verbatim", func() {
		info := RootDeviceInfo{Topology: TopologyPlain, RootArg: "/dev/sda2"}

		Expect(BuildCmdline(info, "/root-b/")).To(Equal(
			"root=/dev/sda2 rootflags=subvol=/root-b/"))
	})
})
