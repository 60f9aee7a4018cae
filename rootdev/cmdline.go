package rootdev

import (
	"fmt"
	"strings"
)

// BuildCmdline renders the kernel cmdline fragment for booting from
// newSubvol on the detected root device. Argument order is load bearing:
// initramfs hooks expect the LUKS unlock directive before root=.
func BuildCmdline(info RootDeviceInfo, newSubvol string) string {
	args := []string{}

	if (info.Topology == TopologyLUKS || info.Topology == TopologyLUKSOverLVM) && info.LuksUUID != "" {
		args = append(args, fmt.Sprintf("rd.luks.name=%s=%s", info.LuksUUID, info.LuksName))
	}

	args = append(args, "root="+info.RootArg)

	if info.FsType != "" {
		args = append(args, "rootfstype="+info.FsType)
	}

	args = append(args, "rootflags=subvol="+newSubvol)

	return strings.Join(args, " ")
}
