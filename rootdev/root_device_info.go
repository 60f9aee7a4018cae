package rootdev

// Topology classifies the device-mapper stack between the root mount and
// the physical device. The string values are the wire format emitted by the
// detect command.
type Topology string

const (
	TopologyPlain       Topology = "plain"
	TopologyLUKS        Topology = "luks"
	TopologyLVM         Topology = "lvm"
	TopologyLUKSOverLVM Topology = "luks+lvm"
)

// RootDeviceInfo is a snapshot of the detected root device topology.
// LuksUUID and LuksName are set together or not at all; both are empty
// unless a crypt layer was found.
type RootDeviceInfo struct {
	Source   string   `json:"source"`
	FsType   string   `json:"fstype"`
	Subvol   string   `json:"subvol,omitempty"`
	Topology Topology `json:"type"`
	LuksUUID string   `json:"luks_uuid,omitempty"`
	LuksName string   `json:"luks_name,omitempty"`
	RootArg  string   `json:"root_arg"`
}
