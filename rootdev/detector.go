package rootdev

import (
	"path"
	"regexp"
	"strings"

	bosherr "github.com/cloudfoundry/bosh-utils/errors"
	boshlog "github.com/cloudfoundry/bosh-utils/logger"
)

const detectorLogTag = "rootDeviceDetector"

var dmNodePattern = regexp.MustCompile(`^/dev/dm-\d+$`)

type Detector interface {
	DetectRoot() (RootDeviceInfo, error)
}

type linuxDetector struct {
	searcher RootMountSearcher
	runner   CmdRunner
	logger   boshlog.Logger
}

func NewDetector(searcher RootMountSearcher, runner CmdRunner, logger boshlog.Logger) Detector {
	return linuxDetector{searcher: searcher, runner: runner, logger: logger}
}

// DetectRoot resolves the block device backing the root mount and walks the
// device-mapper stack beneath it, at most one crypt layer and one LVM layer
// deep. Failed introspection commands count as no evidence for that layer
// rather than aborting detection.
func (d linuxDetector) DetectRoot() (RootDeviceInfo, error) {
	rootMount, err := d.searcher.SearchRootMount()
	if err != nil {
		return RootDeviceInfo{}, bosherr.WrapError(err, "Searching root mount")
	}

	source := rootMount.Source

	// btrfs sources carry the mounted subvolume in brackets, e.g.
	// /dev/mapper/root_crypt[/root-20260208]. Strip it to get the device.
	if idx := strings.Index(source, "["); idx >= 0 {
		source = source[:idx]
	}

	info := RootDeviceInfo{
		Source:   source,
		FsType:   rootMount.FsType,
		Subvol:   subvolOption(rootMount.Options),
		Topology: TopologyPlain,
		RootArg:  source,
	}

	if isMapperNode(source) {
		d.classifyMapper(path.Base(source), &info)
	}

	return info, nil
}

func subvolOption(options string) string {
	for _, option := range strings.Split(options, ",") {
		if strings.HasPrefix(option, "subvol=") {
			return strings.SplitN(option, "=", 2)[1]
		}
	}
	return ""
}

func isMapperNode(source string) bool {
	return strings.Contains(source, "/mapper/") || dmNodePattern.MatchString(source)
}

func (d linuxDetector) classifyMapper(mapperName string, info *RootDeviceInfo) {
	if d.hasCryptTable(mapperName) {
		info.Topology = TopologyLUKS
		info.RootArg = "/dev/mapper/" + mapperName
		info.LuksUUID, info.LuksName = d.resolveLuksIdentity(mapperName)
		// A crypt layer directly under the mount ends the walk.
		return
	}

	lvInfo := d.runQuery("lvs", "--noheadings", "-o", "vg_name,lv_name", "/dev/mapper/"+mapperName)
	if lvInfo == "" {
		// Unknown mapper target type, classification stays plain.
		d.logger.Debug(detectorLogTag, "Mapper node %s is neither crypt nor LVM", mapperName)
		return
	}

	info.Topology = TopologyLVM
	info.RootArg = "/dev/mapper/" + mapperName

	vgName := strings.Fields(lvInfo)[0]
	pvs := strings.Fields(d.runQuery("pvs", "--noheadings", "-o", "pv_name", "-S", "vg_name="+vgName))
	if len(pvs) != 1 || !isMapperNode(pvs[0]) {
		return
	}

	pvMapperName := path.Base(pvs[0])
	if d.hasCryptTable(pvMapperName) {
		info.Topology = TopologyLUKSOverLVM
		info.LuksUUID, info.LuksName = d.resolveLuksIdentity(pvMapperName)
	}
}

func (d linuxDetector) hasCryptTable(mapperName string) bool {
	return d.runQuery("dmsetup", "table", "--target", "crypt", mapperName) != ""
}

// resolveLuksIdentity finds the device beneath a crypt mapping and resolves
// its UUID. Both values are returned empty when either lookup fails, so a
// mapping name is never reported without its container UUID.
func (d linuxDetector) resolveLuksIdentity(mapperName string) (uuid, name string) {
	status := d.runQuery("cryptsetup", "status", mapperName)
	for _, line := range strings.Split(status, "\n") {
		if !strings.Contains(line, "device:") {
			continue
		}

		fields := strings.Fields(line)
		underlyingDevice := fields[len(fields)-1]

		uuid = d.runQuery("blkid", "-s", "UUID", "-o", "value", underlyingDevice)
		if uuid != "" {
			return uuid, mapperName
		}
		break
	}

	return "", ""
}

// runQuery treats any command failure as an empty result. The caller reads
// empty output as "no evidence for this classification".
func (d linuxDetector) runQuery(cmdName string, args ...string) string {
	stdout, _, _, err := d.runner.RunCommand(cmdName, args...)
	if err != nil {
		d.logger.Debug(detectorLogTag, "Query %s failed: %s", cmdName, err.Error())
		return ""
	}
	return strings.TrimSpace(stdout)
}
