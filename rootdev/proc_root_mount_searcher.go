package rootdev

import (
	"strings"

	bosherr "github.com/cloudfoundry/bosh-utils/errors"
	boshsys "github.com/cloudfoundry/bosh-utils/system"
)

type procRootMountSearcher struct {
	fs boshsys.FileSystem
}

// NewProcRootMountSearcher reads the root mount from /proc/mounts. It is
// the fallback source for hosts without findmnt.
func NewProcRootMountSearcher(fs boshsys.FileSystem) RootMountSearcher {
	return procRootMountSearcher{fs}
}

func (s procRootMountSearcher) SearchRootMount() (RootMount, error) {
	mountInfo, err := s.fs.ReadFileString("/proc/mounts")
	if err != nil {
		return RootMount{}, bosherr.WrapError(err, "Reading /proc/mounts")
	}

	found := false
	rootMount := RootMount{}

	// Later entries shadow earlier ones, so the last match wins.
	for _, mountEntry := range strings.Split(mountInfo, "\n") {
		if mountEntry == "" {
			continue
		}

		mountFields := strings.Fields(mountEntry)
		if len(mountFields) < 4 || mountFields[1] != "/" {
			continue
		}

		rootMount = RootMount{
			Source:  mountFields[0],
			FsType:  mountFields[2],
			Options: mountFields[3],
		}
		found = true
	}

	if !found {
		return RootMount{}, bosherr.Error("No root entry in /proc/mounts")
	}

	return rootMount, nil
}
