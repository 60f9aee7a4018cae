package rootdev

import (
	"encoding/json"

	bosherr "github.com/cloudfoundry/bosh-utils/errors"
)

type findmntRootMountSearcher struct {
	runner CmdRunner
}

func NewFindmntRootMountSearcher(runner CmdRunner) RootMountSearcher {
	return findmntRootMountSearcher{runner}
}

type findmntOutput struct {
	Filesystems []findmntFilesystem `json:"filesystems"`
}

type findmntFilesystem struct {
	Source  string `json:"source"`
	FsType  string `json:"fstype"`
	Options string `json:"options"`
}

func (s findmntRootMountSearcher) SearchRootMount() (RootMount, error) {
	stdout, _, _, err := s.runner.RunCommand("findmnt", "-n", "-J", "-o", "SOURCE,FSTYPE,OPTIONS", "/")
	if err != nil {
		return RootMount{}, bosherr.WrapError(err, "Running findmnt")
	}

	var output findmntOutput
	err = json.Unmarshal([]byte(stdout), &output)
	if err != nil {
		return RootMount{}, bosherr.WrapError(err, "Parsing findmnt output")
	}

	if len(output.Filesystems) == 0 {
		return RootMount{}, bosherr.Error("No root filesystem in findmnt output")
	}

	fs := output.Filesystems[0]

	return RootMount{Source: fs.Source, FsType: fs.FsType, Options: fs.Options}, nil
}
