package rootdev

// RootMount describes the filesystem currently mounted at /.
type RootMount struct {
	Source  string
	FsType  string
	Options string
}

type RootMountSearcher interface {
	SearchRootMount() (RootMount, error)
}

// CmdRunner runs an external introspection tool and returns its captured
// output. Implementations are expected to bound each run by a timeout.
type CmdRunner interface {
	RunCommand(cmdName string, args ...string) (stdout, stderr string, exitStatus int, err error)
	CommandExists(cmdName string) bool
}
