package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"code.cloudfoundry.org/clock"
	boshlog "github.com/cloudfoundry/bosh-utils/logger"
	boshsys "github.com/cloudfoundry/bosh-utils/system"

	"github.com/atomic-upgrade/upgrade-tools/rootdev"
	"github.com/atomic-upgrade/upgrade-tools/timeoutrunner"
)

const (
	mainLogTag     = "main"
	commandTimeout = 10 * time.Second
)

func main() {
	logger := boshlog.NewLogger(boshlog.LevelWarn)
	defer logger.HandlePanic("Main")

	if len(os.Args) < 2 {
		usage()
	}

	detector := newDetector(logger)

	switch os.Args[1] {
	case "detect":
		info := detectOrExit(detector, logger)
		output, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			logger.Error(mainLogTag, "Encoding root device info: %s", err.Error())
			os.Exit(1)
		}
		fmt.Println(string(output))

	case "cmdline":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "ERROR: SUBVOL argument required")
			os.Exit(1)
		}
		info := detectOrExit(detector, logger)
		fmt.Println(rootdev.BuildCmdline(info, os.Args[2]))

	case "device":
		info := detectOrExit(detector, logger)
		fmt.Println(info.Source)

	default:
		usage()
	}
}

func newDetector(logger boshlog.Logger) rootdev.Detector {
	fs := boshsys.NewOsFileSystem(logger)
	runner := timeoutrunner.NewRunner(boshsys.NewExecCmdRunner(logger), clock.NewClock(), commandTimeout)

	var searcher rootdev.RootMountSearcher
	if runner.CommandExists("findmnt") {
		searcher = rootdev.NewFindmntRootMountSearcher(runner)
	} else {
		searcher = rootdev.NewProcRootMountSearcher(fs)
	}

	return rootdev.NewDetector(searcher, runner, logger)
}

func detectOrExit(detector rootdev.Detector, logger boshlog.Logger) rootdev.RootDeviceInfo {
	info, err := detector.DetectRoot()
	if err != nil {
		logger.Error(mainLogTag, "Detecting root device: %s", err.Error())
		os.Exit(1)
	}
	return info
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s detect|cmdline|device [SUBVOL]\n", os.Args[0])
	os.Exit(1)
}
