package main

import (
	"fmt"
	"os"

	boshlog "github.com/cloudfoundry/bosh-utils/logger"
	boshsys "github.com/cloudfoundry/bosh-utils/system"

	"github.com/atomic-upgrade/upgrade-tools/fstab"
)

const mainLogTag = "main"

func main() {
	logger := boshlog.NewLogger(boshlog.LevelWarn)
	defer logger.HandlePanic("Main")

	if len(os.Args) != 4 {
		fmt.Fprintf(os.Stderr, "Usage: %s FSTAB_PATH OLD_SUBVOL NEW_SUBVOL\n", os.Args[0])
		os.Exit(1)
	}

	fs := boshsys.NewOsFileSystem(logger)
	updater := fstab.NewUpdater(fs, logger)

	err := updater.Update(os.Args[1], os.Args[2], os.Args[3])
	if err != nil {
		logger.Error(mainLogTag, "Updating fstab: %s", err.Error())
		os.Exit(1)
	}
}
