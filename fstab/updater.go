package fstab

import (
	"os"
	"strings"
	"syscall"

	bosherr "github.com/cloudfoundry/bosh-utils/errors"
	boshlog "github.com/cloudfoundry/bosh-utils/logger"
	boshsys "github.com/cloudfoundry/bosh-utils/system"
)

const updaterLogTag = "fstabUpdater"

// Updater rewrites the subvol= option of the root (/) entries of an fstab
// file. The write path is backup, write to a temp sibling, atomic rename,
// re-read verification with rollback from the backup on failure.
type Updater struct {
	fs     boshsys.FileSystem
	logger boshlog.Logger
}

func NewUpdater(fs boshsys.FileSystem, logger boshlog.Logger) Updater {
	return Updater{fs: fs, logger: logger}
}

// Update points the root entries of the fstab at newSubvol. Only entries
// whose mountpoint is exactly "/" and whose options carry subvol=<oldSubvol>
// are touched. The pre-mutation copy at <path>.bak is left behind on success.
func (u Updater) Update(path, oldSubvol, newSubvol string) error {
	origStat, err := u.fs.Stat(path)
	if err != nil || !origStat.Mode().IsRegular() {
		return &FileNotFoundError{Path: path}
	}

	backupPath := path + ".bak"
	err = u.fs.CopyFile(path, backupPath)
	if err != nil {
		return bosherr.WrapErrorf(err, "Backing up %s to %s", path, backupPath)
	}

	content, err := u.fs.ReadFileString(path)
	if err != nil {
		return bosherr.WrapErrorf(err, "Reading %s", path)
	}

	entries := parseLines(content)

	rootEntries := []*Entry{}
	for i := range entries {
		if entries[i].IsData() && entries[i].MountPoint == "/" {
			rootEntries = append(rootEntries, &entries[i])
		}
	}
	if len(rootEntries) == 0 {
		return &NoRootEntryError{Path: path}
	}

	updated := 0
	for _, entry := range rootEntries {
		if entry.ReplaceSubvol(oldSubvol, newSubvol) {
			updated++
		}
	}
	if updated == 0 {
		return &SubvolNotFoundError{Path: path, Subvol: oldSubvol}
	}
	if updated > 1 {
		u.logger.Warn(updaterLogTag, "Multiple root entries updated (%d), review %s", updated, path)
	}

	var builder strings.Builder
	for _, entry := range entries {
		builder.WriteString(entry.Format())
	}

	tmpPath := path + ".tmp"
	err = u.fs.WriteFileString(tmpPath, builder.String())
	if err != nil {
		return bosherr.WrapErrorf(err, "Writing %s", tmpPath)
	}

	err = u.applyOwnership(tmpPath, origStat)
	if err != nil {
		return err
	}

	err = u.fs.Rename(tmpPath, path)
	if err != nil {
		return bosherr.WrapErrorf(err, "Renaming %s to %s", tmpPath, path)
	}

	return u.verify(path, backupPath, newSubvol)
}

func parseLines(content string) []Entry {
	lines := strings.SplitAfter(content, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		entries = append(entries, ParseEntry(line))
	}

	return entries
}

// applyOwnership carries the original file's owner and permission bits over
// to the temp file so the rename does not change them. Numeric ownership is
// only recoverable when the stat exposes the underlying syscall data.
func (u Updater) applyOwnership(tmpPath string, origStat os.FileInfo) error {
	if statT, ok := origStat.Sys().(*syscall.Stat_t); ok {
		err := os.Chown(tmpPath, int(statT.Uid), int(statT.Gid))
		if err != nil {
			return bosherr.WrapErrorf(err, "Setting ownership of %s", tmpPath)
		}
	}

	err := u.fs.Chmod(tmpPath, origStat.Mode().Perm())
	if err != nil {
		return bosherr.WrapErrorf(err, "Setting permissions of %s", tmpPath)
	}

	return nil
}

func (u Updater) verify(path, backupPath, newSubvol string) error {
	newNorm := strings.Trim(newSubvol, "/")

	content, readErr := u.fs.ReadFileString(path)
	if readErr == nil &&
		(strings.Contains(content, subvolOptionPrefix+"/"+newNorm) ||
			strings.Contains(content, subvolOptionPrefix+newNorm)) {
		return nil
	}

	u.logger.Error(updaterLogTag, "Verification of %s failed, restoring backup", path)

	err := u.fs.CopyFile(backupPath, path)
	if err != nil {
		return bosherr.WrapErrorf(err, "Restoring %s from %s", path, backupPath)
	}

	return &VerificationError{Path: path, Subvol: newNorm}
}
