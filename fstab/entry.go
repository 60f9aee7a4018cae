package fstab

import (
	"fmt"
	"strings"
)

const subvolOptionPrefix = "subvol="

// Entry represents a single fstab line. Blank lines, comments and lines
// with fewer than four fields are carried as opaque raw text so a write
// cycle reproduces them byte for byte.
type Entry struct {
	Device     string
	MountPoint string
	FsType     string
	Options    string
	Dump       string
	PassNo     string

	raw    string
	isData bool
}

func ParseEntry(line string) Entry {
	stripped := strings.TrimSpace(line)
	if stripped == "" || strings.HasPrefix(stripped, "#") {
		return Entry{raw: line}
	}

	fields := strings.Fields(stripped)
	if len(fields) < 4 {
		return Entry{raw: line}
	}

	entry := Entry{
		raw:        line,
		Device:     fields[0],
		MountPoint: fields[1],
		FsType:     fields[2],
		Options:    fields[3],
		Dump:       "0",
		PassNo:     "0",
		isData:     true,
	}
	if len(fields) > 4 {
		entry.Dump = fields[4]
	}
	if len(fields) > 5 {
		entry.PassNo = fields[5]
	}

	return entry
}

func (e Entry) IsData() bool { return e.isData }

// ReplaceSubvol rewrites subvol=<oldSubvol> options to point at newSubvol,
// keeping the leading slash style of the original value. Reports whether
// any option was rewritten.
func (e *Entry) ReplaceSubvol(oldSubvol, newSubvol string) bool {
	if !e.isData {
		return false
	}

	oldNorm := strings.Trim(oldSubvol, "/")
	newNorm := strings.Trim(newSubvol, "/")

	changed := false
	options := strings.Split(e.Options, ",")
	result := make([]string, 0, len(options))

	for _, option := range options {
		if strings.HasPrefix(option, subvolOptionPrefix) {
			value := option[len(subvolOptionPrefix):]
			if strings.TrimLeft(value, "/") == oldNorm {
				prefix := ""
				if strings.HasPrefix(value, "/") {
					prefix = "/"
				}
				result = append(result, subvolOptionPrefix+prefix+newNorm)
				changed = true
				continue
			}
		}
		result = append(result, option)
	}

	if changed {
		e.Options = strings.Join(result, ",")
	}

	return changed
}

// Format serializes the entry back to a single fstab line. Data entries are
// normalized to tab separated fields; non-data entries return the original
// text unchanged.
func (e Entry) Format() string {
	if !e.isData {
		return e.raw
	}

	return fmt.Sprintf("%s\t%s\t%s\t%s\t%s %s\n",
		e.Device, e.MountPoint, e.FsType, e.Options, e.Dump, e.PassNo)
}
