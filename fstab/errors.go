package fstab

import "fmt"

// FileNotFoundError records an update attempt against a path that does not
// reference an existing regular file.
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("fstab not found: %s", e.Path)
}

// NoRootEntryError records an fstab with no '/' mount entry.
type NoRootEntryError struct {
	Path string
}

func (e *NoRootEntryError) Error() string {
	return fmt.Sprintf("no root (/) entry found in %s", e.Path)
}

// SubvolNotFoundError records a root entry whose options never mention the
// requested subvolume.
type SubvolNotFoundError struct {
	Path   string
	Subvol string
}

func (e *SubvolNotFoundError) Error() string {
	return fmt.Sprintf("root entry exists but subvol=%s not found in %s", e.Subvol, e.Path)
}

// VerificationError records a committed file that failed the post-write
// content check. The original content has already been restored from the
// backup by the time this error is returned.
type VerificationError struct {
	Path   string
	Subvol string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("verification failed for %s: subvol=%s not present after commit, backup restored", e.Path, e.Subvol)
}
