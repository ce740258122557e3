package diskusage

import (
	"errors"
	"fmt"
)

// ErrDirectoryUnlistable is matched by every error caused by a directory
// whose contents could not be enumerated.
var ErrDirectoryUnlistable = errors.New("directory cannot be listed")

// ListError records a directory listing failure and its cause.
type ListError struct {
	// Path is the directory that could not be listed.
	Path string
	// Err is the underlying error.
	Err error
}

func (e *ListError) Error() string {
	return fmt.Sprintf("listing directory %q: %v", e.Path, e.Err)
}

// Unwrap exposes both ErrDirectoryUnlistable and the underlying cause.
func (e *ListError) Unwrap() []error {
	return []error{ErrDirectoryUnlistable, e.Err}
}

// DirectoryErrorPolicy decides what happens when a directory cannot be listed.
type DirectoryErrorPolicy string

const (
	// Abort fails the whole scan on the first unlistable directory.
	Abort DirectoryErrorPolicy = "abort"
	// SkipAndWarn treats an unlistable directory as empty, leaves it out of
	// the registry and emits a warning.
	SkipAndWarn DirectoryErrorPolicy = "skip"
)

// ParseDirectoryErrorPolicy converts s into a policy. The empty string
// yields Abort.
func ParseDirectoryErrorPolicy(s string) (DirectoryErrorPolicy, error) {
	switch DirectoryErrorPolicy(s) {
	case "", Abort:
		return Abort, nil
	case SkipAndWarn:
		return SkipAndWarn, nil
	default:
		return "", fmt.Errorf("invalid directory error policy %q: must be one of [%s %s]", s, Abort, SkipAndWarn)
	}
}
