// Package loader validates and reads a JSON source file from disk.
package loader

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("jsonread.loader")

// FilesystemErrorKind classifies why loader.Load failed.
type FilesystemErrorKind int

const (
	// EmptyPath means the supplied path was the empty string.
	EmptyPath FilesystemErrorKind = iota
	// BadExtension means the path did not end in ".json" (case-insensitive).
	BadExtension
	// NotRegularFile means the path exists but is a directory, symlink to
	// one, or other non-regular file.
	NotRegularFile
	// NotFound means stat-ing the path failed.
	NotFound
	// ReadFailed means the path passed validation but reading its contents failed.
	ReadFailed
)

func (k FilesystemErrorKind) String() string {
	switch k {
	case EmptyPath:
		return "empty path"
	case BadExtension:
		return "bad extension"
	case NotRegularFile:
		return "not a regular file"
	case NotFound:
		return "not found"
	case ReadFailed:
		return "read failed"
	default:
		return "unknown"
	}
}

// FilesystemError reports which validation step failed for a given path,
// wrapping the underlying cause (if any) via juju/errors so callers can
// still inspect it with errors.Cause.
type FilesystemError struct {
	Kind FilesystemErrorKind
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	if e.Err != nil {
		return "loader: " + e.Kind.String() + ": " + e.Path + ": " + e.Err.Error()
	}
	return "loader: " + e.Kind.String() + ": " + e.Path
}

func (e *FilesystemError) Unwrap() error { return e.Err }

// Cause returns the root cause of the wrapped error (errors.Cause of Err),
// satisfying juju/errors' causer interface so errors.Cause and
// errors.IsNotFound see through a *FilesystemError and its trace to the
// juju/errors value underneath.
func (e *FilesystemError) Cause() error { return errors.Cause(e.Err) }

// IsNotFound reports whether err is, or wraps, a FilesystemError of kind
// NotFound.
func IsNotFound(err error) bool {
	return errors.IsNotFound(err)
}

// fail builds a FilesystemError, annotating any underlying cause through
// juju/errors so the chain reads clearly when the CLI prints it, while
// keeping *FilesystemError itself as the returned type so errors.As still
// finds it directly. A NotFound kind gets a dedicated errors.NotFoundf cause
// (traced to keep the stat error visible) so errors.IsNotFound recognizes it.
func fail(kind FilesystemErrorKind, path string, cause error) error {
	if kind == NotFound {
		var nf error
		if cause != nil {
			nf = errors.NotFoundf("path %s: %v", path, cause)
		} else {
			nf = errors.NotFoundf("path %s", path)
		}
		return &FilesystemError{Kind: kind, Path: path, Err: errors.Trace(nf)}
	}
	if cause != nil {
		cause = errors.Annotatef(cause, "path %s", path)
	}
	return &FilesystemError{Kind: kind, Path: path, Err: cause}
}

// Load validates path — non-empty, ".json" extension (case-insensitive),
// names a regular file — then reads and returns its contents in full.
func Load(path string) (string, error) {
	if path == "" {
		return "", fail(EmptyPath, path, nil)
	}
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		return "", fail(BadExtension, path, nil)
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fail(NotFound, path, err)
	}
	if !info.Mode().IsRegular() {
		return "", fail(NotRegularFile, path, nil)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fail(NotFound, path, err)
	}
	defer f.Close()

	logger.Debugf("loading %s (%d bytes)", path, info.Size())

	data, err := io.ReadAll(f)
	if err != nil {
		return "", fail(ReadFailed, path, err)
	}

	return string(data), nil
}
