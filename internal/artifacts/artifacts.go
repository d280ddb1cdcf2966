package artifacts

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/releaser/internal/logfields"
)

var (
	// ErrUnsafePath rejects output directories whose removal would destroy the project or more.
	ErrUnsafePath = errors.New("releaser: unsafe output directory")
	// ErrNoArtifacts reports an output directory without publishable entries.
	ErrNoArtifacts = errors.New("releaser: no artifacts in output directory")
)

// ValidatePath checks that path can be removed recursively without touching
// the working directory, one of its parents or the filesystem root.
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: path is empty", ErrUnsafePath)
	}
	cleaned := filepath.Clean(path)
	if cleaned == "." || cleaned == string(filepath.Separator) || cleaned == filepath.VolumeName(cleaned)+string(filepath.Separator) {
		return fmt.Errorf("%w: %q", ErrUnsafePath, path)
	}
	for _, part := range strings.Split(filepath.ToSlash(cleaned), "/") {
		if part != ".." {
			return nil
		}
	}
	return fmt.Errorf("%w: %q is a parent of the working directory", ErrUnsafePath, path)
}

// Dir is the staging directory shared by the build and publish steps.
type Dir struct {
	path string
}

// New returns a Dir for path. Call ValidatePath first; Clean refuses unsafe paths regardless.
func New(path string) *Dir {
	return &Dir{path: path}
}

// Path returns the directory path as configured.
func (d *Dir) Path() string {
	return d.path
}

// Exists reports whether the directory is currently present.
func (d *Dir) Exists() (bool, error) {
	info, err := os.Stat(d.path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !info.IsDir() {
		return true, fmt.Errorf("%s is not a directory", d.path)
	}
	return true, nil
}

// Clean removes the directory and everything below it. A missing directory is
// not an error, so Clean is idempotent.
func (d *Dir) Clean() error {
	if err := ValidatePath(d.path); err != nil {
		return err
	}
	if err := os.RemoveAll(d.path); err != nil {
		return fmt.Errorf("remove %s: %w", d.path, err)
	}
	slog.Debug("Removed output directory", logfields.OutputDir(d.path))
	return nil
}

// List enumerates the publishable entries of the directory: every top-level
// entry not starting with a dot, joined with the directory path and sorted,
// which is what the shell expands `<dir>/*` to. A missing directory is an error.
func (d *Dir) List() ([]string, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", d.path, err)
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		paths = append(paths, filepath.Join(d.path, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// RequireNonEmpty lists the directory and fails if it is missing or empty.
func (d *Dir) RequireNonEmpty() ([]string, error) {
	paths, err := d.List()
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoArtifacts, d.path)
	}
	return paths, nil
}
