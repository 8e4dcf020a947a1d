// Package reconcile materializes a compile output into the target
// directory. Before anything is deleted, the directory's existing content
// is checked against the generated footprint; a single foreign entry aborts
// the run with nothing touched.
package reconcile

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/espalier-dev/espalier/pkg/domain"
)

// File is one output file, Path slash-separated and relative to the target.
type File struct {
	Path    string
	Content string
}

// Entry is one immediate child of the target directory.
type Entry struct {
	Name  string
	IsDir bool
}

// Footprint describes what a generated target directory may contain: files
// carrying the configured prefix and the top-level directories of the new
// output.
type Footprint struct {
	Prefix  string
	Subdirs map[string]bool
}

// NewFootprint builds a footprint from the file prefix and top-level
// directory names.
func NewFootprint(prefix string, subdirs []string) Footprint {
	set := make(map[string]bool, len(subdirs))
	for _, d := range subdirs {
		set[d] = true
	}
	return Footprint{Prefix: prefix, Subdirs: set}
}

// Check decides whether every entry looks machine-generated. The decision
// is pure; callers pass the directory listing.
func Check(entries []Entry, fp Footprint) error {
	for _, e := range entries {
		if e.IsDir {
			if !fp.Subdirs[e.Name] {
				return fmt.Errorf("%w: directory %q", domain.ErrUnexpectedContent, e.Name)
			}
			continue
		}
		if !strings.HasPrefix(e.Name, fp.Prefix) {
			return fmt.Errorf("%w: file %q does not carry the prefix %q", domain.ErrUnexpectedContent, e.Name, fp.Prefix)
		}
	}
	return nil
}

// Reconcile replaces the target directory's content with the given files.
// A missing target directory is created; an existing one must pass Check
// before it is cleared.
func Reconcile(targetDir string, files []File, fp Footprint, log *slog.Logger) error {
	entries, err := os.ReadDir(targetDir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := os.MkdirAll(targetDir, 0o755); err != nil {
			return fmt.Errorf("create target directory: %w", err)
		}
		log.Debug("created target directory", "path", targetDir)
	case err != nil:
		return fmt.Errorf("read target directory: %w", err)
	}

	if err := Check(listing(entries), fp); err != nil {
		return err
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(targetDir, e.Name())); err != nil {
			return fmt.Errorf("clear %s: %w", e.Name(), err)
		}
	}
	log.Debug("cleared target directory", "path", targetDir, "entries", len(entries))

	for _, f := range files {
		full := filepath.Join(targetDir, filepath.FromSlash(f.Path))
		if dir := filepath.Dir(full); dir != targetDir {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create %s: %w", f.Path, err)
			}
		}
		if err := os.WriteFile(full, []byte(f.Content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", f.Path, err)
		}
	}
	log.Debug("wrote output", "path", targetDir, "files", len(files))
	return nil
}

func listing(entries []os.DirEntry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, Entry{Name: e.Name(), IsDir: e.IsDir()})
	}
	return out
}
