package report

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalSink writes reports below a directory on the local filesystem.
type LocalSink struct {
	dir string
}

// runMarker is written by Reset so a directory left by an interrupted run is
// still recognised as report output.
const runMarker = ".reconcile-run"

// NewLocalSink creates a sink rooted at dir. Since Reset deletes the
// directory, "", ".", ".." and the working directory or any of its ancestors
// (the filesystem root included) are refused.
func NewLocalSink(dir string) (*LocalSink, error) {
	clean := filepath.Clean(dir)
	if dir == "" || clean == "." || clean == ".." {
		return nil, fmt.Errorf("refusing to use %q as report directory", dir)
	}
	abs, err := filepath.Abs(clean)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve report directory %q: %w", dir, err)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}
	if isAncestor(abs, wd) {
		return nil, fmt.Errorf("refusing to use %q as report directory: it contains the working directory", dir)
	}
	return &LocalSink{dir: clean}, nil
}

// isAncestor reports whether dir is path or one of its parents.
func isAncestor(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// Reset deletes and recreates the report directory. An existing non-empty
// directory is only deleted when it holds the output of a previous run.
func (s *LocalSink) Reset(ctx context.Context) error {
	entries, err := os.ReadDir(s.dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return fmt.Errorf("failed to read %s: %w", s.dir, err)
	case len(entries) > 0 && !holdsReport(entries):
		return fmt.Errorf("refusing to clear %s: it does not hold a previous report", s.dir)
	default:
		if err := os.RemoveAll(s.dir); err != nil {
			return fmt.Errorf("failed to clear %s: %w", s.dir, err)
		}
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", s.dir, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, runMarker), nil, 0o644); err != nil {
		return fmt.Errorf("failed to mark %s: %w", s.dir, err)
	}
	return nil
}

func holdsReport(entries []os.DirEntry) bool {
	for _, e := range entries {
		switch e.Name() {
		case runMarker, summaryJSON, summaryText:
			return true
		}
	}
	return false
}

// Write stores data in the file name, creating parent directories.
func (s *LocalSink) Write(ctx context.Context, name string, data []byte) error {
	path := s.path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", name, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Location returns the filesystem path of name.
func (s *LocalSink) Location(name string) string {
	return s.path(name)
}

func (s *LocalSink) path(name string) string {
	return filepath.Join(s.dir, filepath.FromSlash(name))
}
