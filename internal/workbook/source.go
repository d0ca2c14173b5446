package workbook

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// ErrNotFound is returned by a Source when the named workbook does not exist.
var ErrNotFound = errors.New("workbook not found")

// Source is where workbook bytes live. Stat must be cheap: the cache calls it
// on every load to detect modifications.
type Source interface {
	Stat(ctx context.Context, name string) (time.Time, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Describe(name string) string
}

// DirSource reads workbooks from a local directory.
type DirSource struct {
	Root string
}

func NewDirSource(root string) *DirSource {
	return &DirSource{Root: root}
}

func (s *DirSource) path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.Root, name)
}

func (s *DirSource) Stat(_ context.Context, name string) (time.Time, error) {
	p := s.path(name)
	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return time.Time{}, fmt.Errorf("%w: %s", ErrNotFound, p)
		}
		return time.Time{}, fmt.Errorf("stat %s: %w", p, err)
	}
	if info.IsDir() {
		return time.Time{}, fmt.Errorf("%s is a directory", p)
	}
	return info.ModTime(), nil
}

func (s *DirSource) Open(_ context.Context, name string) (io.ReadCloser, error) {
	p := s.path(name)
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
		}
		return nil, err
	}
	return f, nil
}

func (s *DirSource) Describe(name string) string {
	if abs, err := filepath.Abs(s.path(name)); err == nil {
		return abs
	}
	return s.path(name)
}
