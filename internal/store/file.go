package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/roach88/cauldron/internal/recipe"
)

// SaveFile writes the snapshot of s to path atomically: the bytes go to a
// temp file in the same directory which is then renamed over path.
func SaveFile(path string, s Snapshotter) error {
	payload, err := s.Snapshot()
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("save %s: create dir: %w", path, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("save %s: create temp: %w", path, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { os.Remove(tmpName) }

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("save %s: write: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("save %s: sync: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("save %s: close: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("save %s: rename: %w", path, err)
	}
	return nil
}

// LoadFile restores s from path. A missing file is NotFound; unreadable
// content is a DecodeFailure.
func LoadFile(path string, s Snapshotter) error {
	payload, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return recipe.NewNotFound("snapshot file", path)
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return s.Restore(payload)
}

// FreshFile writes an empty instance of kind to path and returns it.
func FreshFile(path, kind string) (Snapshotter, error) {
	s, err := EmptyInstance(kind)
	if err != nil {
		return nil, err
	}
	if err := SaveFile(path, s); err != nil {
		return nil, err
	}
	return s, nil
}

// FileBackend keeps one <kind>.json file per component under Dir.
type FileBackend struct {
	Dir string
}

// NewFileBackend returns a FileBackend rooted at dir.
func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{Dir: dir}
}

// Path returns the file that holds kind.
func (b *FileBackend) Path(kind string) string {
	return filepath.Join(b.Dir, kind+".json")
}

func (b *FileBackend) Save(ctx context.Context, kind string, s Snapshotter) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return SaveFile(b.Path(kind), s)
}

func (b *FileBackend) Load(ctx context.Context, kind string, s Snapshotter) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return LoadFile(b.Path(kind), s)
}

// Close is a no-op; files are closed after every write.
func (b *FileBackend) Close() error { return nil }

var (
	_ Backend = (*FileBackend)(nil)
	_ Backend = (*Store)(nil)
)
