package localstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps one JSON file per slot under a state directory. Writes go
// through a temp file and rename so a crash mid-write never leaves a
// half-written slot behind.
type FileStore struct {
	dir string
}

// NewFileStore creates the state directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("state directory required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) path(slot string) (string, error) {
	if slot == "" || slot != filepath.Base(slot) || strings.ContainsAny(slot, "./\\") {
		return "", fmt.Errorf("invalid slot name %q", slot)
	}
	return filepath.Join(f.dir, slot+".json"), nil
}

func (f *FileStore) Get(_ context.Context, slot string) ([]byte, error) {
	path, err := f.path(slot)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading slot %s: %w", slot, err)
	}
	return data, nil
}

func (f *FileStore) Set(_ context.Context, slot string, data []byte) error {
	path, err := f.path(slot)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(f.dir, slot+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file for slot %s: %w", slot, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing slot %s: %w", slot, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing slot %s: %w", slot, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("committing slot %s: %w", slot, err)
	}
	return nil
}

func (f *FileStore) Delete(_ context.Context, slot string) error {
	path, err := f.path(slot)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting slot %s: %w", slot, err)
	}
	return nil
}

func (f *FileStore) Close() error { return nil }
