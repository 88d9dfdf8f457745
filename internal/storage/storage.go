package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Tiliavir/trivial-calendar/internal/model"
	"github.com/Tiliavir/trivial-calendar/internal/store"
)

// DefaultFileName is the snapshot file inside the data directory.
const DefaultFileName = "calendarEvents.json"

// BaseDir returns the root data directory (~/.tcal).
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".tcal"), nil
}

// File persists the whole snapshot as one JSON file.
type File struct {
	Path string
}

// NewFile returns a File persister for path.
func NewFile(path string) *File {
	return &File{Path: path}
}

// Load reads the snapshot. A missing file is an empty snapshot. A file that
// does not decode is moved aside to <path>.corrupt, never replacing an older
// backup, and an empty snapshot is returned together with an error wrapping
// store.ErrCorruptState.
func (f *File) Load(_ context.Context) (model.Snapshot, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return model.Snapshot{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage error reading %s: %w", f.Path, err)
	}

	s, err := store.Decode(data)
	if err != nil {
		backupPath := f.backupPath()
		if renameErr := os.Rename(f.Path, backupPath); renameErr != nil {
			return model.Snapshot{}, fmt.Errorf("%s (backup failed: %v): %w", f.Path, renameErr, err)
		}
		return model.Snapshot{}, fmt.Errorf("%s (backed up to %s): %w", f.Path, backupPath, err)
	}
	return s, nil
}

// backupPath returns <path>.corrupt, or a timestamped variant when an earlier
// backup already exists.
func (f *File) backupPath() string {
	p := f.Path + ".corrupt"
	if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
		return p
	}
	return f.Path + ".corrupt-" + time.Now().Format("20060102T150405.000000000")
}

// Persist atomically replaces the file with s.
func (f *File) Persist(_ context.Context, s model.Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}

	data, err := store.Encode(s)
	if err != nil {
		return fmt.Errorf("storage error: %w", err)
	}

	// Atomic write: write to temp file then rename.
	tmpPath := f.Path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, f.Path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}
