package persist

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileBackend stores each slot as a JSON file under a directory. Writes
// go through a temp file and rename so a crash never leaves a
// half-written slot behind.
type FileBackend struct {
	dir string
}

// NewFileBackend creates the directory if needed and returns a backend
// rooted at it.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

func (b *FileBackend) path(slot Slot) string {
	return filepath.Join(b.dir, string(slot)+".json")
}

// Save writes the blob for a slot.
func (b *FileBackend) Save(_ context.Context, slot Slot, blob []byte) error {
	tmp := b.path(slot) + ".tmp"
	if err := os.WriteFile(tmp, blob, 0o644); err != nil {
		return fmt.Errorf("write slot %s: %w", slot, err)
	}
	if err := os.Rename(tmp, b.path(slot)); err != nil {
		return fmt.Errorf("rename slot %s: %w", slot, err)
	}
	return nil
}

// Load reads the blob for a slot; a missing file is reported as absent,
// not as an error.
func (b *FileBackend) Load(_ context.Context, slot Slot) ([]byte, bool, error) {
	blob, err := os.ReadFile(b.path(slot))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read slot %s: %w", slot, err)
	}
	return blob, true, nil
}
