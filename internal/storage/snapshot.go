package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"campus-lostfound/internal/items"
)

// FileSnapshotRepository keeps the snapshot in a single indented JSON file.
type FileSnapshotRepository struct {
	path string
	mu   sync.Mutex
}

func NewFileSnapshotRepository(path string) *FileSnapshotRepository {
	return &FileSnapshotRepository{path: path}
}

func (r *FileSnapshotRepository) Path() string { return r.path }

// Load returns an empty snapshot when the file does not exist yet.
func (r *FileSnapshotRepository) Load() (items.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return items.Snapshot{}, nil
		}
		return items.Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	var snap items.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return items.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}

// Save overwrites the file. Data goes to a sibling temp file first and is renamed into place.
func (r *FileSnapshotRepository) Save(snapshot items.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if snapshot.Lost == nil {
		snapshot.Lost = []items.Item{}
	}
	if snapshot.Found == nil {
		snapshot.Found = []items.Item{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(snapshot); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure dir: %w", err)
		}
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}
