// Package store persists the canonical tracker records and the lock tree.
// Records are held as opaque strings keyed by tracker kind; the store never
// interprets them. The lock tree persists independently of record content
// and is never cleared by parsing.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"tracknerd/internal/lock"
	"tracknerd/internal/track"
)

// Store is the settings boundary the pipeline writes through. Get reports
// the last successfully parsed record for a kind; Set overwrites it. Locks
// returns the live lock tree, mutated in place through its own methods.
type Store interface {
	Get(kind track.Kind) (string, bool)
	Set(kind track.Kind, record string)
	Locks() *lock.Tree
}

// Memory is an in-process Store.
type Memory struct {
	mu      sync.Mutex
	records map[track.Kind]string
	locks   *lock.Tree
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		records: make(map[track.Kind]string),
		locks:   lock.NewTree(),
	}
}

func (m *Memory) Get(kind track.Kind) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[kind]
	return rec, ok
}

func (m *Memory) Set(kind track.Kind, record string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[kind] = record
}

func (m *Memory) Locks() *lock.Tree {
	return m.locks
}

// settingsBlob is the single persisted settings object.
type settingsBlob struct {
	Trackers    map[track.Kind]string `json:"trackers"`
	LockedItems *lock.Tree            `json:"lockedItems"`
}

// File is a Store backed by one JSON settings file. Mutations are held in
// memory until Save; Load replaces the in-memory state wholesale.
type File struct {
	Memory
	path string
}

// NewFile returns a file-backed store without touching the disk.
func NewFile(path string) *File {
	f := &File{path: path}
	f.records = make(map[track.Kind]string)
	f.locks = lock.NewTree()
	return f
}

// Load reads the settings file. A missing file is an empty store, not an
// error.
func (f *File) Load() error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read settings %s: %w", f.path, err)
	}
	blob := settingsBlob{LockedItems: lock.NewTree()}
	if err := json.Unmarshal(data, &blob); err != nil {
		return fmt.Errorf("parse settings %s: %w", f.path, err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = make(map[track.Kind]string)
	for kind, rec := range blob.Trackers {
		if kind.Valid() {
			f.records[kind] = rec
		}
	}
	if blob.LockedItems != nil {
		f.locks = blob.LockedItems
	}
	return nil
}

// Save writes the settings file atomically via a sibling temp file.
func (f *File) Save() error {
	f.mu.Lock()
	blob := settingsBlob{
		Trackers:    make(map[track.Kind]string, len(f.records)),
		LockedItems: f.locks,
	}
	for kind, rec := range f.records {
		blob.Trackers[kind] = rec
	}
	f.mu.Unlock()

	data, err := json.MarshalIndent(blob, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create settings dir: %w", err)
		}
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write settings %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace settings %s: %w", f.path, err)
	}
	return nil
}
