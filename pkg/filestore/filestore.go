// Package filestore persists the blobs behind the current user and current
// installation.
package filestore

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Kind names a persisted slot.
type Kind string

const (
	CurrentUser         Kind = "currentUser"
	CurrentInstallation Kind = "currentInstallation"
)

// FileStore is a key/value blob store. Load returns (nil, nil) for a slot that
// was never saved or was deleted.
type FileStore interface {
	Save(kind Kind, blob []byte) error
	Load(kind Kind) ([]byte, error)
	Delete(kind Kind) error
}

type Memory struct {
	mu    sync.RWMutex
	blobs map[Kind][]byte
}

// NewMemory returns a store that lives as long as the process.
func NewMemory() *Memory {
	return &Memory{blobs: map[Kind][]byte{}}
}

func (m *Memory) Save(kind Kind, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[kind] = append([]byte(nil), blob...)
	return nil
}

func (m *Memory) Load(kind Kind) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	blob, ok := m.blobs[kind]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), blob...), nil
}

func (m *Memory) Delete(kind Kind) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, kind)
	return nil
}

// Disk keeps one file per slot under Dir.
type Disk struct {
	Dir string

	mu sync.Mutex
}

// NewDisk stores one file per slot under dir, creating dir if needed.
func NewDisk(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create file store dir: %w", err)
	}
	return &Disk{Dir: dir}, nil
}

func (d *Disk) path(kind Kind) string {
	return filepath.Join(d.Dir, string(kind))
}

// Save writes through a temporary file so a crash never leaves a torn blob.
func (d *Disk) Save(kind Kind, blob []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	tmp, err := os.CreateTemp(d.Dir, string(kind)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), d.path(kind))
}

func (d *Disk) Load(kind Kind) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	blob, err := os.ReadFile(d.path(kind))
	if os.IsNotExist(err) {
		return nil, nil
	}
	return blob, err
}

func (d *Disk) Delete(kind Kind) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	err := os.Remove(d.path(kind))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
