package mbaas

import (
	"fmt"
	"sync"

	"github.com/mbaas/mbaas.go/pkg/codec"
	"github.com/mbaas/mbaas.go/pkg/constants"
	"github.com/mbaas/mbaas.go/pkg/filestore"
	"github.com/mbaas/mbaas.go/pkg/logger"
	"github.com/mbaas/mbaas.go/pkg/models"
)

// CurrentStore owns the current user and the current installation and mirrors
// them to a file store.
//
// A slot is read from the file store the first time it is accessed. Once set
// in memory it is authoritative until Clear or Load. The store keeps its own
// copies, so records handed in or out never alias its state.
type CurrentStore struct {
	mu    sync.Mutex
	files filestore.FileStore
	codec codec.Codec
	log   logger.Logger
	slots map[filestore.Kind]*currentSlot
}

type currentSlot struct {
	loaded bool
	record *Record
}

var slotKinds = map[filestore.Kind]string{
	filestore.CurrentUser:         constants.KindUser,
	filestore.CurrentInstallation: constants.KindInstallation,
}

// NewCurrentStore creates a store backed by files. Nil arguments fall back to
// an in-memory file store, the JSON codec and a no-op logger.
func NewCurrentStore(files filestore.FileStore, c codec.Codec, log logger.Logger) *CurrentStore {
	if files == nil {
		files = filestore.NewMemory()
	}
	if c == nil {
		c = codec.JSON()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &CurrentStore{
		files: files,
		codec: c,
		log:   log,
		slots: map[filestore.Kind]*currentSlot{},
	}
}

// Get returns a copy of the current record for kind, or nil when there is none.
func (s *CurrentStore) Get(kind filestore.Kind) *Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot := s.slotLocked(kind)
	if !slot.loaded {
		slot.record = s.readLocked(kind)
		slot.loaded = true
	}
	if slot.record == nil {
		return nil
	}
	return slot.record.Clone()
}

// ObjectID returns the identity of the current record for kind, or "".
func (s *CurrentStore) ObjectID(kind filestore.Kind) string {
	if r := s.Get(kind); r != nil {
		return r.ObjectID()
	}
	return ""
}

// Load rereads kind from the file store, dropping what is in memory.
func (s *CurrentStore) Load(kind filestore.Kind) *Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot := s.slotLocked(kind)
	slot.record = s.readLocked(kind)
	slot.loaded = true
	if slot.record == nil {
		return nil
	}
	return slot.record.Clone()
}

// Replace makes a copy of r the current record for kind and persists it.
// A user's password is not kept. The in-memory slot is updated even when
// persisting fails.
func (s *CurrentStore) Replace(kind filestore.Kind, r *Record) error {
	c := r.Clone()
	c.clearDirty()
	if kind == filestore.CurrentUser {
		c.deleteField(constants.FieldPassword)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	slot := s.slotLocked(kind)
	slot.record = c
	slot.loaded = true

	fields, _ := c.snapshot()
	blob, err := s.codec.Marshal(models.EncodeMap(fields))
	if err != nil {
		return fmt.Errorf("encode %s: %w", kind, err)
	}
	if err := s.files.Save(kind, blob); err != nil {
		return fmt.Errorf("save %s: %w", kind, err)
	}
	return nil
}

// Clear forgets the current record for kind in memory and in the file store.
func (s *CurrentStore) Clear(kind filestore.Kind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot := s.slotLocked(kind)
	slot.record = nil
	slot.loaded = true

	if err := s.files.Delete(kind); err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}
	return nil
}

func (s *CurrentStore) slotLocked(kind filestore.Kind) *currentSlot {
	slot, ok := s.slots[kind]
	if !ok {
		slot = &currentSlot{}
		s.slots[kind] = slot
	}
	return slot
}

// readLocked never fails: a missing or unreadable blob means no current record.
func (s *CurrentStore) readLocked(kind filestore.Kind) *Record {
	blob, err := s.files.Load(kind)
	if err != nil {
		s.log.Warn("failed to load current object", "kind", kind, "error", err)
		return nil
	}
	if blob == nil {
		return nil
	}

	var raw map[string]any
	if err := s.codec.Unmarshal(blob, &raw); err != nil {
		s.log.Warn("discarding unreadable current object", "kind", kind, "error", err)
		return nil
	}
	if raw == nil {
		return nil
	}
	r, err := NewRecordFromMap(slotKinds[kind], raw)
	if err != nil {
		s.log.Warn("discarding unreadable current object", "kind", kind, "error", err)
		return nil
	}
	return r
}
