package mbaas

import (
	"slices"
	"sync"

	"github.com/mbaas/mbaas.go/pkg/constants"
	"github.com/mbaas/mbaas.go/pkg/models"
)

// Record is a persistable object of one kind. It keeps every known field and
// the set of fields changed since the last successful fetch, save or delete.
//
// A Record is safe for concurrent use.
type Record struct {
	mu     sync.RWMutex
	kind   string
	keys   []string
	fields map[string]models.Value
	dirty  map[string]struct{}
}

// NewRecord creates an empty record of the given kind.
func NewRecord(kind string) *Record {
	return &Record{
		kind:   kind,
		fields: map[string]models.Value{},
		dirty:  map[string]struct{}{},
	}
}

// NewRecordFromMap creates a record from a decoded response object.
// No field is dirty afterwards.
func NewRecordFromMap(kind string, raw map[string]any) (*Record, error) {
	values, err := models.ValuesOf(raw)
	if err != nil {
		return nil, err
	}
	r := NewRecord(kind)
	r.replaceAll(values)
	return r, nil
}

// Kind returns the kind r was created with.
func (r *Record) Kind() string {
	return r.kind
}

// Get returns the value of field, or nil when the record has no such field.
// A removed field returns models.Null.
func (r *Record) Get(field string) models.Value {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fields[field]
}

// GetString returns the value of field when it is a string.
func (r *Record) GetString(field string) (string, bool) {
	s, ok := r.Get(field).(models.String)
	return string(s), ok
}

// Set assigns value to field and marks it dirty. Fields reserved for the kind
// are left untouched.
func (r *Record) Set(field string, value models.Value) {
	if IsIgnored(r.kind, field) {
		return
	}
	if value == nil {
		value = models.Null{}
	}
	r.setDirect(field, value, true)
}

// Remove replaces field with an explicit null so the next save clears it on the
// service.
func (r *Record) Remove(field string) {
	if IsIgnored(r.kind, field) {
		return
	}
	r.setDirect(field, models.Null{}, true)
}

// IsDirty reports whether field changed since the last successful sync.
func (r *Record) IsDirty(field string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.dirty[field]
	return ok
}

// DirtyFields returns the changed field names in sorted order.
func (r *Record) DirtyFields() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.dirty))
	for k := range r.dirty {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Keys returns field names in the order they were first stored.
func (r *Record) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.keys)
}

// ObjectID returns the identity assigned by the service, or "" for a record
// that was never saved.
func (r *Record) ObjectID() string {
	id, _ := r.GetString(constants.FieldObjectID)
	return id
}

// HasObjectID reports whether r exists on the service.
func (r *Record) HasObjectID() bool {
	return r.ObjectID() != ""
}

// SetObjectID points the record at an existing object without dirtying it.
func (r *Record) SetObjectID(id string) {
	if id == "" {
		r.deleteField(constants.FieldObjectID)
		return
	}
	r.setDirect(constants.FieldObjectID, models.String(id), false)
}

// ACL returns the access control map, or nil.
func (r *Record) ACL() models.Map {
	acl, _ := r.Get(constants.FieldACL).(models.Map)
	return acl
}

// SetACL stages an access control list such as {"*":{"read":true}}.
func (r *Record) SetACL(acl models.Map) {
	r.setDirect(constants.FieldACL, acl, true)
}

// CreateDate returns the service creation time, if known.
func (r *Record) CreateDate() (models.Date, bool) {
	return r.dateOf(constants.FieldCreateDate)
}

// UpdateDate returns the time of the last update, if known.
func (r *Record) UpdateDate() (models.Date, bool) {
	return r.dateOf(constants.FieldUpdateDate)
}

// Pointer references this record. It reports false until the record has an
// objectId.
func (r *Record) Pointer() (models.Pointer, bool) {
	id := r.ObjectID()
	if id == "" {
		return models.Pointer{}, false
	}
	return models.NewPointer(r.kind, id), true
}

// Clone returns a deep copy sharing no state with r.
func (r *Record) Clone() *Record {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c := NewRecord(r.kind)
	c.keys = slices.Clone(r.keys)
	for k, v := range r.fields {
		c.fields[k] = cloneValue(v)
	}
	for k := range r.dirty {
		c.dirty[k] = struct{}{}
	}
	return c
}

func (r *Record) dateOf(field string) (models.Date, bool) {
	switch v := r.Get(field).(type) {
	case models.Date:
		return v, true
	case models.String:
		d, err := models.ParseDate(string(v))
		return d, err == nil
	}
	return models.Date{}, false
}

func (r *Record) setDirect(field string, value models.Value, dirty bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store(field, value)
	if dirty {
		r.dirty[field] = struct{}{}
	}
}

func (r *Record) deleteField(field string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.fields[field]; !ok {
		return
	}
	delete(r.fields, field)
	delete(r.dirty, field)
	r.keys = slices.DeleteFunc(r.keys, func(k string) bool { return k == field })
}

// store must be called with mu held.
func (r *Record) store(field string, value models.Value) {
	if _, ok := r.fields[field]; !ok {
		r.keys = append(r.keys, field)
	}
	r.fields[field] = value
}

// merge overwrites fields present in values, keeps the rest and clears the
// dirty set.
func (r *Record) merge(values map[string]models.Value) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, k := range sortedKeys(values) {
		r.store(k, values[k])
	}
	r.dirty = map[string]struct{}{}
}

// replaceAll swaps every field for values and clears the dirty set.
func (r *Record) replaceAll(values map[string]models.Value) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.keys = nil
	r.fields = make(map[string]models.Value, len(values))
	for _, k := range sortedKeys(values) {
		r.store(k, values[k])
	}
	r.dirty = map[string]struct{}{}
}

func (r *Record) reset() {
	r.replaceAll(nil)
}

// snapshot copies fields and the dirty set under a single lock.
func (r *Record) snapshot() (map[string]models.Value, map[string]struct{}) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fields := make(map[string]models.Value, len(r.fields))
	for k, v := range r.fields {
		fields[k] = v
	}
	dirty := make(map[string]struct{}, len(r.dirty))
	for k := range r.dirty {
		dirty[k] = struct{}{}
	}
	return fields, dirty
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func cloneValue(v models.Value) models.Value {
	switch val := v.(type) {
	case models.Array:
		out := make(models.Array, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case models.Map:
		out := make(models.Map, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	case models.RelationEdit:
		val.Objects = slices.Clone(val.Objects)
		return val
	}
	return v
}

func (r *Record) clearDirty() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dirty = map[string]struct{}{}
}
