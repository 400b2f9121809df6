package mbaas

import (
	"github.com/mbaas/mbaas.go/pkg/connection"
	"github.com/mbaas/mbaas.go/pkg/models"
)

// Payload returns the wire form of the dirty fields only. A record without
// changes yields an empty object.
func (r *Record) Payload() map[string]any {
	fields, dirty := r.snapshot()
	out := make(map[string]any, len(dirty))
	for k := range dirty {
		out[k] = models.Encode(fields[k])
	}
	return out
}

// FullPayload returns the wire form of every field the caller may send on
// create. Server managed and other reserved fields are left out unless a typed
// accessor changed them.
func (r *Record) FullPayload() map[string]any {
	fields, dirty := r.snapshot()
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if _, changed := dirty[k]; !changed && IsIgnored(r.kind, k) {
			continue
		}
		out[k] = models.Encode(v)
	}
	return out
}

// saveRequest chooses PUT with the diff for a persisted record and POST with
// the full payload for a new one.
func saveRequest(r *Record) *connection.Request {
	if id := r.ObjectID(); id != "" {
		return &connection.Request{
			Method: connection.MethodPut,
			Path:   PathOf(r.kind) + "/" + id,
			Body:   r.Payload(),
		}
	}
	return &connection.Request{
		Method: connection.MethodPost,
		Path:   PathOf(r.kind),
		Body:   r.FullPayload(),
	}
}

// ToMap returns the wire form of every field.
func (r *Record) ToMap() map[string]any {
	fields, _ := r.snapshot()
	return models.EncodeMap(fields)
}
