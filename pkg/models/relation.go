package models

import (
	"github.com/mbaas/mbaas.go/pkg/constants"
)

// RelationOp is the operator tag of a relation edit.
type RelationOp string

const (
	AddRelation    RelationOp = "AddRelation"
	RemoveRelation RelationOp = "RemoveRelation"
)

// RelationEdit is a pending add or remove of pointers on a relation field.
// It encodes as {"__op":op,"objects":[pointer,...]}.
type RelationEdit struct {
	Op         RelationOp
	TargetKind string
	Objects    []Pointer
}

func (r RelationEdit) Encode() any {
	objects := make([]any, 0, len(r.Objects))
	for _, p := range r.Objects {
		objects = append(objects, p.Encode())
	}
	return map[string]any{
		constants.KeyOp:      string(r.Op),
		constants.KeyObjects: objects,
	}
}

func (RelationEdit) isValue() {}
