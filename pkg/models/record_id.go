package models

import (
	"fmt"

	"github.com/mbaas/mbaas.go/pkg/constants"
)

const typePointer = "Pointer"

// Pointer references another record by kind and objectId.
type Pointer struct {
	ClassName string
	ObjectID  string
}

func NewPointer(className, objectID string) Pointer {
	return Pointer{ClassName: className, ObjectID: objectID}
}

func (p Pointer) Encode() any {
	return map[string]any{
		constants.KeyType:       typePointer,
		constants.KeyClassName:  p.ClassName,
		constants.FieldObjectID: p.ObjectID,
	}
}

func (Pointer) isValue() {}

func (p Pointer) String() string {
	return fmt.Sprintf("%s:%s", p.ClassName, p.ObjectID)
}
