package mbaas

import (
	"github.com/mbaas/mbaas.go/pkg/models"
)

// GetPointers returns pointers of targetKind to the candidates that have an
// objectId, in input order. Unsaved candidates are dropped.
func GetPointers(targetKind string, candidates []*Record) []models.Pointer {
	out := make([]models.Pointer, 0, len(candidates))
	for _, c := range candidates {
		if c == nil {
			continue
		}
		if id := c.ObjectID(); id != "" {
			out = append(out, models.NewPointer(targetKind, id))
		}
	}
	return out
}

// BuildRelationEdit returns an edit over the saved candidates, or nil when none
// of them is saved.
func BuildRelationEdit(op models.RelationOp, targetKind string, candidates []*Record) *models.RelationEdit {
	pointers := GetPointers(targetKind, candidates)
	if len(pointers) == 0 {
		return nil
	}
	return &models.RelationEdit{Op: op, TargetKind: targetKind, Objects: pointers}
}

// CreateBelongItems builds the edit for a membership field from an add list and
// a remove list. A non-empty add list wins and the remove list is then ignored.
// It returns nil when neither list has a saved record.
func CreateBelongItems(targetKind string, add, remove []*Record) *models.RelationEdit {
	// TODO: send both edits once the service accepts a combined add and remove on one field.
	if edit := BuildRelationEdit(models.AddRelation, targetKind, add); edit != nil {
		return edit
	}
	return BuildRelationEdit(models.RemoveRelation, targetKind, remove)
}
