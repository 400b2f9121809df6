package mbaas

import (
	"github.com/mbaas/mbaas.go/pkg/constants"
	"github.com/mbaas/mbaas.go/pkg/models"
)

// NewRole creates a role called name.
func NewRole(name string) *Record {
	r := NewRecord(constants.KindRole)
	r.SetRoleName(name)
	return r
}

// RoleName returns the role name.
func (r *Record) RoleName() string {
	s, _ := r.GetString(constants.FieldRoleName)
	return s
}

// SetRoleName stages the role name.
func (r *Record) SetRoleName(name string) {
	r.setDirect(constants.FieldRoleName, models.String(name), true)
}

// SetBelongUsers stages membership changes of users. See CreateBelongItems for
// how add and remove combine. It reports false when nothing was staged.
func (r *Record) SetBelongUsers(add, remove []*Record) bool {
	return r.setBelong(constants.FieldBelongUser, constants.KindUser, add, remove)
}

// SetBelongRoles stages membership changes of child roles.
func (r *Record) SetBelongRoles(add, remove []*Record) bool {
	return r.setBelong(constants.FieldBelongRole, constants.KindRole, add, remove)
}

// AddUsers stages users as members.
func (r *Record) AddUsers(users ...*Record) bool {
	return r.SetBelongUsers(users, nil)
}

// RemoveUsers stages users for removal.
func (r *Record) RemoveUsers(users ...*Record) bool {
	return r.SetBelongUsers(nil, users)
}

// AddRoles stages roles as children.
func (r *Record) AddRoles(roles ...*Record) bool {
	return r.SetBelongRoles(roles, nil)
}

// RemoveRoles stages child roles for removal.
func (r *Record) RemoveRoles(roles ...*Record) bool {
	return r.SetBelongRoles(nil, roles)
}

func (r *Record) setBelong(field, targetKind string, add, remove []*Record) bool {
	edit := CreateBelongItems(targetKind, add, remove)
	if edit == nil {
		return false
	}
	r.setDirect(field, *edit, true)
	return true
}
