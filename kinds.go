package mbaas

import (
	"github.com/mbaas/mbaas.go/pkg/constants"
	"github.com/mbaas/mbaas.go/pkg/filestore"
)

// kindSpec is what varies between kinds: the endpoint, the fields the generic
// setter refuses, and the current-object slot the kind is mirrored to.
type kindSpec struct {
	path      string
	ignored   map[string]struct{}
	singleton filestore.Kind
}

var reservedFields = []string{
	constants.FieldObjectID,
	constants.FieldACL,
	constants.FieldCreateDate,
	constants.FieldUpdateDate,
}

var kindSpecs = map[string]kindSpec{
	constants.KindUser: {
		path: "users",
		ignored: fieldSet(
			constants.FieldPassword,
			constants.FieldSessionToken,
			constants.FieldAuthData,
			constants.FieldMailConfirm,
			constants.FieldTemporaryPassword,
		),
		singleton: filestore.CurrentUser,
	},
	constants.KindRole: {
		path: "roles",
		ignored: fieldSet(
			constants.FieldRoleName,
			constants.FieldBelongRole,
			constants.FieldBelongUser,
		),
	},
	constants.KindInstallation: {
		path: "installations",
		ignored: fieldSet(
			constants.FieldDeviceType,
			constants.FieldDeviceToken,
			constants.FieldApplicationName,
			constants.FieldAppVersion,
			constants.FieldTimeZone,
			constants.FieldSDKVersion,
			constants.FieldBadge,
			constants.FieldChannels,
		),
		singleton: filestore.CurrentInstallation,
	},
	constants.KindPush: {
		path:    "push",
		ignored: fieldSet(),
	},
}

func fieldSet(fields ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(reservedFields)+len(fields))
	for _, f := range reservedFields {
		set[f] = struct{}{}
	}
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

var defaultIgnored = fieldSet()

func specOf(kind string) kindSpec {
	if spec, ok := kindSpecs[kind]; ok {
		return spec
	}
	return kindSpec{path: "classes/" + kind, ignored: defaultIgnored}
}

// IsIgnored reports whether the generic setter refuses field for kind.
// Such fields are only written through typed accessors or by the service.
func IsIgnored(kind, field string) bool {
	_, ok := specOf(kind).ignored[field]
	return ok
}

// PathOf returns the collection path of kind relative to the API base.
func PathOf(kind string) string {
	return specOf(kind).path
}
