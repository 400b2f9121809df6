package mbaas_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbaas/mbaas.go"
	"github.com/mbaas/mbaas.go/pkg/constants"
	"github.com/mbaas/mbaas.go/pkg/models"
)

func TestRecord_setAndRemove(t *testing.T) {
	t.Parallel()

	r := mbaas.NewRecord("TestClass")
	assert.Nil(t, r.Get("field1"))
	assert.Empty(t, r.DirtyFields())

	r.Set("field1", models.String("value1"))
	r.Set("field2", models.Int(2))
	r.Set("field1", models.String("value1b"))

	assert.Equal(t, models.String("value1b"), r.Get("field1"))
	assert.Equal(t, []string{"field1", "field2"}, r.DirtyFields())
	assert.Equal(t, []string{"field1", "field2"}, r.Keys())

	r.Remove("field2")
	assert.Equal(t, models.Null{}, r.Get("field2"))
	assert.True(t, r.IsDirty("field2"))

	r.Set("field3", nil)
	assert.Equal(t, models.Null{}, r.Get("field3"))
}

func TestRecord_ignoredFieldsAreNotSet(t *testing.T) {
	t.Parallel()

	testcases := map[string][]string{
		"TestClass": {
			constants.FieldObjectID, constants.FieldACL, constants.FieldCreateDate, constants.FieldUpdateDate,
		},
		constants.KindPush: {
			constants.FieldObjectID, constants.FieldACL, constants.FieldCreateDate, constants.FieldUpdateDate,
		},
		constants.KindUser: {
			constants.FieldObjectID, constants.FieldACL, constants.FieldCreateDate, constants.FieldUpdateDate,
			constants.FieldPassword, constants.FieldSessionToken, constants.FieldAuthData,
			constants.FieldMailConfirm, constants.FieldTemporaryPassword,
		},
		constants.KindRole: {
			constants.FieldObjectID, constants.FieldACL, constants.FieldCreateDate, constants.FieldUpdateDate,
			constants.FieldRoleName, constants.FieldBelongRole, constants.FieldBelongUser,
		},
		constants.KindInstallation: {
			constants.FieldObjectID, constants.FieldACL, constants.FieldCreateDate, constants.FieldUpdateDate,
			constants.FieldDeviceType, constants.FieldDeviceToken, constants.FieldApplicationName,
			constants.FieldAppVersion, constants.FieldTimeZone, constants.FieldSDKVersion,
			constants.FieldBadge, constants.FieldChannels,
		},
	}

	for kind, fields := range testcases {
		t.Run(kind, func(t *testing.T) {
			for _, field := range fields {
				assert.True(t, mbaas.IsIgnored(kind, field), field)

				r := mbaas.NewRecord(kind)
				before := r.Get(field)
				r.Set(field, models.String("x"))
				r.Remove(field)

				assert.Equal(t, before, r.Get(field), field)
				assert.False(t, r.IsDirty(field), field)
			}
		})
	}

	assert.False(t, mbaas.IsIgnored(constants.KindUser, constants.FieldUserName))
	assert.False(t, mbaas.IsIgnored(constants.KindPush, constants.FieldDeliveryExpirationTime))
}

func TestRecord_typedAccessors(t *testing.T) {
	t.Parallel()

	r := mbaas.NewRecord("TestClass")
	r.SetObjectID("abc")
	assert.Equal(t, "abc", r.ObjectID())
	assert.True(t, r.HasObjectID())
	assert.False(t, r.IsDirty(constants.FieldObjectID))

	r.SetACL(models.Map{"*": models.Map{"read": models.Bool(true)}})
	assert.True(t, r.IsDirty(constants.FieldACL))
	assert.Equal(t, models.Bool(true), r.ACL()["*"].(models.Map)["read"])

	r.SetObjectID("")
	assert.False(t, r.HasObjectID())
	assert.NotContains(t, r.Keys(), constants.FieldObjectID)

	p, ok := r.Pointer()
	assert.False(t, ok)
	assert.Equal(t, models.Pointer{}, p)
}

func TestNewRecordFromMap(t *testing.T) {
	t.Parallel()

	r, err := mbaas.NewRecordFromMap("TestClass", map[string]any{
		"objectId":   "abc",
		"createDate": "1986-02-04T12:34:56.789Z",
		"field1":     "value1",
		"location":   map[string]any{"__type": "GeoPoint", "latitude": 35.0, "longitude": 139.0},
	})
	require.NoError(t, err)

	assert.Equal(t, "abc", r.ObjectID())
	assert.Empty(t, r.DirtyFields())
	assert.Equal(t, models.NewGeoPoint(35, 139), r.Get("location"))

	created, ok := r.CreateDate()
	require.True(t, ok)
	assert.Equal(t, "1986-02-04T12:34:56.789Z", created.String())

	_, ok = r.UpdateDate()
	assert.False(t, ok)

	p, ok := r.Pointer()
	require.True(t, ok)
	assert.Equal(t, models.NewPointer("TestClass", "abc"), p)

	_, err = mbaas.NewRecordFromMap("TestClass", map[string]any{"bad": struct{}{}})
	require.ErrorIs(t, err, constants.ErrUnsupportedValue)
}

func TestRecord_Clone(t *testing.T) {
	t.Parallel()

	r := mbaas.NewRecord("TestClass")
	r.Set("tags", models.Strings("a", "b"))
	r.Set("meta", models.Map{"k": models.String("v")})

	c := r.Clone()
	assert.Equal(t, r.Keys(), c.Keys())
	assert.Equal(t, r.DirtyFields(), c.DirtyFields())

	c.Get("tags").(models.Array)[0] = models.String("changed")
	c.Get("meta").(models.Map)["k"] = models.String("changed")
	c.Set("other", models.Bool(true))

	assert.Equal(t, models.Strings("a", "b"), r.Get("tags"))
	assert.Equal(t, models.Map{"k": models.String("v")}, r.Get("meta"))
	assert.Nil(t, r.Get("other"))
}

func TestPathOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "users", mbaas.PathOf(constants.KindUser))
	assert.Equal(t, "roles", mbaas.PathOf(constants.KindRole))
	assert.Equal(t, "installations", mbaas.PathOf(constants.KindInstallation))
	assert.Equal(t, "push", mbaas.PathOf(constants.KindPush))
	assert.Equal(t, "classes/TestClass", mbaas.PathOf("TestClass"))
}
