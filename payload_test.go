package mbaas_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbaas/mbaas.go"
	"github.com/mbaas/mbaas.go/pkg/constants"
	"github.com/mbaas/mbaas.go/pkg/models"
)

func TestPayload_onlyDirtyFields(t *testing.T) {
	t.Parallel()

	r, err := mbaas.NewRecordFromMap("TestClass", map[string]any{
		"objectId": "abc",
		"field1":   "value1",
		"field2":   "old",
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, r.Payload())

	r.Set("field2", models.String("value2"))
	r.Remove("field1")
	r.Set("when", models.NewDate(time.Date(1986, 2, 4, 12, 34, 56, 789000000, time.UTC)))

	assert.Equal(t, map[string]any{
		"field1": nil,
		"field2": "value2",
		"when":   map[string]any{"__type": "Date", "iso": "1986-02-04T12:34:56.789Z"},
	}, r.Payload())
}

func TestFullPayload(t *testing.T) {
	t.Parallel()

	user, err := mbaas.NewRecordFromMap(constants.KindUser, map[string]any{
		"createDate":   "1986-02-04T12:34:56.789Z",
		"sessionToken": "token",
		"userName":     "alice",
	})
	require.NoError(t, err)
	user.SetPassword("secret")
	user.Set("age", models.Int(20))

	assert.Equal(t, map[string]any{
		"userName": "alice",
		"password": "secret",
		"age":      int64(20),
	}, user.FullPayload())
}

func TestCreateBelongItems(t *testing.T) {
	t.Parallel()

	saved := func(id string) *mbaas.Record {
		r := mbaas.NewUser()
		r.SetObjectID(id)
		return r
	}
	unsaved := mbaas.NewUser()

	t.Run("unsaved candidates are dropped in order", func(t *testing.T) {
		edit := mbaas.BuildRelationEdit(models.AddRelation, "user", []*mbaas.Record{saved("u2"), unsaved, nil, saved("u1")})
		require.NotNil(t, edit)
		assert.Equal(t, []models.Pointer{
			models.NewPointer("user", "u2"),
			models.NewPointer("user", "u1"),
		}, edit.Objects)
	})

	t.Run("no saved candidate", func(t *testing.T) {
		assert.Nil(t, mbaas.BuildRelationEdit(models.RemoveRelation, "user", []*mbaas.Record{unsaved}))
		assert.Empty(t, mbaas.GetPointers("user", nil))
	})

	t.Run("add wins over remove", func(t *testing.T) {
		edit := mbaas.CreateBelongItems("user", []*mbaas.Record{saved("a")}, []*mbaas.Record{saved("r")})
		require.NotNil(t, edit)
		assert.Equal(t, models.AddRelation, edit.Op)
		assert.Equal(t, []models.Pointer{models.NewPointer("user", "a")}, edit.Objects)
	})

	t.Run("remove when add is empty", func(t *testing.T) {
		edit := mbaas.CreateBelongItems("user", []*mbaas.Record{unsaved}, []*mbaas.Record{saved("r")})
		require.NotNil(t, edit)
		assert.Equal(t, models.RemoveRelation, edit.Op)
	})

	t.Run("both empty", func(t *testing.T) {
		assert.Nil(t, mbaas.CreateBelongItems("user", nil, nil))
	})
}

func TestRole_belongFields(t *testing.T) {
	t.Parallel()

	member := mbaas.NewUser()
	member.SetObjectID("u1")
	child := mbaas.NewRole("child")
	child.SetObjectID("r1")

	role := mbaas.NewRole("admin")
	assert.True(t, role.AddUsers(member))
	assert.True(t, role.RemoveRoles(child))
	assert.False(t, role.AddUsers(mbaas.NewUser()))

	assert.Equal(t, map[string]any{
		"roleName": "admin",
		"belongUser": map[string]any{
			"__op": "AddRelation",
			"objects": []any{
				map[string]any{"__type": "Pointer", "className": "user", "objectId": "u1"},
			},
		},
		"belongRole": map[string]any{
			"__op": "RemoveRelation",
			"objects": []any{
				map[string]any{"__type": "Pointer", "className": "role", "objectId": "r1"},
			},
		},
	}, role.FullPayload())
}

func TestInstallation_accessors(t *testing.T) {
	t.Parallel()

	inst := mbaas.NewInstallation()
	inst.SetDeviceType("android")
	inst.SetDeviceToken("token")
	inst.SetBadge(3)
	inst.SetChannels("news", "sports")
	inst.SetTimeZone("Asia/Tokyo")

	assert.Equal(t, "android", inst.DeviceType())
	assert.Equal(t, "token", inst.DeviceToken())
	assert.Equal(t, int64(3), inst.Badge())
	assert.Equal(t, []string{"news", "sports"}, inst.Channels())
	assert.Equal(t, []string{
		constants.FieldBadge, constants.FieldChannels, constants.FieldDeviceToken,
		constants.FieldDeviceType, constants.FieldSDKVersion, constants.FieldTimeZone,
	}, inst.DirtyFields())
	assert.Equal(t, constants.SDKVersion, inst.FullPayload()[constants.FieldSDKVersion])
}

func TestPush_deliveryExpiration(t *testing.T) {
	t.Parallel()

	date := models.NewDate(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))

	push := mbaas.NewPush()
	push.SetDeliveryExpirationTime("3 day")
	push.SetDeliveryExpirationDate(date)
	assert.Equal(t, date, push.Get(constants.FieldDeliveryExpirationDate))
	assert.Equal(t, models.Null{}, push.Get(constants.FieldDeliveryExpirationTime))

	push.SetDeliveryExpirationTime("1 hour")
	assert.Equal(t, models.String("1 hour"), push.Get(constants.FieldDeliveryExpirationTime))
	assert.Equal(t, models.Null{}, push.Get(constants.FieldDeliveryExpirationDate))

	// The generic setter does not clear the counterpart.
	push.Set(constants.FieldDeliveryExpirationDate, date)
	assert.Equal(t, models.String("1 hour"), push.Get(constants.FieldDeliveryExpirationTime))
	assert.Equal(t, date, push.Get(constants.FieldDeliveryExpirationDate))
}

func TestPush_messageAndTarget(t *testing.T) {
	t.Parallel()

	push := mbaas.NewPush()
	push.SetMessage("hello")
	push.SetTarget("ios", "android")

	assert.Equal(t, "push", mbaas.PathOf(push.Kind()))
	assert.Equal(t, map[string]any{
		"message": "hello",
		"target":  []any{"ios", "android"},
	}, push.Payload())
}

func TestUser_mailAddressConfirmed(t *testing.T) {
	t.Parallel()

	user := mbaas.NewUser()
	assert.False(t, user.MailAddressConfirmed())

	user.Set(constants.FieldMailConfirm, models.Bool(true))
	assert.False(t, user.MailAddressConfirmed())

	confirmed := savedRecord(t, "user", map[string]any{"objectId": "u1", constants.FieldMailConfirm: true})
	assert.True(t, confirmed.MailAddressConfirmed())

	pending := savedRecord(t, "user", map[string]any{"objectId": "u2", constants.FieldMailConfirm: "yes"})
	assert.False(t, pending.MailAddressConfirmed())
}
