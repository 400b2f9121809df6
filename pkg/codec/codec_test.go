package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbaas/mbaas.go/pkg/models"
)

func TestCodecs_roundTripFields(t *testing.T) {
	t.Parallel()

	fields := map[string]models.Value{
		"objectId": models.String("abc"),
		"age":      models.Int(30),
		"ratio":    models.Float(0.25),
		"home":     models.NewGeoPoint(35.5, 139.25),
		"owner":    models.NewPointer("user", "u1"),
		"tags":     models.Strings("a", "b"),
		"nothing":  models.Null{},
	}

	for name, c := range map[string]Codec{"json": JSON(), "cbor": CBOR()} {
		c := c
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			data, err := c.Marshal(models.EncodeMap(fields))
			require.NoError(t, err)

			var raw map[string]any
			require.NoError(t, c.Unmarshal(data, &raw))

			got, err := models.ValuesOf(raw)
			require.NoError(t, err)
			assert.Equal(t, fields, got)
		})
	}
}

func TestJSON_rejectsMalformed(t *testing.T) {
	t.Parallel()

	for name, blob := range map[string]string{
		"truncated":     `{"objectId":`,
		"trailing data": `{"objectId":"u1"}#corrupt-tail`,
		"two values":    `{"objectId":"u1"}{"objectId":"u2"}`,
	} {
		t.Run(name, func(t *testing.T) {
			var raw map[string]any
			require.ErrorIs(t, JSON().Unmarshal([]byte(blob), &raw), ErrInvalidData)
		})
	}

	var raw map[string]any
	require.NoError(t, JSON().Unmarshal([]byte("{\"objectId\":\"u1\"}\n"), &raw))
	assert.Equal(t, "u1", raw["objectId"])
}

func TestCBOR_rejectsTrailingData(t *testing.T) {
	t.Parallel()

	c := CBOR()
	data, err := c.Marshal(map[string]any{"objectId": "u1"})
	require.NoError(t, err)

	var raw map[string]any
	require.Error(t, c.Unmarshal(append(data, 0x01), &raw))
}

func TestContentType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "application/json", JSON().ContentType())
	assert.Equal(t, "application/cbor", CBOR().ContentType())
}
