package codec

import (
	"io"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

type cborCodec struct {
	em cbor.EncMode
	dm cbor.DecMode
}

// CBOR returns a codec producing compact binary blobs. Maps decode as
// map[string]any so the result can be fed to models.ValuesOf.
func CBOR() Codec {
	em, err := cbor.EncOptions{
		Sort: cbor.SortCanonical,
	}.EncMode()
	if err != nil {
		panic(err)
	}

	dm, err := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic(err)
	}

	return &cborCodec{em: em, dm: dm}
}

func (c *cborCodec) Marshal(v any) ([]byte, error) {
	return c.em.Marshal(v)
}

func (c *cborCodec) NewEncoder(w io.Writer) Encoder {
	return c.em.NewEncoder(w)
}

func (c *cborCodec) Unmarshal(data []byte, dst any) error {
	return c.dm.Unmarshal(data, dst)
}

func (c *cborCodec) NewDecoder(r io.Reader) Decoder {
	return c.dm.NewDecoder(r)
}

func (c *cborCodec) ContentType() string {
	return "application/cbor"
}
