// Package codec provides the byte encodings used for request bodies and for
// the blobs the client persists in its file store.
package codec

import (
	"errors"
	"io"
)

// ErrInvalidData is returned when a blob is not exactly one well-formed value.
var ErrInvalidData = errors.New("codec: invalid data")

type Encoder interface {
	Encode(v any) error
}

type Decoder interface {
	Decode(v any) error
}

type Marshaler interface {
	Marshal(v any) ([]byte, error)
	NewEncoder(w io.Writer) Encoder
}

// Unmarshaler decodes into dst. Numbers must decode in a form that
// models.ValueOf accepts without losing integer precision.
type Unmarshaler interface {
	Unmarshal(data []byte, dst any) error
	NewDecoder(r io.Reader) Decoder
}

type Codec interface {
	Marshaler
	Unmarshaler
	ContentType() string
}
