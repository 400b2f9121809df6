package codec

import (
	"bytes"
	"io"

	"github.com/goccy/go-json"
)

type jsonCodec struct{}

// JSON returns the default codec. Decoding uses json.Number for numbers.
func JSON() Codec {
	return jsonCodec{}
}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) NewEncoder(w io.Writer) Encoder {
	return json.NewEncoder(w)
}

// Unmarshal decodes exactly one JSON value. Trailing bytes other than
// whitespace make the whole input invalid.
func (c jsonCodec) Unmarshal(data []byte, dst any) error {
	if !json.Valid(data) {
		return ErrInvalidData
	}
	return c.NewDecoder(bytes.NewReader(data)).Decode(dst)
}

func (jsonCodec) NewDecoder(r io.Reader) Decoder {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return dec
}

func (jsonCodec) ContentType() string {
	return "application/json"
}
