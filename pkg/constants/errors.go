package constants

import "errors"

// Errors
var (
	ErrNoObjectID       = errors.New("mbaas: record has no objectId")
	ErrNoTransport      = errors.New("mbaas: transport is not set")
	ErrNoBaseURL        = errors.New("base url not set")
	ErrNoCodec          = errors.New("codec is not set")
	ErrInvalidResponse  = errors.New("mbaas: invalid response body")
	ErrUnsupportedValue = errors.New("mbaas: unsupported field value")
)
