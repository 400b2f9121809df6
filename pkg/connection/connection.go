// Package connection defines the boundary between the SDK core and the
// transport that talks to the object-store service.
package connection

import (
	"context"
	"fmt"

	"github.com/mbaas/mbaas.go/pkg/codec"
	"github.com/mbaas/mbaas.go/pkg/constants"
)

type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodDelete Method = "DELETE"
)

// Request is what the core asks the transport to execute.
// Path is relative to the service base URL, e.g. "classes/TestClass/abc".
type Request struct {
	Method Method
	Path   string
	Query  map[string]string
	// Body is nil for requests without a body.
	Body map[string]any
}

type Response struct {
	StatusCode int
	Body       []byte
}

// Transport executes requests. It owns headers, authentication, timeouts,
// retries and cancellation; the core only chooses method, path, query and body.
type Transport interface {
	Execute(ctx context.Context, req *Request) (*Response, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, req *Request) (*Response, error)

func (f TransportFunc) Execute(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// Map parses the body as a JSON object. An empty body yields an empty map.
func (r *Response) Map() (map[string]any, error) {
	out := map[string]any{}
	if r == nil || len(r.Body) == 0 {
		return out, nil
	}
	if err := codec.JSON().Unmarshal(r.Body, &out); err != nil {
		return nil, fmt.Errorf("%w: %w", constants.ErrInvalidResponse, err)
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

// IsSuccess reports a 2xx status.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
