// Package http implements connection.Transport over net/http.
package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/gofrs/uuid"

	"github.com/mbaas/mbaas.go/pkg/codec"
	"github.com/mbaas/mbaas.go/pkg/connection"
	"github.com/mbaas/mbaas.go/pkg/constants"
	"github.com/mbaas/mbaas.go/pkg/logger"
)

type HTTPConnection struct {
	BaseURL string
	Codec   codec.Codec

	logger     logger.Logger
	httpClient *http.Client
	headers    sync.Map
}

// New returns a transport for p. It fails when p lacks a base URL or codec.
func New(p *connection.Config) (*HTTPConnection, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	con := &HTTPConnection{
		BaseURL: p.BaseURL,
		Codec:   p.Codec,
		logger:  p.Logger,
		httpClient: &http.Client{
			Timeout: p.Timeout,
		},
	}
	for k, v := range p.Headers {
		con.headers.Store(k, v)
	}

	return con, nil
}

func (h *HTTPConnection) SetHTTPClient(client *http.Client) *HTTPConnection {
	h.httpClient = client
	return h
}

// SetHeader adds a header to every subsequent request. An empty value removes it.
func (h *HTTPConnection) SetHeader(key, value string) {
	if value == "" {
		h.headers.Delete(key)
		return
	}
	h.headers.Store(key, value)
}

// Execute sends r and returns the answer. Non-2xx answers become
// *connection.ServiceError.
func (h *HTTPConnection) Execute(ctx context.Context, r *connection.Request) (*connection.Response, error) {
	if h.BaseURL == "" {
		return nil, constants.ErrNoBaseURL
	}

	endpoint := h.BaseURL + "/" + strings.TrimPrefix(r.Path, "/")
	if len(r.Query) > 0 {
		q := url.Values{}
		for k, v := range r.Query {
			q.Set(k, v)
		}
		endpoint += "?" + q.Encode()
	}

	var reqBody io.Reader = http.NoBody
	if r.Body != nil {
		data, err := h.Codec.Marshal(r.Body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, string(r.Method), endpoint, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if r.Body != nil {
		req.Header.Set("Content-Type", h.Codec.ContentType())
	}
	if id, err := uuid.NewV4(); err == nil {
		req.Header.Set(constants.RequestIDHeader, id.String())
	}
	h.headers.Range(func(k, v any) bool {
		req.Header.Set(k.(string), v.(string))
		return true
	})

	h.logger.Debug("executing request", "method", r.Method, "path", r.Path)

	status, respData, err := h.MakeRequest(req)
	if err != nil {
		return nil, err
	}

	res := &connection.Response{StatusCode: status, Body: respData}
	if !res.IsSuccess() {
		return nil, connection.NewServiceError(status, respData)
	}
	return res, nil
}

// MakeRequest performs req and reads the whole body.
func (h *HTTPConnection) MakeRequest(req *http.Request) (int, []byte, error) {
	resp, err := h.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("error making HTTP request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}

	return resp.StatusCode, respBytes, nil
}
