package connection

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbaas/mbaas.go/pkg/constants"
)

func TestResponse_Map(t *testing.T) {
	t.Parallel()

	res := &Response{StatusCode: 201, Body: []byte(`{"objectId":"abc","count":3}`)}
	m, err := res.Map()
	require.NoError(t, err)
	assert.Equal(t, "abc", m["objectId"])
	assert.True(t, res.IsSuccess())

	empty, err := (&Response{StatusCode: 200}).Map()
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = (&Response{StatusCode: 200, Body: []byte(`[1,2`)}).Map()
	assert.ErrorIs(t, err, constants.ErrInvalidResponse)
}

func TestNewServiceError(t *testing.T) {
	t.Parallel()

	se := NewServiceError(404, []byte(`{"code":"E404001","error":"No data available."}`))
	assert.Equal(t, "E404001", se.Code)
	assert.Equal(t, "No data available.", se.Message)
	assert.Equal(t, "service error E404001 (status 404): No data available.", se.Error())

	plain := NewServiceError(502, []byte("bad gateway\n"))
	assert.Equal(t, "", plain.Code)
	assert.Equal(t, "bad gateway", plain.Message)

	numeric := NewServiceError(401, []byte(`{"code":401}`))
	assert.Equal(t, "", numeric.Code)
	assert.Equal(t, `{"code":401}`, numeric.Message)

	var err error = se
	assert.True(t, errors.Is(err, &ServiceError{}))
	assert.True(t, errors.Is(err, &ServiceError{Code: "E404001"}))
	assert.False(t, errors.Is(err, &ServiceError{Code: "E400001"}))
}

func TestTransportFunc(t *testing.T) {
	t.Parallel()

	var got *Request
	tr := TransportFunc(func(_ context.Context, req *Request) (*Response, error) {
		got = req
		return &Response{StatusCode: 200}, nil
	})

	_, err := tr.Execute(context.Background(), &Request{Method: MethodDelete, Path: "users/u1"})
	require.NoError(t, err)
	assert.Equal(t, MethodDelete, got.Method)
}

func TestNewConfig(t *testing.T) {
	t.Parallel()

	u, err := url.Parse("https://mbaas.example.com/2013-09-01/")
	require.NoError(t, err)

	cfg := NewConfig(u)
	assert.Equal(t, "https://mbaas.example.com/2013-09-01", cfg.BaseURL)
	assert.Equal(t, constants.DefaultHTTPTimeout, cfg.Timeout)
	require.NoError(t, cfg.Validate())

	cfg.Codec = nil
	assert.ErrorIs(t, cfg.Validate(), constants.ErrNoCodec)
}
