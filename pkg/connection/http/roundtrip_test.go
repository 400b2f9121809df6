package http

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mbaas/mbaas.go/pkg/codec"
	"github.com/mbaas/mbaas.go/pkg/connection"
	"github.com/mbaas/mbaas.go/pkg/logger"
)

type RoundTripFunc func(req *http.Request) *http.Response

func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

// NewTestClient returns *http.Client with Transport replaced to avoid making real calls
func NewTestClient(fn RoundTripFunc) *http.Client {
	return &http.Client{
		Transport: fn,
	}
}

type HTTPTestSuite struct {
	suite.Suite
	config *connection.Config
}

func TestHTTPTestSuite(t *testing.T) {
	suite.Run(t, new(HTTPTestSuite))
}

func (s *HTTPTestSuite) SetupTest() {
	u, err := url.Parse("https://mbaas.test/2013-09-01/")
	s.Require().NoError(err)

	s.config = connection.NewConfig(u)
	s.config.Logger = logger.Nop()
}

func respond(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
		// Must be set to non-nil value or it panics
		Header: make(http.Header),
	}
}

func (s *HTTPTestSuite) TestMakeRequest() {
	con, err := New(s.config)
	s.Require().NoError(err)
	con.SetHTTPClient(NewTestClient(func(req *http.Request) *http.Response {
		return respond(http.StatusBadRequest, `{"code":"E400001","error":"bad"}`)
	}))

	req, _ := http.NewRequestWithContext(context.TODO(), http.MethodGet, "https://mbaas.test/2013-09-01/users", http.NoBody)
	status, body, err := con.MakeRequest(req)
	s.Require().NoError(err)
	s.Equal(http.StatusBadRequest, status)
	s.JSONEq(`{"code":"E400001","error":"bad"}`, string(body))
}

func (s *HTTPTestSuite) TestExecute_requestShape() {
	con, err := New(s.config)
	s.Require().NoError(err)

	var seen *http.Request
	var seenBody []byte
	con.SetHTTPClient(NewTestClient(func(req *http.Request) *http.Response {
		seen = req
		seenBody, _ = io.ReadAll(req.Body)
		return respond(http.StatusOK, `{"updateDate":"1986-02-04T12:34:56.789Z"}`)
	}))

	res, err := con.Execute(context.TODO(), &connection.Request{
		Method: connection.MethodPut,
		Path:   "classes/TestClass/abc",
		Body:   map[string]any{"field2": "value2"},
	})
	s.Require().NoError(err)
	s.True(res.IsSuccess())

	s.Equal(http.MethodPut, seen.Method)
	s.Equal("https://mbaas.test/2013-09-01/classes/TestClass/abc", seen.URL.String())
	s.Equal("application/json", seen.Header.Get("Content-Type"))
	s.JSONEq(`{"field2":"value2"}`, string(seenBody))
}

func (s *HTTPTestSuite) TestExecute_cborBody() {
	s.config.Codec = codec.CBOR()
	con, err := New(s.config)
	s.Require().NoError(err)

	var decoded map[string]any
	con.SetHTTPClient(NewTestClient(func(req *http.Request) *http.Response {
		s.Equal("application/cbor", req.Header.Get("Content-Type"))
		data, _ := io.ReadAll(req.Body)
		s.NoError(codec.CBOR().Unmarshal(data, &decoded))
		return respond(http.StatusCreated, `{"objectId":"abc"}`)
	}))

	_, err = con.Execute(context.TODO(), &connection.Request{
		Method: connection.MethodPost,
		Path:   "classes/TestClass",
		Body:   map[string]any{"field1": "value1"},
	})
	s.Require().NoError(err)
	s.Equal(map[string]any{"field1": "value1"}, decoded)
}

func (s *HTTPTestSuite) TestExecute_errorStatus() {
	con, err := New(s.config)
	s.Require().NoError(err)
	con.SetHTTPClient(NewTestClient(func(req *http.Request) *http.Response {
		return respond(http.StatusInternalServerError, "upstream failure\n")
	}))

	_, err = con.Execute(context.TODO(), &connection.Request{Method: connection.MethodGet, Path: "users"})

	var se *connection.ServiceError
	s.Require().ErrorAs(err, &se)
	s.Equal(http.StatusInternalServerError, se.StatusCode)
	s.Empty(se.Code)
	s.Equal("upstream failure", se.Message)
}
