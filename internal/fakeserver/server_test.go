package fakeserver

import (
	"bytes"
	"net/http"
	"net/url"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func do(t *testing.T, method, target string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, target, reader)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func TestServer_objectLifecycle(t *testing.T) {
	server := NewServer()
	server.Start()
	defer server.Stop()

	resp, created := do(t, http.MethodPost, server.URL()+"/classes/TestClass", map[string]any{"field1": "value1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id, _ := created["objectId"].(string)
	require.NotEmpty(t, id)
	assert.NotEmpty(t, created["createDate"])

	resp, _ = do(t, http.MethodPut, server.URL()+"/classes/TestClass/"+id, map[string]any{"field1": nil, "field2": "value2"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	obj := server.Object("classes/TestClass", id)
	assert.NotContains(t, obj, "field1")
	assert.Equal(t, "value2", obj["field2"])

	resp, _ = do(t, http.MethodDelete, server.URL()+"/classes/TestClass/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := do(t, http.MethodGet, server.URL()+"/classes/TestClass/"+id, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "E404001", body["code"])

	requests := server.Requests()
	require.Len(t, requests, 4)
	assert.Equal(t, "classes/TestClass", requests[0].Path)
	assert.Equal(t, map[string]any{"field1": "value1"}, requests[0].Body)
}

func TestServer_findWithCount(t *testing.T) {
	server := NewServer()
	server.Start()
	defer server.Stop()

	server.Put("classes/Item", map[string]any{"color": "red"})
	server.Put("classes/Item", map[string]any{"color": "blue"})
	server.Put("classes/Item", map[string]any{"color": "red"})

	resp, body := do(t, http.MethodGet, server.URL()+"/classes/Item?where="+url.QueryEscape(`{"color":"red"}`)+"&count=1&limit=1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["results"], 1)
	assert.EqualValues(t, 2, body["count"])
}

func TestServer_stubs(t *testing.T) {
	server := NewServer()
	server.AddStubResponse(StubResponse{
		Matcher: RequestMatcher{Method: http.MethodGet, Path: "users/u1"},
		Status:  http.StatusForbidden,
		Body:    map[string]any{"code": "E403001", "error": "No access."},
	})
	server.AddStubResponse(StubResponse{
		Matcher:  RequestMatcher{Path: "classes/Broken"},
		Failures: []FailureConfig{{Type: FailureInvalidResponse}},
	})
	server.Start()
	defer server.Stop()

	resp, body := do(t, http.MethodGet, server.URL()+"/users/u1", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "E403001", body["code"])

	resp, body = do(t, http.MethodGet, server.URL()+"/classes/Broken", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Nil(t, body)
}

func TestServer_login(t *testing.T) {
	server := NewServer()
	server.SessionToken = "tok"
	server.Start()
	defer server.Stop()

	server.Put("users", map[string]any{"userName": "alice", "password": "pw"})

	resp, body := do(t, http.MethodGet, server.URL()+"/login?userName=alice&password=pw", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "tok", body["sessionToken"])
	assert.NotContains(t, body, "password")

	resp, body = do(t, http.MethodGet, server.URL()+"/login?userName=alice&password=nope", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "E401002", body["code"])

	resp, body = do(t, http.MethodPost, server.URL()+"/users", map[string]any{"userName": "alice", "password": "other"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "E409001", body["code"])
}
