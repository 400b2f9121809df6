// Package mock provides an in-process transport that records requests and
// replays queued responses.
package mock

import (
	"context"
	"errors"
	"sync"

	"github.com/goccy/go-json"

	"github.com/mbaas/mbaas.go/pkg/connection"
)

var ErrNoResponse = errors.New("mock: no response queued")

type reply struct {
	res *connection.Response
	err error
}

type Transport struct {
	mu       sync.Mutex
	requests []*connection.Request
	replies  []reply
}

func Create() *Transport {
	return &Transport{}
}

// Reply queues a response with a JSON encoded body. A nil body yields an empty body.
func (t *Transport) Reply(status int, body map[string]any) *Transport {
	var data []byte
	if body != nil {
		var err error
		if data, err = json.Marshal(body); err != nil {
			panic(err)
		}
	}
	return t.ReplyRaw(status, data)
}

func (t *Transport) ReplyRaw(status int, body []byte) *Transport {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.replies = append(t.replies, reply{res: &connection.Response{StatusCode: status, Body: body}})
	return t
}

// Fail queues an error.
func (t *Transport) Fail(err error) *Transport {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.replies = append(t.replies, reply{err: err})
	return t
}

func (t *Transport) Execute(_ context.Context, req *connection.Request) (*connection.Response, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.requests = append(t.requests, req)
	if len(t.replies) == 0 {
		return nil, ErrNoResponse
	}
	r := t.replies[0]
	t.replies = t.replies[1:]
	return r.res, r.err
}

func (t *Transport) Requests() []*connection.Request {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*connection.Request(nil), t.requests...)
}

// Last returns the most recent request, or nil.
func (t *Transport) Last() *connection.Request {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.requests) == 0 {
		return nil
	}
	return t.requests[len(t.requests)-1]
}
