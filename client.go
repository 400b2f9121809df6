package mbaas

import (
	"context"
	"fmt"
	"net/url"

	"github.com/mbaas/mbaas.go/pkg/codec"
	"github.com/mbaas/mbaas.go/pkg/connection"
	"github.com/mbaas/mbaas.go/pkg/connection/http"
	"github.com/mbaas/mbaas.go/pkg/constants"
	"github.com/mbaas/mbaas.go/pkg/filestore"
	"github.com/mbaas/mbaas.go/pkg/logger"
	"github.com/mbaas/mbaas.go/pkg/models"
)

// Options configure a Client. Only Transport is required.
type Options struct {
	Transport connection.Transport
	// FileStore persists the current user and installation. Defaults to memory.
	FileStore filestore.FileStore
	// Codec encodes persisted blobs. Defaults to JSON.
	Codec  codec.Codec
	Logger logger.Logger
	// CurrentStore overrides the store built from FileStore and Codec.
	CurrentStore *CurrentStore
}

// Client syncs records with the service and owns the current user and
// installation.
type Client struct {
	transport connection.Transport
	current   *CurrentStore
	log       logger.Logger
}

// New creates a client over opts.Transport. Unset options fall back to an
// in-memory file store, the JSON codec and a no-op logger.
func New(opts Options) (*Client, error) {
	if opts.Transport == nil {
		return nil, constants.ErrNoTransport
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.CurrentStore == nil {
		opts.CurrentStore = NewCurrentStore(opts.FileStore, opts.Codec, opts.Logger)
	}
	return &Client{
		transport: opts.Transport,
		current:   opts.CurrentStore,
		log:       opts.Logger,
	}, nil
}

// FromEndpointURLString creates a Client that talks HTTP to endpoint, such as
// "https://mbaas.example.com/2013-09-01". opts.Transport is ignored.
func FromEndpointURLString(endpoint string, opts Options) (*Client, error) {
	u, err := url.ParseRequestURI(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	switch u.Scheme {
	case "http", "https":
	default:
		return nil, fmt.Errorf("invalid endpoint %q: unsupported scheme %q", endpoint, u.Scheme)
	}

	conf := connection.NewConfig(u)
	if opts.Logger != nil {
		conf.Logger = opts.Logger
	}
	conn, err := http.New(conf)
	if err != nil {
		return nil, err
	}
	opts.Transport = conn
	return New(opts)
}

// Current returns the store holding the current user and installation.
func (c *Client) Current() *CurrentStore {
	return c.current
}

// CurrentUser returns a copy of the logged-in user, or nil.
func (c *Client) CurrentUser() *Record {
	return c.current.Get(filestore.CurrentUser)
}

// CurrentInstallation returns a copy of this device's installation, or nil.
func (c *Client) CurrentInstallation() *Record {
	return c.current.Get(filestore.CurrentInstallation)
}

// NewQuery starts a query over kind.
func (c *Client) NewQuery(kind string) *Query {
	return newQuery(c, kind)
}

// FetchTask reloads r from the service. r must have an objectId.
func (c *Client) FetchTask(r *Record) *Task[*Record] {
	return newTask(func(ctx context.Context) (*Record, error) {
		return r, c.fetch(ctx, r)
	})
}

// SaveTask creates r when it has no objectId and updates it otherwise.
func (c *Client) SaveTask(r *Record) *Task[*Record] {
	return newTask(func(ctx context.Context) (*Record, error) {
		return r, c.save(ctx, r, false)
	})
}

// DeleteTask deletes r on the service and empties it locally.
func (c *Client) DeleteTask(r *Record) *Task[*Record] {
	return newTask(func(ctx context.Context) (*Record, error) {
		return r, c.delete(ctx, r)
	})
}

// Fetch replaces every field of r with the stored object and blocks until the
// service answers. It returns ErrNoObjectID when r was never saved.
func (c *Client) Fetch(ctx context.Context, r *Record) error {
	_, err := c.FetchTask(r).Wait(ctx)
	return err
}

// FetchInBackground runs Fetch on its own goroutine and reports to callback.
func (c *Client) FetchInBackground(ctx context.Context, r *Record, callback Callback[*Record]) {
	c.FetchTask(r).Go(ctx, callback)
}

// Save sends r and merges the answer into it. On error r keeps its fields and
// its dirty set, so the same call can be retried.
func (c *Client) Save(ctx context.Context, r *Record) error {
	_, err := c.SaveTask(r).Wait(ctx)
	return err
}

// SaveInBackground runs Save on its own goroutine and reports to callback.
func (c *Client) SaveInBackground(ctx context.Context, r *Record, callback Callback[*Record]) {
	c.SaveTask(r).Go(ctx, callback)
}

// Delete removes r from the service and then empties it locally. Deleting the
// current user or installation also forgets it.
func (c *Client) Delete(ctx context.Context, r *Record) error {
	_, err := c.DeleteTask(r).Wait(ctx)
	return err
}

// DeleteInBackground runs Delete on its own goroutine and reports to callback.
func (c *Client) DeleteInBackground(ctx context.Context, r *Record, callback Callback[*Record]) {
	c.DeleteTask(r).Go(ctx, callback)
}

func (c *Client) fetch(ctx context.Context, r *Record) error {
	id := r.ObjectID()
	if id == "" {
		return constants.ErrNoObjectID
	}

	c.log.Debug("fetching object", "kind", r.kind, "objectId", id)
	values, err := c.call(ctx, &connection.Request{
		Method: connection.MethodGet,
		Path:   PathOf(r.kind) + "/" + id,
	})
	if err != nil {
		return err
	}
	r.replaceAll(values)

	if slot := specOf(r.kind).singleton; slot != "" && c.current.ObjectID(slot) == id {
		c.replaceCurrent(slot, r)
	}
	return nil
}

// save sends r and merges the answer. A user or installation becomes current
// when nothing is current yet, when it already is current, or on sign-up.
func (c *Client) save(ctx context.Context, r *Record, signUp bool) error {
	req := saveRequest(r)

	c.log.Debug("saving object", "kind", r.kind, "method", req.Method)
	values, err := c.call(ctx, req)
	if err != nil {
		return err
	}
	r.merge(values)

	slot := specOf(r.kind).singleton
	if slot == "" {
		return nil
	}
	if cur := c.current.ObjectID(slot); signUp || cur == "" || cur == r.ObjectID() {
		c.replaceCurrent(slot, r)
	}
	return nil
}

func (c *Client) delete(ctx context.Context, r *Record) error {
	id := r.ObjectID()
	if id == "" {
		return constants.ErrNoObjectID
	}

	c.log.Debug("deleting object", "kind", r.kind, "objectId", id)
	if _, err := c.call(ctx, &connection.Request{
		Method: connection.MethodDelete,
		Path:   PathOf(r.kind) + "/" + id,
	}); err != nil {
		return err
	}
	r.reset()

	if slot := specOf(r.kind).singleton; slot != "" && c.current.ObjectID(slot) == id {
		if err := c.current.Clear(slot); err != nil {
			c.log.Warn("failed to clear current object", "kind", slot, "error", err)
		}
	}
	return nil
}

func (c *Client) replaceCurrent(slot filestore.Kind, r *Record) {
	if err := c.current.Replace(slot, r); err != nil {
		c.log.Warn("failed to persist current object", "kind", slot, "error", err)
	}
}

// call executes req and decodes the answer into field values.
func (c *Client) call(ctx context.Context, req *connection.Request) (map[string]models.Value, error) {
	raw, err := c.callRaw(ctx, req)
	if err != nil {
		return nil, err
	}
	return models.ValuesOf(raw)
}

func (c *Client) callRaw(ctx context.Context, req *connection.Request) (map[string]any, error) {
	res, err := c.transport.Execute(ctx, req)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, constants.ErrInvalidResponse
	}
	if !res.IsSuccess() {
		return nil, connection.NewServiceError(res.StatusCode, res.Body)
	}
	return res.Map()
}
