// Package fakeserver provides a fake object-store HTTP server for tests.
//
// It keeps objects in memory per collection ("classes/<kind>", "users",
// "roles", "installations") and answers create, fetch, update, delete, find
// and login/logout the way the real service does. Stub responses can override
// any route, and failures can be injected per stub.
package fakeserver

import (
	"net"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"github.com/mbaas/mbaas.go/internal/rand"
	"github.com/mbaas/mbaas.go/pkg/codec"
	"github.com/mbaas/mbaas.go/pkg/constants"
)

// FailureType represents the type of failure to inject during request processing
type FailureType string

const (
	// FailureNone indicates no failure injection
	FailureNone FailureType = "none"
	// FailureRequestDelay delays before processing the request
	FailureRequestDelay FailureType = "request_delay"
	// FailureInvalidResponse answers 200 with a body that is not JSON
	FailureInvalidResponse FailureType = "invalid_response"
	// FailureDropConnection closes the underlying connection without answering
	FailureDropConnection FailureType = "drop_connection"
)

// RequestMatcher defines criteria for matching incoming requests.
type RequestMatcher struct {
	// Method is the HTTP method to match
	Method string
	// Path is the request path without the leading slash, e.g. "classes/TestClass"
	Path string
	// Matcher is an optional extra predicate on the request.
	Matcher func(r *http.Request) bool
}

// StubResponse defines a pre-configured answer for matching requests.
type StubResponse struct {
	Matcher  RequestMatcher
	Status   int
	Body     any
	Failures []FailureConfig
}

// FailureConfig defines how a failure is injected.
type FailureConfig struct {
	Type  FailureType
	Delay time.Duration
}

// RecordedRequest is a request as the server saw it.
type RecordedRequest struct {
	Method string
	Path   string
	Query  map[string]string
	Body   map[string]any
}

// Server is a fake object-store server.
type Server struct {
	mu       sync.Mutex
	server   *httptest.Server
	router   *mux.Router
	stubs    []StubResponse
	objects  map[string]map[string]map[string]any
	requests []RecordedRequest

	// Now stamps createDate and updateDate.
	Now func() time.Time
	// SessionToken is handed out by sign-up and login.
	SessionToken string
}

// NewServer creates a fake server. Call Start before use.
func NewServer() *Server {
	s := &Server{
		objects:      map[string]map[string]map[string]any{},
		Now:          time.Now,
		SessionToken: "session-token",
	}

	r := mux.NewRouter()
	r.HandleFunc("/login", s.handleLogin).Methods(http.MethodGet)
	r.HandleFunc("/logout", s.handleLogout).Methods(http.MethodGet)
	r.HandleFunc("/classes/{class}", s.handleCollection).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/classes/{class}/{id}", s.handleObject).Methods(http.MethodGet, http.MethodPut, http.MethodDelete)
	r.HandleFunc("/{builtin:users|roles|installations}", s.handleCollection).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/{builtin:users|roles|installations}/{id}", s.handleObject).Methods(http.MethodGet, http.MethodPut, http.MethodDelete)
	r.Use(s.recordAndStub)
	s.router = r

	return s
}

// Start begins serving on a random local port.
func (s *Server) Start() {
	s.server = httptest.NewServer(s.router)
}

// Stop shuts the server down.
func (s *Server) Stop() {
	if s.server != nil {
		s.server.Close()
	}
}

// URL is the base URL of the running server.
func (s *Server) URL() string {
	return s.server.URL
}

// AddStubResponse adds a stub. Stubs are matched in the order they were added.
func (s *Server) AddStubResponse(stub StubResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stubs = append(s.stubs, stub)
}

// Requests returns every request received so far.
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

// Put stores an object directly and returns its objectId.
func (s *Server) Put(collection string, fields map[string]any) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(collection, fields)
}

// Object returns a copy of a stored object, or nil.
func (s *Server) Object(collection, id string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[collection][id]
	if !ok {
		return nil
	}
	return copyMap(obj)
}

func (s *Server) recordAndStub(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := RecordedRequest{
			Method: r.Method,
			Path:   strings.TrimPrefix(r.URL.Path, "/"),
			Query:  map[string]string{},
		}
		for k := range r.URL.Query() {
			rec.Query[k] = r.URL.Query().Get(k)
		}
		if r.Body != nil && r.ContentLength != 0 {
			var body map[string]any
			if err := codec.JSON().NewDecoder(r.Body).Decode(&body); err != nil {
				writeError(w, http.StatusBadRequest, "E400001", "JSON is invalid.")
				return
			}
			rec.Body = body
		}

		s.mu.Lock()
		s.requests = append(s.requests, rec)
		stub, ok := s.matchStubLocked(r, rec.Path)
		s.mu.Unlock()

		if ok {
			s.serveStub(w, stub)
			return
		}

		ctx := withBody(r.Context(), rec.Body)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) matchStubLocked(r *http.Request, path string) (StubResponse, bool) {
	for _, stub := range s.stubs {
		m := stub.Matcher
		if m.Method != "" && m.Method != r.Method {
			continue
		}
		if m.Path != "" && m.Path != path {
			continue
		}
		if m.Matcher != nil && !m.Matcher(r) {
			continue
		}
		return stub, true
	}
	return StubResponse{}, false
}

func (s *Server) serveStub(w http.ResponseWriter, stub StubResponse) {
	for _, f := range stub.Failures {
		switch f.Type {
		case FailureRequestDelay:
			time.Sleep(f.Delay)
		case FailureInvalidResponse:
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("\x00not json"))
			return
		case FailureDropConnection:
			if hj, ok := w.(http.Hijacker); ok {
				if conn, _, err := hj.Hijack(); err == nil {
					if tcp, ok := conn.(*net.TCPConn); ok {
						_ = tcp.SetLinger(0)
					}
					_ = conn.Close()
					return
				}
			}
		}
	}

	status := stub.Status
	if status == 0 {
		status = http.StatusOK
	}
	writeJSON(w, status, stub.Body)
}

func collectionOf(r *http.Request) string {
	vars := mux.Vars(r)
	if class, ok := vars["class"]; ok {
		return "classes/" + class
	}
	return vars["builtin"]
}

func (s *Server) handleCollection(w http.ResponseWriter, r *http.Request) {
	collection := collectionOf(r)

	if r.Method == http.MethodPost {
		body := bodyFrom(r.Context())

		s.mu.Lock()
		if collection == "users" && s.userNameTakenLocked(body[constants.FieldUserName]) {
			s.mu.Unlock()
			writeError(w, http.StatusConflict, "E409001", "userName is duplication.")
			return
		}
		id := s.insertLocked(collection, body)
		obj := s.objects[collection][id]
		s.mu.Unlock()

		resp := map[string]any{
			constants.FieldObjectID:   id,
			constants.FieldCreateDate: obj[constants.FieldCreateDate],
		}
		if collection == "users" {
			resp[constants.FieldSessionToken] = s.SessionToken
		}
		writeJSON(w, http.StatusCreated, resp)
		return
	}

	s.find(w, r, collection)
}

func (s *Server) find(w http.ResponseWriter, r *http.Request, collection string) {
	q := r.URL.Query()

	var where map[string]any
	if raw := q.Get(constants.KeyWhere); raw != "" {
		if err := codec.JSON().Unmarshal([]byte(raw), &where); err != nil {
			writeError(w, http.StatusBadRequest, "E400001", "where is invalid.")
			return
		}
	}

	s.mu.Lock()
	ids := make([]string, 0, len(s.objects[collection]))
	for id := range s.objects[collection] {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	results := []any{}
	for _, id := range ids {
		obj := s.objects[collection][id]
		if matches(obj, where) {
			results = append(results, publicCopy(obj))
		}
	}
	s.mu.Unlock()

	total := len(results)
	if skip, err := strconv.Atoi(q.Get(constants.KeySkip)); err == nil && skip > 0 {
		if skip > len(results) {
			skip = len(results)
		}
		results = results[skip:]
	}
	if limit, err := strconv.Atoi(q.Get(constants.KeyLimit)); err == nil && limit >= 0 && limit < len(results) {
		results = results[:limit]
	}

	resp := map[string]any{constants.KeyResults: results}
	if q.Get(constants.KeyCount) == "1" {
		resp[constants.KeyCount] = total
	}
	writeJSON(w, http.StatusOK, resp)
}

// matches only understands bare equality conditions; operator maps are ignored.
func matches(obj, where map[string]any) bool {
	for field, cond := range where {
		if _, isOp := cond.(map[string]any); isOp {
			continue
		}
		if !reflect.DeepEqual(obj[field], cond) {
			return false
		}
	}
	return true
}

func (s *Server) handleObject(w http.ResponseWriter, r *http.Request) {
	collection := collectionOf(r)
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	obj, ok := s.objects[collection][id]
	if !ok {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, "E404001", "No data available.")
		return
	}

	switch r.Method {
	case http.MethodGet:
		out := publicCopy(obj)
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, out)
	case http.MethodPut:
		for k, v := range bodyFrom(r.Context()) {
			if v == nil {
				delete(obj, k)
				continue
			}
			obj[k] = v
		}
		updated := s.Now().UTC().Format(constants.DateLayout)
		obj[constants.FieldUpdateDate] = updated
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{constants.FieldUpdateDate: updated})
	case http.MethodDelete:
		delete(s.objects[collection], id)
		s.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name, password := q.Get(constants.FieldUserName), q.Get(constants.FieldPassword)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.objects["users"] {
		if u[constants.FieldUserName] == name && u[constants.FieldPassword] == password {
			out := publicCopy(u)
			out[constants.FieldSessionToken] = s.SessionToken
			writeJSON(w, http.StatusOK, out)
			return
		}
	}
	writeError(w, http.StatusUnauthorized, "E401002", "Authentication error with ID/PASS incorrect.")
}

func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{})
}

func (s *Server) userNameTakenLocked(name any) bool {
	if name == nil {
		return false
	}
	for _, u := range s.objects["users"] {
		if u[constants.FieldUserName] == name {
			return true
		}
	}
	return false
}

func (s *Server) insertLocked(collection string, fields map[string]any) string {
	id := rand.NewObjectID()
	for s.objects[collection][id] != nil {
		id = rand.NewObjectID()
	}

	obj := map[string]any{}
	for k, v := range fields {
		if v != nil {
			obj[k] = v
		}
	}
	now := s.Now().UTC().Format(constants.DateLayout)
	obj[constants.FieldObjectID] = id
	obj[constants.FieldCreateDate] = now
	obj[constants.FieldUpdateDate] = now

	if s.objects[collection] == nil {
		s.objects[collection] = map[string]map[string]any{}
	}
	s.objects[collection][id] = obj
	return id
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// publicCopy is what the service reveals of an object: never the password.
func publicCopy(m map[string]any) map[string]any {
	out := copyMap(m)
	delete(out, constants.FieldPassword)
	return out
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	data, err := json.Marshal(body)
	if err != nil {
		return
	}
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{"code": code, "error": message})
}
