// Package hosttest runs an in-memory stand-in for the host application's
// tag, content and asset API. Tests seed fixtures, inject failures per route
// and inspect the recorded requests.
package hosttest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"
)

// Route names accepted by Fail.
const (
	RouteListTags    = "listTags"
	RouteListContent = "listContent"
	RouteListAssets  = "listAssets"
	RouteRenameTag   = "renameTag"
	RouteTransferTag = "transferTag"
	RouteDeleteTag   = "deleteTag"
)

// Record is a raw JSON object as served by the host.
type Record map[string]any

// Tag builds a tag record.
func Tag(id, title string) Record {
	return Record{"_id": id, "title": title}
}

// Course builds a course content record referencing tagIDs.
func Course(id string, tagIDs ...string) Record {
	return Record{"_id": id, "_type": "course", "title": "Course " + id, "tags": toAny(tagIDs)}
}

// Asset builds an asset record referencing tagIDs.
func Asset(id string, tagIDs ...string) Record {
	return Record{"_id": id, "_type": "asset", "title": "Asset " + id, "tags": toAny(tagIDs)}
}

// Request is a request recorded by the server.
type Request struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     []byte
}

// Query parses RawQuery.
func (r Request) Query() url.Values {
	v, _ := url.ParseQuery(r.RawQuery)
	return v
}

// JSON decodes the request body into a generic map.
func (r Request) JSON() map[string]any {
	var m map[string]any
	_ = json.Unmarshal(r.Body, &m)
	return m
}

type failure struct {
	status  int
	message string
}

// Server is a fake host API.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	tags     []Record
	content  []Record
	assets   []Record
	requests []Request
	failures map[string]failure
}

// New starts a server that is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{failures: make(map[string]failure)}
	s.Server = httptest.NewServer(s.router())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.record, s.inject)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/tags", s.listTags).Methods(http.MethodGet).Name(RouteListTags)
	api.HandleFunc("/tags/transfer/{id}", s.transferTag).Methods(http.MethodPost).Name(RouteTransferTag)
	api.HandleFunc("/tags/{id}", s.renameTag).Methods(http.MethodPatch).Name(RouteRenameTag)
	api.HandleFunc("/tags/{id}", s.deleteTag).Methods(http.MethodDelete).Name(RouteDeleteTag)
	api.HandleFunc("/content", s.listContent).Methods(http.MethodGet).Name(RouteListContent)
	api.HandleFunc("/assets", s.listAssets).Methods(http.MethodGet).Name(RouteListAssets)
	return r
}

// SetTags replaces the tag fixtures.
func (s *Server) SetTags(records ...Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tags = records
}

// SetContent replaces the content fixtures.
func (s *Server) SetContent(records ...Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.content = records
}

// SetAssets replaces the asset fixtures.
func (s *Server) SetAssets(records ...Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets = records
}

// Tags returns a copy of the current tag records.
func (s *Server) Tags() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.tags)
}

// Fail makes route answer with status and a host-style error body.
// A zero status clears the failure.
func (s *Server) Fail(route string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.failures, route)
		return
	}
	s.failures[route] = failure{status: status, message: message}
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}

// RequestsTo returns the requests with the given method and path.
func (s *Server) RequestsTo(method, path string) []Request {
	var out []Request
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// Mutations returns every non-GET request.
func (s *Server) Mutations() []Request {
	var out []Request
	for _, r := range s.Requests() {
		if r.Method != http.MethodGet {
			out = append(out, r)
		}
	}
	return out
}

// ClearRequests forgets recorded requests.
func (s *Server) ClearRequests() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:   r.Method,
			Path:     r.URL.Path,
			RawQuery: r.URL.RawQuery,
			Header:   r.Header.Clone(),
			Body:     body,
		})
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (s *Server) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if route := mux.CurrentRoute(r); route != nil {
			s.mu.Lock()
			f, ok := s.failures[route.GetName()]
			s.mu.Unlock()
			if ok {
				writeError(w, f.status, f.message)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) listTags(w http.ResponseWriter, r *http.Request) {
	title := strings.ToLower(r.URL.Query().Get("title"))

	s.mu.Lock()
	out := make([]Record, 0, len(s.tags))
	for _, t := range s.tags {
		if title != "" && !strings.Contains(strings.ToLower(asString(t["title"])), title) {
			continue
		}
		out = append(out, t)
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listContent(w http.ResponseWriter, r *http.Request) {
	typ := r.URL.Query().Get("_type")

	s.mu.Lock()
	out := make([]Record, 0, len(s.content))
	for _, c := range s.content {
		if typ != "" && asString(c["_type"]) != typ {
			continue
		}
		out = append(out, c)
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listAssets(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := slices.Clone(s.assets)
	s.mu.Unlock()

	if out == nil {
		out = []Record{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) renameTag(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var body struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tags {
		if t["_id"] == id {
			t["title"] = body.Title
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(w, http.StatusNotFound, "tag not found")
}

func (s *Server) transferTag(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var body struct {
		DestID string `json:"destId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.DestID == "" {
		writeError(w, http.StatusBadRequest, "destId is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if indexOf(s.tags, id) < 0 || indexOf(s.tags, body.DestID) < 0 {
		writeError(w, http.StatusNotFound, "tag not found")
		return
	}
	for _, group := range [][]Record{s.content, s.assets} {
		for _, rec := range group {
			ids, ok := rec["tags"].([]any)
			if !ok || !slices.Contains(ids, any(id)) {
				continue
			}
			ids = slices.DeleteFunc(ids, func(v any) bool { return v == id })
			if !slices.Contains(ids, any(body.DestID)) {
				ids = append(ids, body.DestID)
			}
			rec["tags"] = ids
		}
	}
	if r.URL.Query().Get("deleteSourceTag") == "true" {
		s.tags = slices.Delete(s.tags, indexOf(s.tags, id), indexOf(s.tags, id)+1)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteTag(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.tags, id)
	if i < 0 {
		writeError(w, http.StatusNotFound, "tag not found")
		return
	}
	s.tags = slices.Delete(s.tags, i, i+1)
	for _, group := range [][]Record{s.content, s.assets} {
		for _, rec := range group {
			if ids, ok := rec["tags"].([]any); ok {
				rec["tags"] = slices.DeleteFunc(ids, func(v any) bool { return v == id })
			}
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"code":       http.StatusText(status),
		"statusCode": status,
		"message":    message,
	})
}

func indexOf(records []Record, id string) int {
	return slices.IndexFunc(records, func(r Record) bool { return r["_id"] == id })
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func toAny(ids []string) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}
