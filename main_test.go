package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tonotes/config"
	"tonotes/testutils"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
	URL   string          `json:"url"`
}

type testServer struct {
	t        *testing.T
	router   *gin.Engine
	store    *testutils.MemStore
	identity *testutils.StubIdentity
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := testutils.NewMemStore()
	identity := testutils.NewStubIdentity()
	identity.OAuthURL = "https://accounts.example.com/authorize"

	cfg := config.Load()
	cfg.CORSAllowedOrigins = []string{"*"}
	cfg.MaxBodyBytes = 1 << 20

	router := setupRouter(&deps{
		cfg:      cfg,
		store:    store,
		identity: identity,
		cache:    identity,
		now:      testutils.SteppingClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Second),
	})
	return &testServer{t: t, router: router, store: store, identity: identity}
}

// do sends a request with an optional bearer token and JSON body and decodes the envelope.
func (s *testServer) do(method, path, token, body string) (int, envelope) {
	s.t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		s.t.Fatalf("%s %s: response is not an envelope: %q", method, path, w.Body.String())
	}
	return w.Code, env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("failed to decode data %s: %v", env.Data, err)
	}
	return out
}

type noteJSON struct {
	ID         string  `json:"id"`
	UserID     string  `json:"user_id"`
	Title      string  `json:"title"`
	Content    *string `json:"content"`
	IsArchived bool    `json:"is_archived"`
	IsPinned   bool    `json:"is_pinned"`
	IsStarred  bool    `json:"is_starred"`
	Color      *string `json:"color"`
	CreatedAt  string  `json:"created_at"`
}

type tagJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	s := newTestServer(t)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/auth/logout"},
		{http.MethodGet, "/api/notes"},
		{http.MethodPost, "/api/notes"},
		{http.MethodGet, "/api/notes/n1"},
		{http.MethodPut, "/api/notes/n1"},
		{http.MethodDelete, "/api/notes/n1"},
		{http.MethodGet, "/api/notes/n1/tags"},
		{http.MethodPost, "/api/notes/n1/tags"},
		{http.MethodDelete, "/api/notes/n1/tags/t1"},
		{http.MethodGet, "/api/tags"},
		{http.MethodPost, "/api/tags"},
		{http.MethodDelete, "/api/tags/t1"},
		{http.MethodGet, "/api/tags/t1/notes"},
		{http.MethodGet, "/api/account/deletion-status"},
		{http.MethodDelete, "/api/account"},
	}

	for _, r := range routes {
		t.Run(r.method+" "+r.path, func(t *testing.T) {
			for _, token := range []string{"", "not-a-known-token"} {
				code, env := s.do(r.method, r.path, token, "")
				if code != http.StatusUnauthorized {
					t.Fatalf("token %q: expected 401, got %d", token, code)
				}
				if env.OK || env.Error == "" {
					t.Errorf("token %q: unexpected envelope %+v", token, env)
				}
			}
		})
	}
}

func TestHealthAndStatus(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(http.MethodGet, "/health", "", "")
	if code != http.StatusOK || !env.OK {
		t.Fatalf("health: %d %+v", code, env)
	}
	health := decodeData[map[string]interface{}](t, env)
	if health["service"] != "server" || health["timestamp"] == "" {
		t.Errorf("unexpected health payload %v", health)
	}

	code, env = s.do(http.MethodGet, "/status", "", "")
	if code != http.StatusOK || !env.OK {
		t.Fatalf("status: %d %+v", code, env)
	}

	s.identity.PingErr = errors.New("redis down")
	code, env = s.do(http.MethodGet, "/status", "", "")
	status := decodeData[map[string]interface{}](t, env)
	if code != http.StatusOK || status["cache_reachable"] != false {
		t.Errorf("expected degraded cache to be reported, got %d %v", code, status)
	}

	s.store.PingErr = errors.New("connection refused")
	code, env = s.do(http.MethodGet, "/status", "", "")
	if code != http.StatusInternalServerError || env.OK {
		t.Errorf("expected 500 when the store is down, got %d %+v", code, env)
	}
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)
	code, env := s.do(http.MethodGet, "/nope", "", "")
	if code != http.StatusNotFound || env.OK || env.Error == "" {
		t.Errorf("unexpected response %d %+v", code, env)
	}
}

func TestAuthRoutes(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name      string
		path      string
		body      string
		wantCode  int
		wantError string
	}{
		{"signup", "/auth/signup", `{"email":"new@example.com","password":"secret1"}`, http.StatusCreated, ""},
		{"signup missing password", "/auth/signup", `{"email":"new@example.com"}`, http.StatusBadRequest, "Email and password required"},
		{"signup empty body", "/auth/signup", ``, http.StatusBadRequest, "Email and password required"},
		{"signup malformed body", "/auth/signup", `{"email":`, http.StatusBadRequest, "Invalid request body"},
		{"signup taken", "/auth/signup", `{"email":"taken@example.com","password":"secret1"}`, http.StatusBadRequest, "User already registered"},
		{"login", "/auth/login", `{"email":"a@example.com","password":"correct-password"}`, http.StatusOK, ""},
		{"login wrong password", "/auth/login", `{"email":"a@example.com","password":"nope"}`, http.StatusUnauthorized, "Invalid login credentials"},
		{"login missing email", "/auth/login", `{"password":"x"}`, http.StatusBadRequest, "Email and password required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := s.do(http.MethodPost, tt.path, "", tt.body)
			if code != tt.wantCode {
				t.Fatalf("expected %d, got %d (%+v)", tt.wantCode, code, env)
			}
			if tt.wantError != "" && env.Error != tt.wantError {
				t.Errorf("expected error %q, got %q", tt.wantError, env.Error)
			}
			if tt.wantError == "" {
				payload := decodeData[map[string]map[string]interface{}](t, env)
				if payload["session"]["access_token"] == "" || payload["user"]["email"] == "" {
					t.Errorf("expected user and session in payload, got %s", env.Data)
				}
			}
		})
	}
}

func TestLogout(t *testing.T) {
	s := newTestServer(t)
	s.identity.AddToken("tok", "user-1")

	code, env := s.do(http.MethodPost, "/auth/logout", "tok", "")
	if code != http.StatusOK || !env.OK {
		t.Fatalf("logout: %d %+v", code, env)
	}
	if code, _ := s.do(http.MethodGet, "/api/notes", "tok", ""); code != http.StatusUnauthorized {
		t.Errorf("token still valid after logout: %d", code)
	}
}

func TestGoogleURL(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(http.MethodGet, "/auth/google-url", "", "")
	if code != http.StatusOK || !env.OK {
		t.Fatalf("google-url: %d %+v", code, env)
	}
	data := decodeData[map[string]string](t, env)
	if !strings.HasSuffix(data["url"], "redirect_uri=http://example.com/health") {
		t.Errorf("expected default redirect to /health, got %q", data["url"])
	}
	if env.URL != data["url"] {
		t.Errorf("top-level url %q does not match data.url %q", env.URL, data["url"])
	}

	_, env = s.do(http.MethodGet, "/auth/google-url?redirect=https://app.example.com/cb", "", "")
	if !strings.HasSuffix(decodeData[map[string]string](t, env)["url"], "redirect_uri=https://app.example.com/cb") {
		t.Errorf("explicit redirect ignored: %s", env.Data)
	}

	s.identity.OAuthURL = ""
	code, env = s.do(http.MethodGet, "/auth/google-url", "", "")
	if code != http.StatusBadRequest || env.OK {
		t.Errorf("expected 400 when the provider is disabled, got %d %+v", code, env)
	}
}

func TestNotesLifecycle(t *testing.T) {
	s := newTestServer(t)
	s.identity.AddToken("alice", "alice")
	s.identity.AddToken("bob", "bob")

	code, env := s.do(http.MethodPost, "/api/notes", "alice", `{"title":"A","content":"B"}`)
	if code != http.StatusCreated {
		t.Fatalf("create: %d %+v", code, env)
	}
	created := decodeData[noteJSON](t, env)
	if created.ID == "" || created.CreatedAt == "" || created.UserID != "alice" {
		t.Fatalf("expected server-assigned fields, got %+v", created)
	}
	if created.IsArchived || created.IsPinned || created.Color != nil {
		t.Errorf("unexpected defaults %+v", created)
	}

	code, env = s.do(http.MethodGet, "/api/notes/"+created.ID, "alice", "")
	got := decodeData[noteJSON](t, env)
	if code != http.StatusOK || got.Title != "A" || got.Content == nil || *got.Content != "B" {
		t.Fatalf("round trip failed: %d %+v", code, got)
	}

	t.Run("other user cannot see it", func(t *testing.T) {
		if code, _ := s.do(http.MethodGet, "/api/notes/"+created.ID, "bob", ""); code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", code)
		}
		_, env := s.do(http.MethodGet, "/api/notes", "bob", "")
		if notes := decodeData[[]noteJSON](t, env); len(notes) != 0 {
			t.Errorf("bob sees %d notes", len(notes))
		}
	})

	t.Run("partial update", func(t *testing.T) {
		code, env := s.do(http.MethodPut, "/api/notes/"+created.ID, "alice", `{"is_pinned":true}`)
		updated := decodeData[noteJSON](t, env)
		if code != http.StatusOK || !updated.IsPinned || updated.Title != "A" || *updated.Content != "B" {
			t.Errorf("unexpected update result %d %+v", code, updated)
		}
	})

	t.Run("truthy coercion", func(t *testing.T) {
		_, env := s.do(http.MethodPut, "/api/notes/"+created.ID, "alice", `{"is_starred":"yes","is_archived":0}`)
		updated := decodeData[noteJSON](t, env)
		if !updated.IsStarred || updated.IsArchived {
			t.Errorf("unexpected flags %+v", updated)
		}
	})

	t.Run("blank title rejected", func(t *testing.T) {
		code, env := s.do(http.MethodPut, "/api/notes/"+created.ID, "alice", `{"title":"   "}`)
		if code != http.StatusBadRequest || env.Error != "Title cannot be empty" {
			t.Errorf("unexpected response %d %+v", code, env)
		}
	})

	t.Run("empty update returns note", func(t *testing.T) {
		code, env := s.do(http.MethodPut, "/api/notes/"+created.ID, "alice", "")
		if code != http.StatusOK || decodeData[noteJSON](t, env).ID != created.ID {
			t.Errorf("unexpected response %d %+v", code, env)
		}
	})

	t.Run("update missing note", func(t *testing.T) {
		if code, _ := s.do(http.MethodPut, "/api/notes/missing", "alice", `{"title":"x"}`); code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", code)
		}
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			code, env := s.do(http.MethodDelete, "/api/notes/"+created.ID, "alice", "")
			if code != http.StatusOK || !env.OK {
				t.Fatalf("delete #%d: %d %+v", i+1, code, env)
			}
		}
		if code, _ := s.do(http.MethodGet, "/api/notes/"+created.ID, "alice", ""); code != http.StatusNotFound {
			t.Errorf("expected deleted note to be gone, got %d", code)
		}
	})
}

func TestCreateNoteValidation(t *testing.T) {
	s := newTestServer(t)
	s.identity.AddToken("alice", "alice")

	for _, body := range []string{`{"title":""}`, `{"title":"   "}`, `{}`, ``} {
		code, env := s.do(http.MethodPost, "/api/notes", "alice", body)
		if code != http.StatusBadRequest || env.Error != "Title is required" {
			t.Errorf("body %q: unexpected response %d %+v", body, code, env)
		}
	}
	if code, _ := s.do(http.MethodPost, "/api/notes", "alice", `{"title":"ok","tagIds":["missing"]}`); code != http.StatusNotFound {
		t.Errorf("expected 404 for an unknown tag id, got %d", code)
	}

	_, env := s.do(http.MethodGet, "/api/notes", "alice", "")
	if notes := decodeData[[]noteJSON](t, env); len(notes) != 0 {
		t.Errorf("expected no rows after failed creates, have %d", len(notes))
	}
}

func TestListNotesFilters(t *testing.T) {
	s := newTestServer(t)
	s.identity.AddToken("alice", "alice")

	for _, body := range []string{
		`{"title":"Food list","content":"eggs"}`,
		`{"title":"Bar","content":"nothing here"}`,
		`{"title":"Archived","content":"old FOOD","is_archived":true}`,
		`{"title":"Pinned","is_pinned":true}`,
	} {
		if code, env := s.do(http.MethodPost, "/api/notes", "alice", body); code != http.StatusCreated {
			t.Fatalf("create %s: %d %+v", body, code, env)
		}
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"Pinned", "Archived", "Bar", "Food list"}},
		{"?q=foo", []string{"Archived", "Food list"}},
		{"?q=%20foo%20", []string{"Archived", "Food list"}},
		{"?q=foo&archived=false", []string{"Food list"}},
		{"?archived=true", []string{"Archived"}},
		{"?pinned=true", []string{"Pinned"}},
		{"?starred=true", []string{}},
		{"?q=.*", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			code, env := s.do(http.MethodGet, "/api/notes"+tt.query, "alice", "")
			if code != http.StatusOK {
				t.Fatalf("list: %d %+v", code, env)
			}
			notes := decodeData[[]noteJSON](t, env)
			titles := make([]string, 0, len(notes))
			for _, n := range notes {
				titles = append(titles, n.Title)
			}
			if strings.Join(titles, ",") != strings.Join(tt.want, ",") {
				t.Errorf("got %v, want %v", titles, tt.want)
			}
		})
	}
}

func TestTagRoutes(t *testing.T) {
	s := newTestServer(t)
	s.identity.AddToken("alice", "alice")

	_, env := s.do(http.MethodPost, "/api/notes", "alice", `{"title":"Pinned old","is_pinned":true}`)
	pinnedOld := decodeData[noteJSON](t, env)
	_, env = s.do(http.MethodPost, "/api/notes", "alice", `{"title":"Plain new"}`)
	plain := decodeData[noteJSON](t, env)
	_, env = s.do(http.MethodPost, "/api/notes", "alice", `{"title":"Pinned new","is_pinned":true}`)
	pinnedNew := decodeData[noteJSON](t, env)

	code, env := s.do(http.MethodPost, "/api/tags", "alice", `{"name":"work"}`)
	if code != http.StatusCreated {
		t.Fatalf("create tag: %d %+v", code, env)
	}
	work := decodeData[tagJSON](t, env)

	if code, env := s.do(http.MethodPost, "/api/tags", "alice", `{"name":""}`); code != http.StatusBadRequest {
		t.Errorf("expected 400 for a blank name, got %d %+v", code, env)
	}

	_, env = s.do(http.MethodPost, "/api/tags", "alice", `{"name":"home","note_id":"`+plain.ID+`"}`)
	home := decodeData[tagJSON](t, env)

	t.Run("list alphabetical", func(t *testing.T) {
		_, env := s.do(http.MethodGet, "/api/tags", "alice", "")
		tags := decodeData[[]tagJSON](t, env)
		if len(tags) != 2 || tags[0].Name != "home" || tags[1].Name != "work" {
			t.Errorf("unexpected tags %+v", tags)
		}
	})

	t.Run("link validation", func(t *testing.T) {
		for _, body := range []string{`{"tagIds":[]}`, `{}`, `{"tagIds":"x"}`, ``} {
			code, env := s.do(http.MethodPost, "/api/notes/"+plain.ID+"/tags", "alice", body)
			if code != http.StatusBadRequest || env.Error != "tagIds must be a non-empty array" {
				t.Errorf("body %q: unexpected response %d %+v", body, code, env)
			}
		}
	})

	for _, n := range []noteJSON{pinnedOld, plain, pinnedNew} {
		code, env := s.do(http.MethodPost, "/api/notes/"+n.ID+"/tags", "alice", `{"tagIds":["`+work.ID+`"]}`)
		if code != http.StatusCreated || !env.OK {
			t.Fatalf("link %s: %d %+v", n.Title, code, env)
		}
	}

	t.Run("duplicate link rejected", func(t *testing.T) {
		code, _ := s.do(http.MethodPost, "/api/notes/"+plain.ID+"/tags", "alice", `{"tagIds":["`+work.ID+`"]}`)
		if code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", code)
		}
	})

	t.Run("tags for note", func(t *testing.T) {
		_, env := s.do(http.MethodGet, "/api/notes/"+plain.ID+"/tags", "alice", "")
		tags := decodeData[[]tagJSON](t, env)
		if len(tags) != 2 || tags[0].ID != home.ID || tags[1].ID != work.ID {
			t.Errorf("unexpected tags %+v", tags)
		}
	})

	t.Run("notes for tag pinned first then newest", func(t *testing.T) {
		_, env := s.do(http.MethodGet, "/api/tags/"+work.ID+"/notes", "alice", "")
		notes := decodeData[[]noteJSON](t, env)
		want := []string{pinnedNew.ID, pinnedOld.ID, plain.ID}
		if len(notes) != len(want) {
			t.Fatalf("expected %d notes, got %d", len(want), len(notes))
		}
		for i, n := range notes {
			if n.ID != want[i] {
				t.Errorf("position %d: got %s, want %s", i, n.Title, want[i])
			}
		}

		_, env = s.do(http.MethodGet, "/api/tags/"+work.ID+"/notes?q=PLAIN", "alice", "")
		if notes := decodeData[[]noteJSON](t, env); len(notes) != 1 || notes[0].ID != plain.ID {
			t.Errorf("unexpected filtered notes %+v", notes)
		}
	})

	t.Run("unlink twice", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			code, env := s.do(http.MethodDelete, "/api/notes/"+plain.ID+"/tags/"+work.ID, "alice", "")
			if code != http.StatusOK || !env.OK {
				t.Fatalf("unlink #%d: %d %+v", i+1, code, env)
			}
		}
	})

	t.Run("delete tag", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			if code, _ := s.do(http.MethodDelete, "/api/tags/"+work.ID, "alice", ""); code != http.StatusOK {
				t.Fatalf("delete #%d: %d", i+1, code)
			}
		}
		_, env := s.do(http.MethodGet, "/api/tags/"+work.ID+"/notes", "alice", "")
		if notes := decodeData[[]noteJSON](t, env); len(notes) != 0 {
			t.Errorf("associations survived tag deletion: %d", len(notes))
		}
	})
}

func TestAccountRoutes(t *testing.T) {
	s := newTestServer(t)
	s.identity.AddToken("alice", "alice")

	s.do(http.MethodPost, "/api/notes", "alice", `{"title":"one"}`)
	s.do(http.MethodPost, "/api/tags", "alice", `{"name":"t"}`)

	code, env := s.do(http.MethodGet, "/api/account/deletion-status", "alice", "")
	if code != http.StatusOK {
		t.Fatalf("deletion-status: %d %+v", code, env)
	}
	status := decodeData[map[string]map[string]int](t, env)
	if sum := status["dataSummary"]; sum["notes"] != 1 || sum["tags"] != 1 || sum["totalItems"] != 2 {
		t.Errorf("unexpected summary %v", status)
	}

	code, env = s.do(http.MethodDelete, "/api/account", "alice", "")
	if code != http.StatusOK || !env.OK {
		t.Fatalf("delete account: %d %+v", code, env)
	}
	if code, _ := s.do(http.MethodGet, "/api/notes", "alice", ""); code != http.StatusUnauthorized {
		t.Errorf("expected sessions revoked after account deletion, got %d", code)
	}
}
