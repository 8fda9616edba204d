package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"swarm-agents/internal/asklog"
	"swarm-agents/internal/config"
	"swarm-agents/internal/gemini"
	"swarm-agents/internal/session"
)

type fakeAsker struct {
	mu      sync.Mutex
	key     bool
	answer  gemini.Answer
	prompts []string
	models  []string
}

func (f *fakeAsker) HasKey() bool { return f.key }

func (f *fakeAsker) Ask(_ context.Context, model, prompt string) gemini.Answer {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	f.models = append(f.models, model)
	return f.answer
}

func (f *fakeAsker) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func okAsker(text string) *fakeAsker {
	return &fakeAsker{key: true, answer: gemini.Answer{Text: text, Status: gemini.StatusOK, Duration: 5 * time.Millisecond}}
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.SessionSecret = "test-secret"
	cfg.Server.SessionTTLMinutes = 30
	cfg.Gemini.TimeoutSeconds = 30
	return cfg
}

func testDeps(asker Asker) *Deps {
	return &Deps{
		Gemini:   asker,
		Catalog:  gemini.NewCatalog(nil),
		Sessions: session.NewMemoryStore(time.Minute),
		AskLog:   asklog.NewRecorder(nil),
	}
}

// browser replays cookies between requests like a real client.
type browser struct {
	t       *testing.T
	r       http.Handler
	cookies []*http.Cookie
}

func newBrowser(t *testing.T, r http.Handler) *browser {
	return &browser{t: t, r: r}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	b.r.ServeHTTP(w, req)
	if set := w.Result().Cookies(); len(set) > 0 {
		b.cookies = set
	}
	return w
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest("GET", path, nil))
}

func (b *browser) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) postJSON(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return b.do(req)
}

func TestSetupRouter_BasicRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := SetupRouter(testConfig(), testDeps(okAsker("hi")))

	for _, path := range []string{"/health", "/config", "/", "/api/agents", "/api/models"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
		if w.Code != http.StatusOK {
			t.Errorf("GET %s should return 200, got %d", path, w.Code)
		}
	}
}

func TestSetupRouter_Subpath(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	cfg.Server.Subpath = "/swarm/"
	r := SetupRouter(cfg, testDeps(okAsker("hi")))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/swarm/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("GET /swarm/health should return 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/swarm", nil))
	if w.Code != http.StatusOK {
		t.Errorf("GET /swarm should return 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/swarm/", nil))
	if w.Code != http.StatusMovedPermanently || w.Header().Get("Location") != "/swarm" {
		t.Errorf("GET /swarm/ should redirect to /swarm, got %d %q", w.Code, w.Header().Get("Location"))
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("GET /health outside the subpath should 404, got %d", w.Code)
	}
}

func TestSetupRouter_SetsSessionCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	cfg.Server.Subpath = "/swarm"
	r := SetupRouter(cfg, testDeps(okAsker("hi")))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/swarm", nil))
	var found bool
	for _, c := range w.Result().Cookies() {
		if c.Name == "swarm_session" {
			found = true
			if c.Path != "/swarm" {
				t.Errorf("cookie path = %q, want /swarm", c.Path)
			}
			if !c.HttpOnly {
				t.Errorf("session cookie should be HttpOnly")
			}
		}
	}
	if !found {
		t.Fatalf("expected a session cookie")
	}
}

func TestNormalizeSubpath(t *testing.T) {
	cases := map[string]string{
		"":        "",
		"/":       "",
		"swarm":   "/swarm",
		"/swarm/": "/swarm",
		" /a/b/ ": "/a/b",
	}
	for in, want := range cases {
		if got := normalizeSubpath(in); got != want {
			t.Errorf("normalizeSubpath(%q) = %q, want %q", in, got, want)
		}
	}
}
