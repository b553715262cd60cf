// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/sanchomuzax/hirstart-recosys/internal/auth"
	"github.com/sanchomuzax/hirstart-recosys/internal/clicklog"
	"github.com/sanchomuzax/hirstart-recosys/internal/config"
	"github.com/sanchomuzax/hirstart-recosys/internal/events"
	"github.com/sanchomuzax/hirstart-recosys/internal/models"
	"github.com/sanchomuzax/hirstart-recosys/internal/pagescan"
	"github.com/sanchomuzax/hirstart-recosys/internal/recommend"
	"github.com/sanchomuzax/hirstart-recosys/internal/seen"
	"github.com/sanchomuzax/hirstart-recosys/internal/storage"
)

const (
	testProfile = "0f8fad5b-d9cb-469f-a165-70867728950e"
	testSecret  = "test_secret_with_at_least_32_characters_for_testing"
)

// portalPage has two visible index.hu sport articles and one hidden one.
const portalPage = `<!DOCTYPE html>
<html><body>
<div class="boxhir">
  <a href="https://index.hu/sport/1" rel="hs_2001_0">First</a>
  <a class="rovat" href="/sport.php">Sport</a>
</div>
<div class="boxhir">
  <a href="https://index.hu/sport/2" rel="hs_2002_0">Second</a>
  <a class="rovat" href="/sport.php">Sport</a>
</div>
<div class="rovidhir" hidden>
  <a href="https://index.hu/sport/3" rel="hs_2003_0">Hidden</a>
</div>
<div class="rovidhir">
  <a href="https://telex.hu/belfold/4" rel="hs_2004_0">Unclicked site</a>
</div>
</body></html>`

// envelope is the decoded APIResponse with Data left raw.
type envelope struct {
	Status string           `json:"status"`
	Data   json.RawMessage  `json:"data"`
	Error  *models.APIError `json:"error"`
}

// recordingPublisher collects published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []*events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev *events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}

// stubFetcher returns fixed articles or a fixed error.
type stubFetcher struct {
	articles []pagescan.Article
	err      error
}

func (f *stubFetcher) Fetch(context.Context, string) ([]pagescan.Article, error) {
	return f.articles, f.err
}

// brokenStore fails every operation with a persistence error.
type brokenStore struct {
	*storage.MemoryStore
}

var errBackendDown = errors.New("backend down")

func (brokenStore) persistence(op string) error {
	return &storage.PersistenceError{Op: op, Backend: "test", Err: errBackendDown}
}

func (s brokenStore) Load(context.Context, string, ...storage.Key) (*storage.Record, error) {
	return nil, s.persistence("load")
}

func (s brokenStore) Save(context.Context, string, *storage.Record, ...storage.Key) error {
	return s.persistence("save")
}

func (s brokenStore) Delete(context.Context, string) error {
	return s.persistence("delete")
}

func (s brokenStore) Ping(context.Context) error {
	return errBackendDown
}

type testEnv struct {
	handler   *Handler
	router    http.Handler
	store     storage.Store
	publisher *recordingPublisher
}

type envOption func(*config.Config, *Deps)

func withStore(store storage.Store) envOption {
	return func(_ *config.Config, d *Deps) { d.Store = store }
}

func withFetcher(f PageFetcher) envOption {
	return func(_ *config.Config, d *Deps) { d.Fetcher = f }
}

func withTokens() envOption {
	return func(c *config.Config, _ *Deps) { c.Security.RequireToken = true }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	cfg := &config.Config{
		Security: config.SecurityConfig{
			CORSOrigins:       []string{"https://www.hirstart.hu"},
			RateLimitDisabled: true,
			TokenSecret:       testSecret,
			TokenTTL:          time.Hour,
		},
		Server: config.ServerConfig{Timeout: 5 * time.Second},
	}
	deps := Deps{Config: cfg, Store: storage.NewMemoryStore()}
	for _, opt := range opts {
		opt(cfg, &deps)
	}

	deps.Locker = storage.NewLocker()
	deps.Tracker = clicklog.NewTracker(deps.Store, deps.Locker)
	deps.Registry = seen.NewRegistry(deps.Store, deps.Locker)
	engine, err := recommend.NewEngine(recommend.DefaultConfig(), deps.Store, deps.Registry,
		recommend.NewSelector(recommend.NewSeededRand(1)))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	deps.Engine = engine
	deps.Resolver = pagescan.NewResolver("", nil)
	deps.Scanner = pagescan.NewScanner(nil)

	if cfg.Security.RequireToken {
		tokens, err := auth.NewTokenManager(&cfg.Security)
		if err != nil {
			t.Fatalf("NewTokenManager() error = %v", err)
		}
		deps.Tokens = tokens
	}

	publisher := &recordingPublisher{}
	deps.Events = publisher

	handler := NewHandler(deps)
	return &testEnv{
		handler:   handler,
		router:    NewRouter(handler).SetupChi(),
		store:     deps.Store,
		publisher: publisher,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	if data != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, data); err != nil {
			t.Fatalf("decode data %s: %v", env.Data, err)
		}
	}
	return env
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, want, w.Body.String())
	}
}

func profilePath(suffix string) string {
	return "/api/v1/profiles/" + testProfile + suffix
}

// click posts an external click on index.hu's sport section.
func (e *testEnv) click(t *testing.T, href, rel string) {
	t.Helper()
	w := e.do(t, http.MethodPost, profilePath("/clicks"), pagescan.ClickInput{
		Href:         href,
		Rel:          rel,
		CategoryHref: "https://www.hirstart.hu/sport.php",
		PageURL:      "https://www.hirstart.hu/",
	})
	expectStatus(t, w, http.StatusCreated)
}
