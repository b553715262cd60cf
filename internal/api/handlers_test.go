// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/sanchomuzax/hirstart-recosys/internal/events"
	"github.com/sanchomuzax/hirstart-recosys/internal/pagescan"
	"github.com/sanchomuzax/hirstart-recosys/internal/render"
	"github.com/sanchomuzax/hirstart-recosys/internal/stats"
	"github.com/sanchomuzax/hirstart-recosys/internal/storage"
)

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/health/live", nil)
	expectStatus(t, w, http.StatusOK)

	w = env.do(t, http.MethodGet, "/api/v1/health/ready", nil)
	expectStatus(t, w, http.StatusOK)
	var ready map[string]interface{}
	decodeEnvelope(t, w, &ready)
	if ready["status"] != "ready" {
		t.Errorf("status = %v, want ready", ready["status"])
	}
}

func TestHealthReady_StoreDown(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, withStore(brokenStore{storage.NewMemoryStore()}))

	w := env.do(t, http.MethodGet, "/api/v1/health/ready", nil)
	expectStatus(t, w, http.StatusServiceUnavailable)
}

func TestCreateProfile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		opts      []envOption
		wantToken bool
	}{
		{name: "anonymous", wantToken: false},
		{name: "with tokens", opts: []envOption{withTokens()}, wantToken: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t, tt.opts...)
			w := env.do(t, http.MethodPost, "/api/v1/profiles", nil)
			expectStatus(t, w, http.StatusCreated)

			var created ProfileCreated
			decodeEnvelope(t, w, &created)
			if len(created.ProfileID) != 36 {
				t.Errorf("ProfileID = %q, want a UUID", created.ProfileID)
			}
			if (created.Token != "") != tt.wantToken {
				t.Errorf("Token = %q, wantToken %v", created.Token, tt.wantToken)
			}
		})
	}
}

func TestProfileRoutes_InvalidProfileID(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/api/v1/profiles/bad!/stats", nil)
	expectStatus(t, w, http.StatusBadRequest)
}

func TestRecordClick(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, profilePath("/clicks"), pagescan.ClickInput{
		Href:         "https://www.index.hu/sport/1",
		Rel:          "hs_2001_0",
		CategoryHref: "/sport.php",
		PageURL:      "https://www.hirstart.hu/",
	})
	expectStatus(t, w, http.StatusCreated)

	var out ClickRecorded
	decodeEnvelope(t, w, &out)
	if !out.Recorded || !out.ItemMarked {
		t.Errorf("Recorded = %v, ItemMarked = %v, want both true", out.Recorded, out.ItemMarked)
	}
	if out.Event == nil || out.Event.Site != "index.hu" || out.Event.Category != "sport" || out.Event.ItemID != "2001" {
		t.Errorf("Event = %+v", out.Event)
	}

	got := env.publisher.types()
	want := []events.Type{events.TypeItemSeen, events.TypeClickRecorded}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("published %v, want %v", got, want)
	}

	w = env.do(t, http.MethodGet, profilePath("/seen/2001"), nil)
	expectStatus(t, w, http.StatusOK)
	var seenOut map[string]interface{}
	decodeEnvelope(t, w, &seenOut)
	if seenOut["seen"] != true {
		t.Errorf("seen = %v, want true", seenOut["seen"])
	}
}

func TestRecordClick_HostSite(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, profilePath("/clicks"), pagescan.ClickInput{
		Href: "https://www.hirstart.hu/sport.php",
		Rel:  "hs_3001_0",
	})
	expectStatus(t, w, http.StatusOK)

	var out ClickRecorded
	decodeEnvelope(t, w, &out)
	if out.Recorded {
		t.Error("host site click should not be recorded")
	}
	if !out.HostSite || !out.ItemMarked {
		t.Errorf("HostSite = %v, ItemMarked = %v, want both true", out.HostSite, out.ItemMarked)
	}

	w = env.do(t, http.MethodGet, profilePath("/stats"), nil)
	var summary stats.Summary
	decodeEnvelope(t, w, &summary)
	if summary.TotalClicks != 0 || summary.SeenCount != 1 {
		t.Errorf("TotalClicks = %d, SeenCount = %d, want 0 and 1", summary.TotalClicks, summary.SeenCount)
	}
}

func TestRecordClick_BadRequests(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	tests := []struct {
		name string
		body interface{}
		want int
	}{
		{name: "invalid json", body: "{", want: http.StatusBadRequest},
		{name: "missing href", body: pagescan.ClickInput{Rel: "hs_1_0"}, want: http.StatusBadRequest},
		{name: "unparsable href", body: pagescan.ClickInput{Href: "http://[::1"}, want: http.StatusBadRequest},
		{name: "too large", body: `{"href":"` + strings.Repeat("a", maxBodyBytes) + `"}`, want: http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, profilePath("/clicks"), tt.body)
			expectStatus(t, w, tt.want)
			env := decodeEnvelope(t, w, nil)
			if env.Status != "error" || env.Error == nil {
				t.Errorf("expected error envelope, got %+v", env)
			}
		})
	}
}

func TestRecordClick_PersistenceFailure(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, withStore(brokenStore{storage.NewMemoryStore()}))

	w := env.do(t, http.MethodPost, profilePath("/clicks"), pagescan.ClickInput{
		Href: "https://index.hu/sport/1",
	})
	expectStatus(t, w, http.StatusServiceUnavailable)

	e := decodeEnvelope(t, w, nil)
	if e.Error == nil || e.Error.Code != "PERSISTENCE_ERROR" {
		t.Errorf("Error = %+v, want PERSISTENCE_ERROR", e.Error)
	}
	if n := len(env.publisher.types()); n != 0 {
		t.Errorf("published %d events after a failed save", n)
	}
}

func TestMarkSeen(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	for i, wantAdded := range []bool{true, false} {
		w := env.do(t, http.MethodPost, profilePath("/seen"), SeenRequest{ItemID: "42"})
		expectStatus(t, w, http.StatusOK)
		var out map[string]interface{}
		decodeEnvelope(t, w, &out)
		if out["added"] != wantAdded {
			t.Errorf("call %d: added = %v, want %v", i, out["added"], wantAdded)
		}
	}

	w := env.do(t, http.MethodPost, profilePath("/seen"), SeenRequest{ItemID: "abc"})
	expectStatus(t, w, http.StatusBadRequest)

	w = env.do(t, http.MethodGet, profilePath("/seen/abc"), nil)
	expectStatus(t, w, http.StatusBadRequest)
}

func TestRecommend(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.click(t, "https://index.hu/sport/1", "hs_2001_0")

	w := env.do(t, http.MethodPost, profilePath("/recommendation"), PageRequest{
		HTML:    portalPage,
		PageURL: "https://www.hirstart.hu/",
	})
	expectStatus(t, w, http.StatusOK)

	var out Recommendation
	decodeEnvelope(t, w, &out)
	if out.Response == nil || out.Selected == nil {
		t.Fatalf("expected a selection, got %s", w.Body.String())
	}
	if out.Selected.ItemID != "2002" {
		t.Errorf("Selected.ItemID = %q, want 2002 (2001 is seen)", out.Selected.ItemID)
	}
	if out.Scanned != 4 || out.Eligible != 1 {
		t.Errorf("Scanned = %d, Eligible = %d, want 4 and 1", out.Scanned, out.Eligible)
	}
	if !strings.Contains(out.HighlightHTML, render.HighlightBoxID) {
		t.Errorf("HighlightHTML missing box: %q", out.HighlightHTML)
	}
}

func TestRecommend_NoHistory(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, profilePath("/recommendation"), PageRequest{HTML: portalPage})
	expectStatus(t, w, http.StatusOK)

	var out Recommendation
	decodeEnvelope(t, w, &out)
	if out.Response == nil || out.Selected != nil {
		t.Errorf("expected no selection, got %s", w.Body.String())
	}
	if out.HighlightHTML != "" {
		t.Error("HighlightHTML should be empty without a selection")
	}
}

func TestRecommend_PageErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		fetcher  PageFetcher
		req      PageRequest
		want     int
		wantCode string
	}{
		{name: "no page", req: PageRequest{}, want: http.StatusBadRequest, wantCode: "VALIDATION_ERROR"},
		{name: "fetching disabled", req: PageRequest{URL: "https://www.hirstart.hu/"}, want: http.StatusBadRequest, wantCode: "VALIDATION_ERROR"},
		{
			name:     "foreign host",
			fetcher:  &stubFetcher{err: pagescan.ErrHostNotAllowed},
			req:      PageRequest{URL: "https://example.com/"},
			want:     http.StatusBadRequest,
			wantCode: "VALIDATION_ERROR",
		},
		{
			name:     "fetch failure",
			fetcher:  &stubFetcher{err: pagescan.ErrFetch},
			req:      PageRequest{URL: "https://www.hirstart.hu/"},
			want:     http.StatusBadGateway,
			wantCode: "FETCH_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var opts []envOption
			if tt.fetcher != nil {
				opts = append(opts, withFetcher(tt.fetcher))
			}
			env := newTestEnv(t, opts...)

			w := env.do(t, http.MethodPost, profilePath("/recommendation"), tt.req)
			expectStatus(t, w, tt.want)
			e := decodeEnvelope(t, w, nil)
			if e.Error == nil || e.Error.Code != tt.wantCode {
				t.Errorf("Error = %+v, want code %s", e.Error, tt.wantCode)
			}
		})
	}
}

func TestRecommend_FetchedPage(t *testing.T) {
	t.Parallel()

	articles, err := pagescan.Scan(strings.NewReader(portalPage), "https://www.hirstart.hu/")
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	env := newTestEnv(t, withFetcher(&stubFetcher{articles: articles}))
	env.click(t, "https://index.hu/sport/9", "")

	w := env.do(t, http.MethodPost, profilePath("/recommendation"), PageRequest{URL: "https://www.hirstart.hu/"})
	expectStatus(t, w, http.StatusOK)

	var out Recommendation
	decodeEnvelope(t, w, &out)
	if out.Selected == nil || out.Selected.Site != "index.hu" {
		t.Errorf("Selected = %+v, want an index.hu article", out.Selected)
	}
}

func TestDismiss(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.click(t, "https://index.hu/sport/1", "hs_2001_0")

	w := env.do(t, http.MethodPost, profilePath("/dismiss"), DismissRequest{
		ItemID: "2002",
		HTML:   portalPage,
	})
	expectStatus(t, w, http.StatusOK)

	var out Recommendation
	decodeEnvelope(t, w, &out)
	if out.Selected != nil {
		t.Errorf("Selected = %+v, want none after dismissing the only eligible item", out.Selected)
	}
	if out.Metadata.Dismissed != "2002" {
		t.Errorf("Metadata.Dismissed = %q, want 2002", out.Metadata.Dismissed)
	}

	w = env.do(t, http.MethodGet, profilePath("/seen/2002"), nil)
	var seenOut map[string]interface{}
	decodeEnvelope(t, w, &seenOut)
	if seenOut["seen"] != true {
		t.Error("dismissed item should be seen")
	}

	types := env.publisher.types()
	if types[len(types)-1] != events.TypeItemDismissed {
		t.Errorf("last event = %s, want %s", types[len(types)-1], events.TypeItemDismissed)
	}
}

func TestDismiss_WithoutPage(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, profilePath("/dismiss"), DismissRequest{ItemID: "77"})
	expectStatus(t, w, http.StatusOK)

	w = env.do(t, http.MethodPost, profilePath("/dismiss"), DismissRequest{})
	expectStatus(t, w, http.StatusBadRequest)
}

func TestExplain(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.click(t, "https://index.hu/sport/9", "")

	w := env.do(t, http.MethodPost, profilePath("/explain"), PageRequest{HTML: portalPage})
	expectStatus(t, w, http.StatusOK)

	var out struct {
		Scanned    int `json:"scanned"`
		Candidates []struct {
			ItemID string `json:"item_id"`
			Score  int    `json:"score"`
		} `json:"candidates"`
	}
	decodeEnvelope(t, w, &out)
	if out.Scanned != 4 {
		t.Errorf("Scanned = %d, want 4", out.Scanned)
	}
	if len(out.Candidates) != 2 {
		t.Fatalf("len(Candidates) = %d, want 2", len(out.Candidates))
	}
	for _, c := range out.Candidates {
		if c.Score != 1 {
			t.Errorf("candidate %s score = %d, want 1", c.ItemID, c.Score)
		}
	}
}

func TestStatsAndPanel(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.click(t, "https://index.hu/sport/1", "hs_2001_0")
	env.click(t, "https://telex.hu/belfold/2", "")

	w := env.do(t, http.MethodGet, profilePath("/stats"), nil)
	expectStatus(t, w, http.StatusOK)
	var summary stats.Summary
	decodeEnvelope(t, w, &summary)
	if summary.TotalClicks != 2 || summary.DistinctSites != 2 || summary.SeenCount != 1 {
		t.Errorf("summary = %+v", summary)
	}

	w = env.do(t, http.MethodGet, profilePath("/panel"), nil)
	expectStatus(t, w, http.StatusOK)
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}
	if !strings.Contains(w.Body.String(), "index.hu") {
		t.Error("panel should list clicked sites")
	}
}

func TestResetProfile(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.click(t, "https://index.hu/sport/1", "hs_2001_0")

	w := env.do(t, http.MethodDelete, profilePath(""), nil)
	expectStatus(t, w, http.StatusOK)

	w = env.do(t, http.MethodGet, profilePath("/stats"), nil)
	var summary stats.Summary
	decodeEnvelope(t, w, &summary)
	if summary.TotalClicks != 0 || summary.SeenCount != 0 {
		t.Errorf("summary after reset = %+v", summary)
	}

	types := env.publisher.types()
	if types[len(types)-1] != events.TypeProfileReset {
		t.Errorf("last event = %s, want %s", types[len(types)-1], events.TypeProfileReset)
	}
}

func TestProfileTokens(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, withTokens())

	w := env.do(t, http.MethodPost, "/api/v1/profiles", nil)
	var created ProfileCreated
	decodeEnvelope(t, w, &created)
	other, err := env.handler.tokens.Issue(testProfile)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	statsPath := "/api/v1/profiles/" + created.ProfileID + "/stats"

	tests := []struct {
		name    string
		headers []string
		want    int
	}{
		{name: "missing", want: http.StatusUnauthorized},
		{name: "malformed", headers: []string{"Authorization", "Token x"}, want: http.StatusUnauthorized},
		{name: "other profile", headers: []string{"Authorization", "Bearer " + other}, want: http.StatusForbidden},
		{name: "bearer", headers: []string{"Authorization", "Bearer " + created.Token}, want: http.StatusOK},
		{name: "header", headers: []string{"X-Profile-Token", created.Token}, want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodGet, statsPath, nil, tt.headers...)
			expectStatus(t, w, tt.want)
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, profilePath("/stats"), nil)

	for _, h := range []string{"X-Content-Type-Options", "X-Frame-Options"} {
		if w.Header().Get(h) == "" {
			t.Errorf("missing %s header", h)
		}
	}
	if w.Header().Get("ETag") == "" {
		t.Error("missing ETag header")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/metrics", nil)
	expectStatus(t, w, http.StatusOK)
}
