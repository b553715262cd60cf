// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sanchomuzax/hirstart-recosys/internal/logging"
)

func TestRequestID_Generated(t *testing.T) {
	t.Parallel()

	var seen, corr string
	handler := RequestID(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
		corr = logging.CorrelationIDFromContext(r.Context())
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == "" {
		t.Fatal("expected a generated request ID in context")
	}
	if rec.Header().Get("X-Request-ID") != seen {
		t.Errorf("header = %q, context = %q, want equal", rec.Header().Get("X-Request-ID"), seen)
	}
	if len(corr) != 8 {
		t.Errorf("expected an 8-character correlation ID, got %q", corr)
	}
}

func TestRequestID_Upstream(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		incoming string
		reuse    bool
	}{
		{"reuses upstream ID", "edge-123", true},
		{"replaces oversized ID", strings.Repeat("x", 500), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var seen string
			handler := RequestID(func(w http.ResponseWriter, r *http.Request) {
				seen = logging.RequestIDFromContext(r.Context())
			})
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("X-Request-ID", tt.incoming)
			handler(httptest.NewRecorder(), req)

			if (seen == tt.incoming) != tt.reuse {
				t.Errorf("request ID = %q, reuse expected %v", seen, tt.reuse)
			}
		})
	}
}
