package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	mw "github.com/openshelf/library-api/internal/api/middlewares"
)

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		provided string
		keep     bool
	}{
		{"generates when absent", "", false},
		{"keeps a sane caller id", "loan-trace-42", true},
		{"replaces ids with junk characters", "drop table;--", false},
		{"replaces overlong ids", strings.Repeat("a", 80), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seenInCtx string
			h := mw.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seenInCtx = mw.GetRequestID(r)
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/loans/records", nil)
			if tt.provided != "" {
				req.Header.Set("X-Request-ID", tt.provided)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			echoed := rec.Header().Get("X-Request-ID")
			if echoed == "" {
				t.Fatal("expected X-Request-ID on the response")
			}
			if tt.keep && echoed != tt.provided {
				t.Errorf("expected caller id %q kept, got %q", tt.provided, echoed)
			}
			if !tt.keep && echoed == tt.provided {
				t.Errorf("expected id %q to be replaced", tt.provided)
			}
			if seenInCtx != echoed {
				t.Errorf("context id %q does not match response header %q", seenInCtx, echoed)
			}
		})
	}
}
