package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORSMiddleware(t *testing.T) {
	cases := []struct {
		name       string
		allowed    []string
		origin     string
		wantHeader string
	}{
		{"wildcard echoes origin", []string{"*"}, "http://example.com", "http://example.com"},
		{"exact match", []string{"http://example.com"}, "http://example.com", "http://example.com"},
		{"origin not allowed", []string{"http://example.com"}, "http://evil.test", ""},
		{"no origin header", []string{"*"}, "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := CORSMiddleware(tc.allowed)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			got, present := rec.Result().Header["Access-Control-Allow-Origin"]
			if tc.wantHeader == "" {
				if present {
					t.Fatalf("Access-Control-Allow-Origin = %q, want header absent", got)
				}
				return
			}
			if !present || got[0] != tc.wantHeader {
				t.Fatalf("Access-Control-Allow-Origin = %q, want %q", got, tc.wantHeader)
			}
		})
	}
}
