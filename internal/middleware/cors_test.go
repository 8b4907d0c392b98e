package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAllowOrigin(t *testing.T) {
	tests := []struct {
		configured, origin string
		want               bool
	}{
		{"*", "https://anything.example", true},
		{"https://game.example", "https://game.example", true},
		{"https://game.example", "https://evil.example", false},
		{"https://game.example", "https://game.example:8443", false},
	}
	for _, tt := range tests {
		if got := AllowOrigin(tt.configured, tt.origin); got != tt.want {
			t.Errorf("AllowOrigin(%q, %q) = %v; want %v", tt.configured, tt.origin, got, tt.want)
		}
	}
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name          string
		configured    string
		method        string
		path          string
		origin        string
		preflight     bool
		wantNext      bool
		wantAllowOrig string
		wantCreds     string
	}{
		{
			name: "no origin passes", configured: "https://game.example",
			method: "GET", path: "/api/scores",
			wantNext: true,
		},
		{
			name: "exact origin", configured: "https://game.example",
			method: "GET", path: "/api/scores", origin: "https://game.example",
			wantNext: true, wantAllowOrig: "https://game.example", wantCreds: "true",
		},
		{
			name: "foreign origin gets no headers", configured: "https://game.example",
			method: "GET", path: "/api/scores", origin: "https://evil.example",
			wantNext: true,
		},
		{
			name: "wildcard echoes origin", configured: "*",
			method: "POST", path: "/api/scores", origin: "https://x.example",
			wantNext: true, wantAllowOrig: "https://x.example", wantCreds: "true",
		},
		{
			name: "preflight answered before routing", configured: "https://game.example",
			method: "OPTIONS", path: "/api/reset-leaderboard", origin: "https://game.example", preflight: true,
			wantNext: false, wantAllowOrig: "https://game.example", wantCreds: "true",
		},
		{
			name: "health allows any origin", configured: "https://game.example",
			method: "GET", path: "/health", origin: "https://monitor.example",
			wantNext: true, wantAllowOrig: "https://monitor.example",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dummy := &dummyHandler{}
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.preflight {
				req.Header.Set("Access-Control-Request-Method", "POST")
			}
			rec := httptest.NewRecorder()
			CORS(tt.configured)(dummy).ServeHTTP(rec, req)

			if dummy.called != tt.wantNext {
				t.Errorf("next called = %v; want %v", dummy.called, tt.wantNext)
			}
			if rec.Code != http.StatusOK {
				t.Errorf("status = %d; want 200", rec.Code)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantAllowOrig {
				t.Errorf("Access-Control-Allow-Origin = %q; want %q", got, tt.wantAllowOrig)
			}
			if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != tt.wantCreds {
				t.Errorf("Access-Control-Allow-Credentials = %q; want %q", got, tt.wantCreds)
			}
		})
	}
}
