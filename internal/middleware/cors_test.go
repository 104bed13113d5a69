package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCORS(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	tests := []struct {
		name       string
		allowed    []string
		method     string
		origin     string
		wantOrigin string
		wantStatus int
	}{
		{name: "wildcard echoes origin", allowed: []string{"*"}, method: http.MethodPost, origin: "http://app.local", wantOrigin: "http://app.local", wantStatus: http.StatusTeapot},
		{name: "listed origin", allowed: []string{"http://app.local"}, method: http.MethodGet, origin: "http://app.local", wantOrigin: "http://app.local", wantStatus: http.StatusTeapot},
		{name: "unlisted origin", allowed: []string{"http://app.local"}, method: http.MethodGet, origin: "http://evil.local", wantStatus: http.StatusTeapot},
		{name: "no origin header", allowed: []string{"*"}, method: http.MethodGet, wantStatus: http.StatusTeapot},
		{name: "preflight", allowed: []string{"*"}, method: http.MethodOptions, origin: "http://app.local", wantOrigin: "http://app.local", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(tt.method, "/chat", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			CORS(tt.allowed)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
		})
	}
}
