package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/KennelOS/backend/internal/domain/session"
	"github.com/GriffinCanCode/KennelOS/backend/internal/infrastructure/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.Logging.Level = "error"
	cfg.Content.RecordsPath = t.TempDir()
	cfg.Content.AssetsPath = t.TempDir()
	cfg.RateLimit.Enabled = false

	srv, err := NewServer(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })
	return srv
}

func TestServerRoutes(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"root", "GET", "/", http.StatusOK},
		{"health", "GET", "/health", http.StatusOK},
		{"metrics", "GET", "/metrics", http.StatusOK},
		{"tree", "GET", "/tree", http.StatusOK},
		{"seeded dog", "GET", "/api/dogs/champion-rex", http.StatusOK},
		{"weather without key", "GET", "/api/weather?city=x", http.StatusInternalServerError},
		{"unknown route", "GET", "/nowhere", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			srv.Handler().ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestServerCompressesLargeResponses(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest("GET", "/tree", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
}

func TestServerMetricsCountRequests(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest("POST", "/sessions", nil))
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	body := w.Body.String()
	assert.Contains(t, body, `route="/sessions"`)
	assert.Contains(t, body, "kennel_sessions_active 1")
}

func TestServerStreamsThroughCompression(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	s, err := srv.Sessions().Create(session.Options{})
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/sessions/" + s.ID + "/stream"
	header := http.Header{"Accept-Encoding": []string{"gzip"}}
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	defer conn.Close()

	var frame map[string]interface{}
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, "snapshot", frame["type"])
}
