package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorders(t *testing.T) {
	m := NewMetrics()

	m.WindowOpened("file")
	m.WindowOpened("file")
	m.WindowOpened("folder")
	m.WindowClosed()
	m.PathNotFound()
	m.FragmentWritten()
	m.EchoSuppressed()
	m.SessionOpened()
	m.SessionOpened()
	m.SessionClosed()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.WindowsOpened.WithLabelValues("file")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WindowsClosed))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PathsNotFound))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EchoesIgnored))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionsActive))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SessionsTotal))

	snap := m.GetSnapshot()
	assert.Equal(t, int64(3), snap.WindowsOpened)
	assert.Equal(t, int64(1), snap.ActiveSessions)
}

func TestInstancesDoNotCollide(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()

	a.PathNotFound()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.PathsNotFound))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.PathsNotFound))
}

func TestMiddlewareLabelsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics()

	router := gin.New()
	router.Use(Middleware(m))
	router.GET("/sessions/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	for _, id := range []string{"a", "b"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sessions/"+id, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/sessions/:id", "404")))
	snap := m.GetSnapshot()
	assert.Equal(t, int64(2), snap.TotalRequests)
	assert.Equal(t, int64(2), snap.TotalErrors)
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := NewMetrics()
	NewTimer(m, "weather").Stop("ok")
	NewTimer(nil, "weather").Stop("ok")

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `kennel_upstream_calls_total{service="weather",status="ok"} 1`)
	assert.Contains(t, w.Body.String(), "kennel_uptime_seconds")
	assert.Less(t, m.GetSnapshot().UptimeSeconds, float64(time.Minute))
}
