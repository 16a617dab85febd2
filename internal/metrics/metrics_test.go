package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Instrument(t *testing.T) {
	m := New()
	handler := m.Instrument(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	for i := 0; i < 3; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/blogs", nil))
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(m.requests.WithLabelValues("418", "get")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.inFlight))
}

func TestMetrics_DomainCounters(t *testing.T) {
	m := New()

	m.StreamOpened()
	m.StreamOpened()
	m.StreamClosed()
	m.EventPublished("revoked")
	m.AuthAttempt("login", "wrong-password")
	m.AuthAttempt("login", "ok")
	m.AuthAttempt("login", "ok")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.streams))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.events.WithLabelValues("revoked")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.authAttempts.WithLabelValues("login", "ok")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})

	assert.NotPanics(t, func() {
		m.StreamOpened()
		m.StreamClosed()
		m.EventPublished("signed_in")
		m.AuthAttempt("register", "ok")
		m.Instrument(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.EventPublished("role_changed")
	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.True(t, strings.Contains(string(body), `cuidado_session_events_published_total{type="role_changed"} 1`))
}
