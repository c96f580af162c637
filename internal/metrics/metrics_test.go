package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/domain"
)

func TestStateGauge(t *testing.T) {
	m := New()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.State.WithLabelValues("idle")))

	m.SetState(domain.StateBatchRunning)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.State.WithLabelValues("idle")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.State.WithLabelValues("batch_running")))
}

func TestCounters(t *testing.T) {
	m := New()
	m.ObserveAsk(OutcomeAnswered)
	m.ObserveAsk(OutcomeAnswered)
	m.ObserveAsk(OutcomeFailed)
	m.ObserveBatchItem(false)
	m.ObserveBatchItem(true)
	m.ObserveBatchRun(domain.RunStatusDone)
	m.ObserveReaction(domain.ReactionHeart)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Asks.WithLabelValues(OutcomeAnswered)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Asks.WithLabelValues(OutcomeFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BatchItems.WithLabelValues("placeholder")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BatchRuns.WithLabelValues("DONE")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Reactions.WithLabelValues("❤️")))
}

func TestTrackConnections(t *testing.T) {
	m := New()
	conns, viewers := 3, 2
	m.TrackConnections(func() int { return conns }, func() int { return viewers })

	scrape := func() string {
		rec := httptest.NewRecorder()
		m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		return rec.Body.String()
	}

	body := scrape()
	assert.Contains(t, body, "qa_ws_connections 3")
	assert.Contains(t, body, "qa_ws_viewers 2")

	conns, viewers = 0, 0
	body = scrape()
	assert.Contains(t, body, "qa_ws_connections 0")
	assert.Contains(t, body, "qa_ws_viewers 0")
}

func TestHandlerServesRegistry(t *testing.T) {
	m := New()
	m.ObserveBackend(domain.OriginManual, nil, 120*time.Millisecond)
	m.ObserveBackend(domain.OriginBatch, errors.New("boom"), time.Second)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `qa_backend_request_duration_seconds_count{origin="manual",status="ok"} 1`))
	assert.True(t, strings.Contains(body, `qa_backend_request_duration_seconds_count{origin="batch",status="error"} 1`))
	assert.True(t, strings.Contains(body, "qa_session_state"))
}
