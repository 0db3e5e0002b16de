package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorCounters(t *testing.T) {
	c := NewCollector()

	c.MessageReceived()
	c.MessageReceived()
	c.MessageDropped(ReasonTopic)
	c.MessagePublished("response")
	c.EventEmitted("agent.join")
	c.ObserveDispatch("ping", "ok", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.inbound))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.dropped.WithLabelValues(ReasonTopic)))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.dropped.WithLabelValues(ReasonEnvelope)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.published.WithLabelValues("response")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.dispatch))
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := NewCollector()
	c.MessageReceived()

	rec := httptest.NewRecorder()
	Handler(c).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "signals_messages_received_total 1")
	assert.Contains(t, rec.Body.String(), "signals_go_routines")
}
