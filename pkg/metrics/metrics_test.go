package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New("test_service")

	m.IncSlotOperation("reserve", "ok")
	m.IncSlotOperation("reserve", "ok")
	m.IncSlotOperation("reserve", "conflict")
	m.AddBulkVisitItems("cancel", "updated", 3)
	m.AddBulkVisitItems("cancel", "failed", 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SlotOperations.WithLabelValues("reserve", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SlotOperations.WithLabelValues("reserve", "conflict")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.BulkVisitItems.WithLabelValues("cancel", "updated")))
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.IncSlotOperation("reserve", "ok")
		m.AddBulkVisitItems("assign", "updated", 1)
		m.ObserveHTTPRequest("/x", http.MethodGet, 200, time.Millisecond)
		m.ObserveDBQuery("query", time.Millisecond)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New("test_service")
	m.ObserveHTTPRequest("/api/v1/visits/bulk", http.MethodPost, 200, 10*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "test_service_http_requests_total"))
}
