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
	"github.com/stretchr/testify/require"
)

func TestCollector_ObserveMethod(t *testing.T) {
	c := NewCollector()

	c.ObserveMethod("Simpson", 3*time.Microsecond, nil)
	c.ObserveMethod("Simpson", 5*time.Microsecond, nil)
	c.ObserveMethod("Simpson", 0, errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(c.runs.WithLabelValues("Simpson", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.runs.WithLabelValues("Simpson", "error")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.duration))
}

func TestCollector_ObserveError(t *testing.T) {
	c := NewCollector()
	c.ObserveError("F1", "Trapezoid", 13.5)
	c.ObserveError("F1", "Trapezoid", 12.25)

	assert.Equal(t, 12.25, testutil.ToFloat64(c.absError.WithLabelValues("F1", "Trapezoid")))
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector()
	c.ObserveMethod("Monte Carlo", time.Millisecond, nil)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "gointegral_method_duration_seconds"))
	assert.True(t, strings.Contains(body, `method="Monte Carlo"`))
}
