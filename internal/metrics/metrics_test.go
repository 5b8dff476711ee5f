package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder("test")

	r.ObserveGeneration(42.5, 0.25, 0.3, 7)
	r.ObserveGeneration(40, 0.5, 0.3, 8)
	r.AddEvaluations(100)
	r.AddEvaluations(0)
	r.MutationEvent()
	r.Recovery(true)
	r.Recovery(false)
	r.Recovery(false)
	r.Adaptation(0.3, 0.45)
	r.DroppedEvent()

	assert.Equal(t, 2.0, testutil.ToFloat64(r.generations))
	assert.Equal(t, 100.0, testutil.ToFloat64(r.evaluations))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.mutations))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.recoveries.WithLabelValues("reseeded")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.recoveries.WithLabelValues("stalled")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.adaptations.WithLabelValues("up")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.droppedEvents))
	assert.Equal(t, 40.0, testutil.ToFloat64(r.bestDistance))
	assert.Equal(t, 0.45, testutil.ToFloat64(r.mutationRate))
	assert.Equal(t, 8.0, testutil.ToFloat64(r.registerSize))
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.ObserveGeneration(1, 1, 1, 1)
		r.AddEvaluations(5)
		r.MutationEvent()
		r.Recovery(true)
		r.Adaptation(0.1, 0.2)
		r.DroppedEvent()
	})
	assert.Nil(t, r.Registry())
}

func TestHandler(t *testing.T) {
	r := NewRecorder("pathevo")
	r.ObserveGeneration(12, 1, 0.3, 1)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "pathevo_ga_generations_total 1")
	assert.Contains(t, string(body), "pathevo_ga_best_distance 12")
}
