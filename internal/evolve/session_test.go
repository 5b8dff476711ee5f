package evolve

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathevo/internal/eval"
	"pathevo/internal/grid"
	"pathevo/internal/metrics"
)

func drain(s *Session) []Event {
	var events []Event
	for e := range s.Events() {
		events = append(events, e)
	}
	return events
}

func TestSessionDeliversProgressThenDone(t *testing.T) {
	o := newOptimizer(t, testConfig(30, 5))
	s := Start(context.Background(), o, 5)

	events := drain(s)
	require.Len(t, events, 6)
	for i, e := range events[:5] {
		assert.Equal(t, EventProgress, e.Kind)
		assert.Equal(t, i+1, e.Progress.Generation)
	}
	final := events[5]
	assert.Equal(t, EventDone, final.Kind)
	assert.NoError(t, final.Err)

	res, err := s.Wait()
	require.NoError(t, err)
	assert.Equal(t, final.Result.Fitness, res.Fitness)
	assert.Equal(t, 5, res.Generations)
	assert.Zero(t, s.Dropped())
}

func TestSessionDropsWhenConsumerLags(t *testing.T) {
	rec := metrics.NewRecorder("test")
	o := newOptimizer(t, testConfig(20, 10), WithMetrics(rec))
	s := Start(context.Background(), o, 1)

	_, err := s.Wait()
	require.NoError(t, err)

	events := drain(s)
	require.Len(t, events, 2, "one buffered progress plus the terminal event")
	assert.Equal(t, EventProgress, events[0].Kind)
	assert.Equal(t, 1, events[0].Progress.Generation)
	assert.Equal(t, EventDone, events[1].Kind)
	assert.Equal(t, int64(9), s.Dropped())
	assert.Equal(t, 9.0, gathered(t, rec, "test_session_dropped_events_total"))
}

func TestSessionReportsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := Start(ctx, newOptimizer(t, testConfig(20, 10)), 4)
	events := drain(s)
	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, EventError, last.Kind)
	assert.ErrorIs(t, last.Err, context.Canceled)

	_, err := s.Wait()
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSessionRecoversWorkerPanic(t *testing.T) {
	o := newOptimizer(t, testConfig(20, 3))
	o.evaluator = nil

	s := Start(context.Background(), o, 2)
	_, err := s.Wait()
	assert.ErrorIs(t, err, ErrWorkerPanic)

	events := drain(s)
	require.Len(t, events, 1)
	assert.Equal(t, EventError, events[0].Kind)
	assert.ErrorIs(t, events[0].Err, ErrWorkerPanic)
	assert.NotEmpty(t, events[0].Stack)
}

func TestSessionRecoversEvaluationPanic(t *testing.T) {
	o := newOptimizer(t, testConfig(20, 3))
	o.evaluator = eval.NewEvaluator(o.start, o.end, nil, 2, eval.WithScorer(func([]grid.Point) (float64, bool) {
		panic("scorer exploded")
	}))

	s := Start(context.Background(), o, 2)
	res, err := s.Wait()
	require.ErrorIs(t, err, ErrWorkerPanic)
	assert.ErrorIs(t, err, eval.ErrEvalPanic)
	assert.Contains(t, err.Error(), "scorer exploded")
	assert.Equal(t, o.RunID(), res.RunID)
	assert.Zero(t, res.Generations)

	events := drain(s)
	require.Len(t, events, 1)
	assert.Equal(t, EventError, events[0].Kind)
	assert.ErrorIs(t, events[0].Err, eval.ErrEvalPanic)
}

func TestSessionRunsOnRebuiltObstacles(t *testing.T) {
	cfg := testConfig(20, 2)
	b := grid.NewBuilder(cfg.Bounds())
	b.AddRect(grid.Point{X: 30, Y: 20}, grid.Point{X: 31, Y: 40})
	b.Build()
	o, err := New(cfg, b.Build(), quiet())
	require.NoError(t, err)

	s := Start(context.Background(), o, 4)
	events := drain(s)
	require.NotEmpty(t, events)
	assert.Equal(t, EventDone, events[len(events)-1].Kind)
	_, err = s.Wait()
	assert.NoError(t, err)
}

func TestSessionWithoutOptimizer(t *testing.T) {
	s := Start(context.Background(), nil, 3)

	res, err := s.Wait()
	assert.ErrorIs(t, err, ErrNoOptimizer)
	assert.Nil(t, res.Best)

	events := drain(s)
	require.Len(t, events, 1)
	assert.Equal(t, EventError, events[0].Kind)
	assert.ErrorIs(t, events[0].Err, ErrNoOptimizer)
	assert.Zero(t, s.Dropped())
}

func TestEventKindString(t *testing.T) {
	assert.Equal(t, "progress", EventProgress.String())
	assert.Equal(t, "done", EventDone.String())
	assert.Equal(t, "error", EventError.String())
}
