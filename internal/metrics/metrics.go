package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder publishes optimizer progress as Prometheus metrics.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	generations   prometheus.Counter
	evaluations   prometheus.Counter
	mutations     prometheus.Counter
	recoveries    *prometheus.CounterVec
	adaptations   *prometheus.CounterVec
	droppedEvents prometheus.Counter

	bestDistance prometheus.Gauge
	validRatio   prometheus.Gauge
	mutationRate prometheus.Gauge
	registerSize prometheus.Gauge
}

// NewRecorder creates the collectors on a private registry
func NewRecorder(namespace string) *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		generations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ga",
			Name:      "generations_total",
			Help:      "Generations completed",
		}),
		evaluations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ga",
			Name:      "evaluations_total",
			Help:      "Fitness evaluations performed",
		}),
		mutations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ga",
			Name:      "mutation_events_total",
			Help:      "Generations in which at least one genome was mutated",
		}),
		recoveries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ga",
			Name:      "recoveries_total",
			Help:      "Generations with no feasible genome, by outcome",
		}, []string{"outcome"}),
		adaptations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ga",
			Name:      "mutation_adaptations_total",
			Help:      "Success-rule adjustments of the mutation rate, by direction",
		}, []string{"direction"}),
		droppedEvents: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "dropped_events_total",
			Help:      "Progress events dropped because the consumer was behind",
		}),
		bestDistance: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ga",
			Name:      "best_distance",
			Help:      "Lowest effective fitness of the current generation (+Inf when infeasible)",
		}),
		validRatio: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ga",
			Name:      "valid_ratio",
			Help:      "Share of feasible genomes in the current generation",
		}),
		mutationRate: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ga",
			Name:      "mutation_rate",
			Help:      "Current per-genome mutation probability",
		}),
		registerSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ga",
			Name:      "register_size",
			Help:      "Archived best genomes available for reseeding",
		}),
	}
}

// Registry exposes the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// ObserveGeneration records the end-of-generation state
func (r *Recorder) ObserveGeneration(best, validRatio, mutationRate float64, registerSize int) {
	if r == nil {
		return
	}
	r.generations.Inc()
	r.bestDistance.Set(best)
	r.validRatio.Set(validRatio)
	r.mutationRate.Set(mutationRate)
	r.registerSize.Set(float64(registerSize))
}

// AddEvaluations counts fitness evaluations
func (r *Recorder) AddEvaluations(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.evaluations.Add(float64(n))
}

// MutationEvent counts a generation that produced mutants
func (r *Recorder) MutationEvent() {
	if r == nil {
		return
	}
	r.mutations.Inc()
}

// Recovery counts a fully infeasible generation; reseeded tells whether the
// register could refill the population
func (r *Recorder) Recovery(reseeded bool) {
	if r == nil {
		return
	}
	outcome := "stalled"
	if reseeded {
		outcome = "reseeded"
	}
	r.recoveries.WithLabelValues(outcome).Inc()
}

// Adaptation records a mutation-rate adjustment from before to after
func (r *Recorder) Adaptation(before, after float64) {
	if r == nil {
		return
	}
	direction := "unchanged"
	switch {
	case after > before:
		direction = "up"
	case after < before:
		direction = "down"
	}
	r.adaptations.WithLabelValues(direction).Inc()
	r.mutationRate.Set(after)
}

// DroppedEvent counts a progress event the consumer did not receive
func (r *Recorder) DroppedEvent() {
	if r == nil {
		return
	}
	r.droppedEvents.Inc()
}
