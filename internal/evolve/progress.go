package evolve

import (
	"fmt"
	"math"
	"time"

	"pathevo/internal/ga"
)

// State is the optimizer lifecycle phase
type State int

const (
	StateSeeded     State = iota // population created and evaluated once
	StateEvolving                // producing generations
	StateRecovering              // last generation had no feasible genome
	StateDone                    // generation budget exhausted
)

func (s State) String() string {
	switch s {
	case StateSeeded:
		return "seeded"
	case StateEvolving:
		return "evolving"
	case StateRecovering:
		return "recovering"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Progress is emitted after every generation. Best is a snapshot owned by the receiver.
type Progress struct {
	Best          *ga.Genome
	Generation    int
	MinFitness    float64 // +Inf when no genome is feasible
	Stats         ga.Stats
	CrossoverRate float64 // rates used to breed this generation
	MutationRate  float64
	Evaluations   int          // cumulative
	Top           []*ga.Genome // best logging.topn_debug genomes, nil when disabled
}

// Result is the outcome of a run
type Result struct {
	RunID         string
	Best          *ga.Genome
	Fitness       float64
	Valid         bool
	Generations   int
	Evaluations   int
	Recoveries    int
	CrossoverRate float64
	MutationRate  float64
	Dropped       int64 // progress events a session consumer missed
	Duration      time.Duration
}

// FormatDistance renders a fitness the way it is shown to users
func FormatDistance(f float64) string {
	if math.IsInf(f, 1) {
		return "inf"
	}
	return fmt.Sprintf("%.2f", f)
}
