package eval

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"runtime/debug"

	"golang.org/x/sync/errgroup"

	"pathevo/internal/ga"
	"pathevo/internal/grid"
)

// ErrEvalPanic wraps a panic raised while scoring a batch of genomes
var ErrEvalPanic = errors.New("fitness evaluation panicked")

// Scorer returns the raw length of a path and whether it is feasible
type Scorer func(genes []grid.Point) (float64, bool)

// Option configures an Evaluator
type Option func(*Evaluator)

// WithScorer replaces the scoring used by EvaluateGenome and EvaluateGenomes
func WithScorer(s Scorer) Option {
	return func(e *Evaluator) {
		e.score = s
	}
}

// Evaluator scores candidate paths against a fixed route and obstacle set.
// It holds no mutable state and is safe for concurrent use.
type Evaluator struct {
	start     grid.Point
	end       grid.Point
	obstacles *grid.Obstacles
	workers   int
	score     Scorer
}

// NewEvaluator creates a new evaluator; workers <= 0 uses one per CPU
func NewEvaluator(start, end grid.Point, obstacles *grid.Obstacles, workers int, opts ...Option) *Evaluator {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	e := &Evaluator{
		start:     start,
		end:       end,
		obstacles: obstacles,
		workers:   workers,
	}
	e.score = e.Evaluate
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Workers returns the evaluation parallelism
func (e *Evaluator) Workers() int {
	return e.workers
}

// Evaluate returns the raw path length and whether the path is feasible.
// The length is computed even for infeasible paths.
func (e *Evaluator) Evaluate(genes []grid.Point) (float64, bool) {
	return PathLength(genes), e.Valid(genes)
}

// PathLength sums the Euclidean distances between consecutive waypoints
func PathLength(genes []grid.Point) float64 {
	d := 0.0
	for i := 1; i < len(genes); i++ {
		dx := genes[i].X - genes[i-1].X
		dy := genes[i].Y - genes[i-1].Y
		d += math.Sqrt(float64(dx*dx + dy*dy))
	}
	return d
}

// Valid reports whether the path starts and ends at the route endpoints and
// its rasterized cells avoid every obstacle
func (e *Evaluator) Valid(genes []grid.Point) bool {
	if len(genes) == 0 || genes[0] != e.start || genes[len(genes)-1] != e.end {
		return false
	}
	return grid.WalkPath(genes, func(p grid.Point) bool {
		return !e.obstacles.Blocked(p)
	})
}

// Collisions returns the distinct blocked cells the path crosses, row-major
func (e *Evaluator) Collisions(genes []grid.Point) []grid.Point {
	seen := make(map[grid.Point]struct{})
	var hits []grid.Point
	grid.WalkPath(genes, func(p grid.Point) bool {
		if e.obstacles.Blocked(p) {
			if _, ok := seen[p]; !ok {
				seen[p] = struct{}{}
				hits = append(hits, p)
			}
		}
		return true
	})
	grid.SortPoints(hits)
	return hits
}

// EvaluateGenome scores g and stores the result in its fitness cache
func (e *Evaluator) EvaluateGenome(g *ga.Genome) {
	g.SetEvaluation(e.score(g.Genes))
}

// EvaluateGenomes scores every genome whose cache is unset, splitting the work
// into one contiguous chunk per worker. Returns the number of evaluations.
// A panic in any chunk is returned as an error wrapping ErrEvalPanic.
func (e *Evaluator) EvaluateGenomes(ctx context.Context, genomes []*ga.Genome) (int, error) {
	pending := make([]*ga.Genome, 0, len(genomes))
	for _, g := range genomes {
		if !g.Evaluated() {
			pending = append(pending, g)
		}
	}
	if len(pending) == 0 {
		return 0, nil
	}

	chunk := (len(pending) + e.workers - 1) / e.workers
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(e.workers)
	for lo := 0; lo < len(pending); lo += chunk {
		part := pending[lo:min(lo+chunk, len(pending))]
		eg.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%w: %v\n%s", ErrEvalPanic, r, debug.Stack())
				}
			}()
			if err := egCtx.Err(); err != nil {
				return err
			}
			for _, g := range part {
				e.EvaluateGenome(g)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return 0, err
	}
	return len(pending), nil
}
