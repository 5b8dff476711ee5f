package ga

import (
	"math"
	"math/rand"

	"pathevo/internal/grid"
)

// Unset is the fitness of a genome that has not been evaluated or is infeasible
var Unset = math.Inf(1)

// Genome is a candidate path: a fixed-length waypoint sequence whose first and
// last genes are seeded with the start and end points
type Genome struct {
	Genes   []grid.Point
	Fitness float64 // effective fitness, minimised
	Length  float64 // raw path length
	Valid   bool

	evaluated bool
}

// NewGenome creates a genome pinned to start and end with random interior genes
func NewGenome(start, end grid.Point, length int, bounds grid.Bounds, rng *rand.Rand) *Genome {
	genes := make([]grid.Point, length)
	genes[0] = start
	for i := 1; i < length-1; i++ {
		genes[i] = grid.Point{X: rng.Intn(bounds.Width), Y: rng.Intn(bounds.Height)}
	}
	genes[length-1] = end
	return &Genome{Genes: genes, Fitness: Unset}
}

// FromGenes wraps an explicit gene sequence into an unevaluated genome
func FromGenes(genes []grid.Point) *Genome {
	g := &Genome{Genes: make([]grid.Point, len(genes)), Fitness: Unset}
	copy(g.Genes, genes)
	return g
}

// Effective combines a raw path length and validity into the value used for
// comparison: the length when valid, +Inf otherwise.
func Effective(length float64, valid bool) float64 {
	if !valid {
		return Unset
	}
	return length
}

// SetEvaluation stores an evaluation result and marks the cache current
func (g *Genome) SetEvaluation(length float64, valid bool) {
	g.Length = length
	g.Valid = valid
	g.Fitness = Effective(length, valid)
	g.evaluated = true
}

// Evaluated reports whether the cached fitness matches the current genes
func (g *Genome) Evaluated() bool {
	return g.evaluated
}

// Invalidate clears the cached fitness after the genes changed
func (g *Genome) Invalidate() {
	g.Fitness = Unset
	g.Length = 0
	g.Valid = false
	g.evaluated = false
}

// Clone creates a deep copy of a genome, cache included
func (g *Genome) Clone() *Genome {
	c := *g
	c.Genes = make([]grid.Point, len(g.Genes))
	copy(c.Genes, g.Genes)
	return &c
}

// Path returns a copy of the waypoints
func (g *Genome) Path() []grid.Point {
	out := make([]grid.Point, len(g.Genes))
	copy(out, g.Genes)
	return out
}
