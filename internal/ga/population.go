package ga

import (
	"math/rand"
	"sort"

	"pathevo/internal/grid"
)

// Population manages the collection of genomes of one generation
type Population struct {
	Genomes []*Genome
}

// NewPopulation creates a new random population of pinned genomes
func NewPopulation(size int, start, end grid.Point, genomeLength int, bounds grid.Bounds, rng *rand.Rand) *Population {
	p := &Population{Genomes: make([]*Genome, size)}
	for i := 0; i < size; i++ {
		p.Genomes[i] = NewGenome(start, end, genomeLength, bounds, rng)
	}
	return p
}

// Size returns the population size
func (p *Population) Size() int {
	return len(p.Genomes)
}

// Best returns the genome with the lowest fitness, first encountered on ties
func (p *Population) Best() *Genome {
	if len(p.Genomes) == 0 {
		return nil
	}
	best := p.Genomes[0]
	for _, g := range p.Genomes[1:] {
		if g.Fitness < best.Fitness {
			best = g
		}
	}
	return best
}

// MinFitness returns the lowest effective fitness, +Inf when nothing is feasible
func (p *Population) MinFitness() float64 {
	best := p.Best()
	if best == nil {
		return Unset
	}
	return best.Fitness
}

// Unevaluated returns the genomes whose fitness cache is unset
func (p *Population) Unevaluated() []*Genome {
	var out []*Genome
	for _, g := range p.Genomes {
		if !g.Evaluated() {
			out = append(out, g)
		}
	}
	return out
}

// TopK returns the k best genomes without reordering the population
func (p *Population) TopK(k int) []*Genome {
	sorted := make([]*Genome, len(p.Genomes))
	copy(sorted, p.Genomes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Fitness < sorted[j].Fitness
	})
	if k > len(sorted) {
		k = len(sorted)
	}
	return sorted[:k]
}

// Replace swaps in the next generation wholesale
func (p *Population) Replace(genomes []*Genome) {
	p.Genomes = genomes
}
