package ga

import (
	"math/rand"
)

// ShuffleIndexes swaps each mutable gene, with probability indpb, with another
// uniformly chosen mutable gene of the same genome. With pinned set the first
// and last genes are left in place; otherwise every index may move.
// The genome is invalidated.
func ShuffleIndexes(g *Genome, indpb float64, pinned bool, rng *rand.Rand) {
	lo, hi := 0, len(g.Genes)-1
	if pinned {
		lo, hi = 1, len(g.Genes)-2
	}
	g.Invalidate()

	n := hi - lo + 1
	if n < 2 {
		return
	}
	for i := 0; i < n; i++ {
		if rng.Float64() < indpb {
			j := rng.Intn(n - 1)
			if j >= i {
				j++
			}
			g.Genes[lo+i], g.Genes[lo+j] = g.Genes[lo+j], g.Genes[lo+i]
		}
	}
}

// MutateOffspring mutates each genome with probability rate and returns the
// genomes that were mutated
func MutateOffspring(offspring []*Genome, rate, indpb float64, pinned bool, rng *rand.Rand) []*Genome {
	var mutants []*Genome
	for _, g := range offspring {
		if rng.Float64() < rate {
			ShuffleIndexes(g, indpb, pinned, rng)
			mutants = append(mutants, g)
		}
	}
	return mutants
}
