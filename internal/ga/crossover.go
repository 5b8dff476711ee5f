package ga

import (
	"math/rand"
)

// TwoPointCrossover exchanges the gene slice between two random cut points.
//
// The first cut is drawn from [1, size] and the second from [1, size-1], shifted
// past the first so the two are distinct; genes in [low, high) are swapped.
// Both genomes are invalidated.
func TwoPointCrossover(a, b *Genome, rng *rand.Rand) {
	size := len(a.Genes)
	if len(b.Genes) < size {
		size = len(b.Genes)
	}
	if size < 2 {
		return
	}

	cx1 := 1 + rng.Intn(size)
	cx2 := 1 + rng.Intn(size-1)
	if cx2 >= cx1 {
		cx2++
	} else {
		cx1, cx2 = cx2, cx1
	}

	for i := cx1; i < cx2; i++ {
		a.Genes[i], b.Genes[i] = b.Genes[i], a.Genes[i]
	}
	a.Invalidate()
	b.Invalidate()
}

// CrossoverPairs applies two-point crossover to each adjacent pair
// (0,1), (2,3), ... with probability rate. Returns the number of pairs mated.
func CrossoverPairs(offspring []*Genome, rate float64, rng *rand.Rand) int {
	mated := 0
	for i := 0; i+1 < len(offspring); i += 2 {
		if rng.Float64() < rate {
			TwoPointCrossover(offspring[i], offspring[i+1], rng)
			mated++
		}
	}
	return mated
}
