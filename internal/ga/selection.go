package ga

import (
	"math/rand"
)

// TournamentSelect draws k genomes uniformly with replacement and returns the
// one with the lowest fitness. Ties keep the first drawn.
func TournamentSelect(genomes []*Genome, k int, rng *rand.Rand) *Genome {
	if len(genomes) == 0 {
		return nil
	}

	best := genomes[rng.Intn(len(genomes))]
	for i := 1; i < k; i++ {
		candidate := genomes[rng.Intn(len(genomes))]
		if candidate.Fitness < best.Fitness {
			best = candidate
		}
	}
	return best
}

// SelectOffspring runs n tournaments over the population and returns
// independent clones of the winners, ready for variation
func SelectOffspring(pop *Population, n, k int, rng *rand.Rand) []*Genome {
	offspring := make([]*Genome, n)
	for i := 0; i < n; i++ {
		offspring[i] = TournamentSelect(pop.Genomes, k, rng).Clone()
	}
	return offspring
}
