package ga

import (
	"math/rand"
)

// BestRegister archives copies of per-generation best genomes for reseeding
// when a population crashes. A positive capacity drops the oldest entries.
type BestRegister struct {
	entries  []*Genome
	capacity int
}

// NewBestRegister creates an empty register; capacity <= 0 means unbounded
func NewBestRegister(capacity int) *BestRegister {
	return &BestRegister{capacity: capacity}
}

// Append stores an independent copy of g
func (r *BestRegister) Append(g *Genome) {
	r.entries = append(r.entries, g.Clone())
	if r.capacity > 0 && len(r.entries) > r.capacity {
		n := copy(r.entries, r.entries[len(r.entries)-r.capacity:])
		clear(r.entries[n:])
		r.entries = r.entries[:n]
	}
}

// Len returns the number of archived genomes
func (r *BestRegister) Len() int {
	return len(r.entries)
}

// Last returns the most recent entry, or nil when empty
func (r *BestRegister) Last() *Genome {
	if len(r.entries) == 0 {
		return nil
	}
	return r.entries[len(r.entries)-1]
}

// Sample returns a copy of a uniformly chosen entry, or nil when empty
func (r *BestRegister) Sample(rng *rand.Rand) *Genome {
	if len(r.entries) == 0 {
		return nil
	}
	return r.entries[rng.Intn(len(r.entries))].Clone()
}

// Reseed builds n genomes sampled from the register with replacement
func (r *BestRegister) Reseed(n int, rng *rand.Rand) []*Genome {
	if len(r.entries) == 0 {
		return nil
	}
	out := make([]*Genome, n)
	for i := range out {
		out[i] = r.Sample(rng)
	}
	return out
}
