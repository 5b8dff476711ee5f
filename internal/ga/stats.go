package ga

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarises the fitness distribution of a population
type Stats struct {
	Size       int
	Valid      int
	ValidRatio float64
	Best       float64 // +Inf when nothing is feasible
	Mean       float64 // over feasible genomes only
	Std        float64
	MeanLength float64 // raw length over all genomes
}

// Summarize computes population statistics
func Summarize(p *Population) Stats {
	s := Stats{Size: len(p.Genomes), Best: Unset}
	if s.Size == 0 {
		return s
	}

	feasible := make([]float64, 0, s.Size)
	lengths := make([]float64, s.Size)
	for i, g := range p.Genomes {
		lengths[i] = g.Length
		if !math.IsInf(g.Fitness, 1) {
			feasible = append(feasible, g.Fitness)
		}
	}

	s.Valid = len(feasible)
	s.ValidRatio = float64(s.Valid) / float64(s.Size)
	s.MeanLength = stat.Mean(lengths, nil)
	if s.Valid == 0 {
		return s
	}

	s.Best = floats.Min(feasible)
	if s.Valid == 1 {
		s.Mean = feasible[0]
		return s
	}
	s.Mean, s.Std = stat.MeanStdDev(feasible, nil)
	return s
}
