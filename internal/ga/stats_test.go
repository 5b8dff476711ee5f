package ga

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	pop := &Population{Genomes: []*Genome{line(6, 0), line(6, 1), line(6, 2)}}
	pop.Genomes[0].SetEvaluation(10, true)
	pop.Genomes[1].SetEvaluation(20, true)
	pop.Genomes[2].SetEvaluation(30, false)

	s := Summarize(pop)
	assert.Equal(t, 3, s.Size)
	assert.Equal(t, 2, s.Valid)
	assert.InDelta(t, 2.0/3, s.ValidRatio, 1e-12)
	assert.Equal(t, 10.0, s.Best)
	assert.InDelta(t, 15.0, s.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(50), s.Std, 1e-9)
	assert.InDelta(t, 20.0, s.MeanLength, 1e-12)
}

func TestSummarizeInfeasible(t *testing.T) {
	pop := &Population{Genomes: []*Genome{line(6, 0)}}
	pop.Genomes[0].SetEvaluation(8, false)

	s := Summarize(pop)
	assert.Zero(t, s.Valid)
	assert.True(t, math.IsInf(s.Best, 1))
	assert.Zero(t, s.Mean)
	assert.Equal(t, 8.0, s.MeanLength)

	empty := Summarize(&Population{})
	assert.Zero(t, empty.Size)
	assert.True(t, math.IsInf(empty.Best, 1))
}
