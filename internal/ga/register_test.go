package ga

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathevo/internal/grid"
)

func TestBestRegisterAppendCopies(t *testing.T) {
	r := NewBestRegister(0)
	assert.Nil(t, r.Last())

	g := line(6, 0)
	r.Append(g)
	g.Genes[1] = grid.Point{X: 99, Y: 99}

	require.Equal(t, 1, r.Len())
	assert.NotSame(t, g, r.Last())
	assert.Equal(t, grid.Point{X: 1, Y: 0}, r.Last().Genes[1])
}

func TestBestRegisterCapacity(t *testing.T) {
	r := NewBestRegister(3)
	for i := 0; i < 5; i++ {
		g := line(6, i)
		g.SetEvaluation(float64(i), true)
		r.Append(g)
	}

	require.Equal(t, 3, r.Len())
	assert.Equal(t, 4.0, r.Last().Fitness)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		assert.GreaterOrEqual(t, r.Sample(rng).Fitness, 2.0, "oldest entries are dropped")
	}
}

func TestBestRegisterReseed(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	r := NewBestRegister(0)
	assert.Nil(t, r.Sample(rng))
	assert.Nil(t, r.Reseed(4, rng))

	a, b := line(6, 0), line(6, 50)
	a.SetEvaluation(10, true)
	b.SetEvaluation(20, true)
	r.Append(a)
	r.Append(b)

	seeded := r.Reseed(100, rng)
	require.Len(t, seeded, 100)
	for i, g := range seeded {
		assert.True(t, g.Evaluated(), "reseeded genomes keep their cached fitness")
		assert.Contains(t, []float64{10, 20}, g.Fitness)
		for _, other := range seeded[i+1:] {
			assert.NotSame(t, g, other)
		}
	}
}
