package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathevo/internal/grid"
)

func validConfig() *Config {
	cfg := Default()
	cfg.Route.Start = &grid.Point{X: 0, Y: 0}
	cfg.Route.End = &grid.Point{X: 10, Y: 0}
	return cfg
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, grid.Bounds{Width: 500, Height: 450}, cfg.Bounds())
	assert.Equal(t, 10000, cfg.GA.Population)
	assert.Equal(t, 20, cfg.GA.Generations)
	assert.Equal(t, 6, cfg.GA.GenomeLength)
	assert.Equal(t, 3, cfg.GA.TournamentK)
	assert.Equal(t, 0.3, cfg.GA.CrossoverRate)
	assert.Equal(t, 0.3, cfg.GA.MutationRate)
	assert.Equal(t, 0.5, cfg.GA.GeneSwapRate)
	assert.False(t, cfg.GA.MutateEndpoints)
	assert.Equal(t, 5, cfg.Adapt.Window)
	assert.Equal(t, 0.2, cfg.Adapt.Target)
	assert.Equal(t, 3, cfg.Route.Brush)

	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig, "endpoints are required")
}

func TestLoadExample(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "configs", "example.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, grid.Point{X: 40, Y: 220}, *cfg.Route.Start)
	assert.Equal(t, grid.Point{X: 460, Y: 220}, *cfg.Route.End)
	require.Len(t, cfg.Route.Strokes, 1)
	require.Len(t, cfg.Route.Rects, 2)

	obs := cfg.Obstacles()
	assert.True(t, obs.Blocked(grid.Point{X: 250, Y: 220}), "stroke blocks the direct line")
	assert.True(t, obs.Blocked(grid.Point{X: 125, Y: 100}))
	assert.False(t, obs.Blocked(*cfg.Route.Start))
	assert.False(t, obs.Blocked(*cfg.Route.End))
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("ga: [unclosed"), 0644))
	_, err = Load(bad)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing start", func(c *Config) { c.Route.Start = nil }},
		{"missing end", func(c *Config) { c.Route.End = nil }},
		{"start outside grid", func(c *Config) { c.Route.Start = &grid.Point{X: 500, Y: 0} }},
		{"end outside grid", func(c *Config) { c.Route.End = &grid.Point{X: 0, Y: -1} }},
		{"empty grid", func(c *Config) { c.Grid.Width = 0 }},
		{"no population", func(c *Config) { c.GA.Population = 0 }},
		{"negative generations", func(c *Config) { c.GA.Generations = -1 }},
		{"genome too short", func(c *Config) { c.GA.GenomeLength = 1 }},
		{"no tournament", func(c *Config) { c.GA.TournamentK = 0 }},
		{"crossover above one", func(c *Config) { c.GA.CrossoverRate = 1.2 }},
		{"negative mutation", func(c *Config) { c.GA.MutationRate = -0.1 }},
		{"gene swap above one", func(c *Config) { c.GA.GeneSwapRate = 2 }},
		{"negative register cap", func(c *Config) { c.GA.RegisterCap = -1 }},
		{"zero window", func(c *Config) { c.Adapt.Window = 0 }},
		{"zero factor", func(c *Config) { c.Adapt.Decrease = 0 }},
		{"negative workers", func(c *Config) { c.Eval.Workers = -2 }},
	}

	require.NoError(t, validConfig().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestValidateAllowsZeroRates(t *testing.T) {
	cfg := validConfig()
	cfg.GA.CrossoverRate = 0
	cfg.GA.MutationRate = 0
	cfg.GA.Generations = 0
	assert.NoError(t, cfg.Validate())
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := validConfig()
	cfg.Route.Cells = []grid.Point{{X: 5, Y: 0}}
	cfg.GA.Population = 64

	path := filepath.Join(t.TempDir(), "out", "config.yaml")
	require.NoError(t, cfg.WriteYAML(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
