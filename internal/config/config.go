package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"pathevo/internal/grid"
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid config")

// Config is the root configuration structure
type Config struct {
	Seed    int64         `yaml:"seed"`
	Grid    GridConfig    `yaml:"grid"`
	Route   RouteConfig   `yaml:"route"`
	GA      GAConfig      `yaml:"ga"`
	Adapt   AdaptConfig   `yaml:"adapt"`
	Eval    EvalConfig    `yaml:"eval"`
	Logging LogConfig     `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// GridConfig defines the search domain
type GridConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// RouteConfig defines the endpoints and the obstacle layout
type RouteConfig struct {
	Start   *grid.Point    `yaml:"start"`
	End     *grid.Point    `yaml:"end"`
	Cells   []grid.Point   `yaml:"cells,omitempty"`   // single blocked cells
	Rects   []RectConfig   `yaml:"rects,omitempty"`   // filled rectangles, corners inclusive
	Strokes [][]grid.Point `yaml:"strokes,omitempty"` // polylines painted with the brush
	Brush   int            `yaml:"brush"`             // half width of the square stroke brush
}

// RectConfig is a filled rectangle given by two opposite corners
type RectConfig struct {
	From grid.Point `yaml:"from"`
	To   grid.Point `yaml:"to"`
}

// GAConfig defines genetic algorithm parameters
type GAConfig struct {
	Population      int     `yaml:"population"`
	Generations     int     `yaml:"generations"`
	GenomeLength    int     `yaml:"genome_length"`
	TournamentK     int     `yaml:"tournament_k"`
	CrossoverRate   float64 `yaml:"crossover_rate"`
	MutationRate    float64 `yaml:"mutation_rate"`
	GeneSwapRate    float64 `yaml:"gene_swap_rate"`   // per-gene shuffle probability
	MutateEndpoints bool    `yaml:"mutate_endpoints"` // let the shuffle move the start/end genes
	RegisterCap     int     `yaml:"register_cap"`     // 0 keeps every archived best
}

// AdaptConfig defines the success-rule adaptation of the mutation rate
type AdaptConfig struct {
	Window    int     `yaml:"window"`
	Target    float64 `yaml:"target"`
	Increase  float64 `yaml:"increase"`
	Decrease  float64 `yaml:"decrease"`
	Unbounded bool    `yaml:"unbounded"` // allow the mutation rate to leave [0, 1]
}

// EvalConfig defines evaluation parameters
type EvalConfig struct {
	Workers int `yaml:"workers"`
}

// LogConfig defines logging parameters
type LogConfig struct {
	Level     string `yaml:"level"`  // debug|info|warn|error
	Format    string `yaml:"format"` // text|json
	TopNDebug int    `yaml:"topn_debug"`
	OutputDir string `yaml:"output_dir"`
}

// MetricsConfig defines the Prometheus endpoint
type MetricsConfig struct {
	Addr      string `yaml:"addr"`
	Namespace string `yaml:"namespace"`
}

// Default returns a config with every default applied and no route set
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads a YAML config file and returns a Config.
// An empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	// Apply defaults
	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Seed == 0 {
		cfg.Seed = 1337
	}
	if cfg.Grid.Width == 0 {
		cfg.Grid.Width = 500
	}
	if cfg.Grid.Height == 0 {
		cfg.Grid.Height = 450
	}
	if cfg.Route.Brush == 0 {
		cfg.Route.Brush = 3
	}
	if cfg.GA.Population == 0 {
		cfg.GA.Population = 10000
	}
	if cfg.GA.Generations == 0 {
		cfg.GA.Generations = 20
	}
	if cfg.GA.GenomeLength == 0 {
		cfg.GA.GenomeLength = 6
	}
	if cfg.GA.TournamentK == 0 {
		cfg.GA.TournamentK = 3
	}
	if cfg.GA.CrossoverRate == 0 {
		cfg.GA.CrossoverRate = 0.3
	}
	if cfg.GA.MutationRate == 0 {
		cfg.GA.MutationRate = 0.3
	}
	if cfg.GA.GeneSwapRate == 0 {
		cfg.GA.GeneSwapRate = 0.5
	}
	if cfg.Adapt.Window == 0 {
		cfg.Adapt.Window = 5
	}
	if cfg.Adapt.Target == 0 {
		cfg.Adapt.Target = 1.0 / 5
	}
	if cfg.Adapt.Increase == 0 {
		cfg.Adapt.Increase = 1.5
	}
	if cfg.Adapt.Decrease == 0 {
		cfg.Adapt.Decrease = 0.9
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "pathevo"
	}
}

// Bounds returns the grid extent
func (c *Config) Bounds() grid.Bounds {
	return grid.Bounds{Width: c.Grid.Width, Height: c.Grid.Height}
}

// Validate rejects configurations that cannot run
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}

	if c.Grid.Width <= 0 || c.Grid.Height <= 0 {
		return invalid("grid must be positive (got %dx%d)", c.Grid.Width, c.Grid.Height)
	}
	bounds := c.Bounds()
	if c.Route.Start == nil {
		return invalid("route.start is required")
	}
	if c.Route.End == nil {
		return invalid("route.end is required")
	}
	if !bounds.Contains(*c.Route.Start) {
		return invalid("start %v outside %dx%d grid", *c.Route.Start, bounds.Width, bounds.Height)
	}
	if !bounds.Contains(*c.Route.End) {
		return invalid("end %v outside %dx%d grid", *c.Route.End, bounds.Width, bounds.Height)
	}
	if c.GA.Population < 1 {
		return invalid("population must be >= 1 (got %d)", c.GA.Population)
	}
	if c.GA.Generations < 0 {
		return invalid("generations must be >= 0 (got %d)", c.GA.Generations)
	}
	if c.GA.GenomeLength < 2 {
		return invalid("genome length must be >= 2 (got %d)", c.GA.GenomeLength)
	}
	if c.GA.TournamentK < 1 {
		return invalid("tournament size must be >= 1 (got %d)", c.GA.TournamentK)
	}
	for name, p := range map[string]float64{
		"crossover_rate": c.GA.CrossoverRate,
		"mutation_rate":  c.GA.MutationRate,
		"gene_swap_rate": c.GA.GeneSwapRate,
	} {
		if p < 0 || p > 1 {
			return invalid("%s must be in [0, 1] (got %g)", name, p)
		}
	}
	if c.GA.RegisterCap < 0 {
		return invalid("register_cap must be >= 0 (got %d)", c.GA.RegisterCap)
	}
	if c.Adapt.Window < 1 {
		return invalid("adapt.window must be >= 1 (got %d)", c.Adapt.Window)
	}
	if c.Adapt.Increase <= 0 || c.Adapt.Decrease <= 0 {
		return invalid("adapt factors must be positive (got %g, %g)", c.Adapt.Increase, c.Adapt.Decrease)
	}
	if c.Eval.Workers < 0 {
		return invalid("eval.workers must be >= 0 (got %d)", c.Eval.Workers)
	}
	return nil
}

// Obstacles builds the blocked cell set from cells, rectangles and strokes
func (c *Config) Obstacles() *grid.Obstacles {
	b := grid.NewBuilder(c.Bounds())
	for _, cell := range c.Route.Cells {
		b.AddCell(cell)
	}
	for _, r := range c.Route.Rects {
		b.AddRect(r.From, r.To)
	}
	for _, stroke := range c.Route.Strokes {
		b.AddStroke(stroke, c.Route.Brush)
	}
	return b.Build()
}

// WriteYAML saves the configuration as YAML
func (c *Config) WriteYAML(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
