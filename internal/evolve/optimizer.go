package evolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"pathevo/internal/config"
	"pathevo/internal/eval"
	"pathevo/internal/ga"
	"pathevo/internal/grid"
	"pathevo/internal/metrics"
)

// Optimizer runs the generational loop over one route
type Optimizer struct {
	cfg        config.Config
	start, end grid.Point
	evaluator  *eval.Evaluator

	rng     *rand.Rand
	logger  *slog.Logger
	metrics *metrics.Recorder
	runID   string

	pop      *ga.Population
	register *ga.BestRegister
	rule     *ga.SuccessRule
	cxpb     float64
	mutpb    float64
	state    State

	evaluations int
	recoveries  int
}

// Option customises an Optimizer
type Option func(*Optimizer)

// WithLogger sets the structured logger
func WithLogger(l *slog.Logger) Option {
	return func(o *Optimizer) { o.logger = l }
}

// WithMetrics attaches a Prometheus recorder
func WithMetrics(r *metrics.Recorder) Option {
	return func(o *Optimizer) { o.metrics = r }
}

// WithRand replaces the seeded random source
func WithRand(rng *rand.Rand) Option {
	return func(o *Optimizer) { o.rng = rng }
}

// WithRunID overrides the generated run identifier
func WithRunID(id string) Option {
	return func(o *Optimizer) { o.runID = id }
}

// New validates cfg and prepares an optimizer. A nil obstacle set is built from cfg.
func New(cfg *config.Config, obstacles *grid.Obstacles, opts ...Option) (*Optimizer, error) {
	if cfg == nil {
		return nil, errors.New("evolve: nil config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if obstacles == nil {
		obstacles = cfg.Obstacles()
	}

	o := &Optimizer{
		cfg:   *cfg,
		start: *cfg.Route.Start,
		end:   *cfg.Route.End,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(cfg.Seed))
	}
	if o.runID == "" {
		o.runID = uuid.NewString()
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	o.logger = o.logger.With("run_id", o.runID)
	o.evaluator = eval.NewEvaluator(o.start, o.end, obstacles, cfg.Eval.Workers)
	return o, nil
}

// RunID identifies this optimizer's run
func (o *Optimizer) RunID() string { return o.runID }

// State reports the lifecycle phase
func (o *Optimizer) State() State { return o.state }

// Rates returns the crossover and mutation probabilities for the next generation
func (o *Optimizer) Rates() (cxpb, mutpb float64) { return o.cxpb, o.mutpb }

// Evaluator exposes the fitness evaluator bound to this route
func (o *Optimizer) Evaluator() *eval.Evaluator { return o.evaluator }

// Run seeds a population and evolves it for the configured number of
// generations, calling progress after each one. Cancellation is checked
// between generations; the best genome so far is returned with ctx.Err().
func (o *Optimizer) Run(ctx context.Context, progress func(Progress)) (Result, error) {
	started := time.Now()

	o.logger.Info("run started",
		"population", o.cfg.GA.Population,
		"generations", o.cfg.GA.Generations,
		"genome_length", o.cfg.GA.GenomeLength,
		"workers", o.evaluator.Workers(),
		"seed", o.cfg.Seed,
	)

	if err := o.seed(ctx); err != nil {
		return o.result(0, started), err
	}

	for gen := 1; gen <= o.cfg.GA.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			o.logger.Warn("run cancelled", "generation", gen-1)
			return o.result(gen-1, started), err
		}

		p, err := o.step(ctx, gen)
		if err != nil {
			return o.result(gen-1, started), err
		}
		if progress != nil {
			progress(p)
		}
		o.settle(gen)
	}

	o.state = StateDone
	res := o.result(o.cfg.GA.Generations, started)
	o.logger.Info("run finished",
		"best", FormatDistance(res.Fitness),
		"valid", res.Valid,
		"evaluations", res.Evaluations,
		"recoveries", res.Recoveries,
		"duration", res.Duration,
	)
	return res, nil
}

// seed creates and evaluates the initial population and resets the loop state
func (o *Optimizer) seed(ctx context.Context) error {
	params := o.cfg.GA
	o.pop = newPopulation(params, o.start, o.end, o.cfg.Bounds(), o.rng)
	o.register = newRegister(params)
	o.rule = newRule(o.cfg.Adapt)
	o.cxpb, o.mutpb = params.CrossoverRate, params.MutationRate
	o.evaluations, o.recoveries = 0, 0
	o.state = StateSeeded

	if err := o.evaluate(ctx, o.pop.Genomes); err != nil {
		return err
	}
	o.logger.Debug("population seeded", "best", FormatDistance(o.pop.MinFitness()))
	return nil
}

// step breeds, evaluates and installs one generation
func (o *Optimizer) step(ctx context.Context, gen int) (Progress, error) {
	o.state = StateEvolving
	cxpb, mutpb := o.cxpb, o.mutpb

	offspring := ga.SelectOffspring(o.pop, o.pop.Size(), o.cfg.GA.TournamentK, o.rng)
	pairs := ga.CrossoverPairs(offspring, cxpb, o.rng)
	mutants := ga.MutateOffspring(offspring, mutpb, o.cfg.GA.GeneSwapRate, !o.cfg.GA.MutateEndpoints, o.rng)

	if len(mutants) > 0 {
		if err := o.evaluate(ctx, mutants); err != nil {
			return Progress{}, err
		}
		improved := false
		if last := o.register.Last(); last != nil {
			improved = bestFitness(mutants) < last.Fitness
		}
		o.rule.Record(improved)
		o.metrics.MutationEvent()
	}

	if err := o.evaluate(ctx, offspring); err != nil {
		return Progress{}, err
	}
	o.pop.Replace(offspring)

	best := o.pop.Best()
	stats := ga.Summarize(o.pop)
	o.metrics.ObserveGeneration(best.Fitness, stats.ValidRatio, mutpb, o.register.Len())
	o.logger.Info("generation",
		"gen", gen,
		"best", FormatDistance(best.Fitness),
		"valid_ratio", stats.ValidRatio,
		"crossovers", pairs,
		"mutants", len(mutants),
		"mutation_rate", mutpb,
	)

	var top []*ga.Genome
	if k := o.cfg.Logging.TopNDebug; k > 0 {
		for _, g := range o.pop.TopK(k) {
			top = append(top, g.Clone())
		}
	}

	return Progress{
		Best:          best.Clone(),
		Generation:    gen,
		MinFitness:    best.Fitness,
		Stats:         stats,
		CrossoverRate: cxpb,
		MutationRate:  mutpb,
		Evaluations:   o.evaluations,
		Top:           top,
	}, nil
}

// settle runs the end-of-generation bookkeeping: recovery when nothing is
// feasible, otherwise archiving the best and adapting the mutation rate
func (o *Optimizer) settle(gen int) {
	best := o.pop.Best()
	if best == nil || math.IsInf(best.Fitness, 1) {
		o.recover(gen)
		return
	}

	o.register.Append(best)
	before := o.mutpb
	if p, adjusted := o.rule.Adjust(o.mutpb); adjusted {
		o.mutpb = p
		o.metrics.Adaptation(before, p)
		o.logger.Debug("mutation rate adapted", "gen", gen, "from", before, "to", p)
	}
}

func (o *Optimizer) recover(gen int) {
	o.state = StateRecovering
	o.recoveries++
	o.cxpb, o.mutpb = 0, 1

	if o.register.Len() == 0 {
		o.metrics.Recovery(false)
		o.logger.Warn("no feasible path and nothing archived", "gen", gen)
		return
	}

	o.pop.Replace(o.register.Reseed(o.pop.Size(), o.rng))
	o.cxpb, o.mutpb = o.cfg.GA.CrossoverRate, o.cfg.GA.MutationRate
	o.metrics.Recovery(true)
	o.logger.Warn("no feasible path, reseeded from register",
		"gen", gen,
		"register", o.register.Len(),
	)
}

func (o *Optimizer) evaluate(ctx context.Context, genomes []*ga.Genome) error {
	n, err := o.evaluator.EvaluateGenomes(ctx, genomes)
	o.evaluations += n
	o.metrics.AddEvaluations(n)
	if errors.Is(err, eval.ErrEvalPanic) {
		o.logger.Error("fitness evaluation panicked", "error", err)
		return fmt.Errorf("%w: %w", ErrWorkerPanic, err)
	}
	return err
}

func (o *Optimizer) result(generations int, started time.Time) Result {
	res := Result{
		RunID:         o.runID,
		Fitness:       ga.Unset,
		Generations:   generations,
		Evaluations:   o.evaluations,
		Recoveries:    o.recoveries,
		CrossoverRate: o.cxpb,
		MutationRate:  o.mutpb,
		Duration:      time.Since(started),
	}
	if o.pop == nil {
		return res
	}
	if best := o.pop.Best(); best != nil {
		res.Best = best.Clone()
		res.Fitness = best.Fitness
		res.Valid = best.Valid
	}
	return res
}

func newPopulation(cfg config.GAConfig, start, end grid.Point, bounds grid.Bounds, rng *rand.Rand) *ga.Population {
	return ga.NewPopulation(cfg.Population, start, end, cfg.GenomeLength, bounds, rng)
}

func newRegister(cfg config.GAConfig) *ga.BestRegister {
	return ga.NewBestRegister(cfg.RegisterCap)
}

func newRule(cfg config.AdaptConfig) *ga.SuccessRule {
	return &ga.SuccessRule{
		Window:   cfg.Window,
		Target:   cfg.Target,
		Increase: cfg.Increase,
		Decrease: cfg.Decrease,
		Clamp:    !cfg.Unbounded,
	}
}

func bestFitness(genomes []*ga.Genome) float64 {
	best := ga.Unset
	for _, g := range genomes {
		if g.Fitness < best {
			best = g.Fitness
		}
	}
	return best
}
