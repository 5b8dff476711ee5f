package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"pathevo/internal/config"
	"pathevo/internal/evolve"
	"pathevo/internal/logging"
	"pathevo/internal/metrics"
)

// eventBuffer is how far the console may lag behind the optimizer
const eventBuffer = 64

type runOptions struct {
	configPath    string
	generations   int
	population    int
	seed          int64
	crossoverRate float64
	mutationRate  float64
	output        string
	metricsAddr   string
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Evolve a path between the configured start and end",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvolve(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "configs/example.yaml", "path to config file")
	f.IntVar(&opts.generations, "generations", 0, "override ga.generations")
	f.IntVar(&opts.population, "population", 0, "override ga.population")
	f.Int64Var(&opts.seed, "seed", 0, "override the random seed")
	f.Float64Var(&opts.crossoverRate, "crossover-rate", 0, "override ga.crossover_rate; 0 disables crossover")
	f.Float64Var(&opts.mutationRate, "mutation-rate", 0, "override ga.mutation_rate; 0 disables mutation")
	f.StringVarP(&opts.output, "output", "o", "", "directory for generation logs and the best path (overrides logging.output_dir)")
	f.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9100")
	return cmd
}

func (opts *runOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("generations") {
		cfg.GA.Generations = opts.generations
	}
	if flags.Changed("population") {
		cfg.GA.Population = opts.population
	}
	if flags.Changed("seed") {
		cfg.Seed = opts.seed
	}
	if flags.Changed("crossover-rate") {
		cfg.GA.CrossoverRate = opts.crossoverRate
	}
	if flags.Changed("mutation-rate") {
		cfg.GA.MutationRate = opts.mutationRate
	}
	if opts.output != "" {
		cfg.Logging.OutputDir = opts.output
	}
	if opts.metricsAddr != "" {
		cfg.Metrics.Addr = opts.metricsAddr
	}
}

func runEvolve(cmd *cobra.Command, opts *runOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	opts.apply(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.NewSlog(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	obstacles := cfg.Obstacles()
	fmt.Fprintf(out, "pathevo - %v -> %v on a %dx%d grid\n",
		*cfg.Route.Start, *cfg.Route.End, cfg.Grid.Width, cfg.Grid.Height)
	fmt.Fprintf(out, "Config: %s, Blocked cells: %d\n", opts.configPath, obstacles.Len())
	fmt.Fprintf(out, "Population: %d, Generations: %d, Genome length: %d, Tournament K: %d\n",
		cfg.GA.Population, cfg.GA.Generations, cfg.GA.GenomeLength, cfg.GA.TournamentK)
	fmt.Fprintln(out, "---")

	rec := metrics.NewRecorder(cfg.Metrics.Namespace)
	if cfg.Metrics.Addr != "" {
		shutdown := serveMetrics(cfg.Metrics.Addr, rec, logger)
		defer shutdown()
	}

	runID := uuid.NewString()
	var files *logging.Logger
	if cfg.Logging.OutputDir != "" {
		files, err = logging.NewLogger(cfg.Logging.OutputDir, runID)
		if err != nil {
			return err
		}
		defer files.Close()
		if err := files.WriteConfig(cfg); err != nil {
			return fmt.Errorf("saving config snapshot: %w", err)
		}
	}

	o, err := evolve.New(cfg, obstacles,
		evolve.WithLogger(logger),
		evolve.WithMetrics(rec),
		evolve.WithRunID(runID),
	)
	if err != nil {
		return err
	}

	session := evolve.Start(cmd.Context(), o, eventBuffer)
	for e := range session.Events() {
		switch e.Kind {
		case evolve.EventProgress:
			logging.PrintProgress(out, e.Progress)
			logging.LogTopK(logger, e.Progress.Generation, e.Progress.Top)
			if err := files.LogGeneration(e.Progress); err != nil {
				logger.Warn("failed to log generation", "error", err)
			}
		case evolve.EventError:
			if e.Stack != nil {
				logger.Error("optimizer failed", "error", e.Err, "stack", string(e.Stack))
			}
		}
	}

	res, runErr := session.Wait()
	if res.Best != nil {
		logging.PrintBestPath(out, res.Best.Genes)
		if err := files.SaveBest(res); err != nil {
			logger.Warn("failed to save best path", "error", err)
		}
	}

	fmt.Fprintln(out, "---")
	fmt.Fprintf(out, "Finished %d generations in %v (%d evaluations, %d recoveries, %d progress events dropped)\n",
		res.Generations, res.Duration.Round(time.Millisecond), res.Evaluations, res.Recoveries, res.Dropped)
	if files != nil {
		fmt.Fprintf(out, "Artifacts: %s\n", files.Dir())
	}
	return runErr
}

// serveMetrics exposes rec on addr/metrics and returns a shutdown func
func serveMetrics(addr string, rec *metrics.Recorder, logger *slog.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", rec.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}
}
