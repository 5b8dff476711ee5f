package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pathevo/internal/config"
	"pathevo/internal/eval"
	"pathevo/internal/logging"
)

type inspectOptions struct {
	configPath string
	pathFile   string
	scale      int
	noDisplay  bool
}

func newInspectCmd() *cobra.Command {
	opts := &inspectOptions{}
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Re-evaluate a saved path against the configured obstacles",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "configs/example.yaml", "path to config file")
	f.StringVarP(&opts.pathFile, "path", "p", logging.BestPathFile, "path JSON written by run")
	f.IntVar(&opts.scale, "scale", 10, "grid cells per map character")
	f.BoolVar(&opts.noDisplay, "no-display", false, "print the numbers only")
	return cmd
}

func runInspect(cmd *cobra.Command, opts *inspectOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	saved, err := logging.LoadBest(opts.pathFile)
	if err != nil {
		return fmt.Errorf("loading path: %w", err)
	}

	obstacles := cfg.Obstacles()
	ev := eval.NewEvaluator(*cfg.Route.Start, *cfg.Route.End, obstacles, 1)
	length, valid := ev.Evaluate(saved.Path)
	hits := ev.Collisions(saved.Path)

	out := cmd.OutOrStdout()
	if saved.RunID != "" {
		fmt.Fprintf(out, "Loaded path from run %s (%d generations)\n", saved.RunID, saved.Generations)
	}
	fmt.Fprintf(out, "Path: %s\n", logging.FormatPath(saved.Path))
	fmt.Fprintf(out, "Length: %.2f\n", length)
	fmt.Fprintf(out, "Valid: %t\n", valid)
	fmt.Fprintf(out, "Blocked cells hit: %d\n", len(hits))
	if valid != saved.Valid {
		fmt.Fprintf(out, "Warning: saved validity was %t; obstacles differ from the run's config\n", saved.Valid)
	}

	if !opts.noDisplay {
		NewDisplay(cfg.Bounds(), opts.scale).Render(out, obstacles, saved.Path, hits)
	}
	return nil
}
