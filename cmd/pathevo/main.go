package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pathevo",
		Short: "Evolve obstacle-avoiding paths on a grid with a genetic algorithm",
		Long: `pathevo searches for a short polyline between two grid cells that
avoids blocked cells, using tournament selection, two-point crossover,
index-shuffle mutation and a 1/5 success rule on the mutation rate.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newInspectCmd())
	return root
}
