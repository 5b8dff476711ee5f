package logging

import (
	"fmt"
	"io"
	"strings"

	"pathevo/internal/evolve"
	"pathevo/internal/grid"
)

// PrintProgress writes the per-generation console lines
func PrintProgress(w io.Writer, p evolve.Progress) {
	fmt.Fprintf(w, "Generation: %d\n", p.Generation)
	fmt.Fprintf(w, "Best distance: %s\n", evolve.FormatDistance(p.MinFitness))
}

// PrintBestPath writes the final path line
func PrintBestPath(w io.Writer, path []grid.Point) {
	fmt.Fprintf(w, "Best found path: %s\n", FormatPath(path))
}

// FormatPath renders waypoints as [(x, y), ...]
func FormatPath(path []grid.Point) string {
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = p.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
