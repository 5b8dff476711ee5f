package logging

import (
	"fmt"
	"io"
	"log/slog"

	"pathevo/internal/evolve"
	"pathevo/internal/ga"
)

// NewSlog builds a structured logger from the logging.level and logging.format settings
func NewSlog(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch format {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// LogTopK logs the given genomes, best first, at debug level
func LogTopK(logger *slog.Logger, gen int, genomes []*ga.Genome) {
	for i, g := range genomes {
		logger.Debug("top genome",
			"gen", gen,
			"rank", i+1,
			"distance", evolve.FormatDistance(g.Fitness),
			"length", g.Length,
			"valid", g.Valid,
			"path", FormatPath(g.Genes),
		)
	}
}
