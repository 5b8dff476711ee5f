package logging

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gocarina/gocsv"

	"pathevo/internal/config"
	"pathevo/internal/evolve"
)

// Output file names inside a run directory
const (
	GenerationsCSV   = "generations.csv"
	GenerationsJSONL = "generations.jsonl"
	ConfigFile       = "config.yaml"
	BestPathFile     = "best_path.json"
)

// Distance is an effective fitness that serialises +Inf as "inf" in CSV and null in JSON
type Distance float64

// Infeasible reports whether d is +Inf
func (d Distance) Infeasible() bool {
	return math.IsInf(float64(d), 1)
}

// MarshalCSV implements gocsv.TypeMarshaller
func (d Distance) MarshalCSV() (string, error) {
	return evolve.FormatDistance(float64(d)), nil
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller
func (d *Distance) UnmarshalCSV(s string) error {
	if s == "inf" {
		*d = Distance(math.Inf(1))
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("parsing distance %q: %w", s, err)
	}
	*d = Distance(f)
	return nil
}

func (d Distance) MarshalJSON() ([]byte, error) {
	if d.Infeasible() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(d))
}

func (d *Distance) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Distance(math.Inf(1))
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*d = Distance(f)
	return nil
}

// GenerationRecord is one row of generations.csv and one line of generations.jsonl
type GenerationRecord struct {
	RunID         string   `csv:"run_id" json:"run_id"`
	Generation    int      `csv:"generation" json:"generation"`
	BestDistance  Distance `csv:"best_distance" json:"best_distance"`
	MeanDistance  float64  `csv:"mean_distance" json:"mean_distance"`
	StdDistance   float64  `csv:"std_distance" json:"std_distance"`
	MeanLength    float64  `csv:"mean_length" json:"mean_length"`
	Valid         int      `csv:"valid" json:"valid"`
	ValidRatio    float64  `csv:"valid_ratio" json:"valid_ratio"`
	CrossoverRate float64  `csv:"crossover_rate" json:"crossover_rate"`
	MutationRate  float64  `csv:"mutation_rate" json:"mutation_rate"`
	Evaluations   int      `csv:"evaluations" json:"evaluations"`
}

// NewRecord flattens a progress notification
func NewRecord(runID string, p evolve.Progress) GenerationRecord {
	return GenerationRecord{
		RunID:         runID,
		Generation:    p.Generation,
		BestDistance:  Distance(p.MinFitness),
		MeanDistance:  p.Stats.Mean,
		StdDistance:   p.Stats.Std,
		MeanLength:    p.Stats.MeanLength,
		Valid:         p.Stats.Valid,
		ValidRatio:    p.Stats.ValidRatio,
		CrossoverRate: p.CrossoverRate,
		MutationRate:  p.MutationRate,
		Evaluations:   p.Evaluations,
	}
}

// Logger writes per-generation records and run artifacts into one directory.
// A nil *Logger is valid and writes nothing.
type Logger struct {
	dir   string
	runID string

	csvFile       *os.File
	jsonFile      *os.File
	headerWritten bool
}

// NewLogger creates dir and opens the generation logs inside it
func NewLogger(dir, runID string) (*Logger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}

	l := &Logger{dir: dir, runID: runID}

	f, err := os.Create(filepath.Join(dir, GenerationsCSV))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", GenerationsCSV, err)
	}
	l.csvFile = f

	f, err = os.OpenFile(filepath.Join(dir, GenerationsJSONL), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		l.csvFile.Close()
		return nil, fmt.Errorf("creating %s: %w", GenerationsJSONL, err)
	}
	l.jsonFile = f

	return l, nil
}

// Dir returns the output directory
func (l *Logger) Dir() string {
	if l == nil {
		return ""
	}
	return l.dir
}

// Close closes all log files
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	var firstErr error
	for _, f := range []*os.File{l.csvFile, l.jsonFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// LogGeneration appends one record to both generation logs
func (l *Logger) LogGeneration(p evolve.Progress) error {
	if l == nil {
		return nil
	}

	rec := NewRecord(l.runID, p)
	records := []GenerationRecord{rec}

	if !l.headerWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, l.csvFile); err != nil {
			return fmt.Errorf("writing generation: %w", err)
		}
		l.headerWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, l.csvFile); err != nil {
			return fmt.Errorf("writing generation: %w", err)
		}
	}

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding generation: %w", err)
	}
	if _, err := l.jsonFile.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("writing generation: %w", err)
	}
	return nil
}

// WriteConfig snapshots the effective configuration
func (l *Logger) WriteConfig(cfg *config.Config) error {
	if l == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(l.dir, ConfigFile))
}

// SaveBest writes the run's best path into the output directory
func (l *Logger) SaveBest(res evolve.Result) error {
	if l == nil {
		return nil
	}
	return SaveBest(filepath.Join(l.dir, BestPathFile), res)
}

// ReadGenerations loads a generations.csv file
func ReadGenerations(path string) ([]GenerationRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []GenerationRecord
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return records, nil
}
