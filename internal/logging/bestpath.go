package logging

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"pathevo/internal/evolve"
	"pathevo/internal/grid"
)

// ErrNoPath is returned when there is no path to save or load
var ErrNoPath = errors.New("no path")

// SavedPath is the on-disk form of a run's best genome
type SavedPath struct {
	RunID       string       `json:"run_id"`
	Generations int          `json:"generations"`
	Distance    Distance     `json:"distance"` // null when infeasible
	Length      float64      `json:"length"`
	Valid       bool         `json:"valid"`
	Path        []grid.Point `json:"path"`
}

// SaveBest saves the best genome of res to path
func SaveBest(path string, res evolve.Result) error {
	if res.Best == nil || len(res.Best.Genes) == 0 {
		return ErrNoPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data := SavedPath{
		RunID:       res.RunID,
		Generations: res.Generations,
		Distance:    Distance(res.Fitness),
		Length:      res.Best.Length,
		Valid:       res.Valid,
		Path:        res.Best.Path(),
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, jsonData, 0644)
}

// LoadBest loads a saved path
func LoadBest(path string) (*SavedPath, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var saved SavedPath
	if err := json.Unmarshal(data, &saved); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(saved.Path) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoPath)
	}
	return &saved, nil
}
