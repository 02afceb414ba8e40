// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/macro-tracker/pkg/types"
)

// QueryFile is the on-disk form of a search and its results, so a search can
// be reviewed later without calling FDC again. Nutrient lists are not saved;
// the per-100 macros are.
type QueryFile struct {
	Query   string          `yaml:"query"`
	Config  QueryFileConfig `yaml:"config"`
	Results []SavedResult   `yaml:"results"`
	Summary QuerySummary    `yaml:"summary"`
}

// QueryFileConfig stores the search configuration that produced the results.
type QueryFileConfig struct {
	MaxResults int      `yaml:"max_results"`
	Backends   []string `yaml:"backends,omitempty"`
}

// SavedResult is a Result without its raw nutrient list.
type SavedResult struct {
	FdcID            int               `yaml:"fdc_id"`
	Description      string            `yaml:"description"`
	DataType         string            `yaml:"data_type,omitempty"`
	Source           string            `yaml:"source"`
	PerHundred       types.MacroTotals `yaml:"per_100"`
	MissingNutrients bool              `yaml:"missing_nutrients,omitempty"`
}

// QuerySummary stores result statistics and a timestamp.
type QuerySummary struct {
	Total             int       `yaml:"total"`
	DuplicatesRemoved int       `yaml:"duplicates_removed"`
	BackendErrors     []string  `yaml:"backend_errors,omitempty"`
	Timestamp         time.Time `yaml:"timestamp"`
}

// WriteQueryFile saves the query and its results to a YAML file.
func WriteQueryFile(path string, query Query, backends []Backend, cfg types.SearchConfig, out Output) error {
	qf := QueryFile{
		Query: query.Text,
		Config: QueryFileConfig{
			MaxResults: cfg.MaxResults,
		},
		Summary: QuerySummary{
			Total:             len(out.Results),
			DuplicatesRemoved: out.DupsRemoved,
			BackendErrors:     out.BackendErrors,
			Timestamp:         time.Now(),
		},
	}
	for _, b := range backends {
		qf.Config.Backends = append(qf.Config.Backends, b.Name())
	}
	for _, r := range out.Results {
		qf.Results = append(qf.Results, SavedResult{
			FdcID:            r.Food.FdcID,
			Description:      r.Food.Description,
			DataType:         r.Food.DataType,
			Source:           r.Source,
			PerHundred:       r.PerHundred,
			MissingNutrients: r.MissingNutrients,
		})
	}

	data, err := yaml.Marshal(&qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadQueryFile loads a previously saved query file from disk.
func ReadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	return &qf, nil
}

// Output rebuilds a search Output from the saved results. The foods carry no
// nutrient list.
func (qf *QueryFile) Output() Output {
	out := Output{
		DupsRemoved:   qf.Summary.DuplicatesRemoved,
		BackendErrors: qf.Summary.BackendErrors,
	}
	for _, s := range qf.Results {
		out.Results = append(out.Results, Result{
			Food: types.FoodRecord{
				FdcID:       s.FdcID,
				Description: s.Description,
				DataType:    s.DataType,
				Nutrients:   []types.NutrientObservation{},
			},
			Source:           s.Source,
			PerHundred:       s.PerHundred,
			MissingNutrients: s.MissingNutrients,
		})
	}
	return out
}
