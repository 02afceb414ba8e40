// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/macro-tracker/pkg/types"
)

// Export formats accepted by Export.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// CSVHeader is the first row of a CSV export.
var CSVHeader = []string{"Date", "Meal type", "Food", "Quantity (g)", "Calories", "Proteins", "Carbs", "Fats", "Fiber"}

// UserExport is a user with all of their meal plans.
type UserExport struct {
	User  types.User       `json:"user" yaml:"user"`
	Plans []types.MealPlan `json:"meal_plans" yaml:"meal_plans"`
}

// Export writes a user's plans to w in the given format.
func (s *Store) Export(ctx context.Context, userID int64, format string, w io.Writer) error {
	switch format {
	case FormatYAML, "yml":
		return s.ExportYAML(ctx, userID, w)
	case FormatJSON:
		return s.ExportJSON(ctx, userID, w)
	case FormatCSV:
		return s.ExportCSV(ctx, userID, w)
	default:
		return fmt.Errorf("unknown export format %q (want yaml, json or csv)", format)
	}
}

// ExportYAML writes the user and their plans as YAML.
func (s *Store) ExportYAML(ctx context.Context, userID int64, w io.Writer) error {
	export, err := s.userExport(ctx, userID)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(export)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// ExportJSON writes the user and their plans as indented JSON.
func (s *Store) ExportJSON(ctx context.Context, userID int64, w io.Writer) error {
	export, err := s.userExport(ctx, userID)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// ExportCSV writes one row per meal plan item, across all of the user's plans.
func (s *Store) ExportCSV(ctx context.Context, userID int64, w io.Writer) error {
	export, err := s.userExport(ctx, userID)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, p := range export.Plans {
		for _, item := range p.Items {
			date := ""
			if !item.CreatedAt.IsZero() {
				date = item.CreatedAt.Format("2006-01-02")
			}
			row := []string{
				date,
				item.MealType.Label(),
				item.FoodName,
				formatFloat(item.Amount),
				formatFloat(item.Calories),
				formatFloat(item.Proteins),
				formatFloat(item.Carbs),
				formatFloat(item.Fats),
				formatFloat(item.Fiber),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("writing CSV row: %w", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *Store) userExport(ctx context.Context, userID int64) (*UserExport, error) {
	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	plans, err := s.ListPlans(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	return &UserExport{User: *u, Plans: plans}, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
