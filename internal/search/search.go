// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries food-composition backends and returns unified,
// deduplicated results with per-100 macros attached.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/macro-tracker/internal/logging"
	"github.com/pdiddy/macro-tracker/internal/macros"
	"github.com/pdiddy/macro-tracker/internal/textutil"
	"github.com/pdiddy/macro-tracker/pkg/types"
)

// DefaultMaxResults caps the result list when the config leaves it unset.
const DefaultMaxResults = 10

// ErrEmptyQuery is returned when the query has no searchable text.
var ErrEmptyQuery = errors.New("search query is empty")

// Backend searches a single food source.
type Backend interface {
	Name() string
	Search(ctx context.Context, query Query) ([]types.FoodRecord, error)
}

// Detailer fetches the full record for one food.
type Detailer interface {
	Get(ctx context.Context, fdcID int) (*types.FoodRecord, error)
}

// Query holds the search parameters.
type Query struct {
	Text string
}

// IsEmpty reports whether the query contains no searchable terms.
func (q Query) IsEmpty() bool {
	return strings.TrimSpace(q.Text) == ""
}

// Result is one food hit.
type Result struct {
	Food types.FoodRecord `json:"food"`

	// Source lists the backends that returned the food, comma-separated.
	Source string `json:"source"`

	// PerHundred holds the macros per 100 units of the food.
	PerHundred types.MacroTotals `json:"per_100"`

	// MissingNutrients is set when no macro could be resolved.
	MissingNutrients bool `json:"missing_nutrients,omitempty"`
}

// Output holds the results and dedup statistics.
type Output struct {
	Results       []Result `json:"results"`
	DupsRemoved   int      `json:"dups_removed"`
	BackendErrors []string `json:"backend_errors,omitempty"`
}

// Search fans the query out to all backends concurrently, deduplicates by
// FDC id, caps the list, hydrates hits that came back without nutrients and
// computes per-100 macros. A nil detailer disables hydration.
func Search(ctx context.Context, query Query, backends []Backend, detailer Detailer, cfg types.SearchConfig) (Output, error) {
	if query.IsEmpty() {
		return Output{}, ErrEmptyQuery
	}
	if len(backends) == 0 {
		return Output{}, fmt.Errorf("no search backends configured")
	}
	log := logging.Default()

	type backendResult struct {
		foods []types.FoodRecord
		err   error
	}

	// Indexed by backend so results keep backend order.
	collected := make([]backendResult, len(backends))
	var wg sync.WaitGroup
	for i, b := range backends {
		wg.Add(1)
		go func(i int, b Backend) {
			defer wg.Done()
			foods, err := b.Search(ctx, query)
			collected[i] = backendResult{foods: foods, err: err}
		}(i, b)
	}
	wg.Wait()

	var all []Result
	var backendErrors []string
	for i, br := range collected {
		name := backends[i].Name()
		if br.err != nil {
			backendErrors = append(backendErrors, fmt.Sprintf("%s: %v", name, br.err))
			log.WithFields(logrus.Fields{
				"backend": name,
				"query":   query.Text,
			}).WithError(br.err).Warn("search backend failed")
			continue
		}
		for _, f := range br.foods {
			all = append(all, Result{Food: f, Source: name})
		}
	}
	if len(backendErrors) == len(backends) {
		return Output{BackendErrors: backendErrors}, fmt.Errorf("all search backends failed: %s", strings.Join(backendErrors, "; "))
	}

	deduped, removed := deduplicate(all)

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	if len(deduped) > maxResults {
		deduped = deduped[:maxResults]
	}

	if detailer != nil && cfg.Hydrate {
		hydrate(ctx, deduped, detailer)
	}

	for i := range deduped {
		r := &deduped[i]
		r.PerHundred = macros.PerHundred(r.Food)
		if r.PerHundred.IsZero() {
			r.MissingNutrients = true
			log.WithFields(logrus.Fields{
				"fdc_id":      r.Food.FdcID,
				"description": r.Food.Description,
			}).Warn("food has no resolvable macros")
		}
	}

	return Output{
		Results:       deduped,
		DupsRemoved:   removed,
		BackendErrors: backendErrors,
	}, nil
}

// deduplicate merges results that share an FDC id. The first occurrence
// keeps its position; records without an id are never merged.
func deduplicate(results []Result) ([]Result, int) {
	seen := make(map[int]int)
	deduped := make([]Result, 0, len(results))
	removed := 0

	for _, r := range results {
		id := r.Food.FdcID
		if id > 0 {
			if idx, ok := seen[id]; ok {
				mergeInto(&deduped[idx], r)
				removed++
				continue
			}
			seen[id] = len(deduped)
		}
		deduped = append(deduped, r)
	}
	return deduped, removed
}

// mergeInto fills empty fields of dst from src.
func mergeInto(dst *Result, src Result) {
	if dst.Food.Description == "" {
		dst.Food.Description = src.Food.Description
	}
	if dst.Food.DataType == "" {
		dst.Food.DataType = src.Food.DataType
	}
	if len(dst.Food.Nutrients) == 0 && len(src.Food.Nutrients) > 0 {
		dst.Food.Nutrients = src.Food.Nutrients
	}
	if src.Source != "" && !containsSource(dst.Source, src.Source) {
		dst.Source = dst.Source + "," + src.Source
	}
}

func containsSource(list, name string) bool {
	for _, s := range strings.Split(list, ",") {
		if s == name {
			return true
		}
	}
	return false
}

// hydrate replaces hits that have no nutrients with their full record.
// Failures keep the original hit.
func hydrate(ctx context.Context, results []Result, detailer Detailer) {
	for i := range results {
		r := &results[i]
		if len(r.Food.Nutrients) > 0 || r.Food.FdcID <= 0 {
			continue
		}
		if ctx.Err() != nil {
			return
		}
		full, err := detailer.Get(ctx, r.Food.FdcID)
		if err != nil {
			logging.Default().WithField("fdc_id", r.Food.FdcID).WithError(err).Warn("hydrating search hit")
			continue
		}
		if full.Description == "" {
			full.Description = r.Food.Description
		}
		if full.FdcID == 0 {
			full.FdcID = r.Food.FdcID
		}
		r.Food = *full
	}
}

// FormatTable writes results as a human-readable table to w.
func FormatTable(out Output, w io.Writer) {
	if len(out.Results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-8s  %-48s  %-12s  %7s  %7s  %7s  %7s  %7s\n",
		"Rank", "FDC ID", "Description", "Type", "Kcal", "Protein", "Carbs", "Fat", "Fiber")
	fmt.Fprintln(w, strings.Repeat("-", 124))

	for i, r := range out.Results {
		m := r.PerHundred
		fmt.Fprintf(w, "%-4d  %-8d  %-48s  %-12s  %7.1f  %7.1f  %7.1f  %7.1f  %7.1f",
			i+1, r.Food.FdcID, textutil.Truncate(r.Food.Description, 48), textutil.Truncate(r.Food.DataType, 12),
			m.Calories, m.Proteins, m.Carbs, m.Fats, m.Fiber)
		if r.MissingNutrients {
			fmt.Fprint(w, "  (no nutrition data)")
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "\n%d results, macros per 100 g", len(out.Results))
	if out.DupsRemoved > 0 {
		fmt.Fprintf(w, " (%d duplicates removed)", out.DupsRemoved)
	}
	fmt.Fprintln(w)
}

// FormatJSON writes results as indented JSON to w.
func FormatJSON(out Output, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out.Results)
}
