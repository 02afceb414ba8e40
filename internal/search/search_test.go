// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/pdiddy/macro-tracker/pkg/types"
)

// --- mocks ---

type mockBackend struct {
	name  string
	foods []types.FoodRecord
	err   error
}

func (m *mockBackend) Name() string { return m.name }

func (m *mockBackend) Search(_ context.Context, _ Query) ([]types.FoodRecord, error) {
	return m.foods, m.err
}

type mockDetailer struct {
	foods map[int]types.FoodRecord
	calls int32
}

func (m *mockDetailer) Get(_ context.Context, id int) (*types.FoodRecord, error) {
	atomic.AddInt32(&m.calls, 1)
	f, ok := m.foods[id]
	if !ok {
		return nil, fmt.Errorf("food %d not found", id)
	}
	return &f, nil
}

type mockSearcher struct {
	gotQuery     string
	gotDataTypes []string
}

func (m *mockSearcher) Search(_ context.Context, q string, dt []string) ([]types.FoodRecord, error) {
	m.gotQuery = q
	m.gotDataTypes = dt
	return []types.FoodRecord{food(1, "x", 1)}, nil
}

// food builds a record with a flat protein observation.
func food(id int, desc string, protein float64) types.FoodRecord {
	return types.FoodRecord{
		FdcID:       id,
		Description: desc,
		Nutrients: []types.NutrientObservation{
			{NutrientID: types.NewNumber(1003), Value: types.NewNumber(protein)},
		},
	}
}

func bare(id int, desc string) types.FoodRecord {
	return types.FoodRecord{FdcID: id, Description: desc, Nutrients: []types.NutrientObservation{}}
}

func testCfg() types.SearchConfig {
	return types.SearchConfig{MaxResults: 10, Hydrate: true}
}

// --- Query ---

func TestQueryIsEmpty(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  bool
	}{
		{"empty", Query{}, true},
		{"whitespace", Query{Text: "  \t"}, true},
		{"text", Query{Text: "banana"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.query.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

// --- Deduplication ---

func TestDeduplicateByFdcID(t *testing.T) {
	results := []Result{
		{Food: bare(1, "Banana"), Source: "a"},
		{Food: food(1, "Banana, raw", 1.1), Source: "b"},
		{Food: food(2, "Apple", 0.3), Source: "a"},
	}

	deduped, removed := deduplicate(results)
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if len(deduped) != 2 {
		t.Fatalf("len(deduped) = %d, want 2", len(deduped))
	}
	if deduped[0].Food.Description != "Banana" {
		t.Errorf("first occurrence should win, got %q", deduped[0].Food.Description)
	}
	if len(deduped[0].Food.Nutrients) != 1 {
		t.Error("missing nutrients should be filled from the duplicate")
	}
	if deduped[0].Source != "a,b" {
		t.Errorf("merged source = %q, want %q", deduped[0].Source, "a,b")
	}
}

func TestDeduplicateKeepsRecordsWithoutID(t *testing.T) {
	results := []Result{
		{Food: bare(0, "x")},
		{Food: bare(0, "y")},
	}
	deduped, removed := deduplicate(results)
	if removed != 0 || len(deduped) != 2 {
		t.Errorf("got %d results, %d removed; want 2, 0", len(deduped), removed)
	}
}

// --- Search ---

func TestSearchEmptyQuery(t *testing.T) {
	_, err := Search(context.Background(), Query{}, []Backend{&mockBackend{name: "mock"}}, nil, testCfg())
	if !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("expected ErrEmptyQuery, got: %v", err)
	}
}

func TestSearchNoBackends(t *testing.T) {
	_, err := Search(context.Background(), Query{Text: "banana"}, nil, nil, testCfg())
	if err == nil || !strings.Contains(err.Error(), "no search backends") {
		t.Errorf("expected no backends error, got: %v", err)
	}
}

func TestSearchContinuesAfterBackendFailure(t *testing.T) {
	failing := &mockBackend{name: "failing", err: fmt.Errorf("network error")}
	working := &mockBackend{name: "working", foods: []types.FoodRecord{food(1, "Banana", 1.1)}}

	out, err := Search(context.Background(), Query{Text: "banana"}, []Backend{failing, working}, nil, testCfg())
	if err != nil {
		t.Fatalf("Search should not fail entirely: %v", err)
	}
	if len(out.Results) != 1 {
		t.Errorf("len(Results) = %d, want 1", len(out.Results))
	}
	if len(out.BackendErrors) != 1 || !strings.HasPrefix(out.BackendErrors[0], "failing:") {
		t.Errorf("BackendErrors = %v", out.BackendErrors)
	}
}

func TestSearchAllBackendsFail(t *testing.T) {
	b1 := &mockBackend{name: "a", err: fmt.Errorf("boom")}
	b2 := &mockBackend{name: "b", err: fmt.Errorf("bang")}

	out, err := Search(context.Background(), Query{Text: "banana"}, []Backend{b1, b2}, nil, testCfg())
	if err == nil {
		t.Fatal("expected error when every backend fails")
	}
	if len(out.BackendErrors) != 2 {
		t.Errorf("len(BackendErrors) = %d, want 2", len(out.BackendErrors))
	}
}

func TestSearchKeepsBackendOrder(t *testing.T) {
	b1 := &mockBackend{name: "b1", foods: []types.FoodRecord{food(1, "A", 1), food(3, "C", 3)}}
	b2 := &mockBackend{name: "b2", foods: []types.FoodRecord{food(1, "A dup", 1), food(2, "B", 2)}}

	out, err := Search(context.Background(), Query{Text: "x"}, []Backend{b1, b2}, nil, testCfg())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if out.DupsRemoved != 1 {
		t.Errorf("DupsRemoved = %d, want 1", out.DupsRemoved)
	}
	var ids []int
	for _, r := range out.Results {
		ids = append(ids, r.Food.FdcID)
	}
	if fmt.Sprint(ids) != "[1 3 2]" {
		t.Errorf("order = %v, want [1 3 2]", ids)
	}
}

func TestSearchMaxResults(t *testing.T) {
	var foods []types.FoodRecord
	for i := 1; i <= 30; i++ {
		foods = append(foods, food(i, fmt.Sprintf("Food %d", i), float64(i)))
	}
	b := &mockBackend{name: "mock", foods: foods}

	tests := []struct {
		name string
		max  int
		want int
	}{
		{"configured", 5, 5},
		{"default", 0, DefaultMaxResults},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Search(context.Background(), Query{Text: "x"}, []Backend{b}, nil, types.SearchConfig{MaxResults: tt.max})
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if len(out.Results) != tt.want {
				t.Errorf("len(Results) = %d, want %d", len(out.Results), tt.want)
			}
		})
	}
}

func TestSearchHydratesBareHits(t *testing.T) {
	b := &mockBackend{name: "mock", foods: []types.FoodRecord{bare(7, "Oats"), food(8, "Rice", 2.7)}}
	d := &mockDetailer{foods: map[int]types.FoodRecord{7: food(7, "", 13.2)}}

	out, err := Search(context.Background(), Query{Text: "grain"}, []Backend{b}, d, testCfg())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if atomic.LoadInt32(&d.calls) != 1 {
		t.Errorf("detailer calls = %d, want 1", d.calls)
	}
	oats := out.Results[0]
	if oats.Food.Description != "Oats" {
		t.Errorf("hydrated description = %q, want original kept", oats.Food.Description)
	}
	if oats.PerHundred.Proteins != 13.2 {
		t.Errorf("hydrated protein = %v, want 13.2", oats.PerHundred.Proteins)
	}
	if oats.MissingNutrients {
		t.Error("hydrated food should not be flagged")
	}
}

func TestSearchHydrationFailureKeepsHit(t *testing.T) {
	b := &mockBackend{name: "mock", foods: []types.FoodRecord{bare(7, "Oats")}}
	d := &mockDetailer{foods: map[int]types.FoodRecord{}}

	out, err := Search(context.Background(), Query{Text: "oats"}, []Backend{b}, d, testCfg())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(out.Results) != 1 {
		t.Fatalf("len(Results) = %d, want 1", len(out.Results))
	}
	if !out.Results[0].MissingNutrients {
		t.Error("food without nutrients should be flagged MissingNutrients")
	}
}

func TestSearchHydrationDisabled(t *testing.T) {
	b := &mockBackend{name: "mock", foods: []types.FoodRecord{bare(7, "Oats")}}
	d := &mockDetailer{foods: map[int]types.FoodRecord{7: food(7, "Oats", 13)}}

	cfg := testCfg()
	cfg.Hydrate = false
	if _, err := Search(context.Background(), Query{Text: "oats"}, []Backend{b}, d, cfg); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if d.calls != 0 {
		t.Errorf("detailer called %d times with hydration off", d.calls)
	}
}

// --- FDC backend ---

func TestFDCBackend(t *testing.T) {
	s := &mockSearcher{}
	backends := Backends(s, []string{"Foundation", "SR Legacy"}, []string{"Branded"})
	if len(backends) != 2 {
		t.Fatalf("len(backends) = %d, want 2", len(backends))
	}
	if got := backends[0].Name(); got != "fdc:Foundation+SR Legacy" {
		t.Errorf("Name() = %q", got)
	}

	if _, err := backends[1].Search(context.Background(), Query{Text: " cola "}); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if s.gotQuery != "cola" {
		t.Errorf("query = %q, want %q", s.gotQuery, "cola")
	}
	if fmt.Sprint(s.gotDataTypes) != "[Branded]" {
		t.Errorf("data types = %v", s.gotDataTypes)
	}

	def := Backends(s)
	if len(def) != 1 || def[0].Name() != "fdc" {
		t.Errorf("default backends = %v", def)
	}
}

// --- Formatting ---

func TestFormatTable(t *testing.T) {
	out := Output{
		Results: []Result{
			{Food: bare(1, "Banana, raw"), PerHundred: types.MacroTotals{Calories: 89, Proteins: 1.1}},
			{Food: bare(2, "Mystery"), MissingNutrients: true},
		},
		DupsRemoved: 1,
	}
	var buf bytes.Buffer
	FormatTable(out, &buf)
	s := buf.String()
	for _, want := range []string{"Banana, raw", "89.0", "no nutrition data", "1 duplicates removed"} {
		if !strings.Contains(s, want) {
			t.Errorf("table missing %q:\n%s", want, s)
		}
	}
}

func TestFormatTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	FormatTable(Output{}, &buf)
	if !strings.Contains(buf.String(), "No results found.") {
		t.Errorf("got %q", buf.String())
	}
}

func TestFormatJSON(t *testing.T) {
	out := Output{Results: []Result{{Food: food(1, "Banana", 1.1), PerHundred: types.MacroTotals{Proteins: 1.1}}}}
	var buf bytes.Buffer
	if err := FormatJSON(out, &buf); err != nil {
		t.Fatalf("FormatJSON: %v", err)
	}
	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(decoded) != 1 {
		t.Fatalf("len = %d, want 1", len(decoded))
	}
	per := decoded[0]["per_100"].(map[string]any)
	if per["proteins"] != 1.1 {
		t.Errorf("per_100.proteins = %v", per["proteins"])
	}
}

// --- Query file ---

func TestQueryFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "banana.yaml")
	out := Output{
		Results: []Result{
			{Food: food(1, "Banana", 1.1), Source: "fdc", PerHundred: types.MacroTotals{Proteins: 1.1, Calories: 89}},
		},
		DupsRemoved: 2,
	}
	backends := []Backend{&mockBackend{name: "fdc"}}

	if err := WriteQueryFile(path, Query{Text: "banana"}, backends, testCfg(), out); err != nil {
		t.Fatalf("WriteQueryFile: %v", err)
	}
	qf, err := ReadQueryFile(path)
	if err != nil {
		t.Fatalf("ReadQueryFile: %v", err)
	}
	if qf.Query != "banana" {
		t.Errorf("Query = %q", qf.Query)
	}
	if fmt.Sprint(qf.Config.Backends) != "[fdc]" {
		t.Errorf("Backends = %v", qf.Config.Backends)
	}
	if qf.Summary.Total != 1 || qf.Summary.DuplicatesRemoved != 2 {
		t.Errorf("Summary = %+v", qf.Summary)
	}

	restored := qf.Output()
	if len(restored.Results) != 1 {
		t.Fatalf("len(Results) = %d", len(restored.Results))
	}
	if restored.Results[0].PerHundred.Calories != 89 {
		t.Errorf("Calories = %v, want 89", restored.Results[0].PerHundred.Calories)
	}
}

func TestReadQueryFileMissing(t *testing.T) {
	if _, err := ReadQueryFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
