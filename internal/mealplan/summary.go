// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mealplan

import (
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/macro-tracker/internal/textutil"
	"github.com/pdiddy/macro-tracker/pkg/types"
)

// Slot holds one meal slot's items and totals.
type Slot struct {
	MealType types.MealType       `json:"meal_type" yaml:"meal_type"`
	Label    string               `json:"label" yaml:"label"`
	Items    []types.MealPlanItem `json:"items" yaml:"items"`
	Totals   types.MacroTotals    `json:"totals" yaml:"totals"`
}

// ChartSlice is one slice of the macro split chart.
type ChartSlice struct {
	Name    string  `json:"name" yaml:"name"`
	Grams   float64 `json:"grams" yaml:"grams"`
	Percent float64 `json:"percent" yaml:"percent"`
}

// Progress compares a total with a user target.
type Progress struct {
	Name    string  `json:"name" yaml:"name"`
	Actual  float64 `json:"actual" yaml:"actual"`
	Target  float64 `json:"target" yaml:"target"`
	Percent float64 `json:"percent" yaml:"percent"`
}

// Summary is the aggregate view of a plan.
type Summary struct {
	PlanID   int64             `json:"plan_id" yaml:"plan_id"`
	Name     string            `json:"name" yaml:"name"`
	Totals   types.MacroTotals `json:"totals" yaml:"totals"`
	Slots    []Slot            `json:"slots" yaml:"slots"`
	Chart    []ChartSlice      `json:"chart" yaml:"chart"`
	Progress []Progress        `json:"progress,omitempty" yaml:"progress,omitempty"`
}

// Summarize totals the plan overall and per slot, in canonical slot order.
// Items in an unknown slot count toward the plan total and are grouped after
// the known slots. Progress is reported for every target that is set.
func Summarize(plan types.MealPlan, targets types.MacroTargets) Summary {
	s := Summary{PlanID: plan.ID, Name: plan.Name}

	bySlot := make(map[types.MealType]int)
	for i, mt := range types.MealTypes {
		s.Slots = append(s.Slots, Slot{MealType: mt, Label: mt.Label(), Items: []types.MealPlanItem{}})
		bySlot[mt] = i
	}

	for _, item := range plan.Items {
		s.Totals = s.Totals.Add(item.Macros())
		idx, ok := bySlot[item.MealType]
		if !ok {
			idx = len(s.Slots)
			s.Slots = append(s.Slots, Slot{MealType: item.MealType, Label: item.MealType.Label()})
			bySlot[item.MealType] = idx
		}
		s.Slots[idx].Items = append(s.Slots[idx].Items, item)
		s.Slots[idx].Totals = s.Slots[idx].Totals.Add(item.Macros())
	}

	s.Chart = Chart(s.Totals)
	s.Progress = progress(s.Totals, targets)
	return s
}

// Chart splits the gram-valued macros into percentages. Fiber is omitted
// when zero. All percentages are zero when the total is zero.
func Chart(m types.MacroTotals) []ChartSlice {
	slices := []ChartSlice{
		{Name: "proteins", Grams: m.Proteins},
		{Name: "carbs", Grams: m.Carbs},
		{Name: "fats", Grams: m.Fats},
	}
	if m.Fiber > 0 {
		slices = append(slices, ChartSlice{Name: "fiber", Grams: m.Fiber})
	}

	var total float64
	for _, c := range slices {
		total += c.Grams
	}
	if total > 0 {
		for i := range slices {
			slices[i].Percent = slices[i].Grams / total * 100
		}
	}
	return slices
}

func progress(m types.MacroTotals, t types.MacroTargets) []Progress {
	pairs := []struct {
		name           string
		actual, target float64
	}{
		{"calories", m.Calories, t.Calories},
		{"proteins", m.Proteins, t.Proteins},
		{"carbs", m.Carbs, t.Carbs},
		{"fats", m.Fats, t.Fats},
		{"fiber", m.Fiber, t.Fiber},
	}
	var out []Progress
	for _, p := range pairs {
		if p.target <= 0 {
			continue
		}
		out = append(out, Progress{
			Name:    p.name,
			Actual:  p.actual,
			Target:  p.target,
			Percent: p.actual / p.target * 100,
		})
	}
	return out
}

// FormatSummary writes a human-readable summary to w.
func FormatSummary(s Summary, w io.Writer) {
	fmt.Fprintf(w, "%s (plan %d)\n", s.Name, s.PlanID)
	fmt.Fprintln(w, strings.Repeat("-", 72))

	for _, slot := range s.Slots {
		if len(slot.Items) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s\n", slot.Label)
		for _, item := range slot.Items {
			fmt.Fprintf(w, "  #%-5d %-36s %7.0f g  %6.0f kcal\n",
				item.ID, textutil.Truncate(item.FoodName, 36), item.Amount, item.Calories)
		}
		fmt.Fprintf(w, "  %-43s %7s    %6.0f kcal\n", "subtotal", "", slot.Totals.Calories)
	}

	t := s.Totals
	fmt.Fprintln(w, strings.Repeat("-", 72))
	fmt.Fprintf(w, "Total: %.0f kcal, protein %.1f g, carbs %.1f g, fat %.1f g, fiber %.1f g\n",
		t.Calories, t.Proteins, t.Carbs, t.Fats, t.Fiber)

	parts := make([]string, 0, len(s.Chart))
	for _, c := range s.Chart {
		parts = append(parts, fmt.Sprintf("%s %.0f%%", c.Name, c.Percent))
	}
	fmt.Fprintf(w, "Split: %s\n", strings.Join(parts, ", "))

	for _, p := range s.Progress {
		fmt.Fprintf(w, "Target %-8s %8.1f / %-8.1f (%.0f%%)\n", p.Name, p.Actual, p.Target, p.Percent)
	}
}
