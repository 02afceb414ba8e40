// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package macros derives the five canonical macro values from a food record
// whose nutrient list may use any of several upstream shapes.
//
// Each category is resolved per 100 units by an ordered chain of rules;
// the first rule that yields a usable value wins. Structural matches on a
// nutrient ID are tried before name heuristics, and the ID rules only accept
// positive values. Missing or malformed data resolves to 0; nothing here
// returns an error.
package macros

import (
	"slices"
	"strings"

	"github.com/pdiddy/macro-tracker/pkg/types"
)

// Category is one canonical macro with the nutrient IDs (modern and legacy
// numbering) and name keywords that identify it.
type Category struct {
	Name     string
	IDs      []int
	Keywords []string
}

var (
	Protein      = Category{Name: "protein", IDs: []int{1003, 203}, Keywords: []string{"protein"}}
	Carbohydrate = Category{Name: "carbohydrate", IDs: []int{1005, 205}, Keywords: []string{"carbohydrate"}}
	Fat          = Category{Name: "fat", IDs: []int{1004, 204}, Keywords: []string{"fat"}}
	Energy       = Category{Name: "energy", IDs: []int{1008, 208}, Keywords: []string{"energy", "calor"}}
	Fiber        = Category{Name: "fiber", IDs: []int{1079, 291}, Keywords: []string{"fiber"}}
)

// Categories lists every canonical category.
var Categories = []Category{Protein, Carbohydrate, Fat, Energy, Fiber}

func (c Category) matchesID(n types.Number) bool {
	id, ok := n.Int()
	return ok && slices.Contains(c.IDs, id)
}

func (c Category) matchesName(name string) bool {
	if name == "" {
		return false
	}
	name = strings.ToLower(name)
	for _, kw := range c.Keywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

// Rule names, in evaluation order.
const (
	RuleObservationAmount = "nested-id/amount"
	RuleObservationValue  = "nested-id/value"
	RuleDefinitionAmount  = "nested-id/nutrient.amount"
	RuleDefinitionValue   = "nested-id/nutrient.value"
	RuleNestedName        = "nested-id+name/amount"
	RuleFlatID            = "flat-id"
	RuleNameOnly          = "name-only"
	RuleNone              = "none"
)

type resolveFunc func(c Category, obs []types.NutrientObservation) (float64, bool)

type rule struct {
	name    string
	resolve resolveFunc
}

var chain = []rule{
	{RuleObservationAmount, nestedPositive(func(o types.NutrientObservation, _ *types.NutrientDefinition) types.Number { return o.Amount })},
	{RuleObservationValue, nestedPositive(func(o types.NutrientObservation, _ *types.NutrientDefinition) types.Number { return o.Value })},
	{RuleDefinitionAmount, nestedPositive(func(_ types.NutrientObservation, d *types.NutrientDefinition) types.Number { return d.Amount })},
	{RuleDefinitionValue, nestedPositive(func(_ types.NutrientObservation, d *types.NutrientDefinition) types.Number { return d.Value })},
	{RuleNestedName, nestedByName},
	{RuleFlatID, flatByID},
	{RuleNameOnly, byNameOnly},
}

// nestedPositive matches observations whose nested definition carries one of
// the category IDs and reads the selected field, accepting only values > 0.
func nestedPositive(field func(types.NutrientObservation, *types.NutrientDefinition) types.Number) resolveFunc {
	return func(c Category, obs []types.NutrientObservation) (float64, bool) {
		for _, o := range obs {
			def := o.Definition()
			if def == nil || !c.matchesID(def.ID) {
				continue
			}
			if v, ok := field(o, def).Positive(); ok {
				return v, true
			}
		}
		return 0, false
	}
}

// nestedByName requires both an ID match and a keyword in the nested name,
// then parses the observation amount leniently. Zero and negative values
// are accepted here.
func nestedByName(c Category, obs []types.NutrientObservation) (float64, bool) {
	for _, o := range obs {
		def := o.Definition()
		if def == nil || !c.matchesID(def.ID) || !c.matchesName(def.Name) {
			continue
		}
		if v, ok := o.Amount.LeadingFloat(); ok {
			return v, true
		}
	}
	return 0, false
}

// flatByID handles observations without a nested definition, keyed by their
// own id or nutrientId.
func flatByID(c Category, obs []types.NutrientObservation) (float64, bool) {
	for _, o := range obs {
		if o.Definition() != nil {
			continue
		}
		if !c.matchesID(o.ID) && !c.matchesID(o.NutrientID) {
			continue
		}
		if v, ok := o.Amount.Positive(); ok {
			return v, true
		}
		if v, ok := o.Value.Positive(); ok {
			return v, true
		}
	}
	return 0, false
}

// byNameOnly ignores IDs. The first observation whose name matches decides
// the result: amount, else value, else 0.
func byNameOnly(c Category, obs []types.NutrientObservation) (float64, bool) {
	for _, o := range obs {
		if !matchesAnyName(c, o) {
			continue
		}
		if v, ok := o.Amount.Float(); ok {
			return v, true
		}
		if v, ok := o.Value.Float(); ok {
			return v, true
		}
		return 0, true
	}
	return 0, false
}

func matchesAnyName(c Category, o types.NutrientObservation) bool {
	for _, n := range o.OwnNames() {
		if c.matchesName(n) {
			return true
		}
	}
	if def := o.Definition(); def != nil {
		return c.matchesName(def.Name)
	}
	return false
}

// Resolve returns the per-100-unit value of one category and the name of the
// rule that produced it.
func Resolve(food types.FoodRecord, c Category) (float64, string) {
	for _, r := range chain {
		if v, ok := r.resolve(c, food.Nutrients); ok {
			return v, r.name
		}
	}
	return 0, RuleNone
}

// PerHundred resolves all five categories per 100 units of the food.
func PerHundred(food types.FoodRecord) types.MacroTotals {
	value := func(c Category) float64 {
		v, _ := Resolve(food, c)
		return v
	}
	return types.MacroTotals{
		Proteins: value(Protein),
		Carbs:    value(Carbohydrate),
		Fats:     value(Fat),
		Calories: value(Energy),
		Fiber:    value(Fiber),
	}
}

// Compute returns the macros for amount units of the food, where the food's
// values are per 100 units. The amount is not validated and no rounding is
// applied.
func Compute(food types.FoodRecord, amount float64) types.MacroTotals {
	return PerHundred(food).Scale(amount / 100)
}
