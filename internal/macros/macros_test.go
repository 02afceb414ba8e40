// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package macros

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/macro-tracker/pkg/types"
)

const tolerance = 1e-9

func decodeFood(t *testing.T, doc string) types.FoodRecord {
	t.Helper()
	var f types.FoodRecord
	require.NoError(t, json.Unmarshal([]byte(doc), &f))
	return f
}

// --- basic shapes ---

func TestComputeEmptyNutrients(t *testing.T) {
	got := Compute(decodeFood(t, `{"nutrients": []}`), 100)
	assert.True(t, got.IsZero(), "got %+v", got)
}

func TestComputeMissingNutrientsKey(t *testing.T) {
	got := Compute(decodeFood(t, `{}`), 100)
	assert.True(t, got.IsZero(), "got %+v", got)
}

func TestComputeZeroValueRecord(t *testing.T) {
	got := Compute(types.FoodRecord{}, 250)
	assert.Equal(t, types.MacroTotals{}, got)
}

func TestComputeNestedDefinitionAmount(t *testing.T) {
	food := decodeFood(t, `{"nutrients": [{"nutrient": {"id": 203, "amount": 20}}]}`)

	assert.InDelta(t, 20, Compute(food, 100).Proteins, tolerance)
	assert.InDelta(t, 10, Compute(food, 50).Proteins, tolerance)

	v, rule := Resolve(food, Protein)
	assert.Equal(t, 20.0, v)
	assert.Equal(t, RuleDefinitionAmount, rule)
}

func TestComputeNestedDefinitionValue(t *testing.T) {
	food := decodeFood(t, `{"nutrients": [{"nutrient": {"id": 203, "value": 15}}]}`)

	assert.InDelta(t, 15, Compute(food, 100).Proteins, tolerance)
	_, rule := Resolve(food, Protein)
	assert.Equal(t, RuleDefinitionValue, rule)
}

func TestComputeFlatShape(t *testing.T) {
	food := decodeFood(t, `{"nutrients": [{"nutrientId": 1005, "amount": 30}]}`)

	got := Compute(food, 100)
	assert.InDelta(t, 30, got.Carbs, tolerance)
	assert.Zero(t, got.Proteins)
	_, rule := Resolve(food, Carbohydrate)
	assert.Equal(t, RuleFlatID, rule)
}

func TestComputeFlatShapeUsesValueWhenAmountNotPositive(t *testing.T) {
	food := decodeFood(t, `{"nutrients": [{"id": 291, "amount": 0, "value": 2.4}]}`)
	assert.InDelta(t, 2.4, Compute(food, 100).Fiber, tolerance)
}

func TestComputeNameOnlyFallback(t *testing.T) {
	food := decodeFood(t, `{"nutrients": [{"id": 9999, "name": "Total Fat Content", "value": 8}]}`)

	assert.InDelta(t, 8, Compute(food, 100).Fats, tolerance)
	_, rule := Resolve(food, Fat)
	assert.Equal(t, RuleNameOnly, rule)
}

func TestComputeNameOnlyMatchesCaloriesKeyword(t *testing.T) {
	food := decodeFood(t, `{"nutrients": [{"nutrientName": "Calories", "amount": 52}]}`)
	assert.InDelta(t, 52, Compute(food, 100).Calories, tolerance)
}

func TestComputeEarlierRulesWin(t *testing.T) {
	food := decodeFood(t, `{"nutrients": [
		{"name": "Energy (Atwater)", "amount": 999},
		{"nutrient": {"id": 1008, "amount": 100}}
	]}`)

	assert.InDelta(t, 100, Compute(food, 100).Calories, tolerance)
}

func TestComputeObservationFieldsBeforeDefinitionFields(t *testing.T) {
	food := decodeFood(t, `{"nutrients": [
		{"nutrient": {"id": 1004, "amount": 7}, "value": 3}
	]}`)

	v, rule := Resolve(food, Fat)
	assert.Equal(t, 3.0, v)
	assert.Equal(t, RuleObservationValue, rule)
}

// --- positivity ---

func TestComputeZeroAmountDoesNotSatisfyIDRules(t *testing.T) {
	food := decodeFood(t, `{"nutrients": [{"nutrient": {"id": 1003}, "amount": 0}]}`)

	v, rule := Resolve(food, Protein)
	assert.Zero(t, v)
	assert.Equal(t, RuleNone, rule)
}

func TestComputeZeroAmountFallsThroughToLaterObservation(t *testing.T) {
	food := decodeFood(t, `{"nutrients": [
		{"nutrient": {"id": 1003}, "amount": 0},
		{"nutrient": {"id": 203}, "value": 12}
	]}`)

	v, rule := Resolve(food, Protein)
	assert.Equal(t, 12.0, v)
	assert.Equal(t, RuleObservationValue, rule)
}

// The nested-name rule and the name-only rule accept zero and negative
// values while the ID rules require positivity. These cases pin that
// asymmetry so a change to it is deliberate.

func TestComputeNestedNameRuleAcceptsZero(t *testing.T) {
	food := decodeFood(t, `{"nutrients": [
		{"nutrient": {"id": 1003, "name": "Protein"}, "amount": 0},
		{"name": "protein (estimated)", "amount": 5}
	]}`)

	v, rule := Resolve(food, Protein)
	assert.Zero(t, v)
	assert.Equal(t, RuleNestedName, rule)
}

func TestComputeNestedNameRuleAcceptsNegative(t *testing.T) {
	food := decodeFood(t, `{"nutrients": [{"nutrient": {"id": 1079, "name": "Fiber, total dietary"}, "amount": "-1.5"}]}`)

	v, rule := Resolve(food, Fiber)
	assert.Equal(t, -1.5, v)
	assert.Equal(t, RuleNestedName, rule)
}

func TestComputeNestedNameRuleParsesDecimalPrefix(t *testing.T) {
	food := decodeFood(t, `{"nutrients": [{"nutrient": {"id": 1005, "name": "Carbohydrate, by difference"}, "amount": "12.5 g"}]}`)

	v, rule := Resolve(food, Carbohydrate)
	assert.Equal(t, 12.5, v)
	assert.Equal(t, RuleNestedName, rule)
}

func TestComputeNameOnlyRuleAcceptsZeroFromFirstMatch(t *testing.T) {
	food := decodeFood(t, `{"nutrients": [
		{"name": "Fiber", "amount": 0},
		{"name": "fiber, insoluble", "amount": 3}
	]}`)

	v, rule := Resolve(food, Fiber)
	assert.Zero(t, v)
	assert.Equal(t, RuleNameOnly, rule)
}

func TestComputeNameOnlyRuleWithoutQuantityIsZero(t *testing.T) {
	food := decodeFood(t, `{"nutrients": [{"nutrient": {"id": 5, "name": "Protein"}}]}`)

	v, rule := Resolve(food, Protein)
	assert.Zero(t, v)
	assert.Equal(t, RuleNameOnly, rule)
}

// --- malformed input ---

func TestComputeMalformedNutrientList(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"list is a string", `{"foodNutrients": "oops"}`},
		{"list is null", `{"nutrients": null}`},
		{"entries are scalars", `{"nutrients": [1, "two", true]}`},
		{"nested nutrient is a string", `{"nutrients": [{"nutrient": "protein", "amount": "abc"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(decodeFood(t, tt.doc), 100)
			assert.True(t, got.IsZero(), "got %+v", got)
		})
	}
}

func TestComputeSkipsMalformedEntries(t *testing.T) {
	food := decodeFood(t, `{"nutrients": [
		"garbage",
		{"nutrientId": "1003", "value": "4.2"}
	]}`)

	assert.InDelta(t, 4.2, Compute(food, 100).Proteins, tolerance)
}

func TestComputeMalformedSideFieldKeepsValue(t *testing.T) {
	food := decodeFood(t, `{"nutrients": [
		{"nutrientId": 1003, "amount": 20, "unitName": 5},
		{"nutrient": {"id": 1004, "name": ["x"], "unitName": {}}, "amount": 7},
		{"nutrientId": 1005, "nutrientName": false, "name": null, "value": 30}
	]}`)
	require.Len(t, food.Nutrients, 3)

	got := Compute(food, 100)
	assert.InDelta(t, 20, got.Proteins, tolerance)
	assert.InDelta(t, 7, got.Fats, tolerance)
	assert.InDelta(t, 30, got.Carbs, tolerance)

	_, rule := Resolve(food, Fat)
	assert.Equal(t, RuleObservationAmount, rule)
}

// --- FDC payloads ---

const fdcSearchHit = `{
	"fdcId": 1105314,
	"description": "Banana, raw",
	"dataType": "SR Legacy",
	"foodNutrients": [
		{"nutrientId": 1003, "nutrientName": "Protein", "unitName": "G", "value": 1.09},
		{"nutrientId": 1004, "nutrientName": "Total lipid (fat)", "unitName": "G", "value": 0.33},
		{"nutrientId": 1005, "nutrientName": "Carbohydrate, by difference", "unitName": "G", "value": 22.8},
		{"nutrientId": 1008, "nutrientName": "Energy", "unitName": "KCAL", "value": 89},
		{"nutrientId": 1079, "nutrientName": "Fiber, total dietary", "unitName": "G", "value": 2.6}
	]
}`

const fdcDetail = `{
	"fdcId": 173944,
	"description": "Bananas, raw",
	"dataType": "SR Legacy",
	"foodNutrients": [
		{"type": "FoodNutrient", "nutrient": {"id": 1003, "number": "203", "name": "Protein", "unitName": "g"}, "amount": 1.09},
		{"type": "FoodNutrient", "nutrient": {"id": 1004, "number": "204", "name": "Total lipid (fat)", "unitName": "g"}, "amount": 0.33},
		{"type": "FoodNutrient", "nutrient": {"id": 1005, "number": "205", "name": "Carbohydrate, by difference", "unitName": "g"}, "amount": 22.84},
		{"type": "FoodNutrient", "nutrient": {"id": 1008, "number": "208", "name": "Energy", "unitName": "kcal"}, "amount": 89},
		{"type": "FoodNutrient", "nutrient": {"id": 1079, "number": "291", "name": "Fiber, total dietary", "unitName": "g"}, "amount": 2.6}
	]
}`

func TestComputeFDCSearchHit(t *testing.T) {
	food := decodeFood(t, fdcSearchHit)
	require.Len(t, food.Nutrients, 5)

	got := Compute(food, 150)
	assert.InDelta(t, 1.635, got.Proteins, 1e-9)
	assert.InDelta(t, 34.2, got.Carbs, 1e-9)
	assert.InDelta(t, 0.495, got.Fats, 1e-9)
	assert.InDelta(t, 133.5, got.Calories, 1e-9)
	assert.InDelta(t, 3.9, got.Fiber, 1e-9)
}

func TestComputeFDCDetail(t *testing.T) {
	food := decodeFood(t, fdcDetail)

	got := Compute(food, 100)
	assert.InDelta(t, 1.09, got.Proteins, tolerance)
	assert.InDelta(t, 22.84, got.Carbs, tolerance)
	assert.InDelta(t, 0.33, got.Fats, tolerance)
	assert.InDelta(t, 89, got.Calories, tolerance)
	assert.InDelta(t, 2.6, got.Fiber, tolerance)

	_, rule := Resolve(food, Energy)
	assert.Equal(t, RuleObservationAmount, rule)
}

// --- linearity ---

func TestComputeIsLinearInAmount(t *testing.T) {
	foods := []types.FoodRecord{
		decodeFood(t, fdcSearchHit),
		decodeFood(t, fdcDetail),
		decodeFood(t, `{"nutrients": [{"name": "Total Fat", "value": 8}, {"nutrientId": 1005, "amount": 30}]}`),
	}
	amounts := []float64{0.5, 1, 33.3, 50, 100, 250, 1000}

	for _, food := range foods {
		base := Compute(food, 100)
		for _, a := range amounts {
			got := Compute(food, a)
			want := base.Scale(a / 100)
			assert.InDelta(t, want.Proteins, got.Proteins, tolerance)
			assert.InDelta(t, want.Carbs, got.Carbs, tolerance)
			assert.InDelta(t, want.Fats, got.Fats, tolerance)
			assert.InDelta(t, want.Calories, got.Calories, tolerance)
			assert.InDelta(t, want.Fiber, got.Fiber, tolerance)
		}
	}
}

func TestComputeDoesNotMutateFood(t *testing.T) {
	food := decodeFood(t, fdcDetail)
	before, err := json.Marshal(food)
	require.NoError(t, err)

	_ = Compute(food, 42)

	after, err := json.Marshal(food)
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
}

func TestComputeConcurrentCalls(t *testing.T) {
	food := decodeFood(t, fdcDetail)
	want := Compute(food, 80)

	done := make(chan types.MacroTotals, 16)
	for range 16 {
		go func() { done <- Compute(food, 80) }()
	}
	for range 16 {
		assert.Equal(t, want, <-done)
	}
}
