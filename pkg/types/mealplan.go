// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// User is a tracked person. The numeric ID is the only identity; it is
// trusted as supplied by the client.
type User struct {
	ID int64 `json:"id" yaml:"id"`

	Name string `json:"name" yaml:"name"`

	// Age in years.
	Age int `json:"age" yaml:"age"`

	// Weight in kilograms.
	Weight float64 `json:"weight" yaml:"weight"`

	// Height in centimetres.
	Height float64 `json:"height" yaml:"height"`

	// Gender is free text; "male"/"homme" selects the male body-fat formula.
	Gender string `json:"gender" yaml:"gender"`

	TargetMacros MacroTargets `json:"target_macros" yaml:"target_macros"`
}

// MealType is the meal slot a plan item belongs to.
type MealType string

const (
	Breakfast MealType = "breakfast"
	Snack1    MealType = "snack1"
	Lunch     MealType = "lunch"
	Snack2    MealType = "snack2"
	Dinner    MealType = "dinner"
)

// MealTypes lists the slots in the order they occur during a day.
var MealTypes = []MealType{Breakfast, Snack1, Lunch, Snack2, Dinner}

var mealTypeLabels = map[MealType]string{
	Snack1: "morning snack",
	Snack2: "afternoon snack",
}

// Valid reports whether t is one of the known slots.
func (t MealType) Valid() bool {
	for _, m := range MealTypes {
		if m == t {
			return true
		}
	}
	return false
}

// Label returns the display label for the slot, e.g. "Morning Snack".
func (t MealType) Label() string {
	s, ok := mealTypeLabels[t]
	if !ok {
		s = string(t)
	}
	return cases.Title(language.English).String(s)
}

// MealPlan is a named set of food items grouped by meal slot.
type MealPlan struct {
	ID          int64          `json:"id" yaml:"id"`
	UserID      int64          `json:"user_id" yaml:"user_id"`
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description" yaml:"description"`
	Items       []MealPlanItem `json:"items" yaml:"items"`
}

// MealPlanItem is one food line in a plan. The macro fields are already
// scaled to Amount.
type MealPlanItem struct {
	ID         int64    `json:"id" yaml:"id"`
	MealPlanID int64    `json:"meal_plan_id" yaml:"meal_plan_id"`
	MealType   MealType `json:"meal_type" yaml:"meal_type"`
	FoodID     int      `json:"food_id" yaml:"food_id"`
	FoodName   string   `json:"food_name" yaml:"food_name"`

	// Amount is the quantity in the same unit the food's values are per 100 of
	// (grams for FDC foods).
	Amount float64 `json:"amount" yaml:"amount"`

	Proteins float64 `json:"proteins" yaml:"proteins"`
	Carbs    float64 `json:"carbs" yaml:"carbs"`
	Fats     float64 `json:"fats" yaml:"fats"`
	Calories float64 `json:"calories" yaml:"calories"`
	Fiber    float64 `json:"fiber" yaml:"fiber"`

	// CreatedAt is set by the store when the item is added.
	CreatedAt time.Time `json:"created_at,omitzero" yaml:"created_at,omitempty"`
}

// Macros returns the item's macro fields as MacroTotals.
func (i MealPlanItem) Macros() MacroTotals {
	return MacroTotals{
		Proteins: i.Proteins,
		Carbs:    i.Carbs,
		Fats:     i.Fats,
		Calories: i.Calories,
		Fiber:    i.Fiber,
	}
}

// SetMacros copies m into the item's macro fields.
func (i *MealPlanItem) SetMacros(m MacroTotals) {
	i.Proteins = m.Proteins
	i.Carbs = m.Carbs
	i.Fats = m.Fats
	i.Calories = m.Calories
	i.Fiber = m.Fiber
}
