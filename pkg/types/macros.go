// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// MacroTotals holds the five canonical macro values. Proteins, carbs, fats
// and fiber are in grams; calories in kilocalories. Values are for whatever
// amount produced them, not necessarily per 100 units.
type MacroTotals struct {
	Proteins float64 `json:"proteins" yaml:"proteins"`
	Carbs    float64 `json:"carbs" yaml:"carbs"`
	Fats     float64 `json:"fats" yaml:"fats"`
	Calories float64 `json:"calories" yaml:"calories"`
	Fiber    float64 `json:"fiber" yaml:"fiber"`
}

// Scale returns the totals multiplied by f.
func (m MacroTotals) Scale(f float64) MacroTotals {
	return MacroTotals{
		Proteins: m.Proteins * f,
		Carbs:    m.Carbs * f,
		Fats:     m.Fats * f,
		Calories: m.Calories * f,
		Fiber:    m.Fiber * f,
	}
}

// Add returns the field-wise sum of m and o.
func (m MacroTotals) Add(o MacroTotals) MacroTotals {
	return MacroTotals{
		Proteins: m.Proteins + o.Proteins,
		Carbs:    m.Carbs + o.Carbs,
		Fats:     m.Fats + o.Fats,
		Calories: m.Calories + o.Calories,
		Fiber:    m.Fiber + o.Fiber,
	}
}

// IsZero reports whether every macro is zero, which callers surface as
// "no nutrition data" rather than as an error.
func (m MacroTotals) IsZero() bool {
	return m == MacroTotals{}
}

// MacroTargets are a user's optional daily goals. A zero field means unset.
type MacroTargets struct {
	Proteins float64 `json:"proteins,omitempty" yaml:"proteins,omitempty"`
	Carbs    float64 `json:"carbs,omitempty" yaml:"carbs,omitempty"`
	Fats     float64 `json:"fats,omitempty" yaml:"fats,omitempty"`
	Calories float64 `json:"calories,omitempty" yaml:"calories,omitempty"`
	Fiber    float64 `json:"fiber,omitempty" yaml:"fiber,omitempty"`
}

// IsEmpty reports whether no target is set.
func (t MacroTargets) IsEmpty() bool {
	return t == MacroTargets{}
}
