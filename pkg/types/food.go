// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data structures of macro-tracker: food
// records as returned by food-composition APIs, canonical macro totals, users,
// meal plans and the configuration blocks of every component.
package types

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Number is a JSON scalar whose upstream shape is not guaranteed: it may be a
// number, a numeric string, null, or absent. The raw text is kept so callers
// can choose between strict and lenient interpretation.
type Number struct {
	raw string
	set bool
}

// NewNumber returns a Number holding v.
func NewNumber(v float64) Number {
	return Number{raw: strconv.FormatFloat(v, 'f', -1, 64), set: true}
}

// NumberFromString returns a Number holding the raw text s, as if it had
// arrived as a JSON string.
func NumberFromString(s string) Number {
	return Number{raw: s, set: true}
}

// Present reports whether the field carried a non-null value.
func (n Number) Present() bool { return n.set }

// IsZero reports whether the field is absent. It drives the omitzero tag.
func (n Number) IsZero() bool { return !n.set }

// Raw returns the text the value arrived with.
func (n Number) Raw() string { return n.raw }

// Float returns the value when it is a finite number or a string that parses
// entirely as one.
func (n Number) Float() (float64, bool) {
	if !n.set {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(n.raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Positive returns the value only when Float succeeds and the value is > 0.
func (n Number) Positive() (float64, bool) {
	v, ok := n.Float()
	if !ok || v <= 0 {
		return 0, false
	}
	return v, true
}

// Int returns the value when it is integral.
func (n Number) Int() (int, bool) {
	v, ok := n.Float()
	if !ok || v != math.Trunc(v) {
		return 0, false
	}
	return int(v), true
}

var leadingDecimal = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// LeadingFloat parses the longest leading decimal prefix of the raw text,
// so "12.5 g" yields 12.5. It fails when no prefix is a number or the prefix
// overflows; "Infinity" and "1e999" are not accepted.
func (n Number) LeadingFloat() (float64, bool) {
	if !n.set {
		return 0, false
	}
	m := leadingDecimal.FindString(strings.TrimLeft(n.raw, " \t\n\r"))
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// UnmarshalJSON accepts any JSON value and never fails.
func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*n = Number{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*n = Number{}
			return nil
		}
		*n = Number{raw: s, set: true}
		return nil
	}
	*n = Number{raw: string(b), set: true}
	return nil
}

// MarshalJSON writes numbers as numbers and anything else as a string.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.set {
		return []byte("null"), nil
	}
	if _, ok := n.Float(); ok && json.Valid([]byte(n.raw)) {
		return []byte(strings.TrimSpace(n.raw)), nil
	}
	return json.Marshal(n.raw)
}

// NutrientDefinition is the nested "nutrient" object some FDC responses attach
// to each observation.
type NutrientDefinition struct {
	// ID is the nutrient identifier in the modern (1003) or legacy (203) scheme.
	ID Number `json:"id,omitzero"`

	// Number is FDC's legacy nutrient number carried as a string (e.g. "203").
	Number string `json:"number,omitempty"`

	// Name is the human-readable nutrient name.
	Name string `json:"name,omitempty"`

	// UnitName is the unit the amount is reported in. Informational only.
	UnitName string `json:"unitName,omitempty"`

	// Rank is FDC's display ordering hint.
	Rank Number `json:"rank,omitzero"`

	Amount Number `json:"amount,omitzero"`
	Value  Number `json:"value,omitzero"`
}

// UnmarshalJSON decodes the definition. The text fields read "" when they
// hold anything other than a string or number.
func (d *NutrientDefinition) UnmarshalJSON(b []byte) error {
	type plain NutrientDefinition
	var aux struct {
		plain
		Number   json.RawMessage `json:"number"`
		Name     json.RawMessage `json:"name"`
		UnitName json.RawMessage `json:"unitName"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*d = NutrientDefinition(aux.plain)
	d.Number = looseString(aux.Number)
	d.Name = looseString(aux.Name)
	d.UnitName = looseString(aux.UnitName)
	return nil
}

// NutrientObservation is one reported nutrient measurement for a food. Its
// shape varies by data source: flat ({nutrientId, nutrientName, value}),
// nested ({nutrient: {id, name}, amount}), or a mix of both.
type NutrientObservation struct {
	ID           Number `json:"id,omitzero"`
	NutrientID   Number `json:"nutrientId,omitzero"`
	Name         string `json:"name,omitempty"`
	NutrientName string `json:"nutrientName,omitempty"`
	Amount       Number `json:"amount,omitzero"`
	Value        Number `json:"value,omitzero"`
	UnitName     string `json:"unitName,omitempty"`

	// Nutrient is the nested definition, nil when the observation is flat.
	Nutrient *NutrientDefinition `json:"nutrient,omitempty"`
}

// UnmarshalJSON decodes the observation, dropping a nested "nutrient" value
// that is not a well-formed object instead of failing. Mistyped text fields
// read "" and never discard the measurement.
func (o *NutrientObservation) UnmarshalJSON(b []byte) error {
	type plain NutrientObservation
	var aux struct {
		plain
		Name         json.RawMessage `json:"name"`
		NutrientName json.RawMessage `json:"nutrientName"`
		UnitName     json.RawMessage `json:"unitName"`
		Nutrient     json.RawMessage `json:"nutrient"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*o = NutrientObservation(aux.plain)
	o.Name = looseString(aux.Name)
	o.NutrientName = looseString(aux.NutrientName)
	o.UnitName = looseString(aux.UnitName)
	o.Nutrient = nil

	raw := bytes.TrimSpace(aux.Nutrient)
	if len(raw) > 0 && raw[0] == '{' {
		var def NutrientDefinition
		if err := json.Unmarshal(raw, &def); err == nil {
			o.Nutrient = &def
		}
	}
	return nil
}

// Definition returns the nested definition, or nil.
func (o NutrientObservation) Definition() *NutrientDefinition {
	return o.Nutrient
}

// OwnNames returns the non-empty names carried directly on the observation.
func (o NutrientObservation) OwnNames() []string {
	var names []string
	if o.Name != "" {
		names = append(names, o.Name)
	}
	if o.NutrientName != "" {
		names = append(names, o.NutrientName)
	}
	return names
}

// FoodRecord is one entry from a food-composition lookup. It is treated as
// immutable once decoded.
type FoodRecord struct {
	FdcID       int                   `json:"fdcId" yaml:"fdc_id"`
	Description string                `json:"description" yaml:"description"`
	DataType    string                `json:"dataType,omitempty" yaml:"data_type,omitempty"`
	Nutrients   []NutrientObservation `json:"nutrients" yaml:"-"`
}

// UnmarshalJSON reads the nutrient list from either "foodNutrients" (FDC
// search and detail responses) or "nutrients" (pass-through shape). A
// missing or malformed list, or a malformed entry, degrades to fewer
// observations rather than an error.
func (f *FoodRecord) UnmarshalJSON(b []byte) error {
	var aux struct {
		FdcID         Number          `json:"fdcId"`
		Description   json.RawMessage `json:"description"`
		DataType      json.RawMessage `json:"dataType"`
		FoodNutrients json.RawMessage `json:"foodNutrients"`
		Nutrients     json.RawMessage `json:"nutrients"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	*f = FoodRecord{}
	if id, ok := aux.FdcID.Int(); ok {
		f.FdcID = id
	}
	f.Description = rawString(aux.Description)
	f.DataType = rawString(aux.DataType)

	list := aux.FoodNutrients
	if len(bytes.TrimSpace(list)) == 0 || bytes.Equal(bytes.TrimSpace(list), []byte("null")) {
		list = aux.Nutrients
	}
	f.Nutrients = decodeObservations(list)
	return nil
}

func rawString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// looseString returns a JSON string's value or a JSON number's text, and ""
// for anything else.
func looseString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	if raw[0] == '"' {
		return rawString(raw)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return ""
	}
	return n.String()
}

func decodeObservations(raw json.RawMessage) []NutrientObservation {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return []NutrientObservation{}
	}
	out := make([]NutrientObservation, 0, len(entries))
	for _, e := range entries {
		var obs NutrientObservation
		if err := json.Unmarshal(e, &obs); err != nil {
			continue
		}
		out = append(out, obs)
	}
	return out
}
