// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package health derives body metrics from a user's profile.
package health

import (
	"strings"

	"github.com/pdiddy/macro-tracker/pkg/types"
)

// Class is a BMI category.
type Class string

const (
	Underweight Class = "underweight"
	Normal      Class = "normal"
	Overweight  Class = "overweight"
	Obese       Class = "obese"
)

// Report is the health summary returned for a user.
type Report struct {
	UserID  int64   `json:"user_id" yaml:"user_id"`
	Weight  float64 `json:"weight" yaml:"weight"`
	Height  float64 `json:"height" yaml:"height"`
	BMI     float64 `json:"bmi" yaml:"bmi"`
	Class   Class   `json:"class" yaml:"class"`
	BodyFat float64 `json:"body_fat" yaml:"body_fat"`
}

// BMI returns weight (kg) over height (m) squared, with height given in
// centimetres. It is 0 when height is not positive.
func BMI(weightKg, heightCm float64) float64 {
	if heightCm <= 0 {
		return 0
	}
	m := heightCm / 100
	return weightKg / (m * m)
}

// Classify maps a BMI to its category using the 18.5, 25 and 30 cut-offs.
func Classify(bmi float64) Class {
	switch {
	case bmi < 18.5:
		return Underweight
	case bmi < 25:
		return Normal
	case bmi < 30:
		return Overweight
	default:
		return Obese
	}
}

// BodyFat estimates body fat percentage from BMI and age.
func BodyFat(u types.User) float64 {
	bmi := BMI(u.Weight, u.Height)
	ageFactor := float64(u.Age) * 0.12
	if IsMale(u.Gender) {
		return 1.20*bmi + 0.23*ageFactor - 16.2
	}
	return 1.20*bmi + 0.23*ageFactor - 5.4
}

// IsMale reports whether the free-text gender selects the male formula.
func IsMale(gender string) bool {
	switch strings.ToLower(strings.TrimSpace(gender)) {
	case "male", "m", "man", "homme":
		return true
	}
	return false
}

// For builds the report for u.
func For(u types.User) Report {
	bmi := BMI(u.Weight, u.Height)
	return Report{
		UserID:  u.ID,
		Weight:  u.Weight,
		Height:  u.Height,
		BMI:     bmi,
		Class:   Classify(bmi),
		BodyFat: BodyFat(u),
	}
}
