// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package health

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/macro-tracker/pkg/types"
)

func TestBMI(t *testing.T) {
	tests := []struct {
		name   string
		weight float64
		height float64
		want   float64
	}{
		{"typical", 70, 175, 70 / (1.75 * 1.75)},
		{"round", 81, 180, 25},
		{"zero height", 70, 0, 0},
		{"negative height", 70, -10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, BMI(tt.weight, tt.height), 1e-9)
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		bmi  float64
		want Class
	}{
		{0, Underweight},
		{18.4, Underweight},
		{18.5, Normal},
		{24.99, Normal},
		{25, Overweight},
		{29.9, Overweight},
		{30, Obese},
		{45, Obese},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.bmi), "bmi %v", tt.bmi)
	}
}

func TestBodyFat(t *testing.T) {
	male := types.User{Age: 30, Weight: 81, Height: 180, Gender: "Male"}
	female := male
	female.Gender = "female"

	// BMI 25, age factor 3.6.
	assert.InDelta(t, 1.20*25+0.23*3.6-16.2, BodyFat(male), 1e-9)
	assert.InDelta(t, 1.20*25+0.23*3.6-5.4, BodyFat(female), 1e-9)
	assert.InDelta(t, 10.8, BodyFat(female)-BodyFat(male), 1e-9)
}

func TestIsMale(t *testing.T) {
	for _, g := range []string{"male", " M ", "homme", "Man"} {
		assert.True(t, IsMale(g), g)
	}
	for _, g := range []string{"", "female", "femme", "other"} {
		assert.False(t, IsMale(g), g)
	}
}

func TestFor(t *testing.T) {
	r := For(types.User{ID: 4, Age: 40, Weight: 100, Height: 170, Gender: "male"})
	assert.Equal(t, int64(4), r.UserID)
	assert.Equal(t, Obese, r.Class)
	assert.InDelta(t, 34.6, r.BMI, 0.01)
	assert.Equal(t, BodyFat(types.User{Age: 40, Weight: 100, Height: 170, Gender: "male"}), r.BodyFat)
}
