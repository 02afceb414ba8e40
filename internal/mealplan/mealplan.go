// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mealplan builds meal plan items from foods and manages them in a
// plan store.
package mealplan

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/macro-tracker/internal/logging"
	"github.com/pdiddy/macro-tracker/internal/macros"
	"github.com/pdiddy/macro-tracker/pkg/types"
)

var (
	// ErrInvalidAmount is returned for a missing, zero or negative quantity.
	ErrInvalidAmount = errors.New("amount must be greater than zero")

	// ErrInvalidMealType is returned for a meal slot outside types.MealTypes.
	ErrInvalidMealType = errors.New("invalid meal type")
)

// Store is the persistence the service needs. *store.Store satisfies it.
type Store interface {
	AddItem(ctx context.Context, item *types.MealPlanItem) error
	GetItem(ctx context.Context, id int64) (*types.MealPlanItem, error)
	UpdateItem(ctx context.Context, item *types.MealPlanItem) error
	UpdateItemMealType(ctx context.Context, id int64, mealType types.MealType) error
}

// FoodSource fetches a food record. *fdc.Client satisfies it.
type FoodSource interface {
	Get(ctx context.Context, fdcID int) (*types.FoodRecord, error)
}

// Service adds and edits plan items.
type Service struct {
	Store Store
	Foods FoodSource
}

// ValidateAmount rejects quantities that are not strictly positive and finite.
func ValidateAmount(amount float64) error {
	if !(amount > 0) || math.IsInf(amount, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidAmount, amount)
	}
	return nil
}

// ParseMealType normalizes s and checks it is a known slot.
func ParseMealType(s string) (types.MealType, error) {
	mt := types.MealType(strings.ToLower(strings.TrimSpace(s)))
	if !mt.Valid() {
		return "", fmt.Errorf("%w %q (want one of %v)", ErrInvalidMealType, s, types.MealTypes)
	}
	return mt, nil
}

// NewItem builds an unsaved plan item for amount units of food in the given
// slot, with macros scaled to amount.
func NewItem(food types.FoodRecord, amount float64, mealType types.MealType) (types.MealPlanItem, error) {
	if err := ValidateAmount(amount); err != nil {
		return types.MealPlanItem{}, err
	}
	if !mealType.Valid() {
		return types.MealPlanItem{}, fmt.Errorf("%w %q", ErrInvalidMealType, mealType)
	}

	item := types.MealPlanItem{
		MealType: mealType,
		FoodID:   food.FdcID,
		FoodName: food.Description,
		Amount:   amount,
	}
	m := macros.Compute(food, amount)
	item.SetMacros(m)

	if m.IsZero() {
		logging.Default().WithFields(logrus.Fields{
			"fdc_id": food.FdcID,
			"food":   food.Description,
			"amount": amount,
		}).Warn("adding food with no resolvable macros")
	}
	return item, nil
}

// AddFood fetches the food, computes its macros for amount and stores the
// item in the plan. Input is validated before the food is fetched.
func (s *Service) AddFood(ctx context.Context, planID int64, fdcID int, amount float64, mealType types.MealType) (*types.MealPlanItem, error) {
	if err := ValidateAmount(amount); err != nil {
		return nil, err
	}
	if !mealType.Valid() {
		return nil, fmt.Errorf("%w %q", ErrInvalidMealType, mealType)
	}
	if s.Foods == nil {
		return nil, fmt.Errorf("no food source configured")
	}

	food, err := s.Foods.Get(ctx, fdcID)
	if err != nil {
		return nil, fmt.Errorf("fetching food %d: %w", fdcID, err)
	}

	item, err := NewItem(*food, amount, mealType)
	if err != nil {
		return nil, err
	}
	item.MealPlanID = planID
	if err := s.Store.AddItem(ctx, &item); err != nil {
		return nil, err
	}

	logging.Default().WithFields(logrus.Fields{
		"plan_id":   planID,
		"item_id":   item.ID,
		"fdc_id":    fdcID,
		"meal_type": mealType,
		"amount":    amount,
		"calories":  item.Calories,
	}).Info("food added to meal plan")
	return &item, nil
}

// AddItem stores an item whose macros were computed by the caller.
func (s *Service) AddItem(ctx context.Context, planID int64, item types.MealPlanItem) (*types.MealPlanItem, error) {
	if err := ValidateAmount(item.Amount); err != nil {
		return nil, err
	}
	if !item.MealType.Valid() {
		return nil, fmt.Errorf("%w %q", ErrInvalidMealType, item.MealType)
	}
	item.ID = 0
	item.MealPlanID = planID
	if err := s.Store.AddItem(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// ItemUpdate holds the optional fields of an item edit.
type ItemUpdate struct {
	MealType *types.MealType `json:"meal_type,omitempty"`
	Amount   *float64        `json:"amount,omitempty"`
}

// UpdateItem applies u to an item. A new amount rescales the stored macros
// proportionally.
func (s *Service) UpdateItem(ctx context.Context, itemID int64, u ItemUpdate) (*types.MealPlanItem, error) {
	if u.MealType == nil && u.Amount == nil {
		return nil, fmt.Errorf("nothing to update")
	}
	if u.MealType != nil && !u.MealType.Valid() {
		return nil, fmt.Errorf("%w %q", ErrInvalidMealType, *u.MealType)
	}
	if u.Amount != nil {
		if err := ValidateAmount(*u.Amount); err != nil {
			return nil, err
		}
	}

	item, err := s.Store.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if u.MealType != nil {
		item.MealType = *u.MealType
	}
	if u.Amount != nil {
		item.SetMacros(Rescale(*item, *u.Amount))
		item.Amount = *u.Amount
	}
	if err := s.Store.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// MoveItem changes the meal slot of an item.
func (s *Service) MoveItem(ctx context.Context, itemID int64, mealType types.MealType) error {
	if !mealType.Valid() {
		return fmt.Errorf("%w %q", ErrInvalidMealType, mealType)
	}
	return s.Store.UpdateItemMealType(ctx, itemID, mealType)
}

// Rescale returns the item's macros for a new amount. Macros are linear in
// the amount, so no food lookup is needed. An item with no amount yields zero.
func Rescale(item types.MealPlanItem, amount float64) types.MacroTotals {
	if !(item.Amount > 0) {
		return types.MacroTotals{}
	}
	return item.Macros().Scale(amount / item.Amount)
}
