// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pdiddy/macro-tracker/pkg/types"
)

const itemColumns = `id, meal_plan_id, meal_type, food_id, food_name, amount,
	proteins, carbs, fats, calories, fiber, created_at`

// CreatePlan inserts p for an existing user and sets p.ID. Items on p are
// ignored; add them with AddItem.
func (s *Store) CreatePlan(ctx context.Context, p *types.MealPlan) error {
	if err := s.exists(ctx, "users", "user", p.UserID); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO meal_plans (user_id, name, description) VALUES (?, ?, ?)`,
		p.UserID, p.Name, p.Description,
	)
	if err != nil {
		return fmt.Errorf("inserting meal plan: %w", err)
	}
	if p.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("reading meal plan id: %w", err)
	}
	if p.Items == nil {
		p.Items = []types.MealPlanItem{}
	}
	return nil
}

// GetPlan returns the plan with its items.
func (s *Store) GetPlan(ctx context.Context, id int64) (*types.MealPlan, error) {
	var p types.MealPlan
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, description FROM meal_plans WHERE id = ?`, id,
	).Scan(&p.ID, &p.UserID, &p.Name, &p.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("meal plan", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying meal plan %d: %w", id, err)
	}

	if p.Items, err = s.ListItems(ctx, id); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPlans returns a user's plans, with items, ordered by id. An unknown
// user yields ErrNotFound.
func (s *Store) ListPlans(ctx context.Context, userID int64) ([]types.MealPlan, error) {
	if err := s.exists(ctx, "users", "user", userID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, name, description FROM meal_plans WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying meal plans: %w", err)
	}
	plans := []types.MealPlan{}
	for rows.Next() {
		var p types.MealPlan
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Description); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning meal plan: %w", err)
		}
		plans = append(plans, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range plans {
		if plans[i].Items, err = s.ListItems(ctx, plans[i].ID); err != nil {
			return nil, err
		}
	}
	return plans, nil
}

// AddItem stores item in its plan and sets item.ID and item.CreatedAt.
func (s *Store) AddItem(ctx context.Context, item *types.MealPlanItem) error {
	if err := s.exists(ctx, "meal_plans", "meal plan", item.MealPlanID); err != nil {
		return err
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO meal_plan_items (meal_plan_id, meal_type, food_id, food_name, amount,
			proteins, carbs, fats, calories, fiber, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.MealPlanID, string(item.MealType), item.FoodID, item.FoodName, item.Amount,
		item.Proteins, item.Carbs, item.Fats, item.Calories, item.Fiber,
		item.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting meal plan item: %w", err)
	}
	if item.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("reading meal plan item id: %w", err)
	}
	return nil
}

// GetItem returns one item.
func (s *Store) GetItem(ctx context.Context, id int64) (*types.MealPlanItem, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM meal_plan_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("meal plan item", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying meal plan item %d: %w", id, err)
	}
	return item, nil
}

// ListItems returns a plan's items in insertion order.
func (s *Store) ListItems(ctx context.Context, planID int64) ([]types.MealPlanItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM meal_plan_items WHERE meal_plan_id = ? ORDER BY id`, planID)
	if err != nil {
		return nil, fmt.Errorf("querying meal plan items: %w", err)
	}
	defer rows.Close()

	items := []types.MealPlanItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning meal plan item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// UpdateItem overwrites the meal type, food, amount and macros of an item.
// The plan and creation time are kept.
func (s *Store) UpdateItem(ctx context.Context, item *types.MealPlanItem) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE meal_plan_items SET meal_type = ?, food_id = ?, food_name = ?, amount = ?,
			proteins = ?, carbs = ?, fats = ?, calories = ?, fiber = ?
		 WHERE id = ?`,
		string(item.MealType), item.FoodID, item.FoodName, item.Amount,
		item.Proteins, item.Carbs, item.Fats, item.Calories, item.Fiber, item.ID,
	)
	if err != nil {
		return fmt.Errorf("updating meal plan item %d: %w", item.ID, err)
	}
	return checkAffected(res, "meal plan item", item.ID)
}

// UpdateItemMealType moves an item to another meal slot.
func (s *Store) UpdateItemMealType(ctx context.Context, id int64, mealType types.MealType) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE meal_plan_items SET meal_type = ? WHERE id = ?`, string(mealType), id)
	if err != nil {
		return fmt.Errorf("updating meal type of item %d: %w", id, err)
	}
	return checkAffected(res, "meal plan item", id)
}

// DeleteItem removes an item.
func (s *Store) DeleteItem(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM meal_plan_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting meal plan item %d: %w", id, err)
	}
	return checkAffected(res, "meal plan item", id)
}

// exists returns ErrNotFound unless table has a row with the given id.
func (s *Store) exists(ctx context.Context, table, kind string, id int64) error {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM `+table+` WHERE id = ?`, id).Scan(&n); err != nil {
		return fmt.Errorf("checking %s %d: %w", kind, id, err)
	}
	if n == 0 {
		return notFound(kind, id)
	}
	return nil
}

func scanItem(row scanner) (*types.MealPlanItem, error) {
	var item types.MealPlanItem
	var mealType, createdAt string
	err := row.Scan(&item.ID, &item.MealPlanID, &mealType, &item.FoodID, &item.FoodName, &item.Amount,
		&item.Proteins, &item.Carbs, &item.Fats, &item.Calories, &item.Fiber, &createdAt)
	if err != nil {
		return nil, err
	}
	item.MealType = types.MealType(mealType)
	if createdAt != "" {
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			item.CreatedAt = t
		}
	}
	return &item, nil
}
