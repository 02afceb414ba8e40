// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pdiddy/macro-tracker/pkg/types"
)

const userColumns = `id, name, age, weight, height, gender, target_macros`

// CreateUser inserts u. A positive u.ID is kept as the user's identity;
// otherwise the database assigns one and u.ID is updated.
func (s *Store) CreateUser(ctx context.Context, u *types.User) error {
	targets, err := json.Marshal(u.TargetMacros)
	if err != nil {
		return fmt.Errorf("marshaling target macros: %w", err)
	}

	var id any
	if u.ID > 0 {
		err := s.exists(ctx, "users", "user", u.ID)
		if err == nil {
			return fmt.Errorf("user %d: %w", u.ID, ErrExists)
		}
		if !errors.Is(err, ErrNotFound) {
			return err
		}
		id = u.ID
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, u.Name, u.Age, u.Weight, u.Height, u.Gender, string(targets),
	)
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	if u.ID <= 0 {
		if u.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("reading user id: %w", err)
		}
	}
	return nil
}

// GetUser returns the user with the given id.
func (s *Store) GetUser(ctx context.Context, id int64) (*types.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("user", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying user %d: %w", id, err)
	}
	return u, nil
}

// ListUsers returns every user ordered by id.
func (s *Store) ListUsers(ctx context.Context) ([]types.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	defer rows.Close()

	users := []types.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// UpdateUser overwrites every field of the stored user with u.
func (s *Store) UpdateUser(ctx context.Context, u *types.User) error {
	targets, err := json.Marshal(u.TargetMacros)
	if err != nil {
		return fmt.Errorf("marshaling target macros: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET name = ?, age = ?, weight = ?, height = ?, gender = ?, target_macros = ?
		 WHERE id = ?`,
		u.Name, u.Age, u.Weight, u.Height, u.Gender, string(targets), u.ID,
	)
	if err != nil {
		return fmt.Errorf("updating user %d: %w", u.ID, err)
	}
	return checkAffected(res, "user", u.ID)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*types.User, error) {
	var u types.User
	var targets string
	if err := row.Scan(&u.ID, &u.Name, &u.Age, &u.Weight, &u.Height, &u.Gender, &targets); err != nil {
		return nil, err
	}
	if targets != "" {
		if err := json.Unmarshal([]byte(targets), &u.TargetMacros); err != nil {
			return nil, fmt.Errorf("parsing target macros of user %d: %w", u.ID, err)
		}
	}
	return &u, nil
}
