package logic

import (
	"context"
	"errors"
	"fmt"
)

// pgProfileChecker answers the profile-existence check from the profiles
// table. An on-chain lookup can replace it behind the same interface.
type pgProfileChecker struct {
	pg PgPool
}

// NewPgProfileChecker creates a Postgres-backed profile checker
func NewPgProfileChecker(pg PgPool) (ProfileChecker, error) {
	if pg == nil {
		return nil, errors.New("postgres pool cannot be nil")
	}
	return &pgProfileChecker{pg: pg}, nil
}

func (c *pgProfileChecker) HasProfile(ctx context.Context, address string) (bool, error) {
	var exists bool
	err := c.pg.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM profiles WHERE address = $1)",
		address).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to query profile: %w", err)
	}
	return exists, nil
}

// ProfileCheckerFunc adapts a function to the ProfileChecker interface.
type ProfileCheckerFunc func(ctx context.Context, address string) (bool, error)

func (f ProfileCheckerFunc) HasProfile(ctx context.Context, address string) (bool, error) {
	return f(ctx, address)
}
