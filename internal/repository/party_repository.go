package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgrec/appointment_scheduler/internal/repository/base"
)

// PartyRepository answers person/account existence lookups against the
// core application's tables. The scheduler never mutates those records.
type PartyRepository struct {
	*base.Repository
}

func NewPartyRepository(pool *pgxpool.Pool) *PartyRepository {
	return &PartyRepository{Repository: base.NewRepository(pool)}
}

func (r *PartyRepository) PersonExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM people WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check person exists: %w", err)
	}
	return exists, nil
}

func (r *PartyRepository) AccountExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM accounts WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check account exists: %w", err)
	}
	return exists, nil
}
