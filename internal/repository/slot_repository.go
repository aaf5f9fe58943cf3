package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgrec/appointment_scheduler/internal/model"
	"github.com/orgrec/appointment_scheduler/internal/repository/base"
)

const slotColumns = `id, template_id, batch_id, date, start_time, end_time, status, person_id, account_id, notes, cancellation_reason, created_by, created_at`

// SlotRepository manages appointment slots.
type SlotRepository struct {
	*base.Repository
}

func NewSlotRepository(pool *pgxpool.Pool) *SlotRepository {
	return &SlotRepository{Repository: base.NewRepository(pool)}
}

// Create inserts a new slot. A unique-constraint hit on the slot's
// template and start time is reported as model.ErrConflict.
func (r *SlotRepository) Create(ctx context.Context, slot *model.Slot) error {
	query := `
		INSERT INTO appointment_slots
			(template_id, batch_id, date, start_time, end_time, status, person_id, account_id, notes, cancellation_reason, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		slot.TemplateID,
		slot.BatchID,
		slot.Date,
		slot.StartTime,
		slot.EndTime,
		slot.Status,
		slot.PersonID,
		slot.AccountID,
		slot.Notes,
		slot.CancellationReason,
		slot.CreatedBy,
	).Scan(&slot.ID, &slot.CreatedAt)

	if err != nil {
		if base.IsUniqueViolation(err) {
			return fmt.Errorf("create slot at %s: %w", slot.StartTime, model.ErrConflict)
		}
		return fmt.Errorf("create slot: %w", err)
	}

	return nil
}

// GetByID fetches a slot, returning nil when it does not exist.
func (r *SlotRepository) GetByID(ctx context.Context, id int64) (*model.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM appointment_slots WHERE id = $1`

	slot, err := scanSlot(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get slot by id: %w", err)
	}

	return slot, nil
}

// FindConflicting returns a slot of the same template whose time window
// overlaps [start, end) on the given date, or nil if none exists. A nil
// templateID matches one-off slots (template_id IS NULL).
func (r *SlotRepository) FindConflicting(ctx context.Context, templateID *int64, date, start, end time.Time) (*model.Slot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM appointment_slots
		WHERE template_id IS NOT DISTINCT FROM $1
		  AND date = $2
		  AND start_time < $4
		  AND end_time > $3
		ORDER BY start_time
		LIMIT 1
	`

	slot, err := scanSlot(r.QueryRow(ctx, query, templateID, date, start, end))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find conflicting slot: %w", err)
	}

	return slot, nil
}

// UpdateState applies a transition's field set if and only if the slot is
// still in the expected status (compare-and-set). Returns the updated slot,
// or nil when the guard did not match — the caller decides between a lost
// race and a missing slot.
func (r *SlotRepository) UpdateState(ctx context.Context, id int64, expected model.SlotStatus, upd model.SlotUpdate) (*model.Slot, error) {
	query := `
		UPDATE appointment_slots
		SET status = $3,
		    person_id = $4,
		    account_id = $5,
		    cancellation_reason = $6,
		    notes = COALESCE($7, notes)
		WHERE id = $1 AND status = $2
		RETURNING ` + slotColumns

	slot, err := scanSlot(r.QueryRow(
		ctx, query,
		id,
		expected,
		upd.Status,
		upd.PersonID,
		upd.AccountID,
		upd.CancellationReason,
		upd.Notes,
	))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("update slot state: %w", err)
	}

	return slot, nil
}

// UpdateWindow rewrites the time window and notes of a slot. Status and
// assignees are only ever changed through UpdateState.
func (r *SlotRepository) UpdateWindow(ctx context.Context, slot *model.Slot) error {
	affected, err := r.ExecAffected(ctx, `
		UPDATE appointment_slots
		SET date = $2, start_time = $3, end_time = $4, notes = $5
		WHERE id = $1
	`, slot.ID, slot.Date, slot.StartTime, slot.EndTime, slot.Notes)
	if err != nil {
		return fmt.Errorf("update slot window: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update slot window: %w", model.ErrNotFound)
	}
	return nil
}

// ListByTemplate returns a template's slots starting inside [from, to).
func (r *SlotRepository) ListByTemplate(ctx context.Context, templateID int64, from, to time.Time) ([]*model.Slot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM appointment_slots
		WHERE template_id = $1
		  AND start_time >= $2
		  AND start_time < $3
		ORDER BY start_time
	`

	rows, err := r.Query(ctx, query, templateID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list slots by template: %w", err)
	}
	defer rows.Close()

	var slots []*model.Slot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, slot)
	}

	return slots, rows.Err()
}

// Delete removes one slot, reporting whether a row existed.
func (r *SlotRepository) Delete(ctx context.Context, id int64) (bool, error) {
	affected, err := r.ExecAffected(ctx, `DELETE FROM appointment_slots WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete slot: %w", err)
	}
	return affected > 0, nil
}

// DeleteMany removes the listed slots and returns how many existed.
func (r *SlotRepository) DeleteMany(ctx context.Context, ids []int64) (int64, error) {
	affected, err := r.ExecAffected(ctx, `DELETE FROM appointment_slots WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("bulk delete slots: %w", err)
	}
	return affected, nil
}

func scanSlot(row rowScanner) (*model.Slot, error) {
	slot := &model.Slot{}
	err := row.Scan(
		&slot.ID,
		&slot.TemplateID,
		&slot.BatchID,
		&slot.Date,
		&slot.StartTime,
		&slot.EndTime,
		&slot.Status,
		&slot.PersonID,
		&slot.AccountID,
		&slot.Notes,
		&slot.CancellationReason,
		&slot.CreatedBy,
		&slot.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return slot, nil
}
