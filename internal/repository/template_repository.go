package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgrec/appointment_scheduler/internal/model"
	"github.com/orgrec/appointment_scheduler/internal/repository/base"
)

// TemplateRepository manages availability templates.
type TemplateRepository struct {
	*base.Repository
}

func NewTemplateRepository(pool *pgxpool.Pool) *TemplateRepository {
	return &TemplateRepository{Repository: base.NewRepository(pool)}
}

// Create inserts a new template.
func (r *TemplateRepository) Create(ctx context.Context, tpl *model.AvailabilityTemplate) error {
	query := `
		INSERT INTO availability_templates
			(name, description, weekdays, day_start, day_end, slot_duration_minutes, max_occupants, location, active, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		tpl.Name,
		tpl.Description,
		weekdaysToPg(tpl.Weekdays),
		tpl.DayStart,
		tpl.DayEnd,
		tpl.SlotDurationMinutes,
		tpl.MaxOccupants,
		tpl.Location,
		tpl.Active,
		tpl.CreatedBy,
	).Scan(&tpl.ID, &tpl.CreatedAt, &tpl.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create template: %w", err)
	}

	return nil
}

// Update overwrites the mutable fields of a template.
func (r *TemplateRepository) Update(ctx context.Context, tpl *model.AvailabilityTemplate) error {
	query := `
		UPDATE availability_templates
		SET name = $2, description = $3, weekdays = $4, day_start = $5, day_end = $6,
		    slot_duration_minutes = $7, max_occupants = $8, location = $9, active = $10,
		    updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.QueryRow(
		ctx, query,
		tpl.ID,
		tpl.Name,
		tpl.Description,
		weekdaysToPg(tpl.Weekdays),
		tpl.DayStart,
		tpl.DayEnd,
		tpl.SlotDurationMinutes,
		tpl.MaxOccupants,
		tpl.Location,
		tpl.Active,
	).Scan(&tpl.UpdatedAt)

	if err != nil {
		return fmt.Errorf("update template: %w", err)
	}

	return nil
}

// GetByID fetches a template, returning nil when it does not exist.
func (r *TemplateRepository) GetByID(ctx context.Context, id int64) (*model.AvailabilityTemplate, error) {
	query := `
		SELECT id, name, description, weekdays, day_start, day_end, slot_duration_minutes, max_occupants, location, active, created_by, created_at, updated_at
		FROM availability_templates
		WHERE id = $1
	`

	tpl, err := scanTemplate(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get template by id: %w", err)
	}

	return tpl, nil
}

// ListActive returns all active templates ordered by id.
func (r *TemplateRepository) ListActive(ctx context.Context) ([]*model.AvailabilityTemplate, error) {
	query := `
		SELECT id, name, description, weekdays, day_start, day_end, slot_duration_minutes, max_occupants, location, active, created_by, created_at, updated_at
		FROM availability_templates
		WHERE active = true
		ORDER BY id
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active templates: %w", err)
	}
	defer rows.Close()

	var templates []*model.AvailabilityTemplate
	for rows.Next() {
		tpl, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, tpl)
	}

	return templates, rows.Err()
}

// Deactivate flips the active flag off. Generated slots are untouched.
func (r *TemplateRepository) Deactivate(ctx context.Context, id int64) (bool, error) {
	affected, err := r.ExecAffected(ctx,
		`UPDATE availability_templates SET active = false, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("deactivate template: %w", err)
	}
	return affected > 0, nil
}

// Delete removes the template row. Slots keep existing with template_id
// set to NULL by the schema's ON DELETE SET NULL.
func (r *TemplateRepository) Delete(ctx context.Context, id int64) (bool, error) {
	affected, err := r.ExecAffected(ctx,
		`DELETE FROM availability_templates WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete template: %w", err)
	}
	return affected > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (*model.AvailabilityTemplate, error) {
	tpl := &model.AvailabilityTemplate{}
	var weekdays []int32
	err := row.Scan(
		&tpl.ID,
		&tpl.Name,
		&tpl.Description,
		&weekdays,
		&tpl.DayStart,
		&tpl.DayEnd,
		&tpl.SlotDurationMinutes,
		&tpl.MaxOccupants,
		&tpl.Location,
		&tpl.Active,
		&tpl.CreatedBy,
		&tpl.CreatedAt,
		&tpl.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	tpl.Weekdays = weekdaysFromPg(weekdays)
	return tpl, nil
}

func weekdaysToPg(days []int) []int32 {
	out := make([]int32, len(days))
	for i, d := range days {
		out[i] = int32(d)
	}
	return out
}

func weekdaysFromPg(days []int32) []int {
	out := make([]int, len(days))
	for i, d := range days {
		out[i] = int(d)
	}
	return out
}
