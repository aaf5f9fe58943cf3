package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgrec/appointment_scheduler/internal/model"
	"github.com/orgrec/appointment_scheduler/internal/repository/base"
)

// EnrollmentRepository manages event participant records.
type EnrollmentRepository struct {
	*base.Repository
}

func NewEnrollmentRepository(pool *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{Repository: base.NewRepository(pool)}
}

// EventExists reports whether the event row is present.
func (r *EnrollmentRepository) EventExists(ctx context.Context, eventID int64) (bool, error) {
	var exists bool
	err := r.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM events WHERE id = $1)`, eventID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check event exists: %w", err)
	}
	return exists, nil
}

// FindEnrolled returns all enrollments of an event.
func (r *EnrollmentRepository) FindEnrolled(ctx context.Context, eventID int64) ([]*model.Enrollment, error) {
	query := `
		SELECT id, event_id, person_id, role, status, created_at
		FROM event_enrollments
		WHERE event_id = $1
		ORDER BY id
	`

	rows, err := r.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("find enrolled: %w", err)
	}
	defer rows.Close()

	var enrollments []*model.Enrollment
	for rows.Next() {
		e := &model.Enrollment{}
		err := rows.Scan(&e.ID, &e.EventID, &e.PersonID, &e.Role, &e.Status, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan enrollment: %w", err)
		}
		enrollments = append(enrollments, e)
	}

	return enrollments, rows.Err()
}

// Create inserts an enrollment. A duplicate (event, person) pair is
// reported as model.ErrConflict via the unique constraint.
func (r *EnrollmentRepository) Create(ctx context.Context, e *model.Enrollment) error {
	query := `
		INSERT INTO event_enrollments (event_id, person_id, role, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.QueryRow(ctx, query, e.EventID, e.PersonID, e.Role, e.Status).
		Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		if base.IsUniqueViolation(err) {
			return fmt.Errorf("enroll person %d: %w", e.PersonID, model.ErrConflict)
		}
		return fmt.Errorf("create enrollment: %w", err)
	}

	return nil
}
