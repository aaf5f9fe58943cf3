package service

import (
	"context"
	"time"

	"github.com/orgrec/appointment_scheduler/internal/model"
)

// The services talk to storage through these ports so scheduling logic can
// be exercised without a database. The pgx repositories satisfy them.

// TemplateStore persists availability templates.
type TemplateStore interface {
	Create(ctx context.Context, tpl *model.AvailabilityTemplate) error
	Update(ctx context.Context, tpl *model.AvailabilityTemplate) error
	GetByID(ctx context.Context, id int64) (*model.AvailabilityTemplate, error)
	ListActive(ctx context.Context) ([]*model.AvailabilityTemplate, error)
	Deactivate(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// SlotStore persists slots. UpdateState is an atomic compare-and-set keyed
// on (id, expected status); it returns nil when the guard does not match.
type SlotStore interface {
	Create(ctx context.Context, slot *model.Slot) error
	GetByID(ctx context.Context, id int64) (*model.Slot, error)
	FindConflicting(ctx context.Context, templateID *int64, date, start, end time.Time) (*model.Slot, error)
	UpdateState(ctx context.Context, id int64, expected model.SlotStatus, upd model.SlotUpdate) (*model.Slot, error)
	UpdateWindow(ctx context.Context, slot *model.Slot) error
	ListByTemplate(ctx context.Context, templateID int64, from, to time.Time) ([]*model.Slot, error)
	Delete(ctx context.Context, id int64) (bool, error)
	DeleteMany(ctx context.Context, ids []int64) (int64, error)
}

// EnrollmentStore persists event participants.
type EnrollmentStore interface {
	EventExists(ctx context.Context, eventID int64) (bool, error)
	FindEnrolled(ctx context.Context, eventID int64) ([]*model.Enrollment, error)
	Create(ctx context.Context, e *model.Enrollment) error
}

// PartyDirectory answers existence lookups for people and accounts.
type PartyDirectory interface {
	PersonExists(ctx context.Context, id int64) (bool, error)
	AccountExists(ctx context.Context, id int64) (bool, error)
}
