package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/orgrec/appointment_scheduler/internal/batch"
	"github.com/orgrec/appointment_scheduler/internal/model"
	"github.com/orgrec/appointment_scheduler/internal/schedule"
	"go.uber.org/zap"
)

// SkipReasonOverlap marks a generated window rejected because a persisted
// slot of the same template already covers it.
const SkipReasonOverlap = "overlaps existing slot"

// SchedulerService orchestrates template management, slot generation and
// the reservation lifecycle against the persistence ports.
type SchedulerService struct {
	templates    TemplateStore
	slots        SlotStore
	parties      PartyDirectory
	maxRangeDays int
	logger       *zap.Logger
}

func NewSchedulerService(
	templates TemplateStore,
	slots SlotStore,
	parties PartyDirectory,
	maxRangeDays int,
	logger *zap.Logger,
) *SchedulerService {
	return &SchedulerService{
		templates:    templates,
		slots:        slots,
		parties:      parties,
		maxRangeDays: maxRangeDays,
		logger:       logger,
	}
}

// CreateTemplate validates and persists a new availability template.
func (s *SchedulerService) CreateTemplate(ctx context.Context, tpl *model.AvailabilityTemplate) (*model.AvailabilityTemplate, error) {
	tpl.Active = true
	if err := schedule.ValidateTemplate(tpl); err != nil {
		return nil, err
	}

	if err := s.templates.Create(ctx, tpl); err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}

	s.logger.Info("Template created",
		zap.Int64("template_id", tpl.ID),
		zap.String("name", tpl.Name),
		zap.Ints("weekdays", tpl.Weekdays),
		zap.Int("duration_minutes", tpl.SlotDurationMinutes),
	)

	return tpl, nil
}

// UpdateTemplate validates and persists changed template fields. Identity,
// creator and creation time are kept from the stored row.
func (s *SchedulerService) UpdateTemplate(ctx context.Context, tpl *model.AvailabilityTemplate) (*model.AvailabilityTemplate, error) {
	existing, err := s.templates.GetByID(ctx, tpl.ID)
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}
	if existing == nil {
		return nil, fmt.Errorf("template %d: %w", tpl.ID, model.ErrNotFound)
	}

	tpl.CreatedBy = existing.CreatedBy
	tpl.CreatedAt = existing.CreatedAt
	if err := schedule.ValidateTemplate(tpl); err != nil {
		return nil, err
	}

	if err := s.templates.Update(ctx, tpl); err != nil {
		return nil, fmt.Errorf("update template: %w", err)
	}

	s.logger.Info("Template updated", zap.Int64("template_id", tpl.ID))

	return tpl, nil
}

// GetTemplate fetches a template by id.
func (s *SchedulerService) GetTemplate(ctx context.Context, id int64) (*model.AvailabilityTemplate, error) {
	tpl, err := s.templates.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}
	if tpl == nil {
		return nil, fmt.Errorf("template %d: %w", id, model.ErrNotFound)
	}
	return tpl, nil
}

// DeactivateTemplate flips the template's active flag off. Already
// generated slots stay untouched.
func (s *SchedulerService) DeactivateTemplate(ctx context.Context, id int64) error {
	ok, err := s.templates.Deactivate(ctx, id)
	if err != nil {
		return fmt.Errorf("deactivate template: %w", err)
	}
	if !ok {
		return fmt.Errorf("template %d: %w", id, model.ErrNotFound)
	}

	s.logger.Info("Template deactivated", zap.Int64("template_id", id))
	return nil
}

// DeleteTemplate removes the template. Its slots remain as historical
// records with a cleared template reference.
func (s *SchedulerService) DeleteTemplate(ctx context.Context, id int64) error {
	ok, err := s.templates.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	if !ok {
		return fmt.Errorf("template %d: %w", id, model.ErrNotFound)
	}

	s.logger.Info("Template deleted", zap.Int64("template_id", id))
	return nil
}

// GenerateSlots expands a template over an inclusive date range and
// persists each window independently. Windows that overlap an existing
// slot of the template are skipped, not fatal. A range that expands to
// nothing fails with ErrEmptySlotGeneration.
func (s *SchedulerService) GenerateSlots(ctx context.Context, templateID int64, rangeStart, rangeEnd time.Time, createdBy int64) (*batch.Result[schedule.SlotWindow, *model.Slot], error) {
	tpl, err := s.templates.GetByID(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}
	if tpl == nil {
		return nil, fmt.Errorf("template %d: %w", templateID, model.ErrNotFound)
	}
	if !tpl.Active {
		return nil, model.NewValidationError("active", "template is deactivated")
	}

	if s.maxRangeDays > 0 {
		days := int(rangeEnd.Sub(rangeStart).Hours()/24) + 1
		if days > s.maxRangeDays {
			return nil, model.NewValidationError("range",
				fmt.Sprintf("range must not exceed %d days", s.maxRangeDays))
		}
	}

	windows, err := schedule.ExpandTemplate(tpl, rangeStart, rangeEnd)
	if err != nil {
		return nil, err
	}

	batchID := uuid.New()
	result, err := batch.Process(ctx, windows, func(ctx context.Context, w schedule.SlotWindow) (*model.Slot, error) {
		existing, err := s.slots.FindConflicting(ctx, &templateID, w.Date, w.Start, w.End)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, batch.Skip(SkipReasonOverlap)
		}

		slot := &model.Slot{
			TemplateID: &templateID,
			BatchID:    &batchID,
			Date:       w.Date,
			StartTime:  w.Start,
			EndTime:    w.End,
			Status:     model.SlotStatusOpen,
			CreatedBy:  createdBy,
		}
		if err := s.slots.Create(ctx, slot); err != nil {
			if errors.Is(err, model.ErrConflict) {
				// Lost an insert race against a concurrent generation.
				return nil, batch.Skip(SkipReasonOverlap)
			}
			return nil, err
		}
		return slot, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Slots generated",
		zap.Int64("template_id", templateID),
		zap.String("batch_id", batchID.String()),
		zap.Int("accepted", result.AcceptedCount),
		zap.Int("skipped", result.SkippedCount),
	)

	return result, nil
}

// CreateSlot creates a standalone slot. Overlap with another slot of the
// same template (or another one-off) is a direct Conflict here, not a skip.
func (s *SchedulerService) CreateSlot(ctx context.Context, slot *model.Slot) (*model.Slot, error) {
	if !slot.EndTime.After(slot.StartTime) {
		return nil, model.NewValidationError("end_time", "must be after start time")
	}

	slot.Date = time.Date(slot.StartTime.Year(), slot.StartTime.Month(), slot.StartTime.Day(),
		0, 0, 0, 0, slot.StartTime.Location())
	slot.Status = model.SlotStatusOpen
	slot.PersonID = nil
	slot.AccountID = nil
	slot.CancellationReason = nil

	existing, err := s.slots.FindConflicting(ctx, slot.TemplateID, slot.Date, slot.StartTime, slot.EndTime)
	if err != nil {
		return nil, fmt.Errorf("check slot conflict: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("slot overlaps slot %d: %w", existing.ID, model.ErrConflict)
	}

	if err := s.slots.Create(ctx, slot); err != nil {
		return nil, err
	}

	s.logger.Info("Slot created",
		zap.Int64("slot_id", slot.ID),
		zap.Time("start_time", slot.StartTime),
	)

	return slot, nil
}

// GetSlot fetches a slot by id.
func (s *SchedulerService) GetSlot(ctx context.Context, id int64) (*model.Slot, error) {
	slot, err := s.slots.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get slot: %w", err)
	}
	if slot == nil {
		return nil, fmt.Errorf("slot %d: %w", id, model.ErrNotFound)
	}
	return slot, nil
}

// ListSlots returns a template's slots starting inside [from, to).
func (s *SchedulerService) ListSlots(ctx context.Context, templateID int64, from, to time.Time) ([]*model.Slot, error) {
	return s.slots.ListByTemplate(ctx, templateID, from, to)
}

// UpdateSlot rewrites the time window and notes of an open slot. Reserved
// and closed slots only change through their state transitions.
func (s *SchedulerService) UpdateSlot(ctx context.Context, slot *model.Slot) (*model.Slot, error) {
	existing, err := s.GetSlot(ctx, slot.ID)
	if err != nil {
		return nil, err
	}
	if existing.Status != model.SlotStatusOpen {
		return nil, model.NewValidationError("status", "only open slots can be edited")
	}
	if !slot.EndTime.After(slot.StartTime) {
		return nil, model.NewValidationError("end_time", "must be after start time")
	}

	slot.Date = time.Date(slot.StartTime.Year(), slot.StartTime.Month(), slot.StartTime.Day(),
		0, 0, 0, 0, slot.StartTime.Location())
	if err := s.slots.UpdateWindow(ctx, slot); err != nil {
		return nil, err
	}

	s.logger.Info("Slot updated", zap.Int64("slot_id", slot.ID))
	return s.GetSlot(ctx, slot.ID)
}

// DeleteSlot removes one slot.
func (s *SchedulerService) DeleteSlot(ctx context.Context, id int64) error {
	ok, err := s.slots.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("slot %d: %w", id, model.ErrNotFound)
	}

	s.logger.Info("Slot deleted", zap.Int64("slot_id", id))
	return nil
}

// BulkDeleteSlots removes the listed slots and returns how many existed.
// An empty id list is malformed input, not an empty success.
func (s *SchedulerService) BulkDeleteSlots(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, model.ErrMalformedBatchInput
	}

	deleted, err := s.slots.DeleteMany(ctx, ids)
	if err != nil {
		return 0, err
	}

	s.logger.Info("Slots bulk deleted",
		zap.Int("requested", len(ids)),
		zap.Int64("deleted", deleted),
	)

	return deleted, nil
}

// ReserveSlot transitions an open slot to reserved for exactly one
// assignee. Of two concurrent calls, one wins and the other gets
// ErrConflict from the store's compare-and-set guard.
func (s *SchedulerService) ReserveSlot(ctx context.Context, slotID int64, personID, accountID *int64, notes string) (*model.Slot, error) {
	slot, err := s.GetSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}

	if err := s.checkAssigneeExists(ctx, personID, accountID); err != nil {
		return nil, err
	}

	req := schedule.TransitionRequest{
		Target:    model.SlotStatusReserved,
		PersonID:  personID,
		AccountID: accountID,
	}
	if notes != "" {
		req.Notes = &notes
	}

	updated, err := s.applyTransition(ctx, slot, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Slot reserved",
		zap.Int64("slot_id", slotID),
		zap.Int64p("person_id", personID),
		zap.Int64p("account_id", accountID),
	)

	return updated, nil
}

// ReleaseSlot transitions a reserved slot back to open, clearing both
// assignee fields.
func (s *SchedulerService) ReleaseSlot(ctx context.Context, slotID int64) (*model.Slot, error) {
	slot, err := s.GetSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}

	updated, err := s.applyTransition(ctx, slot, schedule.TransitionRequest{Target: model.SlotStatusOpen})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Slot released", zap.Int64("slot_id", slotID))
	return updated, nil
}

// CloseSlot transitions an open slot to closed with an optional reason.
func (s *SchedulerService) CloseSlot(ctx context.Context, slotID int64, reason string) (*model.Slot, error) {
	slot, err := s.GetSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}

	updated, err := s.applyTransition(ctx, slot, schedule.TransitionRequest{
		Target:             model.SlotStatusClosed,
		CancellationReason: reason,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Slot closed",
		zap.Int64("slot_id", slotID),
		zap.String("reason", reason),
	)

	return updated, nil
}

// ReopenSlot transitions a closed slot back to open, clearing the
// cancellation reason.
func (s *SchedulerService) ReopenSlot(ctx context.Context, slotID int64) (*model.Slot, error) {
	slot, err := s.GetSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}

	updated, err := s.applyTransition(ctx, slot, schedule.TransitionRequest{Target: model.SlotStatusOpen})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Slot reopened", zap.Int64("slot_id", slotID))
	return updated, nil
}

// GenerateForAllActive regenerates a rolling horizon for every active
// template. Ranges whose slots already all exist report empty generation;
// that is routine here and not an error.
func (s *SchedulerService) GenerateForAllActive(ctx context.Context, weeksAhead int, createdBy int64) (accepted, skipped int, err error) {
	templates, err := s.templates.ListActive(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("list active templates: %w", err)
	}

	now := time.Now()
	rangeStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	rangeEnd := rangeStart.AddDate(0, 0, weeksAhead*7-1)

	for _, tpl := range templates {
		result, err := s.GenerateSlots(ctx, tpl.ID, rangeStart, rangeEnd, createdBy)
		if err != nil {
			if errors.Is(err, model.ErrEmptySlotGeneration) {
				continue
			}
			s.logger.Error("Horizon generation failed for template",
				zap.Int64("template_id", tpl.ID),
				zap.Error(err),
			)
			continue
		}
		accepted += result.AcceptedCount
		skipped += result.SkippedCount
	}

	s.logger.Info("Horizon generation completed",
		zap.Int("templates", len(templates)),
		zap.Int("accepted", accepted),
		zap.Int("skipped", skipped),
	)

	return accepted, skipped, nil
}

// applyTransition plans the state change and applies it under the store's
// compare-and-set. A missed guard on a slot that was just fetched means a
// concurrent writer got there first.
func (s *SchedulerService) applyTransition(ctx context.Context, slot *model.Slot, req schedule.TransitionRequest) (*model.Slot, error) {
	upd, err := schedule.PlanTransition(slot, req)
	if err != nil {
		return nil, err
	}

	updated, err := s.slots.UpdateState(ctx, slot.ID, slot.Status, upd)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		current, err := s.slots.GetByID(ctx, slot.ID)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, fmt.Errorf("slot %d: %w", slot.ID, model.ErrNotFound)
		}
		return nil, fmt.Errorf("slot %d changed to %s concurrently: %w",
			slot.ID, current.Status, model.ErrConflict)
	}

	return updated, nil
}

func (s *SchedulerService) checkAssigneeExists(ctx context.Context, personID, accountID *int64) error {
	switch {
	case personID != nil:
		ok, err := s.parties.PersonExists(ctx, *personID)
		if err != nil {
			return fmt.Errorf("check person exists: %w", err)
		}
		if !ok {
			return fmt.Errorf("person %d: %w", *personID, model.ErrNotFound)
		}
	case accountID != nil:
		ok, err := s.parties.AccountExists(ctx, *accountID)
		if err != nil {
			return fmt.Errorf("check account exists: %w", err)
		}
		if !ok {
			return fmt.Errorf("account %d: %w", *accountID, model.ErrNotFound)
		}
	}
	return nil
}
