package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/orgrec/appointment_scheduler/internal/batch"
	"github.com/orgrec/appointment_scheduler/internal/model"
	"go.uber.org/zap"
)

// Skip reasons reported by bulk enrollment.
const (
	SkipReasonSubjectNotFound = "subject not found"
	SkipReasonAlreadyEnrolled = "already enrolled"
)

// EnrollmentService attaches participants to events using the same
// partial-success batch contract as slot generation.
type EnrollmentService struct {
	enrollments EnrollmentStore
	parties     PartyDirectory
	logger      *zap.Logger
}

func NewEnrollmentService(enrollments EnrollmentStore, parties PartyDirectory, logger *zap.Logger) *EnrollmentService {
	return &EnrollmentService{
		enrollments: enrollments,
		parties:     parties,
		logger:      logger,
	}
}

// BulkEnroll enrolls each candidate independently. Unknown subjects and
// duplicates — against stored enrollments or earlier candidates of the
// same request — are skipped with an explicit reason; the batch never
// aborts on a candidate rejection.
func (s *EnrollmentService) BulkEnroll(ctx context.Context, eventID int64, candidates []model.EnrollmentCandidate) (*batch.Result[model.EnrollmentCandidate, *model.Enrollment], error) {
	if len(candidates) == 0 {
		return nil, model.ErrMalformedBatchInput
	}

	exists, err := s.enrollments.EventExists(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("check event exists: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("event %d: %w", eventID, model.ErrNotFound)
	}

	enrolled, err := s.enrollments.FindEnrolled(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("find enrolled: %w", err)
	}
	seen := make(map[int64]bool, len(enrolled))
	for _, e := range enrolled {
		seen[e.PersonID] = true
	}

	result, err := batch.Process(ctx, candidates, func(ctx context.Context, c model.EnrollmentCandidate) (*model.Enrollment, error) {
		ok, err := s.parties.PersonExists(ctx, c.PersonID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, batch.Skip(SkipReasonSubjectNotFound)
		}

		if seen[c.PersonID] {
			return nil, batch.Skip(SkipReasonAlreadyEnrolled)
		}

		e := &model.Enrollment{
			EventID:  eventID,
			PersonID: c.PersonID,
			Role:     c.Role,
			Status:   c.Status,
		}
		if err := s.enrollments.Create(ctx, e); err != nil {
			if errors.Is(err, model.ErrConflict) {
				// Enrolled by a concurrent request between our read
				// and this insert.
				return nil, batch.Skip(SkipReasonAlreadyEnrolled)
			}
			return nil, err
		}

		seen[c.PersonID] = true
		return e, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Subjects enrolled",
		zap.Int64("event_id", eventID),
		zap.Int("accepted", result.AcceptedCount),
		zap.Int("skipped", result.SkippedCount),
	)

	return result, nil
}
