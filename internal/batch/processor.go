// Package batch implements the partial-success batch contract shared by
// bulk slot creation and bulk event enrollment: candidates are checked and
// persisted independently, one rejection never aborts the batch.
package batch

import (
	"context"
	"errors"

	"github.com/orgrec/appointment_scheduler/internal/model"
)

// SkipError marks one candidate as rejected without failing the batch.
type SkipError struct {
	Reason string
}

func (e *SkipError) Error() string {
	return e.Reason
}

// Skip builds the error a per-item check returns to reject its candidate.
func Skip(reason string) error {
	return &SkipError{Reason: reason}
}

// SkippedItem reports one rejected candidate and why it was rejected.
type SkippedItem[C any] struct {
	Candidate C      `json:"candidate"`
	Reason    string `json:"reason"`
}

// Result aggregates a batch run. AcceptedCount may be zero; that is a
// valid outcome, distinct from ErrMalformedBatchInput.
type Result[C, R any] struct {
	Accepted      []R              `json:"accepted"`
	Skipped       []SkippedItem[C] `json:"skipped"`
	AcceptedCount int              `json:"accepted_count"`
	SkippedCount  int              `json:"skipped_count"`
}

// CheckFunc validates and persists a single candidate. Returning an error
// produced by Skip rejects the candidate only; any other error is treated
// as an infrastructure failure and aborts the whole batch.
type CheckFunc[C, R any] func(ctx context.Context, candidate C) (R, error)

// Process runs check over every candidate in order. An empty or nil
// candidate collection fails the whole call with ErrMalformedBatchInput.
func Process[C, R any](ctx context.Context, candidates []C, check CheckFunc[C, R]) (*Result[C, R], error) {
	if len(candidates) == 0 {
		return nil, model.ErrMalformedBatchInput
	}

	result := &Result[C, R]{
		Accepted: make([]R, 0, len(candidates)),
		Skipped:  make([]SkippedItem[C], 0),
	}

	for _, candidate := range candidates {
		item, err := check(ctx, candidate)
		if err != nil {
			var skip *SkipError
			if errors.As(err, &skip) {
				result.Skipped = append(result.Skipped, SkippedItem[C]{
					Candidate: candidate,
					Reason:    skip.Reason,
				})
				continue
			}
			return nil, err
		}
		result.Accepted = append(result.Accepted, item)
	}

	result.AcceptedCount = len(result.Accepted)
	result.SkippedCount = len(result.Skipped)
	return result, nil
}
