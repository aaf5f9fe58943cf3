package schedule

import (
	"github.com/orgrec/appointment_scheduler/internal/model"
)

// TransitionRequest describes the state change a caller asks for.
type TransitionRequest struct {
	Target             model.SlotStatus
	PersonID           *int64
	AccountID          *int64
	Notes              *string
	CancellationReason string
}

// PlanTransition validates a requested slot state change and returns the
// field set to apply under compare-and-set keyed on the slot's current
// status. Legal transitions:
//
//	open     -> reserved   exactly one assignee required
//	open     -> closed     optional cancellation reason recorded
//	reserved -> open       assignees cleared, reason ignored
//	closed   -> open       cancellation reason cleared
//
// reserved -> closed is deliberately absent: releasing a booking is an
// explicit step of its own. Everything else fails with TransitionError.
// Conflict detection against concurrent writers is the store's job, not
// handled here.
func PlanTransition(slot *model.Slot, req TransitionRequest) (model.SlotUpdate, error) {
	switch {
	case slot.Status == model.SlotStatusOpen && req.Target == model.SlotStatusReserved:
		if err := validateAssignee(req.PersonID, req.AccountID); err != nil {
			return model.SlotUpdate{}, err
		}
		return model.SlotUpdate{
			Status:    model.SlotStatusReserved,
			PersonID:  req.PersonID,
			AccountID: req.AccountID,
			Notes:     req.Notes,
		}, nil

	case slot.Status == model.SlotStatusOpen && req.Target == model.SlotStatusClosed:
		var reason *string
		if req.CancellationReason != "" {
			reason = &req.CancellationReason
		}
		return model.SlotUpdate{
			Status:             model.SlotStatusClosed,
			CancellationReason: reason,
		}, nil

	case slot.Status == model.SlotStatusReserved && req.Target == model.SlotStatusOpen:
		// Release or no-show: both assignees cleared, any supplied
		// cancellation reason ignored.
		return model.SlotUpdate{Status: model.SlotStatusOpen}, nil

	case slot.Status == model.SlotStatusClosed && req.Target == model.SlotStatusOpen:
		return model.SlotUpdate{Status: model.SlotStatusOpen}, nil
	}

	return model.SlotUpdate{}, &model.TransitionError{From: slot.Status, To: req.Target}
}

func validateAssignee(personID, accountID *int64) error {
	if (personID == nil) == (accountID == nil) {
		return model.NewValidationError("assignee", "exactly one of person or account must be set")
	}
	return nil
}
