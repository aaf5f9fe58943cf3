package model

import (
	"time"

	"github.com/google/uuid"
)

type SlotStatus string

const (
	SlotStatusOpen     SlotStatus = "open"
	SlotStatusReserved SlotStatus = "reserved"
	SlotStatusClosed   SlotStatus = "closed"
)

// Slot is one concrete, reservable time window. Slots are produced by
// template generation or created as standalone one-offs (TemplateID nil).
type Slot struct {
	ID                 int64      `json:"id"`
	TemplateID         *int64     `json:"template_id"` // nil for one-off manual slots
	BatchID            *uuid.UUID `json:"batch_id"`    // generation run that produced the slot
	Date               time.Time  `json:"date"`        // civil date of the slot start
	StartTime          time.Time  `json:"start_time"`
	EndTime            time.Time  `json:"end_time"`
	Status             SlotStatus `json:"status"`
	PersonID           *int64     `json:"person_id"`
	AccountID          *int64     `json:"account_id"`
	Notes              string     `json:"notes,omitempty"`
	CancellationReason *string    `json:"cancellation_reason,omitempty"`
	CreatedBy          int64      `json:"created_by"`
	CreatedAt          time.Time  `json:"created_at"`
}

// SlotUpdate is the field set a state transition applies to a slot under
// compare-and-set. Status, assignees and cancellation reason are always
// written; Notes only when non-nil.
type SlotUpdate struct {
	Status             SlotStatus
	PersonID           *int64
	AccountID          *int64
	CancellationReason *string
	Notes              *string
}
