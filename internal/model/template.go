package model

import "time"

// AvailabilityTemplate is a recurring weekly availability definition from
// which concrete appointment slots are generated.
type AvailabilityTemplate struct {
	ID                  int64     `json:"id"`
	Name                string    `json:"name"`
	Description         string    `json:"description,omitempty"`
	Weekdays            []int     `json:"weekdays"`  // 0 = Sunday, 6 = Saturday
	DayStart            string    `json:"day_start"` // HH:MM
	DayEnd              string    `json:"day_end"`   // HH:MM
	SlotDurationMinutes int       `json:"slot_duration_minutes"`
	MaxOccupants        int       `json:"max_occupants"`
	Location            string    `json:"location,omitempty"`
	Active              bool      `json:"active"`
	CreatedBy           int64     `json:"created_by"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}
