package model

import (
	"fmt"
	"time"
)

// Event is the meeting-like entity subjects are enrolled onto. Its own CRUD
// lives outside this module; the scheduler only attaches participants.
type Event struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
}

// Enrollment links a person to an event with a role and a status.
type Enrollment struct {
	ID        int64     `json:"id"`
	EventID   int64     `json:"event_id"`
	PersonID  int64     `json:"person_id"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// EnrollmentCandidate is one entry of a bulk-enrollment request.
type EnrollmentCandidate struct {
	PersonID int64  `json:"person_id"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

func (c EnrollmentCandidate) String() string {
	return fmt.Sprintf("person %d (%s)", c.PersonID, c.Role)
}
