package schedule

import (
	"regexp"
	"sort"
	"strings"

	"github.com/orgrec/appointment_scheduler/internal/model"
)

const (
	MinSlotDurationMinutes = 5
	MaxSlotDurationMinutes = 240
)

var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ValidateTemplate checks every template invariant and normalizes the
// weekday set (sorted, de-duplicated). All offending fields are reported
// in one ValidationError.
func ValidateTemplate(t *model.AvailabilityTemplate) error {
	v := &model.ValidationError{}

	if strings.TrimSpace(t.Name) == "" {
		v.Add("name", "must not be empty")
	}

	if len(t.Weekdays) == 0 {
		v.Add("weekdays", "must contain at least one weekday")
	} else {
		seen := make(map[int]bool, len(t.Weekdays))
		normalized := make([]int, 0, len(t.Weekdays))
		outOfRange := false
		for _, d := range t.Weekdays {
			if d < 0 || d > 6 {
				outOfRange = true
				continue
			}
			if !seen[d] {
				seen[d] = true
				normalized = append(normalized, d)
			}
		}
		if outOfRange {
			v.Add("weekdays", "each weekday must be between 0 (Sunday) and 6 (Saturday)")
		} else {
			sort.Ints(normalized)
			t.Weekdays = normalized
		}
	}

	if !clockPattern.MatchString(t.DayStart) {
		v.Add("day_start", "must match HH:MM")
	}
	if !clockPattern.MatchString(t.DayEnd) {
		v.Add("day_end", "must match HH:MM")
	}

	if t.SlotDurationMinutes < MinSlotDurationMinutes || t.SlotDurationMinutes > MaxSlotDurationMinutes {
		v.Add("slot_duration_minutes", "must be between 5 and 240")
	}

	if t.MaxOccupants < 1 {
		v.Add("max_occupants", "must be at least 1")
	}

	return v.OrNil()
}
