package schedule

import (
	"fmt"
	"time"

	"github.com/orgrec/appointment_scheduler/internal/model"
)

// SlotWindow is one concrete time window produced by template expansion.
// Date is the civil date of the window start, which for the tail of an
// overnight template is the day after the template's matching weekday.
type SlotWindow struct {
	Date  time.Time
	Start time.Time
	End   time.Time
}

func (w SlotWindow) String() string {
	return fmt.Sprintf("%s %s-%s",
		w.Date.Format("2006-01-02"),
		w.Start.Format("15:04"),
		w.End.Format("15:04"))
}

// ExpandTemplate expands a template over an inclusive civil-date range into
// an ordered sequence of slot windows. It is pure: no I/O, no clock reads,
// and no timezone conversion — all arithmetic happens in the location
// carried by rangeStart.
//
// A day window with day_end <= day_start crosses midnight (23:00-01:00
// means one o'clock the next morning). Slots are whole: a tail shorter
// than the slot duration is discarded, never emitted partially.
//
// A range that yields nothing returns ErrEmptySlotGeneration so callers
// can tell "nothing matched" from an ordinary empty result.
func ExpandTemplate(tpl *model.AvailabilityTemplate, rangeStart, rangeEnd time.Time) ([]SlotWindow, error) {
	from := civilDate(rangeStart)
	to := civilDate(rangeEnd)
	if to.Before(from) {
		return nil, model.NewValidationError("range", "range end must not precede range start")
	}

	startHour, startMinute, err := parseClock(tpl.DayStart)
	if err != nil {
		return nil, model.NewValidationError("day_start", "must match HH:MM")
	}
	endHour, endMinute, err := parseClock(tpl.DayEnd)
	if err != nil {
		return nil, model.NewValidationError("day_end", "must match HH:MM")
	}

	allowed := make(map[time.Weekday]bool, len(tpl.Weekdays))
	for _, d := range tpl.Weekdays {
		allowed[time.Weekday(d)] = true
	}

	duration := time.Duration(tpl.SlotDurationMinutes) * time.Minute

	var windows []SlotWindow
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if !allowed[day.Weekday()] {
			continue
		}

		dayStart := time.Date(day.Year(), day.Month(), day.Day(), startHour, startMinute, 0, 0, day.Location())
		dayEnd := time.Date(day.Year(), day.Month(), day.Day(), endHour, endMinute, 0, 0, day.Location())
		if !dayEnd.After(dayStart) {
			// Window crosses midnight.
			dayEnd = dayEnd.AddDate(0, 0, 1)
		}

		for cursor := dayStart; !cursor.Add(duration).After(dayEnd); cursor = cursor.Add(duration) {
			windows = append(windows, SlotWindow{
				Date:  civilDate(cursor),
				Start: cursor,
				End:   cursor.Add(duration),
			})
		}
	}

	if len(windows) == 0 {
		return nil, model.ErrEmptySlotGeneration
	}

	return windows, nil
}

// civilDate truncates an instant to midnight of its calendar day.
func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func parseClock(s string) (hour, minute int, err error) {
	if !clockPattern.MatchString(s) {
		return 0, 0, fmt.Errorf("malformed clock value %q", s)
	}
	parsed, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("parse clock value %q: %w", s, err)
	}
	return parsed.Hour(), parsed.Minute(), nil
}
