package picks

import (
	"fmt"
	"time"

	"quantumbetlab/web/internal/models"
)

// DateWindow selects which calendar days a match may start on
type DateWindow int

const (
	// Today admits matches starting on the current calendar date
	Today DateWindow = iota
	// TodayOrTomorrow also admits matches starting on the next calendar date
	TodayOrTomorrow
)

// ParseDateWindow maps a config value to a DateWindow
func ParseDateWindow(value string) (DateWindow, error) {
	switch value {
	case "today", "":
		return Today, nil
	case "today_tomorrow":
		return TodayOrTomorrow, nil
	default:
		return Today, fmt.Errorf("unknown date window %q", value)
	}
}

func (w DateWindow) String() string {
	if w == TodayOrTomorrow {
		return "today_tomorrow"
	}
	return "today"
}

// Contains reports whether start falls on an admitted calendar date, with
// both instants converted to loc first. Comparison is by date, not by a
// rolling 24 hour window.
func (w DateWindow) Contains(start, now time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.UTC
	}
	startDay := civilDate(start.In(loc))
	today := civilDate(now.In(loc))

	if startDay == today {
		return true
	}
	return w == TodayOrTomorrow && startDay == today.AddDate(0, 0, 1)
}

// Filter keeps the matches inside the window, preserving upstream order.
// A match without a parseable start time is an error for the whole call.
func (w DateWindow) Filter(matches []models.Match, now time.Time, loc *time.Location) ([]models.Match, error) {
	var out []models.Match
	for _, m := range matches {
		start, err := m.StartsAt()
		if err != nil {
			return nil, err
		}
		if w.Contains(start, now, loc) {
			out = append(out, m)
		}
	}
	return out, nil
}

// civilDate truncates t to midnight in its own location
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
