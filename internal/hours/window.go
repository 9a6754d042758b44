package hours

import (
	"errors"
	"fmt"
)

// MinutesPerDay is the length of one schedule day.
const MinutesPerDay = 24 * 60

var (
	ErrStartOutOfRange = errors.New("window start must be within [00:00, 24:00)")
	ErrEndOutOfRange   = errors.New("window end must be within [00:00, 24:00]")
)

// TimeWindow is one contiguous open interval of a schedule day, in minutes
// since local midnight.
//
// A non-overnight window covers [Start, End) with Start < End <= 1440.
// An overnight window covers [Start, 1440) on its own day and [0, End) on
// the following day, with 0 < End <= Start.
type TimeWindow struct {
	Start     int  `json:"start"`
	End       int  `json:"end"`
	Overnight bool `json:"overnight"`
}

// NewTimeWindow builds a window from a start and end minute. An end at or
// before the start wraps past midnight; an end of 0 means "until midnight".
func NewTimeWindow(start, end int) (TimeWindow, error) {
	if start < 0 || start >= MinutesPerDay {
		return TimeWindow{}, fmt.Errorf("%w: got %d", ErrStartOutOfRange, start)
	}
	if end < 0 || end > MinutesPerDay {
		return TimeWindow{}, fmt.Errorf("%w: got %d", ErrEndOutOfRange, end)
	}

	if end == 0 {
		end = MinutesPerDay
	}

	return TimeWindow{
		Start:     start,
		End:       end,
		Overnight: end <= start,
	}, nil
}

// MustWindow is NewTimeWindow for literals known to be valid.
func MustWindow(start, end int) TimeWindow {
	w, err := NewTimeWindow(start, end)
	if err != nil {
		panic(err)
	}
	return w
}

// Contains reports whether minute falls inside the part of the window that
// lies on the window's own day.
func Contains(w TimeWindow, minute int) bool {
	if w.Overnight {
		return minute >= w.Start && minute < MinutesPerDay
	}
	return minute >= w.Start && minute < w.End
}

// CarriesOver reports whether minute, on the day after the window's day,
// falls inside the carried-over part of an overnight window.
func CarriesOver(w TimeWindow, minute int) bool {
	return w.Overnight && minute >= 0 && minute < w.End
}

// dayEnd is the end of the window measured from the start of its own day.
func (w TimeWindow) dayEnd() int {
	if w.Overnight {
		return MinutesPerDay + w.End
	}
	return w.End
}

// Duration returns the window length in minutes.
func (w TimeWindow) Duration() int {
	return w.dayEnd() - w.Start
}

// String renders the window as "9:00 AM–5:00 PM".
func (w TimeWindow) String() string {
	return FormatClock(w.Start) + "–" + FormatClock(w.End)
}
