package hours

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ClosedLabel is shown for a day, or a vendor, without any open time.
const ClosedLabel = "Closed"

// AlwaysOpenLabel is the transition label of a vendor that never closes.
const AlwaysOpenLabel = "Open 24 hours"

// scanDays bounds the forward search for the next state change. Eight days
// covers a full week plus the wrap back onto the starting day.
const scanDays = 8

var ErrOverlappingWindows = errors.New("windows overlap or are out of order")

// VendorHours maps each day to its windows in chronological start order.
// A day that is absent from the map is closed.
type VendorHours map[DayOfWeek][]TimeWindow

// Windows returns the windows listed for day.
func (h VendorHours) Windows(day DayOfWeek) []TimeWindow {
	if h == nil {
		return nil
	}
	return h[day]
}

// Empty reports whether no day has any window.
func (h VendorHours) Empty() bool {
	for _, ws := range h {
		if len(ws) > 0 {
			return false
		}
	}
	return true
}

// Validate checks that each day's windows are sorted by start and do not
// overlap one another.
func (h VendorHours) Validate() error {
	for _, day := range DaysInOrder {
		ws := h.Windows(day)
		for i := 1; i < len(ws); i++ {
			prev, cur := ws[i-1], ws[i]
			if cur.Start < prev.dayEnd() {
				return fmt.Errorf("%w: %s %s then %s", ErrOverlappingWindows, day, prev, cur)
			}
		}
	}
	return nil
}

// IsOpen reports whether the vendor is open at now, either through one of
// the day's own windows or through an overnight window carried over from
// the previous day.
func IsOpen(h VendorHours, now Instant) bool {
	for _, w := range h.Windows(now.Day) {
		if Contains(w, now.Minute) {
			return true
		}
	}
	for _, w := range h.Windows(now.Day.Prev()) {
		if CarriesOver(w, now.Minute) {
			return true
		}
	}
	return false
}

// IsToday reports whether day is the day of now.
func IsToday(day DayOfWeek, now Instant) bool {
	return day == now.Day
}

// Transition describes the next change of a vendor's open state.
type Transition struct {
	// Open is the state at the instant the transition was computed for.
	Open bool `json:"open"`
	// Opening is true when the next change opens the vendor.
	Opening bool `json:"opening"`
	// Scheduled is false when the state never changes: no hours at all,
	// or open around the clock.
	Scheduled bool    `json:"scheduled"`
	At        Instant `json:"at"`
	// DaysAhead counts calendar days between now and At.
	DaysAhead int    `json:"days_ahead"`
	Label     string `json:"label"`
}

// Describe renders the transition for a detail view, e.g. "Closes 5:00 PM"
// or "Opens Monday 9:00 AM".
func (t Transition) Describe() string {
	if !t.Scheduled {
		return t.Label
	}
	if t.Opening {
		return "Opens " + t.Label
	}
	return "Closes " + t.Label
}

// NextTransition finds the first window boundary strictly after now at
// which the open state differs from the state at now. The scan covers
// eight days and wraps around the week.
func NextTransition(h VendorHours, now Instant) Transition {
	open := IsOpen(h, now)

	for _, offset := range boundaries(h, now) {
		at := now.Day.Add(offset / MinutesPerDay)
		inst := Instant{Day: at, Minute: offset % MinutesPerDay}
		if IsOpen(h, inst) == open {
			continue
		}

		days := offset / MinutesPerDay
		label := FormatClock(inst.Minute)
		if days > 0 {
			label = inst.Day.String() + " " + label
		}
		return Transition{
			Open:      open,
			Opening:   !open,
			Scheduled: true,
			At:        inst,
			DaysAhead: days,
			Label:     label,
		}
	}

	if open {
		return Transition{Open: true, Label: AlwaysOpenLabel}
	}
	return Transition{Label: ClosedLabel}
}

// boundaries lists every window start and end, as minute offsets from the
// start of now's day, that lies strictly after now and inside the scan
// horizon. The previous day is included for carried-over overnight ends.
func boundaries(h VendorHours, now Instant) []int {
	horizon := scanDays * MinutesPerDay
	seen := make(map[int]struct{})
	var out []int

	add := func(offset int) {
		if offset <= now.Minute || offset > horizon {
			return
		}
		if _, ok := seen[offset]; ok {
			return
		}
		seen[offset] = struct{}{}
		out = append(out, offset)
	}

	for d := -1; d < scanDays; d++ {
		base := d * MinutesPerDay
		for _, w := range h.Windows(now.Day.Add(d)) {
			add(base + w.Start)
			add(base + w.dayEnd())
		}
	}

	sort.Ints(out)
	return out
}

// FormatDay renders a day's windows as "9:00 AM–5:00 PM, 6:00 PM–9:00 PM",
// or "Closed" when there are none.
func FormatDay(h VendorHours, day DayOfWeek) string {
	ws := h.Windows(day)
	if len(ws) == 0 {
		return ClosedLabel
	}
	parts := make([]string, len(ws))
	for i, w := range ws {
		parts[i] = w.String()
	}
	return strings.Join(parts, ", ")
}
