package hours

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DayOfWeek is a schedule day. Values line up with time.Weekday.
type DayOfWeek int

const (
	Sunday DayOfWeek = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// DaysPerWeek is the number of schedule days.
const DaysPerWeek = 7

// DaysInOrder is the fixed display order of the week.
var DaysInOrder = []DayOfWeek{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

var ErrInvalidDay = errors.New("invalid day of week")

func (d DayOfWeek) String() string {
	if !d.Valid() {
		return "DayOfWeek(" + strconv.Itoa(int(d)) + ")"
	}
	return time.Weekday(d).String()
}

// Valid reports whether d is one of the seven days.
func (d DayOfWeek) Valid() bool {
	return d >= Sunday && d <= Saturday
}

// MarshalText renders the day by name, e.g. "Monday".
func (d DayOfWeek) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDay, int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText accepts anything ParseDay does.
func (d *DayOfWeek) UnmarshalText(text []byte) error {
	day, err := ParseDay(string(text))
	if err != nil {
		return err
	}
	*d = day
	return nil
}

// Add returns the day n days after d, wrapping around the week.
func (d DayOfWeek) Add(n int) DayOfWeek {
	v := (int(d) + n) % DaysPerWeek
	if v < 0 {
		v += DaysPerWeek
	}
	return DayOfWeek(v)
}

// Prev returns the day before d.
func (d DayOfWeek) Prev() DayOfWeek {
	return d.Add(-1)
}

// ParseDay accepts full or three-letter English day names, case-insensitively.
func ParseDay(s string) (DayOfWeek, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, d := range DaysInOrder {
		full := strings.ToLower(d.String())
		if name == full || (len(name) >= 3 && strings.HasPrefix(full, name)) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDay, s)
}

// Instant is a point in the recurring week.
type Instant struct {
	Day    DayOfWeek `json:"day"`
	Minute int       `json:"minute"`
}

// At builds an Instant from a day, hour and minute.
func At(day DayOfWeek, hour, minute int) Instant {
	return Instant{Day: day, Minute: hour*60 + minute}
}

// InstantOf converts a wall-clock time into its position in the week,
// using the time's own location.
func InstantOf(t time.Time) Instant {
	return Instant{
		Day:    DayOfWeek(t.Weekday()),
		Minute: t.Hour()*60 + t.Minute(),
	}
}

func (i Instant) String() string {
	return i.Day.String() + " " + FormatClock(i.Minute)
}

var ErrInvalidClock = errors.New("invalid time of day")

// ParseClock parses "HH:MM" in 24-hour form. "24:00" is accepted and
// yields 1440.
func ParseClock(s string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || len(mm) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	if h < 0 || h > 24 || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return h*60 + m, nil
}

// ParseInstant parses "<day> HH:MM", e.g. "Mon 10:00".
func ParseInstant(s string) (Instant, error) {
	dayPart, clockPart, ok := strings.Cut(strings.TrimSpace(s), " ")
	if !ok {
		return Instant{}, fmt.Errorf("%w: expected \"<day> HH:MM\", got %q", ErrInvalidClock, s)
	}
	day, err := ParseDay(dayPart)
	if err != nil {
		return Instant{}, err
	}
	minute, err := ParseClock(clockPart)
	if err != nil {
		return Instant{}, err
	}
	if minute >= MinutesPerDay {
		return Instant{}, fmt.Errorf("%w: %q is not a point within the day", ErrInvalidClock, clockPart)
	}
	return Instant{Day: day, Minute: minute}, nil
}

// FormatClock renders minutes since midnight in the 12-hour en-US style,
// e.g. "9:00 AM". 1440 renders as midnight.
func FormatClock(minute int) string {
	minute %= MinutesPerDay
	if minute < 0 {
		minute += MinutesPerDay
	}
	t := time.Date(2000, time.January, 1, minute/60, minute%60, 0, 0, time.UTC)
	return t.Format("3:04 PM")
}

// Clock supplies the current instant.
type Clock interface {
	Now() Instant
}

// SystemClock reads the wall clock in a fixed location.
type SystemClock struct {
	Location *time.Location
}

// NewSystemClock returns a clock for loc, or UTC when loc is nil.
func NewSystemClock(loc *time.Location) SystemClock {
	if loc == nil {
		loc = time.UTC
	}
	return SystemClock{Location: loc}
}

func (c SystemClock) Now() Instant {
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	return InstantOf(time.Now().In(loc))
}

// FixedClock always reports the same instant.
type FixedClock Instant

func (c FixedClock) Now() Instant {
	return Instant(c)
}
