/*
Package domain defines the shared data model for the scheduling engine.

PURPOSE:
  Every engine in this repository (holidays, hrrules, rules, scheduler,
  stats) consumes and produces the plain value types defined here. The
  package owns the canonical shapes; legacy field spellings from older
  clients are folded in exactly once (see normalize.go) so the engines
  never see them.

KEY CONCEPTS IN THIS FILE (types.go):
  - Date:      A calendar day, the only date representation used
               internally. Wire format is always "YYYY-MM-DD".
  - ClockTime: A wall-clock time of day ("HH:MM"). A nil *ClockTime
               means "flexible/unspecified" on shifts and entries.
  - Sector:    Which collective agreement family applies
               (private HRF vs municipal Kommunal).

DESIGN PRINCIPLES:
  1. Fail closed: malformed dates and times parse to zero values plus
     an ok=false, never a panic. A single bad record must not take
     down an aggregate computation.
  2. Value semantics: types here are copied freely; nothing holds
     hidden references to shared mutable state.
  3. One spelling: consumers use Date and ClockTime, never raw strings.

SEE ALSO:
  - schedule.go:  Schedule/Month/Day/Entry tree
  - person.go:    Person, Group, Shift, Demand
  - normalize.go: legacy wire shapes and the single normalization step
*/
package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// =============================================================================
// DATE - A calendar day ("YYYY-MM-DD" on the wire)
// =============================================================================

type Date struct {
	t time.Time
}

const dateLayout = "2006-01-02"

// NewDate constructs a Date from components.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses "YYYY-MM-DD". Malformed input returns the zero Date
// and false; it never panics.
func ParseDate(s string) (Date, bool) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, false
	}
	return Date{t: t}, true
}

// Today returns the current date in UTC.
func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), now.Month(), now.Day())
}

// Comparison
func (d Date) Before(o Date) bool        { return d.t.Before(o.t) }
func (d Date) After(o Date) bool         { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool         { return d.t.Equal(o.t) }
func (d Date) BeforeOrEqual(o Date) bool { return d.Before(o) || d.Equal(o) }
func (d Date) AfterOrEqual(o Date) bool  { return d.After(o) || d.Equal(o) }

// Arithmetic
func (d Date) AddDays(n int) Date   { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) AddMonths(n int) Date { return Date{t: d.t.AddDate(0, n, 0)} }
func (d Date) AddYears(n int) Date  { return Date{t: d.t.AddDate(n, 0, 0)} }

// Properties
func (d Date) Year() int             { return d.t.Year() }
func (d Date) Month() time.Month     { return d.t.Month() }
func (d Date) Day() int              { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }
func (d Date) IsZero() bool          { return d.t.IsZero() }
func (d Date) IsSunday() bool        { return d.t.Weekday() == time.Sunday }

// WeekdayIndex returns the Monday-indexed weekday (Mon=0 .. Sun=6).
// Availability arrays and demand rows are indexed this way.
func (d Date) WeekdayIndex() int {
	return (int(d.t.Weekday()) + 6) % 7
}

// StartOfWeek returns the Monday of the week containing d.
func (d Date) StartOfWeek() Date {
	return d.AddDays(-d.WeekdayIndex())
}

// DaysBetween returns the number of whole days from d to o (negative
// if o is earlier).
func (d Date) DaysBetween(o Date) int {
	return int(o.t.Sub(d.t).Hours() / 24)
}

func (d Date) String() string { return d.t.Format(dateLayout) }

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == nil || *s == "" {
		*d = Date{}
		return nil
	}
	parsed, ok := ParseDate(*s)
	if !ok {
		return fmt.Errorf("invalid date %q", *s)
	}
	*d = parsed
	return nil
}

// DaysInMonth returns the number of calendar days in year/month,
// leap-year aware.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// =============================================================================
// CLOCK TIME - Time of day ("HH:MM" on the wire, nil = flexible)
// =============================================================================

type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClock parses "HH:MM" (24h). Malformed input returns the zero
// value and false.
func ParseClock(s string) (ClockTime, bool) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return ClockTime{}, false
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return ClockTime{}, false
	}
	return ClockTime{Hour: h, Minute: m}, true
}

// MustClock is a convenience for literals in seeds and tests.
func MustClock(s string) *ClockTime {
	ct, ok := ParseClock(s)
	if !ok {
		panic("invalid clock time: " + s)
	}
	return &ct
}

// MinuteOfDay returns minutes past midnight.
func (c ClockTime) MinuteOfDay() int { return c.Hour*60 + c.Minute }

func (c ClockTime) String() string { return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute) }

func (c ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *ClockTime) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == nil || *s == "" {
		*c = ClockTime{}
		return nil
	}
	parsed, ok := ParseClock(*s)
	if !ok {
		return fmt.Errorf("invalid clock time %q", *s)
	}
	*c = parsed
	return nil
}

// SpanMinutes returns the length in minutes from start to end, wrapping
// past midnight when end is earlier than start (night shifts).
func SpanMinutes(start, end ClockTime) int {
	span := end.MinuteOfDay() - start.MinuteOfDay()
	if span < 0 {
		span += 24 * 60
	}
	return span
}

// =============================================================================
// SECTOR - Collective agreement family
// =============================================================================

type Sector string

const (
	SectorPrivate   Sector = "private"   // HRF (hotel & restaurant)
	SectorMunicipal Sector = "municipal" // Kommunal
)

// KnownSector reports whether s is one of the supported sectors.
func KnownSector(s Sector) bool {
	return s == SectorPrivate || s == SectorMunicipal
}
