/*
Package holidays computes Swedish public holidays and "red days".

PURPOSE:
  The scheduling engine needs to know, for any date, whether it is a
  public holiday (and which one) or a red day (holiday OR Sunday).
  Red days drive shift-differential pay, rotation fairness scoring and
  the extra-day bank, so the calculation has to be exact across years.

ALGORITHM:
  - Fixed-date holidays are table-driven.
  - Easter Sunday is computed with the Gauss/Meeus congruence method,
    parameterized entirely by the year (no lookup table). Six holidays
    derive from it: Good Friday (-2), Holy Saturday (-1), Easter
    Sunday, Easter Monday (+1), Ascension (+39), Pentecost (+49).
  - Midsummer Day is the first Saturday in June 20-26 (fallback
    June 20 if the search fails).
  - All Saints' Day is the first Saturday in Oct 31 - Nov 6, wrapping
    the month boundary (fallback Nov 1).

CACHING:
  Holidays for a year are immutable facts, so the table for a year is
  built lazily on first query and cached forever. The cache is owned
  by the Calendar instance; there is no package-level singleton.

ERROR POLICY:
  Fail closed. The *String variants accept raw "YYYY-MM-DD" input and
  return false / "" for anything malformed. Nothing here panics.
*/
package holidays

import (
	"sync"
	"time"

	"github.com/skiftet/schedule-engine/domain"
)

// =============================================================================
// CALENDAR - Memoized per-year holiday table
// =============================================================================

type Calendar struct {
	mu     sync.Mutex
	byYear map[int]map[domain.Date]string
}

func NewCalendar() *Calendar {
	return &Calendar{byYear: make(map[int]map[domain.Date]string)}
}

// IsHoliday reports whether the date is a Swedish public holiday.
func (c *Calendar) IsHoliday(d domain.Date) bool {
	return c.HolidayName(d) != ""
}

// HolidayName returns the holiday name for the date, or "" if the date
// is not a holiday.
func (c *Calendar) HolidayName(d domain.Date) string {
	if d.IsZero() {
		return ""
	}
	return c.tableFor(d.Year())[d]
}

// IsRedDay reports whether the date is a red day: a public holiday or
// a Sunday.
func (c *Calendar) IsRedDay(d domain.Date) bool {
	if d.IsZero() {
		return false
	}
	return d.IsSunday() || c.IsHoliday(d)
}

// AllHolidays returns a copy of the full holiday table for a year.
func (c *Calendar) AllHolidays(year int) map[domain.Date]string {
	table := c.tableFor(year)
	out := make(map[domain.Date]string, len(table))
	for d, name := range table {
		out[d] = name
	}
	return out
}

// Fail-closed string forms for wire-facing callers.

func (c *Calendar) IsHolidayString(s string) bool {
	d, ok := domain.ParseDate(s)
	if !ok {
		return false
	}
	return c.IsHoliday(d)
}

func (c *Calendar) HolidayNameString(s string) string {
	d, ok := domain.ParseDate(s)
	if !ok {
		return ""
	}
	return c.HolidayName(d)
}

func (c *Calendar) IsRedDayString(s string) bool {
	d, ok := domain.ParseDate(s)
	if !ok {
		return false
	}
	return c.IsRedDay(d)
}

func (c *Calendar) tableFor(year int) map[domain.Date]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if table, ok := c.byYear[year]; ok {
		return table
	}
	table := buildYear(year)
	c.byYear[year] = table
	return table
}

// =============================================================================
// YEAR TABLE CONSTRUCTION
// =============================================================================

var fixedHolidays = []struct {
	month time.Month
	day   int
	name  string
}{
	{time.January, 1, "Nyårsdagen"},
	{time.January, 6, "Trettondedag jul"},
	{time.May, 1, "Första maj"},
	{time.June, 6, "Sveriges nationaldag"},
	{time.December, 24, "Julafton"},
	{time.December, 25, "Juldagen"},
	{time.December, 26, "Annandag jul"},
	{time.December, 31, "Nyårsafton"},
}

func buildYear(year int) map[domain.Date]string {
	table := make(map[domain.Date]string, 16)

	for _, h := range fixedHolidays {
		table[domain.NewDate(year, h.month, h.day)] = h.name
	}

	easter := EasterSunday(year)
	table[easter.AddDays(-2)] = "Långfredagen"
	table[easter.AddDays(-1)] = "Påskafton"
	table[easter] = "Påskdagen"
	table[easter.AddDays(1)] = "Annandag påsk"
	table[easter.AddDays(39)] = "Kristi himmelsfärdsdag"
	table[easter.AddDays(49)] = "Pingstdagen"

	table[midsummerDay(year)] = "Midsommardagen"
	table[allSaintsDay(year)] = "Alla helgons dag"

	return table
}

// EasterSunday computes Gregorian Easter via the Gauss/Meeus
// congruence method. Valid for all Gregorian years.
func EasterSunday(year int) domain.Date {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := time.Month((h + l - 7*m + 114) / 31)
	day := (h+l-7*m+114)%31 + 1
	return domain.NewDate(year, month, day)
}

// midsummerDay is the first Saturday in June 20-26.
func midsummerDay(year int) domain.Date {
	for day := 20; day <= 26; day++ {
		d := domain.NewDate(year, time.June, day)
		if d.Weekday() == time.Saturday {
			return d
		}
	}
	// Unreachable for a 7-day window, kept as the documented fallback.
	return domain.NewDate(year, time.June, 20)
}

// allSaintsDay is the first Saturday in Oct 31 - Nov 6, crossing the
// month boundary.
func allSaintsDay(year int) domain.Date {
	d := domain.NewDate(year, time.October, 31)
	for i := 0; i < 7; i++ {
		if d.Weekday() == time.Saturday {
			return d
		}
		d = d.AddDays(1)
	}
	return domain.NewDate(year, time.November, 1)
}
