/*
stats.go - Worked-hours aggregation and status colors

PURPOSE:
  Derived, read-only views over the schedule tree: per-person hours
  worked against target hours for a month or a year, the traffic-light
  status shown in the roster, and the extra-day balance that feeds the
  extra-day planner.

KEY CONCEPTS:
  - Hours worked sum over working (A) entries only. An entry's times
    resolve entry -> month defaults -> settings defaults; with no
    resolvable times the entry contributes 0 hours but still counts as
    a day worked.
  - Target hours assume weekday work only: Mon-Fri days in the month
    times 8h, scaled by employment percentage. Weekend shifts raise
    hours worked but never the target.
  - Extra-day balance = starting balance + red days worked - extra
    days (X) taken. A positive remainder is plannable; a negative one
    is a deficit warning, not an error.

DESIGN PRINCIPLES:
  - Pure reads. Nothing here mutates the state tree.
  - Fail closed: a shape mismatch (wrong year, month out of range)
    yields an empty result rather than an error; a single malformed
    entry contributes zero rather than poisoning the aggregate.
*/
package stats

import (
	"time"

	"github.com/skiftet/schedule-engine/domain"
	"github.com/skiftet/schedule-engine/holidays"
)

// hoursTolerance is the band around the target inside which a person
// counts as on target.
const hoursTolerance = 0.25

// =============================================================================
// RESULT TYPES
// =============================================================================

type StatusColor string

const (
	StatusOK     StatusColor = "OK"     // within tolerance of target
	StatusYellow StatusColor = "YELLOW" // under target
	StatusRed    StatusColor = "RED"    // over target
)

type PersonStats struct {
	PersonID    string
	Name        string
	HoursWorked float64
	TargetHours float64
	DaysWorked  int
	Status      StatusColor

	RedDaysWorked  int
	ExtraDaysTaken int

	// ExtraToPlanDays is the positive part of the balance; the planner
	// consumes it. ExtraNegativeDays is the deficit when the balance
	// went below zero.
	ExtraToPlanDays   int
	ExtraNegativeDays int
}

// =============================================================================
// CALCULATOR
// =============================================================================

type Calculator struct {
	Calendar *holidays.Calendar
}

func NewCalculator(cal *holidays.Calendar) *Calculator {
	return &Calculator{Calendar: cal}
}

// MonthStats aggregates one month per person. People with neither
// entries nor an extra-day balance still appear, so callers always see
// the full roster.
func (c *Calculator) MonthStats(state *domain.State, year int, month time.Month) map[string]PersonStats {
	out := make(map[string]PersonStats)
	if state == nil || state.Schedule.Year != year {
		return out
	}
	m := state.Schedule.MonthAt(month)
	if m == nil {
		return out
	}

	for _, p := range state.ActivePeople() {
		acc := c.accumulate(m, state.Settings, p.ID)
		out[p.ID] = c.finalize(p, acc, weekdayCount(year, month))
	}
	return out
}

// YearStats sums all twelve months. The starting extra-day balance is
// counted once, not once per month.
func (c *Calculator) YearStats(state *domain.State, year int) map[string]PersonStats {
	out := make(map[string]PersonStats)
	if state == nil || state.Schedule.Year != year {
		return out
	}

	for _, p := range state.ActivePeople() {
		var total accumulation
		weekdays := 0
		for mi := time.January; mi <= time.December; mi++ {
			m := state.Schedule.MonthAt(mi)
			if m == nil {
				continue
			}
			acc := c.accumulate(m, state.Settings, p.ID)
			total.hours += acc.hours
			total.days += acc.days
			total.redDays += acc.redDays
			total.extraTaken += acc.extraTaken
			weekdays += weekdayCount(year, mi)
		}
		out[p.ID] = c.finalize(p, total, weekdays)
	}
	return out
}

// =============================================================================
// AGGREGATION
// =============================================================================

type accumulation struct {
	hours      float64
	days       int
	redDays    int
	redHours   float64
	extraTaken int
}

func (c *Calculator) accumulate(m *domain.Month, settings domain.Settings, personID string) accumulation {
	var acc accumulation
	for _, day := range m.Days {
		e, ok := day.EntryFor(personID)
		if !ok {
			continue
		}
		switch {
		case e.IsWorking():
			hours := workedHours(e, m, settings)
			acc.days++
			acc.hours += hours
			if c.Calendar != nil && c.Calendar.IsRedDay(day.Date) {
				acc.redDays++
				acc.redHours += hours
			}
		case e.Status == domain.StatusExtraDay:
			acc.extraTaken++
		}
	}
	return acc
}

func (c *Calculator) finalize(p domain.Person, acc accumulation, weekdays int) PersonStats {
	target := float64(weekdays) * 8 * float64(p.EmploymentPct) / 100

	s := PersonStats{
		PersonID:       p.ID,
		Name:           p.Name(),
		HoursWorked:    acc.hours,
		TargetHours:    target,
		DaysWorked:     acc.days,
		Status:         statusFor(acc.hours, target),
		RedDaysWorked:  acc.redDays,
		ExtraDaysTaken: acc.extraTaken,
	}

	balance := p.ExtraDayBalance + acc.redDays - acc.extraTaken
	if balance >= 0 {
		s.ExtraToPlanDays = balance
	} else {
		s.ExtraNegativeDays = -balance
	}
	return s
}

func statusFor(hours, target float64) StatusColor {
	diff := hours - target
	switch {
	case diff > hoursTolerance:
		return StatusRed
	case diff < -hoursTolerance:
		return StatusYellow
	default:
		return StatusOK
	}
}

// workedHours resolves an entry's span using entry times, then month
// defaults, then settings defaults, minus any break. Unresolvable or
// negative spans count as 0.
func workedHours(e domain.Entry, m *domain.Month, settings domain.Settings) float64 {
	start := firstSet(e.Start, m.DefaultStart, settings.DefaultStart)
	end := firstSet(e.End, m.DefaultEnd, settings.DefaultEnd)
	if start == nil || end == nil {
		return 0
	}
	minutes := domain.SpanMinutes(*start, *end)

	breakStart := firstSet(e.BreakStart, m.DefaultBreakStart, settings.DefaultBreakStart)
	breakEnd := firstSet(e.BreakEnd, m.DefaultBreakEnd, settings.DefaultBreakEnd)
	if breakStart != nil && breakEnd != nil {
		minutes -= domain.SpanMinutes(*breakStart, *breakEnd)
	}
	if minutes < 0 {
		minutes = 0
	}
	return float64(minutes) / 60
}

func firstSet(cs ...*domain.ClockTime) *domain.ClockTime {
	for _, c := range cs {
		if c != nil {
			return c
		}
	}
	return nil
}

// weekdayCount is the number of Mon-Fri days in the month.
func weekdayCount(year int, month time.Month) int {
	n := 0
	days := domain.DaysInMonth(year, month)
	for d := 1; d <= days; d++ {
		if domain.NewDate(year, month, d).WeekdayIndex() < 5 {
			n++
		}
	}
	return n
}
