/*
evaluator.go - Trial-insertion constraint checking

PURPOSE:
  The role engine and the extra-day planner place entries by trial:
  insert a candidate entry into the proposed tree, run a constraint
  evaluator over the month, and keep the entry only if no hard (P0)
  violation lands on that person. The evaluator is an injected
  dependency so the engines can be tested against a mock and the real
  rule set can evolve independently.

WARNING LEVELS:
  P0  hard violation - blocks the placement
  P1  advisory       - surfaced to the user, ignored by the engines

SEE ALSO:
  - engine.go, planner.go: the two consumers
  - rules: the per-shift eligibility predicates the default evaluator
    builds on
*/
package scheduler

import (
	"fmt"
	"time"

	"github.com/skiftet/schedule-engine/domain"
	"github.com/skiftet/schedule-engine/holidays"
	"github.com/skiftet/schedule-engine/rules"
)

// =============================================================================
// RULE EVALUATOR INTERFACE
// =============================================================================

type WarningLevel string

const (
	LevelP0 WarningLevel = "P0" // hard violation, blocks placement
	LevelP1 WarningLevel = "P1" // advisory only
)

type Warning struct {
	PersonID string
	Level    WarningLevel
	Message  string
}

// RuleEvaluator checks a (candidate) state for constraint violations
// in the given month. Implementations must not mutate the state.
type RuleEvaluator interface {
	Evaluate(state *domain.State, year int, month time.Month) []Warning
}

// hasP0For reports a hard violation attributed to the person.
func hasP0For(warnings []Warning, personID string) bool {
	for _, w := range warnings {
		if w.Level == LevelP0 && w.PersonID == personID {
			return true
		}
	}
	return false
}

// =============================================================================
// DEFAULT EVALUATOR
// =============================================================================

// DefaultEvaluator implements the built-in constraint set:
//   - P0: two entries for the same person on one day
//   - P0: a working entry on a vacation or leave date
//   - P0: a working entry on an unavailable weekday
//   - P0: weekly worked hours above the person's cap
//   - P1: a working entry on a red day (informational, feeds OB pay)
type DefaultEvaluator struct {
	Calendar *holidays.Calendar
}

func NewDefaultEvaluator(cal *holidays.Calendar) *DefaultEvaluator {
	return &DefaultEvaluator{Calendar: cal}
}

func (ev *DefaultEvaluator) Evaluate(state *domain.State, year int, month time.Month) []Warning {
	var warnings []Warning

	m := state.Schedule.MonthAt(month)
	if m == nil || state.Schedule.Year != year {
		return warnings
	}

	weeklyHours := make(map[string]map[domain.Date]float64) // person -> week start -> hours

	for _, day := range m.Days {
		seen := make(map[string]bool)
		for _, e := range day.Entries {
			if e.PersonID == "" {
				continue
			}
			if seen[e.PersonID] {
				warnings = append(warnings, Warning{
					PersonID: e.PersonID, Level: LevelP0,
					Message: fmt.Sprintf("double booking on %s", day.Date),
				})
			}
			seen[e.PersonID] = true

			if !e.IsWorking() {
				continue
			}

			p, ok := state.PersonByID(e.PersonID)
			if !ok {
				continue
			}

			if p.OnVacation(day.Date) || p.OnLeave(day.Date) {
				warnings = append(warnings, Warning{
					PersonID: e.PersonID, Level: LevelP0,
					Message: fmt.Sprintf("scheduled on a vacation/leave date %s", day.Date),
				})
			}
			if !p.AvailableOn(day.Date) {
				warnings = append(warnings, Warning{
					PersonID: e.PersonID, Level: LevelP0,
					Message: fmt.Sprintf("not available on %s", day.Date),
				})
			}
			if ev.Calendar != nil && ev.Calendar.IsRedDay(day.Date) {
				warnings = append(warnings, Warning{
					PersonID: e.PersonID, Level: LevelP1,
					Message: fmt.Sprintf("red day worked on %s", day.Date),
				})
			}

			hours := entryHours(e, m, state.Settings)
			week := day.Date.StartOfWeek()
			if weeklyHours[e.PersonID] == nil {
				weeklyHours[e.PersonID] = make(map[domain.Date]float64)
			}
			weeklyHours[e.PersonID][week] += hours
		}
	}

	for personID, weeks := range weeklyHours {
		p, ok := state.PersonByID(personID)
		if !ok {
			continue
		}
		cap := rules.WeeklyHours(p)
		for week, hours := range weeks {
			if hours > cap {
				warnings = append(warnings, Warning{
					PersonID: personID, Level: LevelP0,
					Message: fmt.Sprintf("week of %s: %.1fh exceeds the %.1fh cap", week, hours, cap),
				})
			}
		}
	}

	return warnings
}

// entryHours resolves an entry's worked hours using entry times, then
// month defaults, then settings defaults. Entries with no resolvable
// times count as 0.
func entryHours(e domain.Entry, m *domain.Month, settings domain.Settings) float64 {
	start := firstClock(e.Start, m.DefaultStart, settings.DefaultStart)
	end := firstClock(e.End, m.DefaultEnd, settings.DefaultEnd)
	if start == nil || end == nil {
		return 0
	}
	minutes := domain.SpanMinutes(*start, *end)

	breakStart := firstClock(e.BreakStart, m.DefaultBreakStart, settings.DefaultBreakStart)
	breakEnd := firstClock(e.BreakEnd, m.DefaultBreakEnd, settings.DefaultBreakEnd)
	if breakStart != nil && breakEnd != nil {
		minutes -= domain.SpanMinutes(*breakStart, *breakEnd)
	}
	if minutes < 0 {
		minutes = 0
	}
	return float64(minutes) / 60
}

func firstClock(cs ...*domain.ClockTime) *domain.ClockTime {
	for _, c := range cs {
		if c != nil {
			return c
		}
	}
	return nil
}
