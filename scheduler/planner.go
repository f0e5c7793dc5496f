/*
planner.go - Extra-day planner

PURPOSE:
  Working a red day banks an "extra day" off. This planner spends the
  bank: for each active person with a positive balance it schedules X
  (extra-day-taken) entries in the month, preferring weekdays and
  days that already hold a working entry, and keeping chosen dates at
  least three days apart when the candidate pool allows it.

CANDIDATE SCORING:
  +1000  weekday (Mon-Fri) when weekday preference is on
  +100   the date currently holds a working (A) entry - converting a
         scheduled work day beats burning an empty one
  -day   mild bias toward earlier placement in the month

SELECTION:
  Two passes: a greedy pass honoring the 3-day spacing, then a second
  pass that fills any remainder ignoring spacing. Every placement is
  trial-inserted and checked through the RuleEvaluator like the role
  engine does; a rejected date is skipped, not retried. Protected
  statuses (SEM, SJ, VAB, PERM, UTB) are never overwritten.
*/
package scheduler

import (
	"fmt"
	"sort"
	"time"

	"github.com/skiftet/schedule-engine/domain"
	"github.com/skiftet/schedule-engine/holidays"
)

// minSpacingDays is the preferred minimum gap between two planned
// extra days for the same person.
const minSpacingDays = 3

// =============================================================================
// OPTIONS / RESULT
// =============================================================================

type PlanOptions struct {
	Year  int
	Month time.Month
	Mode  Mode

	// MaxPerPersonPerMonth caps how many extra days one person gets
	// scheduled in a single run. 0 means no cap.
	MaxPerPersonPerMonth int

	// PreferWeekdays boosts Mon-Fri candidates.
	PreferWeekdays bool
}

type PlannedPerson struct {
	PersonID string
	Dates    []domain.Date
}

type UnplannedPerson struct {
	PersonID  string
	Remaining int
}

type PlanResult struct {
	ProposedState *domain.State
	Planned       []PlannedPerson
	Unplanned     []UnplannedPerson
	Notes         string
}

// =============================================================================
// PLANNER
// =============================================================================

type Planner struct {
	Evaluator RuleEvaluator
	Calendar  *holidays.Calendar
}

func NewPlanner(ev RuleEvaluator, cal *holidays.Calendar) *Planner {
	return &Planner{Evaluator: ev, Calendar: cal}
}

// PlanExtraDays converts positive extra-day balances into X entries in
// a cloned state. The caller owns committing ProposedState.
func (pl *Planner) PlanExtraDays(state *domain.State, opts PlanOptions) (PlanResult, error) {
	if state.Schedule.Year != opts.Year {
		return PlanResult{}, &domain.ScheduleShapeError{Year: opts.Year,
			Detail: fmt.Sprintf("schedule holds year %d", state.Schedule.Year)}
	}

	proposed := state.Clone()
	month := proposed.Schedule.MonthAt(opts.Month)
	if month == nil {
		return PlanResult{}, &domain.ScheduleShapeError{Year: opts.Year, Month: opts.Month,
			Detail: "month out of range"}
	}

	var (
		planned   []PlannedPerson
		unplanned []UnplannedPerson
	)

	for _, p := range proposed.ActivePeople() {
		toPlan := pl.extraToPlan(p, month)
		if toPlan <= 0 {
			continue
		}
		if opts.MaxPerPersonPerMonth > 0 && toPlan > opts.MaxPerPersonPerMonth {
			toPlan = opts.MaxPerPersonPerMonth
		}

		dates := pl.placeFor(proposed, month, p, toPlan, opts)
		if len(dates) > 0 {
			planned = append(planned, PlannedPerson{PersonID: p.ID, Dates: dates})
		}
		if len(dates) < toPlan {
			unplanned = append(unplanned, UnplannedPerson{PersonID: p.ID, Remaining: toPlan - len(dates)})
		}
	}

	notes := fmt.Sprintf("extra-day plan %d-%02d: %d people planned, %d with remainder",
		opts.Year, int(opts.Month), len(planned), len(unplanned))

	return PlanResult{ProposedState: proposed, Planned: planned, Unplanned: unplanned, Notes: notes}, nil
}

// extraToPlan is the person's spendable balance for the month:
// starting balance plus red days worked, minus extra days already
// taken. Mirrors the stats engine's bookkeeping.
func (pl *Planner) extraToPlan(p domain.Person, month *domain.Month) int {
	balance := p.ExtraDayBalance
	for _, day := range month.Days {
		e, ok := day.EntryFor(p.ID)
		if !ok {
			continue
		}
		switch {
		case e.IsWorking() && pl.Calendar != nil && pl.Calendar.IsRedDay(day.Date):
			balance++
		case e.Status == domain.StatusExtraDay:
			balance--
		}
	}
	return balance
}

// =============================================================================
// PLACEMENT
// =============================================================================

type plannerCandidate struct {
	dayIndex int
	date     domain.Date
	score    int
}

func (pl *Planner) placeFor(proposed *domain.State, month *domain.Month, p domain.Person, want int, opts PlanOptions) []domain.Date {
	candidates := pl.rankCandidates(month, p, opts)

	var chosen []domain.Date

	// First pass: greedy with the spacing constraint.
	for _, c := range candidates {
		if len(chosen) == want {
			break
		}
		if !spacedFrom(chosen, c.date) {
			continue
		}
		if pl.tryPlace(proposed, month, c.dayIndex, p, opts) {
			chosen = append(chosen, c.date)
		}
	}

	// Second pass: fill the remainder ignoring spacing.
	if len(chosen) < want {
		for _, c := range candidates {
			if len(chosen) == want {
				break
			}
			if containsDate(chosen, c.date) {
				continue
			}
			if pl.tryPlace(proposed, month, c.dayIndex, p, opts) {
				chosen = append(chosen, c.date)
			}
		}
	}

	return chosen
}

// rankCandidates scores the month's placeable days for the person,
// highest first.
func (pl *Planner) rankCandidates(month *domain.Month, p domain.Person, opts PlanOptions) []plannerCandidate {
	var out []plannerCandidate
	for di := range month.Days {
		day := &month.Days[di]

		e, hasEntry := day.EntryFor(p.ID)
		if hasEntry && (domain.ProtectedStatuses[e.Status] || e.Status == domain.StatusExtraDay) {
			continue
		}

		score := 0
		if opts.PreferWeekdays && day.Date.WeekdayIndex() < 5 {
			score += 1000
		}
		if hasEntry && e.IsWorking() {
			score += 100
		}
		score -= day.Date.Day()

		out = append(out, plannerCandidate{dayIndex: di, date: day.Date, score: score})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].score > out[j].score })
	return out
}

// tryPlace trial-inserts the X entry (replacing a working entry when
// present) and keeps it only if the evaluator raises no P0 for the
// person. A rejected date restores the day untouched.
func (pl *Planner) tryPlace(proposed *domain.State, month *domain.Month, dayIndex int, p domain.Person, opts PlanOptions) bool {
	day := &month.Days[dayIndex]

	replaced := -1
	var prev domain.Entry
	for i, e := range day.Entries {
		if e.PersonID == p.ID {
			if domain.ProtectedStatuses[e.Status] || e.Status == domain.StatusExtraDay {
				return false
			}
			replaced = i
			prev = e
			break
		}
	}

	entry := domain.Entry{PersonID: p.ID, Status: domain.StatusExtraDay}
	if replaced >= 0 {
		day.Entries[replaced] = entry
	} else {
		day.Entries = append(day.Entries, entry)
	}

	warnings := pl.Evaluator.Evaluate(proposed, opts.Year, opts.Month)
	if hasP0For(warnings, p.ID) {
		// Revert.
		if replaced >= 0 {
			day.Entries[replaced] = prev
		} else {
			day.Entries = day.Entries[:len(day.Entries)-1]
		}
		return false
	}
	return true
}

// =============================================================================
// SMALL HELPERS
// =============================================================================

func spacedFrom(chosen []domain.Date, date domain.Date) bool {
	for _, c := range chosen {
		gap := c.DaysBetween(date)
		if gap < 0 {
			gap = -gap
		}
		if gap < minSpacingDays {
			return false
		}
	}
	return true
}

func containsDate(dates []domain.Date, d domain.Date) bool {
	for _, x := range dates {
		if x.Equal(d) {
			return true
		}
	}
	return false
}
