/*
Package rules implements shift eligibility and candidate scoring.

PURPOSE:
  Answers the central question "may person P work shift S on date D",
  and ranks the eligible candidates with a fitness score so generators
  can fill demand slots with the best match first.

ELIGIBILITY (all must hold):
  1. Not on a vacation or leave date.
  2. Available on that weekday (Monday-indexed availability array;
     an absent array fails closed).
  3. Member of the slot's group.
  4. Shift duration fits the person's daily hours: 8h * pct/100.
  5. Adding the shift keeps the Mon-Sun week under the weekly cap:
     workdaysPerWeek * 8h * pct/100.

SCORING (eligible candidates only, base 100):
  +50  the shift's hours land within 1h of the remaining weekly-hour
       budget ("perfect fit")
  +20  fewer than 2h of budget left after the shift ("good
       utilization")
  +10  the date is a red day — rewards fair rotation of undesirable
       days. A parallel implementation used to subtract points for a
       high vacation balance instead; that heuristic was dropped and
       the rotation bonus kept.
  Ineligible candidates score exactly -1.

RANKING:
  Descending score; ties keep the order people were supplied (stable
  sort), which makes generation deterministic.

SEE ALSO:
  - scheduler: feeds its running assignment list back in so weekly
    hours reflect what the generator has already placed
  - holidays:  red-day lookup
*/
package rules

import (
	"sort"

	"github.com/skiftet/schedule-engine/domain"
	"github.com/skiftet/schedule-engine/holidays"
)

// =============================================================================
// EVALUATOR
// =============================================================================

type Evaluator struct {
	Calendar *holidays.Calendar
}

func NewEvaluator(cal *holidays.Calendar) *Evaluator {
	return &Evaluator{Calendar: cal}
}

// =============================================================================
// ASSIGNED SHIFT - What the generator has placed so far
// =============================================================================

// AssignedShift is a placed assignment; the slice of these is the
// generator's running output, fed back in for weekly-hour tracking.
type AssignedShift struct {
	PersonID string
	Date     domain.Date
	Start    *domain.ClockTime
	End      *domain.ClockTime
}

// Hours returns the assignment length in hours, wrapping past
// midnight. Flexible assignments count as 0.
func (a AssignedShift) Hours() float64 {
	if a.Start == nil || a.End == nil {
		return 0
	}
	return float64(domain.SpanMinutes(*a.Start, *a.End)) / 60
}

// HoursWorkedInWeek sums the person's assigned hours in the Mon-Sun
// week containing date.
func HoursWorkedInWeek(assigned []AssignedShift, personID string, date domain.Date) float64 {
	weekStart := date.StartOfWeek()
	weekEnd := weekStart.AddDays(6)

	total := 0.0
	for _, a := range assigned {
		if a.PersonID != personID {
			continue
		}
		if a.Date.AfterOrEqual(weekStart) && a.Date.BeforeOrEqual(weekEnd) {
			total += a.Hours()
		}
	}
	return total
}

// =============================================================================
// HOUR BUDGETS
// =============================================================================

// DailyHours is the person's available hours on a single day.
func DailyHours(p domain.Person) float64 {
	return 8 * float64(p.EmploymentPct) / 100
}

// WeeklyHours is the person's weekly-hour cap.
func WeeklyHours(p domain.Person) float64 {
	return float64(p.WorkdaysPerWeek) * 8 * float64(p.EmploymentPct) / 100
}

// =============================================================================
// ELIGIBILITY
// =============================================================================

// CanWorkShift reports whether the person may work the shift for the
// group on the date, given hours already worked in that week.
func (ev *Evaluator) CanWorkShift(p domain.Person, shift domain.Shift, group domain.Group, date domain.Date, hoursThisWeek float64) bool {
	if p.OnVacation(date) || p.OnLeave(date) {
		return false
	}
	if !p.AvailableOn(date) {
		return false
	}
	if !p.InGroup(group.ID) {
		return false
	}

	duration := shift.DurationHours()
	if duration > DailyHours(p) {
		return false
	}
	if hoursThisWeek+duration > WeeklyHours(p) {
		return false
	}
	return true
}

// =============================================================================
// SCORING
// =============================================================================

const (
	baseScore            = 100
	perfectFitBonus      = 50
	goodUtilizationBonus = 20
	redDayBonus          = 10

	// IneligibleScore is the sentinel returned for anyone failing
	// CanWorkShift.
	IneligibleScore = -1
)

// ScoreShift returns the fitness score for assigning the shift, or
// IneligibleScore when CanWorkShift fails.
func (ev *Evaluator) ScoreShift(p domain.Person, shift domain.Shift, group domain.Group, date domain.Date, hoursThisWeek float64) int {
	if !ev.CanWorkShift(p, shift, group, date, hoursThisWeek) {
		return IneligibleScore
	}

	score := baseScore
	duration := shift.DurationHours()
	budgetLeft := WeeklyHours(p) - hoursThisWeek

	diff := budgetLeft - duration
	if diff >= -1 && diff <= 1 {
		score += perfectFitBonus
	}
	if diff < 2 {
		score += goodUtilizationBonus
	}
	if ev.Calendar != nil && ev.Calendar.IsRedDay(date) {
		score += redDayBonus
	}
	return score
}

// =============================================================================
// RANKING
// =============================================================================

// Candidate is an eligible person with their score and the weekly
// hours used to compute it.
type Candidate struct {
	Person        domain.Person
	Score         int
	HoursThisWeek float64
}

// EligibleRanked filters people to those who can work the slot and
// returns them ordered by descending score. The sort is stable: ties
// keep the supplied roster order.
func (ev *Evaluator) EligibleRanked(people []domain.Person, shift domain.Shift, group domain.Group, date domain.Date, assigned []AssignedShift) []Candidate {
	var out []Candidate
	for _, p := range people {
		hours := HoursWorkedInWeek(assigned, p.ID, date)
		score := ev.ScoreShift(p, shift, group, date, hours)
		if score == IneligibleScore {
			continue
		}
		out = append(out, Candidate{Person: p, Score: score, HoursThisWeek: hours})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}
