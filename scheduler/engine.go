/*
engine.go - Role-based schedule engine (v2)

PURPOSE:
  Generates a month directly in the persisted Month/Day/Entry tree.
  Works on a deep clone ("proposed state") so the caller decides
  whether to commit. Regeneration is idempotent: all prior working
  (A) and vacancy (EXTRA) entries for the month are cleared first.

FAIRNESS:
  Each active person gets a target day count proportional to their
  employment percentage:

      target = round(totalDemandDays * pct / sum of all pcts)

  totalDemandDays defaults to daysInMonth * uniformDemandWeight, a
  uniform weighting inherited from the original design rather than a
  demand-derived sum. RunOptions.UseDemandTotals switches to the true
  per-day demand sum.

SLOT FILLING:
  Demand is read from the weekday-indexed role template. Slots fill in
  a fixed role-priority order (SYSTEM, ADMIN, DISH, KITCHEN, PACK) so
  scarce roles are staffed first. The first KITCHEN slot of a day is a
  core slot restricted to the designated core-person list. Each
  candidate is trial-inserted and the month re-checked through the
  RuleEvaluator; any P0 violation for that person rejects the trial.
  Among the survivors the one furthest below their fairness target
  wins. Unfillable slots become EXTRA placeholder entries and count as
  vacancies.
*/
package scheduler

import (
	"fmt"
	"math"
	"time"

	"github.com/skiftet/schedule-engine/domain"
)

// uniformDemandWeight is the placeholder per-day demand weight used
// for fairness targets when demand totals are not derived from the
// actual template. Kept as the documented default.
const uniformDemandWeight = 7

// =============================================================================
// OPTIONS / RESULT
// =============================================================================

type RunOptions struct {
	Year  int
	Month time.Month
	Mode  Mode // informational; the engine always works month-wise

	// UseDemandTotals derives fairness targets from the actual demand
	// template instead of the uniform weighting.
	UseDemandTotals bool
}

type Vacancy struct {
	Date  domain.Date
	Role  domain.Role
	Count int
}

type RunResult struct {
	ProposedState *domain.State
	Vacancies     []Vacancy
	Notes         string
	FillRate      float64
	TotalSlots    int
	FilledSlots   int
}

// =============================================================================
// ENGINE
// =============================================================================

type Engine struct {
	Evaluator RuleEvaluator
}

func NewEngine(ev RuleEvaluator) *Engine {
	return &Engine{Evaluator: ev}
}

// Generate fills the month's demand in a cloned state. The caller
// owns committing ProposedState back to storage.
func (e *Engine) Generate(state *domain.State, opts RunOptions) (RunResult, error) {
	if state.Schedule.Year != opts.Year {
		return RunResult{}, &domain.ScheduleShapeError{Year: opts.Year,
			Detail: fmt.Sprintf("schedule holds year %d", state.Schedule.Year)}
	}

	proposed := state.Clone()
	month := proposed.Schedule.MonthAt(opts.Month)
	if month == nil {
		return RunResult{}, &domain.ScheduleShapeError{Year: opts.Year, Month: opts.Month,
			Detail: "month out of range"}
	}

	clearGenerated(month)

	people := proposed.ActivePeople()
	targets := fairnessTargets(people, proposed.Demand, len(month.Days), opts.UseDemandTotals)
	assignedDays := make(map[string]int)

	var (
		vacancies   []Vacancy
		totalSlots  int
		filledSlots int
	)

	for di := range month.Days {
		day := &month.Days[di]
		weekday := day.Date.WeekdayIndex()

		for _, role := range domain.RolePriority {
			needed := proposed.Demand.ForRole(role)[weekday]

			for slot := 0; slot < needed; slot++ {
				totalSlots++
				coreSlot := role == domain.RoleKitchen && slot == 0

				winner, ok := e.pickCandidate(proposed, month, day, role, coreSlot, people, targets, assignedDays, opts)
				if !ok {
					day.Entries = append(day.Entries, domain.Entry{
						Status: domain.StatusVacancy,
						Role:   role,
					})
					vacancies = addVacancy(vacancies, day.Date, role)
					continue
				}

				day.Entries = append(day.Entries, domain.Entry{
					PersonID: winner,
					Status:   domain.StatusWork,
					Role:     role,
				})
				assignedDays[winner]++
				filledSlots++
			}
		}
	}

	fillRate := 0.0
	if totalSlots > 0 {
		fillRate = float64(filledSlots) / float64(totalSlots)
	}

	notes := fmt.Sprintf("engine run %d-%02d: %d/%d slots filled (%.0f%%), %d vacancy groups",
		opts.Year, int(opts.Month), filledSlots, totalSlots, fillRate*100, len(vacancies))

	return RunResult{
		ProposedState: proposed,
		Vacancies:     vacancies,
		Notes:         notes,
		FillRate:      fillRate,
		TotalSlots:    totalSlots,
		FilledSlots:   filledSlots,
	}, nil
}

// pickCandidate trial-inserts every qualified person and returns the
// survivor furthest below their fairness target.
func (e *Engine) pickCandidate(
	proposed *domain.State,
	month *domain.Month,
	day *domain.Day,
	role domain.Role,
	coreSlot bool,
	people []domain.Person,
	targets map[string]int,
	assignedDays map[string]int,
	opts RunOptions,
) (string, bool) {
	bestID := ""
	bestGap := math.Inf(-1)

	for _, p := range people {
		if !p.HasSkill(role) {
			continue
		}
		if coreSlot && !p.Core {
			continue
		}
		if day.HasEntryFor(p.ID) {
			continue
		}

		// Trial insertion: keep only if no P0 lands on this person.
		day.Entries = append(day.Entries, domain.Entry{
			PersonID: p.ID,
			Status:   domain.StatusWork,
			Role:     role,
		})
		warnings := e.Evaluator.Evaluate(proposed, opts.Year, opts.Month)
		day.Entries = day.Entries[:len(day.Entries)-1]

		if hasP0For(warnings, p.ID) {
			continue
		}

		gap := float64(targets[p.ID] - assignedDays[p.ID])
		if gap > bestGap {
			bestGap = gap
			bestID = p.ID
		}
	}

	return bestID, bestID != ""
}

// =============================================================================
// FAIRNESS TARGETS
// =============================================================================

func fairnessTargets(people []domain.Person, demand domain.Demand, daysInMonth int, useDemandTotals bool) map[string]int {
	totalDemandDays := daysInMonth * uniformDemandWeight
	if useDemandTotals {
		totalDemandDays = 0
		for _, row := range demand.ByRole {
			for _, n := range row {
				// Each weekday recurs roughly 1/7 of the month.
				totalDemandDays += n * daysInMonth / 7
			}
		}
	}

	sumPct := 0
	for _, p := range people {
		sumPct += p.EmploymentPct
	}

	targets := make(map[string]int, len(people))
	if sumPct == 0 {
		return targets
	}
	for _, p := range people {
		targets[p.ID] = int(math.Round(float64(totalDemandDays) * float64(p.EmploymentPct) / float64(sumPct)))
	}
	return targets
}

// =============================================================================
// HELPERS
// =============================================================================

// clearGenerated removes prior A and EXTRA entries so regeneration is
// idempotent; manual absences and protected statuses survive.
func clearGenerated(month *domain.Month) {
	for di := range month.Days {
		day := &month.Days[di]
		kept := day.Entries[:0]
		for _, e := range day.Entries {
			if e.Status == domain.StatusWork || e.Status == domain.StatusVacancy {
				continue
			}
			kept = append(kept, e)
		}
		day.Entries = kept
	}
}

func addVacancy(vacancies []Vacancy, date domain.Date, role domain.Role) []Vacancy {
	for i := range vacancies {
		if vacancies[i].Date.Equal(date) && vacancies[i].Role == role {
			vacancies[i].Count++
			return vacancies
		}
	}
	return append(vacancies, Vacancy{Date: date, Role: role, Count: 1})
}
