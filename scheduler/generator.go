/*
Package scheduler implements the schedule generation strategies.

PURPOSE:
  Three strategies fill demand with people, all built on the rules
  package's eligibility and scoring:

  Generator (this file):
    The flat-list variant. Iterates a date range, ranks eligible
    candidates per (group x shift) slot, and emits a flat list of
    assignment records with denormalized display fields. Shortfalls
    are logged and left unfilled; no vacancy records are emitted.

  Engine (engine.go):
    The role-based variant. Operates on the persisted Month/Day/Entry
    tree via a deep clone, fills role slots in priority order using
    trial-insertion against a RuleEvaluator, honors per-person
    fairness targets, and records explicit EXTRA vacancies.

  Planner (planner.go):
    Converts banked extra days (earned by red-day work) into scheduled
    X entries, with weekday preference and spacing constraints.

ERROR DESIGN:
  Preconditions fail fast with everything wrong aggregated into one
  error list; a single invalid employee aborts generation but is
  reported alongside every other invalid one. Shortfalls and rejected
  trial placements during a run are never fatal.

SEQUENTIAL FILL:
  Assignment is date-ordered: each day's placements join the running
  list that feeds the next day's weekly-hour calculations. The result
  is deterministic but not globally optimized.
*/
package scheduler

import (
	"fmt"
	"log"
	"time"

	"github.com/skiftet/schedule-engine/domain"
	"github.com/skiftet/schedule-engine/hrrules"
	"github.com/skiftet/schedule-engine/rules"
)

// =============================================================================
// REQUEST / RESULT
// =============================================================================

type Mode string

const (
	ModeMonth  Mode = "month"
	ModePeriod Mode = "period"
)

// MaxPeriodDays caps period-mode generation (inclusive day count).
const MaxPeriodDays = 93

type Request struct {
	Mode  Mode
	Year  int
	Month time.Month // month mode

	FromDate domain.Date // period mode
	ToDate   domain.Date

	Groups []domain.Group
	Shifts []domain.Shift
	Demand domain.Demand
	People []domain.Person
}

// Assignment is one generated shift, with denormalized display fields
// for downstream consumers.
type Assignment struct {
	Date       domain.Date
	PersonID   string
	PersonName string
	GroupID    string
	GroupName  string
	ShiftID    string
	ShiftName  string
	Start      *domain.ClockTime
	End        *domain.ClockTime
}

type Result struct {
	Success bool
	Shifts  []Assignment
	Message string
	Errors  []string
}

// =============================================================================
// GENERATOR
// =============================================================================

type Generator struct {
	Rules *rules.Evaluator
}

func NewGenerator(ev *rules.Evaluator) *Generator {
	return &Generator{Rules: ev}
}

// Generate runs the flat-list strategy. Precondition failures return
// success=false with every problem listed; they never panic.
func (g *Generator) Generate(req Request) Result {
	from, to, errs := g.validate(req)
	if len(errs) > 0 {
		return Result{
			Success: false,
			Shifts:  []Assignment{},
			Message: "schedule generation aborted",
			Errors:  errs,
		}
	}

	var (
		generated []Assignment
		assigned  []rules.AssignedShift
		unfilled  int
	)

	for date := from; date.BeforeOrEqual(to); date = date.AddDays(1) {
		weekday := date.WeekdayIndex()

		for _, group := range req.Groups {
			needed := req.Demand.ForGroup(group.ID)[weekday]
			if needed == 0 {
				continue
			}

			for _, shift := range req.Shifts {
				if !group.HasShift(shift.ID) {
					continue
				}

				ranked := g.Rules.EligibleRanked(req.People, shift, group, date, assigned)
				take := needed
				if len(ranked) < take {
					// Shortfall is logged, not an error, in this variant.
					log.Printf("[generator] %s %s/%s: %d of %d slots unfilled",
						date, group.Name, shift.Name, take-len(ranked), take)
					unfilled += take - len(ranked)
					take = len(ranked)
				}

				for i := 0; i < take; i++ {
					p := ranked[i].Person
					generated = append(generated, Assignment{
						Date:       date,
						PersonID:   p.ID,
						PersonName: p.Name(),
						GroupID:    group.ID,
						GroupName:  group.Name,
						ShiftID:    shift.ID,
						ShiftName:  shift.Name,
						Start:      shift.Start,
						End:        shift.End,
					})
					assigned = append(assigned, rules.AssignedShift{
						PersonID: p.ID,
						Date:     date,
						Start:    shift.Start,
						End:      shift.End,
					})
				}
			}
		}
	}

	msg := fmt.Sprintf("generated %d shifts for %s to %s", len(generated), from, to)
	if unfilled > 0 {
		msg += fmt.Sprintf(" (%d slots unfilled)", unfilled)
	}
	return Result{Success: true, Shifts: generated, Message: msg, Errors: nil}
}

// =============================================================================
// VALIDATION - Fail fast, aggregate everything
// =============================================================================

func (g *Generator) validate(req Request) (from, to domain.Date, errs []string) {
	switch req.Mode {
	case ModeMonth:
		if req.Year == 0 || req.Month < time.January || req.Month > time.December {
			errs = append(errs, fmt.Sprintf("invalid month %d-%d", req.Year, int(req.Month)))
		} else {
			from = domain.NewDate(req.Year, req.Month, 1)
			to = domain.NewDate(req.Year, req.Month, domain.DaysInMonth(req.Year, req.Month))
		}
	case ModePeriod:
		switch {
		case req.FromDate.IsZero() || req.ToDate.IsZero():
			errs = append(errs, "period mode requires fromDate and toDate")
		case req.ToDate.Before(req.FromDate):
			errs = append(errs, "period end is before period start")
		case req.FromDate.DaysBetween(req.ToDate)+1 > MaxPeriodDays:
			errs = append(errs, fmt.Sprintf("period too long: %d days exceeds the %d day limit",
				req.FromDate.DaysBetween(req.ToDate)+1, MaxPeriodDays))
		default:
			from, to = req.FromDate, req.ToDate
		}
	default:
		errs = append(errs, fmt.Sprintf("invalid mode %q: must be month or period", req.Mode))
	}

	if len(req.Groups) == 0 {
		errs = append(errs, "no groups to schedule")
	}
	if len(req.Shifts) == 0 {
		errs = append(errs, "no shift templates to schedule")
	}
	if len(req.People) == 0 {
		errs = append(errs, "no people to schedule")
	}

	for _, p := range req.People {
		errs = append(errs, validatePersonForScheduling(p)...)
	}
	return from, to, errs
}

// validatePersonForScheduling aggregates every problem with a person
// record; one broken employee never hides another.
func validatePersonForScheduling(p domain.Person) []string {
	var errs []string
	name := p.Name()
	if name == "" {
		name = p.ID
	}

	if len(p.Groups) == 0 {
		errs = append(errs, fmt.Sprintf("%s: no group assignment", name))
	}
	if len(p.Availability) != 7 {
		errs = append(errs, fmt.Sprintf("%s: availability not defined", name))
	}
	if p.WorkdaysPerWeek < 1 || p.WorkdaysPerWeek > 7 {
		errs = append(errs, fmt.Sprintf("%s: workdays per week %d outside [1,7]", name, p.WorkdaysPerWeek))
	}

	// Start date, employment percentage and sector are the HR rules'
	// concern; their findings are folded into the same list.
	if ok, hrErrs := hrrules.ValidatePerson(p, p.Sector, domain.Today()); !ok {
		for _, e := range hrErrs {
			errs = append(errs, fmt.Sprintf("%s: %s", name, e))
		}
	}
	return errs
}
