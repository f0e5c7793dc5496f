/*
Package hrrules implements Swedish collective-agreement vacation rules.

PURPOSE:
  Computes vacation entitlement, accrual-to-date and remaining balance
  for a person under HRF (private hospitality) or Kommunal (municipal)
  rules, and validates person records against agreement minimums.

KEY CONCEPTS:
  Vacation year:
    A sector-specific 12-month entitlement window, distinct from the
    calendar year. Starts April 1 for the private sector and June 1
    for the municipal sector. A date before the start month belongs to
    the previous vacation year.

  Entitlement tables:
    Two independent tables exist per sector, keyed by tenure bracket
    (0-2, 2-5, 5+ years):
    - FULLTIME: days for a 100% position. At reduced employment
      percentage the value is pro-rated: round(base * pct / 100).
    - PARTTIME: day counts already adjusted for a typical part-time
      degree. Used as-is, NEVER multiplied by the employment
      percentage again (the double-scaling bug this table exists to
      prevent).
    The municipal sector additionally applies age-banded overlays
    (40+, 50+) on top of the tenure bracket, for both tables.

  Accrual:
    Entitlement is earned across a calculation period from the start
    of the vacation year: 26 weeks for full-time, 16 for part-time.
    Accrued = floor(entitlement * weeksElapsed / periodWeeks), capped
    at the full entitlement.

ERROR POLICY:
  Fail closed. Zero/unparseable dates yield 0, never a panic.
  Validation accumulates error strings instead of short-circuiting so
  a single bad field never hides the others.

SEE ALSO:
  - rules:     consumes vacation dates for eligibility
  - api:       exposes the per-person vacation view and the
               vacation-year rollover scheduler
*/
package hrrules

import (
	"fmt"
	"math"
	"time"

	"github.com/skiftet/schedule-engine/domain"
)

// =============================================================================
// VACATION YEAR
// =============================================================================

// VacationYearStartMonth returns the month the sector's vacation year
// begins. Unknown sectors fail closed to the private-sector rule.
func VacationYearStartMonth(sector domain.Sector) time.Month {
	if sector == domain.SectorMunicipal {
		return time.June
	}
	return time.April
}

// VacationYearStart returns the first day of the vacation year that
// contains the given date.
func VacationYearStart(sector domain.Sector, date domain.Date) domain.Date {
	startMonth := VacationYearStartMonth(sector)
	year := date.Year()
	if date.Month() < startMonth {
		year--
	}
	return domain.NewDate(year, startMonth, 1)
}

// VacationYearLabel returns the "YYYY-YYYY+1" label of the vacation
// year containing the date.
func VacationYearLabel(sector domain.Sector, date domain.Date) string {
	start := VacationYearStart(sector, date)
	return fmt.Sprintf("%d-%d", start.Year(), start.Year()+1)
}

// YearsEmployed computes tenure as vacation-year distance: both dates
// are mapped to their vacation-year starting year and the difference
// is returned. A zero start date fails closed to 0.
func YearsEmployed(startDate domain.Date, sector domain.Sector, today domain.Date) int {
	if startDate.IsZero() || today.IsZero() {
		return 0
	}
	return VacationYearStart(sector, today).Year() - VacationYearStart(sector, startDate).Year()
}

// =============================================================================
// ENTITLEMENT TABLES
// =============================================================================

// Tenure brackets: <2 years, <5 years, 5 and up.
type bracket int

const (
	bracket0to2 bracket = iota
	bracket2to5
	bracket5plus
)

func bracketFor(yearsEmployed int) bracket {
	switch {
	case yearsEmployed < 2:
		return bracket0to2
	case yearsEmployed < 5:
		return bracket2to5
	default:
		return bracket5plus
	}
}

// Days per year for a 100% position, by sector and tenure bracket.
var fulltimeTable = map[domain.Sector][3]int{
	domain.SectorPrivate:   {25, 28, 31},
	domain.SectorMunicipal: {25, 28, 31},
}

// Pre-adjusted part-time day counts. Already scaled for a typical
// part-time degree; used as-is.
var parttimeTable = map[domain.Sector][3]int{
	domain.SectorPrivate:   {16, 18, 20},
	domain.SectorMunicipal: {16, 18, 20},
}

// Municipal age overlays: minimum entitlement from the given age,
// applied on top of the tenure bracket. The private sector has none.
type ageOverlay struct {
	fromAge  int
	fulltime int
	parttime int
}

var municipalAgeOverlays = []ageOverlay{
	{fromAge: 40, fulltime: 31, parttime: 20},
	{fromAge: 50, fulltime: 32, parttime: 21},
}

// VacationDaysPerYear returns the annual entitlement from the FULLTIME
// table, pro-rated for a reduced employment percentage. Age 0 means
// unknown. Unknown sectors fail closed to 0.
func VacationDaysPerYear(yearsEmployed, employmentPct int, sector domain.Sector, age int) int {
	tiers, ok := fulltimeTable[sector]
	if !ok {
		return 0
	}
	base := tiers[bracketFor(yearsEmployed)]
	if sector == domain.SectorMunicipal {
		for _, o := range municipalAgeOverlays {
			if age >= o.fromAge && o.fulltime > base {
				base = o.fulltime
			}
		}
	}
	if employmentPct > 0 && employmentPct < 100 {
		return int(math.Round(float64(base) * float64(employmentPct) / 100))
	}
	return base
}

// PartTimeTableDays returns the pre-adjusted PARTTIME table value.
// The value is final: callers must not scale it by the employment
// percentage.
func PartTimeTableDays(yearsEmployed int, sector domain.Sector, age int) int {
	tiers, ok := parttimeTable[sector]
	if !ok {
		return 0
	}
	days := tiers[bracketFor(yearsEmployed)]
	if sector == domain.SectorMunicipal {
		for _, o := range municipalAgeOverlays {
			if age >= o.fromAge && o.parttime > days {
				days = o.parttime
			}
		}
	}
	return days
}

// =============================================================================
// ACCRUAL
// =============================================================================

const (
	fulltimePeriodWeeks = 26
	parttimePeriodWeeks = 16
)

// AccumulatedVacationDays returns how many of the year's entitlement
// days have been earned by today, proportional to weeks elapsed since
// the vacation year started and capped at the full entitlement.
func AccumulatedVacationDays(p domain.Person, sector domain.Sector, today domain.Date) int {
	if p.StartDate.IsZero() || today.IsZero() {
		return 0
	}
	entitlement := entitlementFor(p, sector, today)
	if entitlement == 0 {
		return 0
	}

	periodWeeks := fulltimePeriodWeeks
	if p.EmploymentPct < 100 {
		periodWeeks = parttimePeriodWeeks
	}

	yearStart := VacationYearStart(sector, today)
	// A person hired mid-year starts accruing at their start date.
	if p.StartDate.After(yearStart) {
		yearStart = p.StartDate
	}
	weeksElapsed := yearStart.DaysBetween(today) / 7
	if weeksElapsed < 0 {
		return 0
	}

	accrued := entitlement * weeksElapsed / periodWeeks
	if accrued > entitlement {
		accrued = entitlement
	}
	return accrued
}

// RemainingVacationDays returns entitlement plus days saved from the
// prior year minus days used this year, floored at 0.
func RemainingVacationDays(p domain.Person, sector domain.Sector, today domain.Date) int {
	remaining := entitlementFor(p, sector, today) + p.SavedVacationDays - p.UsedVacationDays
	if remaining < 0 {
		return 0
	}
	return remaining
}

func entitlementFor(p domain.Person, sector domain.Sector, today domain.Date) int {
	years := YearsEmployed(p.StartDate, sector, today)
	return VacationDaysPerYear(years, p.EmploymentPct, sector, p.Age)
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidatePerson checks a person record against agreement minimums.
// Failures accumulate; a record with three problems reports all three.
func ValidatePerson(p domain.Person, sector domain.Sector, today domain.Date) (bool, []string) {
	var errs []string

	if !domain.KnownSector(sector) {
		errs = append(errs, fmt.Sprintf("unknown sector %q", sector))
	}
	if p.StartDate.IsZero() {
		errs = append(errs, "start date is missing")
	} else if YearsEmployed(p.StartDate, sector, today) < 0 {
		errs = append(errs, "start date is in the future")
	}
	if p.EmploymentPct < 10 || p.EmploymentPct > 100 {
		errs = append(errs, fmt.Sprintf("employment percentage %d outside [10,100]", p.EmploymentPct))
	}

	return len(errs) == 0, errs
}

// =============================================================================
// VACATION YEAR ROLLOVER
// =============================================================================

// MaxCarryoverDays caps how many unused days roll into the next
// vacation year; days above the cap expire.
const MaxCarryoverDays = 5

// RolloverVacationYear carries unused days into SavedVacationDays (up
// to MaxCarryoverDays) and resets the used counter for the new
// vacation year. The input person is not mutated.
func RolloverVacationYear(p domain.Person, sector domain.Sector, today domain.Date) domain.Person {
	remaining := RemainingVacationDays(p, sector, today)
	if remaining > MaxCarryoverDays {
		remaining = MaxCarryoverDays
	}
	p.SavedVacationDays = remaining
	p.UsedVacationDays = 0
	return p
}
