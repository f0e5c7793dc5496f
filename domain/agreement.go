/*
agreement.go - Collective agreement reference data

PURPOSE:
  Static reference data for the agreements the rosters operate under:
  wage floors by experience tier, the red-day shift differential, the
  baseline vacation entitlement. Immutable, looked up by id.

MONEY:
  Wages and differentials use decimal.Decimal; floating point is never
  used for money anywhere in the repository.

SEE ALSO:
  - factory:  builds agreements from JSON config, ships the HRF and
              Kommunal defaults
  - stats:    uses wage tiers and the OB rate for the cost summary
*/
package domain

import "github.com/shopspring/decimal"

// WageTier is a minimum-wage row: applies from the given experience
// years until the next tier.
type WageTier struct {
	FromYears     int
	MonthlySalary decimal.Decimal
	HourlyWage    decimal.Decimal
}

// CollectiveAgreement is the static ruleset for one sector.
type CollectiveAgreement struct {
	ID     string
	Name   string
	Sector Sector

	// Minimum wage tiers ordered by FromYears ascending.
	WageTiers []WageTier

	// OBRedDayRate is the shift-differential multiplier applied to
	// hours worked on red days (e.g. 1.5 = +50%).
	OBRedDayRate decimal.Decimal

	// Baseline entitlement; the hrrules tenure tables refine this.
	VacationDaysPerYear int

	// RedDayCompensation: working a red day banks an extra day off.
	RedDayCompensation bool
}

// HourlyWageFor returns the wage floor for the given experience,
// taking the highest tier at or below yearsExperience. An agreement
// with no tiers fails closed to zero.
func (a CollectiveAgreement) HourlyWageFor(yearsExperience int) decimal.Decimal {
	wage := decimal.Zero
	for _, tier := range a.WageTiers {
		if yearsExperience >= tier.FromYears {
			wage = tier.HourlyWage
		}
	}
	return wage
}
