/*
cost.go - Wage cost summary

PURPOSE:
  Prices a month of worked hours against a collective agreement's wage
  floor tables. Red-day hours carry the agreement's OB (shift
  differential) premium on top of the base rate.

  All money math uses decimal arithmetic; hours enter as decimals and
  nothing is rounded until presentation.
*/
package stats

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/skiftet/schedule-engine/domain"
	"github.com/skiftet/schedule-engine/hrrules"
)

// =============================================================================
// RESULT TYPES
// =============================================================================

type PersonCost struct {
	PersonID    string
	Name        string
	HoursWorked float64
	RedDayHours float64

	HourlyWage decimal.Decimal
	BasePay    decimal.Decimal
	OBPremium  decimal.Decimal
	TotalPay   decimal.Decimal
}

type CostSummary struct {
	Year      int
	Month     time.Month
	Agreement string
	ByPerson  map[string]PersonCost
	TotalPay  decimal.Decimal
}

// =============================================================================
// CALCULATION
// =============================================================================

// CostSummary prices the month's working entries. Each person's wage
// tier follows their tenure as of the end of the month. People with an
// unpriceable wage (no matching tier) contribute zero cost but still
// appear, so a gap in the wage table is visible instead of silent.
func (c *Calculator) CostSummary(state *domain.State, agreement domain.CollectiveAgreement, year int, month time.Month) CostSummary {
	summary := CostSummary{
		Year:      year,
		Month:     month,
		Agreement: agreement.ID,
		ByPerson:  make(map[string]PersonCost),
		TotalPay:  decimal.Zero,
	}
	if state == nil || state.Schedule.Year != year {
		return summary
	}
	m := state.Schedule.MonthAt(month)
	if m == nil {
		return summary
	}

	asOf := domain.NewDate(year, month, domain.DaysInMonth(year, month))

	for _, p := range state.ActivePeople() {
		acc := c.accumulate(m, state.Settings, p.ID)

		years := hrrules.YearsEmployed(p.StartDate, p.Sector, asOf)
		wage := agreement.HourlyWageFor(years)

		base := decimal.NewFromFloat(acc.hours).Mul(wage)

		// Premium = red-day hours * wage * (rate - 1). A rate at or
		// below 1 prices no premium.
		premium := decimal.Zero
		extraRate := agreement.OBRedDayRate.Sub(decimal.NewFromInt(1))
		if extraRate.IsPositive() && acc.redHours > 0 {
			premium = decimal.NewFromFloat(acc.redHours).Mul(wage).Mul(extraRate)
		}

		total := base.Add(premium)
		summary.ByPerson[p.ID] = PersonCost{
			PersonID:    p.ID,
			Name:        p.Name(),
			HoursWorked: acc.hours,
			RedDayHours: acc.redHours,
			HourlyWage:  wage,
			BasePay:     base,
			OBPremium:   premium,
			TotalPay:    total,
		}
		summary.TotalPay = summary.TotalPay.Add(total)
	}
	return summary
}
