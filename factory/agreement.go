/*
Package factory provides JSON to Go collective-agreement conversion.

PURPOSE:
  Converts JSON agreement definitions into domain.CollectiveAgreement
  values. Agreements are static reference data negotiated outside the
  system - HR can load a new wage table from JSON without a code
  change.

JSON SCHEMA:
  {
    "id": "hrf-private",
    "name": "HRF Gröna Riksavtalet",
    "sector": "private",
    "wage_tiers": [
      {"from_years": 0, "monthly_salary": "26548", "hourly_wage": "159.57"},
      {"from_years": 2, "monthly_salary": "26930", "hourly_wage": "161.87"}
    ],
    "ob_red_day_rate": "1.5",
    "vacation_days_per_year": 25,
    "red_day_compensation": true
  }

KEY FEATURES:
  - Validates sector and wage-table shape
  - Money fields are decimal strings, parsed without float rounding
  - Wage tiers are normalized to ascending tenure order
  - Ships the two built-in Swedish hospitality defaults

USAGE:
  f := factory.NewAgreementFactory()

  // From JSON
  agreement, err := f.Parse(jsonString)

  // Built-in defaults
  hrf, _ := f.Default("hrf-private")

SEE ALSO:
  - domain/agreement.go: CollectiveAgreement type and wage lookup
  - stats/cost.go: prices schedules against an agreement
*/
package factory

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/skiftet/schedule-engine/domain"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// AgreementJSON is the JSON representation of a collective agreement.
type AgreementJSON struct {
	ID                  string         `json:"id"`
	Name                string         `json:"name"`
	Sector              string         `json:"sector"`
	WageTiers           []WageTierJSON `json:"wage_tiers"`
	OBRedDayRate        string         `json:"ob_red_day_rate,omitempty"`
	VacationDaysPerYear int            `json:"vacation_days_per_year,omitempty"`
	RedDayCompensation  bool           `json:"red_day_compensation,omitempty"`
}

// WageTierJSON is one row of the wage floor table. Money fields are
// decimal strings.
type WageTierJSON struct {
	FromYears     int    `json:"from_years"`
	MonthlySalary string `json:"monthly_salary,omitempty"`
	HourlyWage    string `json:"hourly_wage"`
}

// =============================================================================
// AGREEMENT FACTORY
// =============================================================================

// AgreementFactory converts JSON agreements to domain structs.
type AgreementFactory struct{}

// NewAgreementFactory creates a new agreement factory.
func NewAgreementFactory() *AgreementFactory {
	return &AgreementFactory{}
}

// Parse parses a JSON string into a CollectiveAgreement.
func (f *AgreementFactory) Parse(jsonStr string) (domain.CollectiveAgreement, error) {
	var aj AgreementJSON
	if err := json.Unmarshal([]byte(jsonStr), &aj); err != nil {
		return domain.CollectiveAgreement{}, fmt.Errorf("failed to parse agreement JSON: %w", err)
	}
	return f.FromJSON(aj)
}

// FromJSON converts AgreementJSON to a CollectiveAgreement.
func (f *AgreementFactory) FromJSON(aj AgreementJSON) (domain.CollectiveAgreement, error) {
	if aj.ID == "" {
		return domain.CollectiveAgreement{}, fmt.Errorf("agreement id is required")
	}
	sector := domain.Sector(aj.Sector)
	if !domain.KnownSector(sector) {
		return domain.CollectiveAgreement{}, fmt.Errorf("agreement %s: %w: %q", aj.ID, domain.ErrUnknownSector, aj.Sector)
	}

	agreement := domain.CollectiveAgreement{
		ID:                  aj.ID,
		Name:                aj.Name,
		Sector:              sector,
		VacationDaysPerYear: aj.VacationDaysPerYear,
		RedDayCompensation:  aj.RedDayCompensation,
		OBRedDayRate:        decimal.NewFromInt(1),
	}

	if aj.OBRedDayRate != "" {
		rate, err := decimal.NewFromString(aj.OBRedDayRate)
		if err != nil {
			return domain.CollectiveAgreement{}, fmt.Errorf("agreement %s: invalid ob_red_day_rate: %w", aj.ID, err)
		}
		agreement.OBRedDayRate = rate
	}

	for _, tj := range aj.WageTiers {
		tier, err := parseWageTier(tj)
		if err != nil {
			return domain.CollectiveAgreement{}, fmt.Errorf("agreement %s: %w", aj.ID, err)
		}
		agreement.WageTiers = append(agreement.WageTiers, tier)
	}
	sort.SliceStable(agreement.WageTiers, func(i, j int) bool {
		return agreement.WageTiers[i].FromYears < agreement.WageTiers[j].FromYears
	})

	return agreement, nil
}

// ToJSON converts a CollectiveAgreement back to its JSON shape.
func (f *AgreementFactory) ToJSON(a domain.CollectiveAgreement) AgreementJSON {
	aj := AgreementJSON{
		ID:                  a.ID,
		Name:                a.Name,
		Sector:              string(a.Sector),
		OBRedDayRate:        a.OBRedDayRate.String(),
		VacationDaysPerYear: a.VacationDaysPerYear,
		RedDayCompensation:  a.RedDayCompensation,
	}
	for _, tier := range a.WageTiers {
		aj.WageTiers = append(aj.WageTiers, WageTierJSON{
			FromYears:     tier.FromYears,
			MonthlySalary: tier.MonthlySalary.String(),
			HourlyWage:    tier.HourlyWage.String(),
		})
	}
	return aj
}

func parseWageTier(tj WageTierJSON) (domain.WageTier, error) {
	if tj.FromYears < 0 {
		return domain.WageTier{}, fmt.Errorf("wage tier from_years must not be negative")
	}
	hourly, err := decimal.NewFromString(tj.HourlyWage)
	if err != nil {
		return domain.WageTier{}, fmt.Errorf("invalid hourly_wage: %w", err)
	}
	tier := domain.WageTier{FromYears: tj.FromYears, HourlyWage: hourly}
	if tj.MonthlySalary != "" {
		monthly, err := decimal.NewFromString(tj.MonthlySalary)
		if err != nil {
			return domain.WageTier{}, fmt.Errorf("invalid monthly_salary: %w", err)
		}
		tier.MonthlySalary = monthly
	}
	return tier, nil
}

// =============================================================================
// BUILT-IN DEFAULTS
// =============================================================================

// Wage floors follow the published 2025 tables rounded to whole kronor;
// a deployment loads exact figures from JSON.
const hrfPrivateJSON = `{
  "id": "hrf-private",
  "name": "HRF Gröna Riksavtalet",
  "sector": "private",
  "wage_tiers": [
    {"from_years": 0, "monthly_salary": "26548", "hourly_wage": "153"},
    {"from_years": 2, "monthly_salary": "27437", "hourly_wage": "158"},
    {"from_years": 5, "monthly_salary": "28690", "hourly_wage": "165"}
  ],
  "ob_red_day_rate": "2.0",
  "vacation_days_per_year": 25,
  "red_day_compensation": true
}`

const kommunalMunicipalJSON = `{
  "id": "kommunal-municipal",
  "name": "Kommunal AB-avtalet",
  "sector": "municipal",
  "wage_tiers": [
    {"from_years": 0, "monthly_salary": "25800", "hourly_wage": "149"},
    {"from_years": 2, "monthly_salary": "26700", "hourly_wage": "154"},
    {"from_years": 5, "monthly_salary": "27900", "hourly_wage": "161"}
  ],
  "ob_red_day_rate": "1.5",
  "vacation_days_per_year": 25,
  "red_day_compensation": true
}`

var builtinAgreements = map[string]string{
	"hrf-private":        hrfPrivateJSON,
	"kommunal-municipal": kommunalMunicipalJSON,
}

// Default returns a built-in agreement by id.
func (f *AgreementFactory) Default(id string) (domain.CollectiveAgreement, error) {
	raw, ok := builtinAgreements[id]
	if !ok {
		return domain.CollectiveAgreement{}, fmt.Errorf("%w: %q", domain.ErrAgreementNotFound, id)
	}
	return f.Parse(raw)
}

// Defaults returns all built-in agreements keyed by id.
func (f *AgreementFactory) Defaults() (map[string]domain.CollectiveAgreement, error) {
	out := make(map[string]domain.CollectiveAgreement, len(builtinAgreements))
	for id, raw := range builtinAgreements {
		a, err := f.Parse(raw)
		if err != nil {
			return nil, err
		}
		out[id] = a
	}
	return out, nil
}
