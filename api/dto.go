/*
dto.go - Request/response shapes for the REST API

PURPOSE:
  Wire-facing structs for requests and responses that don't map 1:1
  onto a domain type. The domain structs carry their own JSON tags and
  go over the wire directly; people use the PersonRecord shape (which
  tolerates legacy field names), agreements use factory.AgreementJSON.

CONVENTIONS:
  - camelCase field names
  - dates as "YYYY-MM-DD", times as "HH:MM"
  - money as decimal strings, never floats

SEE ALSO:
  - handlers.go: the handlers producing/consuming these
  - domain/normalize.go: PersonRecord
*/
package api

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// SCHEDULE GENERATION
// =============================================================================

// GenerateRequest drives the flat-list generator. Month mode needs
// year+month; period mode needs fromDate+toDate.
type GenerateRequest struct {
	Mode     string `json:"mode"` // "month" or "period"
	Year     int    `json:"year,omitempty"`
	Month    int    `json:"month,omitempty"`
	FromDate string `json:"fromDate,omitempty"`
	ToDate   string `json:"toDate,omitempty"`
}

type AssignmentDTO struct {
	Date       string `json:"date"`
	PersonID   string `json:"personId"`
	PersonName string `json:"personName"`
	GroupID    string `json:"groupId"`
	GroupName  string `json:"groupName"`
	ShiftID    string `json:"shiftId"`
	ShiftName  string `json:"shiftName"`
	Start      string `json:"start,omitempty"`
	End        string `json:"end,omitempty"`
}

type GenerateResponse struct {
	Success bool            `json:"success"`
	Shifts  []AssignmentDTO `json:"shifts"`
	Message string          `json:"message"`
	Errors  []string        `json:"errors,omitempty"`
}

// EngineRunRequest drives the role-based month engine. Commit persists
// the proposed schedule; without it the run is a dry run.
type EngineRunRequest struct {
	Year            int  `json:"year"`
	Month           int  `json:"month"`
	UseDemandTotals bool `json:"useDemandTotals,omitempty"`
	Commit          bool `json:"commit,omitempty"`
}

type VacancyDTO struct {
	Date  string `json:"date"`
	Role  string `json:"role"`
	Count int    `json:"count"`
}

type EngineRunResponse struct {
	Notes       string       `json:"notes"`
	FillRate    float64      `json:"fillRate"`
	TotalSlots  int          `json:"totalSlots"`
	FilledSlots int          `json:"filledSlots"`
	Vacancies   []VacancyDTO `json:"vacancies"`
	Committed   bool         `json:"committed"`
}

// PlanExtraRequest drives extra-day planning for a month.
type PlanExtraRequest struct {
	Year                 int  `json:"year"`
	Month                int  `json:"month"`
	MaxPerPersonPerMonth int  `json:"maxPerPersonPerMonth,omitempty"`
	Commit               bool `json:"commit,omitempty"`
}

type PlannedPersonDTO struct {
	PersonID string   `json:"personId"`
	Dates    []string `json:"dates"`
}

type UnplannedPersonDTO struct {
	PersonID  string `json:"personId"`
	Remaining int    `json:"remaining"`
}

type PlanExtraResponse struct {
	Planned   []PlannedPersonDTO   `json:"planned"`
	Unplanned []UnplannedPersonDTO `json:"unplanned"`
	Notes     string               `json:"notes"`
	Committed bool                 `json:"committed"`
}

// =============================================================================
// STATS
// =============================================================================

type PersonStatsDTO struct {
	PersonID    string  `json:"personId"`
	Name        string  `json:"name"`
	HoursWorked float64 `json:"hoursWorked"`
	TargetHours float64 `json:"targetHours"`
	DaysWorked  int     `json:"daysWorked"`
	Status      string  `json:"status"`

	RedDaysWorked     int `json:"redDaysWorked"`
	ExtraDaysTaken    int `json:"extraDaysTaken"`
	ExtraToPlanDays   int `json:"extraToPlanDays"`
	ExtraNegativeDays int `json:"extraNegativeDays"`
}

// PersonCostDTO carries money as decimal strings.
type PersonCostDTO struct {
	PersonID    string  `json:"personId"`
	Name        string  `json:"name"`
	HoursWorked float64 `json:"hoursWorked"`
	RedDayHours float64 `json:"redDayHours"`
	HourlyWage  string  `json:"hourlyWage"`
	BasePay     string  `json:"basePay"`
	OBPremium   string  `json:"obPremium"`
	TotalPay    string  `json:"totalPay"`
}

type CostSummaryDTO struct {
	Year      int             `json:"year"`
	Month     int             `json:"month"`
	Agreement string          `json:"agreement"`
	ByPerson  []PersonCostDTO `json:"byPerson"`
	TotalPay  string          `json:"totalPay"`
}

// =============================================================================
// HOLIDAYS / VACATION
// =============================================================================

type HolidayDTO struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

// VacationSummaryDTO is the per-person entitlement view derived from
// the collective-agreement tables.
type VacationSummaryDTO struct {
	PersonID        string `json:"personId"`
	VacationYear    string `json:"vacationYear"`
	YearsEmployed   int    `json:"yearsEmployed"`
	EntitledDays    int    `json:"entitledDays"`
	AccumulatedDays int    `json:"accumulatedDays"`
	SavedDays       int    `json:"savedDays"`
	UsedDays        int    `json:"usedDays"`
	RemainingDays   int    `json:"remainingDays"`
	ExtraDayBalance int    `json:"extraDayBalance"`
}
