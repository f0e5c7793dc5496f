/*
normalize.go - Legacy wire shapes and the single normalization step

PURPOSE:
  Older clients spell several person fields two ways: employment
  percentage arrives as either "employmentPct" or "degree", and group
  membership as either "groups" or "groupIds". Rather than threading
  fallback chains through every consumer, the fallbacks are resolved
  here, once, at the wire boundary. Engines only ever see the
  canonical Person.

STRATEGY:
  PersonRecord mirrors the wire JSON including both spellings.
  Normalize() folds the record into a canonical Person:
  - non-zero canonical field wins over its legacy twin
  - malformed dates fail closed to zero Dates
  - availability arrays of the wrong length are dropped (fail closed)

SEE ALSO:
  - api/dto.go: uses PersonRecord for request bodies
  - store/sqlite: persists canonical Persons only
*/
package domain

// PersonRecord is the wire shape for a person, including legacy field
// spellings. It exists only at the boundary; see Normalize.
type PersonRecord struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`

	StartDate       string `json:"startDate"` // YYYY-MM-DD
	EmploymentPct   int    `json:"employmentPct"`
	Degree          int    `json:"degree"` // legacy spelling of EmploymentPct
	WorkdaysPerWeek int    `json:"workdaysPerWeek"`
	Sector          string `json:"sector"`
	Age             int    `json:"age,omitempty"`

	Availability []bool `json:"availability,omitempty"`

	VacationDates     []string `json:"vacationDates,omitempty"`
	LeaveDates        []string `json:"leaveDates,omitempty"`
	SavedVacationDays int      `json:"savedVacationDays"`
	UsedVacationDays  int      `json:"usedVacationDays"`
	SavedLeaveDays    int      `json:"savedLeaveDays"`
	ExtraDayBalance   int      `json:"extraDayBalance"`

	Groups   []string `json:"groups,omitempty"`
	GroupIDs []string `json:"groupIds,omitempty"` // legacy spelling of Groups
	Skills   []string `json:"skills,omitempty"`
	Core     bool     `json:"core"`

	Active bool `json:"active"`
}

// Normalize folds the wire record into the canonical Person. This is
// the only place legacy fallbacks are applied.
func (r PersonRecord) Normalize() Person {
	pct := r.EmploymentPct
	if pct == 0 {
		pct = r.Degree
	}

	groups := r.Groups
	if len(groups) == 0 {
		groups = r.GroupIDs
	}

	availability := r.Availability
	if len(availability) != 7 {
		availability = nil
	}

	start, _ := ParseDate(r.StartDate)

	var skills []Role
	for _, s := range r.Skills {
		if role := Role(s); KnownRole(role) {
			skills = append(skills, role)
		}
	}

	return Person{
		ID:                r.ID,
		FirstName:         r.FirstName,
		LastName:          r.LastName,
		StartDate:         start,
		EmploymentPct:     pct,
		WorkdaysPerWeek:   r.WorkdaysPerWeek,
		Sector:            Sector(r.Sector),
		Age:               r.Age,
		Availability:      availability,
		VacationDates:     parseDates(r.VacationDates),
		LeaveDates:        parseDates(r.LeaveDates),
		SavedVacationDays: r.SavedVacationDays,
		UsedVacationDays:  r.UsedVacationDays,
		SavedLeaveDays:    r.SavedLeaveDays,
		ExtraDayBalance:   r.ExtraDayBalance,
		Groups:            groups,
		Skills:            skills,
		Core:              r.Core,
		Active:            r.Active,
	}
}

// Record converts a canonical Person back to the wire shape. Only the
// canonical spellings are populated on the way out.
func (p Person) Record() PersonRecord {
	start := ""
	if !p.StartDate.IsZero() {
		start = p.StartDate.String()
	}
	var skills []string
	for _, s := range p.Skills {
		skills = append(skills, string(s))
	}
	return PersonRecord{
		ID:                p.ID,
		FirstName:         p.FirstName,
		LastName:          p.LastName,
		StartDate:         start,
		EmploymentPct:     p.EmploymentPct,
		WorkdaysPerWeek:   p.WorkdaysPerWeek,
		Sector:            string(p.Sector),
		Age:               p.Age,
		Availability:      p.Availability,
		VacationDates:     formatDates(p.VacationDates),
		LeaveDates:        formatDates(p.LeaveDates),
		SavedVacationDays: p.SavedVacationDays,
		UsedVacationDays:  p.UsedVacationDays,
		SavedLeaveDays:    p.SavedLeaveDays,
		ExtraDayBalance:   p.ExtraDayBalance,
		Groups:            p.Groups,
		Skills:            skills,
		Core:              p.Core,
		Active:            p.Active,
	}
}

// parseDates drops malformed entries instead of failing the record.
func parseDates(ss []string) []Date {
	var out []Date
	for _, s := range ss {
		if d, ok := ParseDate(s); ok {
			out = append(out, d)
		}
	}
	return out
}

func formatDates(ds []Date) []string {
	var out []string
	for _, d := range ds {
		out = append(out, d.String())
	}
	return out
}
