package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skiftet/schedule-engine/domain"
)

func TestNormalize_CanonicalFieldsWinOverLegacy(t *testing.T) {
	// GIVEN: a record carrying both spellings of pct and groups
	r := domain.PersonRecord{
		ID:            "p1",
		EmploymentPct: 80,
		Degree:        50,
		Groups:        []string{"kitchen"},
		GroupIDs:      []string{"legacy"},
	}

	p := r.Normalize()

	assert.Equal(t, 80, p.EmploymentPct)
	assert.Equal(t, []string{"kitchen"}, p.Groups)
}

func TestNormalize_LegacyFallbacks(t *testing.T) {
	// GIVEN: only the legacy spellings are set
	r := domain.PersonRecord{
		ID:       "p1",
		Degree:   75,
		GroupIDs: []string{"dish"},
	}

	p := r.Normalize()

	assert.Equal(t, 75, p.EmploymentPct)
	assert.Equal(t, []string{"dish"}, p.Groups)
}

func TestNormalize_MalformedDatesFailClosed(t *testing.T) {
	r := domain.PersonRecord{
		ID:            "p1",
		StartDate:     "not-a-date",
		VacationDates: []string{"2025-07-01", "garbage", "2025-07-02"},
		LeaveDates:    []string{"nope"},
	}

	p := r.Normalize()

	assert.True(t, p.StartDate.IsZero())
	// Bad vacation entries are dropped, good ones kept.
	require.Len(t, p.VacationDates, 2)
	assert.Equal(t, "2025-07-01", p.VacationDates[0].String())
	assert.Empty(t, p.LeaveDates)
}

func TestNormalize_WrongLengthAvailabilityDropped(t *testing.T) {
	r := domain.PersonRecord{ID: "p1", Availability: []bool{true, true, true}}
	assert.Nil(t, r.Normalize().Availability)

	full := domain.PersonRecord{ID: "p1",
		Availability: []bool{true, true, true, true, true, false, false}}
	assert.Len(t, full.Normalize().Availability, 7)
}

func TestNormalize_UnknownSkillsFiltered(t *testing.T) {
	r := domain.PersonRecord{ID: "p1", Skills: []string{"KITCHEN", "WIZARD", "DISH"}}

	p := r.Normalize()

	assert.Equal(t, []domain.Role{domain.RoleKitchen, domain.RoleDish}, p.Skills)
}

func TestRecord_RoundTripKeepsCanonicalSpellingsOnly(t *testing.T) {
	start, _ := domain.ParseDate("2020-03-15")
	p := domain.Person{
		ID:              "p1",
		FirstName:       "Anna",
		LastName:        "Svensson",
		StartDate:       start,
		EmploymentPct:   80,
		WorkdaysPerWeek: 4,
		Sector:          domain.SectorPrivate,
		Availability:    []bool{true, true, true, true, false, false, false},
		VacationDates:   []domain.Date{domain.NewDate(2025, time.July, 7)},
		Groups:          []string{"kitchen"},
		Skills:          []domain.Role{domain.RoleKitchen},
		Core:            true,
		Active:          true,
	}

	r := p.Record()

	assert.Equal(t, "2020-03-15", r.StartDate)
	assert.Equal(t, 80, r.EmploymentPct)
	assert.Zero(t, r.Degree)
	assert.Equal(t, []string{"kitchen"}, r.Groups)
	assert.Empty(t, r.GroupIDs)
	assert.Equal(t, []string{"2025-07-07"}, r.VacationDates)

	// Normalizing the record again reproduces the person.
	assert.Equal(t, p, r.Normalize())
}

func TestRecord_ZeroStartDateIsEmptyString(t *testing.T) {
	r := domain.Person{ID: "p1"}.Record()
	assert.Equal(t, "", r.StartDate)
}
