package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skiftet/schedule-engine/domain"
)

// =============================================================================
// SCHEDULE SHAPE
// =============================================================================

func TestNewSchedule_CalendarShape(t *testing.T) {
	s := domain.NewSchedule(2024)

	require.Len(t, s.Months, 12)
	assert.Equal(t, 29, len(s.Months[time.February-1].Days)) // leap year
	assert.Equal(t, 31, len(s.Months[time.December-1].Days))

	// Days carry their own dates, January first.
	assert.Equal(t, domain.NewDate(2024, time.January, 1), s.Months[0].Days[0].Date)
	assert.Equal(t, domain.NewDate(2024, time.December, 31), s.Months[11].Days[30].Date)

	require.NoError(t, s.Validate())
}

func TestScheduleValidate_RejectsMissingMonths(t *testing.T) {
	s := domain.NewSchedule(2025)
	s.Months = s.Months[:11]

	err := s.Validate()

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrScheduleShape))
}

func TestScheduleValidate_RejectsWrongDayCount(t *testing.T) {
	s := domain.NewSchedule(2025)
	feb := s.MonthAt(time.February)
	feb.Days = feb.Days[:27]

	err := s.Validate()

	require.Error(t, err)
	var shape *domain.ScheduleShapeError
	require.True(t, errors.As(err, &shape))
	assert.Equal(t, time.February, shape.Month)
}

func TestScheduleValidate_RejectsUnknownStatus(t *testing.T) {
	s := domain.NewSchedule(2025)
	s.MonthAt(time.June).Days[0].Entries = []domain.Entry{
		{PersonID: "p1", Status: domain.Status("NOPE")},
	}

	err := s.Validate()

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrScheduleShape))
	assert.True(t, domain.IsClientError(err))
}

func TestMonthAt_FailsClosed(t *testing.T) {
	s := domain.NewSchedule(2025)
	assert.Nil(t, s.MonthAt(time.Month(0)))
	assert.Nil(t, s.MonthAt(time.Month(13)))

	var empty domain.Schedule
	assert.Nil(t, empty.MonthAt(time.June))
}

func TestStatusVocabulary(t *testing.T) {
	for _, s := range []domain.Status{
		domain.StatusWork, domain.StatusOff, domain.StatusExtraDay,
		domain.StatusVacation, domain.StatusSick, domain.StatusChild,
		domain.StatusLeave, domain.StatusTraining, domain.StatusVacancy,
	} {
		assert.True(t, domain.KnownStatus(s), string(s))
	}
	assert.False(t, domain.KnownStatus(domain.Status("a"))) // case sensitive
	assert.False(t, domain.KnownStatus(domain.Status("")))

	// Absence statuses are protected from generators; work and off are not.
	assert.True(t, domain.ProtectedStatuses[domain.StatusVacation])
	assert.True(t, domain.ProtectedStatuses[domain.StatusSick])
	assert.False(t, domain.ProtectedStatuses[domain.StatusWork])
	assert.False(t, domain.ProtectedStatuses[domain.StatusVacancy])
}

func TestDayEntryFor(t *testing.T) {
	day := domain.Day{
		Date: domain.NewDate(2025, time.June, 2),
		Entries: []domain.Entry{
			{PersonID: "p1", Status: domain.StatusWork},
			{PersonID: "p2", Status: domain.StatusVacation},
		},
	}

	e, ok := day.EntryFor("p2")
	require.True(t, ok)
	assert.Equal(t, domain.StatusVacation, e.Status)
	assert.False(t, e.IsWorking())

	assert.False(t, day.HasEntryFor("p3"))
}

// =============================================================================
// STATE CLONING
// =============================================================================

func TestStateClone_StructuralIndependence(t *testing.T) {
	start, _ := domain.ParseDate("2020-01-01")
	st := &domain.State{
		People: []domain.Person{{
			ID:            "p1",
			FirstName:     "Anna",
			StartDate:     start,
			Availability:  []bool{true, true, true, true, true, false, false},
			VacationDates: []domain.Date{domain.NewDate(2025, time.July, 1)},
			Groups:        []string{"kitchen"},
			Active:        true,
		}},
		Groups: map[string]domain.Group{
			"kitchen": {ID: "kitchen", Name: "Kitchen", ShiftIDs: []string{"morning"}},
		},
		Shifts: map[string]domain.Shift{
			"morning": {ID: "morning", Name: "Morning", Start: domain.MustClock("08:00")},
		},
		Demand: domain.Demand{
			ByRole: map[domain.Role]domain.WeekdayCounts{
				domain.RoleKitchen: {1, 1, 1, 1, 1, 0, 0},
			},
		},
		Schedule: domain.NewSchedule(2025),
		Settings: domain.Settings{Sector: domain.SectorPrivate},
	}
	st.Schedule.MonthAt(time.June).Days[0].Entries = []domain.Entry{
		{PersonID: "p1", Status: domain.StatusWork},
	}

	clone := st.Clone()

	// WHEN: the clone is mutated at every level of the tree
	clone.People[0].VacationDates[0] = domain.NewDate(2025, time.August, 1)
	clone.People[0].Availability[0] = false
	g := clone.Groups["kitchen"]
	g.ShiftIDs[0] = "evening"
	clone.Shifts["morning"].Start.Hour = 12
	row := clone.Demand.ByRole[domain.RoleKitchen]
	row[0] = 9
	clone.Demand.ByRole[domain.RoleKitchen] = row
	clone.Schedule.MonthAt(time.June).Days[0].Entries[0].Status = domain.StatusSick

	// THEN: the original is untouched
	assert.Equal(t, "2025-07-01", st.People[0].VacationDates[0].String())
	assert.True(t, st.People[0].Availability[0])
	assert.Equal(t, "morning", st.Groups["kitchen"].ShiftIDs[0])
	assert.Equal(t, 8, st.Shifts["morning"].Start.Hour)
	assert.Equal(t, 1, st.Demand.ByRole[domain.RoleKitchen][0])
	assert.Equal(t, domain.StatusWork,
		st.Schedule.MonthAt(time.June).Days[0].Entries[0].Status)
}

func TestStateHelpers(t *testing.T) {
	st := &domain.State{People: []domain.Person{
		{ID: "p1", FirstName: "Anna", Active: true},
		{ID: "p2", FirstName: "Bertil", Active: false},
	}}

	p, ok := st.PersonByID("p2")
	require.True(t, ok)
	assert.Equal(t, "Bertil", p.FirstName)
	_, ok = st.PersonByID("p9")
	assert.False(t, ok)

	active := st.ActivePeople()
	require.Len(t, active, 1)
	assert.Equal(t, "p1", active[0].ID)
}

// =============================================================================
// DEMAND
// =============================================================================

func TestDemand_MissingRowsFailClosed(t *testing.T) {
	var d domain.Demand
	assert.Equal(t, domain.WeekdayCounts{}, d.ForGroup("kitchen"))
	assert.Equal(t, domain.WeekdayCounts{}, d.ForRole(domain.RoleDish))
}

func TestDemandValidate_RangeChecks(t *testing.T) {
	ok := domain.Demand{
		GroupDemands: map[string]domain.WeekdayCounts{"kitchen": {0, 50, 2, 0, 0, 0, 0}},
	}
	assert.NoError(t, ok.Validate())

	over := domain.Demand{
		ByRole: map[domain.Role]domain.WeekdayCounts{domain.RolePack: {51}},
	}
	err := over.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDemandOutOfRange))

	neg := domain.Demand{
		GroupDemands: map[string]domain.WeekdayCounts{"dish": {-1}},
	}
	assert.Error(t, neg.Validate())
}

// =============================================================================
// AGREEMENT
// =============================================================================

func TestHourlyWageFor_TierSelection(t *testing.T) {
	a := domain.CollectiveAgreement{
		WageTiers: []domain.WageTier{
			{FromYears: 0, HourlyWage: decimal.NewFromInt(140)},
			{FromYears: 2, HourlyWage: decimal.NewFromInt(150)},
			{FromYears: 6, HourlyWage: decimal.NewFromInt(165)},
		},
	}

	assert.True(t, a.HourlyWageFor(0).Equal(decimal.NewFromInt(140)))
	assert.True(t, a.HourlyWageFor(1).Equal(decimal.NewFromInt(140)))
	assert.True(t, a.HourlyWageFor(2).Equal(decimal.NewFromInt(150)))
	assert.True(t, a.HourlyWageFor(5).Equal(decimal.NewFromInt(150)))
	assert.True(t, a.HourlyWageFor(40).Equal(decimal.NewFromInt(165)))
}

func TestHourlyWageFor_EmptyTableFailsClosed(t *testing.T) {
	var a domain.CollectiveAgreement
	assert.True(t, a.HourlyWageFor(10).IsZero())
}

// =============================================================================
// PERSON HELPERS
// =============================================================================

func TestPersonAvailableOn_FailsClosedWithoutArray(t *testing.T) {
	p := domain.Person{ID: "p1"}
	assert.False(t, p.AvailableOn(domain.NewDate(2025, time.June, 2)))

	p.Availability = []bool{true, false, false, false, false, false, false}
	assert.True(t, p.AvailableOn(domain.NewDate(2025, time.June, 2)))  // Monday
	assert.False(t, p.AvailableOn(domain.NewDate(2025, time.June, 3))) // Tuesday
}

func TestShiftDurationHours(t *testing.T) {
	fixed := domain.Shift{Start: domain.MustClock("08:00"), End: domain.MustClock("16:30")}
	assert.InDelta(t, 8.5, fixed.DurationHours(), 0.001)

	night := domain.Shift{Start: domain.MustClock("22:00"), End: domain.MustClock("06:00")}
	assert.InDelta(t, 8.0, night.DurationHours(), 0.001)

	var flexible domain.Shift
	assert.Zero(t, flexible.DurationHours())
}
