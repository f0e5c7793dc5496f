package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skiftet/schedule-engine/domain"
)

func testPerson(id, first string) domain.Person {
	return domain.Person{
		ID:              id,
		FirstName:       first,
		LastName:        "Svensson",
		StartDate:       domain.NewDate(2020, 1, 1),
		EmploymentPct:   100,
		WorkdaysPerWeek: 5,
		Sector:          domain.SectorPrivate,
		Groups:          []string{"kitchen"},
		Skills:          []domain.Role{domain.RoleKitchen},
		Active:          true,
	}
}

func TestMemoryStore_PersonRoundTrip(t *testing.T) {
	// GIVEN an empty store
	s := New()
	defer s.Close()
	ctx := context.Background()

	// WHEN a person is saved and read back
	require.NoError(t, s.SavePerson(ctx, testPerson("p1", "Anna")))
	got, err := s.GetPerson(ctx, "p1")

	// THEN the stored copy matches
	require.NoError(t, err)
	assert.Equal(t, "Anna Svensson", got.Name())
	assert.Equal(t, 100, got.EmploymentPct)
}

func TestMemoryStore_NotFoundSentinels(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.GetPerson(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrPersonNotFound)

	assert.ErrorIs(t, s.DeletePerson(ctx, "ghost"), domain.ErrPersonNotFound)
	assert.ErrorIs(t, s.DeleteGroup(ctx, "ghost"), domain.ErrGroupNotFound)
	assert.ErrorIs(t, s.DeleteShift(ctx, "ghost"), domain.ErrShiftNotFound)

	_, err = s.GetAgreement(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrAgreementNotFound)
}

func TestMemoryStore_ListPeopleSortedByName(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.SavePerson(ctx, testPerson("p1", "Cecilia")))
	require.NoError(t, s.SavePerson(ctx, testPerson("p2", "Anna")))
	require.NoError(t, s.SavePerson(ctx, testPerson("p3", "Bertil")))

	people, err := s.ListPeople(ctx)
	require.NoError(t, err)
	require.Len(t, people, 3)
	assert.Equal(t, "p2", people[0].ID)
	assert.Equal(t, "p3", people[1].ID)
	assert.Equal(t, "p1", people[2].ID)
}

func TestMemoryStore_CloneOnRead(t *testing.T) {
	// GIVEN a stored person with a vacation date
	s := New()
	ctx := context.Background()
	p := testPerson("p1", "Anna")
	p.VacationDates = []domain.Date{domain.NewDate(2025, 7, 1)}
	require.NoError(t, s.SavePerson(ctx, p))

	// WHEN a caller mutates the value it read back
	got, err := s.GetPerson(ctx, "p1")
	require.NoError(t, err)
	got.VacationDates[0] = domain.NewDate(2025, 12, 24)
	got.Groups[0] = "bar"

	// THEN the stored copy is unaffected
	again, err := s.GetPerson(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "2025-07-01", again.VacationDates[0].String())
	assert.Equal(t, "kitchen", again.Groups[0])
}

func TestMemoryStore_GroupsAndShifts(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.SaveShift(ctx, domain.Shift{
		ID: "morning", Name: "Morning", Start: domain.MustClock("06:00"), End: domain.MustClock("14:00"),
	}))
	require.NoError(t, s.SaveGroup(ctx, domain.Group{
		ID: "kitchen", Name: "Kitchen", ShiftIDs: []string{"morning"},
	}))

	groups, err := s.ListGroups(ctx)
	require.NoError(t, err)
	require.Contains(t, groups, "kitchen")
	assert.True(t, groups["kitchen"].HasShift("morning"))

	shifts, err := s.ListShifts(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Morning", shifts["morning"].Name)

	require.NoError(t, s.DeleteShift(ctx, "morning"))
	shifts, err = s.ListShifts(ctx)
	require.NoError(t, err)
	assert.Empty(t, shifts)
}

func TestMemoryStore_DemandValidation(t *testing.T) {
	s := New()
	ctx := context.Background()

	bad := domain.Demand{ByRole: map[domain.Role]domain.WeekdayCounts{
		domain.RoleKitchen: {-1, 0, 0, 0, 0, 0, 0},
	}}
	assert.Error(t, s.SaveDemand(ctx, bad))

	good := domain.Demand{ByRole: map[domain.Role]domain.WeekdayCounts{
		domain.RoleKitchen: {1, 1, 1, 1, 1, 0, 0},
	}}
	require.NoError(t, s.SaveDemand(ctx, good))

	got, err := s.GetDemand(ctx)
	require.NoError(t, err)
	assert.Equal(t, good.ByRole[domain.RoleKitchen], got.ByRole[domain.RoleKitchen])
}

func TestMemoryStore_AgreementRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()

	a := domain.CollectiveAgreement{
		ID:     "hrf-private",
		Name:   "HRF",
		Sector: domain.SectorPrivate,
		WageTiers: []domain.WageTier{
			{FromYears: 0, HourlyWage: decimal.NewFromInt(150)},
		},
		OBRedDayRate: decimal.NewFromFloat(1.5),
	}
	require.NoError(t, s.SaveAgreement(ctx, a))

	got, err := s.GetAgreement(ctx, "hrf-private")
	require.NoError(t, err)
	assert.True(t, got.OBRedDayRate.Equal(decimal.NewFromFloat(1.5)))

	list, err := s.ListAgreements(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestMemoryStore_UnsavedScheduleYearIsFresh(t *testing.T) {
	// GIVEN a store with no schedule for 2025
	s := New()
	ctx := context.Background()

	// WHEN that year is requested
	sched, err := s.GetSchedule(ctx, 2025)

	// THEN a full empty year comes back instead of an error
	require.NoError(t, err)
	assert.Equal(t, 2025, sched.Year)
	require.Len(t, sched.Months, 12)
	assert.Len(t, sched.Months[1].Days, 28)
}

func TestMemoryStore_SaveStateReplacesRoster(t *testing.T) {
	// GIVEN a store holding two people
	s := New()
	ctx := context.Background()
	require.NoError(t, s.SavePerson(ctx, testPerson("p1", "Anna")))
	require.NoError(t, s.SavePerson(ctx, testPerson("p2", "Bertil")))

	// WHEN a snapshot with only one person is saved
	state := &domain.State{
		People:   []domain.Person{testPerson("p3", "Cecilia")},
		Groups:   map[string]domain.Group{},
		Shifts:   map[string]domain.Shift{},
		Schedule: domain.NewSchedule(2025),
	}
	require.NoError(t, s.SaveState(ctx, state))

	// THEN the snapshot replaces the roster rather than merging into it
	people, err := s.ListPeople(ctx)
	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Equal(t, "p3", people[0].ID)
}

func TestMemoryStore_LoadStateAssemblesTree(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.SavePerson(ctx, testPerson("p1", "Anna")))
	require.NoError(t, s.SaveGroup(ctx, domain.Group{ID: "kitchen", Name: "Kitchen"}))
	require.NoError(t, s.SaveSettings(ctx, domain.Settings{Sector: domain.SectorPrivate}))

	state, err := s.LoadState(ctx, 2025)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Len(t, state.People, 1)
	assert.Contains(t, state.Groups, "kitchen")
	assert.Equal(t, 2025, state.Schedule.Year)
	assert.Equal(t, domain.SectorPrivate, state.Settings.Sector)
}
