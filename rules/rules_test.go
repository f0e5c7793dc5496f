package rules_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skiftet/schedule-engine/domain"
	"github.com/skiftet/schedule-engine/holidays"
	"github.com/skiftet/schedule-engine/rules"
)

// =============================================================================
// FIXTURES
// =============================================================================

var allWeek = []bool{true, true, true, true, true, true, true}

func fullTimer(id string) domain.Person {
	return domain.Person{
		ID:              id,
		FirstName:       id,
		StartDate:       domain.NewDate(2020, time.January, 1),
		EmploymentPct:   100,
		WorkdaysPerWeek: 5,
		Availability:    append([]bool(nil), allWeek...),
		Groups:          []string{"kitchen"},
		Active:          true,
	}
}

func dayShift() domain.Shift {
	return domain.Shift{
		ID:    "day",
		Name:  "Dagpass",
		Start: domain.MustClock("08:00"),
		End:   domain.MustClock("16:00"),
	}
}

var kitchenGroup = domain.Group{ID: "kitchen", Name: "Kök", ShiftIDs: []string{"day"}}

// A plain Wednesday.
var wednesday = domain.NewDate(2025, time.June, 11)

func newEvaluator() *rules.Evaluator {
	return rules.NewEvaluator(holidays.NewCalendar())
}

// =============================================================================
// SHIFT DURATION
// =============================================================================

func TestShiftDuration_NightShiftWrapsMidnight(t *testing.T) {
	// 22:00-06:00 = (360 - 1320 + 1440) / 60 = 8h
	night := domain.Shift{Start: domain.MustClock("22:00"), End: domain.MustClock("06:00")}
	assert.InDelta(t, 8.0, night.DurationHours(), 1e-9)
}

// =============================================================================
// ELIGIBILITY
// =============================================================================

func TestCanWorkShift_AllConstraintsPass(t *testing.T) {
	ev := newEvaluator()
	assert.True(t, ev.CanWorkShift(fullTimer("anna"), dayShift(), kitchenGroup, wednesday, 0))
}

func TestCanWorkShift_VacationAndLeaveConflicts(t *testing.T) {
	ev := newEvaluator()

	p := fullTimer("anna")
	p.VacationDates = []domain.Date{wednesday}
	assert.False(t, ev.CanWorkShift(p, dayShift(), kitchenGroup, wednesday, 0))

	p = fullTimer("anna")
	p.LeaveDates = []domain.Date{wednesday}
	assert.False(t, ev.CanWorkShift(p, dayShift(), kitchenGroup, wednesday, 0))
}

func TestCanWorkShift_AvailabilityIsMondayIndexed(t *testing.T) {
	ev := newEvaluator()
	p := fullTimer("anna")
	p.Availability = []bool{true, true, false, true, true, true, true} // Wed off

	assert.False(t, ev.CanWorkShift(p, dayShift(), kitchenGroup, wednesday, 0))
	assert.True(t, ev.CanWorkShift(p, dayShift(), kitchenGroup, wednesday.AddDays(1), 0))
}

func TestCanWorkShift_MissingAvailabilityFailsClosed(t *testing.T) {
	ev := newEvaluator()
	p := fullTimer("anna")
	p.Availability = nil
	assert.False(t, ev.CanWorkShift(p, dayShift(), kitchenGroup, wednesday, 0))
}

func TestCanWorkShift_GroupBoundary(t *testing.T) {
	ev := newEvaluator()
	p := fullTimer("anna")
	p.Groups = []string{"bar"}
	assert.False(t, ev.CanWorkShift(p, dayShift(), kitchenGroup, wednesday, 0))
}

func TestCanWorkShift_DailyCapFromEmploymentPct(t *testing.T) {
	// GIVEN: 80% employment, 4 workdays/week
	// THEN: daily budget 8*0.8 = 6.4h, so an 8h shift is rejected even
	//       though every other constraint passes
	ev := newEvaluator()
	p := fullTimer("anna")
	p.EmploymentPct = 80
	p.WorkdaysPerWeek = 4

	assert.False(t, ev.CanWorkShift(p, dayShift(), kitchenGroup, wednesday, 0))
	assert.Equal(t, rules.IneligibleScore, ev.ScoreShift(p, dayShift(), kitchenGroup, wednesday, 0))
}

func TestCanWorkShift_WeeklyCap(t *testing.T) {
	// Full-timer: 5*8 = 40h/week. At 36h worked an 8h shift busts the cap.
	ev := newEvaluator()
	p := fullTimer("anna")

	assert.True(t, ev.CanWorkShift(p, dayShift(), kitchenGroup, wednesday, 32))
	assert.False(t, ev.CanWorkShift(p, dayShift(), kitchenGroup, wednesday, 36))
}

// =============================================================================
// SCORING
// =============================================================================

func TestScoreShift_IneligibleIsExactlyMinusOne(t *testing.T) {
	ev := newEvaluator()
	p := fullTimer("anna")
	p.Groups = nil
	assert.Equal(t, -1, ev.ScoreShift(p, dayShift(), kitchenGroup, wednesday, 0))
}

func TestScoreShift_BaseScore(t *testing.T) {
	// Fresh week, 40h budget, 8h shift: 32h left after, no bonuses.
	ev := newEvaluator()
	assert.Equal(t, 100, ev.ScoreShift(fullTimer("anna"), dayShift(), kitchenGroup, wednesday, 0))
}

func TestScoreShift_PerfectFitAndUtilizationBonuses(t *testing.T) {
	ev := newEvaluator()
	p := fullTimer("anna")

	// 32h already worked: 8h budget left, 8h shift -> perfect fit (+50)
	// and good utilization (+20).
	assert.Equal(t, 170, ev.ScoreShift(p, dayShift(), kitchenGroup, wednesday, 32))

	// 31h worked: 9h left, diff 1h -> still perfect fit and <2h left.
	assert.Equal(t, 170, ev.ScoreShift(p, dayShift(), kitchenGroup, wednesday, 31))

	// 30.5h worked: 9.5h left, diff 1.5h -> only the utilization bonus.
	assert.Equal(t, 120, ev.ScoreShift(p, dayShift(), kitchenGroup, wednesday, 30.5))
}

func TestScoreShift_RedDayBonus(t *testing.T) {
	ev := newEvaluator()
	// 2025-06-06 is the national day (a Friday).
	nationalDay := domain.NewDate(2025, time.June, 6)
	assert.Equal(t, 110, ev.ScoreShift(fullTimer("anna"), dayShift(), kitchenGroup, nationalDay, 0))
}

// =============================================================================
// WEEKLY HOURS
// =============================================================================

func TestHoursWorkedInWeek_MondayToSundayWindow(t *testing.T) {
	start := domain.MustClock("08:00")
	end := domain.MustClock("16:00")
	assigned := []rules.AssignedShift{
		{PersonID: "anna", Date: wednesday.AddDays(-2), Start: start, End: end}, // Monday, in week
		{PersonID: "anna", Date: wednesday, Start: start, End: end},             // Wednesday, in week
		{PersonID: "anna", Date: wednesday.AddDays(4), Start: start, End: end},  // Sunday, in week
		{PersonID: "anna", Date: wednesday.AddDays(5), Start: start, End: end},  // next Monday, out
		{PersonID: "bert", Date: wednesday, Start: start, End: end},             // other person
	}

	assert.InDelta(t, 24.0, rules.HoursWorkedInWeek(assigned, "anna", wednesday), 1e-9)
}

func TestHoursWorkedInWeek_OvernightWrap(t *testing.T) {
	assigned := []rules.AssignedShift{
		{PersonID: "anna", Date: wednesday, Start: domain.MustClock("22:00"), End: domain.MustClock("06:00")},
	}
	assert.InDelta(t, 8.0, rules.HoursWorkedInWeek(assigned, "anna", wednesday), 1e-9)
}

// =============================================================================
// RANKING
// =============================================================================

func TestEligibleRanked_DescendingStable(t *testing.T) {
	ev := newEvaluator()

	// anna has 32h worked (score 170); bert and cia are fresh (100 each).
	anna := fullTimer("anna")
	bert := fullTimer("bert")
	cia := fullTimer("cia")
	dora := fullTimer("dora")
	dora.Groups = nil // ineligible

	assigned := []rules.AssignedShift{
		{PersonID: "anna", Date: wednesday.AddDays(-1), Start: domain.MustClock("00:00"), End: domain.MustClock("08:00")},
		{PersonID: "anna", Date: wednesday.AddDays(-2), Start: domain.MustClock("08:00"), End: domain.MustClock("16:00")},
		{PersonID: "anna", Date: wednesday.AddDays(1), Start: domain.MustClock("08:00"), End: domain.MustClock("16:00")},
		{PersonID: "anna", Date: wednesday.AddDays(2), Start: domain.MustClock("08:00"), End: domain.MustClock("16:00")},
	}

	ranked := ev.EligibleRanked([]domain.Person{bert, anna, cia, dora}, dayShift(), kitchenGroup, wednesday, assigned)

	require.Len(t, ranked, 3)
	assert.Equal(t, "anna", ranked[0].Person.ID)
	// Stable tie-break keeps roster order: bert before cia.
	assert.Equal(t, "bert", ranked[1].Person.ID)
	assert.Equal(t, "cia", ranked[2].Person.ID)
}
