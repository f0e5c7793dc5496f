package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skiftet/schedule-engine/domain"
)

// =============================================================================
// DATE
// =============================================================================

func TestParseDate_RoundTrip(t *testing.T) {
	d, ok := domain.ParseDate("2025-06-06")
	require.True(t, ok)
	assert.Equal(t, 2025, d.Year())
	assert.Equal(t, time.June, d.Month())
	assert.Equal(t, 6, d.Day())
	assert.Equal(t, "2025-06-06", d.String())
}

func TestParseDate_MalformedFailsClosed(t *testing.T) {
	for _, s := range []string{"", "banana", "06/06/2025", "2025-13-01", "2025-06-32"} {
		d, ok := domain.ParseDate(s)
		assert.False(t, ok, s)
		assert.True(t, d.IsZero(), s)
	}
}

func TestDate_JSONNullAndEmptyMeanZero(t *testing.T) {
	var d domain.Date
	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	assert.True(t, d.IsZero())

	require.NoError(t, json.Unmarshal([]byte(`""`), &d))
	assert.True(t, d.IsZero())

	// A zero Date marshals back to null, not "0001-01-01".
	b, err := json.Marshal(domain.Date{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))
}

func TestDate_JSONInvalidRejected(t *testing.T) {
	var d domain.Date
	assert.Error(t, json.Unmarshal([]byte(`"not-a-date"`), &d))
}

func TestDate_WeekdayIndexIsMondayBased(t *testing.T) {
	// 2025-06-02 is a Monday.
	mon := domain.NewDate(2025, time.June, 2)
	assert.Equal(t, 0, mon.WeekdayIndex())
	assert.Equal(t, 6, mon.AddDays(6).WeekdayIndex()) // Sunday
	assert.True(t, mon.AddDays(6).IsSunday())
}

func TestDate_StartOfWeek(t *testing.T) {
	mon := domain.NewDate(2025, time.June, 2)
	for i := 0; i < 7; i++ {
		assert.Equal(t, mon, mon.AddDays(i).StartOfWeek())
	}
}

func TestDate_DaysBetweenSign(t *testing.T) {
	a := domain.NewDate(2025, time.June, 1)
	b := domain.NewDate(2025, time.June, 30)
	assert.Equal(t, 29, a.DaysBetween(b))
	assert.Equal(t, -29, b.DaysBetween(a))
	assert.Equal(t, 0, a.DaysBetween(a))
}

func TestDaysInMonth_LeapAware(t *testing.T) {
	assert.Equal(t, 29, domain.DaysInMonth(2024, time.February))
	assert.Equal(t, 28, domain.DaysInMonth(2025, time.February))
	assert.Equal(t, 28, domain.DaysInMonth(2100, time.February)) // century rule
	assert.Equal(t, 31, domain.DaysInMonth(2025, time.December))
}

// =============================================================================
// CLOCK TIME
// =============================================================================

func TestParseClock(t *testing.T) {
	ct, ok := domain.ParseClock("08:30")
	require.True(t, ok)
	assert.Equal(t, 8, ct.Hour)
	assert.Equal(t, 30, ct.Minute)
	assert.Equal(t, "08:30", ct.String())

	for _, s := range []string{"", "25:00", "12:60", "-1:00", "noon"} {
		_, ok := domain.ParseClock(s)
		assert.False(t, ok, s)
	}
}

func TestSpanMinutes_WrapsPastMidnight(t *testing.T) {
	day := domain.SpanMinutes(*domain.MustClock("08:00"), *domain.MustClock("16:30"))
	assert.Equal(t, 510, day)

	// Night shift: 22:00-06:00 is eight hours, not a negative span.
	night := domain.SpanMinutes(*domain.MustClock("22:00"), *domain.MustClock("06:00"))
	assert.Equal(t, 480, night)
}

func TestClockTime_JSON(t *testing.T) {
	b, err := json.Marshal(domain.MustClock("07:05"))
	require.NoError(t, err)
	assert.Equal(t, `"07:05"`, string(b))

	var ct domain.ClockTime
	require.NoError(t, json.Unmarshal([]byte(`"18:45"`), &ct))
	assert.Equal(t, 18*60+45, ct.MinuteOfDay())

	assert.Error(t, json.Unmarshal([]byte(`"24:00"`), &ct))
}

// =============================================================================
// SECTOR
// =============================================================================

func TestKnownSector(t *testing.T) {
	assert.True(t, domain.KnownSector(domain.SectorPrivate))
	assert.True(t, domain.KnownSector(domain.SectorMunicipal))
	assert.False(t, domain.KnownSector(domain.Sector("federal")))
	assert.False(t, domain.KnownSector(domain.Sector("")))
}
