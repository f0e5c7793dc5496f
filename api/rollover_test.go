package api

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skiftet/schedule-engine/domain"
	"github.com/skiftet/schedule-engine/store/memory"
)

func TestRollover_AppliesWhenPrivateVacationYearTurns(t *testing.T) {
	// GIVEN one private-sector and one municipal person with used days
	st := memory.New()
	ctx := context.Background()

	private := apiPerson("hrf")
	private.UsedVacationDays = 10
	require.NoError(t, st.SavePerson(ctx, private))

	municipal := apiPerson("kommunal")
	municipal.Sector = domain.SectorMunicipal
	municipal.UsedVacationDays = 10
	require.NoError(t, st.SavePerson(ctx, municipal))

	rs := NewRolloverScheduler(st)
	rs.lastCheck = domain.NewDate(2025, 3, 30)

	// WHEN the check runs just after April 1
	rs.CheckOnce(ctx, domain.NewDate(2025, 4, 1))

	// THEN only the private-sector person rolled over (June 1 is the
	// municipal boundary)
	got, err := st.GetPerson(ctx, "hrf")
	require.NoError(t, err)
	assert.Equal(t, 0, got.UsedVacationDays)

	got, err = st.GetPerson(ctx, "kommunal")
	require.NoError(t, err)
	assert.Equal(t, 10, got.UsedVacationDays)
}

func TestRollover_NoTurnNoChange(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	p := apiPerson("hrf")
	p.UsedVacationDays = 7
	require.NoError(t, st.SavePerson(ctx, p))

	rs := NewRolloverScheduler(st)
	rs.lastCheck = domain.NewDate(2025, 4, 2)

	rs.CheckOnce(ctx, domain.NewDate(2025, 5, 15))

	got, err := st.GetPerson(ctx, "hrf")
	require.NoError(t, err)
	assert.Equal(t, 7, got.UsedVacationDays)
}

func TestRollover_InactivePeopleSkipped(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	p := apiPerson("hrf")
	p.Active = false
	p.UsedVacationDays = 7
	require.NoError(t, st.SavePerson(ctx, p))

	rs := NewRolloverScheduler(st)
	rs.lastCheck = domain.NewDate(2025, 3, 30)

	rs.CheckOnce(ctx, domain.NewDate(2025, 4, 1))

	got, err := st.GetPerson(ctx, "hrf")
	require.NoError(t, err)
	assert.Equal(t, 7, got.UsedVacationDays)
}

func TestRollover_CarryoverIsCapped(t *testing.T) {
	// GIVEN someone with far more unused days than the carryover cap
	st := memory.New()
	ctx := context.Background()

	p := apiPerson("hrf")
	p.StartDate = domain.NewDate(2015, 1, 1)
	p.UsedVacationDays = 0
	require.NoError(t, st.SavePerson(ctx, p))

	rs := NewRolloverScheduler(st)
	rs.lastCheck = domain.NewDate(2025, 3, 30)

	// WHEN the vacation year turns
	rs.CheckOnce(ctx, domain.NewDate(2025, 4, 1))

	// THEN at most five days carry over
	got, err := st.GetPerson(ctx, "hrf")
	require.NoError(t, err)
	assert.LessOrEqual(t, got.SavedVacationDays, 5)
}
