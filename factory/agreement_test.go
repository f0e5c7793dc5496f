package factory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skiftet/schedule-engine/domain"
	"github.com/skiftet/schedule-engine/factory"
)

func TestParse_FullAgreement(t *testing.T) {
	f := factory.NewAgreementFactory()

	a, err := f.Parse(`{
		"id": "test",
		"name": "Test Agreement",
		"sector": "private",
		"wage_tiers": [
			{"from_years": 2, "hourly_wage": "160.50"},
			{"from_years": 0, "monthly_salary": "26000", "hourly_wage": "150"}
		],
		"ob_red_day_rate": "1.5",
		"vacation_days_per_year": 25,
		"red_day_compensation": true
	}`)
	require.NoError(t, err)

	assert.Equal(t, "test", a.ID)
	assert.Equal(t, domain.SectorPrivate, a.Sector)
	assert.True(t, a.RedDayCompensation)
	assert.True(t, a.OBRedDayRate.Equal(decimal.RequireFromString("1.5")))

	// Tiers come out in ascending tenure order regardless of input order.
	require.Len(t, a.WageTiers, 2)
	assert.Equal(t, 0, a.WageTiers[0].FromYears)
	assert.Equal(t, 2, a.WageTiers[1].FromYears)
	assert.True(t, a.WageTiers[1].HourlyWage.Equal(decimal.RequireFromString("160.50")))

	// Wage lookup picks the highest tier at or below the tenure.
	assert.True(t, a.HourlyWageFor(3).Equal(decimal.RequireFromString("160.50")))
	assert.True(t, a.HourlyWageFor(1).Equal(decimal.NewFromInt(150)))
}

func TestParse_Rejections(t *testing.T) {
	f := factory.NewAgreementFactory()

	cases := []struct {
		name string
		json string
	}{
		{"malformed json", `{`},
		{"missing id", `{"sector": "private", "wage_tiers": []}`},
		{"unknown sector", `{"id": "x", "sector": "federal", "wage_tiers": []}`},
		{"bad rate", `{"id": "x", "sector": "private", "ob_red_day_rate": "plenty"}`},
		{"bad wage", `{"id": "x", "sector": "private", "wage_tiers": [{"from_years": 0, "hourly_wage": "lots"}]}`},
		{"negative tenure", `{"id": "x", "sector": "private", "wage_tiers": [{"from_years": -1, "hourly_wage": "150"}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.Parse(tc.json)
			assert.Error(t, err)
		})
	}
}

func TestParse_RateDefaultsToPar(t *testing.T) {
	f := factory.NewAgreementFactory()

	a, err := f.Parse(`{"id": "x", "sector": "private", "wage_tiers": [{"from_years": 0, "hourly_wage": "150"}]}`)
	require.NoError(t, err)
	assert.True(t, a.OBRedDayRate.Equal(decimal.NewFromInt(1)), "no OB premium unless configured")
}

func TestDefaults_BuiltInAgreements(t *testing.T) {
	f := factory.NewAgreementFactory()

	all, err := f.Defaults()
	require.NoError(t, err)
	require.Len(t, all, 2)

	hrf, err := f.Default("hrf-private")
	require.NoError(t, err)
	assert.Equal(t, domain.SectorPrivate, hrf.Sector)
	assert.True(t, hrf.RedDayCompensation)
	assert.False(t, hrf.HourlyWageFor(0).IsZero())

	kommunal, err := f.Default("kommunal-municipal")
	require.NoError(t, err)
	assert.Equal(t, domain.SectorMunicipal, kommunal.Sector)

	_, err = f.Default("nope")
	assert.ErrorIs(t, err, domain.ErrAgreementNotFound)
}

func TestToJSON_RoundTrip(t *testing.T) {
	f := factory.NewAgreementFactory()

	orig, err := f.Default("hrf-private")
	require.NoError(t, err)

	back, err := f.FromJSON(f.ToJSON(orig))
	require.NoError(t, err)

	assert.Equal(t, orig.ID, back.ID)
	assert.Equal(t, orig.Sector, back.Sector)
	require.Len(t, back.WageTiers, len(orig.WageTiers))
	for i := range orig.WageTiers {
		assert.True(t, back.WageTiers[i].HourlyWage.Equal(orig.WageTiers[i].HourlyWage))
	}
	assert.True(t, back.OBRedDayRate.Equal(orig.OBRedDayRate))
}
