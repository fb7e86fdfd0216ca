package rates

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTableIsValid(t *testing.T) {
	table := Default()

	require.NotNil(t, table, "Should build the default table")
	assert.Equal(t, day(1996, time.February, 1), table.First(), "Should start with the CRDS-only period")
	assert.True(t, table.Current().OpenEnded(), "Last period should be open-ended")
	assert.Equal(t, "18.6", table.Current().Rates.Total.String(), "Current total rate should be 18.6%")
}

func TestTableCoversEveryDateSinceFirst(t *testing.T) {
	table := Default()

	// Walk day by day across the whole table and check each date maps to
	// exactly one period.
	end := day(2027, time.June, 30)
	for d := table.First(); !d.After(end); d = d.AddDate(0, 0, 1) {
		p, err := table.PeriodFor(d)
		require.NoError(t, err, "Every date on or after the first period start must be covered (%s)", d.Format("2006-01-02"))
		assert.True(t, p.Contains(d))
	}

	_, err := table.PeriodFor(day(1996, time.January, 15))
	assert.Error(t, err, "Dates before the first period are not covered")
}

func TestPeriodForBoundaries(t *testing.T) {
	table := Default()

	p, err := table.PeriodFor(day(2017, time.December, 31))
	require.NoError(t, err)
	assert.Equal(t, "15.5", p.Rates.Total.String(), "Last day of the 2013-2017 period keeps its rate")

	p, err = table.PeriodFor(day(2018, time.January, 1))
	require.NoError(t, err)
	assert.Equal(t, "17.2", p.Rates.Total.String(), "First day of the flat-tax era gets the new rate")
}

func TestNewTableRejectsEmpty(t *testing.T) {
	_, err := NewTable(nil)
	assert.Error(t, err)
	assert.IsType(t, &ConfigurationError{}, err)
}

func TestNewTableRejectsGap(t *testing.T) {
	periods := []Period{
		{
			Start: day(2000, time.January, 1),
			End:   day(2000, time.December, 31),
			Rates: RateSet{CSG: pct(1), Total: pct(1)},
		},
		{
			// Starts two days after the previous period ends.
			Start: day(2001, time.January, 2),
			Rates: RateSet{CSG: pct(1), Total: pct(1)},
		},
	}

	_, err := NewTable(periods)
	require.Error(t, err, "Should reject non-contiguous periods")
	assert.Contains(t, err.Error(), "does not start the day after")
}

func TestNewTableRejectsOpenEndedNotLast(t *testing.T) {
	periods := []Period{
		{
			Start: day(2000, time.January, 1),
			Rates: RateSet{CSG: pct(1), Total: pct(1)},
		},
		{
			Start: day(2001, time.January, 1),
			Rates: RateSet{CSG: pct(1), Total: pct(1)},
		},
	}

	_, err := NewTable(periods)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open-ended but not last")
}

func TestNewTableRejectsComponentsMismatch(t *testing.T) {
	periods := []Period{
		{
			Start: day(2000, time.January, 1),
			Rates: RateSet{CSG: pct(9.2), CRDS: pct(0.5), Total: pct(17.2)},
		},
	}

	_, err := NewTable(periods)
	require.Error(t, err, "Total must equal the component sum")
	assert.Contains(t, err.Error(), "components sum to")
}

func TestNewTableRejectsNegativeComponent(t *testing.T) {
	periods := []Period{
		{
			Start: day(2000, time.January, 1),
			Rates: RateSet{CSG: pct(-1), CRDS: pct(1), Total: pct(0)},
		},
	}

	_, err := NewTable(periods)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative")
}

func TestPeriodLabel(t *testing.T) {
	closed := Period{Start: day(2013, time.January, 1), End: day(2017, time.December, 31)}
	assert.Equal(t, "01/01/2013 - 31/12/2017", closed.Label())

	open := Period{Start: day(2026, time.January, 1)}
	assert.Equal(t, "depuis 01/01/2026", open.Label())
}

func TestRateSetComponentSum(t *testing.T) {
	r := RateSet{CSG: pct(9.2), CRDS: pct(0.5), PS: pct(7.5), Total: pct(17.2)}
	assert.True(t, r.ComponentSum().Equal(decimal.NewFromFloat(17.2)))
}
