package rates

import (
	"time"

	"github.com/shopspring/decimal"
)

// Historical social-tax rates applicable to PEA gains.
// Source: CFONB / Bulletin Officiel des Finances Publiques.

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func pct(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

var defaultPeriods = []Period{
	{
		// CRDS alone at 0.5%
		Start: day(1996, time.February, 1),
		End:   day(1996, time.December, 31),
		Rates: RateSet{CRDS: pct(0.5), Total: pct(0.5)},
	},
	{
		// CSG 3.4% + CRDS 0.5%
		Start: day(1997, time.January, 1),
		End:   day(1997, time.December, 31),
		Rates: RateSet{CSG: pct(3.4), CRDS: pct(0.5), Total: pct(3.9)},
	},
	{
		// CSG 7.5% + CRDS 0.5% + PS 2%
		Start: day(1998, time.January, 1),
		End:   day(2004, time.June, 30),
		Rates: RateSet{CSG: pct(7.5), CRDS: pct(0.5), PS: pct(2), Total: pct(10)},
	},
	{
		// CAPS 0.3% added
		Start: day(2004, time.July, 1),
		End:   day(2004, time.December, 31),
		Rates: RateSet{CSG: pct(7.5), CRDS: pct(0.5), PS: pct(2), CAPS: pct(0.3), Total: pct(10.3)},
	},
	{
		// CSG raised to 8.2%
		Start: day(2005, time.January, 1),
		End:   day(2008, time.December, 31),
		Rates: RateSet{CSG: pct(8.2), CRDS: pct(0.5), PS: pct(2), CAPS: pct(0.3), Total: pct(11)},
	},
	{
		// CRSA 1.1% added
		Start: day(2009, time.January, 1),
		End:   day(2010, time.December, 31),
		Rates: RateSet{CSG: pct(8.2), CRDS: pct(0.5), PS: pct(2), CAPS: pct(0.3), CRSA: pct(1.1), Total: pct(12.1)},
	},
	{
		// PS raised to 2.2%
		Start: day(2011, time.January, 1),
		End:   day(2011, time.September, 30),
		Rates: RateSet{CSG: pct(8.2), CRDS: pct(0.5), PS: pct(2.2), CAPS: pct(0.3), CRSA: pct(1.1), Total: pct(12.3)},
	},
	{
		// PS raised to 3.4%
		Start: day(2011, time.October, 1),
		End:   day(2012, time.June, 30),
		Rates: RateSet{CSG: pct(8.2), CRDS: pct(0.5), PS: pct(3.4), CAPS: pct(0.3), CRSA: pct(1.1), Total: pct(13.5)},
	},
	{
		// PS raised to 5.4%
		Start: day(2012, time.July, 1),
		End:   day(2012, time.December, 31),
		Rates: RateSet{CSG: pct(8.2), CRDS: pct(0.5), PS: pct(5.4), CAPS: pct(0.3), CRSA: pct(1.1), Total: pct(15.5)},
	},
	{
		// Same 15.5% overall but the split changes: CRSA replaced by PSOL 2%
		Start: day(2013, time.January, 1),
		End:   day(2017, time.December, 31),
		Rates: RateSet{CSG: pct(8.2), CRDS: pct(0.5), PS: pct(4.5), CAPS: pct(0.3), PSOL: pct(2), Total: pct(15.5)},
	},
	{
		// Flat-tax era: CSG 9.2% + CRDS 0.5% + PS 7.5%
		Start: day(2018, time.January, 1),
		End:   day(2025, time.December, 31),
		Rates: RateSet{CSG: pct(9.2), CRDS: pct(0.5), PS: pct(7.5), Total: pct(17.2)},
	},
	{
		// CSG raised to 10.6% from 2026
		Start: day(2026, time.January, 1),
		Rates: RateSet{CSG: pct(10.6), CRDS: pct(0.5), PS: pct(7.5), Total: pct(18.6)},
	},
}

// Default returns the canonical historical rate table. The data is
// validated at package init, so a corrupt edit fails the whole process
// immediately rather than one request at a time.
func Default() *Table {
	return defaultTable
}

var defaultTable = func() *Table {
	t, err := NewTable(defaultPeriods)
	if err != nil {
		panic(err)
	}
	return t
}()

// DefaultPivotDates lists the dates for which a valuation checkpoint is
// worth supplying: the eve of the table's first period plus the rate-change
// boundaries the CFONB statement layout expects.
var DefaultPivotDates = []time.Time{
	day(1996, time.January, 31),
	day(1996, time.December, 31),
	day(1997, time.December, 31),
	day(2004, time.June, 30),
	day(2004, time.December, 31),
	day(2008, time.December, 31),
	day(2010, time.December, 31),
	day(2012, time.December, 31),
	day(2017, time.December, 31),
	day(2025, time.December, 31),
}
