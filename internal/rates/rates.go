// Package rates holds the historical table of French social-tax rates
// applicable to PEA gains. The table is reference data: it is validated
// once at load time and never mutated afterwards.
package rates

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// RateSet is the combination of social-tax component rates (percentages)
// in force during one fiscal period. Total must equal the sum of the
// components; NewTable checks this rather than trusting the data.
type RateSet struct {
	CSG   decimal.Decimal `yaml:"csg" json:"csg"`
	CRDS  decimal.Decimal `yaml:"crds" json:"crds"`
	PS    decimal.Decimal `yaml:"ps" json:"ps"`
	CAPS  decimal.Decimal `yaml:"caps" json:"caps"`
	CRSA  decimal.Decimal `yaml:"crsa" json:"crsa"`
	PSOL  decimal.Decimal `yaml:"psol" json:"psol"`
	Total decimal.Decimal `yaml:"total" json:"total"`
}

// ComponentNames lists the tax components in their conventional order.
var ComponentNames = []string{"csg", "crds", "ps", "caps", "crsa", "psol"}

// Components returns the component rates in ComponentNames order.
func (r RateSet) Components() []decimal.Decimal {
	return []decimal.Decimal{r.CSG, r.CRDS, r.PS, r.CAPS, r.CRSA, r.PSOL}
}

// ComponentSum adds up the individual component rates.
func (r RateSet) ComponentSum() decimal.Decimal {
	sum := decimal.Zero
	for _, c := range r.Components() {
		sum = sum.Add(c)
	}
	return sum
}

// Period is one fiscal period: a date range during which a given RateSet
// applied. A zero End means the period is open-ended (in force today).
type Period struct {
	Start time.Time `yaml:"start" json:"start"`
	End   time.Time `yaml:"end,omitempty" json:"end,omitempty"`
	Rates RateSet   `yaml:"rates" json:"rates"`
}

// OpenEnded reports whether the period has no end date.
func (p Period) OpenEnded() bool {
	return p.End.IsZero()
}

// Contains reports whether d falls inside the period (both bounds inclusive).
func (p Period) Contains(d time.Time) bool {
	if d.Before(p.Start) {
		return false
	}
	return p.OpenEnded() || !d.After(p.End)
}

// Label renders the period as a human-readable date range.
func (p Period) Label() string {
	if p.OpenEnded() {
		return fmt.Sprintf("depuis %s", p.Start.Format("02/01/2006"))
	}
	return fmt.Sprintf("%s - %s", p.Start.Format("02/01/2006"), p.End.Format("02/01/2006"))
}

// Key identifies the period by its start date; the gain ledger uses it as
// its map key.
func (p Period) Key() string {
	return p.Start.Format("2006-01-02")
}

// ConfigurationError reports a malformed rate table. It is fatal at load
// time, never per-request.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	return "rate table configuration: " + e.Msg
}

func configErrorf(format string, args ...interface{}) error {
	return &ConfigurationError{Msg: fmt.Sprintf(format, args...)}
}

// Table is an ordered, validated list of contiguous fiscal periods.
type Table struct {
	periods []Period
}

// NewTable validates the given periods and builds a Table. The periods
// must be ordered, contiguous (each one starting the day after the
// previous one ends), with only the last one open-ended, and every
// RateSet total equal to the sum of its components.
func NewTable(periods []Period) (*Table, error) {
	if len(periods) == 0 {
		return nil, configErrorf("no periods")
	}
	for i, p := range periods {
		if p.Start.IsZero() {
			return nil, configErrorf("period %d has no start date", i)
		}
		if p.OpenEnded() && i != len(periods)-1 {
			return nil, configErrorf("period %d (%s) is open-ended but not last", i, p.Label())
		}
		if !p.OpenEnded() && p.End.Before(p.Start) {
			return nil, configErrorf("period %d (%s) ends before it starts", i, p.Label())
		}
		for j, c := range p.Rates.Components() {
			if c.IsNegative() {
				return nil, configErrorf("period %d (%s): %s rate is negative", i, p.Label(), ComponentNames[j])
			}
		}
		if !p.Rates.ComponentSum().Equal(p.Rates.Total) {
			return nil, configErrorf("period %d (%s): components sum to %s, total says %s",
				i, p.Label(), p.Rates.ComponentSum().String(), p.Rates.Total.String())
		}
		if i > 0 {
			prev := periods[i-1]
			want := prev.End.AddDate(0, 0, 1)
			if !p.Start.Equal(want) {
				return nil, configErrorf("period %d (%s) does not start the day after period %d ends (%s)",
					i, p.Label(), i-1, prev.End.Format("02/01/2006"))
			}
		}
	}
	ps := make([]Period, len(periods))
	copy(ps, periods)
	return &Table{periods: ps}, nil
}

// Periods returns the ordered period list.
func (t *Table) Periods() []Period {
	out := make([]Period, len(t.periods))
	copy(out, t.periods)
	return out
}

// First returns the start date of the earliest period.
func (t *Table) First() time.Time {
	return t.periods[0].Start
}

// PeriodFor returns the period in force on the given date. Every date on
// or after the table's first start date maps to exactly one period; dates
// before it are an error.
func (t *Table) PeriodFor(d time.Time) (Period, error) {
	for _, p := range t.periods {
		if p.Contains(d) {
			return p, nil
		}
	}
	return Period{}, fmt.Errorf("no fiscal period covers %s (table starts %s)",
		d.Format("02/01/2006"), t.First().Format("02/01/2006"))
}

// Current returns the open-ended period at the end of the table.
func (t *Table) Current() Period {
	return t.periods[len(t.periods)-1]
}
