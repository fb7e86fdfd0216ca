package calculation

import (
	"sort"
	"time"

	"github.com/Starsku/pea-helper/internal/rates"
	"github.com/shopspring/decimal"
)

// GainLedger accumulates, per fiscal period, the gain attributed to that
// period so far in a replay. Entries only ever grow through Distribute and
// shrink through Consume; a period's stock never goes below zero.
type GainLedger struct {
	table *rates.Table
	stock map[string]decimal.Decimal // period Key() -> accumulated gain
}

// NewGainLedger creates an empty ledger over the given rate table.
func NewGainLedger(table *rates.Table) *GainLedger {
	return &GainLedger{
		table: table,
		stock: make(map[string]decimal.Decimal),
	}
}

// Distribute spreads a latent gain observed over [from, to] across the
// fiscal periods that interval overlaps, weighted by the fraction of
// elapsed time falling in each period. Non-positive gain is a no-op
// (losses are never distributed). When from and to land on the same day
// the whole gain goes to the period containing that day.
func (l *GainLedger) Distribute(gain decimal.Decimal, from, to time.Time) error {
	if !gain.IsPositive() {
		return nil
	}
	if to.Before(from) {
		from, to = to, from
	}

	totalDays := daysBetween(from, to)
	if totalDays == 0 {
		p, err := l.table.PeriodFor(dateOnly(to))
		if err != nil {
			return err
		}
		l.add(p, gain)
		return nil
	}

	total := decimal.NewFromInt(totalDays)
	for _, p := range l.table.Periods() {
		overlap := overlapDays(from, to, p)
		if overlap == 0 {
			continue
		}
		share := gain.Mul(decimal.NewFromInt(overlap)).Div(total)
		l.add(p, share)
	}
	return nil
}

// Consume removes gain from the ledger proportionally to each period's
// share of the total stock: a withdrawal draws on the whole accumulated
// gain pool uniformly, not first-in-first-out. Consumption beyond the
// total stock is absorbed (the ledger is clamped at zero).
func (l *GainLedger) Consume(amount decimal.Decimal) {
	if !amount.IsPositive() {
		return
	}
	total := l.Total()
	if !total.IsPositive() {
		return
	}
	ratio := amount.Div(total)
	if ratio.GreaterThan(decimal.NewFromInt(1)) {
		ratio = decimal.NewFromInt(1)
	}
	keep := decimal.NewFromInt(1).Sub(ratio)
	for k, s := range l.stock {
		l.stock[k] = s.Mul(keep)
	}
}

// Total returns the ledger's aggregate gain stock.
func (l *GainLedger) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, s := range l.stock {
		sum = sum.Add(s)
	}
	return sum
}

// LedgerEntry is one period's positive gain stock.
type LedgerEntry struct {
	Period rates.Period
	Gain   decimal.Decimal
}

// Entries returns the periods holding positive stock, in period order.
func (l *GainLedger) Entries() []LedgerEntry {
	var out []LedgerEntry
	for _, p := range l.table.Periods() {
		if s, ok := l.stock[p.Key()]; ok && s.IsPositive() {
			out = append(out, LedgerEntry{Period: p, Gain: s})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Period.Start.Before(out[j].Period.Start)
	})
	return out
}

func (l *GainLedger) add(p rates.Period, gain decimal.Decimal) {
	l.stock[p.Key()] = l.stock[p.Key()].Add(gain)
}

// daysBetween counts whole days from a to b, both taken at midnight UTC.
func daysBetween(a, b time.Time) int64 {
	return int64(dateOnly(b).Sub(dateOnly(a)).Hours() / 24)
}

// overlapDays measures, in days, how much of the half-open interval
// [from, to) the period covers, with the period itself treated as
// [Start, End+1day). Measuring half-open intervals keeps contiguous
// periods from double counting their shared boundary and makes the
// per-period day counts sum exactly to the interval length.
func overlapDays(from, to time.Time, p rates.Period) int64 {
	start := dateOnly(p.Start)
	if from.After(start) {
		start = dateOnly(from)
	}
	end := dateOnly(to)
	if !p.OpenEnded() {
		pEnd := dateOnly(p.End).AddDate(0, 0, 1)
		if pEnd.Before(end) {
			end = pEnd
		}
	}
	if !end.After(start) {
		return 0
	}
	return daysBetween(start, end)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
