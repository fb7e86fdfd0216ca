package calculation

import (
	"time"

	"github.com/Starsku/pea-helper/internal/domain"
	"github.com/Starsku/pea-helper/internal/rates"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// round2 rounds to the euro's minor unit. For the non-negative amounts
// taxed here, rounding half away from zero is exactly round-half-up.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// PricedWithdrawal is the raw outcome of pricing one withdrawal against a
// replayed plan state, before result assembly.
type PricedWithdrawal struct {
	Amount         decimal.Decimal
	PrincipalShare decimal.Decimal
	TaxableBase    decimal.Decimal
	TotalTax       decimal.Decimal
	NetProceeds    decimal.Decimal
	EffectiveRate  decimal.Decimal
	Flat           bool
	PeriodDetails  []domain.PeriodDetail
	TaxByComponent *domain.TaxAmounts
}

// PriceWithdrawal splits the requested amount into a non-taxable principal
// share and a taxable gain base, then taxes the base. In the simple case
// (or when the ledger holds no historical stock) the single rate of the
// period containing asOf applies to the whole base; otherwise the base is
// allocated across fiscal periods in proportion to the ledger's
// composition and taxed period by period, component by component.
func PriceWithdrawal(amount decimal.Decimal, st *ReplayState, ledger *GainLedger, currentValuation decimal.Decimal, table *rates.Table, asOf time.Time, simple bool) (*PricedWithdrawal, error) {
	pw := &PricedWithdrawal{Amount: amount}

	// A worthless plan yields neither principal nor gain: defined as
	// identically zero, not an error.
	if !currentValuation.IsPositive() {
		pw.NetProceeds = amount
		pw.Flat = true
		return pw, nil
	}

	// In a loss position the proportional formula exceeds the withdrawal
	// itself; the share is capped by both the amount withdrawn and the
	// principal left, so the base floors at zero.
	principalShare := amount.Mul(st.RemainingPrincipal).Div(currentValuation)
	if principalShare.GreaterThan(st.RemainingPrincipal) {
		principalShare = st.RemainingPrincipal
	}
	if principalShare.GreaterThan(amount) {
		principalShare = amount
	}
	pw.PrincipalShare = round2(principalShare)
	base := amount.Sub(principalShare)
	pw.TaxableBase = round2(base)

	totalStock := ledger.Total()

	if simple || !totalStock.IsPositive() {
		current, err := table.PeriodFor(dateOnly(asOf))
		if err != nil {
			return nil, err
		}
		pw.Flat = true
		pw.EffectiveRate = current.Rates.Total
		pw.TotalTax = round2(base.Mul(current.Rates.Total).Div(hundred))
		pw.NetProceeds = amount.Sub(pw.TotalTax)
		return pw, nil
	}

	agg := domain.TaxAmounts{}
	for _, entry := range ledger.Entries() {
		// This period's slice of the withdrawal's gain, by its share of
		// the total ledger stock. The fractions sum to one, so the
		// allocations sum back to the base up to rounding.
		alloc := base.Mul(entry.Gain).Div(totalStock)
		taxes := taxAmounts(entry.Period.Rates, alloc)

		pw.PeriodDetails = append(pw.PeriodDetails, domain.PeriodDetail{
			PeriodLabel: entry.Period.Label(),
			PeriodStart: entry.Period.Start,
			PeriodEnd:   entry.Period.End,
			Gain:        round2(alloc),
			RateTotal:   entry.Period.Rates.Total,
			Taxes:       taxes,
		})
		agg = agg.Add(taxes)
	}

	pw.TaxByComponent = &agg
	pw.TotalTax = agg.Total
	pw.NetProceeds = amount.Sub(pw.TotalTax)
	if base.IsPositive() {
		pw.EffectiveRate = round2(pw.TotalTax.Mul(hundred).Div(base))
	}
	return pw, nil
}

// taxAmounts applies a period's component rates to a gain amount, rounding
// each component to the cent; the total is the sum of the rounded
// components, matching how the amounts appear line by line on a statement.
func taxAmounts(r rates.RateSet, gain decimal.Decimal) domain.TaxAmounts {
	ta := domain.TaxAmounts{
		CSG:  round2(gain.Mul(r.CSG).Div(hundred)),
		CRDS: round2(gain.Mul(r.CRDS).Div(hundred)),
		PS:   round2(gain.Mul(r.PS).Div(hundred)),
		CAPS: round2(gain.Mul(r.CAPS).Div(hundred)),
		CRSA: round2(gain.Mul(r.CRSA).Div(hundred)),
		PSOL: round2(gain.Mul(r.PSOL).Div(hundred)),
	}
	ta.Total = ta.CSG.Add(ta.CRDS).Add(ta.PS).Add(ta.CAPS).Add(ta.CRSA).Add(ta.PSOL)
	return ta
}
