package calculation

import (
	"math"
	"time"

	"github.com/Starsku/pea-helper/internal/domain"
	"github.com/Starsku/pea-helper/internal/rates"
	"github.com/shopspring/decimal"
)

// historicalRateCutoff: plans opened on or after this date never benefit
// from the historical per-period rates, whatever their age.
var historicalRateCutoff = time.Date(2018, time.January, 1, 0, 0, 0, 0, time.UTC)

// Engine prices PEA withdrawals against an injected, immutable rate
// table. It holds no per-request state: one Engine is safe to share
// across concurrent requests.
type Engine struct {
	Rates *rates.Table
}

// NewEngine creates an engine over the canonical historical rate table.
func NewEngine() *Engine {
	return &Engine{Rates: rates.Default()}
}

// NewEngineWithTable creates an engine over a custom rate table, for
// deterministic testing or jurisdictional what-ifs.
func NewEngineWithTable(table *rates.Table) *Engine {
	return &Engine{Rates: table}
}

// PlanAge returns the plan's age in fractional years at asOf.
func PlanAge(openingDate, asOf time.Time) float64 {
	return asOf.Sub(openingDate).Hours() / (24 * 365.25)
}

// IsSimpleCase reports whether the flat current rate applies: plans
// younger than five years, and plans opened in the flat-tax era, get no
// historical per-period apportionment.
func IsSimpleCase(openingDate, asOf time.Time) bool {
	if PlanAge(openingDate, asOf) < 5 {
		return true
	}
	return !openingDate.Before(historicalRateCutoff)
}

// ComputeWithdrawal reconstructs the plan's history and prices the
// requested withdrawal as of the given date. It is a pure function of its
// arguments: identical inputs produce identical results, and invalid
// input yields a ValidationError with nothing computed.
func (e *Engine) ComputeWithdrawal(plan *domain.Plan, withdrawalAmount decimal.Decimal, asOf time.Time) (*domain.GainResult, error) {
	if err := ValidateInputs(plan, withdrawalAmount, asOf, e.Rates); err != nil {
		return nil, err
	}

	opening := dateOnly(plan.OpeningDate)
	st, ledger, err := Replay(opening, plan.Events, plan.CurrentValuation, asOf, e.Rates)
	if err != nil {
		return nil, err
	}

	simple := IsSimpleCase(opening, dateOnly(asOf))
	priced, err := PriceWithdrawal(withdrawalAmount, st, ledger, plan.CurrentValuation, e.Rates, asOf, simple)
	if err != nil {
		return nil, err
	}

	return assembleResult(plan, st, priced, opening, dateOnly(asOf)), nil
}

// assembleResult maps the pricer output and replay state into the output
// record. Pure labeling and rounding; no further computation.
func assembleResult(plan *domain.Plan, st *ReplayState, pw *PricedWithdrawal, opening, asOf time.Time) *domain.GainResult {
	age := math.Round(PlanAge(opening, asOf)*10) / 10

	return &domain.GainResult{
		WithdrawalAmount: pw.Amount,
		TotalGain:        round2(plan.CurrentValuation.Sub(st.RemainingPrincipal)),
		TaxableBase:      pw.TaxableBase,
		EffectiveRate:    pw.EffectiveRate,
		TotalTax:         pw.TotalTax,
		NetProceeds:      pw.NetProceeds,

		PlanAgeYears: age,
		SimpleCase:   pw.Flat,

		InitialPrincipal:     st.TotalDeposits,
		RemainingPrincipal:   round2(st.RemainingPrincipal),
		PrincipalReimbursed:  round2(st.PrincipalReimbursed),
		PastWithdrawalsTotal: st.PastWithdrawalsTotal,

		PeriodDetails:  pw.PeriodDetails,
		TaxByComponent: pw.TaxByComponent,
	}
}
