package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxAmounts is a per-component breakdown of tax owed, in euros. The same
// component names as rates.RateSet, but money rather than percentages.
type TaxAmounts struct {
	CSG   decimal.Decimal `json:"csg"`
	CRDS  decimal.Decimal `json:"crds"`
	PS    decimal.Decimal `json:"ps"`
	CAPS  decimal.Decimal `json:"caps"`
	CRSA  decimal.Decimal `json:"crsa"`
	PSOL  decimal.Decimal `json:"psol"`
	Total decimal.Decimal `json:"total"`
}

// Add returns the component-wise sum of two breakdowns.
func (t TaxAmounts) Add(o TaxAmounts) TaxAmounts {
	return TaxAmounts{
		CSG:   t.CSG.Add(o.CSG),
		CRDS:  t.CRDS.Add(o.CRDS),
		PS:    t.PS.Add(o.PS),
		CAPS:  t.CAPS.Add(o.CAPS),
		CRSA:  t.CRSA.Add(o.CRSA),
		PSOL:  t.PSOL.Add(o.PSOL),
		Total: t.Total.Add(o.Total),
	}
}

// PeriodDetail is the share of the current withdrawal's taxable gain
// attributed to one fiscal period, with the tax computed at that period's
// rates.
type PeriodDetail struct {
	PeriodLabel string          `json:"periodLabel"`
	PeriodStart time.Time       `json:"periodStart"`
	PeriodEnd   time.Time       `json:"periodEnd,omitempty"`
	Gain        decimal.Decimal `json:"gain"`
	RateTotal   decimal.Decimal `json:"rateTotal"`
	Taxes       TaxAmounts      `json:"taxes"`
}

// GainResult is the complete outcome of pricing a withdrawal. Formatters
// and the bordereau renderer consume it as-is; the engine never returns a
// partially filled one.
type GainResult struct {
	WithdrawalAmount decimal.Decimal `json:"montantRetrait"`
	TotalGain        decimal.Decimal `json:"gainTotal"`
	TaxableBase      decimal.Decimal `json:"assietteGain"`
	EffectiveRate    decimal.Decimal `json:"tauxPS"`
	TotalTax         decimal.Decimal `json:"montantPS"`
	NetProceeds      decimal.Decimal `json:"netVendeur"`

	// PlanAgeYears is the plan age at pricing time, in years rounded to
	// one decimal.
	PlanAgeYears float64 `json:"agePEA"`
	// SimpleCase is true when the single current flat rate applies and no
	// per-period breakdown is produced.
	SimpleCase bool `json:"casSimple"`

	InitialPrincipal     decimal.Decimal `json:"capitalInitial"`
	RemainingPrincipal   decimal.Decimal `json:"capitalRestant"`
	PrincipalReimbursed  decimal.Decimal `json:"cumulVersementsRembourses"`
	PastWithdrawalsTotal decimal.Decimal `json:"cumulRetraitsPasses"`

	// PeriodDetails and TaxByComponent are only present in the historical
	// (non-simple) case.
	PeriodDetails  []PeriodDetail `json:"detailsParPeriode,omitempty"`
	TaxByComponent *TaxAmounts    `json:"repartitionTaxes,omitempty"`
}
