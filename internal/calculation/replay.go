package calculation

import (
	"sort"
	"time"

	"github.com/Starsku/pea-helper/internal/domain"
	"github.com/Starsku/pea-helper/internal/rates"
	"github.com/shopspring/decimal"
)

// ReplayState carries the running totals of one chronological replay. It
// is created by Replay, mutated across the sorted event stream, and
// discarded once the withdrawal has been priced.
type ReplayState struct {
	// TotalDeposits is the cumulative amount ever paid into the plan.
	TotalDeposits decimal.Decimal
	// RemainingPrincipal is the deposited capital not yet returned by a
	// past withdrawal. Always >= 0 and <= TotalDeposits.
	RemainingPrincipal decimal.Decimal
	// PrincipalReimbursed is the cumulative principal handed back by past
	// withdrawals.
	PrincipalReimbursed decimal.Decimal
	// PastWithdrawalsTotal is the cumulative gross amount of past
	// withdrawals.
	PastWithdrawalsTotal decimal.Decimal
	// LastValuation is the plan value after the most recent event.
	LastValuation decimal.Decimal
	// LastEventDate is the date of the most recent event.
	LastEventDate time.Time
}

// sortEvents returns the events ordered by date ascending. Same-day events
// keep their insertion order (stable sort), so a caller listing the
// opening deposit before a same-day checkpoint gets exactly that replay
// order, deterministically.
func sortEvents(events []domain.Event) []domain.Event {
	sorted := make([]domain.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].When().Before(sorted[j].When())
	})
	return sorted
}

// Replay walks the plan's events in chronological order, attributing
// latent gain to fiscal periods as valuations are observed and consuming
// principal and gain as past withdrawals occur. It assumes the inputs
// already passed ValidateInputs.
//
// On return, the ledger's total equals currentValuation minus the
// remaining principal (up to rounding), the conservation property the
// pricer relies on.
func Replay(openingDate time.Time, events []domain.Event, currentValuation decimal.Decimal, asOf time.Time, table *rates.Table) (*ReplayState, *GainLedger, error) {
	st := &ReplayState{
		LastValuation: decimal.Zero,
		LastEventDate: dateOnly(openingDate),
	}
	ledger := NewGainLedger(table)

	for _, ev := range sortEvents(events) {
		date := dateOnly(ev.When())

		switch e := ev.(type) {
		case domain.Deposit:
			if e.Valuation != nil {
				latent := e.Valuation.Sub(st.LastValuation).Sub(e.Amount)
				if err := ledger.Distribute(latent, st.LastEventDate, date); err != nil {
					return nil, nil, err
				}
				st.LastValuation = *e.Valuation
			} else {
				// No attested value: the plan is assumed to grow by
				// exactly the deposit amount, so no latent gain appears.
				st.LastValuation = st.LastValuation.Add(e.Amount)
			}
			st.TotalDeposits = st.TotalDeposits.Add(e.Amount)
			st.RemainingPrincipal = st.RemainingPrincipal.Add(e.Amount)

		case domain.PastWithdrawal:
			latent := e.Valuation.Sub(st.LastValuation)
			if err := ledger.Distribute(latent, st.LastEventDate, date); err != nil {
				return nil, nil, err
			}

			// Principal share of the withdrawal, in proportion to the
			// principal still present in the plan at that moment. A
			// withdrawal cannot reimburse more principal than its own
			// amount, nor more than remains.
			principalShare := e.Amount.Mul(st.RemainingPrincipal).Div(e.Valuation)
			if principalShare.GreaterThan(st.RemainingPrincipal) {
				principalShare = st.RemainingPrincipal
			}
			if principalShare.GreaterThan(e.Amount) {
				principalShare = e.Amount
			}
			gainShare := e.Amount.Sub(principalShare)
			ledger.Consume(gainShare)

			st.RemainingPrincipal = st.RemainingPrincipal.Sub(principalShare)
			st.PrincipalReimbursed = st.PrincipalReimbursed.Add(principalShare)
			st.PastWithdrawalsTotal = st.PastWithdrawalsTotal.Add(e.Amount)

			// The withdrawn cash leaves the plan, so the running
			// valuation continues from the post-withdrawal value.
			st.LastValuation = e.Valuation.Sub(e.Amount)
			if st.LastValuation.IsNegative() {
				st.LastValuation = decimal.Zero
			}

		case domain.ValuationCheckpoint:
			latent := e.Valuation.Sub(st.LastValuation)
			if err := ledger.Distribute(latent, st.LastEventDate, date); err != nil {
				return nil, nil, err
			}
			st.LastValuation = e.Valuation
		}

		st.LastEventDate = date
	}

	// Final tranche: whatever the current valuation says accrued since the
	// last event.
	latent := currentValuation.Sub(st.LastValuation)
	if err := ledger.Distribute(latent, st.LastEventDate, dateOnly(asOf)); err != nil {
		return nil, nil, err
	}
	st.LastValuation = currentValuation
	st.LastEventDate = dateOnly(asOf)

	return st, ledger, nil
}

// ValidateInputs checks the whole request before any replay state is
// built: the computation is all-or-nothing.
func ValidateInputs(plan *domain.Plan, withdrawalAmount decimal.Decimal, asOf time.Time, table *rates.Table) error {
	if plan == nil {
		return validationErrorf("plan is required")
	}
	if plan.OpeningDate.IsZero() {
		return validationErrorf("opening date is required")
	}
	opening := dateOnly(plan.OpeningDate)
	if opening.After(dateOnly(asOf)) {
		return validationErrorf("opening date %s is in the future", opening.Format("2006-01-02"))
	}
	if opening.Before(table.First()) {
		return validationErrorf("opening date %s predates the rate table (starts %s)",
			opening.Format("2006-01-02"), table.First().Format("2006-01-02"))
	}
	if plan.CurrentValuation.IsNegative() {
		return validationErrorf("current valuation cannot be negative")
	}
	if !withdrawalAmount.IsPositive() {
		return validationErrorf("withdrawal amount must be positive")
	}
	if withdrawalAmount.GreaterThan(plan.CurrentValuation) {
		return validationErrorf("withdrawal amount %s exceeds current valuation %s",
			withdrawalAmount.StringFixed(2), plan.CurrentValuation.StringFixed(2))
	}

	openingDeposits := 0
	for i, ev := range plan.Events {
		if ev.When().IsZero() {
			return eventErrorf(i, "%s has no date", ev.Kind())
		}
		date := dateOnly(ev.When())
		if date.Before(opening) {
			return eventErrorf(i, "%s dated %s precedes the opening date", ev.Kind(), date.Format("2006-01-02"))
		}
		if date.After(dateOnly(asOf)) {
			return eventErrorf(i, "%s dated %s is in the future", ev.Kind(), date.Format("2006-01-02"))
		}

		switch e := ev.(type) {
		case domain.Deposit:
			if !e.Amount.IsPositive() {
				return eventErrorf(i, "deposit amount must be positive")
			}
			if e.Valuation != nil && e.Valuation.IsNegative() {
				return eventErrorf(i, "deposit valuation cannot be negative")
			}
			if date.Equal(opening) {
				openingDeposits++
			}
		case domain.PastWithdrawal:
			if !e.Amount.IsPositive() {
				return eventErrorf(i, "past withdrawal amount must be positive")
			}
			if !e.Valuation.IsPositive() {
				return eventErrorf(i, "past withdrawal requires a positive valuation at withdrawal")
			}
		case domain.ValuationCheckpoint:
			if e.Valuation.IsNegative() {
				return eventErrorf(i, "checkpoint valuation cannot be negative")
			}
		default:
			return eventErrorf(i, "unknown event type %T", ev)
		}
	}

	if openingDeposits == 0 {
		return validationErrorf("the plan needs an opening deposit dated %s", opening.Format("2006-01-02"))
	}
	return nil
}
