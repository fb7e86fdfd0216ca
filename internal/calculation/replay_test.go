package calculation

import (
	"testing"
	"time"

	"github.com/Starsku/pea-helper/internal/domain"
	"github.com/Starsku/pea-helper/internal/rates"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestReplayDepositsOnly(t *testing.T) {
	events := []domain.Event{
		domain.Deposit{Date: date(2015, time.January, 1), Amount: dec("10000")},
		domain.Deposit{Date: date(2016, time.January, 1), Amount: dec("5000")},
	}

	st, ledger, err := Replay(date(2015, time.January, 1), events, dec("20000"), date(2025, time.June, 1), rates.Default())

	require.NoError(t, err)
	assert.True(t, st.TotalDeposits.Equal(dec("15000")))
	assert.True(t, st.RemainingPrincipal.Equal(dec("15000")))
	assert.True(t, st.PrincipalReimbursed.IsZero())
	assert.True(t, st.PastWithdrawalsTotal.IsZero())
	assertDecEqual(t, dec("5000"), ledger.Total(), "Ledger holds exactly the latent gain")
}

func TestReplayConservation(t *testing.T) {
	events := []domain.Event{
		domain.Deposit{Date: date(2010, time.January, 1), Amount: dec("10000")},
		domain.ValuationCheckpoint{Date: date(2010, time.December, 31), Valuation: dec("11000")},
		domain.ValuationCheckpoint{Date: date(2017, time.December, 31), Valuation: dec("18000")},
	}
	currentValuation := dec("25000")

	st, ledger, err := Replay(date(2010, time.January, 1), events, currentValuation, date(2026, time.February, 1), rates.Default())

	require.NoError(t, err)
	// Ledger total == current valuation - remaining principal, the
	// conservation property the pricer relies on.
	assertDecEqual(t, currentValuation.Sub(st.RemainingPrincipal), ledger.Total())
	assertDecEqual(t, dec("15000"), ledger.Total())
}

func TestReplayConservationWithPastWithdrawal(t *testing.T) {
	events := []domain.Event{
		domain.Deposit{Date: date(2010, time.January, 1), Amount: dec("10000")},
		domain.ValuationCheckpoint{Date: date(2014, time.December, 31), Valuation: dec("14000")},
		domain.PastWithdrawal{Date: date(2019, time.June, 1), Amount: dec("4000"), Valuation: dec("16000")},
	}
	currentValuation := dec("15000")

	st, ledger, err := Replay(date(2010, time.January, 1), events, currentValuation, date(2026, time.February, 1), rates.Default())

	require.NoError(t, err)

	// Principal share of the 4000 withdrawal at valuation 16000:
	// 4000 * 10000/16000 = 2500.
	assertDecEqual(t, dec("7500"), st.RemainingPrincipal)
	assertDecEqual(t, dec("2500"), st.PrincipalReimbursed)
	assert.True(t, st.PastWithdrawalsTotal.Equal(dec("4000")))
	assert.True(t, st.TotalDeposits.Equal(dec("10000")))

	assertDecEqual(t, currentValuation.Sub(st.RemainingPrincipal), ledger.Total(),
		"Conservation must survive a past withdrawal")
}

func TestReplayPrincipalNeverNegative(t *testing.T) {
	// A withdrawal cheap enough relative to the valuation still cannot
	// reimburse more principal than remains.
	events := []domain.Event{
		domain.Deposit{Date: date(2010, time.January, 1), Amount: dec("1000")},
		domain.PastWithdrawal{Date: date(2016, time.June, 1), Amount: dec("1100"), Valuation: dec("1100")},
	}

	st, _, err := Replay(date(2010, time.January, 1), events, dec("50"), date(2026, time.February, 1), rates.Default())

	require.NoError(t, err)
	assert.False(t, st.RemainingPrincipal.IsNegative(), "Remaining principal is floored at zero")
	assert.False(t, st.LastValuation.IsNegative())
}

func TestReplayPastWithdrawalInLossPosition(t *testing.T) {
	// 2000 deposited, plan down to 1000 at the withdrawal: a 500
	// withdrawal reimburses exactly 500 of principal, not the 1000 the
	// unclamped proportion would claim.
	events := []domain.Event{
		domain.Deposit{Date: date(2012, time.January, 2), Amount: dec("2000")},
		domain.PastWithdrawal{Date: date(2016, time.June, 1), Amount: dec("500"), Valuation: dec("1000")},
	}

	st, ledger, err := Replay(date(2012, time.January, 2), events, dec("500"), date(2026, time.February, 1), rates.Default())

	require.NoError(t, err)
	assert.True(t, st.PrincipalReimbursed.Equal(dec("500")), "a 500 withdrawal cannot reimburse more than 500 of principal")
	assert.True(t, st.RemainingPrincipal.Equal(dec("1500")))
	assert.True(t, st.PastWithdrawalsTotal.Equal(dec("500")))
	assert.True(t, ledger.Total().IsZero(), "A plan still under water accrues no gain stock")
}

func TestReplayDepositWithAttestedValuation(t *testing.T) {
	// A deposit carrying a valuation reveals the latent gain accrued up to
	// that day: 13000 - 10000 - 2000 = 1000.
	events := []domain.Event{
		domain.Deposit{Date: date(2014, time.January, 1), Amount: dec("10000")},
		domain.Deposit{Date: date(2016, time.January, 1), Amount: dec("2000"), Valuation: decPtr("13000")},
	}

	st, ledger, err := Replay(date(2014, time.January, 1), events, dec("13000"), date(2016, time.January, 1), rates.Default())

	require.NoError(t, err)
	assert.True(t, st.TotalDeposits.Equal(dec("12000")))
	assertDecEqual(t, dec("1000"), ledger.Total(), "The attested valuation fixes the gain accrued before the deposit")
}

func TestReplaySameDayEventsKeepInsertionOrder(t *testing.T) {
	open := date(2015, time.January, 1)
	// Deposit listed before the same-day checkpoint: the checkpoint sees
	// the deposited capital and reports no gain.
	events := []domain.Event{
		domain.Deposit{Date: open, Amount: dec("10000")},
		domain.ValuationCheckpoint{Date: open, Valuation: dec("10000")},
	}

	_, ledger, err := Replay(open, events, dec("10000"), date(2021, time.June, 1), rates.Default())

	require.NoError(t, err)
	assert.True(t, ledger.Total().IsZero(), "Same-day order is replayed as listed")
}

func TestReplayEventsSortedByDate(t *testing.T) {
	// Events arrive out of order; the replay must not care.
	shuffled := []domain.Event{
		domain.ValuationCheckpoint{Date: date(2017, time.December, 31), Valuation: dec("18000")},
		domain.Deposit{Date: date(2010, time.January, 1), Amount: dec("10000")},
		domain.ValuationCheckpoint{Date: date(2010, time.December, 31), Valuation: dec("11000")},
	}
	ordered := []domain.Event{
		domain.Deposit{Date: date(2010, time.January, 1), Amount: dec("10000")},
		domain.ValuationCheckpoint{Date: date(2010, time.December, 31), Valuation: dec("11000")},
		domain.ValuationCheckpoint{Date: date(2017, time.December, 31), Valuation: dec("18000")},
	}

	stA, ledgerA, err := Replay(date(2010, time.January, 1), shuffled, dec("25000"), date(2026, time.February, 1), rates.Default())
	require.NoError(t, err)
	stB, ledgerB, err := Replay(date(2010, time.January, 1), ordered, dec("25000"), date(2026, time.February, 1), rates.Default())
	require.NoError(t, err)

	assert.True(t, stA.RemainingPrincipal.Equal(stB.RemainingPrincipal))
	assert.True(t, ledgerA.Total().Equal(ledgerB.Total()))
}

func validPlan() *domain.Plan {
	return &domain.Plan{
		OpeningDate:      date(2010, time.January, 1),
		CurrentValuation: dec("25000"),
		Events: []domain.Event{
			domain.Deposit{Date: date(2010, time.January, 1), Amount: dec("10000")},
		},
	}
}

func TestValidateInputsAccepts(t *testing.T) {
	err := ValidateInputs(validPlan(), dec("5000"), date(2026, time.February, 1), rates.Default())
	assert.NoError(t, err)
}

func TestValidateInputsRejections(t *testing.T) {
	asOf := date(2026, time.February, 1)
	table := rates.Default()

	tests := []struct {
		name    string
		mutate  func(p *domain.Plan)
		amount  decimal.Decimal
		wantMsg string
	}{
		{
			name:    "missing opening date",
			mutate:  func(p *domain.Plan) { p.OpeningDate = time.Time{} },
			amount:  dec("100"),
			wantMsg: "opening date is required",
		},
		{
			name:    "opening date in the future",
			mutate:  func(p *domain.Plan) { p.OpeningDate = date(2030, time.January, 1) },
			amount:  dec("100"),
			wantMsg: "in the future",
		},
		{
			name:    "opening date before the rate table",
			mutate:  func(p *domain.Plan) { p.OpeningDate = date(1990, time.January, 1) },
			amount:  dec("100"),
			wantMsg: "predates the rate table",
		},
		{
			name:    "negative current valuation",
			mutate:  func(p *domain.Plan) { p.CurrentValuation = dec("-1") },
			amount:  dec("100"),
			wantMsg: "cannot be negative",
		},
		{
			name:    "zero withdrawal amount",
			mutate:  func(p *domain.Plan) {},
			amount:  decimal.Zero,
			wantMsg: "must be positive",
		},
		{
			name:    "withdrawal above current valuation",
			mutate:  func(p *domain.Plan) {},
			amount:  dec("25001"),
			wantMsg: "exceeds current valuation",
		},
		{
			name: "event before the opening date",
			mutate: func(p *domain.Plan) {
				p.Events = append(p.Events, domain.ValuationCheckpoint{Date: date(2009, time.June, 1), Valuation: dec("1")})
			},
			amount:  dec("100"),
			wantMsg: "precedes the opening date",
		},
		{
			name: "event in the future",
			mutate: func(p *domain.Plan) {
				p.Events = append(p.Events, domain.ValuationCheckpoint{Date: date(2030, time.June, 1), Valuation: dec("1")})
			},
			amount:  dec("100"),
			wantMsg: "is in the future",
		},
		{
			name: "non-positive deposit",
			mutate: func(p *domain.Plan) {
				p.Events = append(p.Events, domain.Deposit{Date: date(2011, time.June, 1), Amount: decimal.Zero})
			},
			amount:  dec("100"),
			wantMsg: "deposit amount must be positive",
		},
		{
			name: "past withdrawal without a positive valuation",
			mutate: func(p *domain.Plan) {
				p.Events = append(p.Events, domain.PastWithdrawal{Date: date(2011, time.June, 1), Amount: dec("500"), Valuation: decimal.Zero})
			},
			amount:  dec("100"),
			wantMsg: "positive valuation at withdrawal",
		},
		{
			name: "negative checkpoint valuation",
			mutate: func(p *domain.Plan) {
				p.Events = append(p.Events, domain.ValuationCheckpoint{Date: date(2011, time.June, 1), Valuation: dec("-5")})
			},
			amount:  dec("100"),
			wantMsg: "checkpoint valuation cannot be negative",
		},
		{
			name:    "no opening deposit",
			mutate:  func(p *domain.Plan) { p.Events = nil },
			amount:  dec("100"),
			wantMsg: "needs an opening deposit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := validPlan()
			tt.mutate(plan)

			err := ValidateInputs(plan, tt.amount, asOf, table)

			require.Error(t, err)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr, "Validation failures carry a ValidationError")
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
