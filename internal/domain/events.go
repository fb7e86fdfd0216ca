// Package domain contains the core types of the PEA withdrawal
// calculator: the plan timeline events, the plan itself, and the
// computation result handed to formatters.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event is one entry in a plan's timeline: a deposit, a past withdrawal,
// or an externally attested valuation checkpoint. Implementations are the
// three concrete types below; the replay engine switches over them.
type Event interface {
	// When returns the event date.
	When() time.Time
	// Kind returns a short name for error messages and display.
	Kind() string
}

// Deposit is cash paid into the plan. Valuation, when present, is the
// attested total plan value just after the deposit; without it the plan
// value is assumed to rise by exactly the deposit amount.
type Deposit struct {
	Date      time.Time
	Amount    decimal.Decimal
	Valuation *decimal.Decimal
}

func (d Deposit) When() time.Time { return d.Date }
func (d Deposit) Kind() string    { return "deposit" }

// PastWithdrawal is a withdrawal already made from the plan. Valuation is
// the total plan value at the moment of the withdrawal and is required:
// without it the principal/gain split of that withdrawal cannot be
// reconstructed.
type PastWithdrawal struct {
	Date      time.Time
	Amount    decimal.Decimal
	Valuation decimal.Decimal
}

func (w PastWithdrawal) When() time.Time { return w.Date }
func (w PastWithdrawal) Kind() string    { return "past withdrawal" }

// ValuationCheckpoint pins an attested total plan value at a date. It
// changes no balance; it only improves how latent gain is apportioned to
// fiscal periods on either side of it.
type ValuationCheckpoint struct {
	Date      time.Time
	Valuation decimal.Decimal
}

func (c ValuationCheckpoint) When() time.Time { return c.Date }
func (c ValuationCheckpoint) Kind() string    { return "valuation checkpoint" }

// Plan is the caller-supplied description of a PEA at the moment a
// withdrawal is being priced.
type Plan struct {
	OpeningDate      time.Time
	CurrentValuation decimal.Decimal
	Events           []Event
}
