// Package config loads and validates the YAML input file describing a
// plan, its timeline, and the withdrawal to price.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/Starsku/pea-helper/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Event type tags accepted in input files.
const (
	EventDeposit    = "deposit"
	EventWithdrawal = "withdrawal"
	EventCheckpoint = "checkpoint"
)

// Input is the on-disk shape of a calculation request.
type Input struct {
	Plan       PlanInput       `yaml:"plan"`
	Withdrawal WithdrawalInput `yaml:"withdrawal"`
	// AsOf is the pricing date; defaults to today when absent. Passing it
	// explicitly makes a run reproducible.
	AsOf *time.Time `yaml:"as_of"`
}

// PlanInput describes the plan and its timeline.
type PlanInput struct {
	OpeningDate      time.Time       `yaml:"opening_date"`
	CurrentValuation decimal.Decimal `yaml:"current_valuation"`
	Events           []EventInput    `yaml:"events"`
}

// EventInput is one timeline entry. Type selects which fields apply:
// deposits carry an amount (valuation optional), withdrawals an amount
// and a valuation, checkpoints a valuation only.
type EventInput struct {
	Type      string           `yaml:"type"`
	Date      time.Time        `yaml:"date"`
	Amount    decimal.Decimal  `yaml:"amount,omitempty"`
	Valuation *decimal.Decimal `yaml:"valuation,omitempty"`
}

// WithdrawalInput is the withdrawal being priced.
type WithdrawalInput struct {
	Amount decimal.Decimal `yaml:"amount"`
}

// InputParser handles parsing of input files.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a calculation request from a YAML file.
func (ip *InputParser) LoadFromFile(filename string) (*Input, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var input Input
	if err := yaml.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateInput(&input); err != nil {
		return nil, fmt.Errorf("input validation failed: %w", err)
	}

	return &input, nil
}

// ValidateInput checks the structural shape of the request. Semantic
// rules (amount ranges, date ordering against the rate table) belong to
// the calculation engine, which re-checks everything before replaying.
func (ip *InputParser) ValidateInput(input *Input) error {
	if input.Plan.OpeningDate.IsZero() {
		return fmt.Errorf("plan.opening_date is required")
	}
	if input.Withdrawal.Amount.IsZero() {
		return fmt.Errorf("withdrawal.amount is required")
	}
	for i, ev := range input.Plan.Events {
		switch ev.Type {
		case EventDeposit:
			if ev.Amount.IsZero() {
				return fmt.Errorf("event %d: deposit requires an amount", i)
			}
		case EventWithdrawal:
			if ev.Amount.IsZero() {
				return fmt.Errorf("event %d: withdrawal requires an amount", i)
			}
			if ev.Valuation == nil {
				return fmt.Errorf("event %d: withdrawal requires the valuation at withdrawal", i)
			}
		case EventCheckpoint:
			if ev.Valuation == nil {
				return fmt.Errorf("event %d: checkpoint requires a valuation", i)
			}
		case "":
			return fmt.Errorf("event %d: type is required (deposit, withdrawal or checkpoint)", i)
		default:
			return fmt.Errorf("event %d: unknown type %q", i, ev.Type)
		}
		if ev.Date.IsZero() {
			return fmt.Errorf("event %d: date is required", i)
		}
	}
	return nil
}

// ToPlan converts the parsed input into the domain plan the engine
// consumes.
func (input *Input) ToPlan() *domain.Plan {
	plan := &domain.Plan{
		OpeningDate:      input.Plan.OpeningDate,
		CurrentValuation: input.Plan.CurrentValuation,
	}
	for _, ev := range input.Plan.Events {
		switch ev.Type {
		case EventDeposit:
			plan.Events = append(plan.Events, domain.Deposit{
				Date:      ev.Date,
				Amount:    ev.Amount,
				Valuation: ev.Valuation,
			})
		case EventWithdrawal:
			var val decimal.Decimal
			if ev.Valuation != nil {
				val = *ev.Valuation
			}
			plan.Events = append(plan.Events, domain.PastWithdrawal{
				Date:      ev.Date,
				Amount:    ev.Amount,
				Valuation: val,
			})
		case EventCheckpoint:
			var val decimal.Decimal
			if ev.Valuation != nil {
				val = *ev.Valuation
			}
			plan.Events = append(plan.Events, domain.ValuationCheckpoint{
				Date:      ev.Date,
				Valuation: val,
			})
		}
	}
	return plan
}

// EffectiveAsOf returns the explicit pricing date, or today at midnight
// UTC when the file does not pin one.
func (input *Input) EffectiveAsOf() time.Time {
	if input.AsOf != nil {
		return *input.AsOf
	}
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
