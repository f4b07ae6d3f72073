// Package calculator turns an event's expenses into balances and a transfer
// plan. Every function is pure: the inputs are never mutated and no state is
// kept between calls, so an Engine can be shared across goroutines.
package calculator

import (
	"fmt"

	"github.com/mmynk/eventsplit/internal/money"
)

// Engine bundles the balance calculation and settlement planning under one
// rounding policy.
type Engine struct {
	policy money.Policy
}

// Report is the combined output of Engine.Settle.
type Report struct {
	Sheet      *BalanceSheet
	Settlement *Settlement
}

// NewEngine creates an Engine that rounds with policy.
func NewEngine(policy money.Policy) (*Engine, error) {
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rounding policy: %w", err)
	}
	return &Engine{policy: policy}, nil
}

// Policy returns the rounding policy used by the engine.
func (e *Engine) Policy() money.Policy {
	return e.policy
}

// Balances computes the rounded balance sheet of snap.
func (e *Engine) Balances(snap EventSnapshot) (*BalanceSheet, error) {
	return CalculateBalances(snap, e.policy)
}

// Settle computes balances and the transfer plan that clears them.
func (e *Engine) Settle(snap EventSnapshot) (*Report, error) {
	sheet, err := e.Balances(snap)
	if err != nil {
		return nil, err
	}
	return &Report{
		Sheet:      sheet,
		Settlement: PlanSettlement(sheet.Balances, e.policy),
	}, nil
}
