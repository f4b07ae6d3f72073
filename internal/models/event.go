package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrEmptyName is returned when a participant name is blank after trimming.
var ErrEmptyName = errors.New("participant name must not be empty")

// Event groups participants and their shared expenses.
type Event struct {
	// ID is the unique identifier for the event (UUID format).
	ID string

	// Title is the display name of the event (e.g., "Ski trip").
	Title string

	// Description is optional free text.
	Description string

	// CreatedAt is the Unix timestamp when the event was created.
	CreatedAt int64
}

// Participant represents a person taking part in one event.
type Participant struct {
	// ID is the unique identifier for the participant (UUID format).
	ID string

	// EventID is the event this participant belongs to.
	EventID string

	// Name is the display name, unique within the event.
	Name string

	// Email is optional.
	Email string

	// CreatedAt is the Unix timestamp when the participant was added.
	CreatedAt int64
}

// Normalize trims the participant's name and rejects blank names.
func (p *Participant) Normalize() error {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)
	if p.Name == "" {
		return ErrEmptyName
	}
	return nil
}

// Expense represents a payment made by one participant on behalf of others.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// EventID is the event this expense belongs to.
	EventID string

	// Description is what was paid for (e.g., "Groceries").
	Description string

	// Amount is the positive amount paid.
	Amount decimal.Decimal

	// PayerID is the participant who paid.
	PayerID string

	// SplitIDs are the participants sharing the cost.
	// Empty means the cost is shared by every participant of the event.
	SplitIDs []string

	// Category is an optional label (e.g., "Food", "Travel").
	Category string

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// Payment represents money handed from one participant to another to settle debts.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string

	// EventID is the event this payment belongs to.
	EventID string

	// FromID is the participant who paid (debtor settling up).
	FromID string

	// ToID is the participant who received the payment (creditor being paid).
	ToID string

	// Amount is the payment amount.
	Amount decimal.Decimal

	// Note is an optional description for the payment.
	Note string

	// CreatedAt is the Unix timestamp when the payment was recorded.
	CreatedAt int64
}

// EventSnapshot holds one event with all of its children, read together.
type EventSnapshot struct {
	Event        Event
	Participants []Participant
	Expenses     []Expense
	Payments     []Payment
}
