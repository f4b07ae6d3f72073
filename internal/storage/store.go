// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/eventsplit/internal/models"
)

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a write would break a uniqueness rule,
	// such as two participants with the same name in one event.
	ErrConflict = errors.New("conflict")
)

// Store defines the interface for event storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateEvent persists a new event.
	// The event.ID and event.CreatedAt fields are populated by the store.
	CreateEvent(ctx context.Context, event *models.Event) error

	// GetEvent retrieves an event by its ID.
	GetEvent(ctx context.Context, eventID string) (*models.Event, error)

	// ListEvents returns all events, newest first.
	ListEvents(ctx context.Context) ([]*models.Event, error)

	// DeleteEvent removes an event together with everything it owns.
	DeleteEvent(ctx context.Context, eventID string) error

	// AddParticipant adds a participant to an existing event.
	// Returns ErrConflict if the name is already taken in that event.
	AddParticipant(ctx context.Context, participant *models.Participant) error

	// ListParticipants returns an event's participants in insertion order.
	ListParticipants(ctx context.Context, eventID string) ([]models.Participant, error)

	// GetParticipant retrieves a participant by its ID.
	GetParticipant(ctx context.Context, participantID string) (*models.Participant, error)

	// DeleteParticipant removes a participant; expenses they paid are removed too.
	DeleteParticipant(ctx context.Context, participantID string) error

	// CreateExpense persists a new expense with its split set.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// DeleteExpense removes an expense by ID.
	DeleteExpense(ctx context.Context, expenseID string) error

	// CreatePayment persists a new settle-up payment.
	CreatePayment(ctx context.Context, payment *models.Payment) error

	// DeletePayment removes a payment by ID.
	DeletePayment(ctx context.Context, paymentID string) error

	// LoadSnapshot reads an event with all participants, expenses and
	// payments from a single consistent view of the database.
	LoadSnapshot(ctx context.Context, eventID string) (*models.EventSnapshot, error)

	// Close releases any resources held by the store.
	Close() error
}
