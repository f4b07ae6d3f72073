package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/eventsplit/internal/models"
)

// CreatePayment persists a new payment to the database.
func (s *SQLiteStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	// Generate ID if not set
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if payment.CreatedAt == 0 {
		payment.CreatedAt = time.Now().Unix()
	}

	var note any
	if payment.Note != "" {
		note = payment.Note
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO payments (id, event_id, from_id, to_id, amount, note, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		payment.ID, payment.EventID, payment.FromID, payment.ToID,
		payment.Amount.String(), note, payment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", constraintError(err))
	}

	return nil
}

// DeletePayment removes a payment by ID.
func (s *SQLiteStore) DeletePayment(ctx context.Context, paymentID string) error {
	return s.deleteByID(ctx, "payments", "payment", paymentID)
}
