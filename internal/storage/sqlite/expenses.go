package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/eventsplit/internal/models"
)

// CreateExpense persists a new expense and its split set in one transaction.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, event_id, description, amount, payer_id, category, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.EventID, expense.Description, expense.Amount.String(),
		expense.PayerID, expense.Category, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", constraintError(err))
	}

	// Insert split members, keeping their order
	for i, participantID := range expense.SplitIDs {
		_, err = tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO expense_splits (expense_id, participant_id, position) VALUES (?, ?, ?)",
			expense.ID, participantID, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert split member: %w", constraintError(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DeleteExpense removes an expense by ID; its split rows cascade.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	return s.deleteByID(ctx, "expenses", "expense", expenseID)
}
