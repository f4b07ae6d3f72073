package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/eventsplit/internal/models"
)

// LoadSnapshot reads an event and everything it owns inside one
// transaction, so concurrent writes never show up half-applied.
func (s *SQLiteStore) LoadSnapshot(ctx context.Context, eventID string) (*models.EventSnapshot, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin snapshot transaction: %w", err)
	}
	defer tx.Rollback()

	event, err := getEvent(ctx, tx, eventID)
	if err != nil {
		return nil, err
	}

	participants, err := listParticipants(ctx, tx, eventID)
	if err != nil {
		return nil, err
	}

	expenses, err := listExpenses(ctx, tx, eventID)
	if err != nil {
		return nil, err
	}

	payments, err := listPayments(ctx, tx, eventID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to finish snapshot transaction: %w", err)
	}

	return &models.EventSnapshot{
		Event:        *event,
		Participants: participants,
		Expenses:     expenses,
		Payments:     payments,
	}, nil
}

func listExpenses(ctx context.Context, tx *sql.Tx, eventID string) ([]models.Expense, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id, event_id, description, amount, payer_id, category, created_at
		 FROM expenses WHERE event_id = ? ORDER BY rowid`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	index := make(map[string]int)
	for rows.Next() {
		var e models.Expense
		var amount string
		if err := rows.Scan(&e.ID, &e.EventID, &e.Description, &amount, &e.PayerID, &e.Category, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		if e.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("failed to parse amount of expense %s: %w", e.ID, err)
		}
		index[e.ID] = len(expenses)
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	// Get split members for all expenses of the event at once
	splitRows, err := tx.QueryContext(ctx,
		`SELECT s.expense_id, s.participant_id
		 FROM expense_splits s JOIN expenses e ON e.id = s.expense_id
		 WHERE e.event_id = ?
		 ORDER BY s.expense_id, s.position`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense splits: %w", err)
	}
	defer splitRows.Close()

	for splitRows.Next() {
		var expenseID, participantID string
		if err := splitRows.Scan(&expenseID, &participantID); err != nil {
			return nil, fmt.Errorf("failed to scan expense split: %w", err)
		}
		if i, ok := index[expenseID]; ok {
			expenses[i].SplitIDs = append(expenses[i].SplitIDs, participantID)
		}
	}
	if err := splitRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense splits: %w", err)
	}

	return expenses, nil
}

func listPayments(ctx context.Context, tx *sql.Tx, eventID string) ([]models.Payment, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id, event_id, from_id, to_id, amount, note, created_at
		 FROM payments WHERE event_id = ? ORDER BY rowid`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		var p models.Payment
		var amount string
		var note sql.NullString

		if err := rows.Scan(&p.ID, &p.EventID, &p.FromID, &p.ToID, &amount, &note, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		if p.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("failed to parse amount of payment %s: %w", p.ID, err)
		}
		if note.Valid {
			p.Note = note.String
		}

		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}

	return payments, nil
}
