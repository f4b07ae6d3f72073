// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	msqlite "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mmynk/eventsplit/internal/models"
	"github.com/mmynk/eventsplit/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Foreign keys are per connection, so they go in the DSN rather than a
	// one-off PRAGMA on whichever pooled connection runs first.
	dsn := dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	if err := runMigrations(dsn); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateEvent persists a new event to the database.
func (s *SQLiteStore) CreateEvent(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt == 0 {
		event.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO events (id, title, description, created_at) VALUES (?, ?, ?, ?)",
		event.ID, event.Title, event.Description, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", constraintError(err))
	}
	return nil
}

// GetEvent retrieves an event by ID.
func (s *SQLiteStore) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	return getEvent(ctx, s.db, eventID)
}

// ListEvents retrieves all events, newest first.
func (s *SQLiteStore) ListEvents(ctx context.Context) ([]*models.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, title, description, created_at FROM events ORDER BY created_at DESC, rowid DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event := &models.Event{}
		if err := rows.Scan(&event.ID, &event.Title, &event.Description, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	return events, nil
}

// DeleteEvent removes an event; participants, expenses and payments cascade.
func (s *SQLiteStore) DeleteEvent(ctx context.Context, eventID string) error {
	return s.deleteByID(ctx, "events", "event", eventID)
}

// AddParticipant adds a participant to an event.
func (s *SQLiteStore) AddParticipant(ctx context.Context, participant *models.Participant) error {
	if participant.ID == "" {
		participant.ID = uuid.New().String()
	}
	if participant.CreatedAt == 0 {
		participant.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO participants (id, event_id, name, email, created_at) VALUES (?, ?, ?, ?, ?)",
		participant.ID, participant.EventID, participant.Name, participant.Email, participant.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert participant %q: %w", participant.Name, constraintError(err))
	}
	return nil
}

// ListParticipants returns an event's participants in insertion order.
func (s *SQLiteStore) ListParticipants(ctx context.Context, eventID string) ([]models.Participant, error) {
	return listParticipants(ctx, s.db, eventID)
}

// GetParticipant retrieves a participant by ID.
func (s *SQLiteStore) GetParticipant(ctx context.Context, participantID string) (*models.Participant, error) {
	p := &models.Participant{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, event_id, name, email, created_at FROM participants WHERE id = ?",
		participantID,
	).Scan(&p.ID, &p.EventID, &p.Name, &p.Email, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("participant %s: %w", participantID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	return p, nil
}

// DeleteParticipant removes a participant by ID.
func (s *SQLiteStore) DeleteParticipant(ctx context.Context, participantID string) error {
	return s.deleteByID(ctx, "participants", "participant", participantID)
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getEvent(ctx context.Context, q queryer, eventID string) (*models.Event, error) {
	event := &models.Event{}
	err := q.QueryRowContext(ctx,
		"SELECT id, title, description, created_at FROM events WHERE id = ?",
		eventID,
	).Scan(&event.ID, &event.Title, &event.Description, &event.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("event %s: %w", eventID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

func listParticipants(ctx context.Context, q queryer, eventID string) ([]models.Participant, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT id, event_id, name, email, created_at FROM participants WHERE event_id = ? ORDER BY rowid",
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.EventID, &p.Name, &p.Email, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return participants, nil
}

// deleteByID removes one row from table, reporting ErrNotFound when absent.
// table is always a constant from this package.
func (s *SQLiteStore) deleteByID(ctx context.Context, table, kind, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", kind, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted %s: %w", kind, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, storage.ErrNotFound)
	}
	return nil
}

// constraintError maps SQLite constraint failures onto storage sentinels and
// returns every other error unchanged.
func constraintError(err error) error {
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) || sqliteErr.Code()&0xff != sqlite3.SQLITE_CONSTRAINT {
		return err
	}

	msg := sqliteErr.Error()
	switch {
	case sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY || strings.Contains(msg, "FOREIGN KEY"):
		return fmt.Errorf("%w: %v", storage.ErrNotFound, err)
	case sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE,
		sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY,
		strings.Contains(msg, "UNIQUE"):
		return fmt.Errorf("%w: %v", storage.ErrConflict, err)
	default:
		return err
	}
}
