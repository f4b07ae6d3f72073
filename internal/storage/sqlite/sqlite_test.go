package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/eventsplit/internal/models"
	"github.com/mmynk/eventsplit/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	// Create temp directory for test database
	tempDir, err := os.MkdirTemp("", "eventsplit-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

// seedEvent creates an event with the named participants and returns them in order.
func seedEvent(t *testing.T, store *SQLiteStore, title string, names ...string) (*models.Event, []models.Participant) {
	t.Helper()
	ctx := context.Background()

	event := &models.Event{Title: title}
	if err := store.CreateEvent(ctx, event); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	var participants []models.Participant
	for _, name := range names {
		p := models.Participant{EventID: event.ID, Name: name}
		if err := store.AddParticipant(ctx, &p); err != nil {
			t.Fatalf("AddParticipant(%s) failed: %v", name, err)
		}
		participants = append(participants, p)
	}
	return event, participants
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateEvent generates ID and timestamp", func(t *testing.T) {
		event := &models.Event{Title: "Ski trip", Description: "Alps"}
		if err := store.CreateEvent(ctx, event); err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}
		if event.ID == "" {
			t.Error("Expected event ID to be generated")
		}
		if event.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}

		got, err := store.GetEvent(ctx, event.ID)
		if err != nil {
			t.Fatalf("GetEvent failed: %v", err)
		}
		if got.Title != "Ski trip" || got.Description != "Alps" {
			t.Errorf("GetEvent = %+v, want title/description preserved", got)
		}
	})

	t.Run("GetEvent returns ErrNotFound for nonexistent event", func(t *testing.T) {
		_, err := store.GetEvent(ctx, "nonexistent-id")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ListEvents returns created events", func(t *testing.T) {
		events, err := store.ListEvents(ctx)
		if err != nil {
			t.Fatalf("ListEvents failed: %v", err)
		}
		if len(events) == 0 {
			t.Error("Expected at least one event")
		}
	})

	t.Run("AddParticipant rejects duplicate names in one event", func(t *testing.T) {
		event, _ := seedEvent(t, store, "Flat", "Alice")

		dup := models.Participant{EventID: event.ID, Name: "Alice"}
		err := store.AddParticipant(ctx, &dup)
		if !errors.Is(err, storage.ErrConflict) {
			t.Errorf("Expected ErrConflict, got %v", err)
		}

		// Same name in another event is fine
		other, _ := seedEvent(t, store, "Other flat")
		p := models.Participant{EventID: other.ID, Name: "Alice"}
		if err := store.AddParticipant(ctx, &p); err != nil {
			t.Errorf("AddParticipant in another event failed: %v", err)
		}
	})

	t.Run("AddParticipant to unknown event fails", func(t *testing.T) {
		p := models.Participant{EventID: "missing", Name: "Bob"}
		err := store.AddParticipant(ctx, &p)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("GetParticipant", func(t *testing.T) {
		event, ps := seedEvent(t, store, "Lookup", "Gus")

		got, err := store.GetParticipant(ctx, ps[0].ID)
		if err != nil {
			t.Fatalf("GetParticipant failed: %v", err)
		}
		if got.Name != "Gus" || got.EventID != event.ID {
			t.Errorf("GetParticipant = %+v, want Gus in %s", got, event.ID)
		}

		if _, err := store.GetParticipant(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("LoadSnapshot returns everything in insertion order", func(t *testing.T) {
		event, ps := seedEvent(t, store, "Road trip", "Zoe", "Adam", "Mia")

		dinner := &models.Expense{
			EventID:     event.ID,
			Description: "Dinner",
			Amount:      decimal.RequireFromString("100.00"),
			PayerID:     ps[0].ID,
			SplitIDs:    []string{ps[2].ID, ps[0].ID},
			Category:    "Food",
		}
		if err := store.CreateExpense(ctx, dinner); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		fuel := &models.Expense{
			EventID:     event.ID,
			Description: "Fuel",
			Amount:      decimal.RequireFromString("45.50"),
			PayerID:     ps[1].ID,
		}
		if err := store.CreateExpense(ctx, fuel); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		payment := &models.Payment{
			EventID: event.ID,
			FromID:  ps[2].ID,
			ToID:    ps[0].ID,
			Amount:  decimal.RequireFromString("10.00"),
			Note:    "cash",
		}
		if err := store.CreatePayment(ctx, payment); err != nil {
			t.Fatalf("CreatePayment failed: %v", err)
		}

		snap, err := store.LoadSnapshot(ctx, event.ID)
		if err != nil {
			t.Fatalf("LoadSnapshot failed: %v", err)
		}

		if snap.Event.ID != event.ID {
			t.Errorf("Event ID mismatch: got %s, want %s", snap.Event.ID, event.ID)
		}
		for i, name := range []string{"Zoe", "Adam", "Mia"} {
			if snap.Participants[i].Name != name {
				t.Errorf("Participant %d: got %s, want %s", i, snap.Participants[i].Name, name)
			}
		}
		if len(snap.Expenses) != 2 {
			t.Fatalf("Expenses count mismatch: got %d, want 2", len(snap.Expenses))
		}

		got := snap.Expenses[0]
		if got.Description != "Dinner" || got.Category != "Food" {
			t.Errorf("Expense 0 = %+v, want Dinner/Food", got)
		}
		if !got.Amount.Equal(decimal.RequireFromString("100")) {
			t.Errorf("Amount mismatch: got %s, want 100.00", got.Amount)
		}
		if len(got.SplitIDs) != 2 || got.SplitIDs[0] != ps[2].ID || got.SplitIDs[1] != ps[0].ID {
			t.Errorf("SplitIDs = %v, want [%s %s]", got.SplitIDs, ps[2].ID, ps[0].ID)
		}
		if len(snap.Expenses[1].SplitIDs) != 0 {
			t.Errorf("Expected empty split for Fuel, got %v", snap.Expenses[1].SplitIDs)
		}

		if len(snap.Payments) != 1 {
			t.Fatalf("Payments count mismatch: got %d, want 1", len(snap.Payments))
		}
		if p := snap.Payments[0]; p.Note != "cash" || !p.Amount.Equal(decimal.NewFromInt(10)) {
			t.Errorf("Payment = %+v, want 10 with note", p)
		}
	})

	t.Run("LoadSnapshot returns ErrNotFound for nonexistent event", func(t *testing.T) {
		_, err := store.LoadSnapshot(ctx, "nonexistent-id")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("DeleteParticipant cascades to their expenses", func(t *testing.T) {
		event, ps := seedEvent(t, store, "Camping", "Ann", "Ben")

		exp := &models.Expense{EventID: event.ID, Description: "Tent", Amount: decimal.NewFromInt(80), PayerID: ps[1].ID}
		if err := store.CreateExpense(ctx, exp); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		if err := store.DeleteParticipant(ctx, ps[1].ID); err != nil {
			t.Fatalf("DeleteParticipant failed: %v", err)
		}

		snap, err := store.LoadSnapshot(ctx, event.ID)
		if err != nil {
			t.Fatalf("LoadSnapshot failed: %v", err)
		}
		if len(snap.Participants) != 1 || len(snap.Expenses) != 0 {
			t.Errorf("Expected 1 participant and no expenses, got %d/%d", len(snap.Participants), len(snap.Expenses))
		}
	})

	t.Run("DeleteExpense and DeletePayment", func(t *testing.T) {
		event, ps := seedEvent(t, store, "Dinner", "Cat", "Dan")

		exp := &models.Expense{EventID: event.ID, Description: "Pizza", Amount: decimal.NewFromInt(20), PayerID: ps[0].ID}
		if err := store.CreateExpense(ctx, exp); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		pay := &models.Payment{EventID: event.ID, FromID: ps[1].ID, ToID: ps[0].ID, Amount: decimal.NewFromInt(10)}
		if err := store.CreatePayment(ctx, pay); err != nil {
			t.Fatalf("CreatePayment failed: %v", err)
		}

		if err := store.DeleteExpense(ctx, exp.ID); err != nil {
			t.Errorf("DeleteExpense failed: %v", err)
		}
		if err := store.DeletePayment(ctx, pay.ID); err != nil {
			t.Errorf("DeletePayment failed: %v", err)
		}
		if err := store.DeleteExpense(ctx, exp.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound on second delete, got %v", err)
		}
	})

	t.Run("DeleteEvent cascades", func(t *testing.T) {
		event, ps := seedEvent(t, store, "Gone", "Eve")
		exp := &models.Expense{EventID: event.ID, Description: "Snacks", Amount: decimal.NewFromInt(5), PayerID: ps[0].ID}
		if err := store.CreateExpense(ctx, exp); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		if err := store.DeleteEvent(ctx, event.ID); err != nil {
			t.Fatalf("DeleteEvent failed: %v", err)
		}
		if _, err := store.LoadSnapshot(ctx, event.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound after delete, got %v", err)
		}
		participants, err := store.ListParticipants(ctx, event.ID)
		if err != nil {
			t.Fatalf("ListParticipants failed: %v", err)
		}
		if len(participants) != 0 {
			t.Errorf("Expected participants to be deleted, got %d", len(participants))
		}
	})
}

func TestNew_ReopensExistingDatabase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "events.db")

	first, err := New(path)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	event := &models.Event{Title: "Persisted"}
	if err := first.CreateEvent(context.Background(), event); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	first.Close()

	// Migrations are already applied; opening again must not fail.
	second, err := New(path)
	if err != nil {
		t.Fatalf("New on existing database failed: %v", err)
	}
	defer second.Close()

	if _, err := second.GetEvent(context.Background(), event.ID); err != nil {
		t.Errorf("GetEvent after reopen failed: %v", err)
	}
}
