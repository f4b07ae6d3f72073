package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/eventsplit/internal/calculator"
	"github.com/mmynk/eventsplit/internal/metrics"
	"github.com/mmynk/eventsplit/internal/middleware"
	"github.com/mmynk/eventsplit/internal/money"
	"github.com/mmynk/eventsplit/internal/storage/sqlite"
	"github.com/mmynk/eventsplit/pkg/api"
	"github.com/mmynk/eventsplit/pkg/api/apiconnect"
)

// setupTestServer creates a test server backed by a fresh SQLite database
func setupTestServer(t *testing.T) apiconnect.EventServiceClient {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	engine, err := calculator.NewEngine(money.DefaultPolicy())
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}

	svc := NewEventService(store, engine, metrics.New())
	path, handler := apiconnect.NewEventServiceHandler(svc,
		connect.WithInterceptors(middleware.RequestID(), middleware.LoggingInterceptor()),
	)

	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)

	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return apiconnect.NewEventServiceClient(http.DefaultClient, server.URL)
}

// createEvent creates an event with the named participants and returns their IDs in order.
func createEvent(t *testing.T, client apiconnect.EventServiceClient, title string, names ...string) (string, []string) {
	t.Helper()
	ctx := context.Background()

	resp, err := client.CreateEvent(ctx, connect.NewRequest(&api.CreateEventRequest{Title: title}))
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	eventID := resp.Msg.Event.ID

	var ids []string
	for _, name := range names {
		p, err := client.AddParticipant(ctx, connect.NewRequest(&api.AddParticipantRequest{
			EventID: eventID,
			Name:    name,
		}))
		if err != nil {
			t.Fatalf("AddParticipant(%s) failed: %v", name, err)
		}
		ids = append(ids, p.Msg.Participant.ID)
	}
	return eventID, ids
}

func addExpense(t *testing.T, client apiconnect.EventServiceClient, eventID, amount, payerID string, splitIDs ...string) string {
	t.Helper()

	resp, err := client.AddExpense(context.Background(), connect.NewRequest(&api.AddExpenseRequest{
		EventID:     eventID,
		Description: "Dinner",
		Amount:      decimal.RequireFromString(amount),
		PayerID:     payerID,
		SplitIDs:    splitIDs,
	}))
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
	return resp.Msg.Expense.ID
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Errorf("code = %v, want %v (err: %v)", got, want, err)
	}
}

func TestGetSettlement_TwoPeople(t *testing.T) {
	client := setupTestServer(t)
	ctx := context.Background()

	eventID, ids := createEvent(t, client, "Dinner", "Alice", "Bob")
	addExpense(t, client, eventID, "100.00", ids[0], ids[0], ids[1])

	balances, err := client.GetBalances(ctx, connect.NewRequest(&api.GetBalancesRequest{EventID: eventID}))
	if err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}
	want := []string{"50.00", "-50.00"}
	for i, b := range balances.Msg.Balances {
		if b.NetBalance != want[i] {
			t.Errorf("%s: net = %s, want %s", b.Name, b.NetBalance, want[i])
		}
	}
	if balances.Msg.Total != "0.00" {
		t.Errorf("total = %s, want 0.00", balances.Msg.Total)
	}

	settlement, err := client.GetSettlement(ctx, connect.NewRequest(&api.GetSettlementRequest{EventID: eventID}))
	if err != nil {
		t.Fatalf("GetSettlement failed: %v", err)
	}
	if len(settlement.Msg.Transfers) != 1 {
		t.Fatalf("expected 1 transfer, got %d", len(settlement.Msg.Transfers))
	}
	tr := settlement.Msg.Transfers[0]
	if tr.FromName != "Bob" || tr.ToName != "Alice" || tr.Amount != "50.00" {
		t.Errorf("transfer = %+v, want Bob -> Alice 50.00", tr)
	}
	if !settlement.Msg.Settled {
		t.Error("expected settlement to clear every balance")
	}
}

func TestGetSettlement_ReportsResidual(t *testing.T) {
	client := setupTestServer(t)
	ctx := context.Background()

	eventID, ids := createEvent(t, client, "Trip", "A", "B", "C")
	// Empty split set: shared by all three
	addExpense(t, client, eventID, "100.00", ids[0])

	balances, err := client.GetBalances(ctx, connect.NewRequest(&api.GetBalancesRequest{EventID: eventID}))
	if err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}
	want := []string{"66.67", "-33.33", "-33.33"}
	for i, b := range balances.Msg.Balances {
		if b.NetBalance != want[i] {
			t.Errorf("%s: net = %s, want %s", b.Name, b.NetBalance, want[i])
		}
	}
	if balances.Msg.Total != "0.01" {
		t.Errorf("total = %s, want 0.01", balances.Msg.Total)
	}

	settlement, err := client.GetSettlement(ctx, connect.NewRequest(&api.GetSettlementRequest{EventID: eventID}))
	if err != nil {
		t.Fatalf("GetSettlement failed: %v", err)
	}
	msg := settlement.Msg
	if len(msg.Transfers) != 2 {
		t.Fatalf("expected 2 transfers, got %d", len(msg.Transfers))
	}
	for i, from := range []string{"B", "C"} {
		if msg.Transfers[i].FromName != from || msg.Transfers[i].Amount != "33.33" {
			t.Errorf("transfer %d = %+v, want %s -> A 33.33", i, msg.Transfers[i], from)
		}
	}
	if msg.Settled {
		t.Error("expected residual to leave the plan unsettled")
	}
	if msg.Residual != "0.01" {
		t.Errorf("residual = %s, want 0.01", msg.Residual)
	}
	if len(msg.Unsettled) != 1 || msg.Unsettled[0].Name != "A" || msg.Unsettled[0].NetBalance != "0.01" {
		t.Errorf("unsettled = %+v, want A with 0.01", msg.Unsettled)
	}
}

func TestAddExpense_SplitMemberFromOtherEvent(t *testing.T) {
	client := setupTestServer(t)

	eventID, ids := createEvent(t, client, "Ours", "Alice", "Bob")
	_, others := createEvent(t, client, "Theirs", "Mallory")

	_, err := client.AddExpense(context.Background(), connect.NewRequest(&api.AddExpenseRequest{
		EventID:     eventID,
		Description: "Taxi",
		Amount:      decimal.NewFromInt(30),
		PayerID:     ids[0],
		SplitIDs:    []string{ids[1], others[0]},
	}))
	assertCode(t, err, connect.CodeInvalidArgument)

	// Nothing was stored
	event, err := client.GetEvent(context.Background(), connect.NewRequest(&api.GetEventRequest{EventID: eventID}))
	if err != nil {
		t.Fatalf("GetEvent failed: %v", err)
	}
	if len(event.Msg.Event.Expenses) != 0 {
		t.Errorf("expected no expenses, got %d", len(event.Msg.Event.Expenses))
	}
}

func TestAddExpense_RejectsBadAmounts(t *testing.T) {
	client := setupTestServer(t)
	eventID, ids := createEvent(t, client, "Amounts", "Alice")

	tests := []struct {
		name   string
		amount string
	}{
		{"zero", "0"},
		{"negative", "-5.00"},
		{"too precise", "10.005"},
		{"too large", "100000000.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.AddExpense(context.Background(), connect.NewRequest(&api.AddExpenseRequest{
				EventID:     eventID,
				Description: "Bad",
				Amount:      decimal.RequireFromString(tt.amount),
				PayerID:     ids[0],
			}))
			assertCode(t, err, connect.CodeInvalidArgument)

			var connectErr *connect.Error
			if errors.As(err, &connectErr) && connectErr.Meta().Get(middleware.RequestIDHeader) == "" {
				t.Error("expected request ID on error")
			}
		})
	}
}

func TestGetBalances_EventWithoutParticipants(t *testing.T) {
	client := setupTestServer(t)
	eventID, _ := createEvent(t, client, "Empty")

	resp, err := client.GetBalances(context.Background(), connect.NewRequest(&api.GetBalancesRequest{EventID: eventID}))
	if err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}
	if len(resp.Msg.Balances) != 0 {
		t.Errorf("expected no balances, got %d", len(resp.Msg.Balances))
	}

	settlement, err := client.GetSettlement(context.Background(), connect.NewRequest(&api.GetSettlementRequest{EventID: eventID}))
	if err != nil {
		t.Fatalf("GetSettlement failed: %v", err)
	}
	if len(settlement.Msg.Transfers) != 0 || !settlement.Msg.Settled {
		t.Errorf("settlement = %+v, want empty and settled", settlement.Msg)
	}
}

func TestRecordPayment_ClearsDebt(t *testing.T) {
	client := setupTestServer(t)
	ctx := context.Background()

	eventID, ids := createEvent(t, client, "Lunch", "Alice", "Bob")
	addExpense(t, client, eventID, "40.00", ids[0], ids[0], ids[1])

	_, err := client.RecordPayment(ctx, connect.NewRequest(&api.RecordPaymentRequest{
		EventID: eventID,
		FromID:  ids[1],
		ToID:    ids[0],
		Amount:  decimal.NewFromInt(20),
		Note:    "cash",
	}))
	if err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}

	settlement, err := client.GetSettlement(ctx, connect.NewRequest(&api.GetSettlementRequest{EventID: eventID}))
	if err != nil {
		t.Fatalf("GetSettlement failed: %v", err)
	}
	if len(settlement.Msg.Transfers) != 0 {
		t.Errorf("expected no transfers after payment, got %+v", settlement.Msg.Transfers)
	}
}

func TestRecordPayment_SelfPayment(t *testing.T) {
	client := setupTestServer(t)
	eventID, ids := createEvent(t, client, "Self", "Alice")

	_, err := client.RecordPayment(context.Background(), connect.NewRequest(&api.RecordPaymentRequest{
		EventID: eventID,
		FromID:  ids[0],
		ToID:    ids[0],
		Amount:  decimal.NewFromInt(1),
	}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestAddParticipant_Errors(t *testing.T) {
	client := setupTestServer(t)
	ctx := context.Background()
	eventID, _ := createEvent(t, client, "Names", "Alice")

	_, err := client.AddParticipant(ctx, connect.NewRequest(&api.AddParticipantRequest{EventID: eventID, Name: " Alice "}))
	assertCode(t, err, connect.CodeAlreadyExists)

	_, err = client.AddParticipant(ctx, connect.NewRequest(&api.AddParticipantRequest{EventID: eventID, Name: "   "}))
	assertCode(t, err, connect.CodeInvalidArgument)

	_, err = client.AddParticipant(ctx, connect.NewRequest(&api.AddParticipantRequest{EventID: "missing", Name: "Bob"}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestRemoveParticipant(t *testing.T) {
	client := setupTestServer(t)
	ctx := context.Background()

	eventID, ids := createEvent(t, client, "Party", "Alice", "Bob", "Carol")
	addExpense(t, client, eventID, "10.00", ids[0], ids[0], ids[1])

	// Bob is part of a split
	_, err := client.RemoveParticipant(ctx, connect.NewRequest(&api.RemoveParticipantRequest{ParticipantID: ids[1]}))
	assertCode(t, err, connect.CodeFailedPrecondition)

	// Carol is not referenced anywhere
	if _, err := client.RemoveParticipant(ctx, connect.NewRequest(&api.RemoveParticipantRequest{ParticipantID: ids[2]})); err != nil {
		t.Fatalf("RemoveParticipant failed: %v", err)
	}

	_, err = client.RemoveParticipant(ctx, connect.NewRequest(&api.RemoveParticipantRequest{ParticipantID: ids[2]}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestEventLifecycle(t *testing.T) {
	client := setupTestServer(t)
	ctx := context.Background()

	_, err := client.CreateEvent(ctx, connect.NewRequest(&api.CreateEventRequest{Title: "  "}))
	assertCode(t, err, connect.CodeInvalidArgument)

	eventID, ids := createEvent(t, client, "Weekend", "Alice", "Bob")
	expenseID := addExpense(t, client, eventID, "12.50", ids[1])

	list, err := client.ListEvents(ctx, connect.NewRequest(&api.ListEventsRequest{}))
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(list.Msg.Events) != 1 || list.Msg.Events[0].Title != "Weekend" {
		t.Errorf("ListEvents = %+v, want one Weekend event", list.Msg.Events)
	}

	event, err := client.GetEvent(ctx, connect.NewRequest(&api.GetEventRequest{EventID: eventID}))
	if err != nil {
		t.Fatalf("GetEvent failed: %v", err)
	}
	if got := event.Msg.Event; len(got.Participants) != 2 || len(got.Expenses) != 1 {
		t.Errorf("GetEvent = %+v, want 2 participants and 1 expense", got)
	}
	if !event.Msg.Event.Expenses[0].Amount.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("amount = %s, want 12.50", event.Msg.Event.Expenses[0].Amount)
	}

	if _, err := client.DeleteExpense(ctx, connect.NewRequest(&api.DeleteExpenseRequest{ExpenseID: expenseID})); err != nil {
		t.Fatalf("DeleteExpense failed: %v", err)
	}
	_, err = client.DeleteExpense(ctx, connect.NewRequest(&api.DeleteExpenseRequest{ExpenseID: expenseID}))
	assertCode(t, err, connect.CodeNotFound)

	if _, err := client.DeleteEvent(ctx, connect.NewRequest(&api.DeleteEventRequest{EventID: eventID})); err != nil {
		t.Fatalf("DeleteEvent failed: %v", err)
	}
	_, err = client.GetEvent(ctx, connect.NewRequest(&api.GetEventRequest{EventID: eventID}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestAddExpense_UnknownEvent(t *testing.T) {
	client := setupTestServer(t)

	_, err := client.AddExpense(context.Background(), connect.NewRequest(&api.AddExpenseRequest{
		EventID:     "missing",
		Description: "Ghost",
		Amount:      decimal.NewFromInt(1),
		PayerID:     "nobody",
	}))
	assertCode(t, err, connect.CodeNotFound)
}
