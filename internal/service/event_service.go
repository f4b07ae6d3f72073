package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/eventsplit/internal/calculator"
	"github.com/mmynk/eventsplit/internal/metrics"
	"github.com/mmynk/eventsplit/internal/middleware"
	"github.com/mmynk/eventsplit/internal/models"
	"github.com/mmynk/eventsplit/internal/storage"
	"github.com/mmynk/eventsplit/pkg/api"
	"github.com/mmynk/eventsplit/pkg/api/apiconnect"
)

// EventService implements the Connect EventService
type EventService struct {
	apiconnect.UnimplementedEventServiceHandler
	store   storage.Store
	engine  *calculator.Engine
	metrics *metrics.Metrics
}

// NewEventService creates a new EventService. m may be nil.
func NewEventService(store storage.Store, engine *calculator.Engine, m *metrics.Metrics) *EventService {
	return &EventService{store: store, engine: engine, metrics: m}
}

// CreateEvent creates a new, empty event.
func (s *EventService) CreateEvent(ctx context.Context, req *connect.Request[api.CreateEventRequest]) (*connect.Response[api.CreateEventResponse], error) {
	title := strings.TrimSpace(req.Msg.Title)
	if title == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("title required"))
	}

	event := &models.Event{
		Title:       title,
		Description: strings.TrimSpace(req.Msg.Description),
	}
	if err := s.store.CreateEvent(ctx, event); err != nil {
		return nil, toConnectError(err)
	}

	slog.Info("Event created", "event_id", event.ID, "request_id", middleware.GetRequestID(ctx))

	return connect.NewResponse(&api.CreateEventResponse{Event: eventToAPI(event)}), nil
}

// GetEvent returns an event with its participants, expenses and payments.
func (s *EventService) GetEvent(ctx context.Context, req *connect.Request[api.GetEventRequest]) (*connect.Response[api.GetEventResponse], error) {
	snap, err := s.store.LoadSnapshot(ctx, req.Msg.EventID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetEventResponse{Event: snapshotToAPI(snap)}), nil
}

// ListEvents returns all events without their children.
func (s *EventService) ListEvents(ctx context.Context, req *connect.Request[api.ListEventsRequest]) (*connect.Response[api.ListEventsResponse], error) {
	events, err := s.store.ListEvents(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := &api.ListEventsResponse{Events: make([]*api.Event, 0, len(events))}
	for _, e := range events {
		resp.Events = append(resp.Events, eventToAPI(e))
	}
	return connect.NewResponse(resp), nil
}

// DeleteEvent removes an event and everything it owns.
func (s *EventService) DeleteEvent(ctx context.Context, req *connect.Request[api.DeleteEventRequest]) (*connect.Response[api.DeleteEventResponse], error) {
	if req.Msg.EventID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("event_id required"))
	}
	if err := s.store.DeleteEvent(ctx, req.Msg.EventID); err != nil {
		return nil, toConnectError(err)
	}

	slog.Info("Event deleted", "event_id", req.Msg.EventID, "request_id", middleware.GetRequestID(ctx))

	return connect.NewResponse(&api.DeleteEventResponse{}), nil
}

// AddParticipant adds a named participant to an event.
func (s *EventService) AddParticipant(ctx context.Context, req *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error) {
	participant := &models.Participant{
		EventID: req.Msg.EventID,
		Name:    req.Msg.Name,
		Email:   req.Msg.Email,
	}
	if err := participant.Normalize(); err != nil {
		return nil, toConnectError(err)
	}
	if err := s.store.AddParticipant(ctx, participant); err != nil {
		return nil, toConnectError(err)
	}

	slog.Debug("Participant added", "event_id", participant.EventID, "participant_id", participant.ID)

	return connect.NewResponse(&api.AddParticipantResponse{Participant: participantToAPI(participant)}), nil
}

// RemoveParticipant removes a participant that no expense or payment refers to.
// Removing someone who is part of a split would silently widen that split.
func (s *EventService) RemoveParticipant(ctx context.Context, req *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.RemoveParticipantResponse], error) {
	id := req.Msg.ParticipantID
	if id == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("participant_id required"))
	}

	inUse, err := s.participantInUse(ctx, id)
	if err != nil {
		return nil, toConnectError(err)
	}
	if inUse {
		return nil, connect.NewError(connect.CodeFailedPrecondition,
			fmt.Errorf("participant %s is referenced by expenses or payments", id))
	}

	if err := s.store.DeleteParticipant(ctx, id); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.RemoveParticipantResponse{}), nil
}

func (s *EventService) participantInUse(ctx context.Context, participantID string) (bool, error) {
	participant, err := s.store.GetParticipant(ctx, participantID)
	if err != nil {
		return false, err
	}
	snap, err := s.store.LoadSnapshot(ctx, participant.EventID)
	if err != nil {
		return false, err
	}

	for _, e := range snap.Expenses {
		if e.PayerID == participantID || slices.Contains(e.SplitIDs, participantID) {
			return true, nil
		}
	}
	for _, p := range snap.Payments {
		if p.FromID == participantID || p.ToID == participantID {
			return true, nil
		}
	}
	return false, nil
}

// AddExpense records an expense after checking it against the event's participants.
func (s *EventService) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	description := strings.TrimSpace(req.Msg.Description)
	if description == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("description required"))
	}

	participants, err := s.participantsOf(ctx, req.Msg.EventID)
	if err != nil {
		return nil, toConnectError(err)
	}

	expense := &models.Expense{
		EventID:     req.Msg.EventID,
		Description: description,
		Amount:      req.Msg.Amount,
		PayerID:     req.Msg.PayerID,
		SplitIDs:    req.Msg.SplitIDs,
		Category:    strings.TrimSpace(req.Msg.Category),
	}

	if violations := calculator.ValidateExpense(participants, calculator.ExpenseForBalance{
		Amount:   expense.Amount,
		PayerID:  expense.PayerID,
		SplitIDs: expense.SplitIDs,
	}, s.engine.Policy()); len(violations) > 0 {
		return nil, toConnectError(&calculator.ValidationError{EventID: expense.EventID, Violations: violations})
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, toConnectError(err)
	}

	slog.Info("Expense added",
		"event_id", expense.EventID,
		"expense_id", expense.ID,
		"amount", expense.Amount.String(),
		"split_count", len(expense.SplitIDs),
		"request_id", middleware.GetRequestID(ctx),
	)

	return connect.NewResponse(&api.AddExpenseResponse{Expense: expenseToAPI(expense)}), nil
}

// DeleteExpense removes an expense.
func (s *EventService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	if req.Msg.ExpenseID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("expense_id required"))
	}
	if err := s.store.DeleteExpense(ctx, req.Msg.ExpenseID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}

// RecordPayment records money handed from one participant to another.
func (s *EventService) RecordPayment(ctx context.Context, req *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error) {
	participants, err := s.participantsOf(ctx, req.Msg.EventID)
	if err != nil {
		return nil, toConnectError(err)
	}

	payment := &models.Payment{
		EventID: req.Msg.EventID,
		FromID:  req.Msg.FromID,
		ToID:    req.Msg.ToID,
		Amount:  req.Msg.Amount,
		Note:    strings.TrimSpace(req.Msg.Note),
	}

	if violations := calculator.ValidatePayment(participants, calculator.PaymentForBalance{
		FromID: payment.FromID,
		ToID:   payment.ToID,
		Amount: payment.Amount,
	}, s.engine.Policy()); len(violations) > 0 {
		return nil, toConnectError(&calculator.ValidationError{EventID: payment.EventID, Violations: violations})
	}

	if err := s.store.CreatePayment(ctx, payment); err != nil {
		return nil, toConnectError(err)
	}

	slog.Info("Payment recorded",
		"event_id", payment.EventID,
		"payment_id", payment.ID,
		"amount", payment.Amount.String(),
		"request_id", middleware.GetRequestID(ctx),
	)

	return connect.NewResponse(&api.RecordPaymentResponse{Payment: paymentToAPI(payment)}), nil
}

// DeletePayment removes a payment.
func (s *EventService) DeletePayment(ctx context.Context, req *connect.Request[api.DeletePaymentRequest]) (*connect.Response[api.DeletePaymentResponse], error) {
	if req.Msg.PaymentID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("payment_id required"))
	}
	if err := s.store.DeletePayment(ctx, req.Msg.PaymentID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.DeletePaymentResponse{}), nil
}

// GetBalances computes every participant's net balance for an event.
func (s *EventService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	snap, err := s.store.LoadSnapshot(ctx, req.Msg.EventID)
	if err != nil {
		return nil, toConnectError(err)
	}

	sheet, err := s.engine.Balances(ToCalculatorSnapshot(snap))
	if err != nil {
		return nil, storedDataError(req.Msg.EventID, err)
	}
	s.metrics.ObserveSkipped(len(sheet.Skipped))

	policy := s.engine.Policy()
	return connect.NewResponse(&api.GetBalancesResponse{
		Balances:          BalancesToAPI(sheet, policy),
		SkippedExpenseIDs: sheet.Skipped,
		Total:             policy.Format(sheet.Total()),
	}), nil
}

// GetSettlement computes the transfers that clear every balance of an event.
func (s *EventService) GetSettlement(ctx context.Context, req *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error) {
	snap, err := s.store.LoadSnapshot(ctx, req.Msg.EventID)
	if err != nil {
		return nil, toConnectError(err)
	}

	report, err := s.engine.Settle(ToCalculatorSnapshot(snap))
	if err != nil {
		return nil, storedDataError(req.Msg.EventID, err)
	}

	plan := report.Settlement
	s.metrics.ObserveSkipped(len(report.Sheet.Skipped))
	s.metrics.ObserveSettlement(len(plan.Transfers), plan.Settled())

	if !plan.Settled() {
		slog.Warn("Settlement left a rounding residual",
			"event_id", req.Msg.EventID,
			"residual", plan.Residual.String(),
			"unsettled", len(plan.Unsettled),
		)
	}

	return connect.NewResponse(SettlementToAPI(report, s.engine.Policy())), nil
}

// participantsOf returns an event's participants, or ErrNotFound when the
// event does not exist.
func (s *EventService) participantsOf(ctx context.Context, eventID string) ([]calculator.Participant, error) {
	if _, err := s.store.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}
	participants, err := s.store.ListParticipants(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return calculatorParticipants(participants), nil
}

// storedDataError reports a snapshot that was accepted on write but no longer
// validates, e.g. after a rounding policy change.
func storedDataError(eventID string, err error) error {
	var validationErr *calculator.ValidationError
	if errors.As(err, &validationErr) {
		slog.Error("Stored event failed validation", "event_id", eventID, "error", err)
		return connect.NewError(connect.CodeFailedPrecondition, err)
	}
	return toConnectError(err)
}
