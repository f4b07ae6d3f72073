// Package apiconnect wires the api messages to Connect handlers and clients
// for the eventsplit.v1.EventService.
package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/eventsplit/pkg/api"
)

// EventServiceName is the fully-qualified name of the EventService service.
const EventServiceName = "eventsplit.v1.EventService"

// Procedure paths, as served under the handler's mount path.
const (
	EventServiceCreateEventProcedure       = "/eventsplit.v1.EventService/CreateEvent"
	EventServiceGetEventProcedure          = "/eventsplit.v1.EventService/GetEvent"
	EventServiceListEventsProcedure        = "/eventsplit.v1.EventService/ListEvents"
	EventServiceDeleteEventProcedure       = "/eventsplit.v1.EventService/DeleteEvent"
	EventServiceAddParticipantProcedure    = "/eventsplit.v1.EventService/AddParticipant"
	EventServiceRemoveParticipantProcedure = "/eventsplit.v1.EventService/RemoveParticipant"
	EventServiceAddExpenseProcedure        = "/eventsplit.v1.EventService/AddExpense"
	EventServiceDeleteExpenseProcedure     = "/eventsplit.v1.EventService/DeleteExpense"
	EventServiceRecordPaymentProcedure     = "/eventsplit.v1.EventService/RecordPayment"
	EventServiceDeletePaymentProcedure     = "/eventsplit.v1.EventService/DeletePayment"
	EventServiceGetBalancesProcedure       = "/eventsplit.v1.EventService/GetBalances"
	EventServiceGetSettlementProcedure     = "/eventsplit.v1.EventService/GetSettlement"
)

// EventServiceClient is a client for the eventsplit.v1.EventService service.
type EventServiceClient interface {
	CreateEvent(context.Context, *connect.Request[api.CreateEventRequest]) (*connect.Response[api.CreateEventResponse], error)
	GetEvent(context.Context, *connect.Request[api.GetEventRequest]) (*connect.Response[api.GetEventResponse], error)
	ListEvents(context.Context, *connect.Request[api.ListEventsRequest]) (*connect.Response[api.ListEventsResponse], error)
	DeleteEvent(context.Context, *connect.Request[api.DeleteEventRequest]) (*connect.Response[api.DeleteEventResponse], error)
	AddParticipant(context.Context, *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error)
	RemoveParticipant(context.Context, *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.RemoveParticipantResponse], error)
	AddExpense(context.Context, *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error)
	DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error)
	RecordPayment(context.Context, *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error)
	DeletePayment(context.Context, *connect.Request[api.DeletePaymentRequest]) (*connect.Response[api.DeletePaymentResponse], error)
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	GetSettlement(context.Context, *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error)
}

// NewEventServiceClient constructs a client for the eventsplit.v1.EventService
// service. Requests are sent as JSON.
//
// The URL supplied here should be the base URL for the Connect server (for
// example, http://api.acme.com or https://acme.com/grpc).
func NewEventServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) EventServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(api.JSONCodec{})}, opts...)
	return &eventServiceClient{
		createEvent:       connect.NewClient[api.CreateEventRequest, api.CreateEventResponse](httpClient, baseURL+EventServiceCreateEventProcedure, opts...),
		getEvent:          connect.NewClient[api.GetEventRequest, api.GetEventResponse](httpClient, baseURL+EventServiceGetEventProcedure, opts...),
		listEvents:        connect.NewClient[api.ListEventsRequest, api.ListEventsResponse](httpClient, baseURL+EventServiceListEventsProcedure, opts...),
		deleteEvent:       connect.NewClient[api.DeleteEventRequest, api.DeleteEventResponse](httpClient, baseURL+EventServiceDeleteEventProcedure, opts...),
		addParticipant:    connect.NewClient[api.AddParticipantRequest, api.AddParticipantResponse](httpClient, baseURL+EventServiceAddParticipantProcedure, opts...),
		removeParticipant: connect.NewClient[api.RemoveParticipantRequest, api.RemoveParticipantResponse](httpClient, baseURL+EventServiceRemoveParticipantProcedure, opts...),
		addExpense:        connect.NewClient[api.AddExpenseRequest, api.AddExpenseResponse](httpClient, baseURL+EventServiceAddExpenseProcedure, opts...),
		deleteExpense:     connect.NewClient[api.DeleteExpenseRequest, api.DeleteExpenseResponse](httpClient, baseURL+EventServiceDeleteExpenseProcedure, opts...),
		recordPayment:     connect.NewClient[api.RecordPaymentRequest, api.RecordPaymentResponse](httpClient, baseURL+EventServiceRecordPaymentProcedure, opts...),
		deletePayment:     connect.NewClient[api.DeletePaymentRequest, api.DeletePaymentResponse](httpClient, baseURL+EventServiceDeletePaymentProcedure, opts...),
		getBalances:       connect.NewClient[api.GetBalancesRequest, api.GetBalancesResponse](httpClient, baseURL+EventServiceGetBalancesProcedure, opts...),
		getSettlement:     connect.NewClient[api.GetSettlementRequest, api.GetSettlementResponse](httpClient, baseURL+EventServiceGetSettlementProcedure, opts...),
	}
}

type eventServiceClient struct {
	createEvent       *connect.Client[api.CreateEventRequest, api.CreateEventResponse]
	getEvent          *connect.Client[api.GetEventRequest, api.GetEventResponse]
	listEvents        *connect.Client[api.ListEventsRequest, api.ListEventsResponse]
	deleteEvent       *connect.Client[api.DeleteEventRequest, api.DeleteEventResponse]
	addParticipant    *connect.Client[api.AddParticipantRequest, api.AddParticipantResponse]
	removeParticipant *connect.Client[api.RemoveParticipantRequest, api.RemoveParticipantResponse]
	addExpense        *connect.Client[api.AddExpenseRequest, api.AddExpenseResponse]
	deleteExpense     *connect.Client[api.DeleteExpenseRequest, api.DeleteExpenseResponse]
	recordPayment     *connect.Client[api.RecordPaymentRequest, api.RecordPaymentResponse]
	deletePayment     *connect.Client[api.DeletePaymentRequest, api.DeletePaymentResponse]
	getBalances       *connect.Client[api.GetBalancesRequest, api.GetBalancesResponse]
	getSettlement     *connect.Client[api.GetSettlementRequest, api.GetSettlementResponse]
}

func (c *eventServiceClient) CreateEvent(ctx context.Context, req *connect.Request[api.CreateEventRequest]) (*connect.Response[api.CreateEventResponse], error) {
	return c.createEvent.CallUnary(ctx, req)
}

func (c *eventServiceClient) GetEvent(ctx context.Context, req *connect.Request[api.GetEventRequest]) (*connect.Response[api.GetEventResponse], error) {
	return c.getEvent.CallUnary(ctx, req)
}

func (c *eventServiceClient) ListEvents(ctx context.Context, req *connect.Request[api.ListEventsRequest]) (*connect.Response[api.ListEventsResponse], error) {
	return c.listEvents.CallUnary(ctx, req)
}

func (c *eventServiceClient) DeleteEvent(ctx context.Context, req *connect.Request[api.DeleteEventRequest]) (*connect.Response[api.DeleteEventResponse], error) {
	return c.deleteEvent.CallUnary(ctx, req)
}

func (c *eventServiceClient) AddParticipant(ctx context.Context, req *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error) {
	return c.addParticipant.CallUnary(ctx, req)
}

func (c *eventServiceClient) RemoveParticipant(ctx context.Context, req *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.RemoveParticipantResponse], error) {
	return c.removeParticipant.CallUnary(ctx, req)
}

func (c *eventServiceClient) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	return c.addExpense.CallUnary(ctx, req)
}

func (c *eventServiceClient) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	return c.deleteExpense.CallUnary(ctx, req)
}

func (c *eventServiceClient) RecordPayment(ctx context.Context, req *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error) {
	return c.recordPayment.CallUnary(ctx, req)
}

func (c *eventServiceClient) DeletePayment(ctx context.Context, req *connect.Request[api.DeletePaymentRequest]) (*connect.Response[api.DeletePaymentResponse], error) {
	return c.deletePayment.CallUnary(ctx, req)
}

func (c *eventServiceClient) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

func (c *eventServiceClient) GetSettlement(ctx context.Context, req *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error) {
	return c.getSettlement.CallUnary(ctx, req)
}

// EventServiceHandler is an implementation of the eventsplit.v1.EventService service.
type EventServiceHandler interface {
	CreateEvent(context.Context, *connect.Request[api.CreateEventRequest]) (*connect.Response[api.CreateEventResponse], error)
	GetEvent(context.Context, *connect.Request[api.GetEventRequest]) (*connect.Response[api.GetEventResponse], error)
	ListEvents(context.Context, *connect.Request[api.ListEventsRequest]) (*connect.Response[api.ListEventsResponse], error)
	DeleteEvent(context.Context, *connect.Request[api.DeleteEventRequest]) (*connect.Response[api.DeleteEventResponse], error)
	AddParticipant(context.Context, *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error)
	RemoveParticipant(context.Context, *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.RemoveParticipantResponse], error)
	AddExpense(context.Context, *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error)
	DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error)
	RecordPayment(context.Context, *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error)
	DeletePayment(context.Context, *connect.Request[api.DeletePaymentRequest]) (*connect.Response[api.DeletePaymentResponse], error)
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	GetSettlement(context.Context, *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error)
}

// NewEventServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewEventServiceHandler(svc EventServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.JSONCodec{})}, opts...)
	handlers := map[string]http.Handler{
		EventServiceCreateEventProcedure:       connect.NewUnaryHandler(EventServiceCreateEventProcedure, svc.CreateEvent, opts...),
		EventServiceGetEventProcedure:          connect.NewUnaryHandler(EventServiceGetEventProcedure, svc.GetEvent, opts...),
		EventServiceListEventsProcedure:        connect.NewUnaryHandler(EventServiceListEventsProcedure, svc.ListEvents, opts...),
		EventServiceDeleteEventProcedure:       connect.NewUnaryHandler(EventServiceDeleteEventProcedure, svc.DeleteEvent, opts...),
		EventServiceAddParticipantProcedure:    connect.NewUnaryHandler(EventServiceAddParticipantProcedure, svc.AddParticipant, opts...),
		EventServiceRemoveParticipantProcedure: connect.NewUnaryHandler(EventServiceRemoveParticipantProcedure, svc.RemoveParticipant, opts...),
		EventServiceAddExpenseProcedure:        connect.NewUnaryHandler(EventServiceAddExpenseProcedure, svc.AddExpense, opts...),
		EventServiceDeleteExpenseProcedure:     connect.NewUnaryHandler(EventServiceDeleteExpenseProcedure, svc.DeleteExpense, opts...),
		EventServiceRecordPaymentProcedure:     connect.NewUnaryHandler(EventServiceRecordPaymentProcedure, svc.RecordPayment, opts...),
		EventServiceDeletePaymentProcedure:     connect.NewUnaryHandler(EventServiceDeletePaymentProcedure, svc.DeletePayment, opts...),
		EventServiceGetBalancesProcedure:       connect.NewUnaryHandler(EventServiceGetBalancesProcedure, svc.GetBalances, opts...),
		EventServiceGetSettlementProcedure:     connect.NewUnaryHandler(EventServiceGetSettlementProcedure, svc.GetSettlement, opts...),
	}
	return "/" + EventServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := handlers[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}

// UnimplementedEventServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedEventServiceHandler struct{}

func (UnimplementedEventServiceHandler) CreateEvent(context.Context, *connect.Request[api.CreateEventRequest]) (*connect.Response[api.CreateEventResponse], error) {
	return nil, unimplemented("CreateEvent")
}

func (UnimplementedEventServiceHandler) GetEvent(context.Context, *connect.Request[api.GetEventRequest]) (*connect.Response[api.GetEventResponse], error) {
	return nil, unimplemented("GetEvent")
}

func (UnimplementedEventServiceHandler) ListEvents(context.Context, *connect.Request[api.ListEventsRequest]) (*connect.Response[api.ListEventsResponse], error) {
	return nil, unimplemented("ListEvents")
}

func (UnimplementedEventServiceHandler) DeleteEvent(context.Context, *connect.Request[api.DeleteEventRequest]) (*connect.Response[api.DeleteEventResponse], error) {
	return nil, unimplemented("DeleteEvent")
}

func (UnimplementedEventServiceHandler) AddParticipant(context.Context, *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error) {
	return nil, unimplemented("AddParticipant")
}

func (UnimplementedEventServiceHandler) RemoveParticipant(context.Context, *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.RemoveParticipantResponse], error) {
	return nil, unimplemented("RemoveParticipant")
}

func (UnimplementedEventServiceHandler) AddExpense(context.Context, *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	return nil, unimplemented("AddExpense")
}

func (UnimplementedEventServiceHandler) DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	return nil, unimplemented("DeleteExpense")
}

func (UnimplementedEventServiceHandler) RecordPayment(context.Context, *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error) {
	return nil, unimplemented("RecordPayment")
}

func (UnimplementedEventServiceHandler) DeletePayment(context.Context, *connect.Request[api.DeletePaymentRequest]) (*connect.Response[api.DeletePaymentResponse], error) {
	return nil, unimplemented("DeletePayment")
}

func (UnimplementedEventServiceHandler) GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	return nil, unimplemented("GetBalances")
}

func (UnimplementedEventServiceHandler) GetSettlement(context.Context, *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error) {
	return nil, unimplemented("GetSettlement")
}

func unimplemented(method string) error {
	return connect.NewError(connect.CodeUnimplemented, errors.New(EventServiceName+"."+method+" is not implemented"))
}
