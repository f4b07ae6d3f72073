// Package api defines the request and response messages of the eventsplit
// EventService.
//
// Messages are plain structs carried as JSON by Connect (see JSONCodec).
// Amounts sent by clients are decimals (JSON number or string); amounts
// returned by the server are strings fixed to the currency's decimal places,
// e.g. "-33.33".
package api

import "github.com/shopspring/decimal"

// Event is an event with its participants, expenses and payments.
type Event struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description,omitempty"`
	CreatedAt    int64         `json:"created_at"`
	Participants []Participant `json:"participants,omitempty"`
	Expenses     []Expense     `json:"expenses,omitempty"`
	Payments     []Payment     `json:"payments,omitempty"`
}

// Participant is a member of an event.
type Participant struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Expense is a recorded payment split among participants.
type Expense struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	PayerID     string          `json:"payer_id"`
	SplitIDs    []string        `json:"split_ids,omitempty"`
	Category    string          `json:"category,omitempty"`
	CreatedAt   int64           `json:"created_at"`
}

// Payment is a recorded settle-up payment.
type Payment struct {
	ID        string          `json:"id"`
	FromID    string          `json:"from_id"`
	ToID      string          `json:"to_id"`
	Amount    decimal.Decimal `json:"amount"`
	Note      string          `json:"note,omitempty"`
	CreatedAt int64           `json:"created_at"`
}

// Balance is one participant's net position.
// Positive = owed money, negative = owes money.
type Balance struct {
	ParticipantID string `json:"participant_id"`
	Name          string `json:"name"`
	NetBalance    string `json:"net_balance"`
	TotalPaid     string `json:"total_paid"`
	TotalOwed     string `json:"total_owed"`
}

// Transfer is a proposed payment that settles debts.
type Transfer struct {
	FromID   string `json:"from_id"`
	FromName string `json:"from_name"`
	ToID     string `json:"to_id"`
	ToName   string `json:"to_name"`
	Amount   string `json:"amount"`
}

type CreateEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type CreateEventResponse struct {
	Event *Event `json:"event"`
}

type GetEventRequest struct {
	EventID string `json:"event_id"`
}

type GetEventResponse struct {
	Event *Event `json:"event"`
}

type ListEventsRequest struct{}

type ListEventsResponse struct {
	Events []*Event `json:"events"`
}

type DeleteEventRequest struct {
	EventID string `json:"event_id"`
}

type DeleteEventResponse struct{}

type AddParticipantRequest struct {
	EventID string `json:"event_id"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
}

type AddParticipantResponse struct {
	Participant *Participant `json:"participant"`
}

type RemoveParticipantRequest struct {
	ParticipantID string `json:"participant_id"`
}

type RemoveParticipantResponse struct{}

type AddExpenseRequest struct {
	EventID     string          `json:"event_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	PayerID     string          `json:"payer_id"`
	// SplitIDs empty = split among every participant of the event.
	SplitIDs []string `json:"split_ids,omitempty"`
	Category string   `json:"category,omitempty"`
}

type AddExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type DeleteExpenseResponse struct{}

type RecordPaymentRequest struct {
	EventID string          `json:"event_id"`
	FromID  string          `json:"from_id"`
	ToID    string          `json:"to_id"`
	Amount  decimal.Decimal `json:"amount"`
	Note    string          `json:"note,omitempty"`
}

type RecordPaymentResponse struct {
	Payment *Payment `json:"payment"`
}

type DeletePaymentRequest struct {
	PaymentID string `json:"payment_id"`
}

type DeletePaymentResponse struct{}

type GetBalancesRequest struct {
	EventID string `json:"event_id"`
}

type GetBalancesResponse struct {
	Balances []*Balance `json:"balances"`
	// SkippedExpenseIDs lists expenses that had nobody to split among.
	SkippedExpenseIDs []string `json:"skipped_expense_ids,omitempty"`
	// Total is the sum of all balances; non-zero means a rounding residual.
	Total string `json:"total"`
}

type GetSettlementRequest struct {
	EventID string `json:"event_id"`
}

type GetSettlementResponse struct {
	Transfers []*Transfer `json:"transfers"`
	// Residual is the sum of the rounded balances the plan started from.
	Residual string `json:"residual"`
	// Unsettled lists what is left on each participant after the transfers.
	Unsettled []*Balance `json:"unsettled,omitempty"`
	Settled   bool       `json:"settled"`
}

// GetEventID reports the event a request is scoped to.
func (r *GetEventRequest) GetEventID() string { return r.EventID }
func (r *DeleteEventRequest) GetEventID() string { return r.EventID }
func (r *AddParticipantRequest) GetEventID() string { return r.EventID }
func (r *AddExpenseRequest) GetEventID() string { return r.EventID }
func (r *RecordPaymentRequest) GetEventID() string { return r.EventID }
func (r *GetBalancesRequest) GetEventID() string { return r.EventID }
func (r *GetSettlementRequest) GetEventID() string { return r.EventID }
