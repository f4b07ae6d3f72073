package calculator

import (
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/mmynk/eventsplit/internal/money"
)

// Participant is an event member as seen by the calculator.
type Participant struct {
	ID   string
	Name string
}

// ExpenseForBalance represents an expense with the minimal information needed for balance calculations.
type ExpenseForBalance struct {
	ID       string
	Amount   decimal.Decimal
	PayerID  string
	SplitIDs []string // empty = split among all participants
}

// PaymentForBalance represents a recorded settle-up payment between two participants.
type PaymentForBalance struct {
	ID     string
	FromID string // Who paid (debtor settling up)
	ToID   string // Who received (creditor being paid)
	Amount decimal.Decimal
}

// EventSnapshot is the fully materialized data set of one event.
// The calculator never fetches anything beyond what is in the snapshot.
type EventSnapshot struct {
	EventID      string
	Participants []Participant
	Expenses     []ExpenseForBalance
	Payments     []PaymentForBalance
}

// MemberBalance represents the balance information for one participant.
type MemberBalance struct {
	ParticipantID string
	Name          string
	NetBalance    decimal.Decimal // Positive = owed money, Negative = owes money
	TotalPaid     decimal.Decimal // Total amount paid across all expenses and payments
	TotalOwed     decimal.Decimal // Total share of expenses plus payments received
}

// BalanceSheet is the rounded result of a balance calculation.
type BalanceSheet struct {
	// Balances has one entry per participant, in snapshot order.
	Balances []MemberBalance

	// Skipped lists expenses ignored because their split set resolved to
	// nobody (the event has no participants).
	Skipped []string
}

// Get returns the balance of one participant.
func (s *BalanceSheet) Get(participantID string) (MemberBalance, bool) {
	for _, b := range s.Balances {
		if b.ParticipantID == participantID {
			return b, true
		}
	}
	return MemberBalance{}, false
}

// Total returns the sum of all rounded net balances. A non-zero total is the
// rounding residual.
func (s *BalanceSheet) Total() decimal.Decimal {
	total := decimal.Zero
	for _, b := range s.Balances {
		total = total.Add(b.NetBalance)
	}
	return total
}

// Ledger holds the unrounded accumulators of one calculation.
type Ledger struct {
	entries []*ledgerEntry
	index   map[string]*ledgerEntry

	// Skipped lists expenses whose split set resolved to nobody.
	Skipped []string
}

type ledgerEntry struct {
	participant Participant
	net         *big.Rat
	paid        *big.Rat
	owed        *big.Rat
}

func newLedger(participants []Participant) *Ledger {
	l := &Ledger{
		entries: make([]*ledgerEntry, 0, len(participants)),
		index:   make(map[string]*ledgerEntry, len(participants)),
	}
	for _, p := range participants {
		e := &ledgerEntry{
			participant: p,
			net:         new(big.Rat),
			paid:        new(big.Rat),
			owed:        new(big.Rat),
		}
		l.entries = append(l.entries, e)
		l.index[p.ID] = e
	}
	return l
}

func (l *Ledger) credit(id string, amount *big.Rat) {
	e := l.index[id]
	e.net.Add(e.net, amount)
	e.paid.Add(e.paid, amount)
}

func (l *Ledger) charge(id string, amount *big.Rat) {
	e := l.index[id]
	e.net.Sub(e.net, amount)
	e.owed.Add(e.owed, amount)
}

// Net returns a copy of the unrounded net balance of one participant.
func (l *Ledger) Net(participantID string) (*big.Rat, bool) {
	e, ok := l.index[participantID]
	if !ok {
		return nil, false
	}
	return new(big.Rat).Set(e.net), true
}

// Sum returns the exact sum of all unrounded net balances. It is zero for
// every snapshot that passed validation.
func (l *Ledger) Sum() *big.Rat {
	sum := new(big.Rat)
	for _, e := range l.entries {
		sum.Add(sum, e.net)
	}
	return sum
}

// Round applies the policy once to every accumulator.
func (l *Ledger) Round(policy money.Policy) *BalanceSheet {
	sheet := &BalanceSheet{
		Balances: make([]MemberBalance, 0, len(l.entries)),
		Skipped:  append([]string(nil), l.Skipped...),
	}
	for _, e := range l.entries {
		sheet.Balances = append(sheet.Balances, MemberBalance{
			ParticipantID: e.participant.ID,
			Name:          e.participant.Name,
			NetBalance:    policy.RoundRat(e.net),
			TotalPaid:     policy.RoundRat(e.paid),
			TotalOwed:     policy.RoundRat(e.owed),
		})
	}
	return sheet
}

// Accumulate folds every expense and payment of the snapshot into exact,
// unrounded per-participant accumulators.
//
// Algorithm:
//   - Every participant starts at zero, so inactive members still appear
//   - For each expense: each split member is charged amount/|split|, the payer
//     is credited the full amount
//   - An expense whose split set resolves to nobody is skipped
//   - For each payment: the sender is credited, the receiver is charged
//
// The snapshot is validated first; any violation aborts the calculation.
func Accumulate(snap EventSnapshot, policy money.Policy) (*Ledger, error) {
	if violations := Validate(snap, policy); len(violations) > 0 {
		return nil, &ValidationError{EventID: snap.EventID, Violations: violations}
	}

	ledger := newLedger(snap.Participants)

	for _, exp := range snap.Expenses {
		split := resolveSplit(exp, snap.Participants)
		if len(split) == 0 {
			ledger.Skipped = append(ledger.Skipped, exp.ID)
			continue
		}

		amount := exp.Amount.Rat()
		share := shareOf(amount, len(split))
		for _, id := range split {
			ledger.charge(id, share)
		}
		ledger.credit(exp.PayerID, amount)
	}

	for _, p := range snap.Payments {
		amount := p.Amount.Rat()
		ledger.credit(p.FromID, amount)
		ledger.charge(p.ToID, amount)
	}

	return ledger, nil
}

// CalculateBalances computes every participant's net balance, rounded once
// at the end with the given policy.
func CalculateBalances(snap EventSnapshot, policy money.Policy) (*BalanceSheet, error) {
	ledger, err := Accumulate(snap, policy)
	if err != nil {
		return nil, err
	}
	return ledger.Round(policy), nil
}
