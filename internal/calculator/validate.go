package calculator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/eventsplit/internal/money"
)

var (
	// ErrInvalidInput groups structural problems of a snapshot.
	ErrInvalidInput = errors.New("invalid input")

	// ErrReferentialMismatch is reported when an expense or payment refers to
	// a participant outside its event.
	ErrReferentialMismatch = errors.New("referential mismatch")

	// ErrNumericRange is reported for amounts that are not strictly positive
	// or not representable under the rounding policy.
	ErrNumericRange = errors.New("numeric range")
)

// ViolationKind identifies one validation rule.
type ViolationKind int

const (
	EmptyParticipantID ViolationKind = iota + 1
	DuplicateParticipant
	UnknownPayer
	UnknownSplitMember
	UnknownPaymentParty
	SelfPayment
	NonPositiveAmount
	AmountTooPrecise
	AmountOutOfRange
)

var kindNames = map[ViolationKind]string{
	EmptyParticipantID:   "empty participant id",
	DuplicateParticipant: "duplicate participant",
	UnknownPayer:         "unknown payer",
	UnknownSplitMember:   "unknown split member",
	UnknownPaymentParty:  "unknown payment party",
	SelfPayment:          "self payment",
	NonPositiveAmount:    "non-positive amount",
	AmountTooPrecise:     "amount too precise",
	AmountOutOfRange:     "amount out of range",
}

func (k ViolationKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ViolationKind(%d)", int(k))
}

// Class returns the sentinel error the kind belongs to.
func (k ViolationKind) Class() error {
	switch k {
	case UnknownPayer, UnknownSplitMember, UnknownPaymentParty:
		return ErrReferentialMismatch
	case NonPositiveAmount, AmountTooPrecise, AmountOutOfRange:
		return ErrNumericRange
	default:
		return ErrInvalidInput
	}
}

// Violation describes one rule broken by a snapshot.
type Violation struct {
	Kind          ViolationKind
	ExpenseID     string
	PaymentID     string
	ParticipantID string
	Detail        string
}

func (v Violation) String() string {
	var b strings.Builder
	b.WriteString(v.Kind.String())
	if v.ExpenseID != "" {
		fmt.Fprintf(&b, " (expense %s)", v.ExpenseID)
	}
	if v.PaymentID != "" {
		fmt.Fprintf(&b, " (payment %s)", v.PaymentID)
	}
	if v.ParticipantID != "" {
		fmt.Fprintf(&b, " (participant %s)", v.ParticipantID)
	}
	if v.Detail != "" {
		b.WriteString(": ")
		b.WriteString(v.Detail)
	}
	return b.String()
}

// ValidationError is returned when a snapshot breaks one or more rules.
type ValidationError struct {
	EventID    string
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.String()
	}
	prefix := "invalid snapshot"
	if e.EventID != "" {
		prefix = fmt.Sprintf("invalid snapshot for event %s", e.EventID)
	}
	return fmt.Sprintf("%s: %s", prefix, strings.Join(msgs, "; "))
}

// Is matches the class sentinel of any contained violation.
func (e *ValidationError) Is(target error) bool {
	for _, v := range e.Violations {
		if v.Kind.Class() == target {
			return true
		}
	}
	return false
}

// Validate checks a snapshot in a single pass and returns every violation
// found. A nil result means the snapshot can be fed to the calculator.
func Validate(snap EventSnapshot, policy money.Policy) []Violation {
	var violations []Violation

	members := make(map[string]bool, len(snap.Participants))
	for _, p := range snap.Participants {
		switch {
		case p.ID == "":
			violations = append(violations, Violation{Kind: EmptyParticipantID, Detail: p.Name})
		case members[p.ID]:
			violations = append(violations, Violation{Kind: DuplicateParticipant, ParticipantID: p.ID})
		}
		members[p.ID] = true
	}

	for _, exp := range snap.Expenses {
		violations = append(violations, validateExpense(members, exp, policy)...)
	}
	for _, p := range snap.Payments {
		violations = append(violations, validatePayment(members, p, policy)...)
	}

	return violations
}

// ValidateExpense checks one expense against an event's participants.
func ValidateExpense(participants []Participant, exp ExpenseForBalance, policy money.Policy) []Violation {
	return validateExpense(memberSet(participants), exp, policy)
}

// ValidatePayment checks one payment against an event's participants.
func ValidatePayment(participants []Participant, p PaymentForBalance, policy money.Policy) []Violation {
	return validatePayment(memberSet(participants), p, policy)
}

func memberSet(participants []Participant) map[string]bool {
	members := make(map[string]bool, len(participants))
	for _, p := range participants {
		members[p.ID] = true
	}
	return members
}

func validateExpense(members map[string]bool, exp ExpenseForBalance, policy money.Policy) []Violation {
	var violations []Violation

	if v, ok := checkAmount(exp.Amount, policy); ok {
		v.ExpenseID = exp.ID
		violations = append(violations, v)
	}

	// Nothing to split among: the calculator skips the expense, so its
	// references are never dereferenced.
	if len(exp.SplitIDs) == 0 && len(members) == 0 {
		return violations
	}

	if !members[exp.PayerID] {
		violations = append(violations, Violation{Kind: UnknownPayer, ExpenseID: exp.ID, ParticipantID: exp.PayerID})
	}
	for _, id := range exp.SplitIDs {
		if !members[id] {
			violations = append(violations, Violation{Kind: UnknownSplitMember, ExpenseID: exp.ID, ParticipantID: id})
		}
	}
	return violations
}

func validatePayment(members map[string]bool, p PaymentForBalance, policy money.Policy) []Violation {
	var violations []Violation

	if v, ok := checkAmount(p.Amount, policy); ok {
		v.PaymentID = p.ID
		violations = append(violations, v)
	}
	if !members[p.FromID] {
		violations = append(violations, Violation{Kind: UnknownPaymentParty, PaymentID: p.ID, ParticipantID: p.FromID})
	}
	if !members[p.ToID] {
		violations = append(violations, Violation{Kind: UnknownPaymentParty, PaymentID: p.ID, ParticipantID: p.ToID})
	}
	if p.FromID == p.ToID {
		violations = append(violations, Violation{Kind: SelfPayment, PaymentID: p.ID, ParticipantID: p.FromID})
	}
	return violations
}

func checkAmount(amount decimal.Decimal, policy money.Policy) (Violation, bool) {
	if !amount.IsPositive() {
		return Violation{Kind: NonPositiveAmount, Detail: amount.String()}, true
	}
	if err := policy.Check(amount); err != nil {
		kind := AmountOutOfRange
		if errors.Is(err, money.ErrTooPrecise) {
			kind = AmountTooPrecise
		}
		return Violation{Kind: kind, Detail: err.Error()}, true
	}
	return Violation{}, false
}
