package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/eventsplit/internal/money"
)

// Transfer is a proposed payment from a debtor to a creditor.
type Transfer struct {
	From   string // Person who owes
	To     string // Person who is owed
	Amount decimal.Decimal
}

// Settlement is the result of planning transfers for a set of balances.
type Settlement struct {
	Transfers []Transfer

	// Residual is the sum of the input balances. It is zero when the
	// balances are consistent and non-zero when per-participant rounding
	// left a few minor units behind.
	Residual decimal.Decimal

	// Unsettled holds the remaining amount of every participant the plan
	// could not clear, signed like a balance.
	Unsettled []MemberBalance
}

// Settled reports whether applying the transfers zeroes every balance.
func (s *Settlement) Settled() bool {
	return len(s.Unsettled) == 0
}

type position struct {
	member    MemberBalance
	remaining decimal.Decimal
}

// PlanSettlement matches debtors with creditors greedily.
//
// Creditors (positive balance) and debtors (negative balance) keep the order
// in which they appear in balances; that order breaks ties. Each step pays
// min(debt, credit) from the current debtor to the current creditor and moves
// past whichever side reaches exactly zero, so every transfer clears at least
// one participant and the plan has at most N-1 transfers.
//
// When the balances do not sum to zero the loop stops with one side left
// over; those leftovers are returned in Unsettled rather than dropped.
func PlanSettlement(balances []MemberBalance, policy money.Policy) *Settlement {
	var creditors, debtors []position
	residual := decimal.Zero

	for _, b := range balances {
		amount := policy.Round(b.NetBalance)
		residual = residual.Add(amount)

		switch amount.Sign() {
		case 1:
			creditors = append(creditors, position{member: b, remaining: amount})
		case -1:
			debtors = append(debtors, position{member: b, remaining: amount.Neg()})
		}
	}

	plan := &Settlement{
		Transfers: []Transfer{},
		Residual:  residual,
	}

	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor := &debtors[i]
		creditor := &creditors[j]

		payment := decimal.Min(debtor.remaining, creditor.remaining)
		plan.Transfers = append(plan.Transfers, Transfer{
			From:   debtor.member.ParticipantID,
			To:     creditor.member.ParticipantID,
			Amount: policy.Round(payment),
		})

		debtor.remaining = debtor.remaining.Sub(payment)
		creditor.remaining = creditor.remaining.Sub(payment)

		if debtor.remaining.IsZero() {
			i++
		}
		if creditor.remaining.IsZero() {
			j++
		}
	}

	for ; i < len(debtors); i++ {
		plan.Unsettled = append(plan.Unsettled, leftover(debtors[i], debtors[i].remaining.Neg()))
	}
	for ; j < len(creditors); j++ {
		plan.Unsettled = append(plan.Unsettled, leftover(creditors[j], creditors[j].remaining))
	}

	return plan
}

func leftover(p position, net decimal.Decimal) MemberBalance {
	b := p.member
	b.NetBalance = net
	return b
}
