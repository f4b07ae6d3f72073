package service

import (
	"github.com/mmynk/eventsplit/internal/calculator"
	"github.com/mmynk/eventsplit/internal/models"
	"github.com/mmynk/eventsplit/internal/money"
	"github.com/mmynk/eventsplit/pkg/api"
)

// ToCalculatorSnapshot strips a stored snapshot down to what the calculator needs.
func ToCalculatorSnapshot(snap *models.EventSnapshot) calculator.EventSnapshot {
	out := calculator.EventSnapshot{
		EventID:      snap.Event.ID,
		Participants: calculatorParticipants(snap.Participants),
		Expenses:     make([]calculator.ExpenseForBalance, 0, len(snap.Expenses)),
		Payments:     make([]calculator.PaymentForBalance, 0, len(snap.Payments)),
	}
	for _, e := range snap.Expenses {
		out.Expenses = append(out.Expenses, calculator.ExpenseForBalance{
			ID:       e.ID,
			Amount:   e.Amount,
			PayerID:  e.PayerID,
			SplitIDs: e.SplitIDs,
		})
	}
	for _, p := range snap.Payments {
		out.Payments = append(out.Payments, calculator.PaymentForBalance{
			ID:     p.ID,
			FromID: p.FromID,
			ToID:   p.ToID,
			Amount: p.Amount,
		})
	}
	return out
}

func calculatorParticipants(participants []models.Participant) []calculator.Participant {
	out := make([]calculator.Participant, 0, len(participants))
	for _, p := range participants {
		out = append(out, calculator.Participant{ID: p.ID, Name: p.Name})
	}
	return out
}

func eventToAPI(e *models.Event) *api.Event {
	return &api.Event{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
	}
}

func snapshotToAPI(snap *models.EventSnapshot) *api.Event {
	out := eventToAPI(&snap.Event)
	for _, p := range snap.Participants {
		out.Participants = append(out.Participants, *participantToAPI(&p))
	}
	for _, e := range snap.Expenses {
		out.Expenses = append(out.Expenses, *expenseToAPI(&e))
	}
	for _, p := range snap.Payments {
		out.Payments = append(out.Payments, *paymentToAPI(&p))
	}
	return out
}

func participantToAPI(p *models.Participant) *api.Participant {
	return &api.Participant{ID: p.ID, Name: p.Name, Email: p.Email}
}

func expenseToAPI(e *models.Expense) *api.Expense {
	return &api.Expense{
		ID:          e.ID,
		Description: e.Description,
		Amount:      e.Amount,
		PayerID:     e.PayerID,
		SplitIDs:    e.SplitIDs,
		Category:    e.Category,
		CreatedAt:   e.CreatedAt,
	}
}

func paymentToAPI(p *models.Payment) *api.Payment {
	return &api.Payment{
		ID:        p.ID,
		FromID:    p.FromID,
		ToID:      p.ToID,
		Amount:    p.Amount,
		Note:      p.Note,
		CreatedAt: p.CreatedAt,
	}
}

// BalancesToAPI formats a balance sheet for the wire.
func BalancesToAPI(sheet *calculator.BalanceSheet, policy money.Policy) []*api.Balance {
	return membersToAPI(sheet.Balances, policy)
}

func membersToAPI(members []calculator.MemberBalance, policy money.Policy) []*api.Balance {
	out := make([]*api.Balance, 0, len(members))
	for _, b := range members {
		out = append(out, &api.Balance{
			ParticipantID: b.ParticipantID,
			Name:          b.Name,
			NetBalance:    policy.Format(b.NetBalance),
			TotalPaid:     policy.Format(b.TotalPaid),
			TotalOwed:     policy.Format(b.TotalOwed),
		})
	}
	return out
}

// SettlementToAPI formats a settlement plan for the wire, resolving
// participant names from the balance sheet it was computed from.
func SettlementToAPI(report *calculator.Report, policy money.Policy) *api.GetSettlementResponse {
	names := make(map[string]string, len(report.Sheet.Balances))
	for _, b := range report.Sheet.Balances {
		names[b.ParticipantID] = b.Name
	}

	plan := report.Settlement
	resp := &api.GetSettlementResponse{
		Transfers: make([]*api.Transfer, 0, len(plan.Transfers)),
		Residual:  policy.Format(plan.Residual),
		Unsettled: membersToAPI(plan.Unsettled, policy),
		Settled:   plan.Settled(),
	}
	for _, t := range plan.Transfers {
		resp.Transfers = append(resp.Transfers, &api.Transfer{
			FromID:   t.From,
			FromName: names[t.From],
			ToID:     t.To,
			ToName:   names[t.To],
			Amount:   policy.Format(t.Amount),
		})
	}
	return resp
}
