// Package models defines the core domain models for eventsplit.
//
// # Models
//
//   - Event: A trip, household or any other grouping of shared costs
//   - Participant: A person inside one event
//   - Expense: A payment by one participant, divided among a split set
//   - Payment: A recorded settle-up payment between two participants
//   - EventSnapshot: Everything above for one event, read together
//
// Balances and transfers are not models: they are recomputed from a
// snapshot on every request by the calculator package.
//
// # Design Principles
//
// 1. **Amounts are decimals**: Every amount is a decimal.Decimal, never a float
// 2. **Avoid circular references**: Use ID strings instead of pointers for relationships
// 3. **Ownership**: An event owns its participants, expenses and payments
package models
