package calculator

import "math/big"

// resolveSplit returns the participant IDs an expense is divided among.
// An explicit split set wins; an empty one means every participant of the
// event at evaluation time. Duplicate IDs collapse, first occurrence wins.
func resolveSplit(exp ExpenseForBalance, participants []Participant) []string {
	if len(exp.SplitIDs) == 0 {
		ids := make([]string, len(participants))
		for i, p := range participants {
			ids[i] = p.ID
		}
		return ids
	}

	seen := make(map[string]bool, len(exp.SplitIDs))
	ids := make([]string, 0, len(exp.SplitIDs))
	for _, id := range exp.SplitIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// shareOf divides amount into n equal parts without losing precision.
// n must be positive.
func shareOf(amount *big.Rat, n int) *big.Rat {
	return new(big.Rat).Quo(amount, new(big.Rat).SetInt64(int64(n)))
}
