// Package calculator implements the pure read paths of the ledger: balance
// aggregation, minimum-transaction debt netting, and per-game payment
// aggregation. Nothing in this package touches storage or holds state;
// every function recomputes its result from the inputs it is given.
package calculator

import (
	"github.com/tablestakes/ledger/internal/models"
	"github.com/tablestakes/ledger/internal/money"
)

// CalculateBalances reduces the full ledger entry set into one net balance
// per participant. The result is order-independent in value; its order is
// the first appearance of each participant in entries, which keeps repeated
// runs over the same entry listing deterministic.
//
// Participants with no entries are absent from the result, not zero.
// Entries whose SourceRef no longer resolves still count: a dangling
// reference is a reversal bug upstream, not something to silently repair.
func CalculateBalances(entries []models.LedgerEntry) []models.ParticipantBalance {
	totals := make(map[string]float64)
	var order []string

	for _, e := range entries {
		if _, seen := totals[e.ParticipantID]; !seen {
			order = append(order, e.ParticipantID)
		}
		// Round at every accumulation step so 2dp inputs cannot drift.
		totals[e.ParticipantID] = money.Sum(totals[e.ParticipantID], e.Amount)
	}

	balances := make([]models.ParticipantBalance, 0, len(order))
	for _, id := range order {
		balances = append(balances, models.ParticipantBalance{
			ParticipantID: id,
			Balance:       totals[id],
		})
	}
	return balances
}
