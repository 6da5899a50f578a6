package calculator

import (
	"sort"

	"github.com/tablestakes/ledger/internal/models"
	"github.com/tablestakes/ledger/internal/money"
)

// Transfer is one proposed peer-to-peer payment: From owes To.
type Transfer struct {
	FromParticipantID string
	FromName          string
	ToParticipantID   string
	ToName            string
	Amount            float64
}

// workingBalance threads a participant's remaining unmatched amount through
// the matching loop without mutating the caller's balances.
type workingBalance struct {
	participantID string
	name          string
	remaining     float64 // always positive
}

// MatchDebts converts a set of net balances into a minimal transfer list
// using deterministic greedy two-pointer matching:
//
//  1. Partition into debtors (balance < -epsilon) and creditors
//     (balance > epsilon); near-zero balances are ignored.
//  2. Sort both sides descending by magnitude. Ties keep input order, so
//     re-running over the same balances yields the same transfers.
//  3. Walk both lists, emitting min(remaining debt, remaining credit) each
//     step and advancing whichever side drops below epsilon.
//
// When the input sums to ~0 the residual on both sides ends ~0 and at most
// len(debtors)+len(creditors)-1 transfers are emitted. A non-zero-sum input
// is not an error here: the walk simply exhausts one side and leaves the
// residual unmatched. Callers own the zero-sum precondition.
func MatchDebts(balances []models.ParticipantBalance) []Transfer {
	var debtors, creditors []workingBalance
	for _, b := range balances {
		switch {
		case b.Balance < -money.Epsilon:
			debtors = append(debtors, workingBalance{b.ParticipantID, b.Name, -b.Balance})
		case b.Balance > money.Epsilon:
			creditors = append(creditors, workingBalance{b.ParticipantID, b.Name, b.Balance})
		}
	}

	sort.SliceStable(debtors, func(i, j int) bool {
		return debtors[i].remaining > debtors[j].remaining
	})
	sort.SliceStable(creditors, func(i, j int) bool {
		return creditors[i].remaining > creditors[j].remaining
	})

	var transfers []Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := debtors[i].remaining
		if creditors[j].remaining < amount {
			amount = creditors[j].remaining
		}

		if amount > money.Epsilon {
			transfers = append(transfers, Transfer{
				FromParticipantID: debtors[i].participantID,
				FromName:          debtors[i].name,
				ToParticipantID:   creditors[j].participantID,
				ToName:            creditors[j].name,
				Amount:            money.Round2(amount),
			})
		}

		debtors[i].remaining = money.Sum(debtors[i].remaining, -amount)
		creditors[j].remaining = money.Sum(creditors[j].remaining, -amount)

		if debtors[i].remaining < money.Epsilon {
			i++
		}
		if creditors[j].remaining < money.Epsilon {
			j++
		}
	}

	return transfers
}
