package calculator

import (
	"sort"

	"github.com/tablestakes/ledger/internal/models"
	"github.com/tablestakes/ledger/internal/money"
)

// AggregateGameTransactions nets each finalized game independently and then
// merges the per-game transfers by (from, to) pair into one Transaction per
// pair, sorted descending by total amount.
//
// Netting runs per game before cross-game aggregation because the paid flag
// lives on the game player, not on the cross-game relationship: netting raw
// totals first would let one game's paid flag misrepresent debt from a
// different game between the same pair.
func AggregateGameTransactions(games []models.Game) []models.Transaction {
	byPair := make(map[string]*models.Transaction)
	var order []string

	for _, game := range games {
		if !game.Finalized {
			continue
		}

		balances := make([]models.ParticipantBalance, 0, len(game.Players))
		paid := make(map[string]bool, len(game.Players))
		for _, p := range game.Players {
			balances = append(balances, models.ParticipantBalance{
				ParticipantID: p.ParticipantID,
				Name:          p.Name,
				Balance:       money.Round2(p.Net()),
			})
			paid[p.ParticipantID] = p.SettlementPaid
		}

		for _, transfer := range MatchDebts(balances) {
			key := transfer.FromParticipantID + "\x00" + transfer.ToParticipantID
			txn, ok := byPair[key]
			if !ok {
				txn = &models.Transaction{
					FromParticipantID: transfer.FromParticipantID,
					FromName:          transfer.FromName,
					ToParticipantID:   transfer.ToParticipantID,
					ToName:            transfer.ToName,
				}
				byPair[key] = txn
				order = append(order, key)
			}
			txn.Details = append(txn.Details, models.TransactionDetail{
				GameID:   game.ID,
				GameName: game.Name,
				PlayedAt: game.PlayedAt,
				Amount:   transfer.Amount,
				// The debtor squares up per game, so the flag is theirs.
				Paid: paid[transfer.FromParticipantID],
			})
			txn.TotalAmount = money.Sum(txn.TotalAmount, transfer.Amount)
		}
	}

	transactions := make([]models.Transaction, 0, len(order))
	for _, key := range order {
		transactions = append(transactions, *byPair[key])
	}
	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].TotalAmount > transactions[j].TotalAmount
	})
	return transactions
}
