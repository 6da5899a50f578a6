package models

// Transaction is the aggregated payment owed between one pair of
// participants across all finalized games. It is never persisted: it is
// recomputed from live game data on every call.
type Transaction struct {
	FromParticipantID string `json:"from_participant_id"`
	FromName          string `json:"from_name,omitempty"`
	ToParticipantID   string `json:"to_participant_id"`
	ToName            string `json:"to_name,omitempty"`

	// TotalAmount is the rounded sum of all detail amounts.
	TotalAmount float64 `json:"total_amount"`

	// Details break the total down by game.
	Details []TransactionDetail `json:"details"`
}

// TransactionDetail is the portion of a pair's debt arising from one game.
type TransactionDetail struct {
	GameID   string  `json:"game_id"`
	GameName string  `json:"game_name"`
	PlayedAt int64   `json:"played_at"`
	Amount   float64 `json:"amount"`

	// Paid mirrors the debtor's per-game settlement flag. A flag from one
	// game never applies to another game's detail between the same pair.
	Paid bool `json:"paid"`
}
