package models

// Game is one game night session. Games start open, accumulate players with
// buy-ins and cash-outs, and are finalized once the money is counted.
// Finalizing a game writes its credit/debit entries to the ledger.
type Game struct {
	// ID is the unique identifier for the game (UUID format).
	ID string `json:"id"`

	// Name is a human-readable label, e.g. "Friday cash game".
	Name string `json:"name"`

	// PlayedAt is the Unix timestamp of the session.
	PlayedAt int64 `json:"played_at"`

	// Finalized is true once results are locked in and posted to the ledger.
	Finalized bool `json:"finalized"`

	// Players are the per-player results for this game.
	Players []GamePlayer `json:"players"`
}

// GamePlayer is one participant's result within a single game.
type GamePlayer struct {
	// GameID is the game this result belongs to.
	GameID string `json:"game_id"`

	// ParticipantID identifies the player.
	ParticipantID string `json:"participant_id"`

	// Name is the player's display name, denormalized for read paths.
	Name string `json:"name"`

	// BuyIn is the total amount the player put into the game.
	BuyIn float64 `json:"buy_in"`

	// CashOut is the amount the player left the table with.
	CashOut float64 `json:"cash_out"`

	// SettlementPaid marks whether this player has squared up for this game.
	// Tracked per game, not per cross-game relationship.
	SettlementPaid bool `json:"settlement_paid"`
}

// Net is the player's result for the game: cash-out minus contribution.
func (p GamePlayer) Net() float64 { return p.CashOut - p.BuyIn }

// Participant is a registered member of the group.
type Participant struct {
	// ID is the unique identifier for the participant (UUID format).
	ID string `json:"id"`

	// Name is the display name.
	Name string `json:"name"`

	// CreatedAt is the Unix timestamp when the participant was added.
	CreatedAt int64 `json:"created_at"`
}
