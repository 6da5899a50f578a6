package models

// EntryType discriminates the kind of event that produced a ledger entry.
// Each kind carries a different referent in SourceRef: game entries point at
// a game, expense entries at an expense batch, settlement entries at a
// settlement item.
type EntryType string

const (
	// EntryGameCredit is a player's cash-out from a finalized game (positive).
	EntryGameCredit EntryType = "game_credit"

	// EntryGameDebit is a player's total contribution to a finalized game (negative).
	EntryGameDebit EntryType = "game_debit"

	// EntryExpense is one leg of a shared-expense split: the payer's credit
	// or a participant's debit.
	EntryExpense EntryType = "expense"

	// EntrySettlement is one of the two compensating entries appended when a
	// settlement item is marked paid.
	EntrySettlement EntryType = "settlement"
)

// LedgerEntry is one signed monetary record attributed to a participant and
// an originating event. Entries are append-only; they are never updated, only
// deleted when their source event is reversed.
//
// Amounts are fixed-point with two fractional digits. All entries produced by
// one logical event must sum to zero across participants.
type LedgerEntry struct {
	// ID is the unique identifier for the entry (UUID format).
	ID string `json:"id"`

	// ParticipantID is the participant this entry is attributed to.
	ParticipantID string `json:"participant_id"`

	// Amount is the signed amount in currency units, rounded to two decimals.
	Amount float64 `json:"amount"`

	// Type discriminates the originating event kind.
	Type EntryType `json:"type"`

	// SourceRef references the originating game, expense, or settlement item.
	// Empty when the source is unknown.
	SourceRef string `json:"source_ref,omitempty"`

	// Description is a human-readable note, e.g. the expense title.
	Description string `json:"description"`

	// CreatedAt is the Unix timestamp when the entry was recorded.
	CreatedAt int64 `json:"created_at"`
}

// NewGameCredit builds the cash-out entry for one player of a finalized game.
func NewGameCredit(participantID, gameID string, amount float64, description string) LedgerEntry {
	return LedgerEntry{
		ParticipantID: participantID,
		Amount:        amount,
		Type:          EntryGameCredit,
		SourceRef:     gameID,
		Description:   description,
	}
}

// NewGameDebit builds the contribution entry for one player of a finalized
// game. amount is the positive buy-in total; the entry is recorded negative.
func NewGameDebit(participantID, gameID string, amount float64, description string) LedgerEntry {
	return LedgerEntry{
		ParticipantID: participantID,
		Amount:        -amount,
		Type:          EntryGameDebit,
		SourceRef:     gameID,
		Description:   description,
	}
}

// NewExpenseEntry builds one leg of a shared-expense split. The payer's leg
// is positive (they fronted the money), each participant's leg is negative.
func NewExpenseEntry(participantID, expenseID string, amount float64, description string) LedgerEntry {
	return LedgerEntry{
		ParticipantID: participantID,
		Amount:        amount,
		Type:          EntryExpense,
		SourceRef:     expenseID,
		Description:   description,
	}
}

// NewSettlementEntry builds one of the two compensating entries for a paid
// settlement item. The payer's leg is positive, the receiver's negative.
func NewSettlementEntry(participantID, itemID string, amount float64, description string) LedgerEntry {
	return LedgerEntry{
		ParticipantID: participantID,
		Amount:        amount,
		Type:          EntrySettlement,
		SourceRef:     itemID,
		Description:   description,
	}
}

// ParticipantBalance is the derived net position of one participant.
// Positive means they are owed money, negative means they owe.
// Balances are never persisted; they are recomputed from the full entry set.
type ParticipantBalance struct {
	ParticipantID string  `json:"participant_id"`
	Name          string  `json:"name,omitempty"`
	Balance       float64 `json:"balance"`
}
