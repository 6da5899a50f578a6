package models

// SettlementStatus is the lifecycle state of a settlement record.
type SettlementStatus string

const (
	// SettlementActive is the single currently-valid settlement.
	SettlementActive SettlementStatus = "active"

	// SettlementReplaced is terminal: a newer settlement superseded this one.
	SettlementReplaced SettlementStatus = "replaced"
)

// Settlement is a persisted snapshot of the transfers needed to zero out all
// outstanding balances at generation time. At most one settlement is active;
// generating a new one flips the previous active settlement to replaced.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string `json:"id"`

	// Status is active or replaced.
	Status SettlementStatus `json:"status"`

	// CreatedAt is the Unix timestamp when the settlement was generated.
	CreatedAt int64 `json:"created_at"`

	// Items are the proposed transfers. Loaded with the settlement.
	Items []SettlementItem `json:"items"`
}

// SettlementItem is one proposed peer-to-peer transfer within a settlement.
// Amount and parties never change after creation; only PaidAt toggles.
type SettlementItem struct {
	// ID is the unique identifier for the item (UUID format).
	ID string `json:"id"`

	// SettlementID is the settlement this item belongs to.
	SettlementID string `json:"settlement_id"`

	// FromParticipantID is the debtor who should pay.
	FromParticipantID string `json:"from_participant_id"`

	// ToParticipantID is the creditor who should receive.
	ToParticipantID string `json:"to_participant_id"`

	// Amount is the positive transfer amount.
	Amount float64 `json:"amount"`

	// PaidAt is the Unix timestamp when the item was marked paid,
	// nil while the item is pending.
	PaidAt *int64 `json:"paid_at,omitempty"`
}

// Paid reports whether the item has been marked paid.
func (i *SettlementItem) Paid() bool { return i.PaidAt != nil }
