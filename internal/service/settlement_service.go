package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/tablestakes/ledger/internal/calculator"
	"github.com/tablestakes/ledger/internal/metrics"
	"github.com/tablestakes/ledger/internal/models"
	"github.com/tablestakes/ledger/internal/money"
	"github.com/tablestakes/ledger/internal/storage"
)

// SettlementService manages the settlement lifecycle: generating a new
// active settlement from current balances, and toggling items between paid
// and pending with their compensating ledger entries.
//
// Concurrent Generate calls are not coordinated against each other: the
// last writer wins and a subsequent read reveals the final state.
type SettlementService struct {
	store storage.Store
}

// NewSettlementService creates a new SettlementService with the given
// storage backend.
func NewSettlementService(store storage.Store) *SettlementService {
	return &SettlementService{store: store}
}

// Active returns the active settlement with its items, or nil when no
// settlement has been generated yet.
func (s *SettlementService) Active(ctx context.Context) (*models.Settlement, error) {
	return s.store.GetActiveSettlement(ctx)
}

// Generate recomputes balances from the full ledger, nets them into a
// minimal transfer set, and persists the result as the new active
// settlement, replacing any prior one. With no outstanding balances the new
// settlement simply has zero items.
func (s *SettlementService) Generate(ctx context.Context) (*models.Settlement, error) {
	entries, err := s.store.ListLedgerEntries(ctx)
	if err != nil {
		return nil, err
	}

	balances := calculator.CalculateBalances(entries)

	// Upstream producers guarantee each batch nets to zero, so the whole
	// ledger should too. If it doesn't, the matcher leaves the residual
	// unmatched rather than inventing a transfer; surface it loudly.
	var residual float64
	for _, b := range balances {
		residual = money.Sum(residual, b.Balance)
	}
	if math.Abs(residual) > money.Epsilon {
		metrics.UnbalancedLedgerWarnings.Inc()
		slog.Warn("ledger does not net to zero, settlement will be incomplete", "residual", residual)
	}

	transfers := calculator.MatchDebts(balances)

	items := make([]models.SettlementItem, len(transfers))
	for i, tr := range transfers {
		items[i] = models.SettlementItem{
			FromParticipantID: tr.FromParticipantID,
			ToParticipantID:   tr.ToParticipantID,
			Amount:            tr.Amount,
		}
	}

	settlement, err := s.store.ReplaceActiveSettlement(ctx, items)
	if err != nil {
		return nil, err
	}
	metrics.SettlementsGenerated.Inc()
	slog.Info("settlement generated",
		"settlement_id", settlement.ID,
		"items", len(settlement.Items),
		"participants", len(balances),
	)
	return settlement, nil
}

// MarkPaid marks a pending item paid. It stamps the item and appends the
// two compensating ledger entries: the payer's balance rises by the amount,
// the receiver's falls. Marking an already-paid item is rejected with
// ErrAlreadyPaid, not silently repeated.
func (s *SettlementService) MarkPaid(ctx context.Context, itemID string) (*models.SettlementItem, error) {
	item, err := s.store.GetSettlementItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.Paid() {
		return nil, fmt.Errorf("settlement item %s: %w", itemID, ErrAlreadyPaid)
	}

	paidAt := time.Now().Unix()
	payerEntry := models.NewSettlementEntry(item.FromParticipantID, item.ID, item.Amount, "Settlement payment sent")
	receiverEntry := models.NewSettlementEntry(item.ToParticipantID, item.ID, -item.Amount, "Settlement payment received")

	if err := s.store.MarkItemPaid(ctx, item.ID, paidAt, []*models.LedgerEntry{&payerEntry, &receiverEntry}); err != nil {
		return nil, err
	}
	metrics.ItemPaidToggles.WithLabelValues("paid").Inc()
	metrics.EntriesInserted.WithLabelValues(string(models.EntrySettlement)).Add(2)
	slog.Info("settlement item paid",
		"item_id", item.ID,
		"from", item.FromParticipantID,
		"to", item.ToParticipantID,
		"amount", item.Amount,
	)

	item.PaidAt = &paidAt
	return item, nil
}

// UnmarkPaid reverts a paid item to pending, deleting exactly the two
// compensating entries that reference it. Unmarking a pending item is
// rejected with ErrNotPaid.
func (s *SettlementService) UnmarkPaid(ctx context.Context, itemID string) (*models.SettlementItem, error) {
	item, err := s.store.GetSettlementItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !item.Paid() {
		return nil, fmt.Errorf("settlement item %s: %w", itemID, ErrNotPaid)
	}

	if err := s.store.UnmarkItemPaid(ctx, item.ID); err != nil {
		return nil, err
	}
	metrics.ItemPaidToggles.WithLabelValues("unpaid").Inc()
	slog.Info("settlement item reverted to pending", "item_id", item.ID)

	item.PaidAt = nil
	return item, nil
}
