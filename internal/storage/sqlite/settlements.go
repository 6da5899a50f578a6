package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tablestakes/ledger/internal/models"
	"github.com/tablestakes/ledger/internal/storage"
)

// GetActiveSettlement returns the active settlement with its items, or
// (nil, nil) when no settlement is active.
func (s *SQLiteStore) GetActiveSettlement(ctx context.Context) (*models.Settlement, error) {
	settlement := &models.Settlement{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, status, created_at FROM settlements WHERE status = ? ORDER BY created_at DESC LIMIT 1",
		string(models.SettlementActive),
	).Scan(&settlement.ID, (*string)(&settlement.Status), &settlement.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active settlement: %w", err)
	}

	items, err := s.listSettlementItems(ctx, settlement.ID)
	if err != nil {
		return nil, err
	}
	settlement.Items = items
	return settlement, nil
}

// ReplaceActiveSettlement flips any active settlement to replaced and
// inserts a new active settlement holding the given items, in one
// transaction so no observer sees two active settlements.
func (s *SQLiteStore) ReplaceActiveSettlement(ctx context.Context, items []models.SettlementItem) (*models.Settlement, error) {
	settlement := &models.Settlement{
		ID:        uuid.New().String(),
		Status:    models.SettlementActive,
		CreatedAt: time.Now().Unix(),
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"UPDATE settlements SET status = ? WHERE status = ?",
			string(models.SettlementReplaced), string(models.SettlementActive),
		)
		if err != nil {
			return fmt.Errorf("failed to replace prior settlement: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			"INSERT INTO settlements (id, status, created_at) VALUES (?, ?, ?)",
			settlement.ID, string(settlement.Status), settlement.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert settlement: %w", err)
		}

		for i := range items {
			item := &items[i]
			if item.ID == "" {
				item.ID = uuid.New().String()
			}
			item.SettlementID = settlement.ID

			_, err = tx.ExecContext(ctx,
				`INSERT INTO settlement_items (id, settlement_id, from_participant_id, to_participant_id, amount, paid_at)
				 VALUES (?, ?, ?, ?, ?, NULL)`,
				item.ID, item.SettlementID, item.FromParticipantID, item.ToParticipantID, item.Amount,
			)
			if err != nil {
				return fmt.Errorf("failed to insert settlement item: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	settlement.Items = items
	return settlement, nil
}

// GetSettlementItem retrieves one settlement item by ID.
func (s *SQLiteStore) GetSettlementItem(ctx context.Context, itemID string) (*models.SettlementItem, error) {
	item := &models.SettlementItem{}
	var paidAt sql.NullInt64

	err := s.db.QueryRowContext(ctx,
		`SELECT id, settlement_id, from_participant_id, to_participant_id, amount, paid_at
		 FROM settlement_items WHERE id = ?`,
		itemID,
	).Scan(&item.ID, &item.SettlementID, &item.FromParticipantID, &item.ToParticipantID, &item.Amount, &paidAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("settlement item %s: %w", itemID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement item: %w", err)
	}

	if paidAt.Valid {
		item.PaidAt = &paidAt.Int64
	}
	return item, nil
}

// MarkItemPaid sets the item's paid timestamp and appends the compensating
// ledger entries in one transaction.
func (s *SQLiteStore) MarkItemPaid(ctx context.Context, itemID string, paidAt int64, entries []*models.LedgerEntry) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := setItemPaidAt(ctx, tx, itemID, &paidAt); err != nil {
			return err
		}

		now := time.Now().Unix()
		for _, e := range entries {
			if e.ID == "" {
				e.ID = uuid.New().String()
			}
			if e.CreatedAt == 0 {
				e.CreatedAt = now
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO ledger_entries (id, participant_id, amount, entry_type, source_ref, description, created_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				e.ID, e.ParticipantID, e.Amount, string(e.Type), e.SourceRef, e.Description, e.CreatedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to insert compensating entry: %w", err)
			}
		}
		return nil
	})
}

// UnmarkItemPaid clears the item's paid timestamp and deletes the ledger
// entries referencing the item, in one transaction. Entries are identified
// by source reference, not recomputed from the amount.
func (s *SQLiteStore) UnmarkItemPaid(ctx context.Context, itemID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := setItemPaidAt(ctx, tx, itemID, nil); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx,
			"DELETE FROM ledger_entries WHERE source_ref = ?", itemID,
		)
		if err != nil {
			return fmt.Errorf("failed to delete compensating entries: %w", err)
		}
		return nil
	})
}

// setItemPaidAt updates the paid timestamp within a transaction.
func setItemPaidAt(ctx context.Context, tx *sql.Tx, itemID string, paidAt *int64) error {
	var value interface{}
	if paidAt != nil {
		value = *paidAt
	}

	res, err := tx.ExecContext(ctx,
		"UPDATE settlement_items SET paid_at = ? WHERE id = ?", value, itemID,
	)
	if err != nil {
		return fmt.Errorf("failed to update settlement item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check settlement item update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("settlement item %s: %w", itemID, storage.ErrNotFound)
	}
	return nil
}

// listSettlementItems loads the items of one settlement in insertion order.
func (s *SQLiteStore) listSettlementItems(ctx context.Context, settlementID string) ([]models.SettlementItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, settlement_id, from_participant_id, to_participant_id, amount, paid_at
		 FROM settlement_items WHERE settlement_id = ? ORDER BY rowid`,
		settlementID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlement items: %w", err)
	}
	defer rows.Close()

	var items []models.SettlementItem
	for rows.Next() {
		var item models.SettlementItem
		var paidAt sql.NullInt64

		if err := rows.Scan(&item.ID, &item.SettlementID, &item.FromParticipantID, &item.ToParticipantID, &item.Amount, &paidAt); err != nil {
			return nil, fmt.Errorf("failed to scan settlement item: %w", err)
		}
		if paidAt.Valid {
			item.PaidAt = &paidAt.Int64
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlement items: %w", err)
	}
	return items, nil
}
