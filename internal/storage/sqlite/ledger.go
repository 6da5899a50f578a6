package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tablestakes/ledger/internal/models"
)

// InsertLedgerEntries appends all entries of one logical event in a single
// transaction. IDs and timestamps are assigned where missing.
func (s *SQLiteStore) InsertLedgerEntries(ctx context.Context, entries []*models.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		now := time.Now().Unix()
		for _, e := range entries {
			if e.ID == "" {
				e.ID = uuid.New().String()
			}
			if e.CreatedAt == 0 {
				e.CreatedAt = now
			}

			var sourceRef interface{}
			if e.SourceRef != "" {
				sourceRef = e.SourceRef
			}

			_, err := tx.ExecContext(ctx,
				`INSERT INTO ledger_entries (id, participant_id, amount, entry_type, source_ref, description, created_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				e.ID, e.ParticipantID, e.Amount, string(e.Type), sourceRef, e.Description, e.CreatedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to insert ledger entry: %w", err)
			}
		}
		return nil
	})
}

// DeleteLedgerEntriesBySource removes every entry referencing sourceRef.
// Deleting zero entries is not an error.
func (s *SQLiteStore) DeleteLedgerEntriesBySource(ctx context.Context, sourceRef string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM ledger_entries WHERE source_ref = ?", sourceRef,
	)
	if err != nil {
		return fmt.Errorf("failed to delete ledger entries by source: %w", err)
	}
	return nil
}

// ListLedgerEntries returns the full entry set, oldest first.
func (s *SQLiteStore) ListLedgerEntries(ctx context.Context) ([]models.LedgerEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, participant_id, amount, entry_type, source_ref, description, created_at
		 FROM ledger_entries ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []models.LedgerEntry
	for rows.Next() {
		var e models.LedgerEntry
		var typ string
		var sourceRef sql.NullString

		if err := rows.Scan(&e.ID, &e.ParticipantID, &e.Amount, &typ, &sourceRef, &e.Description, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		e.Type = models.EntryType(typ)
		if sourceRef.Valid {
			e.SourceRef = sourceRef.String
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger entries: %w", err)
	}
	return entries, nil
}
