// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/tablestakes/ledger/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
// Implementations wrap it with the record kind and ID.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for the ledger, settlements,
// games, and participants. This abstraction allows swapping storage
// backends (SQLite, PostgreSQL, etc.) without changing the service layer.
//
// Multi-record write operations are atomic: either every record of the call
// is applied or none is. Timeouts and retries are the caller's concern.
type Store interface {
	// InsertLedgerEntries appends all entries of one logical event in a
	// single atomic call, assigning IDs and timestamps where missing.
	InsertLedgerEntries(ctx context.Context, entries []*models.LedgerEntry) error

	// DeleteLedgerEntriesBySource removes every entry referencing the given
	// source. Used when the originating event is reversed.
	DeleteLedgerEntriesBySource(ctx context.Context, sourceRef string) error

	// ListLedgerEntries returns the full entry set, oldest first.
	ListLedgerEntries(ctx context.Context) ([]models.LedgerEntry, error)

	// GetActiveSettlement returns the active settlement with its items, or
	// (nil, nil) when no settlement is active.
	GetActiveSettlement(ctx context.Context) (*models.Settlement, error)

	// ReplaceActiveSettlement atomically flips any active settlement to
	// replaced and inserts a new active settlement holding the given items.
	ReplaceActiveSettlement(ctx context.Context, items []models.SettlementItem) (*models.Settlement, error)

	// GetSettlementItem retrieves one settlement item by ID.
	GetSettlementItem(ctx context.Context, itemID string) (*models.SettlementItem, error)

	// MarkItemPaid atomically sets the item's paid timestamp and appends the
	// compensating ledger entries.
	MarkItemPaid(ctx context.Context, itemID string, paidAt int64, entries []*models.LedgerEntry) error

	// UnmarkItemPaid atomically clears the item's paid timestamp and deletes
	// the ledger entries whose source is the item.
	UnmarkItemPaid(ctx context.Context, itemID string) error

	// CreateGame persists a new game with its players.
	CreateGame(ctx context.Context, game *models.Game) error

	// GetGame retrieves a game with its players.
	GetGame(ctx context.Context, gameID string) (*models.Game, error)

	// ListGames returns all games with players, oldest first.
	ListGames(ctx context.Context) ([]models.Game, error)

	// FinalizeGame atomically marks the game finalized and appends its
	// ledger entries.
	FinalizeGame(ctx context.Context, gameID string, entries []*models.LedgerEntry) error

	// ReopenGame atomically clears the finalized flag and deletes the
	// game's ledger entries.
	ReopenGame(ctx context.Context, gameID string) error

	// SetGamePlayerPaid toggles one player's per-game settlement flag.
	SetGamePlayerPaid(ctx context.Context, gameID, participantID string, paid bool) error

	// CreateParticipant persists a new participant.
	CreateParticipant(ctx context.Context, p *models.Participant) error

	// ListParticipants returns all participants, oldest first.
	ListParticipants(ctx context.Context) ([]models.Participant, error)

	// Close releases any resources held by the store.
	Close() error
}
