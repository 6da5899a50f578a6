package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablestakes/ledger/internal/models"
	"github.com/tablestakes/ledger/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := New(dbPath)
	require.NoError(t, err, "failed to create store")
	t.Cleanup(func() { store.Close() })
	return store
}

func TestLedgerEntries(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("insert assigns IDs and timestamps", func(t *testing.T) {
		entries := []*models.LedgerEntry{
			{ParticipantID: "alice", Amount: 40.00, Type: models.EntryExpense, SourceRef: "exp1"},
			{ParticipantID: "alice", Amount: -13.34, Type: models.EntryExpense, SourceRef: "exp1"},
			{ParticipantID: "bob", Amount: -13.33, Type: models.EntryExpense, SourceRef: "exp1"},
			{ParticipantID: "carol", Amount: -13.33, Type: models.EntryExpense, SourceRef: "exp1"},
		}
		require.NoError(t, store.InsertLedgerEntries(ctx, entries))

		for _, e := range entries {
			assert.NotEmpty(t, e.ID)
			assert.NotZero(t, e.CreatedAt)
		}

		listed, err := store.ListLedgerEntries(ctx)
		require.NoError(t, err)
		assert.Len(t, listed, 4)
	})

	t.Run("delete by source removes only matching entries", func(t *testing.T) {
		other := []*models.LedgerEntry{
			{ParticipantID: "alice", Amount: 5.00, Type: models.EntryExpense, SourceRef: "exp2"},
			{ParticipantID: "bob", Amount: -5.00, Type: models.EntryExpense, SourceRef: "exp2"},
		}
		require.NoError(t, store.InsertLedgerEntries(ctx, other))

		require.NoError(t, store.DeleteLedgerEntriesBySource(ctx, "exp1"))

		listed, err := store.ListLedgerEntries(ctx)
		require.NoError(t, err)
		require.Len(t, listed, 2)
		for _, e := range listed {
			assert.Equal(t, "exp2", e.SourceRef)
		}
	})

	t.Run("delete of unknown source is a no-op", func(t *testing.T) {
		require.NoError(t, store.DeleteLedgerEntriesBySource(ctx, "no-such-source"))
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		require.NoError(t, store.InsertLedgerEntries(ctx, nil))
	})
}

func TestSettlementLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("no active settlement initially", func(t *testing.T) {
		settlement, err := store.GetActiveSettlement(ctx)
		require.NoError(t, err)
		assert.Nil(t, settlement)
	})

	t.Run("replace inserts active settlement with items", func(t *testing.T) {
		items := []models.SettlementItem{
			{FromParticipantID: "alice", ToParticipantID: "carol", Amount: 30},
			{FromParticipantID: "bob", ToParticipantID: "carol", Amount: 10},
		}
		settlement, err := store.ReplaceActiveSettlement(ctx, items)
		require.NoError(t, err)
		assert.Equal(t, models.SettlementActive, settlement.Status)
		require.Len(t, settlement.Items, 2)

		active, err := store.GetActiveSettlement(ctx)
		require.NoError(t, err)
		require.NotNil(t, active)
		assert.Equal(t, settlement.ID, active.ID)
		for _, item := range active.Items {
			assert.Nil(t, item.PaidAt)
			assert.Equal(t, settlement.ID, item.SettlementID)
		}
	})

	t.Run("regenerating flips prior settlement to replaced", func(t *testing.T) {
		before, err := store.GetActiveSettlement(ctx)
		require.NoError(t, err)
		require.NotNil(t, before)

		after, err := store.ReplaceActiveSettlement(ctx, nil)
		require.NoError(t, err)
		assert.NotEqual(t, before.ID, after.ID)
		assert.Empty(t, after.Items)

		// Exactly one active: the new one.
		active, err := store.GetActiveSettlement(ctx)
		require.NoError(t, err)
		require.NotNil(t, active)
		assert.Equal(t, after.ID, active.ID)

		var count int
		err = store.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM settlements WHERE status = 'active'",
		).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("mark and unmark paid restore the entry set", func(t *testing.T) {
		settlement, err := store.ReplaceActiveSettlement(ctx, []models.SettlementItem{
			{FromParticipantID: "alice", ToParticipantID: "bob", Amount: 20},
		})
		require.NoError(t, err)
		item := settlement.Items[0]

		before, err := store.ListLedgerEntries(ctx)
		require.NoError(t, err)

		paidAt := time.Now().Unix()
		entries := []*models.LedgerEntry{
			{ParticipantID: "alice", Amount: 20, Type: models.EntrySettlement, SourceRef: item.ID},
			{ParticipantID: "bob", Amount: -20, Type: models.EntrySettlement, SourceRef: item.ID},
		}
		require.NoError(t, store.MarkItemPaid(ctx, item.ID, paidAt, entries))

		marked, err := store.GetSettlementItem(ctx, item.ID)
		require.NoError(t, err)
		require.NotNil(t, marked.PaidAt)
		assert.Equal(t, paidAt, *marked.PaidAt)

		after, err := store.ListLedgerEntries(ctx)
		require.NoError(t, err)
		assert.Len(t, after, len(before)+2)

		require.NoError(t, store.UnmarkItemPaid(ctx, item.ID))

		unmarked, err := store.GetSettlementItem(ctx, item.ID)
		require.NoError(t, err)
		assert.Nil(t, unmarked.PaidAt)

		restored, err := store.ListLedgerEntries(ctx)
		require.NoError(t, err)
		assert.Equal(t, before, restored)
	})

	t.Run("operations on unknown item return not found", func(t *testing.T) {
		_, err := store.GetSettlementItem(ctx, "missing")
		assert.ErrorIs(t, err, storage.ErrNotFound)

		err = store.MarkItemPaid(ctx, "missing", time.Now().Unix(), nil)
		assert.ErrorIs(t, err, storage.ErrNotFound)

		err = store.UnmarkItemPaid(ctx, "missing")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestGames(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	game := &models.Game{
		Name: "Friday cash game",
		Players: []models.GamePlayer{
			{ParticipantID: "alice", Name: "Alice", BuyIn: 50, CashOut: 40},
			{ParticipantID: "bob", Name: "Bob", BuyIn: 50, CashOut: 60},
		},
	}

	t.Run("create and get", func(t *testing.T) {
		require.NoError(t, store.CreateGame(ctx, game))
		assert.NotEmpty(t, game.ID)
		assert.NotZero(t, game.PlayedAt)

		loaded, err := store.GetGame(ctx, game.ID)
		require.NoError(t, err)
		assert.False(t, loaded.Finalized)
		require.Len(t, loaded.Players, 2)
		assert.Equal(t, game.ID, loaded.Players[0].GameID)
	})

	t.Run("finalize posts entries and sets the flag", func(t *testing.T) {
		entries := []*models.LedgerEntry{
			{ParticipantID: "alice", Amount: -50, Type: models.EntryGameDebit, SourceRef: game.ID},
			{ParticipantID: "alice", Amount: 40, Type: models.EntryGameCredit, SourceRef: game.ID},
			{ParticipantID: "bob", Amount: -50, Type: models.EntryGameDebit, SourceRef: game.ID},
			{ParticipantID: "bob", Amount: 60, Type: models.EntryGameCredit, SourceRef: game.ID},
		}
		require.NoError(t, store.FinalizeGame(ctx, game.ID, entries))

		loaded, err := store.GetGame(ctx, game.ID)
		require.NoError(t, err)
		assert.True(t, loaded.Finalized)

		listed, err := store.ListLedgerEntries(ctx)
		require.NoError(t, err)
		assert.Len(t, listed, 4)
	})

	t.Run("reopen deletes the game's entries", func(t *testing.T) {
		require.NoError(t, store.ReopenGame(ctx, game.ID))

		loaded, err := store.GetGame(ctx, game.ID)
		require.NoError(t, err)
		assert.False(t, loaded.Finalized)

		listed, err := store.ListLedgerEntries(ctx)
		require.NoError(t, err)
		assert.Empty(t, listed)
	})

	t.Run("set player paid flag", func(t *testing.T) {
		require.NoError(t, store.SetGamePlayerPaid(ctx, game.ID, "alice", true))

		loaded, err := store.GetGame(ctx, game.ID)
		require.NoError(t, err)
		assert.True(t, loaded.Players[0].SettlementPaid)
		assert.False(t, loaded.Players[1].SettlementPaid)
	})

	t.Run("unknown game returns not found", func(t *testing.T) {
		_, err := store.GetGame(ctx, "missing")
		assert.ErrorIs(t, err, storage.ErrNotFound)

		assert.ErrorIs(t, store.FinalizeGame(ctx, "missing", nil), storage.ErrNotFound)
		assert.ErrorIs(t, store.ReopenGame(ctx, "missing"), storage.ErrNotFound)
		assert.ErrorIs(t, store.SetGamePlayerPaid(ctx, "missing", "alice", true), storage.ErrNotFound)
	})
}

func TestParticipants(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	p := &models.Participant{Name: "Alice"}
	require.NoError(t, store.CreateParticipant(ctx, p))
	assert.NotEmpty(t, p.ID)

	require.NoError(t, store.CreateParticipant(ctx, &models.Participant{Name: "Bob"}))

	participants, err := store.ListParticipants(ctx)
	require.NoError(t, err)
	require.Len(t, participants, 2)
	assert.Equal(t, "Alice", participants[0].Name)
}
