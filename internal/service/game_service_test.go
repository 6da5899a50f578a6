package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablestakes/ledger/internal/models"
)

func TestFinalizeGamePostsEntries(t *testing.T) {
	ledger, _, games, _ := newTestServices(t)
	ctx := context.Background()

	game, err := games.CreateGame(ctx, "Friday", 0, []models.GamePlayer{
		{ParticipantID: "alice", Name: "Alice", BuyIn: 50, CashOut: 20},
		{ParticipantID: "bob", Name: "Bob", BuyIn: 50, CashOut: 80},
	})
	require.NoError(t, err)

	finalized, err := games.FinalizeGame(ctx, game.ID)
	require.NoError(t, err)
	assert.True(t, finalized.Finalized)

	entries, err := ledger.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 4, "one debit and one credit per player")

	var sum float64
	for _, e := range entries {
		assert.Equal(t, game.ID, e.SourceRef)
		sum += e.Amount
	}
	assert.InDelta(t, 0, sum, 1e-9)

	balances, err := ledger.Balances(ctx)
	require.NoError(t, err)
	assert.InDelta(t, -30, balanceOf(t, balances, "alice"), 1e-9)
	assert.InDelta(t, 30, balanceOf(t, balances, "bob"), 1e-9)
}

func TestFinalizeGameRejections(t *testing.T) {
	_, _, games, _ := newTestServices(t)
	ctx := context.Background()

	t.Run("double finalize", func(t *testing.T) {
		game, err := games.CreateGame(ctx, "g", 0, []models.GamePlayer{
			{ParticipantID: "alice", BuyIn: 10, CashOut: 0},
			{ParticipantID: "bob", BuyIn: 10, CashOut: 20},
		})
		require.NoError(t, err)

		_, err = games.FinalizeGame(ctx, game.ID)
		require.NoError(t, err)

		_, err = games.FinalizeGame(ctx, game.ID)
		assert.ErrorIs(t, err, ErrGameFinalized)
	})

	t.Run("unbalanced table", func(t *testing.T) {
		game, err := games.CreateGame(ctx, "g2", 0, []models.GamePlayer{
			{ParticipantID: "alice", BuyIn: 10, CashOut: 0},
			{ParticipantID: "bob", BuyIn: 10, CashOut: 25},
		})
		require.NoError(t, err)

		_, err = games.FinalizeGame(ctx, game.ID)
		assert.ErrorIs(t, err, ErrUnbalancedGame)
	})
}

func TestReopenGameRemovesEntries(t *testing.T) {
	ledger, _, games, _ := newTestServices(t)
	ctx := context.Background()

	game, err := games.CreateGame(ctx, "Friday", 0, []models.GamePlayer{
		{ParticipantID: "alice", BuyIn: 10, CashOut: 0},
		{ParticipantID: "bob", BuyIn: 10, CashOut: 20},
	})
	require.NoError(t, err)

	_, err = games.ReopenGame(ctx, game.ID)
	assert.ErrorIs(t, err, ErrGameNotFinalized)

	_, err = games.FinalizeGame(ctx, game.ID)
	require.NoError(t, err)

	reopened, err := games.ReopenGame(ctx, game.ID)
	require.NoError(t, err)
	assert.False(t, reopened.Finalized)

	entries, err := ledger.Entries(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCreateGameValidation(t *testing.T) {
	_, _, games, _ := newTestServices(t)
	ctx := context.Background()

	_, err := games.CreateGame(ctx, "", 0, []models.GamePlayer{
		{ParticipantID: "a"}, {ParticipantID: "b"},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = games.CreateGame(ctx, "g", 0, []models.GamePlayer{{ParticipantID: "a"}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = games.CreateGame(ctx, "g", 0, []models.GamePlayer{
		{ParticipantID: "a", BuyIn: -5}, {ParticipantID: "b"},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestTransactionsAcrossGames(t *testing.T) {
	_, _, games, _ := newTestServices(t)
	ctx := context.Background()

	g1, err := games.CreateGame(ctx, "Game 1", 100, []models.GamePlayer{
		{ParticipantID: "alice", Name: "Alice", BuyIn: 20, CashOut: 10},
		{ParticipantID: "bob", Name: "Bob", BuyIn: 20, CashOut: 30},
	})
	require.NoError(t, err)
	_, err = games.FinalizeGame(ctx, g1.ID)
	require.NoError(t, err)
	require.NoError(t, games.SetPlayerPaid(ctx, g1.ID, "alice", true))

	g2, err := games.CreateGame(ctx, "Game 2", 200, []models.GamePlayer{
		{ParticipantID: "alice", Name: "Alice", BuyIn: 10, CashOut: 5},
		{ParticipantID: "bob", Name: "Bob", BuyIn: 10, CashOut: 15},
	})
	require.NoError(t, err)
	_, err = games.FinalizeGame(ctx, g2.ID)
	require.NoError(t, err)

	transactions, err := games.Transactions(ctx)
	require.NoError(t, err)
	require.Len(t, transactions, 1)

	txn := transactions[0]
	assert.Equal(t, "alice", txn.FromParticipantID)
	assert.Equal(t, "bob", txn.ToParticipantID)
	assert.InDelta(t, 15, txn.TotalAmount, 1e-9)
	require.Len(t, txn.Details, 2)
	assert.True(t, txn.Details[0].Paid, "game 1 squared up")
	assert.False(t, txn.Details[1].Paid, "game 2 still pending")
}
