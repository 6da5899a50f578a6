package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/tablestakes/ledger/internal/calculator"
	"github.com/tablestakes/ledger/internal/metrics"
	"github.com/tablestakes/ledger/internal/models"
	"github.com/tablestakes/ledger/internal/money"
	"github.com/tablestakes/ledger/internal/storage"
)

// GameService manages game sessions: creation, finalization into the
// ledger, reversal, and the per-game payment aggregation.
type GameService struct {
	store storage.Store
}

// NewGameService creates a new GameService with the given storage backend.
func NewGameService(store storage.Store) *GameService {
	return &GameService{store: store}
}

// CreateGame persists a new open game with its players.
func (s *GameService) CreateGame(ctx context.Context, name string, playedAt int64, players []models.GamePlayer) (*models.Game, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: game name required", ErrInvalidInput)
	}
	if len(players) < 2 {
		return nil, fmt.Errorf("%w: a game needs at least two players", ErrInvalidInput)
	}
	for i := range players {
		p := &players[i]
		if p.ParticipantID == "" {
			return nil, fmt.Errorf("%w: player participant id required", ErrInvalidInput)
		}
		if p.BuyIn < 0 || p.CashOut < 0 {
			return nil, fmt.Errorf("%w: buy-in and cash-out cannot be negative", ErrInvalidInput)
		}
		p.BuyIn = money.Round2(p.BuyIn)
		p.CashOut = money.Round2(p.CashOut)
	}

	game := &models.Game{Name: name, PlayedAt: playedAt, Players: players}
	if err := s.store.CreateGame(ctx, game); err != nil {
		return nil, err
	}
	slog.Info("game created", "game_id", game.ID, "name", game.Name, "players", len(players))
	return game, nil
}

// Game retrieves one game with its players.
func (s *GameService) Game(ctx context.Context, gameID string) (*models.Game, error) {
	return s.store.GetGame(ctx, gameID)
}

// Games returns all games, oldest first.
func (s *GameService) Games(ctx context.Context) ([]models.Game, error) {
	return s.store.ListGames(ctx)
}

// FinalizeGame locks a game's results in and posts them to the ledger: per
// player one debit for the total contributed and one credit for the
// cash-out, both referencing the game. The batch must net to zero, i.e.
// the table's cash-outs must account for every buy-in.
func (s *GameService) FinalizeGame(ctx context.Context, gameID string) (*models.Game, error) {
	game, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.Finalized {
		return nil, fmt.Errorf("game %s: %w", gameID, ErrGameFinalized)
	}

	var net float64
	for _, p := range game.Players {
		net = money.Sum(net, p.Net())
	}
	if math.Abs(net) > money.Epsilon {
		return nil, fmt.Errorf("game %s nets to %.2f: %w", gameID, net, ErrUnbalancedGame)
	}

	entries := make([]*models.LedgerEntry, 0, 2*len(game.Players))
	for _, p := range game.Players {
		debit := models.NewGameDebit(p.ParticipantID, game.ID, p.BuyIn, game.Name)
		credit := models.NewGameCredit(p.ParticipantID, game.ID, p.CashOut, game.Name)
		entries = append(entries, &debit, &credit)
	}

	if err := s.store.FinalizeGame(ctx, game.ID, entries); err != nil {
		return nil, err
	}
	metrics.EntriesInserted.WithLabelValues(string(models.EntryGameDebit)).Add(float64(len(game.Players)))
	metrics.EntriesInserted.WithLabelValues(string(models.EntryGameCredit)).Add(float64(len(game.Players)))
	slog.Info("game finalized", "game_id", game.ID, "entries", len(entries))

	game.Finalized = true
	return game, nil
}

// ReopenGame reverses a finalized game, deleting its ledger entries so the
// results can be corrected and finalized again.
func (s *GameService) ReopenGame(ctx context.Context, gameID string) (*models.Game, error) {
	game, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if !game.Finalized {
		return nil, fmt.Errorf("game %s: %w", gameID, ErrGameNotFinalized)
	}

	if err := s.store.ReopenGame(ctx, game.ID); err != nil {
		return nil, err
	}
	slog.Info("game reopened", "game_id", game.ID)

	game.Finalized = false
	return game, nil
}

// SetPlayerPaid toggles one player's per-game squared-up flag. The flag
// feeds the per-game aggregation; it does not touch the ledger.
func (s *GameService) SetPlayerPaid(ctx context.Context, gameID, participantID string, paid bool) error {
	return s.store.SetGamePlayerPaid(ctx, gameID, participantID, paid)
}

// Transactions aggregates who owes whom across all finalized games,
// netting within each game and merging matched pairs across games.
// Recomputed from live game data on every call.
func (s *GameService) Transactions(ctx context.Context) ([]models.Transaction, error) {
	games, err := s.store.ListGames(ctx)
	if err != nil {
		return nil, err
	}
	return calculator.AggregateGameTransactions(games), nil
}
