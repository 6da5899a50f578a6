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

// CreateGame persists a new game with its players in one transaction.
func (s *SQLiteStore) CreateGame(ctx context.Context, game *models.Game) error {
	if game.ID == "" {
		game.ID = uuid.New().String()
	}
	if game.PlayedAt == 0 {
		game.PlayedAt = time.Now().Unix()
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO games (id, name, played_at, finalized) VALUES (?, ?, ?, ?)",
			game.ID, game.Name, game.PlayedAt, boolToInt(game.Finalized),
		)
		if err != nil {
			return fmt.Errorf("failed to insert game: %w", err)
		}

		for i := range game.Players {
			p := &game.Players[i]
			p.GameID = game.ID
			_, err := tx.ExecContext(ctx,
				`INSERT INTO game_players (game_id, participant_id, name, buy_in, cash_out, settlement_paid)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				p.GameID, p.ParticipantID, p.Name, p.BuyIn, p.CashOut, boolToInt(p.SettlementPaid),
			)
			if err != nil {
				return fmt.Errorf("failed to insert game player: %w", err)
			}
		}
		return nil
	})
}

// GetGame retrieves a game with its players.
func (s *SQLiteStore) GetGame(ctx context.Context, gameID string) (*models.Game, error) {
	game := &models.Game{}
	var finalized int

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, played_at, finalized FROM games WHERE id = ?",
		gameID,
	).Scan(&game.ID, &game.Name, &game.PlayedAt, &finalized)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("game %s: %w", gameID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	game.Finalized = finalized != 0

	players, err := s.listGamePlayers(ctx, game.ID)
	if err != nil {
		return nil, err
	}
	game.Players = players
	return game, nil
}

// ListGames returns all games with their players, oldest first.
func (s *SQLiteStore) ListGames(ctx context.Context) ([]models.Game, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, played_at, finalized FROM games ORDER BY played_at, id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	var games []models.Game
	for rows.Next() {
		var game models.Game
		var finalized int
		if err := rows.Scan(&game.ID, &game.Name, &game.PlayedAt, &finalized); err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		game.Finalized = finalized != 0
		games = append(games, game)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate games: %w", err)
	}

	for i := range games {
		players, err := s.listGamePlayers(ctx, games[i].ID)
		if err != nil {
			return nil, err
		}
		games[i].Players = players
	}
	return games, nil
}

// FinalizeGame marks the game finalized and appends its ledger entries in
// one transaction.
func (s *SQLiteStore) FinalizeGame(ctx context.Context, gameID string, entries []*models.LedgerEntry) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := setGameFinalized(ctx, tx, gameID, true); err != nil {
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
				return fmt.Errorf("failed to insert game entry: %w", err)
			}
		}
		return nil
	})
}

// ReopenGame clears the finalized flag and deletes the game's ledger entries
// in one transaction.
func (s *SQLiteStore) ReopenGame(ctx context.Context, gameID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := setGameFinalized(ctx, tx, gameID, false); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx,
			"DELETE FROM ledger_entries WHERE source_ref = ?", gameID,
		)
		if err != nil {
			return fmt.Errorf("failed to delete game entries: %w", err)
		}
		return nil
	})
}

// SetGamePlayerPaid toggles one player's per-game settlement flag.
func (s *SQLiteStore) SetGamePlayerPaid(ctx context.Context, gameID, participantID string, paid bool) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE game_players SET settlement_paid = ? WHERE game_id = ? AND participant_id = ?",
		boolToInt(paid), gameID, participantID,
	)
	if err != nil {
		return fmt.Errorf("failed to update game player: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check game player update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("game player %s/%s: %w", gameID, participantID, storage.ErrNotFound)
	}
	return nil
}

func setGameFinalized(ctx context.Context, tx *sql.Tx, gameID string, finalized bool) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE games SET finalized = ? WHERE id = ?", boolToInt(finalized), gameID,
	)
	if err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check game update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("game %s: %w", gameID, storage.ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) listGamePlayers(ctx context.Context, gameID string) ([]models.GamePlayer, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT game_id, participant_id, name, buy_in, cash_out, settlement_paid
		 FROM game_players WHERE game_id = ? ORDER BY rowid`,
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list game players: %w", err)
	}
	defer rows.Close()

	var players []models.GamePlayer
	for rows.Next() {
		var p models.GamePlayer
		var paid int
		if err := rows.Scan(&p.GameID, &p.ParticipantID, &p.Name, &p.BuyIn, &p.CashOut, &paid); err != nil {
			return nil, fmt.Errorf("failed to scan game player: %w", err)
		}
		p.SettlementPaid = paid != 0
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate game players: %w", err)
	}
	return players, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
