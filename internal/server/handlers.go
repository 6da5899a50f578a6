package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tablestakes/ledger/internal/models"
)

func (s *Server) listParticipants(w http.ResponseWriter, r *http.Request) {
	participants, err := s.ledger.Participants(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, participants)
}

func (s *Server) addParticipant(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	p, err := s.ledger.AddParticipant(r.Context(), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) listEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := s.ledger.Entries(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) listBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := s.ledger.Balances(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balances)
}

func (s *Server) recordExpense(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PayerID        string   `json:"payer_id"`
		ParticipantIDs []string `json:"participant_ids"`
		Total          float64  `json:"total"`
		Description    string   `json:"description"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	expenseID, err := s.ledger.RecordExpense(r.Context(), req.PayerID, req.ParticipantIDs, req.Total, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"expense_id": expenseID})
}

func (s *Server) deleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteExpense(r.Context(), chi.URLParam(r, "expenseID")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) listGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.games.Games(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, games)
}

func (s *Server) createGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string              `json:"name"`
		PlayedAt int64               `json:"played_at"`
		Players  []models.GamePlayer `json:"players"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	game, err := s.games.CreateGame(r.Context(), req.Name, req.PlayedAt, req.Players)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, game)
}

func (s *Server) getGame(w http.ResponseWriter, r *http.Request) {
	game, err := s.games.Game(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, game)
}

func (s *Server) finalizeGame(w http.ResponseWriter, r *http.Request) {
	game, err := s.games.FinalizeGame(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, game)
}

func (s *Server) reopenGame(w http.ResponseWriter, r *http.Request) {
	game, err := s.games.ReopenGame(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, game)
}

func (s *Server) setPlayerPaid(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Paid bool `json:"paid"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	err := s.games.SetPlayerPaid(r.Context(), chi.URLParam(r, "gameID"), chi.URLParam(r, "participantID"), req.Paid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"paid": req.Paid})
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := s.games.Transactions(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transactions)
}

func (s *Server) getSettlement(w http.ResponseWriter, r *http.Request) {
	settlement, err := s.settlements.Active(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	// No settlement generated yet: null, not an error.
	writeJSON(w, http.StatusOK, settlement)
}

func (s *Server) generateSettlement(w http.ResponseWriter, r *http.Request) {
	settlement, err := s.settlements.Generate(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, settlement)
}

func (s *Server) markItemPaid(w http.ResponseWriter, r *http.Request) {
	item, err := s.settlements.MarkPaid(r.Context(), chi.URLParam(r, "itemID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) unmarkItemPaid(w http.ResponseWriter, r *http.Request) {
	item, err := s.settlements.UnmarkPaid(r.Context(), chi.URLParam(r, "itemID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}
