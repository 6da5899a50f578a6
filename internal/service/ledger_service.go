package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tablestakes/ledger/internal/calculator"
	"github.com/tablestakes/ledger/internal/metrics"
	"github.com/tablestakes/ledger/internal/models"
	"github.com/tablestakes/ledger/internal/money"
	"github.com/tablestakes/ledger/internal/storage"
)

// LedgerService exposes the ledger itself: raw entries, derived balances,
// participant registry, and the shared-expense producer.
type LedgerService struct {
	store storage.Store
}

// NewLedgerService creates a new LedgerService with the given storage backend.
func NewLedgerService(store storage.Store) *LedgerService {
	return &LedgerService{store: store}
}

// Entries returns the full ledger, oldest first.
func (s *LedgerService) Entries(ctx context.Context) ([]models.LedgerEntry, error) {
	return s.store.ListLedgerEntries(ctx)
}

// Balances recomputes every participant's net balance from the full entry
// set and attaches display names from the registry.
func (s *LedgerService) Balances(ctx context.Context) ([]models.ParticipantBalance, error) {
	entries, err := s.store.ListLedgerEntries(ctx)
	if err != nil {
		return nil, err
	}

	balances := calculator.CalculateBalances(entries)

	participants, err := s.store.ListParticipants(ctx)
	if err != nil {
		return nil, err
	}
	attachNames(balances, participants)
	return balances, nil
}

// AddParticipant registers a new participant.
func (s *LedgerService) AddParticipant(ctx context.Context, name string) (*models.Participant, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: participant name required", ErrInvalidInput)
	}
	p := &models.Participant{Name: name}
	if err := s.store.CreateParticipant(ctx, p); err != nil {
		return nil, err
	}
	slog.Info("participant added", "participant_id", p.ID, "name", p.Name)
	return p, nil
}

// Participants returns the registry, oldest first.
func (s *LedgerService) Participants(ctx context.Context) ([]models.Participant, error) {
	return s.store.ListParticipants(ctx)
}

// RecordExpense splits a shared expense equally among the participants and
// appends the batch to the ledger: one credit for the payer who fronted the
// total and one debit per participant. The remainder cent of an uneven
// split lands in the payer's own share so the batch nets to zero exactly.
// Returns the generated expense ID, which tags every entry of the batch.
func (s *LedgerService) RecordExpense(ctx context.Context, payerID string, participantIDs []string, total float64, description string) (string, error) {
	if payerID == "" {
		return "", fmt.Errorf("%w: payer required", ErrInvalidInput)
	}
	if len(participantIDs) == 0 {
		return "", fmt.Errorf("%w: at least one participant required", ErrInvalidInput)
	}
	if total < money.Epsilon {
		return "", fmt.Errorf("%w: expense total must be positive", ErrInvalidInput)
	}

	// Order the payer first so the remainder cent of the split is theirs.
	ordered := make([]string, 0, len(participantIDs))
	for _, id := range participantIDs {
		if id == payerID {
			ordered = append([]string{id}, ordered...)
		} else {
			ordered = append(ordered, id)
		}
	}

	total = money.Round2(total)
	shares := money.SplitEqually(total, len(ordered))

	expenseID := uuid.New().String()
	entries := make([]*models.LedgerEntry, 0, len(ordered)+1)

	credit := models.NewExpenseEntry(payerID, expenseID, total, description)
	entries = append(entries, &credit)
	for i, id := range ordered {
		debit := models.NewExpenseEntry(id, expenseID, -shares[i], description)
		entries = append(entries, &debit)
	}

	if err := s.store.InsertLedgerEntries(ctx, entries); err != nil {
		return "", err
	}
	metrics.EntriesInserted.WithLabelValues(string(models.EntryExpense)).Add(float64(len(entries)))
	slog.Info("expense recorded",
		"expense_id", expenseID,
		"payer_id", payerID,
		"total", total,
		"participants", len(ordered),
	)
	return expenseID, nil
}

// DeleteExpense reverses a recorded expense by removing every entry of its
// batch from the ledger.
func (s *LedgerService) DeleteExpense(ctx context.Context, expenseID string) error {
	if expenseID == "" {
		return fmt.Errorf("%w: expense id required", ErrInvalidInput)
	}
	if err := s.store.DeleteLedgerEntriesBySource(ctx, expenseID); err != nil {
		return err
	}
	slog.Info("expense deleted", "expense_id", expenseID)
	return nil
}

// attachNames fills balance display names from the participant registry.
// Balances for IDs absent from the registry keep an empty name.
func attachNames(balances []models.ParticipantBalance, participants []models.Participant) {
	names := make(map[string]string, len(participants))
	for _, p := range participants {
		names[p.ID] = p.Name
	}
	for i := range balances {
		balances[i].Name = names[balances[i].ParticipantID]
	}
}
