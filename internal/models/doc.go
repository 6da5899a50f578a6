// Package models defines the core domain models for the group ledger.
//
// # Model groups
//
//   - LedgerEntry: one signed, source-tagged monetary record per participant.
//     The ledger is append-only; entries are only deleted when their
//     originating event is reversed.
//   - ParticipantBalance: derived net position, recomputed from the full
//     entry set on every read. Never persisted, never cached.
//   - Settlement / SettlementItem: a persisted snapshot of the minimal
//     transfers that zero the balances, with a paid/pending flag per item.
//   - Game / GamePlayer: game sessions and per-player results; finalizing a
//     game posts its entries to the ledger.
//   - Transaction / TransactionDetail: ephemeral per-game payment
//     aggregation between participant pairs.
//
// # Design principles
//
//  1. Timestamps are Unix seconds (int64), nullable ones are *int64.
//  2. Monetary amounts are float64 fixed to two decimals; every computed
//     amount is rounded at the arithmetic step that produced it (see the
//     money package), not only at aggregation time.
//  3. Relationships use ID strings, not pointers, to avoid circular
//     references.
//  4. Entry kinds are a typed enum with per-kind constructors so each
//     SourceRef carries the right referent (game, expense, settlement item).
package models
