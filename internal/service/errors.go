// Package service implements the write paths of the ledger engine: expense
// recording, game finalization, and the settlement lifecycle. Read paths
// delegate to the calculator package and recompute from storage on every
// call; nothing here caches a balance.
package service

import "errors"

var (
	// ErrAlreadyPaid is returned by MarkPaid on an item that is already paid.
	ErrAlreadyPaid = errors.New("settlement item already marked paid")

	// ErrNotPaid is returned by UnmarkPaid on an item that is still pending.
	ErrNotPaid = errors.New("settlement item not marked paid")

	// ErrGameFinalized is returned when finalizing an already-final game.
	ErrGameFinalized = errors.New("game already finalized")

	// ErrGameNotFinalized is returned when reopening an open game.
	ErrGameNotFinalized = errors.New("game not finalized")

	// ErrUnbalancedGame is returned when a game's cash-outs do not match its
	// buy-ins, which would break the ledger's zero-sum invariant.
	ErrUnbalancedGame = errors.New("game cash-outs do not match buy-ins")

	// ErrInvalidInput is returned for requests that fail validation.
	ErrInvalidInput = errors.New("invalid input")
)
