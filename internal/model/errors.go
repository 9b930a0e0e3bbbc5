package model

import "errors"

// Common errors used across the application
var (
	// Game errors
	ErrGameNotFound        = errors.New("game not found")
	ErrInsufficientPlayers = errors.New("at least one player is required")
	ErrDuplicatePlayer     = errors.New("player appears more than once")
	ErrInvalidLineup       = errors.New("invalid lineup")

	// Round errors
	ErrEmptyHistory   = errors.New("no rounds to delete")
	ErrInvalidRound   = errors.New("invalid round")
	ErrLineupMismatch = errors.New("round players do not match the seated players")
)
