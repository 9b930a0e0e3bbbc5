package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	EventGameCreated    EventType = "game_created"
	EventGameUpdated    EventType = "game_updated"
	EventGameDeleted    EventType = "game_deleted"
	EventRoundConfirmed EventType = "round_confirmed"
	EventRoundUndone    EventType = "round_undone"
)

// Event is emitted after every mutation of a game
type Event struct {
	Type      EventType
	Timestamp time.Time
	GameID    GameID
	Game      *Game // Full updated record; nil for deletions
	Payload   any   // Type-specific data
}

// Elimination records one seat rotation
type Elimination struct {
	Player      PlayerName
	Replacement PlayerName // Empty if the queue was empty
	Seat        int
	Rule        EliminationRule
	PrevTotal   int
	NewTotal    int
	Overshoot   int
	Level       int // Level after the rotation
}

// EliminationRule names the rule that triggered a rotation
type EliminationRule string

const (
	RuleFifty      EliminationRule = "fifty"
	RuleTwentyFive EliminationRule = "twenty_five"
)

// RoundConfirmedPayload contains data for round confirmed events
type RoundConfirmedPayload struct {
	RoundNumber      int
	Eliminations     []Elimination
	OneShotTriggered bool
}

// RoundUndonePayload contains data for round undone events
type RoundUndonePayload struct {
	RoundNumber    int // Number of the round that was removed
	LineupRestored bool
	Removed        Round
}
