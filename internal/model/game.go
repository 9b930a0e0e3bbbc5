package model

import "time"

// GameID uniquely identifies a game
type GameID string

// SeatCount is the number of active seats at the table
const SeatCount = 4

// PlayerName identifies a player; the empty name marks an unoccupied seat
type PlayerName string

// IsEmpty returns true if the name denotes an unoccupied seat
func (n PlayerName) IsEmpty() bool {
	return n == ""
}

// Lineup is who is seated and who is waiting
type Lineup struct {
	Active [SeatCount]PlayerName // Seat index is the seat's identity
	Queue  []PlayerName          // FIFO: head is next to be seated
}

// NewLineup seats the first SeatCount names in order and queues the rest
func NewLineup(names []PlayerName) Lineup {
	var l Lineup
	for i, p := range names {
		if i < SeatCount {
			l.Active[i] = p
		} else {
			l.Queue = append(l.Queue, p)
		}
	}
	return l
}

// Clone returns a deep copy of the lineup
func (l Lineup) Clone() Lineup {
	clone := Lineup{Active: l.Active}
	if l.Queue != nil {
		clone.Queue = make([]PlayerName, len(l.Queue))
		copy(clone.Queue, l.Queue)
	}
	return clone
}

// SeatOf returns the seat index of the named player, or -1 if not seated
func (l Lineup) SeatOf(name PlayerName) int {
	if name.IsEmpty() {
		return -1
	}
	for i, seated := range l.Active {
		if seated == name {
			return i
		}
	}
	return -1
}

// Members returns every player in the lineup, seated players first
func (l Lineup) Members() []PlayerName {
	members := make([]PlayerName, 0, SeatCount+len(l.Queue))
	for _, name := range l.Active {
		if !name.IsEmpty() {
			members = append(members, name)
		}
	}
	for _, name := range l.Queue {
		if !name.IsEmpty() {
			members = append(members, name)
		}
	}
	return members
}

// OneShot tracks the single-use 25-point rule
type OneShot struct {
	Used   bool
	UsedBy PlayerName // Empty when unused
}

// Game is the persisted record of one scoreboard.
// Levels and OneShot are derived from Rounds and may always be rebuilt by replay.
type Game struct {
	ID     GameID
	Name   string
	Lineup Lineup
	Rounds []Round

	// Derived state
	Levels  map[PlayerName]int // Count of 50-point thresholds consumed
	OneShot OneShot

	// Order in which players were added when the game was created
	PlayerCreationOrder []PlayerName

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a deep copy of the game so callers can treat records as values
func (g *Game) Clone() *Game {
	if g == nil {
		return nil
	}
	clone := *g
	clone.Lineup = g.Lineup.Clone()

	if g.Rounds != nil {
		clone.Rounds = make([]Round, len(g.Rounds))
		for i, r := range g.Rounds {
			clone.Rounds[i] = r.Clone()
		}
	}

	clone.Levels = make(map[PlayerName]int, len(g.Levels))
	for name, level := range g.Levels {
		clone.Levels[name] = level
	}

	if g.PlayerCreationOrder != nil {
		clone.PlayerCreationOrder = make([]PlayerName, len(g.PlayerCreationOrder))
		copy(clone.PlayerCreationOrder, g.PlayerCreationOrder)
	}
	return &clone
}

// Level returns the elimination level for a player (0 if never recorded)
func (g *Game) Level(name PlayerName) int {
	return g.Levels[name]
}

// RoundCount returns the number of confirmed rounds
func (g *Game) RoundCount() int {
	return len(g.Rounds)
}

// GameSummary is the metadata-only view of a game used for listings
type GameSummary struct {
	ID                  GameID
	Name                string
	RoundCount          int
	PlayerCreationOrder []PlayerName
	CreatedAt           time.Time
}

// Summary returns the listing view of the game
func (g *Game) Summary() GameSummary {
	order := g.PlayerCreationOrder
	if len(order) == 0 {
		order = g.Lineup.Members()
	}
	return GameSummary{
		ID:                  g.ID,
		Name:                g.Name,
		RoundCount:          len(g.Rounds),
		PlayerCreationOrder: order,
		CreatedAt:           g.CreatedAt,
	}
}
