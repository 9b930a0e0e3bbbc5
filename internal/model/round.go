package model

import "time"

// Seat is one player's line in a round
type Seat struct {
	Player PlayerName
	Points int
	Cards  int // Raw card count left in hand
}

// Round is the canonical four-seat record every component consumes
type Round struct {
	Seats [SeatCount]Seat

	// LineupBefore is the lineup in place when the round was confirmed.
	// Nil for rounds imported from elsewhere.
	LineupBefore *Lineup
	ConfirmedAt  time.Time
}

// NewRound builds a round from parallel seat slices; missing entries are left empty
func NewRound(names []PlayerName, points []int, cards []int) Round {
	var r Round
	for i := 0; i < SeatCount; i++ {
		if i < len(names) {
			r.Seats[i].Player = names[i]
		}
		if i < len(points) {
			r.Seats[i].Points = points[i]
		}
		if i < len(cards) {
			r.Seats[i].Cards = cards[i]
		}
	}
	return r
}

// PlayerNames returns the seat names in seat order
func (r Round) PlayerNames() [SeatCount]PlayerName {
	var names [SeatCount]PlayerName
	for i, s := range r.Seats {
		names[i] = s.Player
	}
	return names
}

// Points returns the seat points in seat order
func (r Round) Points() [SeatCount]int {
	var points [SeatCount]int
	for i, s := range r.Seats {
		points[i] = s.Points
	}
	return points
}

// Cards returns the seat card counts in seat order
func (r Round) Cards() [SeatCount]int {
	var cards [SeatCount]int
	for i, s := range r.Seats {
		cards[i] = s.Cards
	}
	return cards
}

// HasPlayers returns true if any seat is named
func (r Round) HasPlayers() bool {
	for _, s := range r.Seats {
		if !s.Player.IsEmpty() {
			return true
		}
	}
	return false
}

// WithPlayers returns a copy of the round with the given names stamped onto its seats
func (r Round) WithPlayers(names [SeatCount]PlayerName) Round {
	clone := r.Clone()
	for i := range clone.Seats {
		clone.Seats[i].Player = names[i]
	}
	return clone
}

// Clone returns a deep copy of the round
func (r Round) Clone() Round {
	clone := r
	if r.LineupBefore != nil {
		lineup := r.LineupBefore.Clone()
		clone.LineupBefore = &lineup
	}
	return clone
}
