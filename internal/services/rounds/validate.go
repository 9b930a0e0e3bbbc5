package rounds

import (
	"fmt"

	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/services/cards"
)

// Validate checks a round before it is confirmed.
// Only occupied seats are considered: exactly one of them must have zero points,
// points must be non-negative and card counts must fit in a hand.
func Validate(r model.Round) error {
	occupied := 0
	winners := 0
	seen := make(map[model.PlayerName]bool, model.SeatCount)

	for i, seat := range r.Seats {
		if seat.Player.IsEmpty() {
			continue
		}
		occupied++

		if seen[seat.Player] {
			return fmt.Errorf("%w: %q appears more than once", model.ErrInvalidRound, seat.Player)
		}
		seen[seat.Player] = true

		if seat.Points < 0 {
			return fmt.Errorf("%w: seat %d has negative points", model.ErrInvalidRound, i+1)
		}
		if seat.Cards < 0 || seat.Cards > cards.MaxCards {
			return fmt.Errorf("%w: seat %d has %d cards", model.ErrInvalidRound, i+1, seat.Cards)
		}
		if seat.Points == 0 {
			winners++
		}
	}

	if occupied == 0 {
		return fmt.Errorf("%w: no seated players", model.ErrInvalidRound)
	}
	if winners != 1 {
		return fmt.Errorf("%w: expected exactly one winner with zero points, got %d", model.ErrInvalidRound, winners)
	}
	return nil
}
