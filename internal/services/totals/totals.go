// Package totals folds round history into per-player cumulative figures.
package totals

import (
	"github.com/mcoot/scoreboard/internal/model"
)

// PlayerTotal is one player's aggregate over a round history
type PlayerTotal struct {
	Player       model.PlayerName
	Total        int
	RoundsPlayed int
	Average      float64 // 0 when RoundsPlayed is 0
}

// Totals holds the aggregate for every known player
type Totals struct {
	byPlayer map[model.PlayerName]*PlayerTotal
	order    []model.PlayerName // First-seen order: lineup members, then round seats
}

// Compute folds the rounds into per-player totals.
// Every lineup member is included even if they have never been dealt a round.
func Compute(rounds []model.Round, lineup model.Lineup) *Totals {
	t := &Totals{byPlayer: make(map[model.PlayerName]*PlayerTotal)}

	for _, name := range lineup.Members() {
		t.entry(name)
	}

	for _, round := range rounds {
		for _, seat := range round.Seats {
			if seat.Player.IsEmpty() {
				continue
			}
			e := t.entry(seat.Player)
			e.Total += seat.Points
			e.RoundsPlayed++
		}
	}

	for _, e := range t.byPlayer {
		if e.RoundsPlayed > 0 {
			e.Average = float64(e.Total) / float64(e.RoundsPlayed)
		}
	}
	return t
}

func (t *Totals) entry(name model.PlayerName) *PlayerTotal {
	if e, ok := t.byPlayer[name]; ok {
		return e
	}
	e := &PlayerTotal{Player: name}
	t.byPlayer[name] = e
	t.order = append(t.order, name)
	return e
}

// Get returns the aggregate for a player; unknown players get a zero entry
func (t *Totals) Get(name model.PlayerName) PlayerTotal {
	if e, ok := t.byPlayer[name]; ok {
		return *e
	}
	return PlayerTotal{Player: name}
}

// Total returns the cumulative points for a player
func (t *Totals) Total(name model.PlayerName) int {
	return t.Get(name).Total
}

// Players returns every known player in first-seen order
func (t *Totals) Players() []model.PlayerName {
	out := make([]model.PlayerName, len(t.order))
	copy(out, t.order)
	return out
}

// List returns every aggregate in first-seen order
func (t *Totals) List() []PlayerTotal {
	out := make([]PlayerTotal, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, *t.byPlayer[name])
	}
	return out
}
