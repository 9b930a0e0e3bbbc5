package totals

import "github.com/mcoot/scoreboard/internal/model"

// Snapshot maps each known player to their running total after one round
type Snapshot map[model.PlayerName]int

// CumulativeSnapshots returns one snapshot per round, in round order.
// Each snapshot covers the given players plus every name seen in any round,
// so players who have not played yet appear with 0.
func CumulativeSnapshots(players []model.PlayerName, rounds []model.Round) []Snapshot {
	known := make([]model.PlayerName, 0, len(players))
	seen := make(map[model.PlayerName]bool, len(players))
	add := func(name model.PlayerName) {
		if name.IsEmpty() || seen[name] {
			return
		}
		seen[name] = true
		known = append(known, name)
	}
	for _, name := range players {
		add(name)
	}
	for _, round := range rounds {
		for _, seat := range round.Seats {
			add(seat.Player)
		}
	}

	running := make(map[model.PlayerName]int, len(known))
	snapshots := make([]Snapshot, 0, len(rounds))
	for _, round := range rounds {
		for _, seat := range round.Seats {
			if !seat.Player.IsEmpty() {
				running[seat.Player] += seat.Points
			}
		}

		snap := make(Snapshot, len(known))
		for _, name := range known {
			snap[name] = running[name]
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots
}
