package game

import (
	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/services/totals"
)

// PlayerStanding is one player's line in the standings
type PlayerStanding struct {
	totals.PlayerTotal
	Level int
	// Seat is the player's seat index, or -1 if not seated
	Seat int
	// QueuePosition is the 0-based position in the queue, or -1 if not queued
	QueuePosition int
	HoldsOneShot  bool
}

// Standings is everything a scoreboard view needs about a game
type Standings struct {
	Game      *model.Game
	Players   []PlayerStanding
	Snapshots []totals.Snapshot
}

// BuildStandings computes standings for a game. Players are listed in creation
// order, followed by anyone who joined later.
func BuildStandings(game *model.Game) *Standings {
	t := totals.Compute(game.Rounds, game.Lineup)

	order := make([]model.PlayerName, 0, len(game.PlayerCreationOrder))
	seen := make(map[model.PlayerName]bool)
	for _, list := range [][]model.PlayerName{game.PlayerCreationOrder, t.Players()} {
		for _, p := range list {
			if !p.IsEmpty() && !seen[p] {
				seen[p] = true
				order = append(order, p)
			}
		}
	}

	queuePos := make(map[model.PlayerName]int, len(game.Lineup.Queue))
	for i, p := range game.Lineup.Queue {
		queuePos[p] = i
	}

	players := make([]PlayerStanding, 0, len(order))
	for _, p := range order {
		pos, queued := queuePos[p]
		if !queued {
			pos = -1
		}
		players = append(players, PlayerStanding{
			PlayerTotal:   t.Get(p),
			Level:         game.Level(p),
			Seat:          game.Lineup.SeatOf(p),
			QueuePosition: pos,
			HoldsOneShot:  game.OneShot.Used && game.OneShot.UsedBy == p,
		})
	}

	return &Standings{
		Game:      game,
		Players:   players,
		Snapshots: totals.CumulativeSnapshots(order, game.Rounds),
	}
}
