package elimination

import (
	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/services/totals"
)

// UndoResult describes a removed round
type UndoResult struct {
	Removed        model.Round
	RoundNumber    int // 1-based number the removed round had
	LineupRestored bool
}

// UndoLastRound removes the most recent round and rebuilds levels and the
// one-shot flag from the remaining history. Levels become floor(total/50)
// exactly; the level floor confirm gives the one-shot holder is not replayed. If the removed round recorded the
// lineup it was played under, that lineup is restored; otherwise seats stay as they are.
func UndoLastRound(game *model.Game) (*model.Game, UndoResult, error) {
	if len(game.Rounds) == 0 {
		return nil, UndoResult{}, model.ErrEmptyHistory
	}

	next := game.Clone()
	last := len(next.Rounds) - 1
	result := UndoResult{
		Removed:     next.Rounds[last],
		RoundNumber: last + 1,
	}
	next.Rounds = next.Rounds[:last]

	if result.Removed.LineupBefore != nil {
		next.Lineup = result.Removed.LineupBefore.Clone()
		result.LineupRestored = true
	}

	replay(next)
	return next, result, nil
}

// Recompute rebuilds the derived fields (levels and the one-shot flag) of a
// game from its round history, leaving seats and rounds untouched.
func Recompute(game *model.Game) *model.Game {
	next := game.Clone()
	replay(next)
	return next
}

func replay(game *model.Game) {
	t := totals.Compute(game.Rounds, game.Lineup)

	game.Levels = make(map[model.PlayerName]int, len(t.Players()))
	for _, pt := range t.List() {
		game.Levels[pt.Player] = pt.Total / LevelStep
	}

	game.OneShot = firstToReach(game.Rounds)
}

// firstToReach walks the history and returns the one-shot owner: the first
// player whose running total reached the threshold. Players reaching it in the
// same round are ranked the way ConfirmRound ranks them.
func firstToReach(rounds []model.Round) model.OneShot {
	snapshots := totals.CumulativeSnapshots(nil, rounds)

	prev := make(totals.Snapshot)
	for i, round := range rounds {
		snap := snapshots[i]

		var reached []candidate
		for _, seat := range round.Seats {
			if seat.Player.IsEmpty() {
				continue
			}
			before, after := prev[seat.Player], snap[seat.Player]
			if before < OneShotThreshold && after >= OneShotThreshold {
				reached = append(reached, candidate{seat.Player, before, after, after - OneShotThreshold})
			}
		}
		if len(reached) > 0 {
			sortCandidates(reached)
			return model.OneShot{Used: true, UsedBy: reached[0].player}
		}
		prev = snap
	}
	return model.OneShot{}
}

// ReplayHistory confirms each round in order, starting from the given game.
// Used to rebuild a full record, seats included, from an exported history.
func ReplayHistory(start *model.Game, history []model.Round) (*model.Game, []Outcome) {
	game := start.Clone()
	outcomes := make([]Outcome, 0, len(history))
	for _, round := range history {
		var outcome Outcome
		game, outcome = ConfirmRound(game, round)
		outcomes = append(outcomes, outcome)
	}
	return game, outcomes
}
