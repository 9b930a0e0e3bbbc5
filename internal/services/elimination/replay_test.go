package elimination

import (
	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/services/totals"
)

// UndoLastRound tests

func (s *EngineSuite) TestUndoEmptyHistory() {
	game := s.newGame(seats("A", "B", "C", "D"), nil)

	next, _, err := UndoLastRound(game)

	s.ErrorIs(err, model.ErrEmptyHistory)
	s.Nil(next)
}

func (s *EngineSuite) TestUndoResetsOneShot() {
	game := s.newGame(seats("P1", "P2", "C", "D"), []model.PlayerName{"Q1"}, 24, 10, 0, 0)
	confirmed, _ := ConfirmRound(game, points(1, 15, 0, 0))
	s.Require().True(confirmed.OneShot.Used)

	undone, result, err := UndoLastRound(confirmed)
	s.Require().NoError(err)

	s.Equal(model.OneShot{}, undone.OneShot)
	s.Equal(0, undone.Level("P1"))
	s.Len(undone.Rounds, 1)
	s.Equal(2, result.RoundNumber)
	s.True(result.LineupRestored)
	s.Equal(game.Lineup, undone.Lineup)
}

func (s *EngineSuite) TestUndoRecomputesLevelsFromRemainingTotals() {
	game := s.newGame(seats("A", "B", "C", "D"), []model.PlayerName{"Q1", "Q2"})
	game, _ = ConfirmRound(game, points(0, 30, 0, 0))
	game, _ = ConfirmRound(game, points(49, 0, 0, 0))
	s.Require().Equal(model.OneShot{Used: true, UsedBy: "B"}, game.OneShot)

	confirmed, _ := ConfirmRound(game, points(3, 0, 0, 0))
	s.Require().Equal(1, confirmed.Level("A"))

	undone, _, err := UndoLastRound(confirmed)
	s.Require().NoError(err)

	s.Equal(0, undone.Level("A"))
	s.Equal(0, undone.Level("B"))
	s.Equal(game.Lineup, undone.Lineup)
	s.Equal(model.OneShot{Used: true, UsedBy: "B"}, undone.OneShot)
}

func (s *EngineSuite) TestUndoLevelsAreTotalsOverFifty() {
	game := s.newGame(seats("A", "B", "C", "D"), []model.PlayerName{"E"})
	game, _ = ConfirmRound(game, points(26, 0, 5, 5))
	s.Require().Equal(1, game.Level("A"))

	confirmed, _ := ConfirmRound(game, points(0, 4, 3, 2))
	undone, _, err := UndoLastRound(confirmed)
	s.Require().NoError(err)

	s.Equal(model.OneShot{Used: true, UsedBy: "A"}, undone.OneShot)
	s.Equal(0, undone.Level("A"))
	for _, pt := range totals.Compute(undone.Rounds, undone.Lineup).List() {
		s.Equal(pt.Total/LevelStep, undone.Level(pt.Player), pt.Player)
	}
}

func (s *EngineSuite) TestUndoWithoutRecordedLineupKeepsSeats() {
	game := s.newGame(seats("Q1", "B", "C", "D"), []model.PlayerName{"A"})
	game.Rounds = []model.Round{
		model.NewRound([]model.PlayerName{"A", "B", "C", "D"}, []int{52, 0, 0, 0}, nil),
	}

	undone, result, err := UndoLastRound(game)
	s.Require().NoError(err)

	s.False(result.LineupRestored)
	s.Equal(game.Lineup, undone.Lineup)
	s.Empty(undone.Rounds)
	s.Equal(0, undone.Level("A"))
	s.False(undone.OneShot.Used)
}

func (s *EngineSuite) TestUndoDoesNotMutateInput() {
	game := s.newGame(seats("A", "B", "C", "D"), nil, 0, 1, 2, 3)

	_, _, err := UndoLastRound(game)
	s.Require().NoError(err)

	s.Len(game.Rounds, 1)
}

func (s *EngineSuite) TestConfirmThenUndoRestoresRecord() {
	game := s.newGame(seats("A", "B", "C", "D"), []model.PlayerName{"E"})
	game, _ = ConfirmRound(game, points(0, 10, 20, 30))
	game, _ = ConfirmRound(game, points(16, 0, 33, 52))

	before := Recompute(game)
	after, _ := ConfirmRound(game, points(60, 0, 1, 2))
	undone, _, err := UndoLastRound(after)
	s.Require().NoError(err)

	s.Equal(before.Lineup, undone.Lineup)
	s.Equal(before.OneShot, undone.OneShot)
	s.Equal(before.Levels, undone.Levels)
	s.Len(undone.Rounds, 2)
}

// Recompute tests

func (s *EngineSuite) TestRecomputeFirstToReachWins() {
	game := s.newGame(seats("A", "B", "C", "D"), nil)
	game.Rounds = []model.Round{
		model.NewRound([]model.PlayerName{"A", "B", "C", "D"}, []int{0, 20, 10, 5}, nil),
		model.NewRound([]model.PlayerName{"A", "B", "C", "D"}, []int{30, 4, 0, 2}, nil),
		model.NewRound([]model.PlayerName{"A", "B", "C", "D"}, []int{0, 9, 30, 1}, nil),
	}

	rebuilt := Recompute(game)

	s.Equal(model.OneShot{Used: true, UsedBy: "A"}, rebuilt.OneShot)
	s.Equal(0, rebuilt.Level("A"))
	s.Equal(0, rebuilt.Level("B"))
	s.Equal(0, rebuilt.Level("C"))
}

func (s *EngineSuite) TestRecomputeSameRoundTieUsesConfirmOrder() {
	game := s.newGame(seats("P1", "P2", "C", "D"), nil)
	game.Rounds = []model.Round{
		model.NewRound([]model.PlayerName{"P1", "P2", "C", "D"}, []int{10, 24, 0, 0}, nil),
		model.NewRound([]model.PlayerName{"P1", "P2", "C", "D"}, []int{15, 1, 0, 0}, nil),
	}

	rebuilt := Recompute(game)

	s.Equal(model.PlayerName("P2"), rebuilt.OneShot.UsedBy)
}

func (s *EngineSuite) TestRecomputeDropsStaleLevels() {
	game := s.newGame(seats("A", "B", "C", "D"), nil, 0, 5, 5, 5)
	game.Levels = map[model.PlayerName]int{"A": 3, "Ghost": 2}
	game.OneShot = model.OneShot{Used: true, UsedBy: "Ghost"}

	rebuilt := Recompute(game)

	s.Equal(0, rebuilt.Level("A"))
	s.NotContains(rebuilt.Levels, model.PlayerName("Ghost"))
	s.False(rebuilt.OneShot.Used)
	s.True(rebuilt.OneShot.UsedBy.IsEmpty())
}

func (s *EngineSuite) TestReplayedHistoryMatchesSummedPoints() {
	game := s.newGame(seats("A", "B", "C", "D"), []model.PlayerName{"E", "F"})
	deltas := [][]int{
		{0, 7, 12, 3},
		{16, 0, 33, 9},
		{4, 52, 0, 8},
		{0, 2, 5, 27},
		{39, 0, 1, 6},
	}

	sums := make(map[model.PlayerName]int)
	for _, d := range deltas {
		seated := game.Lineup.Active
		game, _ = ConfirmRound(game, points(d...))
		for i, name := range seated {
			if !name.IsEmpty() {
				sums[name] += d[i]
			}
		}

		snaps := totals.CumulativeSnapshots(nil, game.Rounds)
		last := snaps[len(snaps)-1]
		for name, total := range sums {
			s.Equal(total, last[name], name)
		}
	}
}

func (s *EngineSuite) TestReplayHistoryMatchesStepwiseConfirm() {
	start := s.newGame(seats("A", "B", "C", "D"), []model.PlayerName{"E"})
	history := []model.Round{points(0, 10, 20, 30), points(16, 0, 33, 52), points(9, 0, 4, 5)}

	stepwise := start
	for _, r := range history {
		stepwise, _ = ConfirmRound(stepwise, r)
	}

	replayed, outcomes := ReplayHistory(start, history)

	s.Len(outcomes, 3)
	s.True(outcomes[0].OneShotTriggered)
	s.Len(outcomes[1].Eliminations, 2)
	s.Equal(stepwise.Lineup, replayed.Lineup)
	s.Equal(stepwise.Levels, replayed.Levels)
	s.Equal(stepwise.OneShot, replayed.OneShot)
	s.Len(start.Rounds, 0)
}
