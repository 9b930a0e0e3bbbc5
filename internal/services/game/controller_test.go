package game

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mcoot/scoreboard/internal/dependencies/mocks"
	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/services/rounds"
	"github.com/mcoot/scoreboard/internal/storage/memory"
	"github.com/mcoot/scoreboard/internal/testutil"
	"github.com/stretchr/testify/suite"
)

// recordingNotifier keeps every event it is given
type recordingNotifier struct {
	mu     sync.Mutex
	events []model.Event
}

func (n *recordingNotifier) Notify(_ context.Context, event model.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) last() model.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.events[len(n.events)-1]
}

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	notifier   *recordingNotifier
	clock      *mocks.MockClock
	ids        *mocks.MockIDs
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.notifier = &recordingNotifier{}
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.ids = mocks.NewMockIDs()
	s.controller = NewController(s.storage, s.notifier, s.clock, s.ids, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ControllerSuite) createGame(players ...model.PlayerName) *model.Game {
	s.ids.Queue("game-1")
	game, err := s.controller.CreateGame(s.ctx, "Friday", players)
	s.Require().NoError(err)
	return game
}

func (s *ControllerSuite) confirm(gameID model.GameID, points ...int) (*model.Game, *model.RoundConfirmedPayload) {
	game, payload, err := s.controller.ConfirmRound(s.ctx, gameID, model.NewRound(nil, points, nil))
	s.Require().NoError(err)
	return game, payload
}

// CreateGame tests

func (s *ControllerSuite) TestCreateGameSeatsFirstFour() {
	game := s.createGame("A", "B", "C", "D", "E", "F")

	s.Equal(model.GameID("game-1"), game.ID)
	s.Equal("Friday", game.Name)
	s.Equal([model.SeatCount]model.PlayerName{"A", "B", "C", "D"}, game.Lineup.Active)
	s.Equal([]model.PlayerName{"E", "F"}, game.Lineup.Queue)
	s.Equal([]model.PlayerName{"A", "B", "C", "D", "E", "F"}, game.PlayerCreationOrder)
	s.Equal(s.clock.Now(), game.CreatedAt)
	s.False(game.OneShot.Used)
}

func (s *ControllerSuite) TestCreateGameWithFewPlayersLeavesSeatsEmpty() {
	game := s.createGame("A", "B")

	s.Equal([model.SeatCount]model.PlayerName{"A", "B", "", ""}, game.Lineup.Active)
	s.Empty(game.Lineup.Queue)
}

func (s *ControllerSuite) TestCreateGamePersistsAndNotifies() {
	game := s.createGame("A", "B", "C", "D")

	stored, err := s.storage.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(game.Lineup, stored.Lineup)

	event := s.notifier.last()
	s.Equal(model.EventGameCreated, event.Type)
	s.Equal(game.ID, event.GameID)
}

func (s *ControllerSuite) TestCreateGameDefaultsName() {
	game, err := s.controller.CreateGame(s.ctx, "  ", []model.PlayerName{"A"})
	s.Require().NoError(err)
	s.Equal("Game 2024-01-01 12:00", game.Name)
}

func (s *ControllerSuite) TestCreateGameTrimsNames() {
	game, err := s.controller.CreateGame(s.ctx, "x", []model.PlayerName{" A ", "", "B"})
	s.Require().NoError(err)
	s.Equal([]model.PlayerName{"A", "B"}, game.PlayerCreationOrder)
}

func (s *ControllerSuite) TestCreateGameFailsWithNoPlayers() {
	_, err := s.controller.CreateGame(s.ctx, "x", []model.PlayerName{" ", ""})
	s.ErrorIs(err, model.ErrInsufficientPlayers)
}

func (s *ControllerSuite) TestCreateGameFailsWithDuplicates() {
	_, err := s.controller.CreateGame(s.ctx, "x", []model.PlayerName{"A", "B", "A"})
	s.ErrorIs(err, model.ErrDuplicatePlayer)
	s.Empty(s.notifier.events)
}

// UpdateGame tests

func (s *ControllerSuite) TestUpdateGameRename() {
	game := s.createGame("A", "B", "C", "D")
	name := "Saturday"

	updated, err := s.controller.UpdateGame(s.ctx, game.ID, GameUpdate{Name: &name})
	s.Require().NoError(err)

	s.Equal("Saturday", updated.Name)
	s.Equal(game.Lineup, updated.Lineup)
	s.Equal(model.EventGameUpdated, s.notifier.last().Type)
}

func (s *ControllerSuite) TestUpdateGameLineupKeepsRounds() {
	game := s.createGame("A", "B", "C", "D")
	s.confirm(game.ID, 0, 4, 5, 6)

	lineup := model.Lineup{
		Active: [model.SeatCount]model.PlayerName{"A", "B", "C", "E"},
		Queue:  []model.PlayerName{"D"},
	}
	updated, err := s.controller.UpdateGame(s.ctx, game.ID, GameUpdate{Lineup: &lineup})
	s.Require().NoError(err)

	s.Len(updated.Rounds, 1)
	s.Equal(lineup, updated.Lineup)
	s.Equal([]model.PlayerName{"A", "B", "C", "D", "E"}, updated.PlayerCreationOrder)
}

func (s *ControllerSuite) TestUpdateGameRejectsDuplicateLineup() {
	game := s.createGame("A", "B", "C", "D")
	lineup := model.Lineup{
		Active: [model.SeatCount]model.PlayerName{"A", "B", "C", "D"},
		Queue:  []model.PlayerName{"A"},
	}

	_, err := s.controller.UpdateGame(s.ctx, game.ID, GameUpdate{Lineup: &lineup})
	s.ErrorIs(err, model.ErrDuplicatePlayer)
}

func (s *ControllerSuite) TestUpdateGameNotFound() {
	_, err := s.controller.UpdateGame(s.ctx, "missing", GameUpdate{})
	s.ErrorIs(err, model.ErrGameNotFound)
}

// DeleteGame tests

func (s *ControllerSuite) TestDeleteGame() {
	game := s.createGame("A", "B", "C", "D")

	err := s.controller.DeleteGame(s.ctx, game.ID)
	s.Require().NoError(err)

	_, err = s.controller.GetGame(s.ctx, game.ID)
	s.ErrorIs(err, model.ErrGameNotFound)

	event := s.notifier.last()
	s.Equal(model.EventGameDeleted, event.Type)
	s.Equal(game.ID, event.GameID)
	s.Nil(event.Game)
}

func (s *ControllerSuite) TestDeleteGameNotFound() {
	err := s.controller.DeleteGame(s.ctx, "missing")
	s.ErrorIs(err, model.ErrGameNotFound)
}

// ListGames tests

func (s *ControllerSuite) TestListGamesNewestFirst() {
	s.ids.Queue("first", "second")
	_, err := s.controller.CreateGame(s.ctx, "one", []model.PlayerName{"A"})
	s.Require().NoError(err)
	s.clock.Advance(time.Minute)
	_, err = s.controller.CreateGame(s.ctx, "two", []model.PlayerName{"A"})
	s.Require().NoError(err)

	games, err := s.controller.ListGames(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(games, 2)
	s.Equal(model.GameID("second"), games[0].ID)
}

// ConfirmRound tests

func (s *ControllerSuite) TestConfirmRoundStampsSeatsAndSaves() {
	game := s.createGame("A", "B", "C", "D", "E")
	s.clock.Advance(time.Minute)

	updated, payload := s.confirm(game.ID, 0, 4, 5, 6)

	s.Equal(1, payload.RoundNumber)
	s.Empty(payload.Eliminations)
	s.Require().Len(updated.Rounds, 1)
	s.Equal(game.Lineup.Active, updated.Rounds[0].PlayerNames())
	s.Equal(s.clock.Now(), updated.Rounds[0].ConfirmedAt)
	s.Equal(s.clock.Now(), updated.UpdatedAt)

	stored, err := s.storage.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Len(stored.Rounds, 1)

	event := s.notifier.last()
	s.Equal(model.EventRoundConfirmed, event.Type)
	s.Equal(payload, event.Payload)
	s.Equal(updated, event.Game)
}

func (s *ControllerSuite) TestConfirmRoundRotatesOnCrossing() {
	game := s.createGame("A", "B", "C", "D", "Q1", "Q2")
	s.confirm(game.ID, 0, 49, 2, 3)

	updated, payload := s.confirm(game.ID, 0, 3, 50, 1)

	s.Equal(model.OneShot{Used: true, UsedBy: "B"}, updated.OneShot)
	s.Require().Len(payload.Eliminations, 1)
	e := payload.Eliminations[0]
	s.Equal(model.PlayerName("C"), e.Player)
	s.Equal(model.PlayerName("Q2"), e.Replacement)
	s.Equal(model.RuleFifty, e.Rule)
	s.Equal([model.SeatCount]model.PlayerName{"A", "Q1", "Q2", "D"}, updated.Lineup.Active)
	s.Equal([]model.PlayerName{"B", "C"}, updated.Lineup.Queue)
	s.Equal(1, updated.Level("C"))
}

func (s *ControllerSuite) TestConfirmRoundWithMatchingNames() {
	game := s.createGame("A", "B", "C", "D")
	round := model.NewRound([]model.PlayerName{"A", "B", "C", "D"}, []int{3, 0, 1, 2}, nil)

	_, _, err := s.controller.ConfirmRound(s.ctx, game.ID, round)
	s.NoError(err)
}

func (s *ControllerSuite) TestConfirmRoundRejectsLineupMismatch() {
	game := s.createGame("A", "B", "C", "D")
	round := model.NewRound([]model.PlayerName{"A", "B", "X", "D"}, []int{3, 0, 1, 2}, nil)

	_, _, err := s.controller.ConfirmRound(s.ctx, game.ID, round)
	s.ErrorIs(err, model.ErrLineupMismatch)
}

func (s *ControllerSuite) TestConfirmRoundRejectsNoWinner() {
	game := s.createGame("A", "B", "C", "D")

	_, _, err := s.controller.ConfirmRound(s.ctx, game.ID, model.NewRound(nil, []int{1, 2, 3, 4}, nil))
	s.ErrorIs(err, model.ErrInvalidRound)

	stored, err := s.storage.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Empty(stored.Rounds)
}

func (s *ControllerSuite) TestConfirmRoundNotFound() {
	_, _, err := s.controller.ConfirmRound(s.ctx, "missing", model.Round{})
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *ControllerSuite) TestSubmitRoundNormalizes() {
	game := s.createGame("A", "B", "C", "D")

	updated, _, err := s.controller.SubmitRound(s.ctx, game.ID, rounds.Raw{
		"cards": []any{0.0, 8.0, 11.0, 13.0},
	})
	s.Require().NoError(err)

	s.Equal([model.SeatCount]int{0, 16, 33, 52}, updated.Rounds[0].Points())
	s.Equal(1, updated.Level("D"))
}

func (s *ControllerSuite) TestSubmitRoundUnknownShapeIsRejected() {
	game := s.createGame("A", "B", "C", "D")

	_, _, err := s.controller.SubmitRound(s.ctx, game.ID, rounds.Raw{"foo": "bar"})
	s.ErrorIs(err, model.ErrInvalidRound)
}

// DeleteLastRound tests

func (s *ControllerSuite) TestDeleteLastRoundRestoresState() {
	game := s.createGame("P1", "P2", "C", "D", "Q1")
	s.confirm(game.ID, 24, 10, 0, 1)
	confirmed, _ := s.confirm(game.ID, 1, 15, 0, 2)
	s.Require().Equal(model.PlayerName("P1"), confirmed.OneShot.UsedBy)

	undone, payload, err := s.controller.DeleteLastRound(s.ctx, game.ID)
	s.Require().NoError(err)

	s.Equal(2, payload.RoundNumber)
	s.True(payload.LineupRestored)
	s.Len(undone.Rounds, 1)
	s.Equal(model.OneShot{}, undone.OneShot)
	s.Equal(game.Lineup, undone.Lineup)

	event := s.notifier.last()
	s.Equal(model.EventRoundUndone, event.Type)
	s.Equal(payload, event.Payload)
}

func (s *ControllerSuite) TestDeleteLastRoundEmptyHistory() {
	game := s.createGame("A", "B", "C", "D")
	events := len(s.notifier.events)

	_, _, err := s.controller.DeleteLastRound(s.ctx, game.ID)
	s.ErrorIs(err, model.ErrEmptyHistory)
	s.Len(s.notifier.events, events)
}

// Standings tests

func (s *ControllerSuite) TestStandings() {
	game := s.createGame("A", "B", "C", "D", "E")
	s.confirm(game.ID, 0, 30, 4, 6)
	s.confirm(game.ID, 5, 0, 3, 7)

	standings, err := s.controller.Standings(s.ctx, game.ID)
	s.Require().NoError(err)

	s.Require().Len(standings.Players, 5)
	a := standings.Players[0]
	s.Equal(model.PlayerName("A"), a.Player)
	s.Equal(5, a.Total)
	s.Equal(2, a.RoundsPlayed)
	s.Equal(2.5, a.Average)
	s.Equal(0, a.Seat)

	b := standings.Players[1]
	s.Equal(30, b.Total)
	s.True(b.HoldsOneShot)
	s.Equal(1, b.Level)
	s.Equal(-1, b.Seat)
	s.Equal(0, b.QueuePosition)

	e := standings.Players[4]
	s.Equal(model.PlayerName("E"), e.Player)
	s.Equal(1, e.Seat)
	s.Equal(-1, e.QueuePosition)
	s.Equal(1, e.RoundsPlayed)

	s.Require().Len(standings.Snapshots, 2)
	s.Equal(5, standings.Snapshots[1]["A"])
	s.Equal(0, standings.Snapshots[1]["E"])
}
