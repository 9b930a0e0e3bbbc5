package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/scoreboard/internal/api"
	"github.com/mcoot/scoreboard/internal/api/apierr"
	"github.com/mcoot/scoreboard/internal/api/response"
	"github.com/mcoot/scoreboard/internal/factory"
	"github.com/mcoot/scoreboard/internal/testutil"
)

type APISuite struct {
	suite.Suite
	app     *factory.TestApp
	handler http.Handler
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	s.app = factory.NewTestApp()
	s.handler = api.NewRouter(api.RouterConfig{
		Logger:         testutil.NopLogger(),
		GameController: s.app.GameController,
	})
}

func (s *APISuite) TearDownTest() {
	s.NoError(s.app.Close())
}

func (s *APISuite) request(method, path string, body any) *httptest.ResponseRecorder {
	var reqBody bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			reqBody.WriteString(raw)
		} else {
			s.Require().NoError(json.NewEncoder(&reqBody).Encode(body))
		}
	}

	req := httptest.NewRequest(method, path, &reqBody)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}

func (s *APISuite) decode(rr *httptest.ResponseRecorder, into any) {
	s.Require().NoError(json.NewDecoder(rr.Body).Decode(into), rr.Body.String())
}

func (s *APISuite) assertError(rr *httptest.ResponseRecorder, status int, code string) {
	s.Equal(status, rr.Code, rr.Body.String())
	var resp apierr.ErrorResponse
	s.decode(rr, &resp)
	s.Equal(code, resp.Error.Code)
}

func (s *APISuite) createGame(players ...string) response.Game {
	s.app.MockClock.Advance(time.Minute)
	rr := s.request(http.MethodPost, "/api/v1/games", map[string]any{"name": "Friday", "players": players})
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())
	var g response.Game
	s.decode(rr, &g)
	return g
}

func (s *APISuite) confirm(id string, body any) response.RoundConfirmed {
	rr := s.request(http.MethodPost, "/api/v1/games/"+id+"/rounds", body)
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())
	var resp response.RoundConfirmed
	s.decode(rr, &resp)
	return resp
}

// Health

func (s *APISuite) TestHealthCheck() {
	rr := s.request(http.MethodGet, "/api/v1/health", nil)

	s.Equal(http.StatusOK, rr.Code)
	var resp response.Health
	s.decode(rr, &resp)
	s.Equal("ok", resp.Status)
}

func (s *APISuite) TestCORSHeaders() {
	rr := s.request(http.MethodGet, "/api/v1/health", nil)
	s.Equal("*", rr.Header().Get("Access-Control-Allow-Origin"))

	rr = s.request(http.MethodOptions, "/api/v1/games/abc/rounds", nil)
	s.Equal(http.StatusNoContent, rr.Code)
	s.Contains(rr.Header().Get("Access-Control-Allow-Methods"), "POST")
}

// Games

func (s *APISuite) TestCreateGame() {
	s.app.MockIDs.Queue("game-1")

	g := s.createGame("Ann", "Bob", "Cy", "Dee", "Eve")

	s.Equal("game-1", g.ID)
	s.Equal("Friday", g.Name)
	s.Equal([]string{"Ann", "Bob", "Cy", "Dee"}, g.Lineup.Active)
	s.Equal([]string{"Eve"}, g.Lineup.Queue)
	s.Equal([]string{"Ann", "Bob", "Cy", "Dee", "Eve"}, g.PlayerCreationOrder)
	s.Equal(0, g.RoundCount)
	s.False(g.OneShot.Used)
}

func (s *APISuite) TestCreateGameFewerThanFourLeavesEmptySeats() {
	g := s.createGame("Ann", "Bob")

	s.Equal([]string{"Ann", "Bob", "", ""}, g.Lineup.Active)
	s.Empty(g.Lineup.Queue)
}

func (s *APISuite) TestCreateGameErrors() {
	rr := s.request(http.MethodPost, "/api/v1/games", map[string]any{"players": []string{}})
	s.assertError(rr, http.StatusBadRequest, apierr.CodeInsufficientPlayers)

	rr = s.request(http.MethodPost, "/api/v1/games", map[string]any{"players": []string{"Ann", "Ann"}})
	s.assertError(rr, http.StatusConflict, apierr.CodeDuplicatePlayer)

	rr = s.request(http.MethodPost, "/api/v1/games", "{not json")
	s.assertError(rr, http.StatusBadRequest, apierr.CodeInvalidRequest)
}

func (s *APISuite) TestListGamesNewestFirst() {
	first := s.createGame("A", "B", "C", "D")
	second := s.createGame("E", "F", "G", "H")

	rr := s.request(http.MethodGet, "/api/v1/games", nil)
	s.Equal(http.StatusOK, rr.Code)

	var resp response.GameList
	s.decode(rr, &resp)
	s.Require().Len(resp.Games, 2)
	s.Equal(second.ID, resp.Games[0].ID)
	s.Equal(first.ID, resp.Games[1].ID)
}

func (s *APISuite) TestListGamesIncludeRounds() {
	g := s.createGame("A", "B", "C", "D")
	s.confirm(g.ID, map[string]any{"round": map[string]any{"points": []int{0, 1, 2, 3}}})

	for _, query := range []string{"include_rounds=true", "includeRounds=true"} {
		rr := s.request(http.MethodGet, "/api/v1/games?"+query, nil)
		s.Equal(http.StatusOK, rr.Code)

		var resp response.FullGameList
		s.decode(rr, &resp)
		s.Require().Len(resp.Games, 1)
		s.Require().Len(resp.Games[0].Rounds, 1)
		s.Equal([]int{0, 1, 2, 3}, resp.Games[0].Rounds[0].Points)
	}
}

func (s *APISuite) TestGetGame() {
	g := s.createGame("A", "B", "C", "D")

	rr := s.request(http.MethodGet, "/api/v1/games/"+g.ID, nil)
	s.Equal(http.StatusOK, rr.Code)
	var got response.Game
	s.decode(rr, &got)
	s.Equal(g.ID, got.ID)

	rr = s.request(http.MethodGet, "/api/v1/games/missing", nil)
	s.assertError(rr, http.StatusNotFound, apierr.CodeGameNotFound)
}

func (s *APISuite) TestUpdateGameRenameAndLineup() {
	g := s.createGame("A", "B", "C", "D")
	s.confirm(g.ID, map[string]any{"points": []int{0, 10, 20, 30}})

	rr := s.request(http.MethodPatch, "/api/v1/games/"+g.ID, map[string]any{
		"name":   "Saturday",
		"active": []string{"A", "B", "E", "D"},
		"queue":  []string{"C"},
	})
	s.Equal(http.StatusOK, rr.Code, rr.Body.String())

	var got response.Game
	s.decode(rr, &got)
	s.Equal("Saturday", got.Name)
	s.Equal([]string{"A", "B", "E", "D"}, got.Lineup.Active)
	s.Equal([]string{"C"}, got.Lineup.Queue)
	s.Equal(1, got.RoundCount)
	s.Contains(got.PlayerCreationOrder, "E")
}

func (s *APISuite) TestUpdateGameErrors() {
	g := s.createGame("A", "B", "C", "D")

	rr := s.request(http.MethodPut, "/api/v1/games/"+g.ID, map[string]any{"active": []string{"A", "A"}})
	s.assertError(rr, http.StatusConflict, apierr.CodeDuplicatePlayer)

	rr = s.request(http.MethodPut, "/api/v1/games/"+g.ID, map[string]any{"active": []string{"A", "B", "C", "D", "E"}})
	s.assertError(rr, http.StatusBadRequest, apierr.CodeInvalidRequest)

	rr = s.request(http.MethodPatch, "/api/v1/games/missing", map[string]any{"name": "x"})
	s.assertError(rr, http.StatusNotFound, apierr.CodeGameNotFound)
}

func (s *APISuite) TestDeleteGame() {
	g := s.createGame("A", "B", "C", "D")

	rr := s.request(http.MethodDelete, "/api/v1/games/"+g.ID, nil)
	s.Equal(http.StatusNoContent, rr.Code)

	rr = s.request(http.MethodGet, "/api/v1/games/"+g.ID, nil)
	s.assertError(rr, http.StatusNotFound, apierr.CodeGameNotFound)

	rr = s.request(http.MethodDelete, "/api/v1/games/"+g.ID, nil)
	s.assertError(rr, http.StatusNotFound, apierr.CodeGameNotFound)
}

// Rounds

func (s *APISuite) TestConfirmRoundRotatesOnCrossing() {
	g := s.createGame("A", "B", "C", "D", "E")
	s.confirm(g.ID, map[string]any{"points": []int{0, 10, 20, 24}})

	resp := s.confirm(g.ID, map[string]any{"round": map[string]any{
		"player1Name": "A", "player1Score": 16,
		"player2Name": "B", "player2Score": 0,
		"player3Name": "C", "player3Score": 33,
		"player4Name": "D", "player4Score": 52,
	}})

	s.Equal(2, resp.RoundNumber)
	s.Require().Len(resp.Eliminations, 2)
	s.Equal("D", resp.Eliminations[0].Player)
	s.Equal("E", resp.Eliminations[0].Replacement)
	s.Equal("fifty", resp.Eliminations[0].Rule)
	s.Equal("C", resp.Eliminations[1].Player)
	s.Equal("D", resp.Eliminations[1].Replacement)
	s.Equal([]string{"A", "B", "D", "E"}, resp.Game.Lineup.Active)
	s.Equal([]string{"C"}, resp.Game.Lineup.Queue)
	s.Equal(1, resp.Game.EliminationLevels["C"])
	s.Equal(1, resp.Game.EliminationLevels["D"])
}

func (s *APISuite) TestConfirmRoundOneShot() {
	g := s.createGame("A", "B", "C", "D", "E")

	resp := s.confirm(g.ID, map[string]any{"cards": []int{0, 13, 1, 2}})

	s.True(resp.OneShotTriggered)
	s.Equal("B", resp.Game.OneShot.UsedBy)
	s.Require().Len(resp.Game.Rounds, 1)
	s.Equal([]int{0, 52, 1, 2}, resp.Game.Rounds[0].Points)
}

func (s *APISuite) TestConfirmRoundErrors() {
	g := s.createGame("A", "B", "C", "D")

	rr := s.request(http.MethodPost, "/api/v1/games/"+g.ID+"/rounds", map[string]any{"points": []int{0, 0, 1, 2}})
	s.assertError(rr, http.StatusBadRequest, apierr.CodeInvalidRound)

	rr = s.request(http.MethodPost, "/api/v1/games/"+g.ID+"/rounds", map[string]any{"points": []int{0, -1, 1, 2}})
	s.assertError(rr, http.StatusBadRequest, apierr.CodeInvalidRound)

	rr = s.request(http.MethodPost, "/api/v1/games/"+g.ID+"/rounds", map[string]any{"points": []int{-3, 5, 7, 9}})
	s.assertError(rr, http.StatusBadRequest, apierr.CodeInvalidRound)

	rr = s.request(http.MethodPost, "/api/v1/games/"+g.ID+"/rounds", map[string]any{"unrelated": true})
	s.assertError(rr, http.StatusBadRequest, apierr.CodeInvalidRound)

	rr = s.request(http.MethodPost, "/api/v1/games/"+g.ID+"/rounds", map[string]any{
		"players": []string{"A", "B", "X", "D"},
		"points":  []int{0, 1, 2, 3},
	})
	s.assertError(rr, http.StatusConflict, apierr.CodeLineupMismatch)

	rr = s.request(http.MethodPost, "/api/v1/games/missing/rounds", map[string]any{"points": []int{0, 1, 2, 3}})
	s.assertError(rr, http.StatusNotFound, apierr.CodeGameNotFound)

	rr = s.request(http.MethodPost, "/api/v1/games/"+g.ID+"/rounds", "[1, 2")
	s.assertError(rr, http.StatusBadRequest, apierr.CodeInvalidRequest)
}

func (s *APISuite) TestDeleteLastRound() {
	g := s.createGame("A", "B", "C", "D", "E")
	s.confirm(g.ID, map[string]any{"points": []int{0, 10, 20, 30}})
	s.confirm(g.ID, map[string]any{"points": []int{0, 5, 5, 30}})

	rr := s.request(http.MethodDelete, "/api/v1/games/"+g.ID+"/rounds/last", nil)
	s.Equal(http.StatusOK, rr.Code, rr.Body.String())

	var resp response.RoundUndone
	s.decode(rr, &resp)
	s.Equal(2, resp.RoundNumber)
	s.True(resp.LineupRestored)
	s.Equal([]int{0, 5, 5, 30}, resp.Removed.Points)
	s.Equal(1, resp.Game.RoundCount)
	s.Equal([]string{"A", "B", "C", "E"}, resp.Game.Lineup.Active)
	s.Equal("D", resp.Game.OneShot.UsedBy)
}

func (s *APISuite) TestDeleteLastRoundEmptyHistory() {
	g := s.createGame("A", "B", "C", "D")

	rr := s.request(http.MethodDelete, "/api/v1/games/"+g.ID+"/rounds/last", nil)
	s.assertError(rr, http.StatusConflict, apierr.CodeEmptyHistory)
}

// Standings

func (s *APISuite) TestStandings() {
	g := s.createGame("A", "B", "C", "D", "E")
	s.confirm(g.ID, map[string]any{"points": []int{0, 7, 12, 3}})
	s.confirm(g.ID, map[string]any{"points": []int{8, 0, 1, 2}})

	rr := s.request(http.MethodGet, "/api/v1/games/"+g.ID+"/standings", nil)
	s.Equal(http.StatusOK, rr.Code)

	var resp response.Standings
	s.decode(rr, &resp)
	s.Equal(g.ID, resp.GameID)
	s.Require().Len(resp.Players, 5)

	a := resp.Players[0]
	s.Equal("A", a.Player)
	s.Equal(8, a.Total)
	s.Equal(2, a.RoundsPlayed)
	s.Equal(4.0, a.Average)
	s.Require().NotNil(a.Seat)
	s.Equal(0, *a.Seat)
	s.Nil(a.QueuePosition)

	e := resp.Players[4]
	s.Equal("E", e.Player)
	s.Equal(0, e.RoundsPlayed)
	s.Nil(e.Seat)
	s.Require().NotNil(e.QueuePosition)
	s.Equal(0, *e.QueuePosition)

	s.Require().Len(resp.Snapshots, 2)
	s.Equal(map[string]int{"A": 0, "B": 7, "C": 12, "D": 3, "E": 0}, resp.Snapshots[0])
	s.Equal(13, resp.Snapshots[1]["C"])
}

func (s *APISuite) TestStandingsNotFound() {
	rr := s.request(http.MethodGet, "/api/v1/games/missing/standings", nil)
	s.assertError(rr, http.StatusNotFound, apierr.CodeGameNotFound)
}
