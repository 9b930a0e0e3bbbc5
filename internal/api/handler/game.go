package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/scoreboard/internal/api/apierr"
	"github.com/mcoot/scoreboard/internal/api/request"
	"github.com/mcoot/scoreboard/internal/api/response"
	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/services/game"
	"github.com/mcoot/scoreboard/internal/services/rounds"
)

// GameHandler handles game-related endpoints
type GameHandler struct {
	gameController *game.Controller
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameController *game.Controller) *GameHandler {
	return &GameHandler{
		gameController: gameController,
	}
}

// List handles GET /api/v1/games
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	games, err := h.gameController.ListGames(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	q := r.URL.Query()
	includeRounds, _ := strconv.ParseBool(q.Get("include_rounds"))
	if !includeRounds {
		// camelCase form sent by the browser visualizer
		includeRounds, _ = strconv.ParseBool(q.Get("includeRounds"))
	}
	if includeRounds {
		resp := response.FullGameList{Games: make([]response.Game, len(games))}
		for i, g := range games {
			resp.Games[i] = response.GameFromModel(g)
		}
		response.JSON(w, http.StatusOK, resp)
		return
	}

	resp := response.GameList{Games: make([]response.GameSummary, len(games))}
	for i, g := range games {
		resp.Games[i] = response.GameSummaryFromModel(g)
	}
	response.JSON(w, http.StatusOK, resp)
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("Invalid request body"))
		return
	}

	g, err := h.gameController.CreateGame(r.Context(), req.Name, playerNames(req.Players))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.Created(w, response.GameFromModel(g))
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	g, err := h.gameController.GetGame(r.Context(), gameID(r))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}

// Update handles PATCH and PUT /api/v1/games/{id}
func (h *GameHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("Invalid request body"))
		return
	}

	update := game.GameUpdate{Name: req.Name}
	if req.HasLineup() {
		if len(req.Active) > model.SeatCount {
			apierr.WriteError(w, apierr.NewInvalidRequestError("At most 4 active players"))
			return
		}
		var lineup model.Lineup
		for i, p := range req.Active {
			lineup.Active[i] = model.PlayerName(p)
		}
		lineup.Queue = playerNames(req.Queue)
		update.Lineup = &lineup
	}

	g, err := h.gameController.UpdateGame(r.Context(), gameID(r), update)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}

// Delete handles DELETE /api/v1/games/{id}
func (h *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.gameController.DeleteGame(r.Context(), gameID(r)); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// ConfirmRound handles POST /api/v1/games/{id}/rounds.
// The round may be wrapped as {"round": {...}} or sent as the body itself.
func (h *GameHandler) ConfirmRound(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("Invalid request body"))
		return
	}

	raw := rounds.Raw(body)
	if wrapped, ok := body["round"].(map[string]any); ok {
		raw = rounds.Raw(wrapped)
	}

	g, payload, err := h.gameController.SubmitRound(r.Context(), gameID(r), raw)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.Created(w, response.RoundConfirmedFromModel(g, payload))
}

// DeleteLastRound handles DELETE /api/v1/games/{id}/rounds/last
func (h *GameHandler) DeleteLastRound(w http.ResponseWriter, r *http.Request) {
	g, payload, err := h.gameController.DeleteLastRound(r.Context(), gameID(r))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoundUndoneFromModel(g, payload))
}

// Standings handles GET /api/v1/games/{id}/standings
func (h *GameHandler) Standings(w http.ResponseWriter, r *http.Request) {
	st, err := h.gameController.Standings(r.Context(), gameID(r))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.StandingsFromModel(st))
}

func gameID(r *http.Request) model.GameID {
	return model.GameID(mux.Vars(r)["id"])
}

func playerNames(in []string) []model.PlayerName {
	out := make([]model.PlayerName, 0, len(in))
	for _, p := range in {
		out = append(out, model.PlayerName(p))
	}
	return out
}
