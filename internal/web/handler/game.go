package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/gorilla/mux"

	"github.com/mcoot/scoreboard/internal/dependencies/ids"
	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/services/game"
	"github.com/mcoot/scoreboard/internal/services/rounds"
	"github.com/mcoot/scoreboard/internal/web/middleware"
	"github.com/mcoot/scoreboard/internal/web/sse"
	"github.com/mcoot/scoreboard/internal/web/views"
)

// GameHandler handles game pages and form actions
type GameHandler struct {
	gameController *game.Controller
	hubManager     *sse.HubManager
	ids            ids.Generator
	logger         *slog.Logger
}

// NewGameHandler creates a new GameHandler
func NewGameHandler(gameController *game.Controller, hubManager *sse.HubManager, idGen ids.Generator, logger *slog.Logger) *GameHandler {
	return &GameHandler{
		gameController: gameController,
		hubManager:     hubManager,
		ids:            idGen,
		logger:         logger,
	}
}

// View renders a game's standings and history
func (h *GameHandler) View(w http.ResponseWriter, r *http.Request) {
	st, err := h.gameController.Standings(r.Context(), gameID(r))
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	data := views.PageData{
		Title: st.Game.Name,
		Flash: middleware.GetFlash(r.Context()),
	}
	render(w, r, http.StatusOK, views.Layout(data, views.GamePage(st)))
}

// Create handles the new game form
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, "error", "Invalid form data")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	var players []model.PlayerName
	for _, line := range strings.FieldsFunc(r.FormValue("players"), func(c rune) bool { return c == '\n' || c == ',' }) {
		if name := strings.TrimSpace(line); name != "" {
			players = append(players, model.PlayerName(name))
		}
	}

	g, err := h.gameController.CreateGame(r.Context(), r.FormValue("name"), players)
	if err != nil {
		middleware.SetFlash(w, "error", formError(err))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	middleware.SetFlash(w, "success", "Game created")
	http.Redirect(w, r, "/games/"+string(g.ID), http.StatusSeeOther)
}

// ConfirmRound handles the round entry form
func (h *GameHandler) ConfirmRound(w http.ResponseWriter, r *http.Request) {
	id := gameID(r)
	back := "/games/" + string(id)

	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, "error", "Invalid form data")
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	raw := make(rounds.Raw)
	for key, values := range r.PostForm {
		if len(values) > 0 && values[0] != "" {
			raw[key] = values[0]
		}
	}

	if _, payload, err := h.gameController.SubmitRound(r.Context(), id, raw); err != nil {
		middleware.SetFlash(w, "error", formError(err))
	} else {
		middleware.SetFlash(w, "success", roundMessage(payload))
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// Undo handles the undo button
func (h *GameHandler) Undo(w http.ResponseWriter, r *http.Request) {
	id := gameID(r)

	if _, _, err := h.gameController.DeleteLastRound(r.Context(), id); err != nil {
		middleware.SetFlash(w, "error", formError(err))
	} else {
		middleware.SetFlash(w, "info", "Last round removed")
	}
	http.Redirect(w, r, "/games/"+string(id), http.StatusSeeOther)
}

// Events streams the game's updates over SSE
func (h *GameHandler) Events(w http.ResponseWriter, r *http.Request) {
	id := gameID(r)
	if _, err := h.gameController.GetGame(r.Context(), id); err != nil {
		h.renderError(w, r, err)
		return
	}

	hub := h.hubManager.GetOrCreateHub(id)
	sse.ServeSSE(w, r, hub, h.ids.NewID())
}

func (h *GameHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, model.ErrGameNotFound) {
		render(w, r, http.StatusNotFound, views.Layout(views.PageData{Title: "Not found"}, views.NotFound("That game does not exist.")))
		return
	}
	h.logger.Error("web request failed", slog.String("path", r.URL.Path), slog.Any("error", err))
	render(w, r, http.StatusInternalServerError, views.Layout(views.PageData{Title: "Error"}, views.ErrorMessage("Something went wrong.")))
}

func roundMessage(p *model.RoundConfirmedPayload) string {
	msg := "Round confirmed"
	for _, e := range p.Eliminations {
		if e.Seat >= 0 {
			msg += ", " + string(e.Player) + " is out"
		}
	}
	return msg
}

// formError turns a controller error into a message for the user
func formError(err error) string {
	switch {
	case errors.Is(err, model.ErrInvalidRound):
		return "Round not saved: " + err.Error()
	case errors.Is(err, model.ErrInsufficientPlayers):
		return "Enter at least one player"
	case errors.Is(err, model.ErrDuplicatePlayer):
		return "Player names must be unique"
	case errors.Is(err, model.ErrLineupMismatch):
		return "Seats changed, reload and try again"
	case errors.Is(err, model.ErrEmptyHistory):
		return "There are no rounds to undo"
	case errors.Is(err, model.ErrGameNotFound):
		return "Game not found"
	default:
		return "Something went wrong"
	}
}

func gameID(r *http.Request) model.GameID {
	return model.GameID(mux.Vars(r)["id"])
}

func render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = c.Render(r.Context(), w)
}
