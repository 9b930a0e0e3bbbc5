package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/scoreboard/internal/services/game"
	"github.com/mcoot/scoreboard/internal/web/middleware"
	"github.com/mcoot/scoreboard/internal/web/views"
)

// HomeHandler handles the game list page
type HomeHandler struct {
	gameController *game.Controller
	logger         *slog.Logger
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(gameController *game.Controller, logger *slog.Logger) *HomeHandler {
	return &HomeHandler{
		gameController: gameController,
		logger:         logger,
	}
}

// Home renders the list of games
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	games, err := h.gameController.ListGames(r.Context())
	if err != nil {
		h.logger.Error("failed to list games", slog.Any("error", err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := views.PageData{
		Title: "Games",
		Flash: middleware.GetFlash(r.Context()),
	}
	render(w, r, http.StatusOK, views.Layout(data, views.HomePage(games)))
}
