package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/mcoot/scoreboard/internal/middleware"
)

// Logging creates request logging middleware for the web pages.
// Event streams stay open, so they are logged once on connect instead.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	logger = logger.With(slog.String("component", "web"))
	return middleware.Logging(logger, func(r *http.Request) bool {
		if !strings.HasSuffix(r.URL.Path, "/events") {
			return false
		}
		logger.Info("event stream opened", slog.String("path", r.URL.Path))
		return true
	})
}
