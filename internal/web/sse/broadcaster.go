package sse

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/a-h/templ"

	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/services/game"
	"github.com/mcoot/scoreboard/internal/web/views"
)

// SSE event names sent to game pages
const (
	EventRoundConfirmed = "round-confirmed"
	EventRoundUndone    = "round-undone"
	EventGameUpdated    = "game-updated"
	EventGameDeleted    = "game-deleted"
)

// EventData is one SSE event ready to send
type EventData struct {
	EventName string
	HTML      string
}

// Broadcaster pushes re-rendered standings to the pages watching a game.
// It implements game.Notifier.
type Broadcaster struct {
	hubManager *HubManager
	logger     *slog.Logger
}

var _ game.Notifier = (*Broadcaster)(nil)

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// Notify renders the event for the game's watchers, if there are any
func (b *Broadcaster) Notify(ctx context.Context, event model.Event) {
	hub := b.hubManager.GetHub(event.GameID)
	if hub == nil {
		return
	}

	events, err := RenderGameEvent(ctx, event)
	if err != nil {
		b.logger.Error("sse failed to render event",
			slog.String("game_id", string(event.GameID)),
			slog.String("event", string(event.Type)),
			slog.Any("error", err))
		return
	}

	for _, e := range events {
		hub.BroadcastEvent(e.EventName, e.HTML)
	}
}

// RenderGameEvent converts a game event into the SSE events pages listen for.
// Standings, the round form and the round history are sent as out-of-band swaps.
func RenderGameEvent(ctx context.Context, event model.Event) ([]EventData, error) {
	var name string
	var notice templ.Component

	switch event.Type {
	case model.EventRoundConfirmed:
		name = EventRoundConfirmed
		if p, ok := event.Payload.(*model.RoundConfirmedPayload); ok {
			notice = views.RoundConfirmedNotice(p)
		}
	case model.EventRoundUndone:
		name = EventRoundUndone
		if p, ok := event.Payload.(*model.RoundUndonePayload); ok {
			notice = views.RoundUndoneNotice(p)
		}
	case model.EventGameUpdated:
		name = EventGameUpdated
	case model.EventGameDeleted:
		return []EventData{{EventName: EventGameDeleted, HTML: "deleted"}}, nil
	default:
		return nil, nil
	}

	if event.Game == nil {
		return nil, nil
	}

	standings, err := renderString(ctx, views.StandingsTable(game.BuildStandings(event.Game)))
	if err != nil {
		return nil, err
	}
	history, err := renderString(ctx, views.RoundHistory(event.Game))
	if err != nil {
		return nil, err
	}

	form, err := renderString(ctx, views.RoundForm(event.Game))
	if err != nil {
		return nil, err
	}

	html := WrapForOOBSwap(views.StandingsID, standings) +
		WrapForOOBSwap(views.RoundFormID, form) +
		WrapForOOBSwap(views.RoundHistoryID, history)
	if notice != nil {
		text, err := renderString(ctx, notice)
		if err != nil {
			return nil, err
		}
		html += WrapForOOBSwap(views.LastEventID, text)
	}

	return []EventData{{EventName: name, HTML: html}}, nil
}

// WrapForOOBSwap wraps HTML in a div with hx-swap-oob for out-of-band swaps
func WrapForOOBSwap(id, html string) string {
	return `<div id="` + id + `" hx-swap-oob="true">` + html + `</div>`
}

func renderString(ctx context.Context, c templ.Component) (string, error) {
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
