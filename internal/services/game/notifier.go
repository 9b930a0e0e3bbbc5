package game

import (
	"context"

	"github.com/mcoot/scoreboard/internal/model"
)

// Notifier is told about every successful mutation of a game.
// Notifications are advisory; listeners re-fetch state as needed.
type Notifier interface {
	Notify(ctx context.Context, event model.Event)
}

// NopNotifier discards events
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, model.Event) {}

// Notifiers fans an event out to several notifiers in order
type Notifiers []Notifier

func (ns Notifiers) Notify(ctx context.Context, event model.Event) {
	for _, n := range ns {
		n.Notify(ctx, event)
	}
}
