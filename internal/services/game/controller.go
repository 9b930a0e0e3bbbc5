package game

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mcoot/scoreboard/internal/dependencies/clock"
	"github.com/mcoot/scoreboard/internal/dependencies/ids"
	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/services/elimination"
	"github.com/mcoot/scoreboard/internal/services/rounds"
	"github.com/mcoot/scoreboard/internal/storage"
)

// Controller loads a game, runs it through the elimination engine, saves it and
// tells the notifier. It holds no game state of its own.
type Controller struct {
	storage  storage.Storage
	notifier Notifier
	clock    clock.Clock
	ids      ids.Generator
	logger   *slog.Logger
}

// NewController creates a new game Controller
func NewController(
	storage storage.Storage,
	notifier Notifier,
	clock clock.Clock,
	ids ids.Generator,
	logger *slog.Logger,
) *Controller {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Controller{
		storage:  storage,
		notifier: notifier,
		clock:    clock,
		ids:      ids,
		logger:   logger.With(slog.String("component", "game-controller")),
	}
}

// GameUpdate holds the fields an update may change; nil fields are left alone
type GameUpdate struct {
	Name   *string
	Lineup *model.Lineup
}

// CreateGame starts a game. The first four players are seated in order and
// the rest wait in the queue.
func (c *Controller) CreateGame(ctx context.Context, name string, players []model.PlayerName) (*model.Game, error) {
	names := make([]model.PlayerName, 0, len(players))
	for _, p := range players {
		p = model.PlayerName(strings.TrimSpace(string(p)))
		if !p.IsEmpty() {
			names = append(names, p)
		}
	}
	if len(names) == 0 {
		return nil, model.ErrInsufficientPlayers
	}
	if dup, ok := firstDuplicate(names); ok {
		return nil, fmt.Errorf("%w: %s", model.ErrDuplicatePlayer, dup)
	}

	lineup := model.NewLineup(names)

	now := c.clock.Now()
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Game " + now.Format("2006-01-02 15:04")
	}

	game := &model.Game{
		ID:                  model.GameID(c.ids.NewID()),
		Name:                name,
		Lineup:              lineup,
		Levels:              make(map[model.PlayerName]int),
		PlayerCreationOrder: names,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := c.storage.SaveGame(ctx, game); err != nil {
		c.logger.Error("failed to save game",
			slog.String("game_id", string(game.ID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.logger.Info("game created",
		slog.String("game_id", string(game.ID)),
		slog.Int("player_count", len(names)),
		slog.Int("queued", len(lineup.Queue)),
	)

	c.notify(ctx, model.EventGameCreated, game.ID, game, nil)
	return game, nil
}

// GetGame retrieves a game by ID
func (c *Controller) GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	return c.storage.GetGame(ctx, gameID)
}

// ListGames returns every game, newest first
func (c *Controller) ListGames(ctx context.Context) ([]*model.Game, error) {
	return c.storage.ListGames(ctx)
}

// UpdateGame renames a game and/or replaces its lineup. Round history is never
// touched by an update; derived levels and the one-shot flag are rebuilt
// because a lineup change can introduce players.
func (c *Controller) UpdateGame(ctx context.Context, gameID model.GameID, update GameUpdate) (*model.Game, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name != "" {
			game.Name = name
		}
	}

	if update.Lineup != nil {
		lineup, err := cleanLineup(*update.Lineup)
		if err != nil {
			return nil, err
		}
		game.Lineup = lineup
		for _, p := range lineup.Members() {
			if !containsName(game.PlayerCreationOrder, p) {
				game.PlayerCreationOrder = append(game.PlayerCreationOrder, p)
			}
		}
		game = elimination.Recompute(game)
	}

	game.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	c.logger.Info("game updated",
		slog.String("game_id", string(gameID)),
		slog.Bool("lineup_changed", update.Lineup != nil),
	)

	c.notify(ctx, model.EventGameUpdated, gameID, game, nil)
	return game, nil
}

// DeleteGame removes a game
func (c *Controller) DeleteGame(ctx context.Context, gameID model.GameID) error {
	if _, err := c.storage.GetGame(ctx, gameID); err != nil {
		return err
	}
	if err := c.storage.DeleteGame(ctx, gameID); err != nil {
		return err
	}

	c.logger.Info("game deleted", slog.String("game_id", string(gameID)))

	c.notify(ctx, model.EventGameDeleted, gameID, nil, nil)
	return nil
}

// SubmitRound normalizes a raw round record and confirms it.
// Records of unknown shape normalize to an empty round, which fails validation.
func (c *Controller) SubmitRound(ctx context.Context, gameID model.GameID, raw rounds.Raw) (*model.Game, *model.RoundConfirmedPayload, error) {
	round, shape := rounds.Normalize(raw)
	if shape == rounds.ShapeUnknown {
		c.logger.Warn("round record has no known shape",
			slog.String("game_id", string(gameID)),
			slog.Int("keys", len(raw)),
		)
	}
	return c.ConfirmRound(ctx, gameID, round)
}

// ConfirmRound validates a round against the seated players, applies it and
// saves the result. A round without names is credited to the seated players.
func (c *Controller) ConfirmRound(ctx context.Context, gameID model.GameID, round model.Round) (*model.Game, *model.RoundConfirmedPayload, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}

	if !round.HasPlayers() {
		round = round.WithPlayers(game.Lineup.Active)
	} else if round.PlayerNames() != game.Lineup.Active {
		return nil, nil, fmt.Errorf("%w: got %v, seated %v",
			model.ErrLineupMismatch, round.PlayerNames(), game.Lineup.Active)
	}

	if err := rounds.Validate(round); err != nil {
		return nil, nil, err
	}

	now := c.clock.Now()
	round.ConfirmedAt = now

	next, outcome := elimination.ConfirmRound(game, round)
	next.UpdatedAt = now

	if err := c.storage.SaveGame(ctx, next); err != nil {
		c.logger.Error("failed to save game",
			slog.String("game_id", string(gameID)),
			slog.String("error", err.Error()),
		)
		return nil, nil, err
	}

	payload := &model.RoundConfirmedPayload{
		RoundNumber:      next.RoundCount(),
		Eliminations:     outcome.Eliminations,
		OneShotTriggered: outcome.OneShotTriggered,
	}

	c.logger.Info("round confirmed",
		slog.String("game_id", string(gameID)),
		slog.Int("round", payload.RoundNumber),
		slog.Int("eliminations", len(outcome.Eliminations)),
	)
	for _, e := range outcome.Eliminations {
		c.logger.Info("player eliminated",
			slog.String("game_id", string(gameID)),
			slog.String("player", string(e.Player)),
			slog.String("replacement", string(e.Replacement)),
			slog.String("rule", string(e.Rule)),
			slog.Int("total", e.NewTotal),
			slog.Int("level", e.Level),
		)
	}

	c.notify(ctx, model.EventRoundConfirmed, gameID, next, payload)
	return next, payload, nil
}

// DeleteLastRound removes the most recent round and rebuilds derived state
func (c *Controller) DeleteLastRound(ctx context.Context, gameID model.GameID) (*model.Game, *model.RoundUndonePayload, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}

	next, result, err := elimination.UndoLastRound(game)
	if err != nil {
		return nil, nil, err
	}
	next.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveGame(ctx, next); err != nil {
		return nil, nil, err
	}

	payload := &model.RoundUndonePayload{
		RoundNumber:    result.RoundNumber,
		LineupRestored: result.LineupRestored,
		Removed:        result.Removed,
	}

	c.logger.Info("round deleted",
		slog.String("game_id", string(gameID)),
		slog.Int("round", result.RoundNumber),
		slog.Bool("lineup_restored", result.LineupRestored),
	)

	c.notify(ctx, model.EventRoundUndone, gameID, next, payload)
	return next, payload, nil
}

// Standings returns the computed standings for a game
func (c *Controller) Standings(ctx context.Context, gameID model.GameID) (*Standings, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return BuildStandings(game), nil
}

func (c *Controller) notify(ctx context.Context, eventType model.EventType, gameID model.GameID, game *model.Game, payload any) {
	c.notifier.Notify(ctx, model.Event{
		Type:      eventType,
		Timestamp: c.clock.Now(),
		GameID:    gameID,
		Game:      game,
		Payload:   payload,
	})
}
