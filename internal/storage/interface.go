package storage

import (
	"context"

	"github.com/mcoot/scoreboard/internal/model"
)

// Storage defines the interface for game persistence.
// Records are stored whole; the last write for a game wins.
type Storage interface {
	SaveGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	// ListGames returns every stored game, newest first
	ListGames(ctx context.Context) ([]*model.Game, error)
	DeleteGame(ctx context.Context, id model.GameID) error
}
