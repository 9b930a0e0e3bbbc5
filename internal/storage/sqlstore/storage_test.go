package sqlstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/scoreboard/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	cfg := DefaultConfig()
	cfg.DSN = ":memory:"

	store, err := New(cfg)
	s.Require().NoError(err)
	s.storage = store
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
}

func newGame(id model.GameID, createdAt time.Time) *model.Game {
	return &model.Game{
		ID:   id,
		Name: "Friday night",
		Lineup: model.Lineup{
			Active: [model.SeatCount]model.PlayerName{"A", "B", "C", "D"},
			Queue:  []model.PlayerName{"E"},
		},
		Rounds: []model.Round{
			model.NewRound([]model.PlayerName{"A", "B", "C", "D"}, []int{0, 4, 16, 33}, []int{0, 4, 8, 11}),
		},
		Levels:              map[model.PlayerName]int{"D": 1},
		OneShot:             model.OneShot{Used: true, UsedBy: "D"},
		PlayerCreationOrder: []model.PlayerName{"A", "B", "C", "D", "E"},
		CreatedAt:           createdAt,
		UpdatedAt:           createdAt,
	}
}

func (s *StorageSuite) TestSaveAndGetGame() {
	game := newGame("game-1", time.Now())

	err := s.storage.SaveGame(s.ctx, game)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Equal(game.ID, retrieved.ID)
	s.Equal(game.Name, retrieved.Name)
	s.Equal(game.Lineup, retrieved.Lineup)
	s.Equal(game.Levels, retrieved.Levels)
	s.Equal(game.OneShot, retrieved.OneShot)
	s.Equal(game.PlayerCreationOrder, retrieved.PlayerCreationOrder)
	s.Require().Len(retrieved.Rounds, 1)
	s.Equal(game.Rounds[0].Seats, retrieved.Rounds[0].Seats)
	s.True(game.CreatedAt.Equal(retrieved.CreatedAt))
}

func (s *StorageSuite) TestGetGameNotFound() {
	_, err := s.storage.GetGame(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestSaveUpserts() {
	game := newGame("game-1", time.Now())
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	game.Name = "Renamed"
	game.Rounds = append(game.Rounds, model.NewRound(nil, []int{5, 0, 1, 2}, nil))
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	retrieved, err := s.storage.GetGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Equal("Renamed", retrieved.Name)
	s.Len(retrieved.Rounds, 2)

	games, err := s.storage.ListGames(s.ctx)
	s.Require().NoError(err)
	s.Len(games, 1)
}

func (s *StorageSuite) TestListGamesNewestFirst() {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	_ = s.storage.SaveGame(s.ctx, newGame("old", base))
	_ = s.storage.SaveGame(s.ctx, newGame("new", base.Add(time.Hour)))
	_ = s.storage.SaveGame(s.ctx, newGame("mid", base.Add(time.Minute)))

	games, err := s.storage.ListGames(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(games, 3)
	s.Equal(model.GameID("new"), games[0].ID)
	s.Equal(model.GameID("mid"), games[1].ID)
	s.Equal(model.GameID("old"), games[2].ID)
}

func (s *StorageSuite) TestListGamesEmpty() {
	games, err := s.storage.ListGames(s.ctx)
	s.Require().NoError(err)
	s.NotNil(games)
	s.Empty(games)
}

func (s *StorageSuite) TestDeleteGame() {
	_ = s.storage.SaveGame(s.ctx, newGame("game-1", time.Now()))

	err := s.storage.DeleteGame(s.ctx, "game-1")
	s.Require().NoError(err)

	_, err = s.storage.GetGame(s.ctx, "game-1")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestDeleteMissingGameIsNoop() {
	s.NoError(s.storage.DeleteGame(s.ctx, "nonexistent"))
}

func (s *StorageSuite) TestFileDatabasePersistsAcrossOpens() {
	cfg := DefaultConfig()
	cfg.DSN = filepath.Join(s.T().TempDir(), "nested", "games.db")

	first, err := New(cfg)
	s.Require().NoError(err)
	s.Require().NoError(first.SaveGame(s.ctx, newGame("game-1", time.Now())))
	s.Require().NoError(first.Close())

	second, err := New(cfg)
	s.Require().NoError(err)
	defer second.Close()

	retrieved, err := second.GetGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Equal("Friday night", retrieved.Name)
}

func (s *StorageSuite) TestEmptyDSNIsRejected() {
	cfg := DefaultConfig()
	cfg.DSN = "  "

	_, err := New(cfg)
	s.Error(err)
}
