package factory

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/services/rounds"
	"github.com/mcoot/scoreboard/internal/storage/memory"
	redisstorage "github.com/mcoot/scoreboard/internal/storage/redis"
	"github.com/mcoot/scoreboard/internal/storage/sqlstore"
	"github.com/mcoot/scoreboard/internal/web/sse"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

func (s *IntegrationSuite) TearDownTest() {
	s.NoError(s.app.Close())
}

func (s *IntegrationSuite) submit(id model.GameID, raw rounds.Raw) (*model.Game, *model.RoundConfirmedPayload) {
	s.app.MockClock.Advance(time.Minute)
	g, payload, err := s.app.GameController.SubmitRound(s.ctx, id, raw)
	s.Require().NoError(err)
	return g, payload
}

// Test: a full evening from creation through rotations and an undo
func (s *IntegrationSuite) TestCompleteGameFlow() {
	s.app.MockIDs.Queue("GAME01")

	// Step 1: create with five players; the fifth waits
	g, err := s.app.GameController.CreateGame(s.ctx, "Friday", []model.PlayerName{"Ann", "Bob", "Cy", "Dee", "Eve"})
	s.Require().NoError(err)
	s.Equal(model.GameID("GAME01"), g.ID)
	s.Equal([]model.PlayerName{"Eve"}, g.Lineup.Queue)

	// Step 2: card counts in the seat-key shape; points are derived
	g, payload := s.submit(g.ID, rounds.Raw{"cards1": 0, "cards2": 9, "cards3": 5, "cards4": 7})
	s.Equal(1, payload.RoundNumber)
	s.Equal([model.SeatCount]int{0, 18, 5, 7}, g.Rounds[0].Points())
	s.Empty(payload.Eliminations)

	// Step 3: Bob reaches 25 first and takes the one-shot rotation
	g, payload = s.submit(g.ID, rounds.Raw{"points": []any{3, 8, 0, 10}})
	s.True(payload.OneShotTriggered)
	s.Equal(model.OneShot{Used: true, UsedBy: "Bob"}, g.OneShot)
	s.Equal([model.SeatCount]model.PlayerName{"Ann", "Eve", "Cy", "Dee"}, g.Lineup.Active)
	s.Equal([]model.PlayerName{"Bob"}, g.Lineup.Queue)

	// Step 4: Dee crosses 50 and Bob comes back in
	g, payload = s.submit(g.ID, rounds.Raw{
		"players": []any{"Ann", "Eve", "Cy", "Dee"},
		"points":  []any{0, 2, 4, 40},
	})
	s.Require().Len(payload.Eliminations, 1)
	s.Equal(model.PlayerName("Bob"), payload.Eliminations[0].Replacement)
	s.Equal([model.SeatCount]model.PlayerName{"Ann", "Eve", "Cy", "Bob"}, g.Lineup.Active)
	s.Equal(1, g.Level("Dee"))

	// Step 5: undo restores the seats and the levels
	g, undone, err := s.app.GameController.DeleteLastRound(s.ctx, g.ID)
	s.Require().NoError(err)
	s.True(undone.LineupRestored)
	s.Equal(3, undone.RoundNumber)
	s.Equal([model.SeatCount]model.PlayerName{"Ann", "Eve", "Cy", "Dee"}, g.Lineup.Active)
	s.Equal(0, g.Level("Dee"))
	s.Equal(1, g.Level("Bob"))
	s.Equal(model.OneShot{Used: true, UsedBy: "Bob"}, g.OneShot)

	// Step 6: standings reflect the remaining rounds
	st, err := s.app.GameController.Standings(s.ctx, g.ID)
	s.Require().NoError(err)
	s.Require().Len(st.Players, 5)
	bob := st.Players[1]
	s.Equal(model.PlayerName("Bob"), bob.Player)
	s.Equal(26, bob.Total)
	s.Equal(0, bob.QueuePosition)
	s.True(bob.HoldsOneShot)
	s.Equal(17, st.Players[3].Total)
	s.Equal(0, st.Players[4].RoundsPlayed)

	// The stored record matches what the controller returned
	stored, err := s.app.Storage.GetGame(s.ctx, g.ID)
	s.Require().NoError(err)
	s.Equal(g.Lineup, stored.Lineup)
	s.Len(stored.Rounds, 2)
}

// Test: mutations reach pages watching the game over SSE
func (s *IntegrationSuite) TestMutationsReachSSEWatchers() {
	g, err := s.app.GameController.CreateGame(s.ctx, "", []model.PlayerName{"A", "B", "C", "D"})
	s.Require().NoError(err)

	hub := s.app.HubManager.GetOrCreateHub(g.ID)
	defer s.app.HubManager.RemoveHub(g.ID)

	recorder := sse.NewClient("watcher")
	hub.Register(recorder)
	s.Require().Eventually(func() bool { return hub.ClientCount() == 1 }, time.Second, time.Millisecond)

	s.submit(g.ID, rounds.Raw{"points": []any{0, 1, 2, 3}})

	select {
	case frame := <-recorder.Messages():
		s.True(strings.HasPrefix(string(frame), "event: "+sse.EventRoundConfirmed), string(frame))
	case <-time.After(time.Second):
		s.Fail("no SSE frame received")
	}
}

func (s *IntegrationSuite) TestSubmitUnknownShapeIsRejected() {
	g, err := s.app.GameController.CreateGame(s.ctx, "", []model.PlayerName{"A", "B"})
	s.Require().NoError(err)

	_, _, err = s.app.GameController.SubmitRound(s.ctx, g.ID, rounds.Raw{"something": "else"})
	s.ErrorIs(err, model.ErrInvalidRound)
}

func TestNewDefaultsToMemory(t *testing.T) {
	app, err := New(Config{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer app.Close()

	if _, ok := app.Storage.(*memory.Storage); !ok {
		t.Errorf("Storage is %T, want *memory.Storage", app.Storage)
	}
}

func TestNewRejectsUnknownStorage(t *testing.T) {
	if _, err := New(Config{StorageType: "floppy"}); err == nil {
		t.Error("expected error for unknown storage type")
	}
	if _, err := New(Config{StorageType: StorageTypeRedis}); err == nil {
		t.Error("expected error for redis without config")
	}
	if _, err := New(Config{StorageType: StorageTypePostgres}); err == nil {
		t.Error("expected error for postgres without config")
	}
}

func TestNewWithSQLite(t *testing.T) {
	cfg := sqlstore.DefaultConfig()
	cfg.DSN = filepath.Join(t.TempDir(), "data", "games.db")

	app, err := New(Config{StorageType: StorageTypeSQLite, SQLConfig: &cfg})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer app.Close()

	g, err := app.GameController.CreateGame(context.Background(), "sqlite", []model.PlayerName{"A", "B", "C", "D"})
	if err != nil {
		t.Fatalf("CreateGame() error = %v", err)
	}
	if _, err := app.Storage.GetGame(context.Background(), g.ID); err != nil {
		t.Errorf("GetGame() error = %v", err)
	}
}

func TestNewWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := redisstorage.DefaultConfig()
	cfg.URL = "redis://" + mr.Addr()

	app, err := New(Config{StorageType: StorageTypeRedis, RedisConfig: &cfg})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer app.Close()

	g, err := app.GameController.CreateGame(context.Background(), "redis", []model.PlayerName{"A"})
	if err != nil {
		t.Fatalf("CreateGame() error = %v", err)
	}
	if !mr.Exists("scoreboard:game:" + string(g.ID)) {
		t.Error("game key not written to redis")
	}
}
