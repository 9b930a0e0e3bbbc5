package response

import (
	"time"

	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/services/game"
	"github.com/mcoot/scoreboard/internal/services/totals"
)

// Lineup represents seats and queue; empty seats are ""
type Lineup struct {
	Active []string `json:"active"`
	Queue  []string `json:"queue"`
}

// LineupFromModel converts a model.Lineup
func LineupFromModel(l model.Lineup) Lineup {
	active := make([]string, len(l.Active))
	for i, p := range l.Active {
		active[i] = string(p)
	}
	return Lineup{Active: active, Queue: names(l.Queue)}
}

// Round represents a confirmed round. The players/points/cards arrays are the
// same layout the round submission endpoint accepts, so exported rounds can be
// submitted again as-is.
type Round struct {
	Number       int        `json:"number"`
	Players      []string   `json:"players"`
	Points       []int      `json:"points"`
	Cards        []int      `json:"cards"`
	ConfirmedAt  *time.Time `json:"confirmed_at,omitempty"`
	LineupBefore *Lineup    `json:"lineup_before,omitempty"`
}

// RoundFromModel converts a model.Round with its 1-based number
func RoundFromModel(number int, r model.Round) Round {
	resp := Round{
		Number:  number,
		Players: make([]string, model.SeatCount),
		Points:  make([]int, model.SeatCount),
		Cards:   make([]int, model.SeatCount),
	}
	for i, seat := range r.Seats {
		resp.Players[i] = string(seat.Player)
		resp.Points[i] = seat.Points
		resp.Cards[i] = seat.Cards
	}
	if !r.ConfirmedAt.IsZero() {
		t := r.ConfirmedAt
		resp.ConfirmedAt = &t
	}
	if r.LineupBefore != nil {
		l := LineupFromModel(*r.LineupBefore)
		resp.LineupBefore = &l
	}
	return resp
}

// OneShot represents the one-shot 25 rule state
type OneShot struct {
	Used   bool   `json:"used"`
	UsedBy string `json:"used_by,omitempty"`
}

// Game represents a full game record
type Game struct {
	ID                  string         `json:"id"`
	Name                string         `json:"name"`
	Lineup              Lineup         `json:"lineup"`
	EliminationLevels   map[string]int `json:"elimination_levels"`
	OneShot             OneShot        `json:"one_shot"`
	RoundCount          int            `json:"round_count"`
	Rounds              []Round        `json:"rounds"`
	PlayerCreationOrder []string       `json:"player_creation_order"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

// GameFromModel converts a model.Game
func GameFromModel(g *model.Game) Game {
	levels := make(map[string]int, len(g.Levels))
	for p, level := range g.Levels {
		levels[string(p)] = level
	}

	rounds := make([]Round, len(g.Rounds))
	for i, r := range g.Rounds {
		rounds[i] = RoundFromModel(i+1, r)
	}

	return Game{
		ID:                  string(g.ID),
		Name:                g.Name,
		Lineup:              LineupFromModel(g.Lineup),
		EliminationLevels:   levels,
		OneShot:             OneShot{Used: g.OneShot.Used, UsedBy: string(g.OneShot.UsedBy)},
		RoundCount:          len(g.Rounds),
		Rounds:              rounds,
		PlayerCreationOrder: names(g.PlayerCreationOrder),
		CreatedAt:           g.CreatedAt,
		UpdatedAt:           g.UpdatedAt,
	}
}

// GameSummary represents a game in listings
type GameSummary struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	RoundCount          int       `json:"round_count"`
	PlayerCreationOrder []string  `json:"player_creation_order"`
	CreatedAt           time.Time `json:"created_at"`
}

// GameSummaryFromModel converts a model.Game to its listing view
func GameSummaryFromModel(g *model.Game) GameSummary {
	s := g.Summary()
	return GameSummary{
		ID:                  string(s.ID),
		Name:                s.Name,
		RoundCount:          s.RoundCount,
		PlayerCreationOrder: names(s.PlayerCreationOrder),
		CreatedAt:           s.CreatedAt,
	}
}

// GameList is the response for listing games
type GameList struct {
	Games []GameSummary `json:"games"`
}

// FullGameList is the response for listing games with include_rounds=true
type FullGameList struct {
	Games []Game `json:"games"`
}

// Elimination represents one seat rotation
type Elimination struct {
	Player      string `json:"player"`
	Replacement string `json:"replacement,omitempty"`
	Seat        int    `json:"seat"`
	Rule        string `json:"rule"`
	PrevTotal   int    `json:"prev_total"`
	NewTotal    int    `json:"new_total"`
	Overshoot   int    `json:"overshoot"`
	Level       int    `json:"level"`
}

// RoundConfirmed is the response for confirming a round
type RoundConfirmed struct {
	Game             Game          `json:"game"`
	RoundNumber      int           `json:"round_number"`
	Eliminations     []Elimination `json:"eliminations"`
	OneShotTriggered bool          `json:"one_shot_triggered"`
}

// RoundConfirmedFromModel converts a confirmed game and its payload
func RoundConfirmedFromModel(g *model.Game, p *model.RoundConfirmedPayload) RoundConfirmed {
	elims := make([]Elimination, len(p.Eliminations))
	for i, e := range p.Eliminations {
		elims[i] = Elimination{
			Player:      string(e.Player),
			Replacement: string(e.Replacement),
			Seat:        e.Seat,
			Rule:        string(e.Rule),
			PrevTotal:   e.PrevTotal,
			NewTotal:    e.NewTotal,
			Overshoot:   e.Overshoot,
			Level:       e.Level,
		}
	}
	return RoundConfirmed{
		Game:             GameFromModel(g),
		RoundNumber:      p.RoundNumber,
		Eliminations:     elims,
		OneShotTriggered: p.OneShotTriggered,
	}
}

// RoundUndone is the response for deleting the last round
type RoundUndone struct {
	Game           Game  `json:"game"`
	RoundNumber    int   `json:"round_number"`
	LineupRestored bool  `json:"lineup_restored"`
	Removed        Round `json:"removed"`
}

// RoundUndoneFromModel converts an undone game and its payload
func RoundUndoneFromModel(g *model.Game, p *model.RoundUndonePayload) RoundUndone {
	return RoundUndone{
		Game:           GameFromModel(g),
		RoundNumber:    p.RoundNumber,
		LineupRestored: p.LineupRestored,
		Removed:        RoundFromModel(p.RoundNumber, p.Removed),
	}
}

// PlayerStanding represents one player's line in the standings
type PlayerStanding struct {
	Player        string  `json:"player"`
	Total         int     `json:"total"`
	RoundsPlayed  int     `json:"rounds_played"`
	Average       float64 `json:"average"`
	Level         int     `json:"level"`
	Seat          *int    `json:"seat"`
	QueuePosition *int    `json:"queue_position"`
	HoldsOneShot  bool    `json:"holds_one_shot,omitempty"`
}

// Standings is the response for a game's standings
type Standings struct {
	GameID    string           `json:"game_id"`
	Name      string           `json:"name"`
	Lineup    Lineup           `json:"lineup"`
	OneShot   OneShot          `json:"one_shot"`
	Players   []PlayerStanding `json:"players"`
	Snapshots []map[string]int `json:"snapshots"`
}

// StandingsFromModel converts computed standings
func StandingsFromModel(st *game.Standings) Standings {
	players := make([]PlayerStanding, len(st.Players))
	for i, p := range st.Players {
		players[i] = PlayerStanding{
			Player:        string(p.Player),
			Total:         p.Total,
			RoundsPlayed:  p.RoundsPlayed,
			Average:       p.Average,
			Level:         p.Level,
			Seat:          optionalIndex(p.Seat),
			QueuePosition: optionalIndex(p.QueuePosition),
			HoldsOneShot:  p.HoldsOneShot,
		}
	}

	return Standings{
		GameID:    string(st.Game.ID),
		Name:      st.Game.Name,
		Lineup:    LineupFromModel(st.Game.Lineup),
		OneShot:   OneShot{Used: st.Game.OneShot.Used, UsedBy: string(st.Game.OneShot.UsedBy)},
		Players:   players,
		Snapshots: snapshots(st.Snapshots),
	}
}

// Health is the response for the health endpoint
type Health struct {
	Status string `json:"status"`
}

func snapshots(in []totals.Snapshot) []map[string]int {
	out := make([]map[string]int, len(in))
	for i, snap := range in {
		m := make(map[string]int, len(snap))
		for p, total := range snap {
			m[string(p)] = total
		}
		out[i] = m
	}
	return out
}

func optionalIndex(i int) *int {
	if i < 0 {
		return nil
	}
	return &i
}

func names(in []model.PlayerName) []string {
	out := make([]string, len(in))
	for i, p := range in {
		out[i] = string(p)
	}
	return out
}
