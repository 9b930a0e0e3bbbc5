package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcoot/scoreboard/internal/api/response"
	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/services/elimination"
	"github.com/mcoot/scoreboard/internal/services/game"
	"github.com/mcoot/scoreboard/internal/services/rounds"
)

func newReplayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "replay <file>",
		Short: "Rebuild an exported game offline and print its standings",
		Long: `Read an exported game (a JSON object with the starting players and a
rounds array), normalize every round, confirm them in order from the starting
lineup and print the resulting standings. No server is contacted.

Players are taken from "player_creation_order" or "playerCreationOrder",
falling back to the "players" active and queue lists, and seated four at a
time in that order. Rounds may use any record
shape the server accepts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			st, outcomes, err := Replay(data)
			if err != nil {
				return err
			}

			out := output(cmd)
			if cfg.Verbose {
				for i, o := range outcomes {
					for _, e := range o.Eliminations {
						out.PrintMessage(fmt.Sprintf("round %d: %s out on the %s rule", i+1, e.Player, ruleLabel(string(e.Rule))))
					}
				}
			}
			out.Print(response.StandingsFromModel(st))
			return nil
		},
	}
}

// exportedGame is the subset of an exported record replay needs
type exportedGame struct {
	ID                  string            `json:"id"`
	Name                string            `json:"name"`
	PlayerCreationOrder []string          `json:"player_creation_order"`
	CamelCreationOrder  []string          `json:"playerCreationOrder"`
	Players             *exportedLineup   `json:"players"`
	Rounds              []json.RawMessage `json:"rounds"`
}

type exportedLineup struct {
	Active []string `json:"active"`
	Queue  []string `json:"queue"`
}

func (g exportedGame) startingPlayers() []model.PlayerName {
	list := g.PlayerCreationOrder
	if len(list) == 0 {
		list = g.CamelCreationOrder
	}
	if len(list) == 0 && g.Players != nil {
		list = append(append(list, g.Players.Active...), g.Players.Queue...)
	}
	names := make([]model.PlayerName, 0, len(list))
	for _, n := range list {
		if n != "" {
			names = append(names, model.PlayerName(n))
		}
	}
	return names
}

// Replay rebuilds standings from an exported game record
func Replay(data []byte) (*game.Standings, []elimination.Outcome, error) {
	var exported exportedGame
	if err := json.Unmarshal(data, &exported); err != nil {
		return nil, nil, fmt.Errorf("parse game: %w", err)
	}

	players := exported.startingPlayers()
	if len(players) == 0 {
		return nil, nil, fmt.Errorf("game has no players: %w", model.ErrInsufficientPlayers)
	}

	history := make([]model.Round, 0, len(exported.Rounds))
	for i, raw := range exported.Rounds {
		round, shape, err := rounds.Decode(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("round %d: %w", i+1, err)
		}
		if shape == rounds.ShapeUnknown {
			return nil, nil, fmt.Errorf("round %d: %w: unrecognised record shape", i+1, model.ErrInvalidRound)
		}
		history = append(history, round)
	}

	start := &model.Game{
		ID:                  model.GameID(exported.ID),
		Name:                exported.Name,
		Lineup:              model.NewLineup(players),
		Levels:              make(map[model.PlayerName]int),
		PlayerCreationOrder: players,
	}
	final, outcomes := elimination.ReplayHistory(start, history)

	// Nameless rounds only get their players while replaying, so check afterwards
	for i, round := range final.Rounds {
		if err := rounds.Validate(round); err != nil {
			return nil, nil, fmt.Errorf("round %d: %w", i+1, err)
		}
	}
	return game.BuildStandings(final), outcomes, nil
}
