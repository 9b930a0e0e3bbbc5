package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/scoreboard/internal/api/response"
	"github.com/mcoot/scoreboard/internal/model"
)

func newRoundCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "round",
		Short: "Round commands",
	}

	cmd.AddCommand(newRoundConfirmCmd())
	cmd.AddCommand(newRoundUndoCmd())

	return cmd
}

func newRoundConfirmCmd() *cobra.Command {
	var cards, points []string
	var players []string

	cmd := &cobra.Command{
		Use:   "confirm <id>",
		Short: "Confirm a round for the seated players",
		Long: `Confirm a round. Give cards left in hand per seat (--cards) or penalty
points per seat (--points), four values in seat order. The winner has 0.
Empty seats take 0 as well.

Without --players the round is credited to whoever is currently seated.`,
		Example: `  scoreboard round confirm abc123 --cards 0,7,8,3
  scoreboard round confirm abc123 --points 0,14,24,3 --players Ann,Bob,Cy,Dee`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := roundBody(cards, points, players)
			if err != nil {
				return err
			}

			var result response.RoundConfirmed
			if err := client.Post(cmd.Context(), gamePath(args[0])+"/rounds", map[string]any{"round": body}, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&cards, "cards", nil, "Cards left per seat")
	cmd.Flags().StringSliceVar(&points, "points", nil, "Points per seat")
	cmd.Flags().StringSliceVar(&players, "players", nil, "Names per seat; must match the seated players")
	cmd.MarkFlagsOneRequired("cards", "points")
	cmd.MarkFlagsMutuallyExclusive("cards", "points")

	return cmd
}

func newRoundUndoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undo <id>",
		Short: "Delete the most recent round",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.RoundUndone
			if err := client.Delete(cmd.Context(), gamePath(args[0])+"/rounds/last", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

// roundBody builds an arrays-shaped round record from flag values
func roundBody(cards, points, players []string) (map[string]any, error) {
	key, values := "points", points
	if len(cards) > 0 {
		key, values = "cards", cards
	}
	if len(values) != model.SeatCount {
		return nil, fmt.Errorf("--%s needs %d values, got %d", key, model.SeatCount, len(values))
	}

	nums := make([]int, len(values))
	for i, v := range values {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("--%s value %d: %q is not a number", key, i+1, v)
		}
		nums[i] = n
	}

	body := map[string]any{key: nums}
	if len(players) > 0 {
		if len(players) != model.SeatCount {
			return nil, fmt.Errorf("--players needs %d names, got %d", model.SeatCount, len(players))
		}
		body["players"] = players
	}
	return body, nil
}
