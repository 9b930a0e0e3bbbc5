package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/scoreboard/internal/api/response"
)

func newStandingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "standings <id>",
		Short: "Show totals, levels and seats for a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Standings
			if err := client.Get(cmd.Context(), gamePath(args[0])+"/standings", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}
