package cli

import (
	"github.com/spf13/cobra"
)

func newMatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Match commands",
	}

	cmd.AddCommand(newMatchReportCmd())

	return cmd
}

func newMatchReportCmd() *cobra.Command {
	var player1, player2, winner int64

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Report a match result and update ratings",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]int64{
				"player1_id": player1,
				"player2_id": player2,
				"winner_id":  winner,
			}
			var result MatchResult

			if err := client.Patch("/api/v1/match/result", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().Int64Var(&player1, "player1", 0, "First participant player id (required)")
	cmd.Flags().Int64Var(&player2, "player2", 0, "Second participant player id (required)")
	cmd.Flags().Int64Var(&winner, "winner", 0, "Winning player id (required)")
	_ = cmd.MarkFlagRequired("player1")
	_ = cmd.MarkFlagRequired("player2")
	_ = cmd.MarkFlagRequired("winner")

	return cmd
}
