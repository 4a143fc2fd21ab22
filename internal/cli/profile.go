package cli

import (
	"github.com/spf13/cobra"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Profile commands",
	}

	cmd.AddCommand(newProfileShowCmd())
	cmd.AddCommand(newProfileAvatarCmd())

	return cmd
}

func newProfileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current player's profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Profile

			if err := client.Get("/api/v1/profile", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newProfileAvatarCmd() *cobra.Command {
	var url string

	cmd := &cobra.Command{
		Use:   "avatar",
		Short: "Update the current player's avatar",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"avatar_url": url}
			var result Profile

			if err := client.Patch("/api/v1/profile", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "Avatar URL (required)")
	_ = cmd.MarkFlagRequired("url")

	return cmd
}
