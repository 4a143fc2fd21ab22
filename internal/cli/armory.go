package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTowersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "towers",
		Short: "Tower catalog commands",
	}

	cmd.AddCommand(newTowersListCmd())
	cmd.AddCommand(newTowersShowCmd())
	cmd.AddCommand(newTowersCreateCmd())

	return cmd
}

func newTowersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the tower catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result TowerList

			if err := client.Get("/api/v1/towers", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newTowersShowCmd() *cobra.Command {
	var id int64

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a catalog tower",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Tower

			if err := client.Get(fmt.Sprintf("/api/v1/towers/%d", id), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "Tower id (required)")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func newTowersCreateCmd() *cobra.Command {
	var name, description string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a tower to the catalog (requires towers.manage)",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"name":        name,
				"description": description,
			}
			var result Tower

			if err := client.Post("/api/v1/towers", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Tower name (required)")
	cmd.Flags().StringVar(&description, "description", "", "Tower description")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newInventoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Inventory commands",
	}

	cmd.AddCommand(newInventoryShowCmd())
	cmd.AddCommand(newInventoryAddCmd())

	return cmd
}

func newInventoryShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current player's tower inventory",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Inventory

			if err := client.Get("/api/v1/inventory", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newInventoryAddCmd() *cobra.Command {
	var towerID int64
	var quantity int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add towers to the current player's inventory",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"tower_id": towerID,
				"quantity": quantity,
			}
			var result Inventory

			if err := client.Post("/api/v1/inventory/add", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().Int64Var(&towerID, "tower", 0, "Tower id (required)")
	cmd.Flags().IntVar(&quantity, "quantity", 1, "Quantity to add")
	_ = cmd.MarkFlagRequired("tower")

	return cmd
}
