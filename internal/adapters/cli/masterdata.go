package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewMasterDataCommand creates the masterdata command group
func NewMasterDataCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "masterdata",
		Short: "Browse the factory catalog",
	}

	cmd.AddCommand(newWorkstationsCommand())
	cmd.AddCommand(newProductsCommand())
	cmd.AddCommand(newModulesCommand())
	cmd.AddCommand(newBOMCommand())

	return cmd
}

func newWorkstationsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "workstations",
		Short: "List the factory workstations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), clientTimeout)
			defer cancel()

			var stations []struct {
				ID   int    `json:"id"`
				Role string `json:"role"`
				Name string `json:"name"`
			}
			if err := newClient().get(ctx, "/masterdata/workstations", &stations); err != nil {
				return fmt.Errorf("failed to list workstations: %w", err)
			}
			for _, ws := range stations {
				fmt.Printf("WS-%d  %-14s %s\n", ws.ID, ws.Role, ws.Name)
			}
			return nil
		},
	}
}

func newProductsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "products",
		Short: "List sellable products",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), clientTimeout)
			defer cancel()

			var products []struct {
				ID   int    `json:"id"`
				Name string `json:"name"`
			}
			if err := newClient().get(ctx, "/masterdata/products", &products); err != nil {
				return fmt.Errorf("failed to list products: %w", err)
			}
			for _, p := range products {
				fmt.Printf("%-4d %s\n", p.ID, p.Name)
			}
			return nil
		},
	}
}

func newModulesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "modules",
		Short: "List producible modules",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), clientTimeout)
			defer cancel()

			var modules []struct {
				ID                      int    `json:"id"`
				Name                    string `json:"name"`
				ProductionWorkstationID int    `json:"productionWorkstationId"`
				EstimatedTimeMinutes    int    `json:"estimatedTimeMinutes"`
			}
			if err := newClient().get(ctx, "/masterdata/modules", &modules); err != nil {
				return fmt.Errorf("failed to list modules: %w", err)
			}
			for _, m := range modules {
				fmt.Printf("%-4d %-20s WS-%d  %d min\n",
					m.ID, m.Name, m.ProductionWorkstationID, m.EstimatedTimeMinutes)
			}
			return nil
		},
	}
}

func newBOMCommand() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "bom <id>",
		Short: "Show the direct BOM components of a product or module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}

			ctx, cancel := context.WithTimeout(context.Background(), clientTimeout)
			defer cancel()

			var path string
			switch kind {
			case "product":
				path = fmt.Sprintf("/masterdata/products/%d/modules", id)
			case "module":
				path = fmt.Sprintf("/masterdata/modules/%d/components", id)
			default:
				return fmt.Errorf("--kind must be product or module")
			}

			var components []struct {
				ComponentID   int    `json:"componentId"`
				ComponentName string `json:"componentName"`
				ComponentType string `json:"componentType"`
				Quantity      int    `json:"quantity"`
			}
			if err := newClient().get(ctx, path, &components); err != nil {
				return fmt.Errorf("failed to fetch BOM: %w", err)
			}
			for _, c := range components {
				fmt.Printf("%-8s %-4d %-20s x%d\n", c.ComponentType, c.ComponentID, c.ComponentName, c.Quantity)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "product", "Parent kind: product or module")

	return cmd
}
