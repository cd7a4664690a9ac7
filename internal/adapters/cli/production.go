package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

type productionOrder struct {
	ID          int    `json:"id"`
	OrderNumber string `json:"orderNumber"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	ScheduleID  string `json:"scheduleId"`
}

type controlOrder struct {
	ID                    int    `json:"id"`
	OrderNumber           string `json:"orderNumber"`
	Status                string `json:"status"`
	Kind                  string `json:"kind"`
	AssignedWorkstationID int    `json:"assignedWorkstationId"`
	ItemType              string `json:"itemType"`
	ItemID                int    `json:"itemId"`
	Quantity              int    `json:"quantity"`
	Sequence              int    `json:"sequence"`
}

// NewProductionCommand creates the production command group
func NewProductionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "production",
		Short: "Manage production orders",
	}

	cmd.AddCommand(newProductionListCommand())
	cmd.AddCommand(newProductionScheduleCommand())
	cmd.AddCommand(newProductionResetCommand())
	cmd.AddCommand(newProductionControlOrdersCommand())

	return cmd
}

func newProductionListCommand() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List production orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), clientTimeout)
			defer cancel()

			path := "/production-orders"
			if status != "" {
				path += "?status=" + status
			}
			var orders []productionOrder
			if err := newClient().get(ctx, path, &orders); err != nil {
				return fmt.Errorf("failed to list production orders: %w", err)
			}

			if len(orders) == 0 {
				fmt.Println("No production orders")
				return nil
			}
			fmt.Printf("%-6s %-14s %-12s %-8s %s\n", "ID", "NUMBER", "STATUS", "PRIO", "SCHEDULE")
			for _, po := range orders {
				fmt.Printf("%-6d %-14s %-12s %-8s %s\n",
					po.ID, po.OrderNumber, po.Status, po.Priority, po.ScheduleID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status")

	return cmd
}

func newProductionScheduleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule <id>",
		Short: "Request a schedule from the scheduling engine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid production order id %q", args[0])
			}

			ctx, cancel := context.WithTimeout(context.Background(), clientTimeout)
			defer cancel()

			var po productionOrder
			if err := newClient().post(ctx, fmt.Sprintf("/production-orders/%d/schedule", id), nil, &po); err != nil {
				return fmt.Errorf("failed to schedule production: %w", err)
			}
			fmt.Printf("✓ %s scheduled (schedule %s)\n", po.OrderNumber, po.ScheduleID)
			return nil
		},
	}
}

func newProductionResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <id>",
		Short: "Reset a production order and its cascade back to PENDING",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid production order id %q", args[0])
			}

			ctx, cancel := context.WithTimeout(context.Background(), clientTimeout)
			defer cancel()

			var po productionOrder
			if err := newClient().post(ctx, fmt.Sprintf("/production-orders/%d/reset", id), nil, &po); err != nil {
				return fmt.Errorf("failed to reset production order: %w", err)
			}
			fmt.Printf("✓ %s reset to %s\n", po.OrderNumber, po.Status)
			return nil
		},
	}
}

func newProductionControlOrdersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "control-orders <id>",
		Short: "List the control orders of a production order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid production order id %q", args[0])
			}

			ctx, cancel := context.WithTimeout(context.Background(), clientTimeout)
			defer cancel()

			var orders []controlOrder
			if err := newClient().get(ctx, fmt.Sprintf("/production-orders/%d/control-orders", id), &orders); err != nil {
				return fmt.Errorf("failed to list control orders: %w", err)
			}

			if len(orders) == 0 {
				fmt.Println("No control orders")
				return nil
			}
			fmt.Printf("%-6s %-14s %-20s %-14s %-4s %-8s %-6s %s\n",
				"ID", "NUMBER", "STATUS", "KIND", "WS", "TYPE", "ITEM", "QTY")
			for _, co := range orders {
				fmt.Printf("%-6d %-14s %-20s %-14s %-4d %-8s %-6d %d\n",
					co.ID, co.OrderNumber, co.Status, co.Kind,
					co.AssignedWorkstationID, co.ItemType, co.ItemID, co.Quantity)
			}
			return nil
		},
	}
}
