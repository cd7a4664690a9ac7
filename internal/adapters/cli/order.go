package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

// customerOrder mirrors the server's customer order shape
type customerOrder struct {
	ID              int    `json:"id"`
	OrderNumber     string `json:"orderNumber"`
	Status          string `json:"status"`
	Priority        string `json:"priority"`
	TriggerScenario string `json:"triggerScenario"`
	Items           []struct {
		ItemType          string `json:"itemType"`
		ItemID            int    `json:"itemId"`
		RequestedQuantity int    `json:"requestedQuantity"`
	} `json:"orderItems"`
	CreatedAt time.Time `json:"createdAt"`
}

type fulfillmentResult struct {
	CustomerOrder  customerOrder `json:"customerOrder"`
	WarehouseOrder *struct {
		ID          int    `json:"id"`
		OrderNumber string `json:"orderNumber"`
		Status      string `json:"status"`
	} `json:"warehouseOrder"`
	ProductionOrder *struct {
		ID          int    `json:"id"`
		OrderNumber string `json:"orderNumber"`
		Status      string `json:"status"`
	} `json:"productionOrder"`
}

// NewOrderCommand creates the order command group
func NewOrderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Manage customer orders",
	}

	cmd.AddCommand(newOrderCreateCommand())
	cmd.AddCommand(newOrderListCommand())
	cmd.AddCommand(newOrderGetCommand())
	cmd.AddCommand(newOrderConfirmCommand())
	cmd.AddCommand(newOrderFulfillCommand())
	cmd.AddCommand(newOrderCancelCommand())

	return cmd
}

func newOrderCreateCommand() *cobra.Command {
	var productID int
	var quantity int
	var priority string
	var notes string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a customer order",
		RunE: func(cmd *cobra.Command, args []string) error {
			if productID <= 0 {
				return fmt.Errorf("--product is required")
			}
			if quantity <= 0 {
				return fmt.Errorf("--quantity must be positive")
			}

			ctx, cancel := context.WithTimeout(context.Background(), clientTimeout)
			defer cancel()

			body := map[string]any{
				"orderItems": []map[string]int{
					{"productId": productID, "requestedQuantity": quantity},
				},
				"priority": priority,
				"notes":    notes,
			}
			var co customerOrder
			if err := newClient().post(ctx, "/customer-orders", body, &co); err != nil {
				return fmt.Errorf("failed to create order: %w", err)
			}

			fmt.Printf("✓ Created %s (id %d)\n", co.OrderNumber, co.ID)
			printCustomerOrder(&co)
			return nil
		},
	}

	cmd.Flags().IntVar(&productID, "product", 0, "Product ID")
	cmd.Flags().IntVar(&quantity, "quantity", 1, "Requested quantity")
	cmd.Flags().StringVar(&priority, "priority", "", "Priority (LOW, NORMAL, HIGH, URGENT)")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")

	return cmd
}

func newOrderListCommand() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List customer orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), clientTimeout)
			defer cancel()

			path := "/customer-orders"
			if status != "" {
				path += "?status=" + status
			}
			var orders []customerOrder
			if err := newClient().get(ctx, path, &orders); err != nil {
				return fmt.Errorf("failed to list orders: %w", err)
			}

			if len(orders) == 0 {
				fmt.Println("No customer orders")
				return nil
			}
			fmt.Printf("%-6s %-14s %-20s %-8s %s\n", "ID", "NUMBER", "STATUS", "PRIO", "SCENARIO")
			for _, co := range orders {
				fmt.Printf("%-6d %-14s %-20s %-8s %s\n",
					co.ID, co.OrderNumber, co.Status, co.Priority, co.TriggerScenario)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status")

	return cmd
}

func newOrderGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one customer order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid order id %q", args[0])
			}

			ctx, cancel := context.WithTimeout(context.Background(), clientTimeout)
			defer cancel()

			var co customerOrder
			if err := newClient().get(ctx, fmt.Sprintf("/customer-orders/%d", id), &co); err != nil {
				return fmt.Errorf("failed to fetch order: %w", err)
			}
			printCustomerOrder(&co)
			return nil
		},
	}
}

func newOrderConfirmCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "confirm <id>",
		Short: "Confirm a pending customer order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid order id %q", args[0])
			}

			ctx, cancel := context.WithTimeout(context.Background(), clientTimeout)
			defer cancel()

			var co customerOrder
			if err := newClient().put(ctx, fmt.Sprintf("/customer-orders/%d/confirm", id), nil, &co); err != nil {
				return fmt.Errorf("failed to confirm order: %w", err)
			}
			fmt.Printf("✓ %s confirmed (scenario: %s)\n", co.OrderNumber, co.TriggerScenario)
			return nil
		},
	}
}

func newOrderFulfillCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fulfill <id>",
		Short: "Run fulfillment for a confirmed customer order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid order id %q", args[0])
			}

			ctx, cancel := context.WithTimeout(context.Background(), clientTimeout)
			defer cancel()

			var result fulfillmentResult
			if err := newClient().post(ctx, fmt.Sprintf("/customer-orders/%d/complete", id), nil, &result); err != nil {
				return fmt.Errorf("failed to fulfill order: %w", err)
			}

			fmt.Printf("✓ %s is now %s\n", result.CustomerOrder.OrderNumber, result.CustomerOrder.Status)
			if result.WarehouseOrder != nil {
				fmt.Printf("  Warehouse order:  %s (%s)\n", result.WarehouseOrder.OrderNumber, result.WarehouseOrder.Status)
			}
			if result.ProductionOrder != nil {
				fmt.Printf("  Production order: %s (%s)\n", result.ProductionOrder.OrderNumber, result.ProductionOrder.Status)
			}
			return nil
		},
	}
}

func newOrderCancelCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel a customer order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid order id %q", args[0])
			}

			ctx, cancel := context.WithTimeout(context.Background(), clientTimeout)
			defer cancel()

			var co customerOrder
			if err := newClient().post(ctx, fmt.Sprintf("/customer-orders/%d/cancel", id), nil, &co); err != nil {
				return fmt.Errorf("failed to cancel order: %w", err)
			}
			fmt.Printf("✓ %s cancelled\n", co.OrderNumber)
			return nil
		},
	}
}

func printCustomerOrder(co *customerOrder) {
	fmt.Printf("  Number:   %s\n", co.OrderNumber)
	fmt.Printf("  Status:   %s\n", co.Status)
	fmt.Printf("  Priority: %s\n", co.Priority)
	if co.TriggerScenario != "" {
		fmt.Printf("  Scenario: %s\n", co.TriggerScenario)
	}
	for _, item := range co.Items {
		fmt.Printf("  Item:     %s %d x%d\n", item.ItemType, item.ItemID, item.RequestedQuantity)
	}
}
