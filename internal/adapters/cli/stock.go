package cli

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

type stockRecord struct {
	WorkstationID int       `json:"workstationId"`
	ItemType      string    `json:"itemType"`
	ItemID        int       `json:"itemId"`
	Quantity      int       `json:"quantity"`
	LastUpdated   time.Time `json:"lastUpdated"`
}

type ledgerEntry struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	WorkstationID int       `json:"workstationId"`
	ItemType      string    `json:"itemType"`
	ItemID        int       `json:"itemId"`
	Delta         int       `json:"delta"`
	Reason        string    `json:"reasonCode"`
	RefOrderType  string    `json:"refOrderType"`
	RefOrderID    int       `json:"refOrderId"`
	Actor         string    `json:"actor"`
}

// NewStockCommand creates the stock command group
func NewStockCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stock",
		Short: "Inspect and adjust workstation stock",
	}

	cmd.AddCommand(newStockListCommand())
	cmd.AddCommand(newStockAdjustCommand())
	cmd.AddCommand(newStockAlertsCommand())
	cmd.AddCommand(newStockLedgerCommand())

	return cmd
}

func newStockListCommand() *cobra.Command {
	var workstationID int
	var itemType string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stock records",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), clientTimeout)
			defer cancel()

			query := url.Values{}
			if workstationID > 0 {
				query.Set("workstationId", strconv.Itoa(workstationID))
			}
			if itemType != "" {
				query.Set("itemType", itemType)
			}
			path := "/stock"
			if len(query) > 0 {
				path += "?" + query.Encode()
			}

			var records []stockRecord
			if err := newClient().get(ctx, path, &records); err != nil {
				return fmt.Errorf("failed to list stock: %w", err)
			}

			if len(records) == 0 {
				fmt.Println("No stock records")
				return nil
			}
			fmt.Printf("%-12s %-8s %-7s %s\n", "WORKSTATION", "TYPE", "ITEM", "QTY")
			for _, r := range records {
				fmt.Printf("%-12d %-8s %-7d %d\n", r.WorkstationID, r.ItemType, r.ItemID, r.Quantity)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&workstationID, "workstation", 0, "Filter by workstation ID")
	cmd.Flags().StringVar(&itemType, "item-type", "", "Filter by item type (PRODUCT, MODULE, PART)")

	return cmd
}

func newStockAdjustCommand() *cobra.Command {
	var workstationID int
	var itemType string
	var itemID int
	var delta int
	var reason string
	var idempotencyKey string

	cmd := &cobra.Command{
		Use:   "adjust",
		Short: "Apply a manual stock adjustment",
		RunE: func(cmd *cobra.Command, args []string) error {
			if workstationID <= 0 || itemID <= 0 || itemType == "" {
				return fmt.Errorf("--workstation, --item-type and --item are required")
			}
			if delta == 0 {
				return fmt.Errorf("--delta must be non-zero")
			}

			ctx, cancel := context.WithTimeout(context.Background(), clientTimeout)
			defer cancel()

			body := map[string]any{
				"workstationId":  workstationID,
				"itemType":       itemType,
				"itemId":         itemID,
				"delta":          delta,
				"reasonCode":     reason,
				"idempotencyKey": idempotencyKey,
			}
			var record stockRecord
			if err := newClient().post(ctx, "/stock/adjust", body, &record); err != nil {
				return fmt.Errorf("failed to adjust stock: %w", err)
			}

			fmt.Printf("✓ Workstation %d %s %d now at %d\n",
				record.WorkstationID, record.ItemType, record.ItemID, record.Quantity)
			return nil
		},
	}

	cmd.Flags().IntVar(&workstationID, "workstation", 0, "Workstation ID")
	cmd.Flags().StringVar(&itemType, "item-type", "", "Item type (PRODUCT, MODULE, PART)")
	cmd.Flags().IntVar(&itemID, "item", 0, "Item ID")
	cmd.Flags().IntVar(&delta, "delta", 0, "Quantity change (negative to debit)")
	cmd.Flags().StringVar(&reason, "reason", "", "Reason code (default ADJUSTMENT)")
	cmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Idempotency key for safe retries")

	return cmd
}

func newStockAlertsCommand() *cobra.Command {
	var threshold int

	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Show stock at or below the low-stock threshold",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), clientTimeout)
			defer cancel()

			var grouped map[string][]stockRecord
			path := fmt.Sprintf("/stock/alerts?threshold=%d", threshold)
			if err := newClient().get(ctx, path, &grouped); err != nil {
				return fmt.Errorf("failed to fetch alerts: %w", err)
			}

			if len(grouped) == 0 {
				fmt.Println("No low-stock alerts")
				return nil
			}
			for workstation, records := range grouped {
				fmt.Printf("Workstation %s:\n", workstation)
				for _, r := range records {
					fmt.Printf("  %s %d: %d remaining\n", r.ItemType, r.ItemID, r.Quantity)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&threshold, "threshold", 10, "Low-stock threshold")

	return cmd
}

func newStockLedgerCommand() *cobra.Command {
	var workstationID int
	var limit int

	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Show the stock movement ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), clientTimeout)
			defer cancel()

			query := url.Values{}
			if workstationID > 0 {
				query.Set("workstationId", strconv.Itoa(workstationID))
			}
			if limit > 0 {
				query.Set("limit", strconv.Itoa(limit))
			}
			path := "/stock/ledger"
			if len(query) > 0 {
				path += "?" + query.Encode()
			}

			var entries []ledgerEntry
			if err := newClient().get(ctx, path, &entries); err != nil {
				return fmt.Errorf("failed to fetch ledger: %w", err)
			}

			if len(entries) == 0 {
				fmt.Println("No ledger entries")
				return nil
			}
			for _, e := range entries {
				ref := ""
				if e.RefOrderType != "" {
					ref = fmt.Sprintf(" ref=%s/%d", e.RefOrderType, e.RefOrderID)
				}
				fmt.Printf("%s  ws=%d %s %d  %+d  %s%s  by %s\n",
					e.Timestamp.Local().Format("2006-01-02 15:04:05"),
					e.WorkstationID, e.ItemType, e.ItemID, e.Delta, e.Reason, ref, e.Actor)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&workstationID, "workstation", 0, "Filter by workstation ID")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum entries to show")

	return cmd
}
