package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewHealthCommand creates the health command
func NewHealthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			var health struct {
				Status string `json:"status"`
			}
			if err := newClient().get(ctx, "/health", &health); err != nil {
				return fmt.Errorf("health check failed: %w", err)
			}

			fmt.Println("✓ Server is healthy")
			fmt.Printf("  Status: %s\n", health.Status)
			return nil
		},
	}
}
