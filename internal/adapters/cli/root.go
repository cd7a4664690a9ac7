package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	serverURL string
	authToken string
	verbose   bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mesctl",
		Short: "mesctl - administer the model factory MES",
		Long: `mesctl drives the MES server over its HTTP API.

Examples:
  mesctl login --username planner
  mesctl order create --product 1 --quantity 2
  mesctl order confirm 5
  mesctl order fulfill 5
  mesctl stock list --workstation 7
  mesctl stock adjust --workstation 9 --item-type PART --item 3 --delta 100
  mesctl stock alerts --threshold 10
  mesctl production schedule 2`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&serverURL, "server", getDefaultServerURL(),
		"MES server base URL")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", "",
		"Bearer token (defaults to MES_TOKEN or the saved login)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")

	rootCmd.AddCommand(NewLoginCommand())
	rootCmd.AddCommand(NewOrderCommand())
	rootCmd.AddCommand(NewStockCommand())
	rootCmd.AddCommand(NewProductionCommand())
	rootCmd.AddCommand(NewMasterDataCommand())
	rootCmd.AddCommand(NewHealthCommand())

	return rootCmd
}

// getDefaultServerURL returns the default server URL
func getDefaultServerURL() string {
	if url := os.Getenv("MES_URL"); url != "" {
		return url
	}
	return "http://localhost:8080"
}

// newClient builds an API client from the global flags, the environment and
// the saved credentials, in that priority order.
func newClient() *APIClient {
	token := authToken
	if token == "" {
		token = os.Getenv("MES_TOKEN")
	}
	if token == "" {
		if creds, err := loadCredentials(); err == nil {
			token = creds.Token
		}
	}
	return NewAPIClient(serverURL, token)
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
