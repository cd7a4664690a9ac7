package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// NewLoginCommand creates the login command
func NewLoginCommand() *cobra.Command {
	var username string
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate against the MES server and save the token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				return fmt.Errorf("--username is required")
			}
			if password == "" {
				fmt.Print("Password: ")
				reader := bufio.NewReader(os.Stdin)
				line, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
				password = strings.TrimSpace(line)
			}

			ctx, cancel := context.WithTimeout(context.Background(), clientTimeout)
			defer cancel()

			client := NewAPIClient(serverURL, "")
			var resp struct {
				Token     string    `json:"token"`
				ExpiresAt time.Time `json:"expiresAt"`
				User      struct {
					Username string `json:"username"`
					Role     string `json:"role"`
				} `json:"user"`
			}
			err := client.post(ctx, "/auth/login", map[string]string{
				"username": username,
				"password": password,
			}, &resp)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			if err := saveCredentials(&Credentials{
				Token:     resp.Token,
				Username:  resp.User.Username,
				ExpiresAt: resp.ExpiresAt,
			}); err != nil {
				return err
			}

			fmt.Printf("✓ Logged in as %s (%s)\n", resp.User.Username, resp.User.Role)
			fmt.Printf("  Token valid until %s\n", resp.ExpiresAt.Local().Format(time.RFC1123))
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (prompted if omitted)")

	return cmd
}
