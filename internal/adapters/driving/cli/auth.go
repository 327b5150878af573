package cli

import (
	"bufio"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage users and API keys",
	Long: `Manage the local user registry and API keys for programmatic access.

Users and keys persist under the data directory; session tokens are
memory-only and expire after 24 hours.

Examples:
  eregs auth register alice
  eregs auth login alice
  eregs auth key create alice
  eregs auth key list alice
  eregs auth key revoke <key-id>`,
}

var authRegisterCmd = &cobra.Command{
	Use:   "register [username]",
	Short: "Register a new user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := ensureServices(ctx); err != nil {
			return err
		}

		cmd.Print("Password: ")
		password := readPassword()
		cmd.Println()

		if err := authService.Register(ctx, args[0], password); err != nil {
			return err
		}
		cmd.Printf("Registered user %s\n", args[0])
		return nil
	},
}

var authLoginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Verify credentials and print a session token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := ensureServices(ctx); err != nil {
			return err
		}

		cmd.Print("Password: ")
		password := readPassword()
		cmd.Println()

		token, err := authService.Login(ctx, args[0], password)
		if err != nil {
			return err
		}
		cmd.Printf("Token: %s (expires %s)\n", token.ID, token.ExpiresAt.Format("2006-01-02 15:04"))
		return nil
	},
}

var authKeyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage API keys",
}

var authKeyCreateCmd = &cobra.Command{
	Use:   "create [username]",
	Short: "Create an API key for a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := ensureServices(ctx); err != nil {
			return err
		}

		key, err := authService.CreateAPIKey(ctx, args[0])
		if err != nil {
			return err
		}
		// The secret is only shown once.
		cmd.Printf("Key ID:  %s\nSecret:  %s\n", key.ID, key.Secret)
		return nil
	},
}

var authKeyListCmd = &cobra.Command{
	Use:   "list [username]",
	Short: "List a user's API keys",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := ensureServices(ctx); err != nil {
			return err
		}

		keys, err := authService.ListAPIKeys(ctx, args[0])
		if err != nil {
			return err
		}
		if len(keys) == 0 {
			cmd.Println("No API keys.")
			return nil
		}
		for _, key := range keys {
			cmd.Printf("%s  created %s\n", key.ID, key.CreatedAt.Format("2006-01-02"))
		}
		return nil
	},
}

var authKeyRevokeCmd = &cobra.Command{
	Use:   "revoke [key-id]",
	Short: "Revoke an API key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := ensureServices(ctx); err != nil {
			return err
		}

		if err := authService.RevokeAPIKey(ctx, args[0]); err != nil {
			return err
		}
		cmd.Println("Key revoked.")
		return nil
	},
}

func init() {
	authKeyCmd.AddCommand(authKeyCreateCmd, authKeyListCmd, authKeyRevokeCmd)
	authCmd.AddCommand(authRegisterCmd, authLoginCmd, authKeyCmd)
	rootCmd.AddCommand(authCmd)
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}
