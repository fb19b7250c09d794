package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/violentutf/vmcp/internal/auth"
	"github.com/violentutf/vmcp/internal/config"
	"github.com/violentutf/vmcp/internal/output"
)

func init() {
	loginCmd.Flags().String("username", "", "Username (subject claim)")
	loginCmd.Flags().String("email", "", "Email claim")
	loginCmd.Flags().String("name", "", "Display name claim")
	loginCmd.Flags().StringSlice("role", []string{"ai-api-access"}, "Role claims")
	_ = loginCmd.MarkFlagRequired("username")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

var loginCmd = &cobra.Command{
	Use:     "login",
	Short:   "Store an identity and mint a bearer token",
	GroupID: "start",
	Long: `Store the identity claims for the active context and mint a signed
bearer token from them. Minting needs the signing secret, resolved
from ` + auth.EnvSecret + `, then the known secrets files. The identity is
persisted; tokens are short-lived and re-minted per session.`,
	Example: `  vmcp login --username tester
  vmcp login --username tester --email tester@example.com --role admin --role ai-api-access`,
	Run: func(cmd *cobra.Command, args []string) {
		username, _ := cmd.Flags().GetString("username")
		email, _ := cmd.Flags().GetString("email")
		name, _ := cmd.Flags().GetString("name")
		roles, _ := cmd.Flags().GetStringSlice("role")

		cfg := loadConfig()
		if cfg.Current() == nil {
			output.Errorf("No active context %q.", cfg.CurrentContext)
		}
		identity := &config.Identity{Username: username, Email: email, Name: name, Roles: roles}
		if err := cfg.SetIdentity(identity); err != nil {
			output.Errorf("Saving identity: %v", err)
		}

		provider := auth.NewProvider(auth.NewSession())
		claims := auth.NewClaims(username, email, name, roles)
		if _, err := provider.CreateToken(claims); err != nil {
			output.Warnf("identity saved, but no token could be minted: %v", err)
			return
		}

		state, remaining := provider.Status()
		if flagJSON {
			output.JSON(map[string]any{
				"username":          username,
				"state":             state.String(),
				"minutes_remaining": int(remaining.Minutes()),
			})
			return
		}
		fmt.Printf("Logged in as %s (token valid %d min)\n", username, int(remaining.Minutes()))
	},
}

var logoutCmd = &cobra.Command{
	Use:     "logout",
	Short:   "Forget the stored identity",
	GroupID: "start",
	Long:    "Remove the identity claims from the active context. Tokens are never persisted, so forgetting the identity is all a logout needs.",
	Example: "  vmcp logout",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		if cfg.Current() == nil {
			output.Success("Nothing to log out of.")
			return
		}
		if err := cfg.SetIdentity(nil); err != nil {
			output.Errorf("Clearing identity: %v", err)
		}
		output.Success("Logged out.")
	},
}

var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Short:   "Show the stored identity",
	GroupID: "start",
	Example: `  vmcp whoami
  vmcp whoami --json`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		ctx := cfg.Current()
		if ctx == nil || ctx.Identity == nil {
			output.Error("No identity stored. Run 'vmcp login' first.")
		}
		id := ctx.Identity
		if flagJSON {
			output.JSON(id)
			return
		}
		output.KeyValue(map[string]any{
			"username": id.Username,
			"email":    id.Email,
			"name":     id.Name,
			"roles":    fmt.Sprintf("%v", id.Roles),
			"context":  cfg.CurrentContext,
		})
	},
}
