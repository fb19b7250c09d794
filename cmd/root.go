package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/violentutf/vmcp/internal/auth"
	"github.com/violentutf/vmcp/internal/config"
	"github.com/violentutf/vmcp/internal/mcp"
	"github.com/violentutf/vmcp/internal/output"
)

var (
	flagJSON    bool
	flagURL     string
	flagContext string
	flagTimeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "vmcp",
	Short: "ViolentUTF MCP client — drive the red-teaming backend from the terminal",
	Long: `vmcp talks JSON-RPC to the ViolentUTF MCP endpoint: list and execute
tools, render prompt templates, read datasets and docs, and run an
interactive chat loop that understands /mcp commands. Tokens are
minted locally from your stored identity and refreshed before expiry.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().StringVar(&flagURL, "url", "", "Override server URL")
	rootCmd.PersistentFlags().StringVar(&flagContext, "context", "", "Use specific context")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 30*time.Second, "Per-request timeout")

	rootCmd.AddGroup(
		&cobra.Group{ID: "start", Title: "Getting Started:"},
		&cobra.Group{ID: "explore", Title: "Server Capabilities:"},
		&cobra.Group{ID: "chat", Title: "Interactive:"},
		&cobra.Group{ID: "advanced", Title: "Advanced:"},
	)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the CLI config, applying the --context override.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		output.Warnf("config unreadable, using defaults: %v", err)
		cfg = config.Default()
	}
	if flagContext != "" {
		cfg.CurrentContext = flagContext
	}
	return cfg
}

// newProvider builds a credential provider for the active context,
// minting an initial token when an identity is stored. A missing
// identity or signing secret is not fatal here: the transport will
// fail closed with an auth error if the backend actually requires it.
func newProvider(cfg *config.Config) *auth.Provider {
	provider := auth.NewProvider(auth.NewSession())
	ctx := cfg.Current()
	if ctx == nil || ctx.Identity == nil {
		return provider
	}
	id := ctx.Identity
	claims := auth.NewClaims(id.Username, id.Email, id.Name, id.Roles)
	if _, err := provider.CreateToken(claims); err != nil {
		output.Warnf("could not mint token for %s: %v", id.Username, err)
	}
	return provider
}

// newFacade wires config → credentials → transport → client → facade.
func newFacade() (*mcp.SyncClient, *auth.Provider) {
	cfg := loadConfig()
	url := cfg.CurrentURL()
	if flagURL != "" {
		url = flagURL
	}
	var apiKey string
	if ctx := cfg.Current(); ctx != nil {
		apiKey = ctx.APIKey
	}

	provider := newProvider(cfg)
	opts := []mcp.TransportOption{mcp.WithTimeout(flagTimeout)}
	if apiKey != "" {
		opts = append(opts, mcp.WithAPIKey(apiKey))
	}
	transport := mcp.NewTransport(url, provider, opts...)
	client := mcp.NewClient(transport)
	return mcp.NewSyncClient(client, flagTimeout), provider
}
