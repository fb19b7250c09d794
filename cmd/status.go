package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/violentutf/vmcp/internal/output"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(statusCmd)
}

var healthCmd = &cobra.Command{
	Use:     "health",
	Short:   "Probe the MCP endpoint",
	GroupID: "start",
	Long:    "Run a forced initialize round trip against the backend. This is a real probe, not a cached-state check: it reports whether the server answers right now.",
	Example: `  vmcp health
  vmcp health --json`,
	Run: func(cmd *cobra.Command, args []string) {
		facade, _ := newFacade()
		healthy := facade.HealthCheck()

		if flagJSON {
			result := map[string]any{"healthy": healthy}
			if info := facade.ServerInfo(); info != nil {
				result["server"] = info.Name
				result["version"] = info.Version
			}
			output.JSON(result)
			return
		}
		if !healthy {
			output.Error("Backend did not answer the handshake.")
		}
		if info := facade.ServerInfo(); info != nil {
			output.Success(fmt.Sprintf("OK — %s %s", info.Name, info.Version))
		} else {
			output.Success("OK")
		}
	},
}

var statusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Show credential status",
	GroupID: "start",
	Long:    "Display the bearer credential state (active, expiring soon, refreshing, expired, or absent) and the minutes remaining until expiry. This reads local state only and never blocks on a refresh.",
	Example: `  vmcp status
  vmcp status --json`,
	Run: func(cmd *cobra.Command, args []string) {
		_, provider := newFacade()
		state, remaining := provider.Status()

		minutes := int(remaining.Minutes())
		if flagJSON {
			result := map[string]any{
				"state":             state.String(),
				"minutes_remaining": minutes,
			}
			if err := provider.LastError(); err != nil {
				result["last_refresh_error"] = err.Error()
			}
			output.JSON(result)
			return
		}
		fmt.Printf("credential: %s", state)
		if minutes > 0 {
			fmt.Printf(" (%d min remaining)", minutes)
		}
		fmt.Println()
		if err := provider.LastError(); err != nil {
			output.Warnf("last refresh error: %v", err)
		}
	},
}
