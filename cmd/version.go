package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/violentutf/vmcp/internal/output"
)

// Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		if flagJSON {
			output.JSON(map[string]string{
				"version": Version,
				"commit":  Commit,
				"date":    Date,
			})
			return
		}
		fmt.Printf("vmcp %s (commit %s, built %s)\n", Version, Commit, Date)
	},
}
