package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/violentutf/vmcp/internal/config"
	"github.com/violentutf/vmcp/internal/output"
)

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configUseCmd)
	configCmd.AddCommand(configSetURLCmd)
	configCmd.AddCommand(configSetKeyCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Manage connection contexts",
	GroupID: "advanced",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current configuration",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		if flagJSON {
			output.JSON(cfg)
			return
		}
		names := make([]string, 0, len(cfg.Contexts))
		for name := range cfg.Contexts {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			marker := " "
			if name == cfg.CurrentContext {
				marker = "*"
			}
			ctx := cfg.Contexts[name]
			user := "-"
			if ctx.Identity != nil {
				user = ctx.Identity.Username
			}
			fmt.Printf("%s %-12s %-40s %s\n", marker, name, ctx.URL, user)
		}
	},
}

var configUseCmd = &cobra.Command{
	Use:   "use <context>",
	Short: "Switch the active context, creating it if new",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		name := args[0]
		if cfg.Contexts[name] == nil {
			cfg.Contexts[name] = &config.Context{}
		}
		cfg.CurrentContext = name
		if err := cfg.Save(); err != nil {
			output.Errorf("save config: %v", err)
		}
		output.Success(fmt.Sprintf("Switched to context %q", name))
	},
}

var configSetURLCmd = &cobra.Command{
	Use:   "set-url <url>",
	Short: "Set the endpoint URL on the active context",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		ctx := cfg.Current()
		if ctx == nil {
			output.Error("no active context; run \"vmcp config use <name>\" first")
		}
		ctx.URL = args[0]
		if err := cfg.Save(); err != nil {
			output.Errorf("save config: %v", err)
		}
		output.Success("Endpoint set to " + args[0])
	},
}

var configSetKeyCmd = &cobra.Command{
	Use:   "set-key <api-key>",
	Short: "Set the gateway API key on the active context",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		ctx := cfg.Current()
		if ctx == nil {
			output.Error("no active context; run \"vmcp config use <name>\" first")
		}
		ctx.APIKey = args[0]
		if err := cfg.Save(); err != nil {
			output.Errorf("save config: %v", err)
		}
		output.Success("API key stored")
	},
}
