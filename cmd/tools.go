package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/violentutf/vmcp/internal/output"
)

func init() {
	toolsCmd.AddCommand(toolsListCmd)
	toolsCmd.AddCommand(toolsExecCmd)
	rootCmd.AddCommand(toolsCmd)
}

var toolsCmd = &cobra.Command{
	Use:     "tools",
	Short:   "Discover and execute server tools",
	GroupID: "explore",
}

var toolsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the tools the server exposes",
	Example: `  vmcp tools list
  vmcp tools list --json`,
	Run: func(cmd *cobra.Command, args []string) {
		facade, _ := newFacade()
		tools := facade.ListTools()

		if flagJSON {
			output.JSON(tools)
			return
		}
		if len(tools) == 0 {
			output.Success("No tools available.")
			return
		}
		rows := make([]map[string]string, len(tools))
		for i, tool := range tools {
			rows[i] = map[string]string{
				"NAME":        tool.Name,
				"DESCRIPTION": tool.Description,
			}
		}
		output.Table([]string{"NAME", "DESCRIPTION"}, rows)
	},
}

var toolsExecCmd = &cobra.Command{
	Use:   "exec <tool> [json-args]",
	Short: "Execute a tool by name",
	Long:  "Execute any registered tool by name, passing an optional JSON object as arguments. Useful for scripting and for tools without a dedicated command.",
	Example: `  vmcp tools exec list_generators
  vmcp tools exec run_scorer '{"scorer":"bias","target":"gpt-4"}'`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]

		var toolArgs map[string]any
		if len(args) > 1 {
			if err := json.Unmarshal([]byte(args[1]), &toolArgs); err != nil {
				output.Errorf("Invalid JSON: %v", err)
			}
		}

		facade, _ := newFacade()
		result := facade.ExecuteTool(name, toolArgs)
		if result == nil {
			output.Errorf("Tool %q failed or returned nothing.", name)
		}
		output.RawJSON(result)
	},
}
