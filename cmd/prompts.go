package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/violentutf/vmcp/internal/output"
)

func init() {
	promptsCmd.AddCommand(promptsListCmd)
	promptsCmd.AddCommand(promptsGetCmd)
	rootCmd.AddCommand(promptsCmd)
}

var promptsCmd = &cobra.Command{
	Use:     "prompts",
	Short:   "Browse and render server prompt templates",
	GroupID: "explore",
}

var promptsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available prompt templates",
	Example: `  vmcp prompts list
  vmcp prompts list --json`,
	Run: func(cmd *cobra.Command, args []string) {
		facade, _ := newFacade()
		prompts := facade.ListPrompts()

		if flagJSON {
			output.JSON(prompts)
			return
		}
		if len(prompts) == 0 {
			output.Success("No prompts available.")
			return
		}
		rows := make([]map[string]string, len(prompts))
		for i, p := range prompts {
			rows[i] = map[string]string{
				"NAME":        p.Name,
				"ARGS":        fmt.Sprintf("%d", len(p.Arguments)),
				"DESCRIPTION": p.Description,
			}
		}
		output.Table([]string{"NAME", "ARGS", "DESCRIPTION"}, rows)
	},
}

var promptsGetCmd = &cobra.Command{
	Use:   "get <name> [json-args]",
	Short: "Render a prompt template with arguments",
	Example: `  vmcp prompts get jailbreak_test
  vmcp prompts get persona '{"persona":"auditor","tone":"formal"}'`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]

		var promptArgs map[string]any
		if len(args) > 1 {
			if err := json.Unmarshal([]byte(args[1]), &promptArgs); err != nil {
				output.Errorf("Invalid JSON: %v", err)
			}
		}

		facade, _ := newFacade()
		text, ok := facade.GetPrompt(name, promptArgs)
		if !ok {
			output.Errorf("Prompt %q could not be rendered.", name)
		}
		if flagJSON {
			output.JSON(map[string]any{"name": name, "prompt": text})
			return
		}
		fmt.Println(text)
	},
}
