package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/violentutf/vmcp/internal/command"
	"github.com/violentutf/vmcp/internal/output"
)

func init() {
	rootCmd.AddCommand(parseCmd)
}

var parseCmd = &cobra.Command{
	Use:     "parse <text>",
	Short:   "Show how input text would be interpreted",
	GroupID: "advanced",
	Long: `Run the command parser and parameter extractor over the given text
without contacting the backend. Useful for checking which rule a
phrasing hits and what arguments it yields.`,
	Example: `  vmcp parse "/mcp test jailbreak"
  vmcp parse "make it more creative with temperature 0.9"`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		text := strings.Join(args, " ")
		parsed := command.Parse(text)

		if flagJSON {
			output.JSON(map[string]any{
				"type":       parsed.Type.String(),
				"subcommand": parsed.Subcommand,
				"arguments":  parsed.Arguments,
				"parameters": command.ExtractParameters(text),
			})
			return
		}

		fmt.Printf("type: %s\n", parsed.Type)
		if parsed.Subcommand != "" {
			fmt.Printf("subcommand: %s\n", parsed.Subcommand)
		}
		for k, v := range parsed.Arguments {
			fmt.Printf("argument %s: %s\n", k, v)
		}
		for k, v := range command.ExtractParameters(text) {
			fmt.Printf("parameter %s: %v\n", k, v)
		}
		if parsed.Type == command.Unknown {
			for _, s := range command.Suggest(text) {
				fmt.Printf("suggestion: %s\n", s)
			}
		}
	},
}
