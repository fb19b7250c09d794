package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/violentutf/vmcp/internal/advisor"
	"github.com/violentutf/vmcp/internal/command"
	"github.com/violentutf/vmcp/internal/mcp"
	"github.com/violentutf/vmcp/internal/output"
	"github.com/violentutf/vmcp/internal/uri"
)

func init() {
	rootCmd.AddCommand(chatCmd)
}

var chatCmd = &cobra.Command{
	Use:     "chat",
	Short:   "Interactive command loop",
	GroupID: "chat",
	Long: `Read commands from stdin and dispatch them against the backend.
Slash commands (/mcp ...) map to protocol operations; anything else is
scanned for cues and answered with suggested next steps. Type "exit"
to leave.`,
	Example: `  vmcp chat
  echo "/mcp list tools" | vmcp chat`,
	Run: func(cmd *cobra.Command, args []string) {
		facade, _ := newFacade()
		scanner := bufio.NewScanner(os.Stdin)
		var history []string

		fmt.Println(`ViolentUTF chat — type "/mcp help" for commands, "exit" to quit.`)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				break
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if line == "exit" || line == "quit" {
				break
			}
			history = append(history, line)
			dispatch(facade, command.Parse(line), history)
		}
	},
}

// dispatch routes one parsed command to the protocol facade and
// prints the outcome. Failures print a short notice instead of
// terminating: a degraded backend should not kill the loop.
func dispatch(facade *mcp.SyncClient, parsed command.Parsed, history []string) {
	switch parsed.Type {
	case command.Help:
		fmt.Println(guideText)

	case command.Test:
		testType := parsed.Arguments["test_type"]
		text, ok := facade.GetPrompt(testType+"_test", nil)
		if !ok {
			fmt.Printf("No %s test prompt available.\n", testType)
			return
		}
		fmt.Println(text)

	case command.Dataset:
		dispatchDataset(facade, parsed)

	case command.Enhance:
		prior := lastPlainText(history)
		if prior == "" {
			fmt.Println("Nothing to enhance yet — send a prompt first.")
			return
		}
		result := facade.ExecuteTool("enhance_prompt", map[string]any{"prompt": prior})
		if result == nil {
			fmt.Println("Enhancement unavailable.")
			return
		}
		output.RawJSON(result)

	case command.Analyze:
		prior := lastPlainText(history)
		if prior == "" {
			fmt.Println("Nothing to analyze yet — send a prompt first.")
			return
		}
		result := facade.ExecuteTool("analyze_prompt", map[string]any{"prompt": prior})
		if result == nil {
			fmt.Println("Analysis unavailable.")
			return
		}
		output.RawJSON(result)

	case command.List:
		dispatchList(facade, parsed.Arguments["target"])

	case command.Resources:
		if parsed.Subcommand == "" {
			dispatchList(facade, "resources")
			return
		}
		content := facade.ReadResource(parsed.Arguments["uri"])
		printContent(content)

	case command.Prompt:
		args := map[string]any{}
		for _, pair := range strings.Fields(parsed.Arguments["args"]) {
			if k, v, ok := strings.Cut(pair, "="); ok {
				args[k] = v
			}
		}
		text, ok := facade.GetPrompt(parsed.Arguments["name"], args)
		if !ok {
			fmt.Println("Prompt unavailable.")
			return
		}
		fmt.Println(text)

	case command.Documentation:
		topic := slugify(parsed.Arguments["topic"])
		content := facade.ReadResource(uri.Resource{Category: "docs", Name: topic}.String())
		printContent(content)

	case command.Search:
		result := facade.ExecuteTool("search_documentation", map[string]any{
			"query": parsed.Arguments["query"],
		})
		if result == nil {
			fmt.Println("Search unavailable.")
			return
		}
		output.RawJSON(result)

	default:
		if strings.HasPrefix(parsed.Raw, "/mcp") {
			fmt.Println("Unrecognized command. Did you mean:")
			for _, s := range command.Suggest(parsed.Raw) {
				fmt.Println("  " + s)
			}
			return
		}
		suggestions := advisor.AnalyzeConversation(history)
		if len(suggestions) == 0 {
			fmt.Println(`Not a command — try "/mcp help".`)
			return
		}
		fmt.Println("Suggestions:")
		for _, s := range suggestions {
			fmt.Printf("  %s — %s\n", s.Command, s.Reason)
		}
	}
}

func dispatchDataset(facade *mcp.SyncClient, parsed command.Parsed) {
	switch parsed.Subcommand {
	case "list", "":
		dispatchList(facade, "datasets")
	default:
		name := parsed.Arguments["dataset_name"]
		if name == "" {
			fmt.Println("Which dataset? e.g. /mcp dataset load harmbench")
			return
		}
		content := facade.ReadResource(uri.Resource{Category: "datasets", Name: name}.String())
		printContent(content)
	}
}

func dispatchList(facade *mcp.SyncClient, target string) {
	switch target {
	case "tools":
		tools := facade.ListTools()
		names := make([]string, len(tools))
		for i, t := range tools {
			names[i] = t.Name
		}
		output.List(names)
	case "prompts":
		prompts := facade.ListPrompts()
		names := make([]string, len(prompts))
		for i, p := range prompts {
			names[i] = p.Name
		}
		output.List(names)
	case "datasets":
		var names []string
		for _, r := range facade.ListResources() {
			if parsed, err := uri.Parse(r.URI); err == nil && parsed.Category == "datasets" {
				names = append(names, parsed.Name)
			}
		}
		output.List(names)
	default:
		names := make([]string, 0)
		for _, r := range facade.ListResources() {
			names = append(names, r.URI)
		}
		output.List(names)
	}
}

// lastPlainText returns the most recent history entry that was not a
// slash command, for enhance/analyze to operate on.
func lastPlainText(history []string) string {
	for i := len(history) - 1; i >= 0; i-- {
		if !strings.HasPrefix(history[i], "/mcp") {
			return history[i]
		}
	}
	return ""
}

func printContent(content any) {
	switch v := content.(type) {
	case nil:
		fmt.Println("Resource unavailable.")
	case string:
		fmt.Println(v)
	default:
		output.JSON(v)
	}
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.ReplaceAll(s, " ", "-")
}
