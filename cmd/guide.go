package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(guideCmd)
}

const guideText = `Available commands:

  /mcp help                       show this reference
  /mcp test <type>                fetch a security test prompt
                                  (jailbreak, bias, privacy, ...)
  /mcp dataset list               list available datasets
  /mcp dataset load <name>        load a dataset's contents
  /mcp enhance                    enhance your previous prompt
  /mcp analyze                    analyze your previous prompt for issues
  /mcp list tools|prompts|datasets
  /mcp resources                  list all resources
  /mcp resources read <uri>       read one resource
  /mcp prompt <name> [k=v ...]    render a prompt template
  /mcp doc <topic>                read documentation
  /mcp search <query>             search documentation

Natural phrasing works for some of these: "show me the datasets",
"help with jailbreak testing", "make this prompt better".`

var guideCmd = &cobra.Command{
	Use:     "guide",
	Short:   "Print the chat command reference",
	GroupID: "start",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(guideText)
	},
}
