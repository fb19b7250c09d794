package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/violentutf/vmcp/internal/output"
	"github.com/violentutf/vmcp/internal/uri"
)

func init() {
	resourcesCmd.AddCommand(resourcesListCmd)
	resourcesCmd.AddCommand(resourcesReadCmd)
	rootCmd.AddCommand(resourcesCmd)
}

var resourcesCmd = &cobra.Command{
	Use:     "resources",
	Short:   "Browse and read server resources",
	GroupID: "explore",
}

var resourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available resources",
	Example: `  vmcp resources list
  vmcp resources list --json`,
	Run: func(cmd *cobra.Command, args []string) {
		facade, _ := newFacade()
		resources := facade.ListResources()

		if flagJSON {
			output.JSON(resources)
			return
		}
		if len(resources) == 0 {
			output.Success("No resources available.")
			return
		}
		rows := make([]map[string]string, len(resources))
		for i, r := range resources {
			rows[i] = map[string]string{
				"URI":  r.URI,
				"TYPE": r.MimeType,
				"NAME": r.Name,
			}
		}
		output.Table([]string{"URI", "TYPE", "NAME"}, rows)
	},
}

var resourcesReadCmd = &cobra.Command{
	Use:   "read <uri>",
	Short: "Read one resource by URI",
	Long:  "Fetch a resource and print its contents. Accepts the canonical violentutf:// form or a bare category/name pair.",
	Example: `  vmcp resources read violentutf://datasets/harmbench
  vmcp resources read docs/getting-started`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		canonical, err := uri.Normalize(args[0])
		if err != nil {
			output.Errorf("Bad resource uri: %v", err)
		}

		facade, _ := newFacade()
		content := facade.ReadResource(canonical)
		if content == nil {
			output.Errorf("Resource %q could not be read.", canonical)
		}

		switch v := content.(type) {
		case string:
			fmt.Println(v)
		default:
			output.JSON(v)
		}
	},
}
