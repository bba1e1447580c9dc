package cmd

import (
	"mcpie/internal/exampleserver"

	"github.com/spf13/cobra"
)

// newExampleServerCmd runs the bundled example server on stdio, so
// `mcpie "mcpie example-server" -- tool list` works without other tooling.
func newExampleServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "example-server",
		Short: "Run the bundled example MCP server on stdio",
		Long: `Starts a small MCP server on stdin/stdout offering the tools add,
process_text and filter_list, the resources config://app and
greeting://{name}, and the prompt review_code.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return exampleserver.ServeStdio()
		},
	}
}
