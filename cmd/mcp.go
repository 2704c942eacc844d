package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tbourn/go-congress-backend/internal/agent"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the assistant tools over MCP on stdin/stdout",
	Long: `Expose the member and bill tools to an MCP client over stdio.
Logs go to stderr; stdout carries only the protocol.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		s := agent.NewMCPServer(a.Tools, Version)
		log.Info().Int("tools", len(a.Tools.Tools())).Msg("mcp server on stdio")
		return agent.ServeStdio(s)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
