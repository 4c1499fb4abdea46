package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "guildflow",
		Short: "Community recruitment and support workflow engine",
		Long: `Guildflow runs the recruitment and support workflows of a chat
community: invites, recruitment processes, interviews, and support
tickets, exposed to operators as MCP tools.`,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(sweepCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
