package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tjbot",
		Short: "Discord bot serving tag management and math queries over HTTP interactions",
		Long: `tjbot answers Discord slash commands delivered to its interactions endpoint.

It lets moderators manage reusable text snippets ("tags") with /tag-manage and
proxies /wolf queries to WolframAlpha. Configuration is read from the
environment and, outside production, from a .env file.`,
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newTokenCmd())
	return root
}

// @title tjbot API
// @version 1.0
// @description Discord interactions endpoint and tag admin API.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
