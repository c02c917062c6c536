package main

import (
	"os"

	"github.com/spf13/cobra"

	"storepay/internal/interfaces/cli/migrate"
	"storepay/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "storepay",
		Short: "Storepay - payment settlement service",
		Long:  `Storepay settles storefront orders through hosted payment gateways, ingesting gateway webhooks and driving orders to their settled state.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
