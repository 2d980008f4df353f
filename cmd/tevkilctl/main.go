package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muratcankoptayyy/tevkil-platform/internal/cli"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tevkilctl",
		Short: "Operator tool for the tevkil WhatsApp bot",
		Long: `tevkilctl manages the tevkil marketplace database and lets operators
send messages or talk to the bot without going through WhatsApp.`,
	}

	rootCmd.AddCommand(cli.MigrateCmd())
	rootCmd.AddCommand(cli.UserCmd())
	rootCmd.AddCommand(cli.ListingsCmd())
	rootCmd.AddCommand(cli.ChatCmd())
	rootCmd.AddCommand(cli.SendCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
