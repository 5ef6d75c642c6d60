// Команда projexctl обслуживает базу ProjexNest: миграции, демо-данные,
// закрытие просроченных ссылок и выпуск тестовых токенов.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

const Version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "projexctl",
		Short:         "Служебные команды ProjexNest",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		migrateCmd(),
		seedCmd(),
		expireSessionsCmd(),
		tokenCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Версия projexctl",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "projexctl version %s\n", Version)
			},
		},
	)
	return cmd
}
