package main

import (
	"github.com/spf13/cobra"

	"finanzas/internal/cli"
	"finanzas/internal/config"
	applog "finanzas/internal/log"
)

var logLevel string

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "finanzasctl",
		Short: "Administrative tool for the finanzas service",
		Long: `finanzasctl manages the finanzas database schema and exposes the loan
payment calculator and folio generator from the command line.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if logLevel == "" {
				logLevel = config.Load().LogLevel
			}
			cli.SetupLogger(logLevel).WithComponent(applog.ComponentCLI)
		},
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); defaults to LOG_LEVEL")

	cmd.AddCommand(newMigrateCmd(), newPaymentCmd(), newFolioCmd())
	return cmd
}
