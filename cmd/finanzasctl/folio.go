package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"finanzas/internal/core"
)

var nowFunc = time.Now

func newFolioCmd() *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "folio",
		Short: "Generate contract folios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be at least 1")
			}
			var gen core.FolioGenerator = core.UUIDFolios{}
			for i := 0; i < count; i++ {
				fmt.Fprintln(cmd.OutOrStdout(), gen.Next())
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of folios to print")
	return cmd
}
