package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/rangeseek"
)

func dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard DIR",
		Short: "Index the stage reports below DIR",
		Long: `Writes DIR/index.html linking every stage report written below DIR, newest
first. Stage reports are written by Operator.WriteReport in tests.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, entries, err := rangeseek.GenerateDashboard(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d reports)\n", path, len(entries))
			return nil
		},
	}
}
