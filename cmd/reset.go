package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the whole test history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setupHistory(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		n := len(e.History.List())
		e.History.Clear()
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d attempt(s).\n", n)
		return nil
	},
}
