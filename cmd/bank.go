package cmd

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/abhisek/realie/internal/bank"
)

var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "Inspect question banks",
}

var bankValidateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Validate a question bank (default: the bundled one)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}

		b, err := bank.Load(path)
		if err != nil {
			return err
		}

		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("ID", "TOPIC", "QUESTIONS")
		for i, g := range b.Groups() {
			t.Row(fmt.Sprintf("%d", g.ID), g.Topic, fmt.Sprintf("%d", b.PoolSize(i)))
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, t.String())
		fmt.Fprintf(out, "OK: %d groups\n", b.GroupCount())
		return nil
	},
}

func init() {
	bankCmd.AddCommand(bankValidateCmd)
}
