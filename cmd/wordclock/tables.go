package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coreman2200/funtimes-wordclock/internal/words"
)

func newTablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "Check the word tables against the plate and list the display modes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := words.Validate(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d words, %d modes\n", words.Count, words.ModeCount)
			for i, m := range words.Modes {
				fmt.Fprintf(out, "%d\t%-34s\tminutes: %s\thours: %s\n", i, m.Description, m.Minutes, m.Hours)
			}
			return nil
		},
	}
}
