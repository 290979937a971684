package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/coreman2200/funtimes-wordclock/internal/timesource"
	"github.com/coreman2200/funtimes-wordclock/internal/words"
)

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the front plate with the words lit for a time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := cmd.Flags()
			mode, _ := f.GetInt("mode")
			if mode < 0 || mode >= words.ModeCount {
				return fmt.Errorf("mode %d out of range [0, %d)", mode, words.ModeCount)
			}

			var sel words.Selection
			if f.Changed("temperature") {
				idx, _ := f.GetInt("temperature")
				sel = words.SelectTemperature(idx)
			} else {
				at, _ := f.GetString("time")
				var ct timesource.ClockTime
				if at == "" {
					now := time.Now()
					ct = timesource.ClockTime(now.Hour()*60 + now.Minute())
				} else {
					var err error
					if ct, err = timesource.ParseClock(at); err != nil {
						return err
					}
				}
				sel = words.Select(mode, int(ct)/60, int(ct)%60)
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, words.Render(sel.Words))
			fmt.Fprintln(out, words.Phrase(sel.Words))
			return nil
		},
	}
	cmd.Flags().StringP("time", "t", "", "time as HH:MM (default now)")
	cmd.Flags().IntP("mode", "m", 0, "display mode")
	cmd.Flags().Int("temperature", 0, "half-degree temperature index instead of a time")
	return cmd
}
