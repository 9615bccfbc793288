package ui

import (
	"fmt"
	"io"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/agenda/internal/schedule"
	"github.com/javiermolinar/agenda/internal/summary"
)

// copyToClipboard is replaced in tests.
var copyToClipboard = clipboard.WriteAll

func (a *App) showCmd() *cobra.Command {
	var copySummary bool
	var noColor bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the weekly availability",
		Long: `Display every availability block of the week with its appointment capacity.

Use --copy to put a plain-text summary on the clipboard.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}

			sess, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			sum := summary.FromStore(sess.Store())
			printWeek(cmd.OutOrStdout(), sum, termWidth())

			if copySummary {
				if err := copyToClipboard(sum.Text()); err != nil {
					return fmt.Errorf("copying to clipboard: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatMuted("Summary copied to clipboard."))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&copySummary, "copy", false, "Copy a plain-text summary to the clipboard")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

// printWeek writes the week table: one section per weekday with blocks.
func printWeek(w io.Writer, sum *summary.WeekSummary, width int) {
	s := sum.Settings
	fmt.Fprintf(w, "=== %s ===\n", formatHeader("Weekly availability"))
	fmt.Fprintln(w, formatMuted(fmt.Sprintf("Online %dm · In person %dm · Buffer %dm",
		s.DurationOnline, s.DurationInPerson, s.BufferMinutes)))

	if sum.TotalMinutes() == 0 {
		fmt.Fprintln(w, "\nNo availability yet. Add a block with 'agenda add' or run 'agenda'.")
		return
	}

	barWidth := min(48, max(12, width-16))
	for _, day := range sum.Days {
		if len(day.Blocks) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s %s\n", formatHeader(fmt.Sprintf("%-4s", day.Weekday.Short())), DayBar(day.Blocks, barWidth))
		for _, b := range day.Blocks {
			fmt.Fprintf(w, "  %s  %s-%s  %s %6s  %s\n",
				formatMuted(fmt.Sprintf("%-8s", ShortID(b.ID))),
				schedule.MinutesToTime(b.StartMin),
				schedule.MinutesToTime(b.EndMin),
				formatModality(b.Modality, fmt.Sprintf("%-11s", b.Modality.Label())),
				summary.FormatHours(b.Duration()),
				formatStats(fmt.Sprintf("%d appts", b.Capacity(s))),
			)
		}
	}

	fmt.Fprintf(w, "\nTotal: %s | %s | %s\n",
		summary.FormatHours(sum.TotalMinutes()),
		formatModality(schedule.ModalityOnline, fmt.Sprintf("Online: %d appts", sum.Online.Capacity)),
		formatModality(schedule.ModalityInPerson, fmt.Sprintf("In person: %d appts", sum.InPerson.Capacity)),
	)
}
