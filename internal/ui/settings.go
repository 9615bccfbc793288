package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/agenda/internal/schedule"
)

func (a *App) settingsCmd() *cobra.Command {
	var online, inPerson, buffer int

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "View or change appointment durations and buffer",
		Long: fmt.Sprintf(`View or change the appointment settings of the schedule.

Durations: %s minutes
Buffer:    %s minutes

Changing settings never moves existing blocks; it changes the default length
of new blocks and the appointment estimates.

Example:
  agenda settings --online=20 --buffer=5`,
			joinInts(schedule.DurationOptions), joinInts(schedule.BufferOptions)),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			s := sess.Store().Settings()
			if !flags.Changed("online") && !flags.Changed("in-person") && !flags.Changed("buffer") {
				printSettings(cmd.OutOrStdout(), s)
				return nil
			}

			if flags.Changed("online") {
				s.DurationOnline = online
			}
			if flags.Changed("in-person") {
				s.DurationInPerson = inPerson
			}
			if flags.Changed("buffer") {
				s.BufferMinutes = buffer
			}
			if err := s.Validate(); err != nil {
				return err
			}

			sess.Store().SetSettings(s)
			if err := sess.Save(cmd.Context()); err != nil {
				return err
			}
			printSettings(cmd.OutOrStdout(), sess.Store().Settings())
			return nil
		},
	}

	cmd.Flags().IntVar(&online, "online", 0, "Online appointment duration in minutes")
	cmd.Flags().IntVar(&inPerson, "in-person", 0, "In-person appointment duration in minutes")
	cmd.Flags().IntVar(&buffer, "buffer", 0, "Buffer between appointments in minutes")
	return cmd
}

func printSettings(w io.Writer, s schedule.Settings) {
	fmt.Fprintln(w, formatHeader("Appointment settings"))
	fmt.Fprintf(w, "  online     = %dm\n", s.DurationOnline)
	fmt.Fprintf(w, "  in person  = %dm\n", s.DurationInPerson)
	fmt.Fprintf(w, "  buffer     = %dm\n", s.BufferMinutes)
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}
