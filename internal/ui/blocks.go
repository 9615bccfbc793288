package ui

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/agenda/internal/schedule"
)

func (a *App) addCmd() *cobra.Command {
	var (
		day      string
		start    string
		end      string
		modality string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an availability block",
		Long: `Add an availability block to the weekly schedule.

Times are snapped to 10 minutes. The block must not overlap another block
on the same day.

Example:
  agenda add --day=mon --start=09:00 --end=12:00 --modality=in_person`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := schedule.ParseWeekday(day)
			if err != nil {
				return err
			}
			m := a.config.Modality()
			if modality != "" {
				if m, err = schedule.ParseModality(modality); err != nil {
					return err
				}
			}
			startMin, err := parseTimeFlag("start", start)
			if err != nil {
				return err
			}
			endMin, err := parseTimeFlag("end", end)
			if err != nil {
				return err
			}

			sess, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			b, err := sess.Store().AddBlock(w, m, startMin, endMin)
			if err != nil {
				return fmt.Errorf("adding block: %w", err)
			}
			if err := sess.Save(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added %s: %s (%d appts)\n",
				ShortID(b.ID), b, b.Capacity(sess.Store().Settings()))
			return nil
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Weekday (mon..sun, required)")
	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM, required)")
	cmd.Flags().StringVar(&end, "end", "", "End time (HH:MM, required)")
	cmd.Flags().StringVar(&modality, "modality", "", "online or in_person (default from config)")

	_ = cmd.MarkFlagRequired("day")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func (a *App) editCmd() *cobra.Command {
	var (
		day      string
		start    string
		end      string
		modality string
	)

	cmd := &cobra.Command{
		Use:   "edit [id]",
		Short: "Edit an availability block",
		Long: `Change the day, modality or times of a block. The id may be a unique prefix.
Only the flags you pass are changed; the edit is rejected as a whole if the
result is invalid or overlaps another block.

Example:
  agenda edit 3f2a --end=13:00`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			var patch schedule.Patch

			if flags.Changed("day") {
				w, err := schedule.ParseWeekday(day)
				if err != nil {
					return err
				}
				patch.Weekday = &w
			}
			if flags.Changed("modality") {
				m, err := schedule.ParseModality(modality)
				if err != nil {
					return err
				}
				patch.Modality = &m
			}
			if flags.Changed("start") {
				v, err := parseTimeFlag("start", start)
				if err != nil {
					return err
				}
				patch.StartMin = &v
			}
			if flags.Changed("end") {
				v, err := parseTimeFlag("end", end)
				if err != nil {
					return err
				}
				patch.EndMin = &v
			}
			if patch.IsEmpty() {
				return errors.New("nothing to change: pass --day, --modality, --start or --end")
			}

			sess, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			target, err := FindBlock(sess.Store(), args[0])
			if err != nil {
				return err
			}
			b, err := sess.Store().EditBlock(target.ID, patch)
			if err != nil {
				return fmt.Errorf("editing block: %w", err)
			}
			if err := sess.Save(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s: %s\n", ShortID(b.ID), b)
			return nil
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Weekday (mon..sun)")
	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM)")
	cmd.Flags().StringVar(&end, "end", "", "End time (HH:MM)")
	cmd.Flags().StringVar(&modality, "modality", "", "online or in_person")

	return cmd
}

func (a *App) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove [id]",
		Aliases: []string{"rm"},
		Short:   "Remove an availability block",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			b, err := FindBlock(sess.Store(), args[0])
			if err != nil {
				return err
			}
			sess.Store().RemoveBlock(b.ID)
			if err := sess.Save(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s: %s\n", ShortID(b.ID), b)
			return nil
		},
	}
}

func (a *App) clearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every availability block",
		Long: `Remove every block of the weekly schedule. Settings are kept.

Requires --yes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("refusing to clear the schedule without --yes")
			}
			sess, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			n := sess.Store().Len()
			sess.Store().ClearAll()
			if err := sess.Save(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d blocks.\n", n)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm clearing the schedule")
	return cmd
}
