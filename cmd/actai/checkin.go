package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"actai-dashboard/internal/domain"
)

// dateArg parses an optional YYYY-MM-DD argument, defaulting to today.
func dateArg(args []string) (domain.Date, error) {
	if len(args) == 0 || args[0] == "" {
		return domain.NewDate(time.Now()), nil
	}
	return domain.ParseDate(args[0])
}

func (c *cli) checkinCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkin",
		Short: "Daily check-ins",
	}
	cmd.AddCommand(c.checkinShowCmd(), c.checkinSaveCmd(), c.checkinHistoryCmd())
	return cmd
}

func (c *cli) checkinShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [date]",
		Short: "Show the check-in for a day (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := dateArg(args)
			if err != nil {
				return err
			}
			form, err := c.app.Checkins.Load(cmd.Context(), d)
			if err != nil {
				return err
			}
			return c.emit(cmd.OutOrStdout(), form, func(w io.Writer) error {
				if form.Editing {
					_, err := fmt.Fprintf(w, "no check-in for %s yet, record one with: actai checkin save\n", d)
					return err
				}
				return writeCheckin(w, form.Checkin)
			})
		},
	}
}

func (c *cli) checkinSaveCmd() *cobra.Command {
	var (
		date, mood, reflection, achievements string
		score                                float64
	)
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Record or update a day's check-in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := dateArg([]string{date})
			if err != nil {
				return err
			}
			// Start from what is already recorded so that unset flags keep their values.
			form, err := c.app.Checkins.Load(cmd.Context(), d)
			if err != nil {
				return err
			}
			in := form.Checkin
			f := cmd.Flags()
			if f.Changed("mood") {
				in.Mood = mood
			}
			if f.Changed("reflection") {
				in.ReflectionNotes = reflection
			}
			if f.Changed("achievements") {
				in.AchievementsToday = achievements
			}
			if f.Changed("score") {
				in.ProductivityScore = &score
			}
			saved, err := c.app.Checkins.Save(cmd.Context(), in)
			if err != nil {
				return err
			}
			return c.emit(cmd.OutOrStdout(), saved, func(w io.Writer) error {
				return writeCheckin(w, saved)
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "day, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&mood, "mood", "", "mood")
	cmd.Flags().StringVar(&reflection, "reflection", "", "reflection notes")
	cmd.Flags().StringVar(&achievements, "achievements", "", "what got done today")
	cmd.Flags().Float64Var(&score, "score", domain.DefaultProductivityScore, "productivity score 0..10")
	return cmd
}

func (c *cli) checkinHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List past check-ins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := c.app.Checkins.History(cmd.Context())
			if err != nil {
				return err
			}
			return c.emit(cmd.OutOrStdout(), list, func(w io.Writer) error {
				if len(list) == 0 {
					_, err := fmt.Fprintln(w, "no check-ins yet")
					return err
				}
				for _, ci := range list {
					score := "-"
					if ci.ProductivityScore != nil {
						score = fmt.Sprintf("%g", *ci.ProductivityScore)
					}
					fmt.Fprintf(w, "%s  %-10s %4s  %s\n", ci.Date, ci.Mood, score, ci.AchievementsToday)
				}
				return nil
			})
		},
	}
}
