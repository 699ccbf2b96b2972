package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (c *cli) snapshotCmd() *cobra.Command {
	var (
		watch    bool
		daily    bool
		interval time.Duration
	)
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Copy plans, milestones and tasks into MySQL",
		Long: `Copy plans, milestones and tasks into the configured MySQL database.

By default a single snapshot is taken. --watch repeats it every --interval
(snapshot.interval in config), --daily runs it at midnight in
snapshot.timezone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if watch && daily {
				return errors.New("--watch and --daily are mutually exclusive")
			}
			ctx := cmd.Context()
			switch {
			case daily:
				loc, err := time.LoadLocation(c.cfg.Snapshot.Timezone)
				if err != nil {
					return fmt.Errorf("invalid snapshot.timezone %q: %w", c.cfg.Snapshot.Timezone, err)
				}
				return c.runDaily(ctx, loc)
			case watch:
				if !cmd.Flags().Changed("interval") {
					interval = c.cfg.Snapshot.Interval
				}
				if interval <= 0 {
					return errors.New("--interval must be positive")
				}
				return c.runPeriodic(ctx, interval)
			}
			n, err := c.app.RunSnapshot(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "snapshot stored %d plans\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "repeat every --interval until interrupted")
	cmd.Flags().BoolVar(&daily, "daily", false, "run at midnight in snapshot.timezone until interrupted")
	cmd.Flags().DurationVar(&interval, "interval", 15*time.Minute, "interval for --watch")
	return cmd
}

func (c *cli) runPeriodic(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	c.log.Info("starting periodic snapshot", zap.Duration("interval", interval))
	c.snapshotLogged(ctx, "initial snapshot")
	for {
		select {
		case <-ctx.Done():
			c.log.Info("shutting down")
			return nil
		case <-ticker.C:
			c.snapshotLogged(ctx, "periodic snapshot")
		}
	}
}

func (c *cli) runDaily(ctx context.Context, loc *time.Location) error {
	c.log.Info("starting daily snapshot at midnight", zap.String("tz", loc.String()))
	for {
		next := nextMidnight(time.Now().In(loc))
		wait := time.Until(next)
		c.log.Info("sleeping until next midnight", zap.Time("next", next), zap.Duration("sleep", wait))
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			c.log.Info("shutting down")
			return nil
		case <-timer.C:
			c.snapshotLogged(ctx, "daily snapshot")
		}
	}
}

// snapshotLogged runs one snapshot; failures are logged so the loop keeps going.
func (c *cli) snapshotLogged(ctx context.Context, what string) {
	n, err := c.app.RunSnapshot(ctx)
	if err != nil {
		c.log.Error(what+" failed", zap.Error(err))
		return
	}
	c.log.Info(what+" completed", zap.Int("plans", n))
}

// nextMidnight returns the first midnight strictly after t in t's location.
func nextMidnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location()).AddDate(0, 0, 1)
}
