package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"actai-dashboard/internal/app"
	"actai-dashboard/internal/config"
	"actai-dashboard/internal/logging"
)

var Version = "dev"

// cli carries state shared by all subcommands. app is built lazily by
// PersistentPreRunE so that --help never touches the filesystem.
type cli struct {
	configPath string
	verbose    bool
	jsonOut    bool

	cfg config.Config
	log *zap.Logger
	app *app.App
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := &cli{}
	if err := c.rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "actai",
		Short:         "ActAI learning-plan dashboard client",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.teardown()
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/actai/config.yaml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().BoolVar(&c.jsonOut, "json", false, "print results as JSON")

	root.AddCommand(
		c.registerCmd(), c.loginCmd(), c.logoutCmd(), c.meCmd(),
		c.plansCmd(),
		c.bucketCmd("today", "Tasks due today"),
		c.bucketCmd("tomorrow", "Tasks due tomorrow"),
		c.bucketCmd("upcoming", "Tasks due later"),
		c.inProgressCmd(),
		c.advanceCmd(), c.setStatusCmd(), c.toggleMilestoneCmd(),
		c.editCmd(), c.createPlanCmd(), c.adaptCmd(),
		c.voicePlanCmd(), c.speakCmd(),
		c.checkinCmd(), c.noteCmd(),
		c.snapshotCmd(), c.serveCmd(),
	)
	return root
}

func (c *cli) setup() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	level := cfg.Log.Level
	if c.verbose {
		level = "debug"
	}
	log, err := logging.New(level, cfg.Log.Format)
	if err != nil {
		return err
	}
	a, err := app.New(log, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}
	c.cfg, c.log, c.app = cfg, log, a
	return nil
}

func (c *cli) teardown() error {
	if c.app == nil {
		return nil
	}
	err := c.app.Close()
	_ = c.log.Sync()
	return err
}

// load fetches the dashboard so that status commands see current values.
func (c *cli) load(ctx context.Context) error {
	return c.app.Loader.Load(ctx)
}
