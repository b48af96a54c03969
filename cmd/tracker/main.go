package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	slackadapter "github.com/hucklog/hucklog/internal/adapters/slack"
	"github.com/hucklog/hucklog/internal/app"
	"github.com/hucklog/hucklog/internal/config"
	"github.com/hucklog/hucklog/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "tracker",
	Short: "Slack fitness activity tracker",
	Long: `tracker ingests a workout channel's activity markers into a durable
log and posts weekly reminders, leaderboards and captains reports.

Configuration comes from defaults, an optional YAML file named by
TRACKER_CONFIG, and TRACKER_-prefixed environment variables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// runCmd performs one scheduled pass: ingest, then whatever the weekday
// calls for. Trigger it from cron.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Ingest the channel and post the day's reports",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, svc, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		return svc.RunScheduled(ctx)
	},
}

// listenCmd serves the slash commands over socket mode until interrupted.
var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Serve slash commands over socket mode",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, svc, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		cfg := loadedConfig
		if cfg.AppToken == "" {
			return fmt.Errorf("listen requires an app token")
		}
		listener := slackadapter.NewListener(cfg.BotToken, cfg.AppToken, cfg.CaptainsChannel, svc.Handlers())
		return listener.Run(ctx)
	},
}

// resetCmd starts a new tracking period and rebuilds the roster.
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Start a new tracking period and refresh the roster",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, svc, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		return svc.Reset(ctx)
	},
}

// loadedConfig is set by bootstrap for subcommands that need raw settings.
var loadedConfig *config.Config

func bootstrap(parent context.Context) (context.Context, *app.Service, error) {
	ctx, _ := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)

	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	loadedConfig = cfg

	logOpts := []logger.Option{}
	if cfg.LogFile != "" {
		logOpts = append(logOpts, logger.WithFile(cfg.LogFile))
	}
	if err := logger.Init(logOpts...); err != nil {
		return nil, nil, err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return nil, nil, err
	}

	svc, err := newService(cfg)
	if err != nil {
		return nil, nil, err
	}
	return ctx, svc, nil
}

func init() {
	rootCmd.AddCommand(runCmd, listenCmd, resetCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "tracker:", err)
		os.Exit(1)
	}
}
