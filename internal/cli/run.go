package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/incydecy/internal/bot"
	"github.com/roach88/incydecy/internal/config"
	"github.com/roach88/incydecy/internal/discord"
	"github.com/roach88/incydecy/internal/ledger"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Config   string
	Database string
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Connect to the gateway and watch for mutations",
		Long: `Connect to the Discord gateway and watch messages for counter
mutations, applying each to the ledger and replying with the new value.

Configuration comes from an optional YAML file; the bot token comes from
the ` + config.EnvToken + ` environment variable (which overrides the file).

Example:
  incydecy run --db ./incydecy.db
  incydecy run --config /etc/incydecy/config.yaml --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBot(opts)
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "", "path to YAML config file")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the SQLite ledger (overrides config)")

	return cmd
}

func runBot(opts *RunOptions) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if opts.Database != "" {
		cfg.Database = opts.Database
	}
	if err := cfg.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	// Configure logging from config, with --verbose forcing debug
	logLevel := cfg.LogLevel()
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("opening ledger", "path", cfg.Database)
	lg, err := ledger.Open(cfg.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open ledger", err)
	}
	defer func() {
		if closeErr := lg.Close(); closeErr != nil {
			logger.Error("error closing ledger", "error", closeErr)
		}
	}()

	sess, err := discord.New(cfg.Discord.Token, logger)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create gateway session", err)
	}
	sess.Bind(bot.New(lg, sess, logger))

	if err := sess.Open(); err != nil {
		return WrapExitError(ExitCommandError, "failed to connect to gateway", err)
	}
	defer func() {
		if closeErr := sess.Close(); closeErr != nil {
			logger.Error("error closing gateway session", "error", closeErr)
		}
	}()

	logger.Info("watching for mutations", "database", cfg.Database)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("shutting down")
	return nil
}
