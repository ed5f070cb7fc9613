package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/incydecy/internal/ledger"
)

// TopOptions holds flags for the top command.
type TopOptions struct {
	*RootOptions
	Database string
	Scope    string
	Limit    int
}

// NewTopCommand creates the top command.
func NewTopCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TopOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "top <counters|authors>",
		Short: "Show a scope's leaderboard",
		Long: `Show a scope's leaderboard straight from the ledger.

"counters" ranks counters by current value, "authors" ranks authors by
how many mutations they have committed. Ties break lexically so output
is reproducible.

Example:
  incydecy top counters --db ./incydecy.db --scope guild.42
  incydecy top authors --db ./incydecy.db --scope guild.42 --limit 3 --format json`,
		Args:          cobra.ExactArgs(1),
		ValidArgs:     []string{"counters", "authors"},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTop(opts, args[0], cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the SQLite ledger (required)")
	cmd.Flags().StringVar(&opts.Scope, "scope", "", "scope to query, e.g. guild.42 (required)")
	cmd.Flags().IntVar(&opts.Limit, "limit", ledger.DefaultLimit, "maximum rows to return")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("scope")

	return cmd
}

func runTop(opts *TopOptions, board string, w io.Writer) error {
	lg, err := ledger.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open ledger", err)
	}
	defer lg.Close()

	ctx := context.Background()
	f := &OutputFormatter{Format: opts.Format, Writer: w}

	switch board {
	case "counters":
		ranks, err := lg.TopCounters(ctx, opts.Scope, opts.Limit)
		if err != nil {
			return WrapExitError(ExitCommandError, "leaderboard query failed", err)
		}
		if opts.Format == "json" {
			return f.Success(ranks)
		}
		return f.Success(renderCounters(opts.Scope, ranks))

	case "authors":
		ranks, err := lg.TopAuthors(ctx, opts.Scope, opts.Limit)
		if err != nil {
			return WrapExitError(ExitCommandError, "leaderboard query failed", err)
		}
		if opts.Format == "json" {
			return f.Success(ranks)
		}
		return f.Success(renderAuthors(opts.Scope, ranks))

	default:
		return NewExitError(ExitCommandError, fmt.Sprintf("unknown leaderboard %q: must be counters or authors", board))
	}
}
