package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roach88/incydecy/internal/classify"
	"github.com/roach88/incydecy/internal/ledger"
)

// ApplyOptions holds flags for the apply command.
type ApplyOptions struct {
	*RootOptions
	Database string
	Scope    string
	Channel  string
	Author   string
}

// applyResult is the JSON payload for a successful apply.
type applyResult struct {
	Scope string `json:"scope"`
	Label string `json:"label"`
	Value int64  `json:"value"`
}

// NewApplyCommand creates the apply command.
func NewApplyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ApplyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "apply <text>",
		Short: "Feed one mutation text through the classifier and ledger",
		Long: `Feed one message text through the real classifier and apply the
resulting mutation to the ledger. Useful for seeding counters and for
poking at a ledger without a gateway connection.

The event id is a fresh UUID, so repeating the command keeps tallying
(unlike a redelivered chat event, which deduplicates by id).

Example:
  incydecy apply --db ./incydecy.db --scope guild.42 'coffee++'`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(opts, args[0], cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the SQLite ledger (required)")
	cmd.Flags().StringVar(&opts.Scope, "scope", "", "scope to mutate, e.g. guild.42 (required)")
	cmd.Flags().StringVar(&opts.Channel, "channel", "cli", "channel id to record in the audit row")
	cmd.Flags().StringVar(&opts.Author, "author", "cli", "author id to record in the audit row")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("scope")

	return cmd
}

func runApply(opts *ApplyOptions, text string, w io.Writer) error {
	req, ok := classify.Classify(text)
	if !ok {
		return NewExitError(ExitFailure, fmt.Sprintf("%q is not a mutation (expected label++ or label--)", text))
	}

	lg, err := ledger.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open ledger", err)
	}
	defer lg.Close()

	value, err := lg.Apply(context.Background(), ledger.Mutation{
		EventID:   uuid.NewString(),
		ScopeID:   opts.Scope,
		ChannelID: opts.Channel,
		AuthorID:  opts.Author,
		RawText:   text,
		TimeSent:  time.Now().UTC(),
		Label:     req.Label,
		Effect:    req.Direction.Effect(),
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "apply failed", err)
	}

	f := &OutputFormatter{Format: opts.Format, Writer: w}
	if opts.Format == "json" {
		return f.Success(applyResult{Scope: opts.Scope, Label: req.Label, Value: value})
	}
	return f.Success(fmt.Sprintf("%s ⟶ %d", req.Label, value))
}
