package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/blastseq/internal/store"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	Database string
}

// RunSummary is one line of the runs listing.
type RunSummary struct {
	ID          string `json:"id"`
	Seq         int64  `json:"seq"`
	Label       string `json:"label"`
	RootRule    string `json:"root_rule"`
	Holes       int    `json:"holes"`
	Connections int    `json:"connections"`
	DurationMs  int64  `json:"duration_ms"`
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "runs",
		Short:         "List archived runs in write order",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runRuns(ctx context.Context, opts *RunsOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	f := newFormatter(opts.RootOptions, cmd)

	st, err := store.Open(opts.Database)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to open database", nil, err)
	}
	defer st.Close()

	runs, err := st.ListRuns(ctx)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to list runs", nil, err)
	}

	out := make([]RunSummary, 0, len(runs))
	for _, r := range runs {
		out = append(out, RunSummary{
			ID:          r.ID,
			Seq:         r.Seq,
			Label:       r.Label,
			RootRule:    r.RootRule,
			Holes:       len(r.Network.Holes),
			Connections: len(r.Network.Connectors),
			DurationMs:  r.Metrics.TotalBlastDurationMs,
		})
	}

	if f.Format == "json" {
		return f.Success(out)
	}

	w := f.Writer
	if len(out) == 0 {
		fmt.Fprintln(w, "No runs found in database.")
		return nil
	}
	for _, r := range out {
		fmt.Fprintf(w, "%4d  %s  %-16s %3d holes %3d connections %6dms  %s\n",
			r.Seq, r.ID, r.RootRule, r.Holes, r.Connections, r.DurationMs, r.Label)
	}
	return nil
}
