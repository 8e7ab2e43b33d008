package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/blastseq/internal/schedule"
	"github.com/roach88/blastseq/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	RunID    string // optional - specific run only
}

// ReplayOutput holds the overall replay result.
type ReplayOutput struct {
	Runs         []store.ReplayResult `json:"runs"`
	TotalRuns    int                  `json:"total_runs"`
	AllIdentical bool                 `json:"all_identical"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Recompute archived runs and verify they are unchanged",
		Long: `Rebuild each archived network, recompute its schedule and timeline,
and compare the fingerprints with the ones stored at archive time.

Exit codes:
  0 - All runs reproduce exactly
  1 - At least one run differs
  2 - Command error (database not found, unknown run, etc.)

Examples:
  blastseq replay --db ./runs.db
  blastseq replay --db ./runs.db --run 01920000-0000-7000-8000-000000000000
  blastseq replay --db ./runs.db --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "replay specific run only")

	return cmd
}

func runReplay(ctx context.Context, opts *ReplayOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	f := newFormatter(opts.RootOptions, cmd)

	st, err := store.Open(opts.Database)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to open database", nil, err)
	}
	defer st.Close()

	var ids []string
	if opts.RunID != "" {
		ids = []string{opts.RunID}
	} else {
		runs, err := st.ListRuns(ctx)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeStore, "failed to list runs", nil, err)
		}
		for _, r := range runs {
			ids = append(ids, r.ID)
		}
	}

	calc := schedule.NewCalculator(schedule.WithLogger(slog.Default()))
	out := ReplayOutput{
		Runs:         make([]store.ReplayResult, 0, len(ids)),
		TotalRuns:    len(ids),
		AllIdentical: true,
	}
	for _, id := range ids {
		res, err := st.VerifyRun(ctx, id, calc)
		if errors.Is(err, store.ErrRunNotFound) {
			return f.Fail(ExitCommandError, ErrCodeRunNotFound, fmt.Sprintf("run not found: %s", id), nil, err)
		}
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeStore, fmt.Sprintf("failed to replay run %s", id), nil, err)
		}
		f.VerboseLog("Replayed %s: identical=%t", id, res.Identical)
		out.Runs = append(out.Runs, res)
		if !res.Identical {
			out.AllIdentical = false
		}
	}

	if f.Format == "json" {
		if err := outputReplayJSON(f, out); err != nil {
			return err
		}
	} else {
		outputReplayText(f, out)
	}

	if !out.AllIdentical {
		return NewExitError(ExitFailure, "replay differs from archive")
	}
	return nil
}

func outputReplayJSON(f *OutputFormatter, out ReplayOutput) error {
	if out.AllIdentical {
		return f.Success(out)
	}
	return f.Error("E_REPLAY_MISMATCH", "one or more runs differ from the archive", out)
}

func outputReplayText(f *OutputFormatter, out ReplayOutput) {
	w := f.Writer
	if out.TotalRuns == 0 {
		fmt.Fprintln(w, "No runs found in database.")
		return
	}
	for _, r := range out.Runs {
		mark := "\u2713"
		if !r.Identical {
			mark = "\u2717"
		}
		fmt.Fprintf(w, "%s %s\n", mark, r.RunID)
		if !r.Identical {
			if r.ScheduleFingerprint != r.StoredSchedule {
				fmt.Fprintf(w, "  schedule: stored %s, recomputed %s\n", r.StoredSchedule, r.ScheduleFingerprint)
			}
			if r.TimelineFingerprint != r.StoredTimeline {
				fmt.Fprintf(w, "  timeline: stored %s, recomputed %s\n", r.StoredTimeline, r.TimelineFingerprint)
			}
			if !r.StoredEventsMatch {
				fmt.Fprintln(w, "  stored events do not match the stored timeline fingerprint")
			}
		}
	}
	fmt.Fprintf(w, "\nReplay Summary: %d run(s), all identical: %t\n", out.TotalRuns, out.AllIdentical)
}
