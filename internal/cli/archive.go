package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/blastseq/internal/store"
)

// ArchiveOptions holds flags for the archive command.
type ArchiveOptions struct {
	*RootOptions
	networkOptions
	Database string
	Label    string
	RunID    string // fixed run id, generated when empty

	idGen store.RunIDGenerator
}

// NewArchiveCommand creates the archive command.
func NewArchiveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ArchiveOptions{RootOptions: rootOpts, idGen: store.UUIDv7Generator{}}

	cmd := &cobra.Command{
		Use:   "archive <network-file>",
		Short: "Compute a schedule and store it in a run archive",
		Long: `Compute the schedule for a network and write it, with its event
timeline and metrics, to a SQLite run archive.

Examples:
  blastseq archive pattern.yaml --db ./runs.db
  blastseq archive pattern.yaml --db ./runs.db --label "bench 4, rev 2"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runArchive(cmd.Context(), opts, args[0], cmd)
		},
	}

	addNetworkFlags(cmd, &opts.networkOptions)
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Label, "label", "", "free-form label stored with the run")
	cmd.Flags().StringVar(&opts.RunID, "run-id", "", "run id to store under (default: new UUIDv7)")

	return cmd
}

func runArchive(ctx context.Context, opts *ArchiveOptions, path string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	f := newFormatter(opts.RootOptions, cmd)

	s, err := loadSchedule(f, path, opts.networkOptions)
	if err != nil {
		return err
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to open database", nil, err)
	}
	defer st.Close()

	id := opts.RunID
	if id == "" {
		id = opts.idGen.Generate()
	}

	run, err := st.WriteRun(ctx, id, opts.Label, s)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to archive run", nil, err)
	}
	f.VerboseLog("Archived run %s as seq %d in %s", run.ID, run.Seq, opts.Database)

	if f.Format == "json" {
		return f.Success(run)
	}

	w := f.Writer
	fmt.Fprintf(w, "Archived run %s (seq %d)\n", run.ID, run.Seq)
	fmt.Fprintf(w, "  schedule: %s\n", run.ScheduleFingerprint)
	fmt.Fprintf(w, "  timeline: %s\n", run.TimelineFingerprint)
	return nil
}
