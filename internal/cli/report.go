package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/blastseq/internal/report"
)

// ReportOptions holds flags for the report command.
type ReportOptions struct {
	*RootOptions
	networkOptions
	As      string // text | json | csv, defaults to --format
	Project string
}

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "report <network-file>",
		Short: "Export a blast sequence report",
		Long: `Render the full simulation report: holes, connections with their
windows and waves, metrics, conflicts and validation findings.

The report is written bare, without the JSON response envelope, so it
can be redirected to a file.

Examples:
  blastseq report pattern.yaml --project "Bench 4"
  blastseq report pattern.yaml --as csv > connections.csv
  blastseq report pattern.yaml --as json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(opts, args[0], cmd)
		},
	}

	addNetworkFlags(cmd, &opts.networkOptions)
	cmd.Flags().StringVar(&opts.As, "as", "", "report format (text|json|csv), defaults to --format")
	cmd.Flags().StringVar(&opts.Project, "project", "", "project name shown in the report header")

	return cmd
}

func runReport(opts *ReportOptions, path string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)

	as := opts.As
	if as == "" {
		as = opts.Format
	}
	format, err := report.ParseFormat(as)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil, err)
	}

	s, err := loadSchedule(f, path, opts.networkOptions)
	if err != nil {
		return err
	}

	rep := report.Build(s, report.WithProject(opts.Project))
	if err := report.Render(f.Writer, rep, format); err != nil {
		return f.Fail(ExitCommandError, ErrCodeWriteFailed, "rendering report", nil, err)
	}
	return nil
}
