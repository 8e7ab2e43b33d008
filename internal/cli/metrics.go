package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/blastseq/internal/analysis"
	"github.com/roach88/blastseq/internal/metrics"
)

// MetricsOptions holds flags for the metrics command.
type MetricsOptions struct {
	*RootOptions
	networkOptions
}

// NewMetricsCommand creates the metrics command.
func NewMetricsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MetricsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "metrics <network-file>",
		Short: "Aggregate blast metrics",
		Long: `Compute aggregate metrics for a network's schedule.

Text output is the Prometheus exposition format, ready for a textfile
collector. JSON output is the metrics object.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMetrics(opts, args[0], cmd)
		},
	}

	addNetworkFlags(cmd, &opts.networkOptions)
	return cmd
}

func runMetrics(opts *MetricsOptions, path string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)

	s, err := loadSchedule(f, path, opts.networkOptions)
	if err != nil {
		return err
	}

	m := metrics.Aggregate(s)
	if f.Format == "json" {
		return f.Success(m)
	}

	exp := metrics.NewExporter()
	exp.Observe(m, analysis.Waves(s), analysis.Conflicts(s), analysis.Validate(s))
	if err := exp.WriteText(f.Writer); err != nil {
		return f.Fail(ExitCommandError, ErrCodeWriteFailed, "writing metrics", nil, err)
	}
	return nil
}
