package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/blastseq/internal/analysis"
)

// AnalyzeOutput is the JSON payload of the analyze command.
type AnalyzeOutput struct {
	Waves     []analysis.Wave     `json:"waves"`
	Conflicts []analysis.Conflict `json:"conflicts"`
	Cycles    []analysis.Cycle    `json:"cycles"`
	Markers   []analysis.Marker   `json:"markers"`
}

// AnalyzeOptions holds flags for the analyze command.
type AnalyzeOptions struct {
	*RootOptions
	networkOptions
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AnalyzeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "analyze <network-file>",
		Short: "Group connectors into waves and find simultaneous arrivals",
		Long: `Analyze a network's schedule: detonation waves, simultaneous-arrival
conflicts, connector cycles and timeline markers.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(opts, args[0], cmd)
		},
	}

	addNetworkFlags(cmd, &opts.networkOptions)
	return cmd
}

func runAnalyze(opts *AnalyzeOptions, path string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)

	s, err := loadSchedule(f, path, opts.networkOptions)
	if err != nil {
		return err
	}

	out := AnalyzeOutput{
		Waves:     nonNilSlice(analysis.Waves(s)),
		Conflicts: nonNilSlice(analysis.Conflicts(s)),
		Cycles:    nonNilSlice(analysis.DetectCycles(s.Network())),
		Markers:   analysis.TimelineMarkers(s),
	}

	if f.Format == "json" {
		return f.Success(out)
	}

	w := f.Writer
	fmt.Fprintf(w, "Waves: %d\n", len(out.Waves))
	for _, wave := range out.Waves {
		fmt.Fprintf(w, "  Wave %d at %dms: %s\n", wave.Number, wave.StartMs, strings.Join(wave.ConnectorIDs, ", "))
	}
	fmt.Fprintf(w, "Conflicts: %d\n", len(out.Conflicts))
	for _, c := range out.Conflicts {
		fmt.Fprintf(w, "  [%s] %s\n", c.Severity, c.Message())
	}
	fmt.Fprintf(w, "Cycles: %d\n", len(out.Cycles))
	for _, c := range out.Cycles {
		fmt.Fprintf(w, "  %s\n", c)
	}
	fmt.Fprintln(w, "Markers:")
	for _, m := range out.Markers {
		fmt.Fprintf(w, "  %6dms  %s\n", m.TimeMs, m.Label)
	}
	return nil
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
