package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/blastseq/internal/report"
	"github.com/roach88/blastseq/internal/schedule"
)

// ScheduleOutput is the JSON payload of the schedule command.
type ScheduleOutput struct {
	RootRule    string                 `json:"root_rule"`
	Roots       []string               `json:"roots"`
	Holes       []report.HoleRow       `json:"holes"`
	Connections []report.ConnectionRow `json:"connections"`
	Diagnostics []schedule.Diagnostic  `json:"diagnostics"`
	MaxTimeMs   int64                  `json:"max_time_ms"`
	HorizonMs   int64                  `json:"horizon_ms"`
	Fingerprint string                 `json:"fingerprint"`
}

// ScheduleOptions holds flags for the schedule command.
type ScheduleOptions struct {
	*RootOptions
	networkOptions
}

// NewScheduleCommand creates the schedule command.
func NewScheduleCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScheduleOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "schedule <network-file>",
		Short: "Compute hole activation times and connector windows",
		Long: `Compute the propagation schedule of a network: when every hole
activates and when every connector carries its signal.

Examples:
  blastseq schedule pattern.yaml
  blastseq schedule pattern.cue --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchedule(opts, args[0], cmd)
		},
	}

	addNetworkFlags(cmd, &opts.networkOptions)
	return cmd
}

func runSchedule(opts *ScheduleOptions, path string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)

	s, err := loadSchedule(f, path, opts.networkOptions)
	if err != nil {
		return err
	}

	rep := report.Build(s)
	out := ScheduleOutput{
		RootRule:    rep.RootRule,
		Roots:       []string{},
		Holes:       rep.Holes,
		Connections: rep.Connections,
		Diagnostics: rep.Diagnostics,
		MaxTimeMs:   s.MaxTimeMs(),
		HorizonMs:   s.HorizonMs(),
		Fingerprint: s.Fingerprint(),
	}
	for _, h := range s.Roots() {
		out.Roots = append(out.Roots, s.Network().HoleID(h))
	}

	if f.Format == "json" {
		return f.Success(out)
	}

	w := f.Writer
	fmt.Fprintf(w, "Root rule: %s (roots: %v)\n", out.RootRule, out.Roots)
	fmt.Fprintln(w, "Activations:")
	for _, h := range out.Holes {
		fmt.Fprintf(w, "  %-12s %s\n", h.ID, msOrDash(h.ActivationMs))
	}
	fmt.Fprintln(w, "Windows:")
	for _, c := range out.Connections {
		fmt.Fprintf(w, "  %-12s %s -> %s  [%s, %s]\n", c.ID, c.From, c.To, msOrDash(c.StartMs), msOrDash(c.ArrivalMs))
	}
	for _, d := range out.Diagnostics {
		fmt.Fprintf(w, "Diagnostic: %s\n", d)
	}
	fmt.Fprintf(w, "Horizon: %dms\n", out.HorizonMs)
	return nil
}

func msOrDash(v *int64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%dms", *v)
}
