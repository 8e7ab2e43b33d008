package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/blastseq/internal/sim"
)

// EventsOptions holds flags for the events command.
type EventsOptions struct {
	*RootOptions
	networkOptions
}

// NewEventsCommand creates the events command.
func NewEventsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EventsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "events <network-file>",
		Short: "Print the ordered event timeline",
		Long: `Print every signal arrival, hole detonation and effect start in
timeline order (time, then event type, then subject id).`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvents(opts, args[0], cmd)
		},
	}

	addNetworkFlags(cmd, &opts.networkOptions)
	return cmd
}

func runEvents(opts *EventsOptions, path string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)

	s, err := loadSchedule(f, path, opts.networkOptions)
	if err != nil {
		return err
	}

	events := sim.GenerateEvents(s)
	if f.Format == "json" {
		return f.Success(sim.Records(events))
	}

	w := f.Writer
	for _, e := range events {
		switch ev := e.(type) {
		case sim.SignalArrive:
			fmt.Fprintf(w, "%8dms  %-13s %s -> %s\n", ev.At, ev.Type(), ev.ConnectorID, ev.ToHoleID)
		case sim.HoleDetonate:
			cause := ev.TriggeredBy
			if cause == "" {
				cause = "root"
			}
			fmt.Fprintf(w, "%8dms  %-13s %s (%s)\n", ev.At, ev.Type(), ev.HoleID, cause)
		case sim.EffectStart:
			fmt.Fprintf(w, "%8dms  %-13s %s %s %dms\n", ev.At, ev.Type(), ev.HoleID, ev.Kind, ev.DurationMs)
		}
	}
	return nil
}
