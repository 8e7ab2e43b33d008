package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/blastseq/internal/sim"
)

// SimulateOptions holds flags for the simulate command.
type SimulateOptions struct {
	*RootOptions
	networkOptions
	StepMs    float64
	Speed     float64
	MaxFrames int
	Frames    bool // include every frame in the output
	Verify    bool // play twice and compare frame fingerprints
}

// SimulateSummary is the JSON payload of the simulate command.
type SimulateSummary struct {
	Frames       int         `json:"frames"`
	FinalTimeMs  float64     `json:"final_time_ms"`
	HorizonMs    int64       `json:"horizon_ms"`
	Blasted      int         `json:"blasted"`
	Ready        int         `json:"ready"`
	Fingerprint  string      `json:"final_frame_fingerprint"`
	Verified     bool        `json:"verified,omitempty"`
	FrameDetails []sim.Frame `json:"frame_details,omitempty"`
}

// NewSimulateCommand creates the simulate command.
func NewSimulateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SimulateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "simulate <network-file>",
		Short: "Play the blast animation headlessly",
		Long: `Drive the simulation clock from 0 to the horizon in fixed steps and
report the resulting frames.

Exit codes:
  0 - Simulation completed (and verified, with --verify)
  1 - Replay produced different frames
  2 - Command error (bad flags, frame quota exceeded, etc.)

Examples:
  blastseq simulate pattern.yaml --step 16
  blastseq simulate pattern.yaml --speed 2 --frames --format json
  blastseq simulate pattern.yaml --verify`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd.Context(), opts, args[0], cmd)
		},
	}

	addNetworkFlags(cmd, &opts.networkOptions)
	cmd.Flags().Float64Var(&opts.StepMs, "step", 16, "wall-clock milliseconds per tick")
	cmd.Flags().Float64Var(&opts.Speed, "speed", 1, "playback speed multiplier")
	cmd.Flags().IntVar(&opts.MaxFrames, "max-frames", sim.DefaultMaxFrames, "frame quota per session")
	cmd.Flags().BoolVar(&opts.Frames, "frames", false, "include every frame in the output")
	cmd.Flags().BoolVar(&opts.Verify, "verify", false, "replay the session and compare frames")

	return cmd
}

func runSimulate(ctx context.Context, opts *SimulateOptions, path string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	f := newFormatter(opts.RootOptions, cmd)

	s, err := loadSchedule(f, path, opts.networkOptions)
	if err != nil {
		return err
	}

	driverOpts := []sim.DriverOption{
		sim.WithPlaybackSpeed(opts.Speed),
		sim.WithMaxFrames(opts.MaxFrames),
		sim.WithLogger(slog.Default()),
	}
	d := sim.NewDriver(s, driverOpts...)
	if err := d.SetPlaybackSpeed(opts.Speed); err != nil {
		return f.Fail(ExitCommandError, ErrCodeSimulation, fmt.Sprintf("invalid speed %g", opts.Speed), nil, err)
	}

	frames, err := d.Collect(ctx, opts.StepMs)
	if err != nil {
		var fe *sim.FramesExceededError
		if errors.As(err, &fe) {
			return f.Fail(ExitCommandError, ErrCodeSimulation, fmt.Sprintf("frame quota exceeded (%d frames)", fe.Limit), nil, err)
		}
		return f.Fail(ExitCommandError, ErrCodeSimulation, err.Error(), nil, err)
	}
	f.VerboseLog("Simulated %d frame(s) at step %gms", len(frames), opts.StepMs)

	last := frames[len(frames)-1]
	summary := SimulateSummary{
		Frames:      len(frames),
		FinalTimeMs: last.TimeMs(),
		HorizonMs:   s.HorizonMs(),
		Blasted:     last.CountHoles(sim.HoleBlasted),
		Ready:       last.CountHoles(sim.HoleReady),
		Fingerprint: last.Fingerprint(),
	}
	if opts.Frames {
		summary.FrameDetails = frames
	}

	if opts.Verify {
		if _, err := sim.VerifyDeterminism(ctx, s, opts.StepMs, driverOpts...); err != nil {
			var de *sim.DivergenceError
			if errors.As(err, &de) {
				return f.Fail(ExitFailure, ErrCodeSimulation, err.Error(), summary, err)
			}
			return f.Fail(ExitCommandError, ErrCodeSimulation, err.Error(), nil, err)
		}
		summary.Verified = true
	}

	if f.Format == "json" {
		return f.Success(summary)
	}

	w := f.Writer
	if opts.Frames {
		for _, fr := range frames {
			fmt.Fprintf(w, "%10.1fms  blasted=%d detonating=%d effects=%d\n",
				fr.TimeMs(), fr.CountHoles(sim.HoleBlasted), fr.CountHoles(sim.HoleDetonating), len(fr.Effects()))
		}
	}
	fmt.Fprintf(w, "Frames: %d\n", summary.Frames)
	fmt.Fprintf(w, "Final time: %gms (horizon %dms)\n", summary.FinalTimeMs, summary.HorizonMs)
	fmt.Fprintf(w, "Holes: %d blasted, %d never reached\n", summary.Blasted, summary.Ready)
	if summary.Verified {
		fmt.Fprintln(w, "\u2713 Replay deterministic")
	}
	return nil
}
