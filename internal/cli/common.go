package cli

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/blastseq/internal/schedule"
)

// networkOptions are the input flags shared by every command that reads a
// network file.
type networkOptions struct {
	DropDangling bool
}

func addNetworkFlags(cmd *cobra.Command, o *networkOptions) {
	cmd.Flags().BoolVar(&o.DropDangling, "drop-dangling", false, "drop connectors that reference missing holes instead of failing")
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}

// loadSchedule loads a network file and computes its schedule. Load failures
// are written through f and returned as an ExitError.
func loadSchedule(f *OutputFormatter, path string, o networkOptions) (*schedule.Schedule, error) {
	res, err := LoadNetwork(path, LoadOptions{DropDangling: o.DropDangling})
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			return nil, f.Fail(ExitCommandError, loadErr.Code, loadErr.Message, nil, err)
		}
		return nil, f.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil, err)
	}

	f.VerboseLog("Loaded %s network from %s: %d hole(s), %d connector(s)",
		res.Source, path, res.Network.HoleCount(), res.Network.ConnectorCount())
	if len(res.Dropped) > 0 {
		f.VerboseLog("Dropped %d dangling connector(s): %v", len(res.Dropped), res.Dropped)
	}

	return schedule.NewCalculator(schedule.WithLogger(slog.Default())).Compute(res.Network), nil
}
