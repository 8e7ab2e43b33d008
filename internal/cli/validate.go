package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/blastseq/internal/analysis"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	networkOptions
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <network-file>",
		Short: "Check a network for unreachable holes, conflicts and cycles",
		Long: `Load a network, compute its schedule and report validation findings.

Unreachable holes are errors. Degenerate root selection, simultaneous
arrivals, orphaned holes and cycles are warnings.

Exit codes:
  0 - Network is valid (warnings allowed)
  1 - Network has validation errors
  2 - Command error (file not found, invalid graph, etc.)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	addNetworkFlags(cmd, &opts.networkOptions)
	return cmd
}

func runValidate(opts *ValidateOptions, path string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)

	s, err := loadSchedule(f, path, opts.networkOptions)
	if err != nil {
		return err
	}

	v := analysis.Validate(s)
	if !v.Valid {
		return f.Fail(ExitFailure, ErrCodeInvalidNetwork,
			fmt.Sprintf("network has %d validation error(s)", len(v.Errors)), v, nil)
	}

	if f.Format == "json" {
		return f.Success(v)
	}

	w := f.Writer
	fmt.Fprintln(w, "\u2713 Network valid")
	for _, warn := range v.Warnings {
		fmt.Fprintf(w, "  warning [%s]: %s\n", warn.Type, warn.Message)
	}
	for _, sug := range v.Suggestions {
		fmt.Fprintf(w, "  suggestion [%s]: %s\n", sug.Type, sug.Message)
	}
	return nil
}
