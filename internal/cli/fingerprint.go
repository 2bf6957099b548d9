package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nereid-bio/nereid/internal/invocation"
	"github.com/nereid-bio/nereid/internal/provenance"
)

// NewFingerprintCommand creates the fingerprint command.
func NewFingerprintCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint <replay.yaml>",
		Short: "Compute the canonical fingerprint of a recorded call",
		Long: `Decode a persisted call record and compute its canonical fingerprint.

Two records fingerprint identically exactly when they denote equivalent
calls, regardless of argument encoding order.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFingerprint(rootOpts, args[0], cmd)
		},
	}
}

func runFingerprint(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		_ = formatter.Error("E_LOAD", err.Error())
		return NewExitError(ExitCommandError, err.Error())
	}

	replay, err := provenance.DecodeReplay(data)
	if err != nil {
		_ = formatter.Error("E_REPLAY", err.Error())
		return NewExitError(ExitFailure, err.Error())
	}

	inv, err := invocation.New(replay.Action, replay.Arguments)
	if err != nil {
		_ = formatter.Error("E_FINGERPRINT", err.Error())
		return NewExitError(ExitFailure, err.Error())
	}

	if formatter.Format == "json" {
		return formatter.Success(map[string]any{
			"action":      inv.Action(),
			"fingerprint": inv.Fingerprint(),
		})
	}
	fmt.Fprintf(formatter.Writer, "%s  %s\n", inv.Fingerprint(), inv.Action())
	return nil
}
