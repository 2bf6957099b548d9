package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nereid-bio/nereid/internal/manifest"
)

// ValidationResult holds validation results for one manifest.
type ValidationResult struct {
	Valid   bool     `json:"valid"`
	Actions []string `json:"actions,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <manifest.cue>",
		Short: "Validate an action manifest",
		Long: `Validate a CUE action manifest against the registered types.

Checks every declared action's kind, resolves each input, parameter, and
output type expression, and reports all problems without building runtime
signatures.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	specs, err := manifest.LoadFile(path, opts.Registry)
	if err != nil {
		var compileErr *manifest.CompileError
		if errors.As(err, &compileErr) {
			_ = formatter.Error("E_MANIFEST", compileErr.Error())
			return NewExitError(ExitFailure, compileErr.Error())
		}
		_ = formatter.Error("E_LOAD", err.Error())
		return NewExitError(ExitCommandError, err.Error())
	}

	names := make([]string, len(specs))
	for i, spec := range specs {
		names[i] = spec.Name
		formatter.VerboseLog("validated action %s (%s)", spec.Name, spec.Kind)
	}

	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Actions: names})
	}
	fmt.Fprintf(formatter.Writer, "manifest ok: %d action(s)\n", len(names))
	return nil
}
