package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [action]",
		Short: "Show registered actions or one action's signature",
		Long: `Without arguments, list every registered action ref.

With an action ref, render that action's full signature: inputs,
parameters, and outputs in declaration order.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(rootOpts, args, cmd)
		},
	}
}

func runInspect(opts *RootOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if len(args) == 0 {
		refs := opts.Registry.ActionRefs()
		if formatter.Format == "json" {
			return formatter.Success(map[string]any{"actions": refs})
		}
		for _, ref := range refs {
			fmt.Fprintln(formatter.Writer, ref)
		}
		return nil
	}

	action, err := opts.Registry.Action(args[0])
	if err != nil {
		_ = formatter.Error("E_UNKNOWN_ACTION", err.Error())
		return NewExitError(ExitCommandError, err.Error())
	}

	if formatter.Format == "json" {
		return formatter.Success(map[string]any{
			"ref":       action.Ref,
			"kind":      string(action.Signature.Kind()),
			"signature": action.Signature.Describe(),
		})
	}
	fmt.Fprintf(formatter.Writer, "%s (%s)\n", action.Ref, action.Signature.Kind())
	fmt.Fprint(formatter.Writer, action.Signature.Describe())
	return nil
}
