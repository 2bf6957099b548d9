// Package cli wires the signature, manifest, invocation, and cache layers
// into a cobra command tree.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nereid-bio/nereid/internal/plugin"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	// Registry supplies the types and actions manifests resolve against.
	Registry *plugin.Registry
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the nereid CLI.
func NewRootCommand(reg *plugin.Registry) *cobra.Command {
	opts := &RootOptions{Registry: reg}

	cmd := &cobra.Command{
		Use:   "nereid",
		Short: "nereid - typed action signatures",
		Long:  "Validate action manifests, inspect registered signatures, and fingerprint recorded calls.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewInspectCommand(opts))
	cmd.AddCommand(NewFingerprintCommand(opts))
	cmd.AddCommand(NewCacheCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
