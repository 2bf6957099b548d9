package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/nereid-bio/nereid/internal/cache"
)

// NewCacheCommand creates the cache command group.
func NewCacheCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the resumable-execution cache",
	}
	cmd.AddCommand(newCacheListCommand(rootOpts))
	return cmd
}

func newCacheListCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List cached call fingerprints",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheList(rootOpts, dbPath, cmd)
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "nereid-cache.db", "path to the cache database")
	return cmd
}

func runCacheList(opts *RootOptions, dbPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	c, err := cache.Open(dbPath)
	if err != nil {
		_ = formatter.Error("E_CACHE", err.Error())
		return NewExitError(ExitCommandError, err.Error())
	}
	defer c.Close()

	entries, err := c.List(cmd.Context())
	if err != nil {
		_ = formatter.Error("E_CACHE", err.Error())
		return NewExitError(ExitCommandError, err.Error())
	}

	if formatter.Format == "json" {
		return formatter.Success(entries)
	}

	fingerprints := make([]string, 0, len(entries))
	for fp := range entries {
		fingerprints = append(fingerprints, fp)
	}
	sort.Strings(fingerprints)
	for _, fp := range fingerprints {
		fmt.Fprintf(formatter.Writer, "%s  %s\n", fp, entries[fp])
	}
	return nil
}
