// Package cli implements the bgserve command line.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCommand constructs the bgserve command tree.
func NewRootCommand(version string) *cobra.Command {
	root := &cobra.Command{
		Use:          "bgserve",
		Short:        "Serve local files and ad-hoc data over HTTP",
		Long:         "bgserve runs an HTTP server that exposes files, directories, inline content and S3 objects under content-addressed URLs.",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCommand())
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	})
	return root
}
