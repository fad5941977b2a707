package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marcus/habitdiary/internal/version"
)

func addVersionCommand(topLevel *cobra.Command) {
	topLevel.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Current(Version)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "habitdiary %s\n", info.Version)
			if info.Revision != "" {
				dirty := ""
				if info.Dirty {
					dirty = " (modified)"
				}
				fmt.Fprintf(out, "revision   %s%s\n", version.ShortRevision(info.Revision), dirty)
			}
			fmt.Fprintf(out, "go         %s\n", info.GoVersion)
			fmt.Fprintf(out, "installed  %s\n", info.Install)
			return nil
		},
	})
}
