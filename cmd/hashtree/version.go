package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set at link time with -ldflags "-X main.Version=...".
var Version = "0.1.0"

func (a *app) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of hashtree.",
		Args:  cobra.NoArgs,

		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },

		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(a.stdout, "hashtree v"+Version)
		},
	}
}
