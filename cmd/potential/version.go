package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dnsco/potential/buildinfo"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "potential %s\n", buildinfo.Get())
		},
	}
}
