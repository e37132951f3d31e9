package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inkwell-sh/inkwell/internal/build"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("inkwell %s (%s, %s)\n", build.Version, build.Commit, build.Branch)
		},
	}
}
