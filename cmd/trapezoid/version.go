package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogpu/trapezoid"
	"github.com/gogpu/trapezoid/backend"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "trapezoid version %s (backends: %v)\n", trapezoid.Version, backend.Available())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
