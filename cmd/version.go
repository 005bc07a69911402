package cmd

import (
	"fmt"
	"runtime"

	"github.com/govdbot/govfuni/ext"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "govfuni %s (%s)\n", Version, runtime.Version())
		for _, extractor := range ext.List {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s (%s)\n", extractor.Name, extractor.CodeName)
		}
	},
}
