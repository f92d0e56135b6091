// Package cmd implements the commands for the born executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/born-ml/cloneable/cmd/born/cmd/clone"
	cmdCommon "github.com/born-ml/cloneable/cmd/born/cmd/common"
	"github.com/born-ml/cloneable/cmd/born/cmd/inspect"
)

var (
	rootCmd = &cobra.Command{
		Use:          "born",
		Short:        "Born ML module tools",
		Version:      cmdCommon.SoftwareVersion,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cmdCommon.Init()
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Born ML Framework %s\n", cmdCommon.SoftwareVersion)
		},
	}
)

// RootCommand returns the root (top level) cobra.Command.
func RootCommand() *cobra.Command {
	return rootCmd
}

// Execute spawns the main entry point after handling the config file
// and command line arguments.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().AddFlagSet(cmdCommon.RootFlags)

	rootCmd.AddCommand(versionCmd)
	for _, v := range []func(*cobra.Command){
		inspect.Register,
		clone.Register,
	} {
		v(rootCmd)
	}
}
