// Version command for the shelved CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is the CLI release version, overridable at link time.
var version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the shelved version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("shelved", version)
	},
}
