// Init command for the shelved CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the catalogue and backup folders",
	Long: `Init creates the configuration directory with a default config.yaml
and writes an initial backup snapshot under the backup root. Opening the
catalogue does this implicitly; init exists to do it explicitly on a fresh
machine.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// The session was opened (and the first-run snapshot written) by
		// PersistentPreRunE; confirm and report where the data lives.
		fmt.Println("Catalogue initialized.")
		fmt.Println("Backup root:", sess.Backups().Root())
		return nil
	},
}
