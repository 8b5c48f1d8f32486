// Save command writes a backup snapshot on demand.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Write a full backup snapshot to today's folder",
	Long: `Save writes every collection to the dated folder for today under the
backup root. With autosave enabled this happens after every change; save
exists for when autosave is off.`,
	Args: cobra.NoArgs,
	RunE: runSave,
}

func runSave(cmd *cobra.Command, args []string) error {
	if !sess.Save() {
		return fmt.Errorf("backup failed; see log output")
	}
	fmt.Println("Backup written to", sess.Backups().Root())
	return nil
}
