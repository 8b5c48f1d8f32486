// Delete command removes a comic and unwinds its roll-ups.
package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jcoldwell/shelved/pkg/types"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a comic from the catalogue",
	Long: `Delete removes a comic by id. Its series counters are decremented and
the series itself is removed when no comics remain in it; event counters
are decremented but events are always kept.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid comic id %q", args[0])
	}

	if err := sess.DeleteComic(id); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return fmt.Errorf("no comic with id %d", id)
		}
		return fmt.Errorf("delete comic: %w", err)
	}

	fmt.Printf("Deleted comic %d\n", id)
	return nil
}
