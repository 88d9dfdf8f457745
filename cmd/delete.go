package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete an event",
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a := openApp(ctx)

	removed, err := a.svc.Delete(ctx, args[0])
	if err != nil {
		fail(exitCodeFor(err), err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q (%s)\n", removed.Title, removed.TimeRange())
	return nil
}
