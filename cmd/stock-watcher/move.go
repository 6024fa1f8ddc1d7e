package main

import (
	"golang-stock-watcher/internal/entity"

	"github.com/spf13/cobra"
)

func newMoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "move <symbol> <up|down>",
		Short:     "Move an entry one position up or down",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction, err := entity.ParseDirection(args[1])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store := a.loadStore(ctx, nil)
			if err := store.Move(ctx, args[0], direction); err != nil {
				return persistWarning(err)
			}
			return writeEntries(cmd.OutOrStdout(), store.Snapshot())
		},
	}
}
