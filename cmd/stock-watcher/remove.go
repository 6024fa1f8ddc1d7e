package main

import (
	"fmt"

	"golang-stock-watcher/internal/entity"

	"github.com/spf13/cobra"
)

func newRemoveCmd(a *app) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:     "remove [symbol]",
		Aliases: []string{"rm"},
		Short:   "Remove an entry, or every entry of a category",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			switch {
			case category != "" && len(args) == 0:
				store := a.loadStore(ctx, nil)
				removed, err := store.RemoveCategory(ctx, category)
				if err != nil {
					return persistWarning(err)
				}
				fmt.Fprintf(out, "Removed %d entries from %s.\n", removed, category)
				return nil
			case category == "" && len(args) == 1:
				store := a.loadStore(ctx, nil)
				if err := store.Remove(ctx, args[0]); err != nil {
					return persistWarning(err)
				}
				fmt.Fprintf(out, "Removed %s from the watchlist.\n", args[0])
				return nil
			default:
				_ = cmd.Usage()
				return fmt.Errorf("%w: give either a symbol or --category", entity.ErrInvalidInput)
			}
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Remove every entry in this category")
	return cmd
}
