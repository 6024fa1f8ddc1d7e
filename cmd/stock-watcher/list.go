package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"golang-stock-watcher/internal/entity"
	"golang-stock-watcher/pkg/utils"

	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	var byCategory bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the watchlist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := a.loadStore(cmd.Context(), nil)
			out := cmd.OutOrStdout()

			entries := store.Snapshot()
			if len(entries) == 0 {
				fmt.Fprintln(out, "Your watchlist is empty.")
				return nil
			}

			if !byCategory {
				return writeEntries(out, entries)
			}
			for i, group := range store.Categories() {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "[%s]\n", group.Category)
				if err := writeEntries(out, group.Entries); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&byCategory, "by-category", false, "Group entries by category")
	return cmd
}

func writeEntries(out io.Writer, entries []entity.WatchEntry) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tSYMBOL\tNAME\tCONDITION\tTARGET\tCATEGORY")
	for i, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", i+1, e.Symbol, e.Name, e.Condition, utils.FormatPrice(e.TargetPrice), e.Category)
	}
	return w.Flush()
}
