package main

import (
	"fmt"
	"strings"

	"golang-stock-watcher/internal/entity"
	"golang-stock-watcher/pkg/utils"

	"github.com/spf13/cobra"
)

func newAddCmd(a *app) *cobra.Command {
	var (
		target    string
		condition string
		category  string
	)

	cmd := &cobra.Command{
		Use:   "add [symbol or name]",
		Short: "Add an instrument to the watchlist",
		Long:  `Adds an instrument with a target price. Missing values are asked for interactively.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())

			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			var err error
			if strings.TrimSpace(query) == "" {
				if query, err = p.ask("Enter a stock symbol or name (e.g. 2330.TW): "); err != nil {
					return err
				}
			}
			if query == "" {
				_ = cmd.Usage()
				return fmt.Errorf("%w: a symbol or name is required", entity.ErrInvalidInput)
			}

			cond, err := entity.ParseCondition(condition)
			if err != nil {
				return err
			}

			yahoo := a.yahooFinance()
			symbol, name, err := a.resolver(yahoo).Resolve(ctx, query)
			if err != nil {
				return err
			}

			if strings.TrimSpace(target) == "" {
				if target, err = p.ask(fmt.Sprintf("Set a target price for %s: ", symbol)); err != nil {
					return err
				}
			}
			if target == "" {
				_ = cmd.Usage()
				return fmt.Errorf("%w: a target price is required", entity.ErrInvalidInput)
			}
			targetPrice, err := parseTarget(target)
			if err != nil {
				return err
			}

			entry := entity.WatchEntry{
				Symbol:      symbol,
				Name:        name,
				TargetPrice: targetPrice,
				Condition:   cond,
				Category:    category,
			}.Normalize()

			store := a.loadStore(ctx, nil)
			if err := store.Add(ctx, entry); err != nil {
				return persistWarning(err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s) to %s, target %s %s.\n",
				entry.Symbol, entry.Name, entry.Category, entry.Condition, utils.FormatPrice(entry.TargetPrice))
			return nil
		},
	}

	cmd.Flags().StringVarP(&target, "target", "t", "", "Target price")
	cmd.Flags().StringVar(&condition, "condition", ">=", "Condition: >= (at or above) or <= (at or below)")
	cmd.Flags().StringVar(&category, "category", "", "Category (default Uncategorized)")
	return cmd
}
