package main

import (
	"fmt"

	"golang-stock-watcher/internal/entity"
	"golang-stock-watcher/pkg/utils"

	"github.com/spf13/cobra"
)

func newEditCmd(a *app) *cobra.Command {
	var (
		query     string
		target    string
		condition string
		category  string
	)

	cmd := &cobra.Command{
		Use:   "edit <symbol>",
		Short: "Change an entry's symbol, target, condition or category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			flags := cmd.Flags()
			if !flags.Changed("symbol") && !flags.Changed("target") && !flags.Changed("condition") && !flags.Changed("category") {
				_ = cmd.Usage()
				return fmt.Errorf("%w: nothing to change", entity.ErrInvalidInput)
			}

			store := a.loadStore(ctx, nil)
			current, err := store.Get(args[0])
			if err != nil {
				return err
			}

			var newSymbol, newName string
			if query != "" && query != current.Symbol && query != current.Name {
				newSymbol, newName, err = a.resolver(a.yahooFinance()).Resolve(ctx, query)
				if err != nil {
					return err
				}
			}

			updated, err := store.Update(ctx, current.Symbol, func(e *entity.WatchEntry) error {
				if newSymbol != "" {
					e.Symbol = newSymbol
					e.Name = newName
				}
				if flags.Changed("target") {
					t, err := parseTarget(target)
					if err != nil {
						return err
					}
					e.TargetPrice = t
				}
				if flags.Changed("condition") {
					cond, err := entity.ParseCondition(condition)
					if err != nil {
						return err
					}
					e.Condition = cond
				}
				if flags.Changed("category") {
					e.Category = category
				}
				return nil
			})
			if err != nil {
				return persistWarning(err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (%s): target %s %s, category %s.\n",
				updated.Symbol, updated.Name, updated.Condition, utils.FormatPrice(updated.TargetPrice), updated.Category)
			return nil
		},
	}

	cmd.Flags().StringVar(&query, "symbol", "", "New symbol or name")
	cmd.Flags().StringVarP(&target, "target", "t", "", "New target price")
	cmd.Flags().StringVar(&condition, "condition", "", "New condition (>= or <=)")
	cmd.Flags().StringVar(&category, "category", "", "New category")
	return cmd
}
