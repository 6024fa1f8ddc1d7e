package main

import (
	"golang-stock-watcher/internal/watcher/event"
	"golang-stock-watcher/internal/watcher/service"
	"golang-stock-watcher/pkg/logger"

	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Check every entry once and report the results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			sinks, err := a.eventHandlers(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer sinks.close()

			stream := event.NewStream(a.cfg.Monitor.EventBuffer)
			defer stream.Close()

			store := a.loadStore(ctx, stream)
			fetcher := service.NewPriceFetcher(a.yahooFinance(), a.logger)
			scheduler := service.NewMonitorScheduler(store, fetcher, stream, a.logger, a.cfg.Monitor.Cron)

			passID, err := scheduler.Trigger(ctx)
			if err != nil {
				return err
			}

			return event.Consume(ctx, stream, func(ev event.Event) bool {
				for _, h := range sinks.handlers {
					if err := h.Handle(ctx, ev); err != nil {
						a.logger.Error("Event handler failed", logger.StringField("kind", string(ev.Kind)), logger.ErrorField(err))
					}
				}
				return ev.Kind != event.KindPassComplete || ev.PassID != passID
			})
		},
	}
}
