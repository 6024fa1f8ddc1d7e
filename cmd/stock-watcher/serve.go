package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang-stock-watcher/internal/watcher/delivery/consumer"
	delivery "golang-stock-watcher/internal/watcher/delivery/http"
	"golang-stock-watcher/internal/watcher/event"
	"golang-stock-watcher/internal/watcher/service"
	"golang-stock-watcher/pkg/logger"
	"golang-stock-watcher/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run scheduled checks and serve the watchlist API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd)
		},
	}
}

func (a *app) serve(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer func() { _ = a.logger.Sync() }()

	a.logger.Info("Starting stock watcher", logger.Field("name", a.cfg.App.Name), logger.Field("version", a.cfg.App.Version))

	stream := event.NewStream(a.cfg.Monitor.EventBuffer)
	store := a.loadStore(ctx, stream)
	yahoo := a.yahooFinance()
	fetcher := service.NewPriceFetcher(yahoo, a.logger)
	scheduler := service.NewMonitorScheduler(store, fetcher, stream, a.logger, a.cfg.Monitor.Cron)
	resolver := a.resolver(yahoo)

	sinks, err := a.eventHandlers(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer sinks.close()

	hub := delivery.NewHub()
	eventConsumer := consumer.NewEventConsumer(stream, a.logger, append(sinks.handlers, hub)...)
	eventConsumer.Start(context.WithoutCancel(ctx))

	schedulerErr := make(chan error, 1)
	utils.GoSafe(a.logger, func() {
		schedulerErr <- scheduler.Start(ctx)
	})

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	apiV1 := e.Group("/api/v1")
	watchlistHandler := delivery.NewWatchlistHandler(store, resolver, a.logger)
	watchlistGroup := apiV1.Group("/watchlist")
	watchlistHandler.RegisterRoutes(watchlistGroup)
	if sinks.lastPrices != nil {
		delivery.NewLastPriceHandler(store, sinks.lastPrices, a.logger).RegisterRoutes(watchlistGroup)
	}
	watchlistHandler.RegisterCategoryRoutes(apiV1.Group("/categories"))
	delivery.NewCheckHandler(scheduler, hub, a.logger).RegisterRoutes(apiV1)

	go func() {
		addr := fmt.Sprintf("%s:%d", a.cfg.API.Host, a.cfg.API.Port)
		a.logger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop()
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-schedulerErr:
		if err != nil {
			a.logger.Error("Monitor scheduler failed", logger.ErrorField(err))
		}
		stop()
	}

	a.logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Monitor.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("Server forced to shutdown", logger.ErrorField(err))
	}

	passDone := make(chan struct{})
	go func() {
		scheduler.Wait()
		close(passDone)
	}()
	select {
	case <-passDone:
	case <-shutdownCtx.Done():
		a.logger.Warn("Check pass still running at shutdown")
	}

	eventConsumer.Stop()
	stream.Close()

	if store.Dirty() {
		if err := store.Flush(context.Background()); err != nil {
			a.logger.Error("Failed to save watchlist on shutdown", logger.ErrorField(err))
		}
	}

	a.logger.Info("Server exiting")
	return nil
}
