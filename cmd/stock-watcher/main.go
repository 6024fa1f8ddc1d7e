package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang-stock-watcher/internal/entity"
	"golang-stock-watcher/internal/watcher/config"
	"golang-stock-watcher/internal/watcher/event"
	"golang-stock-watcher/internal/watcher/repository"
	"golang-stock-watcher/internal/watcher/service"
	"golang-stock-watcher/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var errMissingCommand = errors.New("missing command")

// app carries what every subcommand needs once flags are parsed.
type app struct {
	configPath    string
	watchlistPath string
	logLevel      string

	cfg    *config.Config
	logger *logger.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "stock-watcher",
		Short:         "Watch stock prices against your target prices",
		Long:          `stock-watcher keeps a watchlist of instruments with target prices and checks current market prices against them.`,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Arguments are valid at this point, so later failures are not usage errors.
			cmd.SilenceUsage = true
			return a.init()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Usage()
			return errMissingCommand
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "configs/config-watcher.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().StringVar(&a.watchlistPath, "watchlist", "", "Path to the watchlist file (overrides watchlist.path)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (overrides logger.level)")

	rootCmd.AddCommand(
		newAddCmd(a),
		newListCmd(a),
		newRunCmd(a),
		newEditCmd(a),
		newRemoveCmd(a),
		newMoveCmd(a),
		newServeCmd(a),
	)
	return rootCmd
}

func (a *app) init() error {
	_ = godotenv.Load()

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if a.watchlistPath != "" {
		cfg.Watchlist.Path = a.watchlistPath
	}
	if a.logLevel != "" {
		cfg.Logger.Level = a.logLevel
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	a.cfg = cfg
	a.logger = appLogger
	return nil
}

func (a *app) loadStore(ctx context.Context, events event.Publisher) service.WatchlistStore {
	repo := repository.NewWatchlistRepository(a.cfg.Watchlist.Path, a.logger)
	store := service.NewWatchlistStore(repo, events, a.logger)
	store.Load(ctx)
	return store
}

func (a *app) yahooFinance() repository.YahooFinanceRepository {
	return repository.NewYahooFinanceRepository(a.cfg.YahooFinance, a.logger)
}

func (a *app) resolver(provider service.QuoteProvider) service.EntryResolver {
	lookup := repository.NewSymbolLookupRepository(a.cfg.Watchlist.LookupPath, a.logger)
	return service.NewEntryResolver(lookup, provider, a.logger)
}

// persistWarning turns a write failure into a readable error while keeping
// other errors unchanged.
func persistWarning(err error) error {
	if errors.Is(err, entity.ErrPersistenceFailure) {
		return fmt.Errorf("change applied but could not be saved: %w", err)
	}
	return err
}

func main() {
	rootCmd := newRootCmd()
	cmd, err := rootCmd.ExecuteC()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error executing stock-watcher CLI: %s\n", err)
		if cmd != nil && strings.HasPrefix(err.Error(), "unknown command") {
			_ = cmd.Usage()
		}
		os.Exit(1)
	}
}
