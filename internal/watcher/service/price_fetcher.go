package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"golang-stock-watcher/internal/entity"
	"golang-stock-watcher/internal/watcher/dto"
	"golang-stock-watcher/pkg/logger"

	"github.com/shopspring/decimal"
)

// QuoteProvider is the external quote source the fallback chain queries.
type QuoteProvider interface {
	GetDailyCloses(ctx context.Context, symbol string) ([]float64, error)
	GetLiveInfo(ctx context.Context, symbol string) (*dto.LiveInfo, error)
}

// PriceFetcher returns a best-effort current price for a symbol.
type PriceFetcher interface {
	Fetch(ctx context.Context, symbol string) entity.Quote
}

// StageResult is the outcome of one fallback stage. Reason explains why an
// unavailable stage produced nothing.
type StageResult struct {
	Price     float64
	Available bool
	Reason    error
}

func available(price float64) StageResult {
	return StageResult{Price: price, Available: true}
}

func unavailable(reason error) StageResult {
	return StageResult{Reason: reason}
}

type fetchStage struct {
	name entity.QuoteStage
	run  func(ctx context.Context, symbol string, info *liveInfoMemo) StageResult
}

// liveInfoMemo makes the regular market and extended hours stages share one
// provider call per fetch.
type liveInfoMemo struct {
	provider QuoteProvider
	fetched  bool
	info     *dto.LiveInfo
	err      error
}

func (m *liveInfoMemo) get(ctx context.Context, symbol string) (*dto.LiveInfo, error) {
	if !m.fetched {
		m.info, m.err = m.provider.GetLiveInfo(ctx, symbol)
		m.fetched = true
	}
	return m.info, m.err
}

type priceFetcher struct {
	provider QuoteProvider
	stages   []fetchStage
	logger   *logger.Logger
	now      func() time.Time
}

// NewPriceFetcher builds the fallback chain: most recent historical close,
// then the live regular market price, then the pre/post market price.
func NewPriceFetcher(provider QuoteProvider, log *logger.Logger) PriceFetcher {
	f := &priceFetcher{
		provider: provider,
		logger:   log,
		now:      time.Now,
	}
	f.stages = []fetchStage{
		{name: entity.StageHistoricalClose, run: f.historicalClose},
		{name: entity.StageRegularMarket, run: f.regularMarket},
		{name: entity.StageExtendedHours, run: f.extendedHours},
	}
	return f
}

func (f *priceFetcher) Fetch(ctx context.Context, raw string) entity.Quote {
	symbol := entity.CleanSymbol(raw)
	quote := entity.Quote{
		Symbol:      symbol,
		SourceStage: entity.StageNone,
		FetchedAt:   f.now(),
	}
	if !entity.ValidSymbol(symbol) {
		f.logger.WarnContext(ctx, "Refusing to fetch malformed symbol", logger.StringField("symbol", raw))
		return quote
	}

	memo := &liveInfoMemo{provider: f.provider}
	for _, stage := range f.stages {
		res := stage.run(ctx, symbol, memo)
		if res.Available {
			price := roundPrice(res.Price)
			quote.Price = &price
			quote.SourceStage = stage.name
			f.logger.DebugContext(ctx, "Price fetched",
				logger.StringField("symbol", symbol),
				logger.StringField("stage", string(stage.name)),
				logger.FloatField("price", price))
			return quote
		}
		f.logger.DebugContext(ctx, "Fetch stage unavailable",
			logger.StringField("symbol", symbol),
			logger.StringField("stage", string(stage.name)),
			logger.ErrorField(res.Reason))
	}

	f.logger.WarnContext(ctx, "No price found for symbol", logger.StringField("symbol", symbol), logger.ErrorField(entity.ErrFetchExhausted))
	return quote
}

func (f *priceFetcher) historicalClose(ctx context.Context, symbol string, _ *liveInfoMemo) StageResult {
	closes, err := f.provider.GetDailyCloses(ctx, symbol)
	if err != nil {
		return unavailable(wrapProvider(err))
	}
	for i := len(closes) - 1; i >= 0; i-- {
		if usablePrice(closes[i]) {
			return available(closes[i])
		}
	}
	return unavailable(errors.New("no historical close in window"))
}

func (f *priceFetcher) regularMarket(ctx context.Context, symbol string, memo *liveInfoMemo) StageResult {
	info, err := memo.get(ctx, symbol)
	if err != nil {
		return unavailable(wrapProvider(err))
	}
	if info.RegularMarketPrice == nil || !usablePrice(*info.RegularMarketPrice) {
		return unavailable(errors.New("regularMarketPrice absent"))
	}
	return available(*info.RegularMarketPrice)
}

func (f *priceFetcher) extendedHours(ctx context.Context, symbol string, memo *liveInfoMemo) StageResult {
	info, err := memo.get(ctx, symbol)
	if err != nil {
		return unavailable(wrapProvider(err))
	}
	for _, p := range []*float64{info.PreMarketPrice, info.PostMarketPrice} {
		if p != nil && usablePrice(*p) {
			return available(*p)
		}
	}
	return unavailable(errors.New("preMarketPrice and postMarketPrice absent"))
}

func wrapProvider(err error) error {
	if errors.Is(err, entity.ErrProviderUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", entity.ErrProviderUnavailable, err)
}

func usablePrice(p float64) bool {
	return p > 0 && !math.IsNaN(p) && !math.IsInf(p, 0)
}

func roundPrice(p float64) float64 {
	return decimal.NewFromFloat(p).Round(2).InexactFloat64()
}
