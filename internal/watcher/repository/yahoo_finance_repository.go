package repository

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang-stock-watcher/internal/entity"
	"golang-stock-watcher/internal/watcher/config"
	"golang-stock-watcher/internal/watcher/dto"
	"golang-stock-watcher/pkg/logger"

	"github.com/patrickmn/go-cache"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// YahooFinanceRepository queries the quote provider.
type YahooFinanceRepository interface {
	// GetDailyCloses returns the non-null daily closing prices of the
	// configured history window, oldest first.
	GetDailyCloses(ctx context.Context, symbol string) ([]float64, error)
	// GetLiveInfo returns the live quote structure.
	GetLiveInfo(ctx context.Context, symbol string) (*dto.LiveInfo, error)
}

type yahooFinanceRepository struct {
	cfg            config.YahooFinance
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
	infoCache      *cache.Cache
}

func NewYahooFinanceRepository(cfg config.YahooFinance, log *logger.Logger) YahooFinanceRepository {
	limit := rate.Inf
	if cfg.MaxRequestPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.MaxRequestPerMinute))
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if cfg.HistoryRange == "" {
		cfg.HistoryRange = "1d"
	}

	var infoCache *cache.Cache
	if cfg.InfoCacheTTL > 0 {
		infoCache = cache.New(cfg.InfoCacheTTL, 2*cfg.InfoCacheTTL)
	}

	return &yahooFinanceRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		requestLimiter: rate.NewLimiter(limit, 1),
		infoCache:      infoCache,
	}
}

func (r *yahooFinanceRepository) GetDailyCloses(ctx context.Context, symbol string) ([]float64, error) {
	result, err := r.getChart(ctx, symbol, r.cfg.HistoryRange)
	if err != nil {
		return nil, err
	}

	var closes []float64
	result.Get("indicators.quote.0.close").ForEach(func(_, value gjson.Result) bool {
		if value.Type == gjson.Number {
			closes = append(closes, value.Float())
		}
		return true
	})

	return closes, nil
}

// GetLiveInfo reads the quote from the chart metadata. The v7 quote endpoint
// needs a session cookie and crumb, the chart endpoint does not.
func (r *yahooFinanceRepository) GetLiveInfo(ctx context.Context, symbol string) (*dto.LiveInfo, error) {
	if r.infoCache != nil {
		if cached, ok := r.infoCache.Get(symbol); ok {
			info := cached.(dto.LiveInfo)
			return &info, nil
		}
	}

	result, err := r.getChart(ctx, symbol, "1d")
	if err != nil {
		return nil, err
	}

	meta := result.Get("meta")
	if !meta.Exists() {
		return nil, fmt.Errorf("%w: no quote metadata for %s", entity.ErrProviderUnavailable, symbol)
	}

	info := dto.LiveInfo{
		Symbol:             meta.Get("symbol").String(),
		LongName:           meta.Get("longName").String(),
		ShortName:          meta.Get("shortName").String(),
		RegularMarketPrice: numberField(meta, "regularMarketPrice"),
		PreMarketPrice:     numberField(meta, "preMarketPrice"),
		PostMarketPrice:    numberField(meta, "postMarketPrice"),
	}
	if info.Symbol == "" {
		info.Symbol = symbol
	}

	if r.infoCache != nil {
		r.infoCache.SetDefault(symbol, info)
	}
	return &info, nil
}

func (r *yahooFinanceRepository) getChart(ctx context.Context, symbol, chartRange string) (gjson.Result, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=1d",
		strings.TrimRight(r.cfg.BaseURL, "/"), url.PathEscape(symbol), url.QueryEscape(chartRange))

	body, err := r.sendRequest(ctx, endpoint)
	if err != nil {
		return gjson.Result{}, err
	}

	if chartErr := gjson.GetBytes(body, "chart.error"); chartErr.Exists() && chartErr.Type != gjson.Null {
		return gjson.Result{}, fmt.Errorf("%w: chart error for %s: %s", entity.ErrProviderUnavailable, symbol, chartErr.Get("description").String())
	}

	result := gjson.GetBytes(body, "chart.result.0")
	if !result.Exists() {
		return gjson.Result{}, fmt.Errorf("%w: no chart result for %s", entity.ErrProviderUnavailable, symbol)
	}
	return result, nil
}

func numberField(result gjson.Result, path string) *float64 {
	v := result.Get(path)
	if v.Type != gjson.Number {
		return nil
	}
	f := v.Float()
	return &f
}

func (r *yahooFinanceRepository) sendRequest(ctx context.Context, endpoint string) ([]byte, error) {
	fields := []zap.Field{
		zap.String("url", endpoint),
		zap.Int("max_request_per_minute", r.cfg.MaxRequestPerMinute),
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to wait for request limit", fields...)
		return nil, fmt.Errorf("%w: %v", entity.ErrProviderUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to create new http request", fields...)
		return nil, fmt.Errorf("%w: %v", entity.ErrProviderUnavailable, err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "application/json, text/plain, */*")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		fields = append(fields, zap.Error(err))
		r.log.WarnContext(ctx, "Failed to send request to Yahoo Finance API", fields...)
		return nil, fmt.Errorf("%w: %v", entity.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		fields = append(fields, zap.Int("status_code", resp.StatusCode))
		r.log.WarnContext(ctx, "Received non-OK response from Yahoo Finance API", fields...)
		return nil, fmt.Errorf("%w: status %d: %s", entity.ErrProviderUnavailable, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to read response body from Yahoo Finance API", fields...)
		return nil, fmt.Errorf("%w: %v", entity.ErrProviderUnavailable, err)
	}

	if !gjson.ValidBytes(body) {
		r.log.WarnContext(ctx, "Received invalid JSON from Yahoo Finance API", fields...)
		return nil, fmt.Errorf("%w: invalid JSON response", entity.ErrProviderUnavailable)
	}

	return body, nil
}
