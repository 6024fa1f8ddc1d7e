package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"golang-stock-watcher/internal/entity"
	"golang-stock-watcher/internal/watcher/dto"
	"golang-stock-watcher/pkg/common"

	"github.com/redis/go-redis/v9"
)

// LastPriceRepository keeps the latest fetched price per symbol in Redis for
// dashboards and diagnostics. Entries expire after the configured TTL.
type LastPriceRepository interface {
	Record(ctx context.Context, quote entity.Quote) error
	Get(ctx context.Context, symbol string) (*dto.LastPrice, error)
}

type lastPriceRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLastPriceRepository(client *redis.Client, ttl time.Duration) LastPriceRepository {
	return &lastPriceRepository{
		client: client,
		ttl:    ttl,
	}
}

func (r *lastPriceRepository) Record(ctx context.Context, quote entity.Quote) error {
	if quote.Price == nil {
		return nil
	}
	ts := quote.FetchedAt
	if ts.IsZero() {
		ts = time.Now()
	}

	key := fmt.Sprintf(common.RedisKeyLastPrice, quote.Symbol)
	pipe := r.client.Pipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"price":     *quote.Price,
		"stage":     string(quote.SourceStage),
		"timestamp": ts.Unix(),
	})
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record last price for %s: %w", quote.Symbol, err)
	}
	return nil
}

func (r *lastPriceRepository) Get(ctx context.Context, symbol string) (*dto.LastPrice, error) {
	values, err := r.client.HGetAll(ctx, fmt.Sprintf(common.RedisKeyLastPrice, symbol)).Result()
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}

	price, err := strconv.ParseFloat(values["price"], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid stored price for %s: %w", symbol, err)
	}
	unix, err := strconv.ParseInt(values["timestamp"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid stored timestamp for %s: %w", symbol, err)
	}

	return &dto.LastPrice{
		Symbol:    symbol,
		Price:     price,
		Stage:     values["stage"],
		Timestamp: time.Unix(unix, 0),
	}, nil
}
