package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"golang-stock-watcher/internal/entity"
	"golang-stock-watcher/pkg/common"
	"golang-stock-watcher/pkg/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLastPriceRepository(t *testing.T, ttl time.Duration) (LastPriceRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewLastPriceRepository(client, ttl), mr
}

func TestLastPriceRepository_RecordAndGet(t *testing.T) {
	repo, mr := setupLastPriceRepository(t, time.Hour)
	ctx := context.Background()
	fetchedAt := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

	err := repo.Record(ctx, entity.Quote{
		Symbol:      "2330.TW",
		Price:       utils.ToPointer(605.5),
		SourceStage: entity.StageRegularMarket,
		FetchedAt:   fetchedAt,
	})
	require.NoError(t, err)

	got, err := repo.Get(ctx, "2330.TW")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 605.5, got.Price)
	assert.Equal(t, string(entity.StageRegularMarket), got.Stage)
	assert.True(t, fetchedAt.Equal(got.Timestamp))

	assert.Equal(t, time.Hour, mr.TTL(fmt.Sprintf(common.RedisKeyLastPrice, "2330.TW")))
}

func TestLastPriceRepository_IgnoresMissingPrice(t *testing.T) {
	repo, mr := setupLastPriceRepository(t, 0)
	ctx := context.Background()

	require.NoError(t, repo.Record(ctx, entity.Quote{Symbol: "AAPL", SourceStage: entity.StageNone}))

	assert.False(t, mr.Exists(fmt.Sprintf(common.RedisKeyLastPrice, "AAPL")))
	got, err := repo.Get(ctx, "AAPL")
	require.NoError(t, err)
	assert.Nil(t, got)
}
