package main

import (
	"fmt"
	"io"

	"golang-stock-watcher/internal/watcher/delivery/console"
	"golang-stock-watcher/internal/watcher/delivery/consumer"
	"golang-stock-watcher/internal/watcher/repository"
	"golang-stock-watcher/pkg/logger"
	"golang-stock-watcher/pkg/redis"
	"golang-stock-watcher/pkg/telegram"
)

// sinks are the event handlers of a command plus the last price cache they
// feed, which is nil when Redis is disabled or unreachable.
type sinks struct {
	handlers   []consumer.Handler
	lastPrices repository.LastPriceRepository
	close      func()
}

// eventHandlers builds the console printer plus the optional Telegram and
// Redis sinks. close releases the Redis connection.
func (a *app) eventHandlers(out io.Writer) (*sinks, error) {
	s := &sinks{
		handlers: []consumer.Handler{console.NewPrinter(out)},
		close:    func() {},
	}

	if a.cfg.Telegram.Enabled {
		notifier, err := telegram.NewClient(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize telegram notifier: %w", err)
		}
		s.handlers = append(s.handlers, consumer.NewTelegramHandler(notifier))
	}

	if a.cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(redis.Config{
			Host:     a.cfg.Redis.Host,
			Port:     a.cfg.Redis.Port,
			Password: a.cfg.Redis.Password,
			DB:       a.cfg.Redis.DB,
			PoolSize: a.cfg.Redis.PoolSize,
		})
		if err != nil {
			// The last price cache is optional; checks still run without it.
			a.logger.Warn("Redis unavailable, last prices will not be recorded", logger.ErrorField(err))
		} else {
			s.lastPrices = repository.NewLastPriceRepository(redisClient.Client, a.cfg.Redis.LastPriceTTL)
			s.handlers = append(s.handlers, consumer.NewLastPriceHandler(s.lastPrices))
			s.close = func() { _ = redisClient.Close() }
		}
	}

	return s, nil
}
