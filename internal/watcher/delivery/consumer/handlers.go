package consumer

import (
	"context"
	"errors"
	"time"

	"golang-stock-watcher/internal/entity"
	"golang-stock-watcher/internal/watcher/event"
	"golang-stock-watcher/internal/watcher/repository"
	"golang-stock-watcher/pkg/telegram"
)

// NewLastPriceHandler records every fetched price in the last price cache.
func NewLastPriceHandler(repo repository.LastPriceRepository) Handler {
	return HandlerFunc(func(ctx context.Context, ev event.Event) error {
		if ev.Kind != event.KindResult || ev.Result == nil || !ev.Result.Quote.Available() {
			return nil
		}
		return repo.Record(ctx, ev.Result.Quote)
	})
}

// TelegramHandler collects the matches of each pass and sends them once the
// pass completes. It is driven by a single consumer and is not safe for
// concurrent use.
type TelegramHandler struct {
	notifier telegram.Notifier
	pending  map[string][]entity.CheckResult
	now      func() time.Time
}

func NewTelegramHandler(notifier telegram.Notifier) *TelegramHandler {
	return &TelegramHandler{
		notifier: notifier,
		pending:  make(map[string][]entity.CheckResult),
		now:      time.Now,
	}
}

func (h *TelegramHandler) Handle(_ context.Context, ev event.Event) error {
	switch ev.Kind {
	case event.KindResult:
		if ev.Result != nil && ev.Result.Matched {
			h.pending[ev.PassID] = append(h.pending[ev.PassID], *ev.Result)
		}
	case event.KindPassComplete:
		matches := h.pending[ev.PassID]
		delete(h.pending, ev.PassID)
		var errs []error
		for _, msg := range telegram.FormatPassMatchesForTelegram(matches, h.now()) {
			if err := h.notifier.SendMessage(msg); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
	return nil
}
