package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang-stock-watcher/internal/entity"
	"golang-stock-watcher/internal/watcher/event"
	"golang-stock-watcher/pkg/logger"
	"golang-stock-watcher/pkg/utils"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// MonitorScheduler runs check passes over the watchlist off the caller's
// goroutine and streams their results as events.
type MonitorScheduler interface {
	// Trigger snapshots the watchlist and starts a pass on a new goroutine. It
	// returns the pass id, or ErrPassAlreadyRunning while a pass is in flight.
	Trigger(ctx context.Context) (string, error)
	// Start triggers passes on the cron schedule until ctx is done.
	Start(ctx context.Context) error
	Running() bool
	// Wait blocks until the in-flight pass, if any, has finished.
	Wait()
}

// Snapshotter provides the read-only watchlist copy a pass works on.
type Snapshotter interface {
	Snapshot() entity.Watchlist
}

type monitorScheduler struct {
	store      Snapshotter
	fetcher    PriceFetcher
	events     event.Publisher
	logger     *logger.Logger
	cronSpec   string
	cronParser cron.Parser
	running    atomic.Bool
	wg         sync.WaitGroup
	now        func() time.Time
}

func NewMonitorScheduler(store Snapshotter, fetcher PriceFetcher, events event.Publisher, log *logger.Logger, cronSpec string) MonitorScheduler {
	if events == nil {
		events = event.Nop{}
	}
	return &monitorScheduler{
		store:      store,
		fetcher:    fetcher,
		events:     events,
		logger:     log,
		cronSpec:   cronSpec,
		cronParser: cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		now:        time.Now,
	}
}

func (s *monitorScheduler) Trigger(ctx context.Context) (string, error) {
	if !s.running.CompareAndSwap(false, true) {
		return "", entity.ErrPassAlreadyRunning
	}

	snapshot := s.store.Snapshot()
	passID := uuid.NewString()
	// The pass outlives the request that triggered it.
	passCtx := logger.WithPassID(context.WithoutCancel(ctx), passID)

	s.wg.Add(1)
	utils.GoSafe(s.logger, func() {
		var summary event.PassSummary
		defer func() {
			s.running.Store(false)
			s.events.Publish(event.PassComplete(passID, summary))
			s.wg.Done()
		}()
		summary = s.runPass(passCtx, passID, snapshot)
	})

	return passID, nil
}

func (s *monitorScheduler) Running() bool {
	return s.running.Load()
}

func (s *monitorScheduler) Wait() {
	s.wg.Wait()
}

func (s *monitorScheduler) Start(ctx context.Context) error {
	schedule, err := s.cronParser.Parse(s.cronSpec)
	if err != nil {
		return fmt.Errorf("invalid monitor cron %q: %w", s.cronSpec, err)
	}

	c := cron.New(cron.WithParser(s.cronParser))
	c.Schedule(schedule, cron.FuncJob(func() {
		passID, err := s.Trigger(ctx)
		if errors.Is(err, entity.ErrPassAlreadyRunning) {
			s.logger.Warn("Skipping scheduled check, previous pass still running")
			return
		}
		s.logger.Info("Scheduled check pass started", logger.StringField("pass_id", passID))
	}))

	s.logger.Info("Monitor scheduler started", logger.StringField("cron", s.cronSpec))
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	s.logger.Info("Monitor scheduler stopping")
	return nil
}

func (s *monitorScheduler) runPass(ctx context.Context, passID string, snapshot entity.Watchlist) event.PassSummary {
	summary := event.PassSummary{StartedAt: s.now()}
	s.logger.InfoContext(ctx, "Check pass started", logger.IntField("entries", len(snapshot)))

	if len(snapshot) == 0 {
		s.events.Publish(event.Log(passID, event.SeverityInfo, "Your watchlist is empty."))
		summary.FinishedAt = s.now()
		return summary
	}
	s.events.Publish(event.Log(passID, event.SeverityInfo, fmt.Sprintf("Checking %d entries...", len(snapshot))))

	for _, entry := range snapshot {
		quote := s.fetcher.Fetch(ctx, entry.Symbol)
		result := EvaluateEntry(entry, quote)
		summary.Checked++

		if !quote.Available() {
			summary.Unavailable++
			s.logger.WarnContext(ctx, "Entry skipped", logger.StringField("symbol", entry.Symbol), logger.ErrorField(entity.ErrFetchExhausted))
			s.events.Publish(event.Log(passID, event.SeverityWarning,
				fmt.Sprintf("  -> %s: %v", entry.Symbol, entity.ErrFetchExhausted)))
		} else {
			s.events.Publish(event.Log(passID, event.SeverityInfo,
				fmt.Sprintf("  -> %s current: %s, condition: %s %s",
					entry.Symbol, utils.FormatPrice(*quote.Price), entry.Condition, utils.FormatPrice(entry.TargetPrice))))
		}

		if result.Matched {
			summary.Matched++
			s.logger.InfoContext(ctx, "Target reached",
				logger.StringField("symbol", entry.Symbol),
				logger.FloatField("price", *quote.Price),
				logger.FloatField("target", entry.TargetPrice))
			s.events.Publish(event.Log(passID, event.SeverityTargetMet, targetMetMessage(result)))
		}

		s.events.Publish(event.Result(passID, result))
	}

	summary.FinishedAt = s.now()
	s.logger.InfoContext(ctx, "Check pass finished",
		logger.IntField("checked", summary.Checked),
		logger.IntField("matched", summary.Matched),
		logger.IntField("unavailable", summary.Unavailable),
		logger.DurationField("duration", summary.FinishedAt.Sub(summary.StartedAt)))
	return summary
}

func targetMetMessage(result entity.CheckResult) string {
	var b strings.Builder
	b.WriteString("Target reached! ")
	b.WriteString(result.Entry.Symbol)
	if result.Entry.Name != "" {
		b.WriteString(" (" + result.Entry.Name + ")")
	}
	fmt.Fprintf(&b, " current: %s %s target: %s",
		utils.FormatPrice(*result.Quote.Price), result.Entry.Condition, utils.FormatPrice(result.Entry.TargetPrice))
	return b.String()
}
