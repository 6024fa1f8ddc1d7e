package service

import (
	"context"
	"errors"
	"sync"

	"golang-stock-watcher/internal/entity"
	"golang-stock-watcher/internal/watcher/dto"
	"golang-stock-watcher/pkg/utils"
)

var errUpstream = errors.New("upstream down")

type fakeProvider struct {
	mu         sync.Mutex
	closes     map[string][]float64
	closesErr  error
	info       map[string]*dto.LiveInfo
	infoErr    error
	infoCalls  int
	closeCalls int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		closes: make(map[string][]float64),
		info:   make(map[string]*dto.LiveInfo),
	}
}

func (p *fakeProvider) GetDailyCloses(_ context.Context, symbol string) ([]float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeCalls++
	if p.closesErr != nil {
		return nil, p.closesErr
	}
	return p.closes[symbol], nil
}

func (p *fakeProvider) GetLiveInfo(_ context.Context, symbol string) (*dto.LiveInfo, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.infoCalls++
	if p.infoErr != nil {
		return nil, p.infoErr
	}
	if info, ok := p.info[symbol]; ok {
		return info, nil
	}
	return &dto.LiveInfo{Symbol: symbol}, nil
}

// fakeFetcher returns fixed prices. When gate is set every fetch waits on it.
type fakeFetcher struct {
	mu      sync.Mutex
	prices  map[string]float64
	gate    chan struct{}
	started chan struct{}
	order   []string
}

func (f *fakeFetcher) Fetch(_ context.Context, symbol string) entity.Quote {
	if f.started != nil {
		select {
		case f.started <- struct{}{}:
		default:
		}
	}
	if f.gate != nil {
		<-f.gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.order = append(f.order, symbol)
	q := entity.Quote{Symbol: symbol, SourceStage: entity.StageNone}
	if p, ok := f.prices[symbol]; ok {
		q.Price = utils.ToPointer(p)
		q.SourceStage = entity.StageHistoricalClose
	}
	return q
}

func (f *fakeFetcher) fetched() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.order...)
}

// memoryRepository keeps the watchlist in memory. saveErr makes Save fail.
type memoryRepository struct {
	mu      sync.Mutex
	entries entity.Watchlist
	saves   int
	saveErr error
}

func (r *memoryRepository) Load(context.Context) (entity.Watchlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries.Clone(), nil
}

func (r *memoryRepository) Save(_ context.Context, wl entity.Watchlist) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	r.entries = wl.Clone()
	return nil
}

func (r *memoryRepository) Path() string { return "memory" }

func (r *memoryRepository) saved() entity.Watchlist {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries.Clone()
}
