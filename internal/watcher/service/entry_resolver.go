package service

import (
	"context"
	"fmt"
	"strings"

	"golang-stock-watcher/internal/entity"
	"golang-stock-watcher/internal/watcher/repository"
	"golang-stock-watcher/pkg/logger"
)

// EntryResolver turns a user query (symbol or display name) into a canonical
// symbol and a display name.
type EntryResolver interface {
	Resolve(ctx context.Context, query string) (symbol string, name string, err error)
}

type entryResolver struct {
	lookup   repository.SymbolLookupRepository
	provider QuoteProvider
	logger   *logger.Logger
}

// NewEntryResolver creates a resolver. provider may be nil to skip name
// enrichment.
func NewEntryResolver(lookup repository.SymbolLookupRepository, provider QuoteProvider, log *logger.Logger) EntryResolver {
	return &entryResolver{
		lookup:   lookup,
		provider: provider,
		logger:   log,
	}
}

func (r *entryResolver) Resolve(ctx context.Context, query string) (string, string, error) {
	q := entity.CleanSymbol(query)
	if q == "" {
		return "", "", fmt.Errorf("%w: enter a symbol or a name", entity.ErrInvalidInput)
	}

	var symbol, name string
	if strings.Contains(q, ".") {
		if rec, ok := r.lookup.FindBySymbol(q); ok {
			symbol, name = rec.Symbol, rec.Name
		}
	} else if rec, ok := r.lookup.FindByName(q); ok {
		symbol, name = rec.Symbol, rec.Name
	} else if rec, ok := r.lookup.FindBySymbol(q); ok {
		symbol, name = rec.Symbol, rec.Name
	}

	if symbol == "" {
		if !entity.ValidSymbol(q) {
			return "", "", fmt.Errorf("%w: nothing matches %q", entity.ErrInvalidInput, query)
		}
		symbol = strings.ToUpper(q)
	}

	if r.provider != nil {
		info, err := r.provider.GetLiveInfo(ctx, symbol)
		switch {
		case err != nil:
			r.logger.WarnContext(ctx, "Failed to verify symbol with provider, using local data",
				logger.StringField("symbol", symbol), logger.ErrorField(err))
		case info.LongName != "":
			name = info.LongName
		case name == "" && info.ShortName != "":
			name = info.ShortName
		}
	}

	return symbol, name, nil
}
