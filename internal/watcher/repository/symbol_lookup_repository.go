package repository

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"strings"

	"golang-stock-watcher/internal/watcher/dto"
	"golang-stock-watcher/pkg/logger"
)

// SymbolLookupRepository resolves symbols and display names using the
// dictionary file produced by the exchange listing job.
type SymbolLookupRepository interface {
	FindBySymbol(symbol string) (dto.SymbolRecord, bool)
	FindByName(name string) (dto.SymbolRecord, bool)
	Len() int
}

type symbolLookupRepository struct {
	bySymbol map[string]dto.SymbolRecord
	byName   map[string]dto.SymbolRecord
}

// NewSymbolLookupRepository loads the dictionary at path. A missing or
// unreadable file leaves the dictionary empty.
func NewSymbolLookupRepository(path string, log *logger.Logger) SymbolLookupRepository {
	var records []dto.SymbolRecord
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Debug("Symbol lookup file not found", logger.StringField("path", path))
	case err != nil:
		log.Warn("Failed to read symbol lookup file", logger.StringField("path", path), logger.ErrorField(err))
	default:
		if err := json.Unmarshal(data, &records); err != nil {
			log.Warn("Failed to decode symbol lookup file", logger.StringField("path", path), logger.ErrorField(err))
			records = nil
		}
	}
	return NewSymbolLookupFromRecords(records)
}

// NewSymbolLookupFromRecords builds a lookup from in-memory records.
func NewSymbolLookupFromRecords(records []dto.SymbolRecord) SymbolLookupRepository {
	r := &symbolLookupRepository{
		bySymbol: make(map[string]dto.SymbolRecord, len(records)),
		byName:   make(map[string]dto.SymbolRecord, len(records)),
	}
	for _, rec := range records {
		rec.Symbol = strings.TrimSpace(rec.Symbol)
		rec.Name = strings.TrimSpace(rec.Name)
		if rec.Symbol == "" {
			continue
		}
		key := strings.ToUpper(rec.Symbol)
		if _, ok := r.bySymbol[key]; !ok {
			r.bySymbol[key] = rec
		}
		if rec.Name != "" {
			if _, ok := r.byName[rec.Name]; !ok {
				r.byName[rec.Name] = rec
			}
		}
	}
	return r
}

func (r *symbolLookupRepository) FindBySymbol(symbol string) (dto.SymbolRecord, bool) {
	rec, ok := r.bySymbol[strings.ToUpper(strings.TrimSpace(symbol))]
	return rec, ok
}

func (r *symbolLookupRepository) FindByName(name string) (dto.SymbolRecord, bool) {
	rec, ok := r.byName[strings.TrimSpace(name)]
	return rec, ok
}

func (r *symbolLookupRepository) Len() int {
	return len(r.bySymbol)
}
