package dto

import "time"

// LiveInfo is the subset of the provider's live quote structure the fallback
// chain reads. Nil pointers mean the field was absent or null.
type LiveInfo struct {
	Symbol             string   `json:"symbol"`
	LongName           string   `json:"long_name"`
	ShortName          string   `json:"short_name"`
	RegularMarketPrice *float64 `json:"regular_market_price,omitempty"`
	PreMarketPrice     *float64 `json:"pre_market_price,omitempty"`
	PostMarketPrice    *float64 `json:"post_market_price,omitempty"`
}

// SymbolRecord is one row of the symbol lookup dictionary.
type SymbolRecord struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// LastPrice is the most recent price recorded for a symbol.
type LastPrice struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	Stage     string    `json:"stage"`
	Timestamp time.Time `json:"timestamp"`
}
