package entity

import "time"

// QuoteStage names the fallback step that produced a price.
type QuoteStage string

const (
	StageHistoricalClose QuoteStage = "historical_close"
	StageRegularMarket   QuoteStage = "regular_market"
	StageExtendedHours   QuoteStage = "extended_hours"
	StageNone            QuoteStage = "none"
)

// Quote is a best-effort current price. A nil Price means every stage failed.
type Quote struct {
	Symbol      string     `json:"symbol"`
	Price       *float64   `json:"price,omitempty"`
	SourceStage QuoteStage `json:"source_stage"`
	FetchedAt   time.Time  `json:"fetched_at"`
}

// Available reports whether the quote carries a price.
func (q Quote) Available() bool {
	return q.Price != nil
}

// CheckResult is the outcome of evaluating one entry during a check pass.
// It is never persisted.
type CheckResult struct {
	Entry   WatchEntry `json:"entry"`
	Quote   Quote      `json:"quote"`
	Matched bool       `json:"matched"`
}
