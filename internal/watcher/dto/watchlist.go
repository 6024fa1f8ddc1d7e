package dto

import "golang-stock-watcher/internal/entity"

// ErrorResponse represents a generic error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CreateEntryRequest adds an instrument. Query is a symbol or a display name.
type CreateEntryRequest struct {
	Query       string  `json:"query"`
	TargetPrice float64 `json:"target_price"`
	Condition   string  `json:"condition"`
	Category    string  `json:"category"`
}

// UpdateEntryRequest edits an entry. Empty Query keeps the current symbol.
type UpdateEntryRequest struct {
	Query       string   `json:"query"`
	TargetPrice *float64 `json:"target_price"`
	Condition   *string  `json:"condition"`
	Category    *string  `json:"category"`
}

// MoveEntryRequest reorders an entry.
type MoveEntryRequest struct {
	Direction string `json:"direction"`
}

// TriggerCheckResponse is returned when a check pass starts.
type TriggerCheckResponse struct {
	PassID string `json:"pass_id"`
}

// RemoveCategoryResponse reports how many entries were removed.
type RemoveCategoryResponse struct {
	Category string `json:"category"`
	Removed  int    `json:"removed"`
}

// WatchlistResponse lists entries in stored order.
type WatchlistResponse struct {
	Entries []entity.WatchEntry `json:"entries"`
}
