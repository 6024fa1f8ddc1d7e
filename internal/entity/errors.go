package entity

import "errors"

var (
	ErrDuplicateSymbol     = errors.New("symbol already in watchlist")
	ErrNotFound            = errors.New("symbol not found in watchlist")
	ErrInvalidInput        = errors.New("invalid input")
	ErrProviderUnavailable = errors.New("quote provider unavailable")
	ErrFetchExhausted      = errors.New("no price available from any source")
	ErrPersistenceFailure  = errors.New("failed to persist watchlist")
	ErrPassAlreadyRunning  = errors.New("check pass already running")
)
