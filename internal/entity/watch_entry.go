package entity

import (
	"fmt"
	"math"
	"strings"

	"golang-stock-watcher/pkg/common"
)

// Condition is the comparison that decides whether a price meets its target.
type Condition string

const (
	ConditionAtOrAbove Condition = ">="
	ConditionAtOrBelow Condition = "<="
)

// ParseCondition accepts the persisted operators as well as their spelled out
// names. An empty value yields ConditionAtOrAbove.
func ParseCondition(raw string) (Condition, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", ">=", "atorabove", "above", "ge":
		return ConditionAtOrAbove, nil
	case "<=", "atorbelow", "below", "le":
		return ConditionAtOrBelow, nil
	}
	return "", fmt.Errorf("%w: unknown condition %q", ErrInvalidInput, raw)
}

// Valid reports whether c is one of the known conditions.
func (c Condition) Valid() bool {
	return c == ConditionAtOrAbove || c == ConditionAtOrBelow
}

// Label returns the spelled out name of the condition.
func (c Condition) Label() string {
	switch c {
	case ConditionAtOrAbove:
		return "AtOrAbove"
	case ConditionAtOrBelow:
		return "AtOrBelow"
	}
	return string(c)
}

// WatchEntry is one tracked instrument. Its position inside a Watchlist is the
// manual sort order.
type WatchEntry struct {
	Symbol      string    `json:"symbol"`
	Name        string    `json:"name"`
	TargetPrice float64   `json:"target_price"`
	Condition   Condition `json:"condition"`
	Category    string    `json:"category"`
}

// Normalize fills the defaults applied to entries read from disk or user input.
func (e WatchEntry) Normalize() WatchEntry {
	e.Symbol = strings.TrimSpace(e.Symbol)
	e.Name = strings.TrimSpace(e.Name)
	e.Category = strings.TrimSpace(e.Category)
	if e.Category == "" {
		e.Category = common.DefaultCategory
	}
	if e.Condition == "" {
		e.Condition = ConditionAtOrAbove
	}
	return e
}

// Validate checks the fields a mutation must satisfy before it is applied.
func (e WatchEntry) Validate() error {
	if !ValidSymbol(e.Symbol) {
		return fmt.Errorf("%w: malformed symbol %q", ErrInvalidInput, e.Symbol)
	}
	if math.IsNaN(e.TargetPrice) || math.IsInf(e.TargetPrice, 0) {
		return fmt.Errorf("%w: target price must be a finite number", ErrInvalidInput)
	}
	if !e.Condition.Valid() {
		return fmt.Errorf("%w: unknown condition %q", ErrInvalidInput, e.Condition)
	}
	return nil
}

// Watchlist is the ordered, persisted sequence of entries. Symbols are unique.
type Watchlist []WatchEntry

// IndexOf returns the position of symbol, or -1.
func (w Watchlist) IndexOf(symbol string) int {
	for i, e := range w {
		if e.Symbol == symbol {
			return i
		}
	}
	return -1
}

// Clone returns a copy that shares no backing array with w.
func (w Watchlist) Clone() Watchlist {
	out := make(Watchlist, len(w))
	copy(out, w)
	return out
}

// CategoryGroup is a read-time projection of the entries sharing a category.
type CategoryGroup struct {
	Category string       `json:"category"`
	Entries  []WatchEntry `json:"entries"`
}

// Direction is the way an entry moves inside the manual ordering.
type Direction int

const (
	DirectionUp   Direction = -1
	DirectionDown Direction = 1
)

// ParseDirection accepts "up" and "down".
func ParseDirection(raw string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "up":
		return DirectionUp, nil
	case "down":
		return DirectionDown, nil
	}
	return 0, fmt.Errorf("%w: direction must be up or down, got %q", ErrInvalidInput, raw)
}

func (d Direction) String() string {
	if d == DirectionUp {
		return "up"
	}
	return "down"
}
