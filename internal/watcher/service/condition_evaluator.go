package service

import (
	"math"

	"golang-stock-watcher/internal/entity"
)

// Evaluate reports whether price meets target under condition. A nil price
// never matches.
func Evaluate(price *float64, target float64, condition entity.Condition) bool {
	if price == nil || math.IsNaN(*price) || math.IsNaN(target) {
		return false
	}
	switch condition {
	case entity.ConditionAtOrAbove:
		return *price >= target
	case entity.ConditionAtOrBelow:
		return *price <= target
	}
	return false
}

// EvaluateEntry checks a quote against an entry's target.
func EvaluateEntry(entry entity.WatchEntry, quote entity.Quote) entity.CheckResult {
	return entity.CheckResult{
		Entry:   entry,
		Quote:   quote,
		Matched: Evaluate(quote.Price, entry.TargetPrice, entry.Condition),
	}
}
