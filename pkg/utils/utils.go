package utils

import (
	"fmt"
	"runtime/debug"

	"golang-stock-watcher/pkg/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// GoSafe runs fn in a new goroutine and logs any panic it raises to log.
func GoSafe(log *logger.Logger, fn func()) {
	if log == nil {
		log = logger.NewNop()
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("Recovered from panic",
					zap.String("panic", fmt.Sprint(r)),
					zap.ByteString("stack", debug.Stack()))
			}
		}()
		fn()
	}()
}

// ToPointer returns a pointer to a copy of v.
func ToPointer[T any](v T) *T {
	return &v
}

// FormatPrice renders a price with two decimals.
func FormatPrice(p float64) string {
	return decimal.NewFromFloat(p).StringFixed(2)
}
