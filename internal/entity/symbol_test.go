package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanSymbol(t *testing.T) {
	assert.Equal(t, "2330.TW", CleanSymbol("  2330.TW  "))
	assert.Equal(t, "2330.TW", CleanSymbol("２３３０．ＴＷ"))
	assert.Equal(t, "AAPL", CleanSymbol("'AAPL',"))
	assert.Equal(t, "台積電", CleanSymbol(" 台積電 "))
}

func TestValidSymbol(t *testing.T) {
	for _, s := range []string{"AAPL", "2330.TW", "^TWII", "BRK-B", "EURUSD=X"} {
		assert.True(t, ValidSymbol(s), s)
	}
	for _, s := range []string{"", "TSMC CO", "台積電", "A/B"} {
		assert.False(t, ValidSymbol(s), s)
	}
}
