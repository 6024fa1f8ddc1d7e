package entity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCondition(t *testing.T) {
	tests := []struct {
		raw  string
		want Condition
	}{
		{"", ConditionAtOrAbove},
		{">=", ConditionAtOrAbove},
		{" AtOrAbove ", ConditionAtOrAbove},
		{"above", ConditionAtOrAbove},
		{"<=", ConditionAtOrBelow},
		{"AtOrBelow", ConditionAtOrBelow},
		{"below", ConditionAtOrBelow},
	}
	for _, tt := range tests {
		got, err := ParseCondition(tt.raw)
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}

	_, err := ParseCondition("==")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestWatchEntryNormalize(t *testing.T) {
	e := WatchEntry{Symbol: " 2330.TW ", TargetPrice: 600}.Normalize()

	assert.Equal(t, "2330.TW", e.Symbol)
	assert.Equal(t, ConditionAtOrAbove, e.Condition)
	assert.Equal(t, "Uncategorized", e.Category)
}

func TestWatchEntryValidate(t *testing.T) {
	valid := WatchEntry{Symbol: "AAPL", TargetPrice: 150, Condition: ConditionAtOrBelow}
	assert.NoError(t, valid.Validate())

	cases := map[string]WatchEntry{
		"empty symbol":      {Symbol: "", TargetPrice: 1, Condition: ConditionAtOrAbove},
		"spaces in symbol":  {Symbol: "TSMC CO", TargetPrice: 1, Condition: ConditionAtOrAbove},
		"NaN target":        {Symbol: "AAPL", TargetPrice: math.NaN(), Condition: ConditionAtOrAbove},
		"infinite target":   {Symbol: "AAPL", TargetPrice: math.Inf(1), Condition: ConditionAtOrAbove},
		"unknown condition": {Symbol: "AAPL", TargetPrice: 1, Condition: "=="},
	}
	for name, e := range cases {
		assert.ErrorIs(t, e.Validate(), ErrInvalidInput, name)
	}
}

func TestWatchlistIndexOfAndClone(t *testing.T) {
	wl := Watchlist{{Symbol: "A"}, {Symbol: "B"}}

	assert.Equal(t, 1, wl.IndexOf("B"))
	assert.Equal(t, -1, wl.IndexOf("b"))

	clone := wl.Clone()
	clone[0].Symbol = "Z"
	assert.Equal(t, "A", wl[0].Symbol)
}

func TestParseDirection(t *testing.T) {
	up, err := ParseDirection("UP")
	require.NoError(t, err)
	assert.Equal(t, DirectionUp, up)
	assert.Equal(t, "up", up.String())

	down, err := ParseDirection("down")
	require.NoError(t, err)
	assert.Equal(t, DirectionDown, down)

	_, err = ParseDirection("left")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
