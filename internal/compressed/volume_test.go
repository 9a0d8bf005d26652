package compressed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTradedVolume(t *testing.T) {
	wire := "100~Removed,1.0;:" +
		"111~0~2.52~150.0~75.5|2.5~10.0|2.4~20.5|2.6~1.0:" +
		"222~3~0~0~0"

	got, err := DecodeTradedVolume(wire)
	require.NoError(t, err)

	assert.Equal(t, "100~Removed,1.0;", got.Header)
	require.Len(t, got.Selections, 2)

	first := got.Selections[0]
	assert.Equal(t, int64(111), first.SelectionID)
	assert.Equal(t, int64(0), first.AsianLineID)
	assert.True(t, first.ActualBSP.Equal(dec("2.52")))
	assert.True(t, first.TotalBSPBackMatched.Equal(dec("150")))
	assert.True(t, first.TotalBSPLiabilityMatched.Equal(dec("75.5")))

	// Wire order, not sorted.
	require.Len(t, first.TradedAmounts, 3)
	assert.True(t, first.TradedAmounts[0].Odds.Equal(dec("2.5")))
	assert.True(t, first.TradedAmounts[1].Odds.Equal(dec("2.4")))
	assert.True(t, first.TradedAmounts[2].Odds.Equal(dec("2.6")))
	assert.True(t, first.TradedAmounts[1].Size.Equal(dec("20.5")))

	second := got.Selections[1]
	assert.Equal(t, int64(222), second.SelectionID)
	assert.Equal(t, int64(3), second.AsianLineID)
	assert.Empty(t, second.TradedAmounts)
}

func TestDecodeTradedVolume_SkipsEmptySelection(t *testing.T) {
	wire := ":~0~0~0~0|2.0~5.0:333~0~0~0~0|1.5~2.0::"

	got, err := DecodeTradedVolume(wire)
	require.NoError(t, err)

	assert.Equal(t, "", got.Header)
	require.Len(t, got.Selections, 1)
	assert.Equal(t, int64(333), got.Selections[0].SelectionID)
	require.Len(t, got.Selections[0].TradedAmounts, 1)
}

func TestDecodeTradedVolume_Empty(t *testing.T) {
	got, err := DecodeTradedVolume("")
	require.NoError(t, err)
	assert.Empty(t, got.Selections)
}

func TestDecodeTradedVolume_Malformed(t *testing.T) {
	tests := []struct {
		name string
		wire string
	}{
		{"too few runner fields", "1:111~0~0~0"},
		{"too many runner fields", "1:111~0~0~0~0~0"},
		{"non-numeric selection id", "1:abc~0~0~0~0"},
		{"non-numeric bsp", "1:111~0~x~0~0"},
		{"pair with one field", "1:111~0~0~0~0|2.5"},
		{"pair with three fields", "1:111~0~0~0~0|2.5~1~3"},
		{"non-numeric odds", "1:111~0~0~0~0|two~1"},
		{"empty size", "1:111~0~0~0~0|2.0~"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeTradedVolume(tt.wire)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.ErrorIs(t, err, ErrMalformedWireFormat)
		})
	}
}

func TestDecodeTradedVolume_Idempotent(t *testing.T) {
	wire := "1:111~0~2.52~150.0~75.5|2.5~10.0|2.4~20.5"

	first, err := DecodeTradedVolume(wire)
	require.NoError(t, err)
	second, err := DecodeTradedVolume(wire)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSplitEscaped(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitEscaped("a:b", ':'))
	assert.Equal(t, []string{"a:b", "c"}, splitEscaped(`a\:b:c`, ':'))
	assert.Equal(t, []string{`a\b`, "c"}, splitEscaped(`a\b:c`, ':'))
	assert.Equal(t, []string{""}, splitEscaped("", ':'))
	assert.Equal(t, []string{"x:", ""}, splitEscaped(`x\::`, ':'))
}
