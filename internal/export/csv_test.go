package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickgao/betfair-soap/internal/model"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestPriceRows(t *testing.T) {
	prices := &model.MarketPrices{
		MarketID: 101,
		Selections: []model.SelectionPrices{
			{
				SelectionID: 7,
				BackPrices: []model.PricePoint{
					{Price: d("2.5"), BackAmount: d("10")},
					{Price: d("2.4"), BackAmount: d("20.5")},
				},
				LayPrices: []model.PricePoint{{Price: d("2.6"), LayAmount: d("3")}},
			},
			{SelectionID: 8},
		},
	}

	rows := PriceRows(prices)
	require.Len(t, rows, 3)
	assert.Equal(t, LadderRow{MarketID: 101, SelectionID: 7, Ladder: "back", Depth: 2, Price: "2.4", BackAmount: "20.5", LayAmount: "0"}, rows[1])
	assert.Equal(t, "lay", rows[2].Ladder)
	assert.Equal(t, 1, rows[2].Depth)
}

func TestVolumeRows(t *testing.T) {
	volume := &model.MarketVolume{
		Selections: []model.SelectionVolume{
			{SelectionID: 7, ActualBSP: d("3.1"), TradedAmounts: []model.TradedAmount{
				{Odds: d("3"), Size: d("12.5")},
				{Odds: d("3.05"), Size: d("4")},
			}},
			{SelectionID: 8},
		},
	}

	rows := VolumeRows(volume)
	require.Len(t, rows, 3)
	assert.Equal(t, "3.05", rows[1].Odds)
	assert.Equal(t, VolumeRow{SelectionID: 8, ActualBSP: "0"}, rows[2])
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	rows := []LadderRow{{MarketID: 101, SelectionID: 7, Ladder: "back", Depth: 1, Price: "2.5", BackAmount: "10", LayAmount: "0"}}
	require.NoError(t, WriteCSV(&buf, rows))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "market_id,selection_id,ladder,depth,price,back_amount,lay_amount", lines[0])
	assert.Equal(t, "101,7,back,1,2.5,10,0", lines[1])
}
