package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// -----------------------------------------------------------------------------
// Market Prices
// -----------------------------------------------------------------------------

// PricePoint is one price level of the complete compressed price ladder.
// An amount of zero means the price is not offered on that side.
type PricePoint struct {
	Price         decimal.Decimal `json:"price"`
	BackAmount    decimal.Decimal `json:"backAmount"`
	LayAmount     decimal.Decimal `json:"layAmount"`
	BSPBackAmount decimal.Decimal `json:"bspBackAmount"`
	BSPLayAmount  decimal.Decimal `json:"bspLayAmount"`
}

// SelectionPrices is the decoded price ladder of a single selection (runner).
// Each ladder is ordered by descending price.
type SelectionPrices struct {
	SelectionID      int64           `json:"selectionId"`
	OrderIndex       int             `json:"orderIndex"`
	TotalMatched     decimal.Decimal `json:"totalMatched"`
	LastPriceMatched decimal.Decimal `json:"lastPriceMatched"`
	AsianHandicap    decimal.Decimal `json:"asianHandicap"`
	ReductionFactor  decimal.Decimal `json:"reductionFactor"`
	Vacant           bool            `json:"vacant"`
	AsianLineID      int64           `json:"asianLineId"` // 0 for the legacy wire variant
	FarPriceSP       decimal.Decimal `json:"farPriceSp"`
	NearPriceSP      decimal.Decimal `json:"nearPriceSp"`
	ActualPriceSP    decimal.Decimal `json:"actualPriceSp"`

	BackPrices    []PricePoint `json:"backPrices"`
	LayPrices     []PricePoint `json:"layPrices"`
	BSPBackPrices []PricePoint `json:"bspBackPrices"`
	BSPLayPrices  []PricePoint `json:"bspLayPrices"`
}

// MarketPrices is a decoded compressed market prices payload.
type MarketPrices struct {
	MarketID       int64             `json:"marketId"`
	InPlayDelay    int               `json:"inPlayDelay"`
	RemovedRunners string            `json:"removedRunners,omitempty"` // raw, unescaped
	Header         string            `json:"header,omitempty"`         // legacy layout: fields after the market id, raw
	Selections     []SelectionPrices `json:"selections"`
}

// -----------------------------------------------------------------------------
// Traded Volume
// -----------------------------------------------------------------------------

// TradedAmount is the amount matched at a single price.
type TradedAmount struct {
	Odds decimal.Decimal `json:"odds"`
	Size decimal.Decimal `json:"size"`
}

// SelectionVolume is the traded volume of one selection, amounts in wire order.
type SelectionVolume struct {
	SelectionID              int64           `json:"selectionId"`
	AsianLineID              int64           `json:"asianLineId"`
	ActualBSP                decimal.Decimal `json:"actualBsp"`
	TotalBSPBackMatched      decimal.Decimal `json:"totalBspBackMatched"`
	TotalBSPLiabilityMatched decimal.Decimal `json:"totalBspLiabilityMatched"`
	TradedAmounts            []TradedAmount  `json:"tradedAmounts"`
}

// MarketVolume is a decoded compressed traded volume payload.
type MarketVolume struct {
	Header     string            `json:"header,omitempty"` // market / removed runner metadata, raw
	Selections []SelectionVolume `json:"selections"`
}

// MarketSnapshot pairs the prices and traded volume of one market fetched in one poll.
type MarketSnapshot struct {
	ID         uuid.UUID     // Primary key
	MarketID   int64         // Exchange market id
	ExchangeID int           // 1 = UK, 2 = Australia
	FetchedAt  int64         // Recorder fetch timestamp (µs since epoch)
	Prices     *MarketPrices // nil if the price fetch failed
	Volume     *MarketVolume // nil if the volume fetch failed
}

// -----------------------------------------------------------------------------
// Account and Betting
// -----------------------------------------------------------------------------

// EventType is a top level sport/category.
type EventType struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	NextMarketID int64  `json:"nextMarketId"`
	ExchangeID   int    `json:"exchangeId"`
}

// AccountFunds is the wallet summary returned by getAccountFunds.
type AccountFunds struct {
	AvailBalance         decimal.Decimal `json:"availBalance"`
	Balance              decimal.Decimal `json:"balance"`
	CommissionRetain     decimal.Decimal `json:"commissionRetain"`
	CreditLimit          decimal.Decimal `json:"creditLimit"`
	CurrentBetfairPoints int64           `json:"currentBetfairPoints"`
	Exposure             decimal.Decimal `json:"exposure"`
	ExposureLimit        decimal.Decimal `json:"exposureLimit"`
	Withdrawable         decimal.Decimal `json:"withdrawable"`
}

// BetResult is the outcome of a single bet in a placeBets call.
type BetResult struct {
	BetID               int64           `json:"betId"`
	AveragePriceMatched decimal.Decimal `json:"averagePriceMatched"`
	SizeMatched         decimal.Decimal `json:"sizeMatched"`
	ResultCode          string          `json:"resultCode"`
	Success             bool            `json:"success"`
}

// CancelResult is the outcome of a single bet in a cancelBets call.
type CancelResult struct {
	BetID         int64           `json:"betId"`
	SizeCancelled decimal.Decimal `json:"sizeCancelled"`
	SizeMatched   decimal.Decimal `json:"sizeMatched"`
	ResultCode    string          `json:"resultCode"`
	Success       bool            `json:"success"`
}

// Selection returns the selection with the given id.
func (m *MarketPrices) Selection(id int64) (SelectionPrices, bool) {
	for _, s := range m.Selections {
		if s.SelectionID == id {
			return s, true
		}
	}
	return SelectionPrices{}, false
}

// BestBack returns the highest price available to back.
// Ladders are ordered by descending price, so it is the first back entry.
func (s *SelectionPrices) BestBack() (PricePoint, bool) {
	if len(s.BackPrices) == 0 {
		return PricePoint{}, false
	}
	return s.BackPrices[0], true
}

// BestLay returns the lowest price available to lay (last lay entry).
func (s *SelectionPrices) BestLay() (PricePoint, bool) {
	if len(s.LayPrices) == 0 {
		return PricePoint{}, false
	}
	return s.LayPrices[len(s.LayPrices)-1], true
}

// TotalTraded sums the traded sizes of a selection.
func (v *SelectionVolume) TotalTraded() decimal.Decimal {
	total := decimal.Zero
	for _, a := range v.TradedAmounts {
		total = total.Add(a.Size)
	}
	return total
}
