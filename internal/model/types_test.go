package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// TestModelTypes validates that model types can be instantiated correctly.
func TestModelTypes(t *testing.T) {
	t.Run("MarketSnapshot", func(t *testing.T) {
		id := uuid.New()
		s := MarketSnapshot{
			ID:         id,
			MarketID:   1234567,
			ExchangeID: 1,
			FetchedAt:  1705321845000000,
		}

		if s.ID != id {
			t.Errorf("ID = %v, want %v", s.ID, id)
		}
		if s.Prices != nil || s.Volume != nil {
			t.Error("Prices and Volume should default to nil")
		}
	})

	t.Run("PricePoint zero amounts", func(t *testing.T) {
		p := PricePoint{Price: d("2.5")}
		if !p.BackAmount.IsZero() || !p.BSPLayAmount.IsZero() {
			t.Error("zero value amounts should be zero")
		}
	})
}

func TestMarketPrices_Selection(t *testing.T) {
	m := MarketPrices{
		MarketID: 100,
		Selections: []SelectionPrices{
			{SelectionID: 1, OrderIndex: 0},
			{SelectionID: 2, OrderIndex: 1},
		},
	}

	s, ok := m.Selection(2)
	if !ok {
		t.Fatal("Selection(2) not found")
	}
	if s.OrderIndex != 1 {
		t.Errorf("OrderIndex = %d, want 1", s.OrderIndex)
	}

	if _, ok := m.Selection(3); ok {
		t.Error("Selection(3) should not be found")
	}
}

func TestSelectionPrices_BestBackLay(t *testing.T) {
	s := SelectionPrices{
		BackPrices: []PricePoint{
			{Price: d("3.0"), BackAmount: d("10")},
			{Price: d("2.9"), BackAmount: d("25")},
		},
		LayPrices: []PricePoint{
			{Price: d("3.2"), LayAmount: d("5")},
			{Price: d("3.1"), LayAmount: d("7")},
		},
	}

	back, ok := s.BestBack()
	if !ok || !back.Price.Equal(d("3.0")) {
		t.Errorf("BestBack() = %v, %v, want 3.0", back.Price, ok)
	}
	lay, ok := s.BestLay()
	if !ok || !lay.Price.Equal(d("3.1")) {
		t.Errorf("BestLay() = %v, %v, want 3.1", lay.Price, ok)
	}

	var empty SelectionPrices
	if _, ok := empty.BestBack(); ok {
		t.Error("BestBack() on empty ladder should report false")
	}
	if _, ok := empty.BestLay(); ok {
		t.Error("BestLay() on empty ladder should report false")
	}
}

func TestSelectionVolume_TotalTraded(t *testing.T) {
	v := SelectionVolume{
		TradedAmounts: []TradedAmount{
			{Odds: d("2.0"), Size: d("10.50")},
			{Odds: d("2.02"), Size: d("4.25")},
		},
	}

	if got := v.TotalTraded(); !got.Equal(d("14.75")) {
		t.Errorf("TotalTraded() = %s, want 14.75", got)
	}
}
