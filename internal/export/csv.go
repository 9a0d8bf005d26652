// Package export flattens decoded market payloads into CSV rows.
package export

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/rickgao/betfair-soap/internal/model"
)

// LadderRow is one price level of one selection.
type LadderRow struct {
	MarketID    int64  `csv:"market_id"`
	SelectionID int64  `csv:"selection_id"`
	Ladder      string `csv:"ladder"` // back, lay, bsp_back, bsp_lay
	Depth       int    `csv:"depth"`
	Price       string `csv:"price"`
	BackAmount  string `csv:"back_amount"`
	LayAmount   string `csv:"lay_amount"`
}

// VolumeRow is one traded price level of one selection.
type VolumeRow struct {
	SelectionID int64  `csv:"selection_id"`
	AsianLineID int64  `csv:"asian_line_id"`
	ActualBSP   string `csv:"actual_bsp"`
	Odds        string `csv:"odds"`
	Size        string `csv:"size"`
}

// PriceRows flattens every ladder of every selection in wire order.
func PriceRows(p *model.MarketPrices) []LadderRow {
	var rows []LadderRow
	for _, s := range p.Selections {
		ladders := []struct {
			name   string
			points []model.PricePoint
		}{
			{"back", s.BackPrices},
			{"lay", s.LayPrices},
			{"bsp_back", s.BSPBackPrices},
			{"bsp_lay", s.BSPLayPrices},
		}
		for _, l := range ladders {
			for i, pt := range l.points {
				rows = append(rows, LadderRow{
					MarketID:    p.MarketID,
					SelectionID: s.SelectionID,
					Ladder:      l.name,
					Depth:       i + 1,
					Price:       pt.Price.String(),
					BackAmount:  pt.BackAmount.String(),
					LayAmount:   pt.LayAmount.String(),
				})
			}
		}
	}
	return rows
}

// VolumeRows flattens traded amounts. A selection with no trades yields one row
// with empty odds and size.
func VolumeRows(v *model.MarketVolume) []VolumeRow {
	var rows []VolumeRow
	for _, s := range v.Selections {
		base := VolumeRow{
			SelectionID: s.SelectionID,
			AsianLineID: s.AsianLineID,
			ActualBSP:   s.ActualBSP.String(),
		}
		if len(s.TradedAmounts) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, t := range s.TradedAmounts {
			row := base
			row.Odds = t.Odds.String()
			row.Size = t.Size.String()
			rows = append(rows, row)
		}
	}
	return rows
}

// WriteCSV writes rows (a slice of LadderRow or VolumeRow) with a header line.
func WriteCSV(w io.Writer, rows any) error {
	data, err := gocsv.MarshalBytes(rows)
	if err != nil {
		return fmt.Errorf("marshal csv: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
