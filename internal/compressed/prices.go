package compressed

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rickgao/betfair-soap/internal/model"
)

// Variant selects the runner metadata layout of a compressed prices payload.
type Variant int

const (
	// VariantComplete is the getCompleteMarketPricesCompressed layout: 11 runner
	// fields including asianLineId. The header is marketId[~inPlayDelay[~removedRunners]].
	VariantComplete Variant = iota

	// VariantLegacy is the older 10-field layout without asianLineId, as returned
	// by getMarketPricesCompressed on the legacy endpoints. The header is a tuple
	// whose first field is the market id; the rest is kept raw.
	VariantLegacy
)

func (v Variant) String() string {
	switch v {
	case VariantComplete:
		return "complete"
	case VariantLegacy:
		return "legacy"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

// RunnerFields returns the number of metadata fields per selection.
func (v Variant) RunnerFields() int {
	if v == VariantLegacy {
		return 10
	}
	return 11
}

// tupleSize is the number of fields per price point:
// price, backAmount, layAmount, bspBackAmount, bspLayAmount.
const tupleSize = 5

const pricesFormat = "marketPrices"

// DecodeMarketPrices decodes a compressed market prices payload.
//
// Each price point is placed in every ladder whose amount is non-zero, and every
// ladder is stable-sorted by descending price. Selections keep wire order.
// Segments after a selection's price segment are ignored.
func DecodeMarketPrices(wire string, v Variant) (*model.MarketPrices, error) {
	if v != VariantComplete && v != VariantLegacy {
		return nil, fmt.Errorf("decode market prices: unknown variant %s", v)
	}
	if wire == "" {
		return nil, &WireFormatError{Format: pricesFormat, Field: -1, Reason: "empty payload"}
	}

	chunks := splitEscaped(wire, chunkSep)

	out, err := decodePricesHeader(chunks[0], v)
	if err != nil {
		return nil, err
	}

	out.Selections = make([]model.SelectionPrices, 0, len(chunks)-1)
	for i, chunk := range chunks[1:] {
		if chunk == "" {
			// trailing or doubled separator
			continue
		}
		sel, err := decodeSelectionPrices(chunk, i+1, v)
		if err != nil {
			return nil, err
		}
		out.Selections = append(out.Selections, sel)
	}

	return out, nil
}

func decodePricesHeader(chunk string, v Variant) (*model.MarketPrices, error) {
	fields := splitEscaped(chunk, fieldSep)

	if v == VariantLegacy {
		p := fieldParser{format: pricesFormat, fields: fields}
		out := &model.MarketPrices{
			MarketID: p.integer64(0, true),
			Header:   strings.Join(fields[1:], string(fieldSep)),
		}
		if p.err != nil {
			return nil, p.err
		}
		return out, nil
	}

	if len(fields) < 3 {
		fields = append(fields, make([]string, 3-len(fields))...)
	}

	p := fieldParser{format: pricesFormat, fields: fields}
	out := &model.MarketPrices{
		MarketID:       p.integer64(0, true),
		InPlayDelay:    p.integer(1, false),
		RemovedRunners: strings.Join(fields[2:], string(fieldSep)),
	}
	if p.err != nil {
		return nil, p.err
	}
	return out, nil
}

func decodeSelectionPrices(chunk string, index int, v Variant) (model.SelectionPrices, error) {
	segments := strings.Split(chunk, segmentSep)

	meta := splitEscaped(segments[0], fieldSep)
	if len(meta) != v.RunnerFields() {
		return model.SelectionPrices{}, &WireFormatError{
			Format: pricesFormat, Selection: index, Field: -1,
			Reason: fmt.Sprintf("expected %d %s runner fields, got %d", v.RunnerFields(), v, len(meta)),
		}
	}

	p := fieldParser{format: pricesFormat, selection: index, fields: meta}
	sel := model.SelectionPrices{
		SelectionID:      p.integer64(0, true),
		OrderIndex:       p.integer(1, false),
		TotalMatched:     p.number(2, false),
		LastPriceMatched: p.number(3, false),
		AsianHandicap:    p.number(4, false),
		ReductionFactor:  p.number(5, false),
		Vacant:           p.flag(6),
	}

	sp := 7
	if v == VariantComplete {
		sel.AsianLineID = p.integer64(7, false)
		sp = 8
	}
	sel.FarPriceSP = p.number(sp, false)
	sel.NearPriceSP = p.number(sp+1, false)
	sel.ActualPriceSP = p.number(sp+2, false)
	if p.err != nil {
		return model.SelectionPrices{}, p.err
	}

	if len(segments) < 2 || segments[1] == "" {
		return sel, nil
	}

	points, err := decodePricePoints(segments[1], index)
	if err != nil {
		return model.SelectionPrices{}, err
	}

	for _, pt := range points {
		if !pt.BackAmount.IsZero() {
			sel.BackPrices = append(sel.BackPrices, pt)
		}
		if !pt.LayAmount.IsZero() {
			sel.LayPrices = append(sel.LayPrices, pt)
		}
		if !pt.BSPBackAmount.IsZero() {
			sel.BSPBackPrices = append(sel.BSPBackPrices, pt)
		}
		if !pt.BSPLayAmount.IsZero() {
			sel.BSPLayPrices = append(sel.BSPLayPrices, pt)
		}
	}

	sortDescending(sel.BackPrices)
	sortDescending(sel.LayPrices)
	sortDescending(sel.BSPBackPrices)
	sortDescending(sel.BSPLayPrices)

	return sel, nil
}

func decodePricePoints(segment string, index int) ([]model.PricePoint, error) {
	tokens := strings.Split(segment, string(fieldSep))
	if len(tokens)%tupleSize != 0 {
		return nil, &WireFormatError{
			Format: pricesFormat, Selection: index, Field: -1,
			Reason: fmt.Sprintf("price segment has %d fields, not a multiple of %d", len(tokens), tupleSize),
		}
	}

	points := make([]model.PricePoint, 0, len(tokens)/tupleSize)
	p := fieldParser{format: pricesFormat, selection: index, fields: tokens}
	for i := 0; i < len(tokens); i += tupleSize {
		points = append(points, model.PricePoint{
			Price:         p.number(i, true),
			BackAmount:    p.number(i+1, true),
			LayAmount:     p.number(i+2, true),
			BSPBackAmount: p.number(i+3, true),
			BSPLayAmount:  p.number(i+4, true),
		})
	}
	if p.err != nil {
		p.err.Reason = "price segment: " + p.err.Reason
		return nil, p.err
	}
	return points, nil
}

func sortDescending(ladder []model.PricePoint) {
	slices.SortStableFunc(ladder, func(a, b model.PricePoint) int {
		return b.Price.Cmp(a.Price)
	})
}
