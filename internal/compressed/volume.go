package compressed

import (
	"fmt"
	"strings"

	"github.com/rickgao/betfair-soap/internal/model"
)

const (
	volumeFormat       = "tradedVolume"
	volumeRunnerFields = 5
)

// DecodeTradedVolume decodes a compressed traded volume payload.
//
// The header chunk is kept raw. A selection chunk whose selectionId field is empty
// carries no data and is skipped. Traded amounts keep wire order.
func DecodeTradedVolume(wire string) (*model.MarketVolume, error) {
	chunks := splitEscaped(wire, chunkSep)

	out := &model.MarketVolume{
		Header:     chunks[0],
		Selections: make([]model.SelectionVolume, 0, len(chunks)-1),
	}

	for i, chunk := range chunks[1:] {
		sel, ok, err := decodeSelectionVolume(chunk, i+1)
		if err != nil {
			return nil, err
		}
		if ok {
			out.Selections = append(out.Selections, sel)
		}
	}

	return out, nil
}

func decodeSelectionVolume(chunk string, index int) (model.SelectionVolume, bool, error) {
	segments := strings.Split(chunk, segmentSep)

	meta := strings.Split(segments[0], string(fieldSep))
	if meta[0] == "" {
		return model.SelectionVolume{}, false, nil
	}
	if len(meta) != volumeRunnerFields {
		return model.SelectionVolume{}, false, &WireFormatError{
			Format: volumeFormat, Selection: index, Field: -1,
			Reason: fmt.Sprintf("expected %d runner fields, got %d", volumeRunnerFields, len(meta)),
		}
	}

	p := fieldParser{format: volumeFormat, selection: index, fields: meta}
	sel := model.SelectionVolume{
		SelectionID:              p.integer64(0, true),
		AsianLineID:              p.integer64(1, false),
		ActualBSP:                p.number(2, false),
		TotalBSPBackMatched:      p.number(3, false),
		TotalBSPLiabilityMatched: p.number(4, false),
	}
	if p.err != nil {
		return model.SelectionVolume{}, false, p.err
	}

	if len(segments) > 1 {
		sel.TradedAmounts = make([]model.TradedAmount, 0, len(segments)-1)
	}
	for _, seg := range segments[1:] {
		pair := strings.Split(seg, string(fieldSep))
		if len(pair) != 2 {
			return model.SelectionVolume{}, false, &WireFormatError{
				Format: volumeFormat, Selection: index, Field: -1,
				Reason: fmt.Sprintf("traded amount %q is not an odds~size pair", seg),
			}
		}

		pp := fieldParser{format: volumeFormat, selection: index, fields: pair}
		amount := model.TradedAmount{
			Odds: pp.number(0, true),
			Size: pp.number(1, true),
		}
		if pp.err != nil {
			pp.err.Reason = "traded amount: " + pp.err.Reason
			return model.SelectionVolume{}, false, pp.err
		}
		sel.TradedAmounts = append(sel.TradedAmounts, amount)
	}

	return sel, true, nil
}
