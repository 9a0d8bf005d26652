package compressed

import (
	"errors"
	"fmt"
)

// ErrMalformedWireFormat matches every *WireFormatError.
var ErrMalformedWireFormat = errors.New("malformed wire format")

// WireFormatError reports a payload that violates its positional contract.
type WireFormatError struct {
	Format    string // "marketPrices" or "tradedVolume"
	Selection int    // 1-based chunk index, 0 for the market header
	Field     int    // 0-based field index within the segment, -1 if not field specific
	Reason    string
}

func (e *WireFormatError) Error() string {
	where := "header"
	if e.Selection > 0 {
		where = fmt.Sprintf("selection %d", e.Selection)
	}
	if e.Field >= 0 {
		return fmt.Sprintf("malformed %s: %s field %d: %s", e.Format, where, e.Field, e.Reason)
	}
	return fmt.Sprintf("malformed %s: %s: %s", e.Format, where, e.Reason)
}

// Is lets errors.Is(err, ErrMalformedWireFormat) match.
func (e *WireFormatError) Is(target error) bool {
	return target == ErrMalformedWireFormat
}
