package compressed

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	chunkSep   = ':'
	segmentSep = "|"
	fieldSep   = '~'
)

// splitEscaped splits s on sep, treating a backslash followed by sep as a
// literal sep. Other backslashes are kept.
func splitEscaped(s string, sep byte) []string {
	if strings.IndexByte(s, '\\') < 0 {
		return strings.Split(s, string(sep))
	}

	var (
		out []string
		cur strings.Builder
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s) && s[i+1] == sep:
			cur.WriteByte(sep)
			i++
		case c == sep:
			out = append(out, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	return append(out, cur.String())
}

// fieldParser converts positional text fields, remembering the first failure.
type fieldParser struct {
	format    string
	selection int
	fields    []string
	err       *WireFormatError
}

func (p *fieldParser) fail(i int, reason string) {
	if p.err == nil {
		p.err = &WireFormatError{Format: p.format, Selection: p.selection, Field: i, Reason: reason}
	}
}

func (p *fieldParser) integer64(i int, required bool) int64 {
	s := p.fields[i]
	if s == "" {
		if required {
			p.fail(i, "missing integer")
		}
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		p.fail(i, strconv.Quote(s)+" is not an integer")
	}
	return n
}

func (p *fieldParser) integer(i int, required bool) int {
	return int(p.integer64(i, required))
}

func (p *fieldParser) number(i int, required bool) decimal.Decimal {
	s := p.fields[i]
	if s == "" {
		if required {
			p.fail(i, "missing number")
		}
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		p.fail(i, strconv.Quote(s)+" is not a number")
	}
	return d
}

func (p *fieldParser) flag(i int) bool {
	switch s := p.fields[i]; s {
	case "", "false", "0":
		return false
	case "true", "1":
		return true
	default:
		p.fail(i, strconv.Quote(s)+" is not a boolean")
		return false
	}
}
