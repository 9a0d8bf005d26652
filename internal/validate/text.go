package validate

import (
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire layout of date parameters.
const DateLayout = "2006-01-02T15:04:05Z07:00"

// Text renders a scalar argument to its wire text. It reports false for nil
// (including typed nil pointers), slices, maps and other non-scalar values.
func Text(value any) (string, bool) {
	if rv := reflect.ValueOf(value); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return "", false
	}

	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case int:
		return strconv.Itoa(v), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint:
		return strconv.FormatUint(uint64(v), 10), true
	case uint32:
		return strconv.FormatUint(uint64(v), 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case decimal.Decimal:
		return v.String(), true
	case time.Time:
		return v.Format(DateLayout), true
	case fmt.Stringer:
		return v.String(), true
	default:
		return "", false
	}
}

// Ints renders an integer list argument element by element. It reports false if
// the value is not a slice of scalars.
func Ints(value any) ([]string, bool) {
	var out []string
	switch v := value.(type) {
	case []string:
		out = append(out, v...)
	case []int:
		for _, n := range v {
			out = append(out, strconv.Itoa(n))
		}
	case []int64:
		for _, n := range v {
			out = append(out, strconv.FormatInt(n, 10))
		}
	case []any:
		for _, e := range v {
			s, ok := Text(e)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
	default:
		return nil, false
	}
	return out, true
}
