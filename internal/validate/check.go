package validate

import (
	"regexp"
	"unicode/utf8"
)

var (
	intRe      = regexp.MustCompile(`^-?\d+$`)
	decimalRe  = regexp.MustCompile(`^-?(\d+(\.\d*)?|\.\d+)$`)
	dateRe     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}`)
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9]{8,20}$`)
	cardDateRe = regexp.MustCompile(`^\d{4}$`)
	cv2Re      = regexp.MustCompile(`^\d{3}$`)
)

// exchangeIDs are the exchanges reachable through the exchange service: 1 = UK, 2 = Australia.
var exchangeIDs = newSet("1", "2")

type rule func(value any) bool

// structural maps each non-enum tag to its rule.
var structural = map[Tag]rule{
	TagInt:      textRule(intRe.MatchString),
	TagDecimal:  textRule(decimalRe.MatchString),
	TagDate:     textRule(dateRe.MatchString),
	TagBoolean:  textRule(func(s string) bool { return s == "true" || s == "false" }),
	TagString:   textRule(func(s string) bool { return s != "" }),
	TagString9:  textRule(func(s string) bool { n := utf8.RuneCountInString(s); return n > 0 && n < 10 }),
	TagUsername: textRule(usernameRe.MatchString),
	TagPassword: textRule(func(s string) bool { n := utf8.RuneCountInString(s); return n >= 8 && n <= 20 }),
	TagCardDate: textRule(cardDateRe.MatchString),
	TagCV2:      textRule(cv2Re.MatchString),
	TagArrayInt: checkArrayInt,
	TagExchangeID: textRule(func(s string) bool {
		_, ok := exchangeIDs[s]
		return ok
	}),
}

func textRule(match func(string) bool) rule {
	return func(value any) bool {
		s, ok := Text(value)
		return ok && match(s)
	}
}

func checkArrayInt(value any) bool {
	items, ok := Ints(value)
	if !ok || len(items) == 0 {
		return false
	}
	for _, s := range items {
		if !intRe.MatchString(s) {
			return false
		}
	}
	return true
}

// Check reports whether value is a valid instance of the tagged type.
// Unknown tags and nil values are never valid.
func Check(t Tag, value any) bool {
	if value == nil {
		return false
	}
	if r, ok := structural[t]; ok {
		return r(value)
	}
	if _, ok := enums[t]; ok {
		s, ok := Text(value)
		return ok && inEnum(t, s)
	}
	return false
}
