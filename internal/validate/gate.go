package validate

import (
	"errors"
	"fmt"
	"sort"
)

// ErrValidation matches every error returned by Validate.
var ErrValidation = errors.New("validation failed")

// Kind classifies a validation failure.
type Kind int

const (
	KindUnexpected Kind = iota + 1 // key not declared by the schema
	KindTypeCheck                  // value failed its type rule
	KindMissing                    // required key absent
)

func (k Kind) String() string {
	switch k {
	case KindUnexpected:
		return "unexpected"
	case KindTypeCheck:
		return "type_check"
	case KindMissing:
		return "missing"
	default:
		return "unknown"
	}
}

// ValidationError reports the first argument that failed the gate.
type ValidationError struct {
	Kind  Kind
	Param string // dotted path for nested records, e.g. "bets[0].price"
	Type  Tag    // set for KindTypeCheck
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case KindUnexpected:
		return fmt.Sprintf("unexpected parameter `%s`", e.Param)
	case KindTypeCheck:
		return fmt.Sprintf("parameter `%s` failed type check for `%s`", e.Param, e.Type)
	case KindMissing:
		return fmt.Sprintf("missing mandatory parameter `%s`", e.Param)
	default:
		return fmt.Sprintf("invalid parameter `%s`", e.Param)
	}
}

// Is lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Validate gates args against schema.
//
// Phase one walks every supplied key in sorted order, nested records included,
// rejecting keys the schema does not declare and values failing their type rule.
// Phase two runs only when phase one passed over the whole argument tree and
// rejects missing required keys. The first failure aborts.
func Validate(schema Schema, args Args) error {
	if err := checkPresent(schema, args, ""); err != nil {
		return err
	}
	return checkRequired(schema, args, "")
}

func checkPresent(schema Schema, args Args, prefix string) error {
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		name := prefix + k
		p, ok := schema.Lookup(k)
		if !ok {
			return &ValidationError{Kind: KindUnexpected, Param: name}
		}

		if p.Type == TagRecords {
			records, ok := AsRecords(args[k])
			if !ok || len(records) == 0 {
				return &ValidationError{Kind: KindTypeCheck, Param: name, Type: p.Type}
			}
			for i, r := range records {
				if err := checkPresent(p.Elem, r, recordPrefix(name, i)); err != nil {
					return err
				}
			}
			continue
		}

		if !Check(p.Type, args[k]) {
			return &ValidationError{Kind: KindTypeCheck, Param: name, Type: p.Type}
		}
	}
	return nil
}

// checkRequired reports the first missing required key, this level before the
// records nested in it. args must already have passed checkPresent.
func checkRequired(schema Schema, args Args, prefix string) error {
	for _, p := range schema {
		if _, ok := args[p.Name]; !ok && p.Required {
			return &ValidationError{Kind: KindMissing, Param: prefix + p.Name}
		}
	}

	for _, p := range schema {
		if p.Type != TagRecords {
			continue
		}
		records, _ := AsRecords(args[p.Name])
		for i, r := range records {
			if err := checkRequired(p.Elem, r, recordPrefix(prefix+p.Name, i)); err != nil {
				return err
			}
		}
	}
	return nil
}

func recordPrefix(name string, i int) string {
	return fmt.Sprintf("%s[%d].", name, i)
}
