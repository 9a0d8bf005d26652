package validate

// Param declares one parameter of an operation.
type Param struct {
	Name     string
	Type     Tag
	Required bool

	// Elem is the schema of each record when Type is TagRecords; Item is the
	// element name wrapping each record on the wire.
	Elem Schema
	Item string
}

// Schema is the ordered parameter list of an operation. The order is the element
// order of the request body.
type Schema []Param

// Args is a caller-supplied argument set: parameter name to raw value.
// Values are scalars, integer lists, or []Args for record parameters.
type Args map[string]any

// Lookup returns the parameter with the given name.
func (s Schema) Lookup(name string) (Param, bool) {
	for _, p := range s {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// Required returns the names of all mandatory parameters in schema order.
func (s Schema) Required() []string {
	var out []string
	for _, p := range s {
		if p.Required {
			out = append(out, p.Name)
		}
	}
	return out
}

// Req declares a mandatory parameter.
func Req(name string, t Tag) Param {
	return Param{Name: name, Type: t, Required: true}
}

// Opt declares an optional parameter.
func Opt(name string, t Tag) Param {
	return Param{Name: name, Type: t}
}

// Records declares a mandatory list of records gated against elem, each record
// wrapped in an item element.
func Records(name, item string, elem Schema) Param {
	return Param{Name: name, Type: TagRecords, Required: true, Elem: elem, Item: item}
}

// AsRecords converts a record-list argument to []Args.
func AsRecords(value any) ([]Args, bool) {
	switch v := value.(type) {
	case []Args:
		return v, true
	case []map[string]any:
		out := make([]Args, len(v))
		for i, m := range v {
			out[i] = m
		}
		return out, true
	case []any:
		out := make([]Args, 0, len(v))
		for _, e := range v {
			switch m := e.(type) {
			case Args:
				out = append(out, m)
			case map[string]any:
				out = append(out, m)
			default:
				return nil, false
			}
		}
		return out, true
	default:
		return nil, false
	}
}
