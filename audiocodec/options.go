package audiocodec

// Options is a string-keyed map of scalar configuration values, read once
// at codec construction. Later updates go through Codec.SetOption. The
// typed accessors tolerate the scalar kinds a configuration layer
// typically produces (bool, the common integer widths, floats, strings)
// and fall back to the given default for absent keys or foreign types.
type Options map[string]interface{}

// Has reports whether a key is present.
func (o Options) Has(key string) bool {
	_, ok := o[key]
	return ok
}

// Int returns the value of key as an int.
func (o Options) Int(key string, def int) int {
	v, ok := o[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case uint:
		return int(n)
	case float32:
		return int(n)
	case float64:
		return int(n)
	case bool:
		if n {
			return 1
		}
		return 0
	}
	return def
}

// Float returns the value of key as a float64.
func (o Options) Float(key string, def float64) float64 {
	v, ok := o[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	}
	return def
}

// Bool returns the value of key as a bool. Numeric values follow the
// usual zero/non-zero convention.
func (o Options) Bool(key string, def bool) bool {
	v, ok := o[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case bool:
		return n
	case int:
		return n != 0
	case int32:
		return n != 0
	case int64:
		return n != 0
	case float64:
		return n != 0
	}
	return def
}

// String returns the value of key as a string.
func (o Options) String(key string, def string) string {
	if v, ok := o[key].(string); ok {
		return v
	}
	return def
}
