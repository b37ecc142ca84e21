package config

// Params wraps a map[string]any for type-safe value extraction from node
// parameter blocks. All accessor methods return default values if the key
// is missing or the value cannot be converted to the requested type.
type Params struct {
	data map[string]any
}

// NewParams creates a Params from the given map.
// If data is nil, an empty Params is returned.
func NewParams(data map[string]any) Params {
	if data == nil {
		data = make(map[string]any)
	}
	return Params{data: data}
}

// String returns the string value for key, or defaultVal if missing or not a string.
func (p Params) String(key, defaultVal string) string {
	v, ok := p.data[key]
	if !ok {
		return defaultVal
	}
	if s, ok := v.(string); ok {
		return s
	}
	return defaultVal
}

// Int returns the integer value for key, or defaultVal if missing or not convertible.
//
// Accepts:
//   - int: used directly
//   - int64: converted to int
//   - float64: converted to int (only if no fractional part)
func (p Params) Int(key string, defaultVal int) int {
	v, ok := p.data[key]
	if !ok {
		return defaultVal
	}
	switch val := v.(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		if val == float64(int(val)) {
			return int(val)
		}
	}
	return defaultVal
}

// Bool returns the boolean value for key, or defaultVal if missing or not a bool.
func (p Params) Bool(key string, defaultVal bool) bool {
	v, ok := p.data[key]
	if !ok {
		return defaultVal
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return defaultVal
}

// Float returns the float64 value for key, or defaultVal if missing or not convertible.
func (p Params) Float(key string, defaultVal float64) float64 {
	v, ok := p.data[key]
	if !ok {
		return defaultVal
	}
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case int64:
		return float64(val)
	}
	return defaultVal
}

// StringSlice returns the string slice for key, or defaultVal if missing or not convertible.
//
// Accepts:
//   - []string: used directly
//   - []any: each element converted to string if possible
func (p Params) StringSlice(key string, defaultVal []string) []string {
	v, ok := p.data[key]
	if !ok {
		return defaultVal
	}
	switch val := v.(type) {
	case []string:
		return val
	case []any:
		result := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return defaultVal
			}
			result = append(result, s)
		}
		return result
	}
	return defaultVal
}

// Any returns the raw value for key, or defaultVal if missing.
func (p Params) Any(key string, defaultVal any) any {
	v, ok := p.data[key]
	if !ok {
		return defaultVal
	}
	return v
}

// Has returns true if the key exists.
func (p Params) Has(key string) bool {
	_, ok := p.data[key]
	return ok
}

// Raw returns the underlying map.
// The returned map should not be modified.
func (p Params) Raw() map[string]any {
	return p.data
}
