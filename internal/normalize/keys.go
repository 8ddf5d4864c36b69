package normalize

import "strings"

// ToKey derives a stable snake_case JSON key from a free-text field name:
// lowercase, runs of anything outside [a-z0-9] collapse to a single
// underscore, leading and trailing underscores trimmed.
func ToKey(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	pending := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(r)
		} else {
			pending = true
		}
	}
	return b.String()
}

// Lookup reads a field by its configured name, tolerating the model's
// casing drift: the exact name first, then the snake_case key, then any key
// that snake_cases to the same thing.
func Lookup(m map[string]any, name string) (any, bool) {
	if v, ok := m[name]; ok {
		return v, true
	}
	key := ToKey(name)
	if v, ok := m[key]; ok {
		return v, true
	}
	for k, v := range m {
		if ToKey(k) == key {
			return v, true
		}
	}
	return nil, false
}

// LookupAny tries Lookup over several names in order.
func LookupAny(m map[string]any, names ...string) (any, bool) {
	for _, n := range names {
		if v, ok := Lookup(m, n); ok {
			return v, true
		}
	}
	return nil, false
}
