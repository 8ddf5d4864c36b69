package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

var intRE = regexp.MustCompile(`-?\d+`)

// CoerceInt extracts an integer from whatever JSON type arrived: numbers,
// numeric strings, and strings carrying units or percent signs ("80%",
// "22°C", "1,200 gold").
func CoerceInt(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		return int(t), true
	case int:
		return t, true
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(t), ",", "")
		if m := intRE.FindString(s); m != "" {
			n, err := strconv.Atoi(m)
			if err == nil {
				return n, true
			}
		}
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// Alias chains for the numeric fields whose key names drift between model
// runs. Order matters: the first alias present wins.
var numericAliases = map[string][]string{
	"time":   {"time", "duration", "minutes"},
	"energy": {"energy", "stamina", "fatigue"},
	"money":  {"money", "gold", "currency", "cash"},
	"hp":     {"hp", "health", "hit_points"},
}

// NumericField reads a numeric field through its alias chain, falling back
// to def when no alias is present or none coerces.
func NumericField(m map[string]any, field string, def int) int {
	for _, a := range aliasesFor(field) {
		if v, ok := Lookup(m, a); ok {
			if n, ok := CoerceInt(UnwrapLocked(v)); ok {
				return n
			}
		}
	}
	return def
}

// hasAlias reports whether any accepted alias of field appears in m,
// regardless of whether its value parses.
func hasAlias(m map[string]any, field string) bool {
	for _, a := range aliasesFor(field) {
		if _, ok := Lookup(m, a); ok {
			return true
		}
	}
	return false
}

func aliasesFor(field string) []string {
	if aliases, ok := numericAliases[field]; ok {
		return aliases
	}
	return []string{field}
}
