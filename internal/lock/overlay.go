package lock

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"tracknerd/internal/normalize"
	"tracknerd/internal/track"
)

var posKeyRE = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\[(\d+)\]$`)

// Apply threads lock wrappers onto a canonical record for the outbound
// prompt. Every path present as true in node gets its leaf or subtree
// wrapped as {value, locked:true}; object-valued subtrees get locked:true
// merged as a sibling key instead. Content that is not valid JSON (a legacy
// text tracker) is returned unchanged, since the text shape has no place to
// carry markers. Lock paths that miss the record are no-ops.
func Apply(recordJSON string, node any) string {
	if node == nil {
		return recordJSON
	}
	var v any
	if err := json.Unmarshal([]byte(recordJSON), &v); err != nil {
		return recordJSON
	}
	out, err := json.Marshal(applyNode(v, node))
	if err != nil {
		return recordJSON
	}
	return string(out)
}

func applyNode(v any, node any) any {
	if b, ok := node.(bool); ok {
		if !b {
			return v
		}
		return wrap(v)
	}
	nm, ok := node.(map[string]any)
	if !ok {
		return v
	}
	switch t := v.(type) {
	case map[string]any:
		for key, child := range nm {
			applyMapKey(t, key, child)
		}
		return t
	case []any:
		for key, child := range nm {
			applySeqKey(t, key, child)
		}
		return t
	}
	return v
}

// wrap marks a whole value. Objects carry the marker as a sibling key;
// leaves and arrays get the value wrapper, emitted through the sum type so
// the wire shape has exactly one definition.
func wrap(v any) any {
	if m, ok := v.(map[string]any); ok {
		m["locked"] = true
		return m
	}
	return track.MaybeLocked{Value: v, Locked: true}
}

// applyMapKey resolves one lock key against an object: the positional
// base[N] form indexes into an array-valued field, anything else addresses
// a field with the same casing tolerance the normalizer reads with.
func applyMapKey(m map[string]any, key string, child any) {
	if pm := posKeyRE.FindStringSubmatch(key); pm != nil {
		base, _ := normalize.Lookup(m, pm[1])
		arr, ok := base.([]any)
		if !ok {
			return
		}
		idx, _ := strconv.Atoi(pm[2])
		if idx < 0 || idx >= len(arr) {
			return
		}
		arr[idx] = applyNode(arr[idx], child)
		return
	}
	for k, fv := range m {
		if k == key || normalize.ToKey(k) == normalize.ToKey(key) {
			m[k] = applyNode(fv, child)
			return
		}
	}
}

// applySeqKey resolves one lock key against a sequence: all-digit keys are
// positional, everything else matches by entry name, title, or id.
func applySeqKey(arr []any, key string, child any) {
	if idx, err := strconv.Atoi(key); err == nil {
		if idx >= 0 && idx < len(arr) {
			arr[idx] = applyNode(arr[idx], child)
		}
		return
	}
	want := strings.ToLower(key)
	for i, e := range arr {
		if entryName(e) == want {
			arr[i] = applyNode(e, child)
			return
		}
	}
}

func entryName(e any) string {
	m, ok := e.(map[string]any)
	if !ok {
		if s, ok := e.(string); ok {
			return strings.ToLower(s)
		}
		return ""
	}
	for _, field := range []string{"name", "title", "id"} {
		if v, ok := normalize.Lookup(m, field); ok {
			if s, ok := v.(string); ok {
				return strings.ToLower(s)
			}
		}
	}
	return ""
}

// Remove strips every lock marker from a record: value wrappers collapse
// back to their bare value and locked sibling keys are deleted, recursively.
// Not-JSON content passes through unchanged. Remove is idempotent and is
// the inverse of Apply up to key order.
func Remove(recordJSON string) string {
	var v any
	if err := json.Unmarshal([]byte(recordJSON), &v); err != nil {
		return recordJSON
	}
	out, err := json.Marshal(Unwrap(v))
	if err != nil {
		return recordJSON
	}
	return string(out)
}

// Unwrap is Remove on an already-decoded value.
func Unwrap(v any) any {
	for track.IsLockWrapper(v) {
		v = track.FromValue(v).Value
	}
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, fv := range t {
			if k == "locked" {
				continue
			}
			out[k] = Unwrap(fv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Unwrap(e)
		}
		return out
	}
	return v
}
