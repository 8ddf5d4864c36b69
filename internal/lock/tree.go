// Package lock implements the lock overlay: a sparse user-authored tree of
// locked paths per tracker kind, plus the apply/remove transforms that
// thread {value, locked:true} wrappers onto canonical records for the
// outbound prompt and strip them again on the way back in.
package lock

import (
	"encoding/json"
	"sort"
	"strings"

	"tracknerd/internal/track"
)

// Tree is the sparse locked-path tree. Each tracker kind maps to a node:
// either a bool (the whole subtree is locked) or a nested map of path
// segment to node. Absence means unlocked; false is never stored.
type Tree struct {
	roots map[track.Kind]any
}

// NewTree returns an empty lock tree.
func NewTree() *Tree {
	return &Tree{roots: make(map[track.Kind]any)}
}

// Node returns the lock node for one tracker kind, nil when nothing under
// that kind is locked.
func (t *Tree) Node(kind track.Kind) any {
	return t.roots[kind]
}

// IsLocked reports whether the dot path is locked. A bool true at any
// ancestor covers the whole subtree; a missing path reads as false.
func (t *Tree) IsLocked(kind track.Kind, path string) bool {
	node, ok := t.roots[kind]
	if !ok {
		return false
	}
	for _, seg := range splitPath(path) {
		if b, isBool := node.(bool); isBool {
			return b
		}
		m, isMap := node.(map[string]any)
		if !isMap {
			return false
		}
		node, ok = m[seg]
		if !ok {
			return false
		}
	}
	b, isBool := node.(bool)
	return isBool && b
}

// SetLocked sets or clears one path. Locking a path replaces any finer
// entries below it; locking below an already-locked ancestor is a no-op,
// since the broader lock takes precedence and already covers the path.
// Unlocking deletes the leaf and prunes emptied ancestors so the tree stays
// minimal. An empty path addresses the whole tracker kind.
func (t *Tree) SetLocked(kind track.Kind, path string, locked bool) {
	segs := splitPath(path)
	if len(segs) == 0 {
		if locked {
			t.roots[kind] = true
		} else {
			delete(t.roots, kind)
		}
		return
	}

	if locked {
		if b, ok := t.roots[kind].(bool); ok && b {
			return
		}
		m, ok := t.roots[kind].(map[string]any)
		if !ok {
			m = make(map[string]any)
			t.roots[kind] = m
		}
		for _, seg := range segs[:len(segs)-1] {
			if b, ok := m[seg].(bool); ok && b {
				return
			}
			next, ok := m[seg].(map[string]any)
			if !ok {
				next = make(map[string]any)
				m[seg] = next
			}
			m = next
		}
		m[segs[len(segs)-1]] = true
		return
	}

	if m, ok := t.roots[kind].(map[string]any); ok {
		if unset(m, segs) {
			delete(t.roots, kind)
		}
	} else if b, ok := t.roots[kind].(bool); ok && b {
		// Clearing a path under a whole-kind lock clears the whole lock;
		// there is no finer state to preserve.
		delete(t.roots, kind)
	}
}

// unset deletes the path leaf and reports whether m is now empty.
func unset(m map[string]any, segs []string) bool {
	if len(segs) == 1 {
		delete(m, segs[0])
		return len(m) == 0
	}
	if child, ok := m[segs[0]].(map[string]any); ok {
		if unset(child, segs[1:]) {
			delete(m, segs[0])
		}
	} else if b, ok := m[segs[0]].(bool); ok && b {
		delete(m, segs[0])
	}
	return len(m) == 0
}

// Paths lists every locked path under a kind in stable order, for display.
func (t *Tree) Paths(kind track.Kind) []string {
	var out []string
	collectPaths(t.roots[kind], "", &out)
	return out
}

func collectPaths(node any, prefix string, out *[]string) {
	switch n := node.(type) {
	case bool:
		if n {
			if prefix == "" {
				prefix = "(all)"
			}
			*out = append(*out, prefix)
		}
	case map[string]any:
		keys := make([]string, 0, len(n))
		for k := range n {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			p := k
			if prefix != "" {
				p = prefix + "." + k
			}
			collectPaths(n[k], p, out)
		}
	}
}

func splitPath(path string) []string {
	path = strings.Trim(path, ". \t")
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

// MarshalJSON serializes the tree as one object keyed by tracker kind.
func (t *Tree) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(t.roots))
	for kind, node := range t.roots {
		out[string(kind)] = node
	}
	return json.Marshal(out)
}

// UnmarshalJSON replaces the tree contents. Unknown kinds are dropped.
func (t *Tree) UnmarshalJSON(b []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	t.roots = make(map[track.Kind]any, len(raw))
	for k, node := range raw {
		kind := track.Kind(k)
		if !kind.Valid() {
			continue
		}
		switch node.(type) {
		case bool, map[string]any:
			t.roots[kind] = node
		}
	}
	return nil
}
