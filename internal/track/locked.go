package track

import "encoding/json"

// MaybeLocked models the dual wire shape a tracker field can take: either a
// bare JSON value, or the lock wrapper {"value": <v>, "locked": true} that
// the outbound prompt threads onto protected fields. Decoding through this
// type keeps the bare-vs-wrapped distinction explicit instead of probing
// map shapes at every read site.
type MaybeLocked struct {
	Value  any
	Locked bool
}

// IsLockWrapper reports whether a decoded JSON value has the lock wrapper
// shape: an object whose only keys are "value" and "locked".
func IsLockWrapper(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	if _, ok := m["value"]; !ok {
		return false
	}
	if _, ok := m["locked"]; !ok {
		return false
	}
	return len(m) == 2
}

// FromValue reads an already-decoded JSON value into the sum type, so read
// sites branch on Locked instead of probing map shapes inline.
func FromValue(v any) MaybeLocked {
	if IsLockWrapper(v) {
		obj := v.(map[string]any)
		locked, _ := obj["locked"].(bool)
		return MaybeLocked{Value: obj["value"], Locked: locked}
	}
	return MaybeLocked{Value: v}
}

// UnmarshalJSON accepts both the bare and the wrapped form.
func (m *MaybeLocked) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*m = FromValue(v)
	return nil
}

// MarshalJSON reproduces the wire shape the value was decoded from.
func (m MaybeLocked) MarshalJSON() ([]byte, error) {
	if m.Locked {
		return json.Marshal(map[string]any{"value": m.Value, "locked": true})
	}
	return json.Marshal(m.Value)
}
