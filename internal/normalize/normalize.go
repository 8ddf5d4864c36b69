// Package normalize converts extracted segment content into the canonical
// tracker records. Input arrives in two broad shapes: near-JSON (repaired
// and key-probed) and legacy label text (regex extraction per configured
// field). Normalization is deterministic given the same input and
// configuration; absence of a field is never an error.
package normalize

import (
	"encoding/json"
	"strconv"

	"go.uber.org/zap"

	"tracknerd/internal/config"
	"tracknerd/internal/repair"
	"tracknerd/internal/track"
)

// Normalizer turns segment content into canonical records.
type Normalizer struct {
	cfg *config.Config
	log *zap.Logger
}

// New returns a Normalizer. A nil logger is replaced with a no-op logger,
// a nil config with the stock defaults.
func New(cfg *config.Config, log *zap.Logger) *Normalizer {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Normalizer{cfg: cfg, log: log}
}

// object repairs segment content into a key-probeable map. ok is false for
// legacy text segments, which take the label extraction path instead.
func object(segment string) (map[string]any, bool) {
	v, ok := repair.Repair(segment)
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}

// UnwrapLocked strips lock wrappers recursively from a decoded JSON value.
// Upstream lock removal normally handles this, but quest payloads have been
// seen arriving still wrapped when the model echoes the outbound shape back.
func UnwrapLocked(v any) any {
	for track.IsLockWrapper(v) {
		v = track.FromValue(v).Value
	}
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = UnwrapLocked(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = UnwrapLocked(val)
		}
		return out
	}
	return v
}

// Display collapses a decoded JSON value to the display string the legacy
// consumers render.
func Display(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
