package normalize

import (
	"encoding/json"

	"tracknerd/internal/track"
)

// QuestDisplay collapses one quest payload to its display string. Lock
// wrappers are unwrapped first; a quest object is read by title, then
// description, then stringified whole.
func QuestDisplay(v any) string {
	v = UnwrapLocked(v)
	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		if title, ok := LookupAny(t, "title", "name"); ok {
			return Display(title)
		}
		if desc, ok := Lookup(t, "description"); ok {
			return Display(desc)
		}
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	case nil:
		return ""
	}
	return Display(v)
}

// Quests normalizes the quest aggregate. A nil return means the segment
// carried no quest state.
func (n *Normalizer) Quests(v any) *track.Quests {
	v = UnwrapLocked(v)
	q := &track.Quests{}
	switch t := v.(type) {
	case map[string]any:
		if main, ok := LookupAny(t, "main", "main_quest"); ok {
			q.Main = QuestDisplay(main)
		}
		if opt, ok := LookupAny(t, "optional", "side", "side_quests"); ok {
			if arr, ok := UnwrapLocked(opt).([]any); ok {
				for _, e := range arr {
					if s := QuestDisplay(e); s != "" {
						q.Optional = append(q.Optional, s)
					}
				}
			} else if s := QuestDisplay(opt); s != "" {
				q.Optional = append(q.Optional, s)
			}
		}
	case []any:
		// A bare array reads as the optional quest list.
		for _, e := range t {
			if s := QuestDisplay(e); s != "" {
				q.Optional = append(q.Optional, s)
			}
		}
	case string:
		q.Main = t
	}
	if q.Main == "" && len(q.Optional) == 0 {
		return nil
	}
	return q
}
