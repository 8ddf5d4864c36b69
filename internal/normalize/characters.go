package normalize

import (
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"tracknerd/internal/repair"
	"tracknerd/internal/track"
)

// Characters normalizes a present-characters segment into the ordered
// character list. JSON may arrive as a bare array, a {characters:[...]} or
// {list:[...]} wrapper, or a name-keyed map; legacy text is a markdown list
// of character blocks.
func (n *Normalizer) Characters(segment string) []track.CharacterRecord {
	if v, ok := repair.Repair(segment); ok {
		return n.charactersFromJSON(UnwrapLocked(v))
	}
	return n.charactersFromText(segment)
}

func (n *Normalizer) charactersFromJSON(v any) []track.CharacterRecord {
	switch t := v.(type) {
	case []any:
		var out []track.CharacterRecord
		for _, e := range t {
			if rec, ok := n.character(e); ok {
				out = append(out, rec)
			}
		}
		return out
	case map[string]any:
		if inner, ok := LookupAny(t, "characters", "list", "present"); ok {
			return n.charactersFromJSON(UnwrapLocked(inner))
		}
		if _, ok := Lookup(t, "name"); ok {
			// A single character object standing alone.
			if rec, ok := n.character(t); ok {
				return []track.CharacterRecord{rec}
			}
			return nil
		}
		// Name-keyed map: each value is one character body. Keys are
		// sorted so output order is stable.
		names := make([]string, 0, len(t))
		for name := range t {
			if name != "type" {
				names = append(names, name)
			}
		}
		sort.Strings(names)
		var out []track.CharacterRecord
		for _, name := range names {
			rec, _ := n.character(t[name])
			if rec.Name == "" {
				rec.Name = name
			}
			out = append(out, rec)
		}
		return out
	}
	return nil
}

func (n *Normalizer) character(v any) (track.CharacterRecord, bool) {
	rec := track.CharacterRecord{}
	switch t := UnwrapLocked(v).(type) {
	case string:
		if s := strings.TrimSpace(t); s != "" {
			rec.Name = s
			return rec, true
		}
		return rec, false
	case map[string]any:
		if name, ok := Lookup(t, "name"); ok {
			rec.Name = Display(name)
		}
		if emoji, ok := Lookup(t, "emoji"); ok {
			rec.Emoji = Display(emoji)
		}
		if details, ok := Lookup(t, "details"); ok {
			if dm, ok := UnwrapLocked(details).(map[string]any); ok {
				rec.Details = make(map[string]string, len(dm))
				for k, dv := range dm {
					rec.Details[k] = Display(UnwrapLocked(dv))
				}
			}
		}
		if rel, ok := Lookup(t, "relationship"); ok {
			rec.Relationship = n.relationship(rel, rec.Name)
		}
		if stats, ok := Lookup(t, "stats"); ok {
			rec.Stats = namedValues(UnwrapLocked(stats))
		}
		if thoughts, ok := Lookup(t, "thoughts"); ok {
			switch tv := UnwrapLocked(thoughts).(type) {
			case string:
				if tv != "" {
					rec.Thoughts = &track.Thoughts{Content: tv}
				}
			case map[string]any:
				if c, ok := LookupAny(tv, "content", "text"); ok {
					rec.Thoughts = &track.Thoughts{Content: Display(c)}
				}
			}
		}
		return rec, rec.Name != ""
	}
	return rec, false
}

// relationship coerces the relationship payload and validates the status
// against the configured enum. An unconfigured status is dropped rather
// than stored.
func (n *Normalizer) relationship(v any, who string) *track.Relationship {
	var status string
	switch t := UnwrapLocked(v).(type) {
	case string:
		status = t
	case map[string]any:
		if s, ok := Lookup(t, "status"); ok {
			status = Display(s)
		}
	}
	status = strings.ToLower(strings.TrimSpace(status))
	if status == "" {
		return nil
	}
	if !n.cfg.RelationshipAllowed(status) {
		n.log.Debug("relationship status outside configured set",
			zap.String("character", who), zap.String("status", status))
		return nil
	}
	return &track.Relationship{Status: status}
}

func namedValues(v any) []track.NamedValue {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []track.NamedValue
	for _, e := range arr {
		entry, ok := UnwrapLocked(e).(map[string]any)
		if !ok {
			continue
		}
		nv := track.NamedValue{}
		if name, ok := Lookup(entry, "name"); ok {
			nv.Name = Display(name)
		}
		if val, ok := Lookup(entry, "value"); ok {
			nv.Value, _ = CoerceInt(UnwrapLocked(val))
		}
		if nv.Name != "" {
			out = append(out, nv)
		}
	}
	return out
}

var charItemRE = regexp.MustCompile(`(?m)^[ \t]*[-*][ \t]+(.+?)[ \t]*$`)

// charactersFromText parses the legacy markdown list: each list item opens a
// character block, with indented "Label: value" lines attached until the
// next item.
func (n *Normalizer) charactersFromText(text string) []track.CharacterRecord {
	locs := charItemRE.FindAllStringSubmatchIndex(text, -1)
	var out []track.CharacterRecord
	for i, loc := range locs {
		head := strings.TrimSpace(text[loc[2]:loc[3]])
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		body := text[loc[1]:end]

		rec := track.CharacterRecord{Name: head}
		if name, emoji, ok := splitEmoji(head); ok {
			rec.Name, rec.Emoji = name, emoji
		}
		if v, ok := LabelLine(body, "Relationship"); ok {
			rec.Relationship = n.relationship(v, rec.Name)
		}
		if v, ok := LabelLine(body, "Thoughts"); ok {
			rec.Thoughts = &track.Thoughts{Content: v}
		}
		details := map[string]string{}
		for _, line := range strings.Split(body, "\n") {
			k, v, ok := strings.Cut(line, ":")
			if !ok {
				continue
			}
			k = strings.TrimSpace(strings.TrimLeft(k, " \t*-"))
			v = strings.TrimSpace(v)
			if k == "" || v == "" {
				continue
			}
			switch ToKey(k) {
			case "relationship", "thoughts":
				continue
			}
			details[k] = v
		}
		if len(details) > 0 {
			rec.Details = details
		}
		if rec.Name != "" {
			out = append(out, rec)
		}
	}
	return out
}

// splitEmoji peels a leading or trailing emoji rune off a character heading.
func splitEmoji(head string) (name, emoji string, ok bool) {
	runes := []rune(head)
	if len(runes) < 2 {
		return "", "", false
	}
	if isEmoji(runes[0]) {
		return strings.TrimSpace(string(runes[1:])), string(runes[0]), true
	}
	if last := runes[len(runes)-1]; isEmoji(last) {
		return strings.TrimSpace(string(runes[:len(runes)-1])), string(last), true
	}
	return "", "", false
}

func isEmoji(r rune) bool {
	return r >= 0x1F000 || (r >= 0x2600 && r <= 0x27BF)
}
