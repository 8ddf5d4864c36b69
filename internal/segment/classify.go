package segment

import (
	"github.com/tidwall/gjson"

	"tracknerd/internal/track"
)

// rule pairs a named predicate with the tracker kind it assigns. The format
// is not self-describing, so classification is key sniffing over an explicit
// ordered list; the fired rule name is surfaced in Result.Rules so tests and
// logs can see exactly which heuristic matched.
type rule struct {
	name  string
	kind  track.Kind
	match func(g gjson.Result) bool
}

var classifyRules = []rule{
	{
		name: "stats_keys",
		kind: track.KindUserStats,
		match: func(g gjson.Result) bool {
			return hasAnyKey(g, "stats", "status", "skills", "inventory", "quests")
		},
	},
	{
		name: "infobox_keys",
		kind: track.KindInfoBox,
		match: func(g gjson.Result) bool {
			return hasAnyKey(g, "date", "location", "weather", "temperature", "time")
		},
	},
	{
		name: "characters_key",
		kind: track.KindCharacters,
		match: func(g gjson.Result) bool {
			return g.Get("characters").Exists()
		},
	},
	{
		name: "top_level_array",
		kind: track.KindCharacters,
		match: func(g gjson.Result) bool {
			return g.IsArray()
		},
	},
}

func hasAnyKey(g gjson.Result, keys ...string) bool {
	if !g.IsObject() {
		return false
	}
	for _, k := range keys {
		if g.Get(k).Exists() {
			return true
		}
	}
	return false
}

// classify runs the rule table over canonical JSON and returns the assigned
// kind plus the name of the rule that fired.
func classify(canonical string) (track.Kind, string, bool) {
	g := gjson.Parse(canonical)
	for _, r := range classifyRules {
		if r.match(g) {
			return r.kind, r.name, true
		}
	}
	return "", "", false
}

// unwrapSingleKind unwraps a single-key wrapper object whose key is exactly
// one of the three tracker kinds, returning the inner raw JSON. A wrapper
// with additional keys is left alone; that is the unified-container case.
func unwrapSingleKind(canonical string) (string, track.Kind, bool) {
	g := gjson.Parse(canonical)
	if !g.IsObject() {
		return canonical, "", false
	}
	var keys []string
	g.ForEach(func(k, _ gjson.Result) bool {
		keys = append(keys, k.String())
		return true
	})
	if len(keys) != 1 {
		return canonical, "", false
	}
	switch keys[0] {
	case string(track.KindUserStats):
		return g.Get(string(track.KindUserStats)).Raw, track.KindUserStats, true
	case string(track.KindInfoBox):
		return g.Get(string(track.KindInfoBox)).Raw, track.KindInfoBox, true
	case string(track.KindCharacters):
		return g.Get(string(track.KindCharacters)).Raw, track.KindCharacters, true
	}
	return canonical, "", false
}

// typeField maps an explicit "type" discriminator (used inside <trackers>
// blocks) to a tracker kind.
func typeField(canonical string) (track.Kind, bool) {
	v := gjson.Get(canonical, "type").String()
	if v == "" {
		return "", false
	}
	return track.ParseKind(v)
}
