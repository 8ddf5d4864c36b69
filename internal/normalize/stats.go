package normalize

import (
	"go.uber.org/zap"

	"tracknerd/internal/config"
	"tracknerd/internal/track"
)

// Stats normalizes a user-stats segment. JSON content is key-probed; legacy
// text falls back to label extraction per configured field.
func (n *Normalizer) Stats(segment string) *track.StatsRecord {
	if m, ok := object(segment); ok {
		return n.statsFromJSON(m)
	}
	return n.statsFromText(segment)
}

func (n *Normalizer) statsFromJSON(m map[string]any) *track.StatsRecord {
	rec := &track.StatsRecord{}

	if v, ok := Lookup(m, "stats"); ok {
		rec.Stats = n.statEntries(UnwrapLocked(v))
	}
	if len(rec.Stats) == 0 {
		// No stats array: probe the configured stats as top-level keys.
		for _, def := range n.cfg.UserStats.Stats {
			if stat, ok := n.probeStat(m, def); ok {
				rec.Stats = append(rec.Stats, stat)
			}
		}
	}

	rec.Status = n.statusMap(m)
	if v, ok := Lookup(m, "skills"); ok {
		rec.Skills = coerceNamed(v)
	}
	if v, ok := Lookup(m, "inventory"); ok {
		rec.Inventory = n.Inventory(v)
	}
	if v, ok := Lookup(m, "quests"); ok {
		rec.Quests = n.Quests(v)
	}
	return rec
}

// statEntries normalizes the stats array. Entries may be {id,name,value}
// objects or a {"HP": 80} shorthand map folded into one entry per key.
func (n *Normalizer) statEntries(v any) []track.Stat {
	var out []track.Stat
	switch t := v.(type) {
	case []any:
		for _, e := range t {
			entry, ok := UnwrapLocked(e).(map[string]any)
			if !ok {
				continue
			}
			stat := track.Stat{}
			if name, ok := Lookup(entry, "name"); ok {
				stat.Name = Display(name)
			}
			if id, ok := Lookup(entry, "id"); ok {
				stat.ID = Display(id)
			} else if stat.Name != "" {
				stat.ID = ToKey(stat.Name)
			}
			if val, ok := Lookup(entry, "value"); ok {
				stat.Value, _ = CoerceInt(UnwrapLocked(val))
			}
			if stat.ID == "" && stat.Name == "" {
				continue
			}
			stat.Value = clampStat(stat.Value, n.maxFor(stat.ID, stat.Name))
			out = append(out, stat)
		}
	case map[string]any:
		for _, def := range n.cfg.UserStats.Stats {
			if stat, ok := n.probeStat(t, def); ok {
				out = append(out, stat)
			}
		}
	}
	return out
}

// probeStat resolves one configured stat against a key map: the configured
// name and id first, then the numeric alias chain for stats whose key names
// drift between runs. An alias that is present but carries nothing parseable
// yields the configured default constant.
func (n *Normalizer) probeStat(m map[string]any, def config.StatDef) (track.Stat, bool) {
	id := statID(def)
	if v, ok := LookupAny(m, def.Name, def.ID); ok {
		if val, ok := CoerceInt(UnwrapLocked(v)); ok {
			return track.Stat{ID: id, Name: def.Name, Value: clampStat(val, def.Max)}, true
		}
	}
	if hasAlias(m, id) {
		val := NumericField(m, id, n.statDefault(id))
		return track.Stat{ID: id, Name: def.Name, Value: clampStat(val, def.Max)}, true
	}
	return track.Stat{}, false
}

// statDefault maps a stat id to its fixed fallback constant.
func (n *Normalizer) statDefault(id string) int {
	switch id {
	case "hp":
		return n.cfg.Defaults.HP
	case "energy":
		return n.cfg.Defaults.Energy
	case "money":
		return n.cfg.Defaults.Money
	case "time":
		return n.cfg.Defaults.TimeMinutes
	}
	return 0
}

// clampStat holds a stat to its semantic range: 0..max, with 100 the
// conventional ceiling when the configured stat declares none.
func clampStat(v, max int) int {
	if max <= 0 {
		max = 100
	}
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

// maxFor finds the configured ceiling for a stat entry by id or name.
func (n *Normalizer) maxFor(id, name string) int {
	for _, def := range n.cfg.UserStats.Stats {
		if statID(def) == id || (name != "" && ToKey(def.Name) == ToKey(name)) {
			return def.Max
		}
	}
	return 0
}

// statusMap builds the status field map: the segment's own status object
// first, then the configured status fields probed at top level, then the
// mood marker when enabled.
func (n *Normalizer) statusMap(m map[string]any) map[string]string {
	status := map[string]string{}
	if v, ok := Lookup(m, "status"); ok {
		if sm, ok := UnwrapLocked(v).(map[string]any); ok {
			for k, sv := range sm {
				status[k] = n.statusValue(k, Display(sv))
			}
		}
	}
	for _, field := range n.cfg.UserStats.StatusFields {
		if _, seen := status[field]; seen {
			continue
		}
		if v, ok := Lookup(m, field); ok {
			if s := Display(UnwrapLocked(v)); s != "" {
				status[field] = n.statusValue(field, s)
			}
		}
	}
	if n.cfg.UserStats.MoodEnabled {
		if v, ok := Lookup(m, "mood"); ok {
			if s := Display(UnwrapLocked(v)); s != "" {
				status["Mood"] = s
			}
		}
	}
	if len(status) == 0 {
		return nil
	}
	return status
}

// statusValue canonicalizes well-known status fields; risk wording in
// particular collapses to the fixed four-level scale.
func (n *Normalizer) statusValue(field, value string) string {
	if ToKey(field) == "risk" {
		return RiskLevel(value)
	}
	return value
}

func (n *Normalizer) statsFromText(text string) *track.StatsRecord {
	rec := &track.StatsRecord{}
	for _, def := range n.cfg.UserStats.Stats {
		raw, ok := LabelValue(text, def.Name)
		if !ok {
			continue
		}
		val, ok := CoerceInt(raw)
		if !ok {
			n.log.Debug("stat label not numeric", zap.String("stat", def.Name), zap.String("raw", raw))
			continue
		}
		rec.Stats = append(rec.Stats, track.Stat{ID: statID(def), Name: def.Name, Value: clampStat(val, def.Max)})
	}

	status := map[string]string{}
	for _, field := range n.cfg.UserStats.StatusFields {
		if v, ok := LabelValue(text, field); ok {
			status[field] = n.statusValue(field, v)
		}
	}
	if n.cfg.UserStats.MoodEnabled {
		if v, ok := LabelValue(text, "Mood"); ok {
			status["Mood"] = v
		}
	}
	if len(status) > 0 {
		rec.Status = status
	}

	if v, ok := LabelLine(text, "Skills"); ok {
		for _, it := range ParseItems(v) {
			rec.Skills = append(rec.Skills, track.Named{Name: it.Name})
		}
	}
	if v, ok := LabelLine(text, "Inventory"); ok {
		if items := ParseItems(v); len(items) > 0 {
			rec.Inventory = &track.Inventory{OnPerson: items}
		}
	}
	if v, ok := LabelLine(text, "Quest"); ok {
		rec.Quests = &track.Quests{Main: v}
	}
	return rec
}

func statID(def config.StatDef) string {
	if def.ID != "" {
		return def.ID
	}
	return ToKey(def.Name)
}
