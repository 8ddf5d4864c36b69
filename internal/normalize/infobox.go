package normalize

import (
	"strings"

	"tracknerd/internal/track"
)

// InfoBox normalizes an info-box segment. Every widget is gated by
// configuration: a disabled widget stays absent even when the model
// reports it.
func (n *Normalizer) InfoBox(segment string) *track.InfoBoxRecord {
	if m, ok := object(segment); ok {
		return n.infoBoxFromJSON(m)
	}
	return n.infoBoxFromText(segment)
}

func (n *Normalizer) infoBoxFromJSON(m map[string]any) *track.InfoBoxRecord {
	rec := &track.InfoBoxRecord{}
	cfg := n.cfg.InfoBox

	if cfg.Date {
		if v, ok := Lookup(m, "date"); ok {
			if s := widgetString(v, "value"); s != "" {
				rec.Date = &track.DateWidget{Value: s}
			}
		}
	}
	if cfg.Weather {
		if v, ok := Lookup(m, "weather"); ok {
			switch t := UnwrapLocked(v).(type) {
			case string:
				if t != "" {
					rec.Weather = &track.WeatherWidget{Condition: t}
				}
			case map[string]any:
				w := &track.WeatherWidget{}
				if c, ok := LookupAny(t, "condition", "current"); ok {
					w.Condition = Display(c)
				}
				if f, ok := Lookup(t, "forecast"); ok {
					w.Forecast = Display(f)
				}
				if w.Condition != "" || w.Forecast != "" {
					rec.Weather = w
				}
			}
		}
	}
	if cfg.Temperature {
		if v, ok := Lookup(m, "temperature"); ok {
			rec.Temperature = temperatureWidget(UnwrapLocked(v))
		}
	}
	if cfg.Time {
		if v, ok := Lookup(m, "time"); ok {
			if s := widgetString(v, "value"); s != "" {
				rec.Time = &track.TimeWidget{Value: s}
			}
		}
	}
	if cfg.Location {
		if v, ok := Lookup(m, "location"); ok {
			switch t := UnwrapLocked(v).(type) {
			case string:
				if t != "" {
					rec.Location = &track.LocationWidget{Name: t}
				}
			case map[string]any:
				l := &track.LocationWidget{}
				if name, ok := Lookup(t, "name"); ok {
					l.Name = Display(name)
				}
				if area, ok := LookupAny(t, "area", "region"); ok {
					l.Area = Display(area)
				}
				if l.Name != "" {
					rec.Location = l
				}
			}
		}
	}
	if cfg.RecentEvents {
		if v, ok := LookupAny(m, "recentEvents", "recent_events", "events"); ok {
			rec.RecentEvents = stringList(UnwrapLocked(v))
		}
	}
	return rec
}

// widgetString reads a widget that is either a bare string or a one-field
// object keyed by field.
func widgetString(v any, field string) string {
	switch t := UnwrapLocked(v).(type) {
	case string:
		return t
	case map[string]any:
		if inner, ok := Lookup(t, field); ok {
			return Display(inner)
		}
	}
	return Display(UnwrapLocked(v))
}

// temperatureWidget parses "22", 22, or "22°C" shapes, splitting the unit
// suffix off a string value.
func temperatureWidget(v any) *track.TemperatureWidget {
	switch t := v.(type) {
	case map[string]any:
		w := &track.TemperatureWidget{}
		if val, ok := Lookup(t, "value"); ok {
			w.Value, _ = CoerceInt(val)
		}
		if u, ok := Lookup(t, "unit"); ok {
			w.Unit = Display(u)
		}
		return w
	case string:
		n, ok := CoerceInt(t)
		if !ok {
			return nil
		}
		w := &track.TemperatureWidget{Value: n}
		switch {
		case strings.Contains(t, "F"):
			w.Unit = "F"
		case strings.Contains(t, "C"):
			w.Unit = "C"
		}
		return w
	default:
		if n, ok := CoerceInt(v); ok {
			return &track.TemperatureWidget{Value: n}
		}
	}
	return nil
}

func stringList(v any) []string {
	switch t := v.(type) {
	case []any:
		var out []string
		for _, e := range t {
			if s := Display(UnwrapLocked(e)); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		var out []string
		for _, line := range strings.Split(t, "\n") {
			line = strings.TrimSpace(strings.TrimLeft(line, "-* \t"))
			if line != "" {
				out = append(out, line)
			}
		}
		return out
	}
	return nil
}

func (n *Normalizer) infoBoxFromText(text string) *track.InfoBoxRecord {
	rec := &track.InfoBoxRecord{}
	cfg := n.cfg.InfoBox

	if cfg.Date {
		if v, ok := LabelLine(text, "Date"); ok {
			rec.Date = &track.DateWidget{Value: v}
		}
	}
	if cfg.Weather {
		if v, ok := LabelLine(text, "Weather"); ok {
			rec.Weather = &track.WeatherWidget{Condition: v}
		}
	}
	if cfg.Temperature {
		if v, ok := LabelValue(text, "Temperature"); ok {
			rec.Temperature = temperatureWidget(v)
		}
	}
	if cfg.Time {
		if v, ok := LabelValue(text, "Time"); ok {
			rec.Time = &track.TimeWidget{Value: v}
		}
	}
	if cfg.Location {
		if v, ok := LabelLine(text, "Location"); ok {
			rec.Location = &track.LocationWidget{Name: v}
		}
	}
	if cfg.RecentEvents {
		if v, ok := LabelLine(text, "Recent Events"); ok {
			for _, part := range strings.Split(v, ";") {
				if s := strings.TrimSpace(part); s != "" {
					rec.RecentEvents = append(rec.RecentEvents, s)
				}
			}
		}
	}
	return rec
}
