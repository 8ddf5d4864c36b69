package normalize

import (
	"fmt"
	"regexp"
	"strings"

	"tracknerd/internal/track"
)

var qtyPrefixRE = regexp.MustCompile(`^(\d+)\s*x\s+(.*)$`)

// ParseItems converts a display string such as "3x Rope, Lantern" into
// structured items. Quantity 1 stays implicit.
func ParseItems(display string) []track.Item {
	var items []track.Item
	for _, part := range strings.Split(display, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		item := track.Item{Name: part}
		if m := qtyPrefixRE.FindStringSubmatch(part); m != nil {
			if n, ok := CoerceInt(m[1]); ok && n > 1 {
				item = track.Item{Name: strings.TrimSpace(m[2]), Quantity: n}
			} else {
				item.Name = strings.TrimSpace(m[2])
			}
		}
		if item.Name != "" {
			items = append(items, item)
		}
	}
	return items
}

// FormatItems is the inverse of ParseItems. Quantity is omitted from the
// display string when it is 1 or absent.
func FormatItems(items []track.Item) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		if it.Quantity > 1 {
			parts = append(parts, fmt.Sprintf("%dx %s", it.Quantity, it.Name))
		} else {
			parts = append(parts, it.Name)
		}
	}
	return strings.Join(parts, ", ")
}

// coerceItems accepts every shape the on-person and stored buckets arrive
// in: a display string, an array of names, or an array of item objects.
func coerceItems(v any) []track.Item {
	switch t := UnwrapLocked(v).(type) {
	case string:
		return ParseItems(t)
	case []any:
		var items []track.Item
		for _, e := range t {
			switch entry := e.(type) {
			case string:
				items = append(items, ParseItems(entry)...)
			case map[string]any:
				item := track.Item{}
				if name, ok := LookupAny(entry, "name", "item"); ok {
					item.Name = Display(name)
				}
				if q, ok := Lookup(entry, "quantity"); ok {
					if n, ok := CoerceInt(q); ok && n > 1 {
						item.Quantity = n
					}
				}
				if item.Name != "" {
					items = append(items, item)
				}
			}
		}
		return items
	}
	return nil
}

func coerceNamed(v any) []track.Named {
	switch t := UnwrapLocked(v).(type) {
	case string:
		var out []track.Named
		for _, it := range ParseItems(t) {
			out = append(out, track.Named{Name: it.Name})
		}
		return out
	case []any:
		var out []track.Named
		for _, e := range t {
			switch entry := e.(type) {
			case string:
				if s := strings.TrimSpace(entry); s != "" {
					out = append(out, track.Named{Name: s})
				}
			case map[string]any:
				if name, ok := Lookup(entry, "name"); ok {
					out = append(out, track.Named{Name: Display(name)})
				}
			}
		}
		return out
	}
	return nil
}

// Inventory normalizes the four-bucket inventory aggregate. A nil return
// means the segment carried no inventory at all.
func (n *Normalizer) Inventory(v any) *track.Inventory {
	m, ok := UnwrapLocked(v).(map[string]any)
	if !ok {
		// A bare display string is the whole on-person bucket.
		if s, ok := v.(string); ok {
			if items := ParseItems(s); len(items) > 0 {
				return &track.Inventory{OnPerson: items}
			}
		}
		return nil
	}
	inv := &track.Inventory{}
	if v, ok := LookupAny(m, "onPerson", "on_person", "carried", "items"); ok {
		inv.OnPerson = coerceItems(v)
	}
	if v, ok := LookupAny(m, "clothing", "worn", "equipped"); ok {
		inv.Clothing = coerceNamed(v)
	}
	if v, ok := Lookup(m, "stored"); ok {
		if stored, ok := UnwrapLocked(v).(map[string]any); ok {
			inv.Stored = make(map[string][]track.Item, len(stored))
			for loc, sv := range stored {
				if items := coerceItems(sv); len(items) > 0 {
					inv.Stored[loc] = items
				}
			}
			if len(inv.Stored) == 0 {
				inv.Stored = nil
			}
		}
	}
	if v, ok := Lookup(m, "assets"); ok {
		inv.Assets = coerceAssets(v)
	}
	if inv.OnPerson == nil && inv.Clothing == nil && inv.Stored == nil && inv.Assets == nil {
		return nil
	}
	return inv
}

func coerceAssets(v any) []track.Asset {
	arr, ok := UnwrapLocked(v).([]any)
	if !ok {
		return nil
	}
	var out []track.Asset
	for _, e := range arr {
		switch entry := e.(type) {
		case string:
			if s := strings.TrimSpace(entry); s != "" {
				out = append(out, track.Asset{Name: s})
			}
		case map[string]any:
			a := track.Asset{}
			if name, ok := Lookup(entry, "name"); ok {
				a.Name = Display(name)
			}
			if loc, ok := Lookup(entry, "location"); ok {
				a.Location = Display(loc)
			}
			if a.Name != "" {
				out = append(out, a)
			}
		}
	}
	return out
}
