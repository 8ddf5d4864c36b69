// Package track defines the canonical tracker records the recovery pipeline
// maintains as narrative game state, plus the tracker-kind keys used by the
// settings store.
package track

// Kind identifies one of the three tracker record kinds. The string values
// double as the settings-store keys.
type Kind string

const (
	KindUserStats  Kind = "userStats"
	KindInfoBox    Kind = "infoBox"
	KindCharacters Kind = "characters"
)

// Kinds lists all tracker kinds in canonical order.
var Kinds = []Kind{KindUserStats, KindInfoBox, KindCharacters}

// Valid reports whether k is a known tracker kind.
func (k Kind) Valid() bool {
	switch k {
	case KindUserStats, KindInfoBox, KindCharacters:
		return true
	}
	return false
}

// ParseKind resolves user-facing aliases to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "userStats", "user_stats", "stats":
		return KindUserStats, true
	case "infoBox", "info_box", "infobox":
		return KindInfoBox, true
	case "characters", "character":
		return KindCharacters, true
	}
	return "", false
}

// =============================================================================
// USER STATS
// =============================================================================

// Stat is a single tracked stat entry. Value is semantically 0-100 (or 0-max
// when the configured stat declares a max).
type Stat struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Named is a bare named entry (skills, clothing).
type Named struct {
	Name string `json:"name"`
}

// Item is an inventory entry. Quantity is omitted on the wire when it is 1.
type Item struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity,omitempty"`
}

// Asset is a held asset tied to a location (a house, a horse at the stable).
type Asset struct {
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
}

// Inventory aggregates the four inventory buckets.
type Inventory struct {
	OnPerson []Item            `json:"onPerson,omitempty"`
	Clothing []Named           `json:"clothing,omitempty"`
	Stored   map[string][]Item `json:"stored,omitempty"`
	Assets   []Asset           `json:"assets,omitempty"`
}

// Quests carries quest state collapsed to display strings, which is what the
// legacy consumers render.
type Quests struct {
	Main     string   `json:"main,omitempty"`
	Optional []string `json:"optional,omitempty"`
}

// StatsRecord is the canonical user-stats tracker.
type StatsRecord struct {
	Stats     []Stat            `json:"stats,omitempty"`
	Status    map[string]string `json:"status,omitempty"`
	Skills    []Named           `json:"skills,omitempty"`
	Inventory *Inventory        `json:"inventory,omitempty"`
	Quests    *Quests           `json:"quests,omitempty"`
}

// =============================================================================
// INFO BOX
// =============================================================================

// DateWidget holds the in-world date as the model reported it.
type DateWidget struct {
	Value string `json:"value"`
}

// WeatherWidget holds current conditions and an optional forecast line.
type WeatherWidget struct {
	Condition string `json:"condition"`
	Forecast  string `json:"forecast,omitempty"`
}

// TemperatureWidget holds a numeric temperature and its unit.
type TemperatureWidget struct {
	Value int    `json:"value"`
	Unit  string `json:"unit,omitempty"`
}

// TimeWidget holds the in-world clock time.
type TimeWidget struct {
	Value string `json:"value"`
}

// LocationWidget holds the current location and its wider area.
type LocationWidget struct {
	Name string `json:"name"`
	Area string `json:"area,omitempty"`
}

// InfoBoxRecord is the canonical info-box tracker: a sparse set of
// independent widgets, each present only when enabled by configuration.
type InfoBoxRecord struct {
	Date         *DateWidget        `json:"date,omitempty"`
	Weather      *WeatherWidget     `json:"weather,omitempty"`
	Temperature  *TemperatureWidget `json:"temperature,omitempty"`
	Time         *TimeWidget        `json:"time,omitempty"`
	Location     *LocationWidget    `json:"location,omitempty"`
	RecentEvents []string           `json:"recentEvents,omitempty"`
}

// =============================================================================
// CHARACTERS
// =============================================================================

// NamedValue is a per-character stat entry.
type NamedValue struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Relationship carries the character's relationship status toward the player,
// one of the configured enumerated set.
type Relationship struct {
	Status string `json:"status"`
}

// Thoughts carries the character's current inner monologue line.
type Thoughts struct {
	Content string `json:"content"`
}

// CharacterRecord is one entry of the present-characters tracker.
type CharacterRecord struct {
	Name         string            `json:"name"`
	Emoji        string            `json:"emoji,omitempty"`
	Details      map[string]string `json:"details,omitempty"`
	Relationship *Relationship     `json:"relationship,omitempty"`
	Stats        []NamedValue      `json:"stats,omitempty"`
	Thoughts     *Thoughts         `json:"thoughts,omitempty"`
}
