package normalize

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tracknerd/internal/config"
	"tracknerd/internal/track"
)

func TestToKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Test Tracker", "test_tracker"},
		{"  Already_snake ", "already_snake"},
		{"HP", "hp"},
		{"Hit Points!!", "hit_points"},
		{"__weird--name__", "weird_name"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToKey(tt.in), "ToKey(%q)", tt.in)
	}
}

func TestLookup_CasingDrift(t *testing.T) {
	m := map[string]any{"Test Tracker": 1.0, "already_snake": 2.0}

	v, ok := Lookup(m, "Test Tracker")
	require.True(t, ok)
	assert.Equal(t, 1.0, v)

	v, ok = Lookup(m, "test tracker")
	require.True(t, ok)
	assert.Equal(t, 1.0, v)

	v, ok = Lookup(m, "Already Snake")
	require.True(t, ok)
	assert.Equal(t, 2.0, v)

	_, ok = Lookup(m, "missing")
	assert.False(t, ok)
}

func TestCoerceInt(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int
		ok   bool
	}{
		{"float", 80.0, 80, true},
		{"string", "42", 42, true},
		{"percent", "80%", 80, true},
		{"unit suffix", "22°C", 22, true},
		{"thousands", "1,200 gold", 1200, true},
		{"negative", "-5", -5, true},
		{"words", "plenty", 0, false},
		{"nil", nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CoerceInt(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNumericField_AliasChain(t *testing.T) {
	assert.Equal(t, 45, NumericField(map[string]any{"duration": 45.0}, "time", 30))
	assert.Equal(t, 70, NumericField(map[string]any{"stamina": "70%"}, "energy", 100))
	assert.Equal(t, 12, NumericField(map[string]any{"gold": 12.0}, "money", 0))
	assert.Equal(t, 90, NumericField(map[string]any{"health": 90.0}, "hp", 100))
	assert.Equal(t, 30, NumericField(map[string]any{}, "time", 30))
}

func TestRiskLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"high", RiskHigh},
		{"Severe", RiskHigh},
		{"slightly dangerous", RiskHigh},
		{"moderate", RiskMedium},
		{"minor", RiskLow},
		{"none", RiskNone},
		{"???", RiskNone},
		{"", RiskNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RiskLevel(tt.in), "RiskLevel(%q)", tt.in)
	}
}

func TestInventory_DisplayRoundTrip(t *testing.T) {
	items := ParseItems("3x Rope, Lantern")
	want := []track.Item{{Name: "Rope", Quantity: 3}, {Name: "Lantern"}}
	require.Empty(t, cmp.Diff(want, items))

	assert.Equal(t, "3x Rope, Lantern", FormatItems(items))
	assert.Equal(t, "Knife", FormatItems([]track.Item{{Name: "Knife", Quantity: 1}}))
}

func TestQuestDisplay(t *testing.T) {
	assert.Equal(t, "Find the key", QuestDisplay("Find the key"))
	assert.Equal(t, "Find the key", QuestDisplay(map[string]any{"title": "Find the key"}))
	assert.Equal(t, "A locked door", QuestDisplay(map[string]any{"description": "A locked door"}))

	// Lock wrappers unwrap recursively before coercion.
	wrapped := map[string]any{
		"value":  map[string]any{"value": map[string]any{"title": "Find the key"}, "locked": true},
		"locked": true,
	}
	assert.Equal(t, "Find the key", QuestDisplay(wrapped))
}

func TestStats_JSON(t *testing.T) {
	n := New(nil, nil)

	rec := n.Stats(`{"stats":[{"id":"hp","name":"HP","value":80}],"status":{"Condition":"Bruised","Risk":"very dangerous"},"skills":["Climbing"],"inventory":{"onPerson":"3x Rope, Lantern"},"quests":{"main":{"title":"Escape"},"optional":["Find food"]}}`)
	require.NotNil(t, rec)
	require.Empty(t, cmp.Diff([]track.Stat{{ID: "hp", Name: "HP", Value: 80}}, rec.Stats))
	assert.Equal(t, "Bruised", rec.Status["Condition"])
	assert.Equal(t, RiskHigh, rec.Status["Risk"])
	require.Empty(t, cmp.Diff([]track.Named{{Name: "Climbing"}}, rec.Skills))
	require.NotNil(t, rec.Inventory)
	require.Empty(t, cmp.Diff([]track.Item{{Name: "Rope", Quantity: 3}, {Name: "Lantern"}}, rec.Inventory.OnPerson))
	require.NotNil(t, rec.Quests)
	assert.Equal(t, "Escape", rec.Quests.Main)
	assert.Equal(t, []string{"Find food"}, rec.Quests.Optional)
}

func TestStats_TopLevelShorthand(t *testing.T) {
	n := New(nil, nil)

	rec := n.Stats(`{"HP":"80%","energy":60}`)
	require.NotNil(t, rec)
	require.Empty(t, cmp.Diff([]track.Stat{
		{ID: "hp", Name: "HP", Value: 80},
		{ID: "energy", Name: "Energy", Value: 60},
	}, rec.Stats))
}

func TestStats_AliasChain(t *testing.T) {
	n := New(nil, nil)

	rec := n.Stats(`{"health": 90, "stamina": 40}`)
	require.NotNil(t, rec)
	require.Empty(t, cmp.Diff([]track.Stat{
		{ID: "hp", Name: "HP", Value: 90},
		{ID: "energy", Name: "Energy", Value: 40},
	}, rec.Stats))

	// An alias that is present but unparseable falls back to the
	// configured default constant.
	rec = n.Stats(`{"health": "unknown"}`)
	require.NotNil(t, rec)
	require.Empty(t, cmp.Diff([]track.Stat{{ID: "hp", Name: "HP", Value: 100}}, rec.Stats))

	rec = n.Stats(`{"stats":{"hit_points": 75}}`)
	require.NotNil(t, rec)
	require.Empty(t, cmp.Diff([]track.Stat{{ID: "hp", Name: "HP", Value: 75}}, rec.Stats))
}

func TestStats_ClampedToConfiguredMax(t *testing.T) {
	cfg := config.Default()
	cfg.UserStats.Stats = append(cfg.UserStats.Stats, config.StatDef{ID: "sanity", Name: "Sanity", Max: 200})
	n := New(cfg, nil)

	rec := n.Stats(`{"stats":[{"id":"hp","name":"HP","value":150},{"id":"sanity","name":"Sanity","value":150},{"id":"energy","name":"Energy","value":-20}]}`)
	require.NotNil(t, rec)
	require.Empty(t, cmp.Diff([]track.Stat{
		{ID: "hp", Name: "HP", Value: 100},
		{ID: "sanity", Name: "Sanity", Value: 150},
		{ID: "energy", Name: "Energy", Value: 0},
	}, rec.Stats))
}

func TestStats_LegacyText(t *testing.T) {
	cfg := config.Default()
	cfg.UserStats.Stats = []config.StatDef{
		{ID: "health", Name: "Health"},
		{ID: "energy", Name: "Energy"},
	}
	n := New(cfg, nil)

	rec := n.Stats("Health: 80%\nEnergy: 60%\nCondition: Tired, but stable\nMood: Calm\nInventory: 2x Apple, Knife")
	require.NotNil(t, rec)
	require.Empty(t, cmp.Diff([]track.Stat{
		{ID: "health", Name: "Health", Value: 80},
		{ID: "energy", Name: "Energy", Value: 60},
	}, rec.Stats))
	assert.Equal(t, "Tired", rec.Status["Condition"])
	assert.Equal(t, "Calm", rec.Status["Mood"])
	require.NotNil(t, rec.Inventory)
	require.Empty(t, cmp.Diff([]track.Item{{Name: "Apple", Quantity: 2}, {Name: "Knife"}}, rec.Inventory.OnPerson))
}

func TestInfoBox_JSON(t *testing.T) {
	n := New(nil, nil)

	rec := n.InfoBox(`{"date":"May 5","weather":{"condition":"Rain","forecast":"Clearing"},"temperature":"18°C","time":{"value":"10:00"},"location":{"name":"Harbor","area":"Docks"},"recentEvents":["Ship arrived"]}`)
	require.NotNil(t, rec)
	assert.Equal(t, "May 5", rec.Date.Value)
	assert.Equal(t, "Rain", rec.Weather.Condition)
	assert.Equal(t, "Clearing", rec.Weather.Forecast)
	assert.Equal(t, 18, rec.Temperature.Value)
	assert.Equal(t, "C", rec.Temperature.Unit)
	assert.Equal(t, "10:00", rec.Time.Value)
	assert.Equal(t, "Harbor", rec.Location.Name)
	assert.Equal(t, "Docks", rec.Location.Area)
	assert.Equal(t, []string{"Ship arrived"}, rec.RecentEvents)
}

func TestInfoBox_DisabledWidgetsAbsent(t *testing.T) {
	cfg := config.Default()
	cfg.InfoBox.Weather = false
	cfg.InfoBox.Temperature = false
	n := New(cfg, nil)

	rec := n.InfoBox(`{"date":"May 5","weather":"Rain","temperature":22}`)
	require.NotNil(t, rec)
	assert.NotNil(t, rec.Date)
	assert.Nil(t, rec.Weather)
	assert.Nil(t, rec.Temperature)
}

func TestInfoBox_LegacyText(t *testing.T) {
	n := New(nil, nil)

	rec := n.InfoBox("Date: May 5\nWeather: Light rain\nTime: 10:00\nLocation: Harbor District\nRecent Events: Ship arrived; Market opened")
	require.NotNil(t, rec)
	assert.Equal(t, "May 5", rec.Date.Value)
	assert.Equal(t, "Light rain", rec.Weather.Condition)
	assert.Equal(t, "10:00", rec.Time.Value)
	assert.Equal(t, "Harbor District", rec.Location.Name)
	assert.Equal(t, []string{"Ship arrived", "Market opened"}, rec.RecentEvents)
}

func TestCharacters_JSON(t *testing.T) {
	n := New(nil, nil)

	recs := n.Characters(`[{"name":"Alice","emoji":"🦊","details":{"Occupation":"Dockworker"},"relationship":{"status":"friend"},"stats":[{"name":"Trust","value":60}],"thoughts":"Wary of strangers"}]`)
	require.Len(t, recs, 1)
	c := recs[0]
	assert.Equal(t, "Alice", c.Name)
	assert.Equal(t, "🦊", c.Emoji)
	assert.Equal(t, "Dockworker", c.Details["Occupation"])
	require.NotNil(t, c.Relationship)
	assert.Equal(t, "friend", c.Relationship.Status)
	require.Empty(t, cmp.Diff([]track.NamedValue{{Name: "Trust", Value: 60}}, c.Stats))
	require.NotNil(t, c.Thoughts)
	assert.Equal(t, "Wary of strangers", c.Thoughts.Content)
}

func TestCharacters_WrapperAndValidation(t *testing.T) {
	n := New(nil, nil)

	recs := n.Characters(`{"characters":[{"name":"Bob","relationship":"sworn nemesis"}]}`)
	require.Len(t, recs, 1)
	assert.Equal(t, "Bob", recs[0].Name)
	assert.Nil(t, recs[0].Relationship, "unconfigured status must be dropped")

	recs = n.Characters(`{"characters":[{"name":"Cara","relationship":"Friend"}]}`)
	require.Len(t, recs, 1)
	require.NotNil(t, recs[0].Relationship)
	assert.Equal(t, "friend", recs[0].Relationship.Status)
}

func TestCharacters_LegacyText(t *testing.T) {
	n := New(nil, nil)

	recs := n.Characters("- Alice 🦊\n  Relationship: friend\n  Occupation: Dockworker\n  Thoughts: Wary of strangers\n- Bob\n  Details: Quiet")
	require.Len(t, recs, 2)
	assert.Equal(t, "Alice", recs[0].Name)
	assert.Equal(t, "🦊", recs[0].Emoji)
	require.NotNil(t, recs[0].Relationship)
	assert.Equal(t, "friend", recs[0].Relationship.Status)
	assert.Equal(t, "Dockworker", recs[0].Details["Occupation"])
	require.NotNil(t, recs[0].Thoughts)
	assert.Equal(t, "Wary of strangers", recs[0].Thoughts.Content)
	assert.Equal(t, "Bob", recs[1].Name)
	assert.Equal(t, "Quiet", recs[1].Details["Details"])
}

func TestUnwrapLocked_Idempotent(t *testing.T) {
	in := map[string]any{
		"a": map[string]any{"value": 1.0, "locked": true},
		"b": []any{map[string]any{"value": "x", "locked": true}, "y"},
	}
	want := map[string]any{"a": 1.0, "b": []any{"x", "y"}}
	once := UnwrapLocked(in)
	require.Empty(t, cmp.Diff(want, once))
	require.Empty(t, cmp.Diff(once, UnwrapLocked(once)))
}
