package pipeline

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/goleak"

	"tracknerd/internal/store"
	"tracknerd/internal/track"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestProcessTurn_FencedStats(t *testing.T) {
	p := New(nil, store.NewMemory(), nil)

	res := p.ProcessTurn("```json\n{\"stats\":[{\"id\":\"hp\",\"name\":\"HP\",\"value\":80}]}\n```")
	require.False(t, res.ParsingFailed)
	require.NotNil(t, res.Stats)
	require.Empty(t, cmp.Diff([]track.Stat{{ID: "hp", Name: "HP", Value: 80}}, res.Stats.Stats))
	assert.NotEmpty(t, res.TurnID)

	stored, ok := p.Record(track.KindUserStats)
	require.True(t, ok)
	assert.Equal(t, int64(80), gjson.Get(stored, "stats.0.value").Int())
}

func TestProcessTurn_FailureRetainsLastKnownGood(t *testing.T) {
	st := store.NewMemory()
	p := New(nil, st, nil)

	good := p.ProcessTurn(`{"stats":[{"id":"hp","name":"HP","value":80}]}`)
	require.False(t, good.ParsingFailed)

	bad := p.ProcessTurn("As an AI I cannot comply.")
	assert.True(t, bad.ParsingFailed)
	assert.Nil(t, bad.Stats)

	stored, ok := st.Get(track.KindUserStats)
	require.True(t, ok)
	assert.Equal(t, int64(80), gjson.Get(stored, "stats.0.value").Int())
}

func TestProcessTurn_AliasKeyedStats(t *testing.T) {
	p := New(nil, store.NewMemory(), nil)

	// Keys drift between runs; the alias chains must still recover the
	// configured stats.
	res := p.ProcessTurn(`{"userStats":{"health": 90, "stamina": 40}}`)
	require.False(t, res.ParsingFailed)
	require.NotNil(t, res.Stats)
	require.Empty(t, cmp.Diff([]track.Stat{
		{ID: "hp", Name: "HP", Value: 90},
		{ID: "energy", Name: "Energy", Value: 40},
	}, res.Stats.Stats))

	stored, ok := p.Record(track.KindUserStats)
	require.True(t, ok)
	assert.Equal(t, int64(90), gjson.Get(stored, "stats.0.value").Int())
}

func TestProcessTurn_UnifiedWrapper(t *testing.T) {
	p := New(nil, store.NewMemory(), nil)

	res := p.ProcessTurn(`{"userStats":{"stats":[{"id":"hp","name":"HP","value":55}]},"infoBox":{"date":"May 5"}}`)
	require.False(t, res.ParsingFailed)
	require.NotNil(t, res.Stats)
	require.NotNil(t, res.InfoBox)
	assert.Equal(t, 55, res.Stats.Stats[0].Value)
	require.NotNil(t, res.InfoBox.Date)
	assert.Equal(t, "May 5", res.InfoBox.Date.Value)
}

func TestProcessTurn_StripsEchoedLocks(t *testing.T) {
	p := New(nil, store.NewMemory(), nil)

	res := p.ProcessTurn(`{"stats":[{"id":"hp","name":"HP","value":{"value":80,"locked":true}}]}`)
	require.False(t, res.ParsingFailed)
	require.NotNil(t, res.Stats)
	require.Len(t, res.Stats.Stats, 1)
	assert.Equal(t, 80, res.Stats.Stats[0].Value)

	stored, _ := p.Record(track.KindUserStats)
	assert.NotContains(t, stored, "locked")
}

func TestOutbound(t *testing.T) {
	st := store.NewMemory()
	p := New(nil, st, nil)

	turn := p.ProcessTurn(`{"stats":[{"id":"hp","name":"HP","value":80}]}
{"characters":[{"name":"Alice"}]}`)
	require.False(t, turn.ParsingFailed)

	st.Locks().SetLocked(track.KindUserStats, "stats.hp", true)

	out := p.Outbound()
	assert.Contains(t, out, "Previous User Stats:")
	assert.Contains(t, out, "Previous Present Characters:")
	assert.Contains(t, out, `"locked":true`)
	assert.Contains(t, out, `"locked": true`, "instructional suffix must explain the convention")
}

func TestOutbound_EmptyStore(t *testing.T) {
	p := New(nil, store.NewMemory(), nil)
	assert.Empty(t, p.Outbound())
}
