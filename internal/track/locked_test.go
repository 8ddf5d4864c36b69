package track

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsLockWrapper(t *testing.T) {
	assert.True(t, IsLockWrapper(map[string]any{"value": 1.0, "locked": true}))
	assert.False(t, IsLockWrapper(map[string]any{"value": 1.0}))
	assert.False(t, IsLockWrapper(map[string]any{"value": 1.0, "locked": true, "extra": 0}))
	assert.False(t, IsLockWrapper("bare"))
}

func TestFromValue(t *testing.T) {
	ml := FromValue(map[string]any{"value": "Escape", "locked": true})
	assert.True(t, ml.Locked)
	assert.Equal(t, "Escape", ml.Value)

	ml = FromValue("Escape")
	assert.False(t, ml.Locked)
	assert.Equal(t, "Escape", ml.Value)

	// Round trip through the marshaled wire shape.
	b, err := json.Marshal(MaybeLocked{Value: 80.0, Locked: true})
	require.NoError(t, err)
	var decoded any
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.True(t, IsLockWrapper(decoded))
	assert.Equal(t, 80.0, FromValue(decoded).Value)
}

func TestMaybeLocked_BothShapes(t *testing.T) {
	var bare MaybeLocked
	require.NoError(t, json.Unmarshal([]byte(`80`), &bare))
	assert.Equal(t, 80.0, bare.Value)
	assert.False(t, bare.Locked)

	var wrapped MaybeLocked
	require.NoError(t, json.Unmarshal([]byte(`{"value":80,"locked":true}`), &wrapped))
	assert.Equal(t, 80.0, wrapped.Value)
	assert.True(t, wrapped.Locked)

	// Marshal reproduces the shape each was decoded from.
	b, err := json.Marshal(bare)
	require.NoError(t, err)
	assert.JSONEq(t, `80`, string(b))

	b, err = json.Marshal(wrapped)
	require.NoError(t, err)
	assert.JSONEq(t, `{"value":80,"locked":true}`, string(b))
}
