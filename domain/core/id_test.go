package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionIDIsUniqueAndParsable(t *testing.T) {
	a := NewSessionID()
	b := NewSessionID()
	assert.NotEqual(t, a, b)

	parsed, err := ParseSessionID(a.String())
	require.NoError(t, err)
	assert.Equal(t, a, parsed)
}

func TestParseSessionIDRejectsGarbage(t *testing.T) {
	_, err := ParseSessionID("  ")
	assert.Error(t, err)

	_, err = ParseSessionID("not-a-uuid")
	assert.Error(t, err)
}

func TestCanonicalHashIgnoresMapInsertionOrder(t *testing.T) {
	a := map[string]interface{}{}
	a["median"] = map[string]interface{}{"window_size": 5}
	a["savgol"] = map[string]interface{}{"order": 3, "window": 25}

	b := map[string]interface{}{}
	b["savgol"] = map[string]interface{}{"window": 25, "order": 3}
	b["median"] = map[string]interface{}{"window_size": 5.0}

	ha, err := CanonicalHash(a)
	require.NoError(t, err)
	hb, err := CanonicalHash(b)
	require.NoError(t, err)
	assert.True(t, ha.Equals(hb))
}
