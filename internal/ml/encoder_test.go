package ml

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelEncoderSortsClasses(t *testing.T) {
	e := NewLabelEncoder([]string{"sports", "music", "festival", "music", "sports"})

	assert.Equal(t, []string{"festival", "music", "sports"}, e.Classes)
	assert.Equal(t, 0, e.Encode("festival"))
	assert.Equal(t, 1, e.Encode("music"))
	assert.Equal(t, 2, e.Encode("sports"))
}

func TestLabelEncoderOrderIndependent(t *testing.T) {
	a := NewLabelEncoder([]string{"b", "a", "c"})
	b := NewLabelEncoder([]string{"c", "b", "a", "a"})

	assert.Equal(t, a.Classes, b.Classes)
	assert.Equal(t, a.Encode("b"), b.Encode("b"))
}

func TestLabelEncoderUnknownFallsBackToZero(t *testing.T) {
	e := NewLabelEncoder([]string{"music", "sports"})

	assert.Equal(t, 0, e.Encode("parade"))
	assert.False(t, e.Known("parade"))
	assert.True(t, e.Known("music"))
}

func TestLabelEncoderSurvivesJSONRoundTrip(t *testing.T) {
	e := NewLabelEncoder([]string{"sports", "music"})

	data, err := json.Marshal(e)
	require.NoError(t, err)

	var decoded LabelEncoder
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, e.Encode("sports"), decoded.Encode("sports"))
	assert.Equal(t, 0, decoded.Encode("unseen"))
}
