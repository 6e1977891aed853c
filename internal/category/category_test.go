package category

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromValues_SortedUnique(t *testing.T) {
	s := FromValues([]string{"D4", "B2", "", "D4", "A1"})
	assert.Equal(t, []string{"A1", "B2", "D4"}, s.Labels())
	assert.Equal(t, 3, s.Len())
	assert.True(t, s.Contains("B2"))
	assert.False(t, s.Contains(""))
}

func TestSet_AddIsIdempotent(t *testing.T) {
	s := FromValues([]string{"Y"})
	assert.True(t, s.Add("N"))
	assert.False(t, s.Add("N"))
	assert.False(t, s.Add(""))
	assert.Equal(t, []string{"Y", "N"}, s.Labels())
}

func TestSet_Value(t *testing.T) {
	s := NewSet("N", "Y")

	y, err := s.Value("Y")
	require.NoError(t, err)
	assert.True(t, y.Is("Y"))
	assert.False(t, y.Is("N"))
	assert.Equal(t, "Y", y.String())

	m, err := s.Value("")
	require.NoError(t, err)
	assert.True(t, m.IsMissing())
	assert.False(t, m.Is(""))

	_, err = s.Value("maybe")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownLabel))
}

func TestSet_Values(t *testing.T) {
	s := NewSet("A", "B")
	vals, err := s.Values([]string{"A", "", "B"})
	require.NoError(t, err)
	require.Len(t, vals, 3)
	assert.Equal(t, "A", vals[0].Label())
	assert.True(t, vals[1].IsMissing())

	_, err = s.Values([]string{"A", "C"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestValue_ZeroIsMissing(t *testing.T) {
	var v Value
	assert.True(t, v.IsMissing())
	assert.Equal(t, "", v.Label())
}

func TestValue_MarshalJSON(t *testing.T) {
	s := NewSet("Part One")
	v, err := s.Value("Part One")
	require.NoError(t, err)
	b, err := json.Marshal(struct {
		A Value
		B Value
	}{A: v, B: s.Missing()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"A":"Part One","B":null}`, string(b))
}
