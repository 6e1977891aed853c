package literal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStrings(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"two names", "['A', 'B']", []string{"A", "B"}},
		{"empty", "[]", []string{}},
		{"empty with spaces", "  [ ]  ", []string{}},
		{"double quotes", `["Tom Hanks", "Meg Ryan"]`, []string{"Tom Hanks", "Meg Ryan"}},
		{"mixed quotes", `["O'Brien", 'Smith']`, []string{"O'Brien", "Smith"}},
		{"escaped quote", `['O\'Brien']`, []string{"O'Brien"}},
		{"escaped backslash", `['a\\b']`, []string{`a\b`}},
		{"trailing comma", "['Drama',]", []string{"Drama"}},
		{"adjacent literals", "['ab' 'cd']", []string{"abcd"}},
		{"unicode", "['Amélie', '千と千尋']", []string{"Amélie", "千と千尋"}},
		{"commas inside", "['Crosby, Stills']", []string{"Crosby, Stills"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStrings(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NotNil(t, got)
		})
	}
}

func TestParseStrings_Rejects(t *testing.T) {
	bad := []string{
		"",
		"['A', 'B'",
		"'A', 'B']",
		"[['A']]",
		"['A' 'B",
		"[A, B]",
		"[1, 2]",
		"['A'] extra",
		"['A',, 'B']",
		"__import__('os')",
		"['line\nbreak']",
	}
	for _, in := range bad {
		t.Run(in, func(t *testing.T) {
			got, err := ParseStrings(in)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.True(t, errors.Is(err, ErrDecode))
			var de *DecodeError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, in, de.Input)
		})
	}
}

func TestDecodeError_Offset(t *testing.T) {
	_, err := ParseStrings("['A'; 'B']")
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 4, de.Offset)
	assert.Contains(t, de.Error(), "expected ',' or ']'")
}
