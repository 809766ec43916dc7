package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{" 2.50 ", "2.5", true},
		{"-400", "-400", true},
		{"0", "0", true},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if !tc.ok {
			assert.ErrorIs(t, err, ErrInvalidAmount, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.True(t, dec(tc.out).Equal(got), "%q: got %s", tc.in, got)
	}
}

func TestParseOptionalAmount(t *testing.T) {
	got, err := ParseOptionalAmount("  ")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseOptionalAmount("1.95")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, dec("1.95").Equal(*got))

	_, err = ParseOptionalAmount("x")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}
