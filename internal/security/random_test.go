package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomStringRejectsBadArguments(t *testing.T) {
	t.Parallel()

	_, err := RandomString(-1, AlphanumericAlphabet)
	assert.ErrorIs(t, err, errNegativeLength)

	_, err = RandomString(4, "")
	assert.ErrorIs(t, err, errBadAlphabet)

	_, err = RandomString(4, strings.Repeat("a", 257))
	assert.ErrorIs(t, err, errBadAlphabet)

	empty, err := RandomString(0, "")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRandomStringStaysInsideAlphabet(t *testing.T) {
	t.Parallel()

	for _, alphabet := range []string{"X", ReadableAlphabet, AlphanumericAlphabet} {
		got, err := RandomString(64, alphabet)
		require.NoError(t, err)
		require.Len(t, got, 64)
		for _, char := range got {
			assert.True(t, strings.ContainsRune(alphabet, char), "char %q outside %q", char, alphabet)
		}
	}
}

func TestReadableAlphabetSkipsLookAlikes(t *testing.T) {
	t.Parallel()

	assert.False(t, strings.ContainsAny(ReadableAlphabet, "0O1lI"))
}

func TestRandomStringVaries(t *testing.T) {
	t.Parallel()

	first, err := RandomString(32, AlphanumericAlphabet)
	require.NoError(t, err)
	second, err := RandomString(32, AlphanumericAlphabet)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
