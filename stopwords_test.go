package textlab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStopwordLanguages(t *testing.T) {
	assert.Equal(t, []string{"english", "french", "portuguese", "spanish"}, StopwordLanguages())
}

func TestStopwords(t *testing.T) {
	stop, err := Stopwords("English")
	require.NoError(t, err)
	for _, w := range []string{"the", "a", "and", "of", "is"} {
		assert.Contains(t, stop, w)
	}
	assert.NotContains(t, stop, "night")

	_, err = Stopwords("klingon")
	assert.ErrorIs(t, err, ErrUnknownLanguage)
}

func TestRemoveStopwords(t *testing.T) {
	stop, err := Stopwords("english")
	require.NoError(t, err)
	words := []string{"Do", "not", "go", "gentle", "into", "that", "good", "night", "."}
	got := RemoveStopwords(AlphaOnly(words), stop)
	assert.Equal(t, []string{"go", "gentle", "good", "night"}, got)
}

func TestAlphaOnly(t *testing.T) {
	got := AlphaOnly([]string{"It", "'s", "n't", "3", "rage", ",", "café"})
	assert.Equal(t, []string{"It", "rage", "café"}, got)
}
