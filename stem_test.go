package textlab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPorterStemmer(t *testing.T) {
	var s PorterStemmer
	tests := []struct {
		word, want string
	}{
		{"caresses", "caress"},
		{"ponies", "poni"},
		{"ties", "tie"},
		{"cats", "cat"},
		{"running", "run"},
		{"hopping", "hop"},
		{"cooking", "cook"},
		{"relational", "relat"},
		{"gentle", "gentl"},
		{"dying", "die"},
		{"skies", "sky"},
		{"Go", "go"},
		{"a", "a"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, s.Stem(tt.word), "Stem(%q)", tt.word)
	}
}

func TestSnowballStemmer(t *testing.T) {
	s, err := NewSnowballStemmer("English")
	require.NoError(t, err)
	assert.Equal(t, "run", s.Stem("running"))
	assert.Equal(t, "cook", s.Stem("cooking"))

	es, err := NewSnowballStemmer("spanish")
	require.NoError(t, err)
	assert.Equal(t, "habl", es.Stem("hablando"))

	_, err = NewSnowballStemmer("latin")
	assert.ErrorIs(t, err, ErrUnknownLanguage)
	assert.Contains(t, SnowballLanguages(), "english")
}
