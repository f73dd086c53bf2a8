package textlab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWordNetLemmatizer(t *testing.T) {
	l := openTestToolkit(t).Lemmatizer()
	tests := []struct {
		word, pos, want string
	}{
		{"dogs", "", "dog"},
		{"children", "n", "child"},
		{"cooking", "v", "cook"},
		{"dying", "v", "die"},
		{"better", "a", "good"},
		{"zzyzx", "n", "zzyzx"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, l.Lemmatize(tt.word, tt.pos), "Lemmatize(%q, %q)", tt.word, tt.pos)
	}
}

func TestDictLemmatizer(t *testing.T) {
	l, err := NewDictLemmatizer()
	require.NoError(t, err)
	assert.Equal(t, "child", l.Lemmatize("children", ""))
	assert.Equal(t, "qwxzv", l.Lemmatize("qwxzv", ""))
	assert.True(t, l.Known("Dog"))
	assert.False(t, l.Known("qwxzv"))
}

func TestWordNetPOS(t *testing.T) {
	for tag, want := range map[string]string{
		"JJ": "a", "JJS": "a", "VBD": "v", "VB": "v", "RB": "r", "RBR": "r", "NN": "n", "DT": "n",
	} {
		assert.Equal(t, want, WordNetPOS(tag), "WordNetPOS(%q)", tag)
	}
}

func TestLemmatizeTagged(t *testing.T) {
	l := openTestToolkit(t).Lemmatizer()
	got := LemmatizeTagged(l, []TaggedWord{{"children", "NNS"}, {"died", "VBD"}, {"better", "JJR"}})
	assert.Equal(t, []string{"child", "die", "good"}, got)
}

func TestWordSet(t *testing.T) {
	ws := NewWordSet("Love", "goose")
	assert.True(t, ws.Known("LOVE"))
	assert.False(t, ws.Known("loove"))
}
