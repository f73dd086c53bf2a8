package textlab

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterInsignificant(t *testing.T) {
	chunk := tagged("the", "DT", "terrible", "JJ", "and", "CC", "movie", "NN")
	assert.Equal(t, tagged("terrible", "JJ", "movie", "NN"), FilterInsignificant(chunk))
	assert.Equal(t, tagged("the", "DT", "terrible", "JJ", "and", "CC"), FilterInsignificant(chunk, "NN"))
}

func TestFirstChunkIndex(t *testing.T) {
	chunk := tagged("the", "DT", "cat", "NN", "sat", "VBD")
	assert.Equal(t, 1, FirstChunkIndex(chunk, TagStartsWith("NN"), 0, 1))
	assert.Equal(t, 1, FirstChunkIndex(chunk, TagStartsWith("NN"), 2, -1))
	assert.Equal(t, -1, FirstChunkIndex(chunk, TagEquals("CD"), 0, 1))
	assert.Equal(t, 2, FirstChunkIndex(chunk, TagEquals("VBD"), 0, 0))
}

func TestCorrectVerbs(t *testing.T) {
	tests := []struct {
		name  string
		chunk []TaggedWord
		want  []TaggedWord
	}{
		{
			name:  "plural noun after the verb",
			chunk: tagged("is", "VBZ", "the", "DT", "children", "NNS", "singing", "VBG"),
			want:  tagged("are", "VBP", "the", "DT", "children", "NNS", "singing", "VBG"),
		},
		{
			name:  "singular noun before the verb",
			chunk: tagged("the", "DT", "doctor", "NN", "were", "VBD", "right", "JJ"),
			want:  tagged("the", "DT", "doctor", "NN", "was", "VBD", "right", "JJ"),
		},
		{
			name:  "no noun",
			chunk: tagged("is", "VBZ", "right", "JJ"),
			want:  tagged("is", "VBZ", "right", "JJ"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := append([]TaggedWord(nil), tt.chunk...)
			assert.Equal(t, tt.want, CorrectVerbs(tt.chunk))
			assert.Equal(t, orig, tt.chunk)
		})
	}
}

func TestSwaps(t *testing.T) {
	assert.Equal(t,
		tagged("great", "JJ", "the", "DT", "book", "NN"),
		SwapVerbPhrase(tagged("the", "DT", "book", "NN", "was", "VBD", "great", "JJ")))
	assert.Equal(t,
		tagged("the", "DT", "book", "NN"),
		SwapVerbPhrase(tagged("the", "DT", "book", "NN")))

	assert.Equal(t,
		tagged("10", "CD", "Dec.", "NNP"),
		SwapNounCardinal(tagged("Dec.", "NNP", "10", "CD")))
	assert.Equal(t,
		tagged("the", "DT", "10", "CD", "top", "NN"),
		SwapNounCardinal(tagged("the", "DT", "top", "NN", "10", "CD")))
	assert.Equal(t,
		tagged("10", "CD", "books", "NNS"),
		SwapNounCardinal(tagged("10", "CD", "books", "NNS")))

	assert.Equal(t,
		tagged("recipes", "NNS", "book", "NN"),
		SwapInfinitivePhrase(tagged("book", "NN", "of", "IN", "recipes", "NNS")))
	assert.Equal(t,
		tagged("the", "DT", "death", "NN", "sentence", "NN"),
		SwapInfinitivePhrase(tagged("the", "DT", "sentence", "NN", "of", "IN", "death", "NN")))
	assert.Equal(t,
		tagged("food", "NN", "like", "IN", "pizza", "NN"),
		SwapInfinitivePhrase(tagged("food", "NN", "like", "IN", "pizza", "NN")))
}

func TestSingularizePluralNoun(t *testing.T) {
	assert.Equal(t,
		tagged("recipe", "NN", "book", "NN"),
		SingularizePluralNoun(tagged("recipes", "NNS", "book", "NN")))
	assert.Equal(t,
		tagged("the", "DT", "recipes", "NNS"),
		SingularizePluralNoun(tagged("the", "DT", "recipes", "NNS")))
}

func TestTransformChunk(t *testing.T) {
	var trace bytes.Buffer
	got := TransformChunk(tagged("the", "DT", "book", "NN", "of", "IN", "recipes", "NNS"), nil, &trace)
	assert.Equal(t, tagged("recipe", "NN", "book", "NN"), got)
	assert.Equal(t, "filter_insignificant : book/NN of/IN recipes/NNS\n"+
		"swap_verb_phrase : book/NN of/IN recipes/NNS\n"+
		"swap_infinitive_phrase : recipes/NNS book/NN\n"+
		"singularize_plural_noun : recipe/NN book/NN\n", trace.String())

	only := []ChunkTransform{{"swap_noun_cardinal", SwapNounCardinal}}
	assert.Equal(t, tagged("10", "CD", "Dec.", "NNP"), TransformChunk(tagged("Dec.", "NNP", "10", "CD"), only, nil))
}
