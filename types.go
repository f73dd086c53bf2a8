package textlab

import (
	"errors"
	"sort"
	"strings"
)

// Sentinel errors returned by the package.
var (
	ErrUnknownLanguage = errors.New("textlab: unknown language")
	ErrEmptyGrammar    = errors.New("textlab: empty chunk grammar")
	ErrBadGrammar      = errors.New("textlab: malformed chunk grammar")
	ErrNoTrainingData  = errors.New("textlab: no training data")
)

// TaggedWord is a token paired with its part-of-speech tag.
// An empty Tag means no tagger in the chain could label the word.
type TaggedWord struct {
	Word string
	Tag  string
}

// String renders the pair in the word/TAG notation.
func (tw TaggedWord) String() string {
	return tw.Word + "/" + tw.Tag
}

// TaggedSent is a tagged sentence.
type TaggedSent []TaggedWord

// Words returns the tokens of the sentence.
func (s TaggedSent) Words() []string {
	out := make([]string, len(s))
	for i, tw := range s {
		out[i] = tw.Word
	}
	return out
}

// Tags returns the tags of the sentence.
func (s TaggedSent) Tags() []string {
	out := make([]string, len(s))
	for i, tw := range s {
		out[i] = tw.Tag
	}
	return out
}

// String renders the sentence as space-separated word/TAG pairs.
func (s TaggedSent) String() string {
	parts := make([]string, len(s))
	for i, tw := range s {
		parts[i] = tw.String()
	}
	return strings.Join(parts, " ")
}

// ConllTag is one row of the CoNLL chunk representation: a word, its
// part-of-speech tag and its IOB chunk tag (e.g. "B-NP", "I-NP", "O").
type ConllTag struct {
	Word string
	Tag  string
	IOB  string
}

// zip pairs words with tags; the shorter slice bounds the result.
func zip(words, tags []string) TaggedSent {
	n := min(len(words), len(tags))
	out := make(TaggedSent, n)
	for i := 0; i < n; i++ {
		out[i] = TaggedWord{Word: words[i], Tag: tags[i]}
	}
	return out
}

// sortedKeys returns the keys of m in increasing order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
