package textlab

import (
	"strings"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"

	"github.com/cours-de-latin/textlab/wordnet"
)

// Lemmatizer maps a word to its dictionary form. pos is a WordNet part
// of speech ("n", "v", "a", "r"); empty means noun.
type Lemmatizer interface {
	Lemmatize(word, pos string) string
}

// Dictionary tells whether a word is a valid dictionary word.
type Dictionary interface {
	Known(word string) bool
}

var (
	_ Dictionary = (*wordnet.WordNet)(nil)
	_ Dictionary = DictWords{}
	_ Dictionary = WordSet(nil)
)

// WordNetLemmatizer lemmatizes with WordNet's morphological processor.
type WordNetLemmatizer struct {
	WordNet *wordnet.WordNet
}

// Lemmatize returns the shortest base form of word found in WordNet
// for pos, or word unchanged when there is none.
func (l *WordNetLemmatizer) Lemmatize(word, pos string) string {
	if pos == "" {
		pos = wordnet.Noun
	}
	forms := l.WordNet.BaseForms(word, pos)
	if len(forms) == 0 {
		return word
	}
	best := forms[0]
	for _, f := range forms[1:] {
		if len(f) < len(best) {
			best = f
		}
	}
	return best
}

// DictLemmatizer lemmatizes English with the golem dictionary. It
// ignores the part of speech.
type DictLemmatizer struct {
	lem *golem.Lemmatizer
}

// NewDictLemmatizer loads the bundled English dictionary.
func NewDictLemmatizer() (*DictLemmatizer, error) {
	lem, err := golem.New(en.New())
	if err != nil {
		return nil, err
	}
	return &DictLemmatizer{lem: lem}, nil
}

// Lemmatize returns the dictionary lemma of word, or word itself when
// it is not in the dictionary.
func (d *DictLemmatizer) Lemmatize(word, _ string) string {
	if !d.lem.InDict(word) {
		return word
	}
	return d.lem.Lemma(word)
}

// Known reports whether word is in the dictionary.
func (d *DictLemmatizer) Known(word string) bool {
	return d.lem.InDict(strings.ToLower(word))
}

// DictWords adapts a DictLemmatizer to Dictionary.
type DictWords struct {
	*DictLemmatizer
}

// WordSet is an in-memory Dictionary.
type WordSet map[string]struct{}

// NewWordSet returns a set of the given words, lower-cased.
func NewWordSet(words ...string) WordSet {
	ws := make(WordSet, len(words))
	for _, w := range words {
		ws[strings.ToLower(w)] = struct{}{}
	}
	return ws
}

// Known reports whether the lower-cased word is in the set.
func (ws WordSet) Known(word string) bool {
	_, ok := ws[strings.ToLower(word)]
	return ok
}

// WordNetPOS maps a Penn Treebank tag to the WordNet part of speech
// used by Lemmatize: JJ* → a, VB* → v, RB* → r, everything else → n.
func WordNetPOS(tag string) string {
	switch {
	case strings.HasPrefix(tag, "JJ"):
		return wordnet.Adj
	case strings.HasPrefix(tag, "VB"):
		return wordnet.Verb
	case strings.HasPrefix(tag, "RB"):
		return wordnet.Adv
	}
	return wordnet.Noun
}

// LemmatizeTagged lemmatizes each word of a tagged sentence using the
// part of speech implied by its tag.
func LemmatizeTagged(l Lemmatizer, sent []TaggedWord) []string {
	out := make([]string, len(sent))
	for i, tw := range sent {
		out[i] = l.Lemmatize(tw.Word, WordNetPOS(tw.Tag))
	}
	return out
}
