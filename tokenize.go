package textlab

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/jdkato/prose/tokenize"
	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// SentenceTokenizer splits text into sentences with a Punkt model.
type SentenceTokenizer struct {
	punkt sentences.SentenceTokenizer
}

// Tokenize returns the sentences of text, trimmed of surrounding space.
func (st *SentenceTokenizer) Tokenize(text string) []string {
	var out []string
	for _, s := range st.punkt.Tokenize(text) {
		if t := strings.TrimSpace(s.Text); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// LoadPunkt reads Punkt training data (the JSON format of
// neurosnap/sentences) from path and returns a sentence tokenizer.
func LoadPunkt(path string) (*SentenceTokenizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read punkt model: %w", err)
	}
	storage, err := sentences.LoadTraining(data)
	if err != nil {
		return nil, fmt.Errorf("load punkt model: %w", err)
	}
	return &SentenceTokenizer{punkt: sentences.NewSentenceTokenizer(storage)}, nil
}

var (
	englishPunktOnce sync.Once
	englishPunkt     *SentenceTokenizer
	englishPunktErr  error

	treebank  = tokenize.NewTreebankWordTokenizer()
	wordPunct = tokenize.NewWordPunctTokenizer()
)

// EnglishSentenceTokenizer returns the Punkt tokenizer trained on
// English text that ships with neurosnap/sentences.
func EnglishSentenceTokenizer() (*SentenceTokenizer, error) {
	englishPunktOnce.Do(func() {
		punkt, err := english.NewSentenceTokenizer(nil)
		if err != nil {
			englishPunktErr = fmt.Errorf("load english punkt model: %w", err)
			return
		}
		englishPunkt = &SentenceTokenizer{punkt: punkt}
	})
	return englishPunkt, englishPunktErr
}

// SentTokenize splits English text into sentences.
func SentTokenize(text string) ([]string, error) {
	st, err := EnglishSentenceTokenizer()
	if err != nil {
		return nil, err
	}
	return st.Tokenize(text), nil
}

// TreebankTokenize splits text into words using the Penn Treebank
// conventions: punctuation is separated and contractions are split
// ("don't" → "do", "n't").
func TreebankTokenize(text string) []string {
	return treebank.Tokenize(text)
}

// WordTokenize splits text into sentences and each sentence into
// Treebank words.
func WordTokenize(text string) ([]string, error) {
	sents, err := SentTokenize(text)
	if err != nil {
		return nil, err
	}
	var words []string
	for _, s := range sents {
		words = append(words, TreebankTokenize(s)...)
	}
	return words, nil
}

// MustWordTokenize is WordTokenize for static sample text; it panics if
// the bundled sentence model cannot be loaded.
func MustWordTokenize(text string) []string {
	words, err := WordTokenize(text)
	if err != nil {
		panic(err)
	}
	return words
}

// WordPunctTokenize splits text into alphanumeric runs and runs of
// punctuation.
func WordPunctTokenize(text string) []string {
	return wordPunct.Tokenize(text)
}

// tweetRe matches tweet tokens, alternatives tried in order.
var tweetRe = regexp.MustCompile(strings.Join([]string{
	// URLs
	`(?:https?://|www\.)[^\s<>"]*[^\s<>".,;:!?'")\]]`,
	// emoticons
	`(?:[<>]?[:;=8][\-o*']?[)\](\[dDpP/:}{@|\\]|[)\](\[dDpP/:}{@|\\][\-o*']?[:;=8][<>]?|</?3)`,
	// HTML tags
	`<[^>\s]+>`,
	// arrows
	`[\-]+>|<[\-]+`,
	// handles
	`@\w+`,
	// hashtags
	`#+[\w_]+[\w'_\-]*[\w_]+`,
	// email addresses
	`[\w.+\-]+@[\w\-]+\.(?:[\w\-]\.?)+[\w\-]`,
	// numbers with separators, e.g. 5,500 and 3:59
	`[+\-]?\d+[,/.:\-]\d+[+\-]?`,
	// words with apostrophes or dashes
	`\pL(?:[\pL'\-_]*\pL)?`,
	// plain numbers and words
	`[+\-]?\d+(?:\.\d+)?%?`,
	`\w+`,
	// ellipsis
	`\.(?:\s*\.)+`,
	// anything else that is not whitespace
	`\S`,
}, "|"))

// emoticonRe recognizes emoticons so they are not lower-cased.
var emoticonRe = regexp.MustCompile(`^(?:[<>]?[:;=8][\-o*']?[)\](\[dDpP/:}{@|\\]|[)\](\[dDpP/:}{@|\\][\-o*']?[:;=8][<>]?|</?3)$`)

// TweetTokenizer tokenizes social-media text, keeping URLs, @handles,
// #hashtags, emoticons and contractions as single tokens.
type TweetTokenizer struct {
	// PreserveCase keeps the original case; otherwise every token but
	// emoticons is lower-cased.
	PreserveCase bool
	// ReduceLen caps runs of the same character at three ("waaaaay" → "waaay").
	ReduceLen bool
	// StripHandles removes @handles before tokenizing.
	StripHandles bool
}

// NewTweetTokenizer returns a case-preserving tweet tokenizer.
func NewTweetTokenizer() *TweetTokenizer {
	return &TweetTokenizer{PreserveCase: true}
}

// Tokenize splits text into tweet tokens.
func (tt *TweetTokenizer) Tokenize(text string) []string {
	text = NormalizeText(text)
	if tt.StripHandles {
		text = stripHandles(text)
	}
	if tt.ReduceLen {
		text = reduceLengthening(text)
	}
	tokens := tweetRe.FindAllString(text, -1)
	if !tt.PreserveCase {
		for i, tok := range tokens {
			if !emoticonRe.MatchString(tok) {
				tokens[i] = Lower(tok)
			}
		}
	}
	return tokens
}

// reduceLengthening shortens runs of four or more identical characters
// to three.
func reduceLengthening(s string) string {
	var b strings.Builder
	var prev rune
	run := 0
	for _, r := range s {
		if r == prev {
			run++
		} else {
			prev, run = r, 1
		}
		if run <= 3 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// stripHandles blanks out @handles that are not part of a word or an
// email address.
func stripHandles(s string) string {
	rs := []rune(s)
	var b strings.Builder
	for i := 0; i < len(rs); i++ {
		if rs[i] == '@' && (i == 0 || !isWordRune(rs[i-1])) && i+1 < len(rs) && isWordRune(rs[i+1]) {
			j := i + 1
			for j < len(rs) && isWordRune(rs[j]) {
				j++
			}
			b.WriteRune(' ')
			i = j - 1
			continue
		}
		b.WriteRune(rs[i])
	}
	return b.String()
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// MWETokenizer merges multi-word expressions, already split into
// tokens, into single tokens joined by Separator.
type MWETokenizer struct {
	// Separator joins the words of a merged expression.
	Separator string
	trie      *mweNode
}

type mweNode struct {
	children map[string]*mweNode
	terminal bool
}

func newMWENode() *mweNode {
	return &mweNode{children: make(map[string]*mweNode)}
}

// NewMWETokenizer returns a tokenizer for the given expressions. An
// empty separator defaults to "_".
func NewMWETokenizer(mwes [][]string, sep string) *MWETokenizer {
	if sep == "" {
		sep = "_"
	}
	t := &MWETokenizer{Separator: sep, trie: newMWENode()}
	for _, mwe := range mwes {
		t.AddMWE(mwe...)
	}
	return t
}

// AddMWE registers one multi-word expression.
func (t *MWETokenizer) AddMWE(words ...string) {
	if len(words) == 0 {
		return
	}
	n := t.trie
	for _, w := range words {
		next, ok := n.children[w]
		if !ok {
			next = newMWENode()
			n.children[w] = next
		}
		n = next
	}
	n.terminal = true
}

// Tokenize merges the longest registered expression starting at each
// position; other tokens pass through unchanged.
func (t *MWETokenizer) Tokenize(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for i := 0; i < len(tokens); {
		end := -1
		n := t.trie
		for j := i; j < len(tokens); j++ {
			next, ok := n.children[tokens[j]]
			if !ok {
				break
			}
			n = next
			if n.terminal {
				end = j + 1
			}
		}
		if end > i {
			out = append(out, strings.Join(tokens[i:end], t.Separator))
			i = end
			continue
		}
		out = append(out, tokens[i])
		i++
	}
	return out
}
