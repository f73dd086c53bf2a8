package textlab

import (
	"regexp"
	"strings"
)

// ReplacePattern is one substitution rule. Repl may refer to submatches
// with ${1}.
type ReplacePattern struct {
	Pattern string
	Repl    string
}

// DefaultContractionPatterns expand English contractions. They expect
// lower-cased text and are applied in order, so the specific forms come
// before the generic suffixes.
var DefaultContractionPatterns = []ReplacePattern{
	{`won't`, "will not"},
	{`can't`, "cannot"},
	{`i'm`, "i am"},
	{`ain't`, "is not"},
	{`(\w+)'ll`, "${1} will"},
	{`(\w+)n't`, "${1} not"},
	{`(\w+)'ve`, "${1} have"},
	{`(\w+)'s`, "${1} is"},
	{`(\w+)'re`, "${1} are"},
	{`(\w+)'d`, "${1} would"},
}

type compiledPattern struct {
	re   *regexp.Regexp
	repl string
}

// RegexpReplacer rewrites text with an ordered list of regular
// expression substitutions.
type RegexpReplacer struct {
	patterns []compiledPattern
}

// NewRegexpReplacer compiles patterns; DefaultContractionPatterns are
// used when none are given.
func NewRegexpReplacer(patterns ...ReplacePattern) (*RegexpReplacer, error) {
	if len(patterns) == 0 {
		patterns = DefaultContractionPatterns
	}
	r := &RegexpReplacer{patterns: make([]compiledPattern, 0, len(patterns))}
	for _, p := range patterns {
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			return nil, err
		}
		r.patterns = append(r.patterns, compiledPattern{re: re, repl: p.Repl})
	}
	return r, nil
}

// Replace applies every pattern to text in turn.
func (r *RegexpReplacer) Replace(text string) string {
	for _, p := range r.patterns {
		text = p.re.ReplaceAllString(text, p.repl)
	}
	return text
}

// ExpandContractions lower-cases text and expands its contractions with
// the default patterns.
func ExpandContractions(text string) string {
	return contractionReplacer.Replace(Lower(NormalizeText(text)))
}

var contractionReplacer = func() *RegexpReplacer {
	r, err := NewRegexpReplacer()
	if err != nil {
		panic(err)
	}
	return r
}()

// RepeatReplacer removes repeated characters from words that are not in
// Dictionary: "looooooove" → "love". Each pass drops one character of
// the right-most doubled pair in every word; passes stop as soon as the
// word is known or has no doubled characters left. A nil Dictionary
// reduces every doubled pair.
type RepeatReplacer struct {
	Dictionary Dictionary
}

// Replace returns word with repeated characters removed.
func (r RepeatReplacer) Replace(word string) string {
	for {
		if r.Dictionary != nil && r.Dictionary.Known(word) {
			return word
		}
		next := squeezeOnce(word)
		if next == word {
			return word
		}
		word = next
	}
}

// ReplaceText applies Replace to every whitespace-separated token of
// text.
func (r RepeatReplacer) ReplaceText(text string) string {
	fields := strings.Fields(text)
	for i, f := range fields {
		fields[i] = r.Replace(f)
	}
	return strings.Join(fields, " ")
}

// squeezeOnce removes one character of the right-most doubled pair in
// each run of word characters.
func squeezeOnce(s string) string {
	rs := []rune(s)
	drop := make(map[int]bool)
	for i := 0; i < len(rs); {
		if !isWordRune(rs[i]) {
			i++
			continue
		}
		j := i
		for j < len(rs) && isWordRune(rs[j]) {
			j++
		}
		for k := j - 2; k >= i; k-- {
			if rs[k] == rs[k+1] {
				drop[k+1] = true
				break
			}
		}
		i = j
	}
	if len(drop) == 0 {
		return s
	}
	var b strings.Builder
	for i, r := range rs {
		if !drop[i] {
			b.WriteRune(r)
		}
	}
	return b.String()
}
