package textlab

import (
	"fmt"
	"strings"

	"github.com/kljensen/snowball"
)

// Stemmer reduces a word to its stem.
type Stemmer interface {
	Stem(word string) string
}

// PorterStemmer implements the Porter algorithm with the common
// extensions: a pool of irregular forms ("dying" → "die", "skies" →
// "sky") and the revised step 1 and step 2 rules. Words of two letters
// or fewer are returned lower-cased but otherwise unchanged.
type PorterStemmer struct{}

// porterIrregular maps irregular forms to their stems.
var porterIrregular = map[string]string{
	"sky":      "sky",
	"skies":    "sky",
	"dying":    "die",
	"lying":    "lie",
	"tying":    "tie",
	"news":     "news",
	"inning":   "inning",
	"innings":  "inning",
	"outing":   "outing",
	"outings":  "outing",
	"canning":  "canning",
	"cannings": "canning",
	"howe":     "howe",
	"proceed":  "proceed",
	"exceed":   "exceed",
	"succeed":  "succeed",
}

// Stem returns the Porter stem of word.
func (PorterStemmer) Stem(word string) string {
	w := strings.ToLower(word)
	if base, ok := porterIrregular[w]; ok {
		return base
	}
	if len(w) <= 2 || !isASCIILetters(w) {
		return w
	}
	for _, step := range []func(string) string{
		porterStep1a, porterStep1b, porterStep1c,
		porterStep2, porterStep3, porterStep4,
		porterStep5a, porterStep5b,
	} {
		w = step(w)
	}
	return w
}

func isASCIILetters(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}

// consonant reports whether w[i] is a consonant. A 'y' is a consonant
// at the start of a word or after a vowel.
func consonant(w string, i int) bool {
	switch w[i] {
	case 'a', 'e', 'i', 'o', 'u':
		return false
	case 'y':
		return i == 0 || !consonant(w, i-1)
	}
	return true
}

func hasVowel(stem string) bool {
	for i := 0; i < len(stem); i++ {
		if !consonant(stem, i) {
			return true
		}
	}
	return false
}

// measure counts the vowel-consonant sequences of stem ("m" in [C](VC)^m[V]).
func measure(stem string) int {
	m := 0
	vowel := false
	for i := 0; i < len(stem); i++ {
		if consonant(stem, i) {
			if vowel {
				m++
			}
			vowel = false
		} else {
			vowel = true
		}
	}
	return m
}

func endsDoubleConsonant(w string) bool {
	n := len(w)
	return n >= 2 && w[n-1] == w[n-2] && consonant(w, n-1)
}

// endsCVC reports a consonant-vowel-consonant ending whose last letter
// is not w, x or y. Two-letter vowel-consonant words also qualify.
func endsCVC(w string) bool {
	n := len(w)
	if n >= 3 {
		last := w[n-1]
		return consonant(w, n-3) && !consonant(w, n-2) && consonant(w, n-1) &&
			last != 'w' && last != 'x' && last != 'y'
	}
	return n == 2 && !consonant(w, 0) && consonant(w, 1)
}

// suffixRule replaces suffix by repl when cond holds for the remaining
// stem. The special suffix "*d" matches any double consonant.
type suffixRule struct {
	suffix string
	repl   string
	cond   func(stem string) bool
}

// applyRules applies the first rule whose suffix matches; if its
// condition fails the word is returned unchanged.
func applyRules(w string, rules []suffixRule) string {
	for _, r := range rules {
		if r.suffix == "*d" {
			if !endsDoubleConsonant(w) {
				continue
			}
			stem := w[:len(w)-2]
			if r.cond == nil || r.cond(stem) {
				return stem + r.repl
			}
			return w
		}
		if !strings.HasSuffix(w, r.suffix) {
			continue
		}
		stem := w[:len(w)-len(r.suffix)]
		if r.cond == nil || r.cond(stem) {
			return stem + r.repl
		}
		return w
	}
	return w
}

func positiveMeasure(stem string) bool { return measure(stem) > 0 }

func measureAbove1(stem string) bool { return measure(stem) > 1 }

func porterStep1a(w string) string {
	if len(w) == 4 && strings.HasSuffix(w, "ies") {
		return w[:1] + "ie"
	}
	return applyRules(w, []suffixRule{
		{suffix: "sses", repl: "ss"},
		{suffix: "ies", repl: "i"},
		{suffix: "ss", repl: "ss"},
		{suffix: "s"},
	})
}

func porterStep1b(w string) string {
	if strings.HasSuffix(w, "ied") {
		if len(w) == 4 {
			return w[:1] + "ie"
		}
		return w[:len(w)-3] + "i"
	}
	if strings.HasSuffix(w, "eed") {
		stem := w[:len(w)-3]
		if measure(stem) > 0 {
			return stem + "ee"
		}
		return w
	}

	var stem string
	found := false
	for _, suf := range []string{"ed", "ing"} {
		if strings.HasSuffix(w, suf) && hasVowel(w[:len(w)-len(suf)]) {
			stem, found = w[:len(w)-len(suf)], true
			break
		}
	}
	if !found {
		return w
	}

	last := stem[len(stem)-1]
	return applyRules(stem, []suffixRule{
		{suffix: "at", repl: "ate"},
		{suffix: "bl", repl: "ble"},
		{suffix: "iz", repl: "ize"},
		{suffix: "*d", repl: string(last), cond: func(string) bool {
			return last != 'l' && last != 's' && last != 'z'
		}},
		{suffix: "", repl: "e", cond: func(s string) bool {
			return measure(s) == 1 && endsCVC(s)
		}},
	})
}

func porterStep1c(w string) string {
	return applyRules(w, []suffixRule{
		{suffix: "y", repl: "i", cond: func(s string) bool {
			return len(s) > 1 && consonant(s, len(s)-1)
		}},
	})
}

var step2Rules = []suffixRule{
	{"ational", "ate", positiveMeasure},
	{"tional", "tion", positiveMeasure},
	{"enci", "ence", positiveMeasure},
	{"anci", "ance", positiveMeasure},
	{"izer", "ize", positiveMeasure},
	{"bli", "ble", positiveMeasure},
	{"alli", "al", positiveMeasure},
	{"entli", "ent", positiveMeasure},
	{"eli", "e", positiveMeasure},
	{"ousli", "ous", positiveMeasure},
	{"ization", "ize", positiveMeasure},
	{"ation", "ate", positiveMeasure},
	{"ator", "ate", positiveMeasure},
	{"alism", "al", positiveMeasure},
	{"iveness", "ive", positiveMeasure},
	{"fulness", "ful", positiveMeasure},
	{"ousness", "ous", positiveMeasure},
	{"aliti", "al", positiveMeasure},
	{"iviti", "ive", positiveMeasure},
	{"biliti", "ble", positiveMeasure},
	{"fulli", "ful", positiveMeasure},
}

func porterStep2(w string) string {
	if strings.HasSuffix(w, "alli") && positiveMeasure(w[:len(w)-4]) {
		return porterStep2(w[:len(w)-4] + "al")
	}
	if strings.HasSuffix(w, "logi") {
		// the measure is taken on the stem including the "l"
		if positiveMeasure(w[:len(w)-3]) {
			return w[:len(w)-4] + "log"
		}
		return w
	}
	return applyRules(w, step2Rules)
}

var step3Rules = []suffixRule{
	{"icate", "ic", positiveMeasure},
	{"ative", "", positiveMeasure},
	{"alize", "al", positiveMeasure},
	{"iciti", "ic", positiveMeasure},
	{"ical", "ic", positiveMeasure},
	{"ful", "", positiveMeasure},
	{"ness", "", positiveMeasure},
}

func porterStep3(w string) string {
	return applyRules(w, step3Rules)
}

var step4Rules = []suffixRule{
	{"al", "", measureAbove1},
	{"ance", "", measureAbove1},
	{"ence", "", measureAbove1},
	{"er", "", measureAbove1},
	{"ic", "", measureAbove1},
	{"able", "", measureAbove1},
	{"ible", "", measureAbove1},
	{"ant", "", measureAbove1},
	{"ement", "", measureAbove1},
	{"ment", "", measureAbove1},
	{"ent", "", measureAbove1},
	{"ion", "", func(s string) bool {
		return measure(s) > 1 && len(s) > 0 && (s[len(s)-1] == 's' || s[len(s)-1] == 't')
	}},
	{"ou", "", measureAbove1},
	{"ism", "", measureAbove1},
	{"ate", "", measureAbove1},
	{"iti", "", measureAbove1},
	{"ous", "", measureAbove1},
	{"ive", "", measureAbove1},
	{"ize", "", measureAbove1},
}

func porterStep4(w string) string {
	return applyRules(w, step4Rules)
}

func porterStep5a(w string) string {
	if !strings.HasSuffix(w, "e") {
		return w
	}
	stem := w[:len(w)-1]
	if m := measure(stem); m > 1 || (m == 1 && !endsCVC(stem)) {
		return stem
	}
	return w
}

func porterStep5b(w string) string {
	if strings.HasSuffix(w, "ll") && measure(w[:len(w)-1]) > 1 {
		return w[:len(w)-1]
	}
	return w
}

// snowballLanguages are the languages kljensen/snowball can stem.
var snowballLanguages = map[string]bool{
	"english":   true,
	"spanish":   true,
	"french":    true,
	"russian":   true,
	"swedish":   true,
	"norwegian": true,
	"hungarian": true,
}

// SnowballStemmer stems words with the Snowball algorithm of Language.
type SnowballStemmer struct {
	Language string
	// IgnoreStopwords leaves stopwords of the language unstemmed.
	IgnoreStopwords bool
}

// NewSnowballStemmer returns a stemmer for lang, or ErrUnknownLanguage.
func NewSnowballStemmer(lang string) (*SnowballStemmer, error) {
	lang = strings.ToLower(lang)
	if !snowballLanguages[lang] {
		return nil, fmt.Errorf("snowball %q: %w", lang, ErrUnknownLanguage)
	}
	return &SnowballStemmer{Language: lang}, nil
}

// Stem returns the Snowball stem of word; the lower-cased word is
// returned when the language is not supported.
func (s *SnowballStemmer) Stem(word string) string {
	stemmed, err := snowball.Stem(word, s.Language, !s.IgnoreStopwords)
	if err != nil {
		return strings.ToLower(word)
	}
	return stemmed
}

// SnowballLanguages lists the languages accepted by NewSnowballStemmer.
func SnowballLanguages() []string {
	return sortedKeys(snowballLanguages)
}
