package textlab

import (
	"bufio"
	"bytes"
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
	"unicode"
)

//go:embed stopwords/*.txt
var stopwordFiles embed.FS

var (
	stopwordMu    sync.Mutex
	stopwordCache = make(map[string]map[string]struct{})
)

// StopwordLanguages returns the languages with a bundled stopword list,
// sorted.
func StopwordLanguages() []string {
	entries, err := stopwordFiles.ReadDir("stopwords")
	if err != nil {
		return nil
	}
	langs := make([]string, 0, len(entries))
	for _, e := range entries {
		langs = append(langs, strings.TrimSuffix(e.Name(), ".txt"))
	}
	sort.Strings(langs)
	return langs
}

// Stopwords returns the stopword set of lang ("english", "portuguese",
// "spanish", "french"). The returned map is shared and must not be
// modified.
func Stopwords(lang string) (map[string]struct{}, error) {
	lang = strings.ToLower(strings.TrimSpace(lang))

	stopwordMu.Lock()
	defer stopwordMu.Unlock()
	if set, ok := stopwordCache[lang]; ok {
		return set, nil
	}

	data, err := stopwordFiles.ReadFile(path.Join("stopwords", lang+".txt"))
	if err != nil {
		return nil, fmt.Errorf("stopwords %q: %w", lang, ErrUnknownLanguage)
	}
	set := make(map[string]struct{})
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		if w := strings.TrimSpace(sc.Text()); w != "" {
			set[w] = struct{}{}
		}
	}
	stopwordCache[lang] = set
	return set, nil
}

// RemoveStopwords returns the words not in set, comparing in lower case.
func RemoveStopwords(words []string, set map[string]struct{}) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if _, stop := set[Lower(w)]; !stop {
			out = append(out, w)
		}
	}
	return out
}

// AlphaOnly keeps the tokens made only of letters. Contraction pieces
// ("'s", "n't") and punctuation are dropped.
func AlphaOnly(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if isAlpha(w) {
			out = append(out, w)
		}
	}
	return out
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
