package textlab

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// punctReplacer folds typographic punctuation to ASCII.
var punctReplacer = strings.NewReplacer(
	"“", `"`,
	"”", `"`,
	"„", `"`,
	"‘", "'",
	"’", "'",
	"′", "'",
	"–", "-",
	"—", "--",
	"…", "...",
	" ", " ", // no-break space
)

var lowerEnglish = cases.Lower(language.English)

// CollapseSpace joins the whitespace-separated fields of s with single
// spaces, trimming both ends.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeText returns s in NFC with typographic quotes, dashes and
// ellipses folded to their ASCII spelling.
func NormalizeText(s string) string {
	return punctReplacer.Replace(norm.NFC.String(s))
}

// FoldDiacritics removes combining marks: "café" → "cafe".
func FoldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Lower applies English lower-casing rules to s.
func Lower(s string) string {
	return lowerEnglish.String(s)
}

// skippedElements hold no readable text.
var skippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"head":     true,
}

// ExtractHTMLText returns the text content of an HTML document, one
// space between text nodes, skipping script and style elements.
func ExtractHTMLText(r io.Reader) (string, error) {
	z := html.NewTokenizer(r)
	var (
		parts []string
		skip  int
	)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return "", err
			}
			return CollapseSpace(strings.Join(parts, " ")), nil
		case html.StartTagToken:
			name, _ := z.TagName()
			if skippedElements[string(name)] {
				skip++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if skippedElements[string(name)] && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip > 0 {
				continue
			}
			if s := strings.TrimSpace(string(z.Text())); s != "" {
				parts = append(parts, s)
			}
		}
	}
}

// TextOptions select the clean-up CleanText applies before tokenizing.
type TextOptions struct {
	HTML bool // input is an HTML document
	Fold bool // remove diacritics
}

// CleanText prepares raw input for the tokenizers: the text content is
// extracted when opts.HTML is set, then NormalizeText runs and, with
// opts.Fold, FoldDiacritics.
func CleanText(s string, opts TextOptions) (string, error) {
	if opts.HTML {
		var err error
		if s, err = ExtractHTMLText(strings.NewReader(s)); err != nil {
			return "", fmt.Errorf("extract html: %w", err)
		}
	}
	s = NormalizeText(s)
	if opts.Fold {
		s = FoldDiacritics(s)
	}
	return s, nil
}
