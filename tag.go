package textlab

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	ptag "github.com/jdkato/prose/tag"
	"github.com/jdkato/prose/v2"
	"golang.org/x/sync/errgroup"

	"github.com/cours-de-latin/textlab/wordnet"
)

// Tagger assigns a part-of-speech tag to every token. Tokens no tagger
// could label carry an empty tag.
type Tagger interface {
	Tag(tokens []string) TaggedSent
}

// SequentialTagger tags tokens left to right. ChooseTag decides the tag
// of tokens[index] given the tags already chosen (history); when it
// cannot decide, the backoff tagger is consulted.
type SequentialTagger interface {
	Tagger
	ChooseTag(tokens []string, index int, history []string) (string, bool)
	BackoffTagger() SequentialTagger
}

// tagOne walks the backoff chain starting at t until a tagger decides.
func tagOne(t SequentialTagger, tokens []string, index int, history []string) string {
	for t != nil {
		if tag, ok := t.ChooseTag(tokens, index, history); ok {
			return tag
		}
		t = t.BackoffTagger()
	}
	return ""
}

// tagSequence tags tokens with t, feeding each chosen tag back as
// history.
func tagSequence(t SequentialTagger, tokens []string) TaggedSent {
	tags := make([]string, 0, len(tokens))
	for i := range tokens {
		tags = append(tags, tagOne(t, tokens, i, tags))
	}
	return zip(tokens, tags)
}

// DefaultTagger gives every token the same tag.
type DefaultTagger struct {
	Default string
}

// NewDefaultTagger returns a tagger labeling everything tag.
func NewDefaultTagger(tag string) *DefaultTagger {
	return &DefaultTagger{Default: tag}
}

func (t *DefaultTagger) Tag(tokens []string) TaggedSent { return tagSequence(t, tokens) }

func (t *DefaultTagger) ChooseTag([]string, int, []string) (string, bool) {
	return t.Default, true
}

func (t *DefaultTagger) BackoffTagger() SequentialTagger { return nil }

func (t *DefaultTagger) String() string { return "<DefaultTagger: tag=" + t.Default + ">" }

// keySep joins the parts of a context key; it never occurs in text.
const keySep = "\x1f"

// NgramTagger tags a word from the word itself and the N-1 previous
// tags. Contexts map to the most frequent tag seen for them in
// training.
type NgramTagger struct {
	N       int
	Context map[string]string
	Backoff SequentialTagger
}

// NewUnigramTagger trains a tagger on single words.
func NewUnigramTagger(train []TaggedSent, backoff SequentialTagger, cutoff int) *NgramTagger {
	return NewNgramTagger(1, train, backoff, cutoff)
}

// NewBigramTagger trains a tagger on the previous tag and the word.
func NewBigramTagger(train []TaggedSent, backoff SequentialTagger, cutoff int) *NgramTagger {
	return NewNgramTagger(2, train, backoff, cutoff)
}

// NewTrigramTagger trains a tagger on the two previous tags and the
// word.
func NewTrigramTagger(train []TaggedSent, backoff SequentialTagger, cutoff int) *NgramTagger {
	return NewNgramTagger(3, train, backoff, cutoff)
}

// NewNgramTagger trains an n-gram tagger. A context is kept only if its
// most frequent tag occurs more than cutoff times and the backoff
// tagger would get at least one of its occurrences wrong.
func NewNgramTagger(n int, train []TaggedSent, backoff SequentialTagger, cutoff int) *NgramTagger {
	t := &NgramTagger{N: max(n, 1), Context: make(map[string]string), Backoff: backoff}
	t.Context = trainContexts(t.context, train, backoff, cutoff)
	return t
}

func (t *NgramTagger) context(tokens []string, index int, history []string) (string, bool) {
	start := max(0, index-t.N+1)
	parts := append(append([]string(nil), history[start:index]...), tokens[index])
	return strings.Join(parts, keySep), true
}

func (t *NgramTagger) Tag(tokens []string) TaggedSent { return tagSequence(t, tokens) }

func (t *NgramTagger) ChooseTag(tokens []string, index int, history []string) (string, bool) {
	key, ok := t.context(tokens, index, history)
	if !ok {
		return "", false
	}
	tag, ok := t.Context[key]
	return tag, ok
}

func (t *NgramTagger) BackoffTagger() SequentialTagger { return t.Backoff }

// Size returns the number of stored contexts.
func (t *NgramTagger) Size() int { return len(t.Context) }

func (t *NgramTagger) String() string {
	return fmt.Sprintf("<NgramTagger: n=%d, size=%d>", t.N, len(t.Context))
}

type contextFunc func(tokens []string, index int, history []string) (string, bool)

// trainContexts builds the context → tag table shared by the n-gram
// and affix taggers. History during training is the gold tags.
func trainContexts(ctxFn contextFunc, train []TaggedSent, backoff SequentialTagger, cutoff int) map[string]string {
	counts := make(map[string]map[string]int)
	useful := make(map[string]bool)
	for _, sent := range train {
		tokens, tags := sent.Words(), sent.Tags()
		for i := range sent {
			key, ok := ctxFn(tokens, i, tags[:i])
			if !ok {
				continue
			}
			c, found := counts[key]
			if !found {
				c = make(map[string]int)
				counts[key] = c
			}
			c[tags[i]]++
			if backoff == nil || tags[i] != tagOne(backoff, tokens, i, tags[:i]) {
				useful[key] = true
			}
		}
	}
	table := make(map[string]string, len(useful))
	for key := range useful {
		best, hits := maxCount(counts[key])
		if hits > cutoff {
			table[key] = best
		}
	}
	return table
}

// maxCount returns the most frequent key; ties go to the smallest key.
func maxCount(c map[string]int) (string, int) {
	best, hits := "", -1
	for k, n := range c {
		if n > hits || (n == hits && k < best) {
			best, hits = k, n
		}
	}
	return best, hits
}

// AffixTagger tags a word from its prefix (AffixLength > 0) or suffix
// (AffixLength < 0). Words shorter than MinStemLength plus the affix
// length are left to the backoff.
type AffixTagger struct {
	AffixLength   int
	MinStemLength int
	Context       map[string]string
	Backoff       SequentialTagger
}

// NewAffixTagger trains a suffix tagger with the usual settings:
// 3-letter suffixes of words with at least a 2-letter stem.
func NewAffixTagger(train []TaggedSent, backoff SequentialTagger, cutoff int) *AffixTagger {
	return NewAffixTaggerWith(train, -3, 2, backoff, cutoff)
}

// NewAffixTaggerWith trains an affix tagger with explicit affix and
// stem lengths.
func NewAffixTaggerWith(train []TaggedSent, affixLength, minStemLength int, backoff SequentialTagger, cutoff int) *AffixTagger {
	t := &AffixTagger{AffixLength: affixLength, MinStemLength: minStemLength, Backoff: backoff}
	t.Context = trainContexts(t.context, train, backoff, cutoff)
	return t
}

func (t *AffixTagger) context(tokens []string, index int, _ []string) (string, bool) {
	rs := []rune(tokens[index])
	n := t.AffixLength
	if n < 0 {
		n = -n
	}
	if len(rs) < t.MinStemLength+n {
		return "", false
	}
	if t.AffixLength > 0 {
		return string(rs[:n]), true
	}
	return string(rs[len(rs)-n:]), true
}

func (t *AffixTagger) Tag(tokens []string) TaggedSent { return tagSequence(t, tokens) }

func (t *AffixTagger) ChooseTag(tokens []string, index int, history []string) (string, bool) {
	key, ok := t.context(tokens, index, history)
	if !ok {
		return "", false
	}
	tag, ok := t.Context[key]
	return tag, ok
}

func (t *AffixTagger) BackoffTagger() SequentialTagger { return t.Backoff }

// RegexpRule tags words matching Pattern with Tag. Patterns are
// anchored at the start of the word only.
type RegexpRule struct {
	Pattern string
	Tag     string
}

// DefaultRegexpRules guess tags from common English word shapes.
var DefaultRegexpRules = []RegexpRule{
	{`-?[0-9]+(\.[0-9]+)?$`, "CD"},
	{`.*ould$`, "MD"},
	{`.*ing$`, "VBG"},
	{`.*ed$`, "VBD"},
	{`.*ness$`, "NN"},
	{`.*ment$`, "NN"},
	{`.*ful$`, "JJ"},
	{`.*ious$`, "JJ"},
	{`.*ble$`, "JJ"},
	{`.*ic$`, "JJ"},
	{`.*ive$`, "JJ"},
	{`.*est$`, "JJ"},
	{`.*s$`, "NNS"},
	{`(the|a|an)$`, "DT"},
}

// RegexpTagger tags with the first matching rule.
type RegexpTagger struct {
	Rules   []RegexpRule
	Backoff SequentialTagger

	once sync.Once
	res  []*regexp.Regexp
	err  error
}

// NewRegexpTagger compiles rules and returns the tagger.
func NewRegexpTagger(rules []RegexpRule, backoff SequentialTagger) (*RegexpTagger, error) {
	t := &RegexpTagger{Rules: rules, Backoff: backoff}
	if err := t.compile(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *RegexpTagger) compile() error {
	t.once.Do(func() {
		for _, r := range t.Rules {
			re, err := regexp.Compile(`^(?:` + r.Pattern + `)`)
			if err != nil {
				t.err = fmt.Errorf("regexp tagger rule %q: %w", r.Pattern, err)
				return
			}
			t.res = append(t.res, re)
		}
	})
	return t.err
}

func (t *RegexpTagger) Tag(tokens []string) TaggedSent { return tagSequence(t, tokens) }

func (t *RegexpTagger) ChooseTag(tokens []string, index int, _ []string) (string, bool) {
	if t.compile() != nil {
		return "", false
	}
	for i, re := range t.res {
		if re.MatchString(tokens[index]) {
			return t.Rules[i].Tag, true
		}
	}
	return "", false
}

func (t *RegexpTagger) BackoffTagger() SequentialTagger { return t.Backoff }

// wordnetTags maps WordNet parts of speech to Penn Treebank tags.
var wordnetTags = map[string]string{
	wordnet.Noun:   "NN",
	wordnet.AdjSat: "JJ",
	wordnet.Adj:    "JJ",
	wordnet.Adv:    "RB",
	wordnet.Verb:   "VB",
}

// WordNetTagger tags a word with the Penn tag of the part of speech
// most of its WordNet synsets have. Words without synsets go to the
// backoff.
type WordNetTagger struct {
	WordNet *wordnet.WordNet
	Backoff SequentialTagger
}

func (t *WordNetTagger) Tag(tokens []string) TaggedSent { return tagSequence(t, tokens) }

func (t *WordNetTagger) ChooseTag(tokens []string, index int, _ []string) (string, bool) {
	if t.WordNet == nil {
		return "", false
	}
	counts := make(map[string]int)
	var order []string
	for _, ss := range t.WordNet.Synsets(tokens[index]) {
		if counts[ss.POS()] == 0 {
			order = append(order, ss.POS())
		}
		counts[ss.POS()]++
	}
	if len(order) == 0 {
		return "", false
	}
	best := order[0]
	for _, p := range order[1:] {
		if counts[p] > counts[best] {
			best = p
		}
	}
	return wordnetTags[best], true
}

func (t *WordNetTagger) BackoffTagger() SequentialTagger { return t.Backoff }

// PretrainedTagger is the averaged-perceptron tagger trained on the
// Penn Treebank that ships with prose. The model loads on first use.
type PretrainedTagger struct {
	once sync.Once
	pt   *ptag.PerceptronTagger
}

// NewPretrainedTagger returns the bundled perceptron tagger.
func NewPretrainedTagger() *PretrainedTagger {
	return &PretrainedTagger{}
}

func (t *PretrainedTagger) Tag(tokens []string) TaggedSent {
	t.once.Do(func() { t.pt = ptag.NewPerceptronTagger() })
	out := make(TaggedSent, 0, len(tokens))
	for _, tok := range t.pt.Tag(tokens) {
		out = append(out, TaggedWord{Word: tok.Text, Tag: tok.Tag})
	}
	return out
}

// PosTag tokenizes and tags text with the pretrained model.
func PosTag(text string) (TaggedSent, error) {
	doc, err := prose.NewDocument(text,
		prose.WithExtraction(false),
		prose.WithSegmentation(false),
	)
	if err != nil {
		return nil, fmt.Errorf("pos tag: %w", err)
	}
	toks := doc.Tokens()
	out := make(TaggedSent, len(toks))
	for i, tok := range toks {
		out[i] = TaggedWord{Word: tok.Text, Tag: tok.Tag}
	}
	return out, nil
}

// TaggerBuilder trains a tagger on top of a backoff.
type TaggerBuilder func(train []TaggedSent, backoff SequentialTagger) SequentialTagger

// Builders for MakeBackoffs, all with cutoff 0.
var (
	UnigramBuilder TaggerBuilder = func(train []TaggedSent, b SequentialTagger) SequentialTagger {
		return NewUnigramTagger(train, b, 0)
	}
	BigramBuilder TaggerBuilder = func(train []TaggedSent, b SequentialTagger) SequentialTagger {
		return NewBigramTagger(train, b, 0)
	}
	TrigramBuilder TaggerBuilder = func(train []TaggedSent, b SequentialTagger) SequentialTagger {
		return NewTrigramTagger(train, b, 0)
	}
	AffixBuilder TaggerBuilder = func(train []TaggedSent, b SequentialTagger) SequentialTagger {
		return NewAffixTagger(train, b, 0)
	}
)

// MakeBackoffs trains each builder in turn with the previous tagger as
// its backoff, starting from backoff, and returns the last one.
func MakeBackoffs(train []TaggedSent, builders []TaggerBuilder, backoff SequentialTagger) SequentialTagger {
	for _, build := range builders {
		backoff = build(train, backoff)
	}
	return backoff
}

// Evaluate returns the share of gold tokens the tagger tags correctly.
func Evaluate(t Tagger, gold []TaggedSent) float64 {
	correct, total := 0, 0
	for _, sent := range gold {
		got := t.Tag(sent.Words())
		for i, tw := range sent {
			if i < len(got) && got[i].Tag == tw.Tag {
				correct++
			}
			total++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total)
}

// NamedTagger labels a tagger in comparisons.
type NamedTagger struct {
	Name   string
	Tagger Tagger
}

// TaggerScore is the accuracy of one tagger.
type TaggerScore struct {
	Name     string
	Accuracy float64
}

// CompareTaggers evaluates the taggers concurrently with at most
// workers goroutines (unlimited when workers < 1). Scores are returned
// in input order.
func CompareTaggers(ctx context.Context, taggers []NamedTagger, gold []TaggedSent, workers int) ([]TaggerScore, error) {
	scores := make([]TaggerScore, len(taggers))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, nt := range taggers {
		i, nt := i, nt
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			scores[i] = TaggerScore{Name: nt.Name, Accuracy: Evaluate(nt.Tagger, gold)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scores, nil
}

// SplitTrainTest cuts sents at the given fraction, e.g. 0.75.
func SplitTrainTest[T any](sents []T, fraction float64) (train, test []T) {
	cut := int(float64(len(sents)) * fraction)
	cut = max(0, min(cut, len(sents)))
	return sents[:cut], sents[cut:]
}
