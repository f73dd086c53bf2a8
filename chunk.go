package textlab

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// ChunkParser groups the words of a tagged sentence into chunks.
type ChunkParser interface {
	Parse(tagged []TaggedWord) *Tree
}

var (
	_ ChunkParser = (*RegexpParser)(nil)
	_ ChunkParser = (*TagChunker)(nil)
	_ ChunkParser = (*ClassifierChunker)(nil)
)

// segment is a run of tokens, chunked or not.
type segment struct {
	start, end int
	chunk      bool
}

// chunkString is the working state of one stage: the tags of the
// tokens and how they are currently split into chunks.
type chunkString struct {
	tags []string
	segs []segment
}

// render returns "<t1><t2>..." for tokens [start, end) together with
// the byte offset at which each token starts.
func (cs *chunkString) render(start, end int) (string, map[int]int) {
	var b strings.Builder
	at := make(map[int]int, end-start+1)
	for i := start; i < end; i++ {
		at[b.Len()] = i
		b.WriteByte('<')
		b.WriteString(cs.tags[i])
		b.WriteByte('>')
	}
	at[b.Len()] = end
	return b.String(), at
}

// normalize drops empty segments and joins adjacent unchunked ones.
func (cs *chunkString) normalize() {
	out := cs.segs[:0:0]
	for _, s := range cs.segs {
		if s.start == s.end {
			continue
		}
		if n := len(out); n > 0 && !s.chunk && !out[n-1].chunk {
			out[n-1].end = s.end
			continue
		}
		out = append(out, s)
	}
	cs.segs = out
}

// chunkRule is one compiled line of a grammar stage.
type chunkRule interface {
	apply(cs *chunkString)
	String() string
}

// spans returns the token ranges of the non-empty, non-overlapping
// matches of re in tokens [start, end), leftmost first. Submatch group
// selects the part of the match that is returned and next the group
// whose end is where scanning resumes.
func spans(cs *chunkString, re *regexp.Regexp, start, end, group, next int) [][2]int {
	s, at := cs.render(start, end)
	var out [][2]int
	for pos := 0; pos < len(s); {
		loc := re.FindStringSubmatchIndex(s[pos:])
		if loc == nil {
			break
		}
		gs, ge := loc[2*group]+pos, loc[2*group+1]+pos
		resume := loc[2*next+1] + pos
		if resume <= pos {
			resume = pos + 1
		}
		i, okStart := at[gs]
		j, okEnd := at[ge]
		if okStart && okEnd && j > i {
			out = append(out, [2]int{i, j})
		}
		pos = resume
		for pos < len(s) && s[pos] != '<' {
			pos++
		}
	}
	return out
}

// cut replaces seg by pieces, alternating chunk state around the spans.
func cut(seg segment, spans [][2]int, inner bool) []segment {
	var out []segment
	pos := seg.start
	for _, sp := range spans {
		out = append(out, segment{pos, sp[0], seg.chunk}, segment{sp[0], sp[1], inner})
		pos = sp[1]
	}
	return append(out, segment{pos, seg.end, seg.chunk})
}

type chunkPattern struct {
	src string
	re  *regexp.Regexp
}

func (r chunkPattern) String() string { return "{" + r.src + "}" }

func (r chunkPattern) apply(cs *chunkString) {
	var out []segment
	for _, seg := range cs.segs {
		if seg.chunk {
			out = append(out, seg)
			continue
		}
		out = append(out, cut(seg, spans(cs, r.re, seg.start, seg.end, 0, 0), true)...)
	}
	cs.segs = out
	cs.normalize()
}

type chinkPattern struct {
	src string
	re  *regexp.Regexp
}

func (r chinkPattern) String() string { return "}" + r.src + "{" }

func (r chinkPattern) apply(cs *chunkString) {
	var out []segment
	for _, seg := range cs.segs {
		if !seg.chunk {
			out = append(out, seg)
			continue
		}
		out = append(out, cut(seg, spans(cs, r.re, seg.start, seg.end, 0, 0), false)...)
	}
	cs.segs = out
	cs.normalize()
}

// splitPattern splits a chunk between left and right. re is
// (left)(right); scanning resumes after left.
type splitPattern struct {
	left, right string
	re          *regexp.Regexp
}

func (r splitPattern) String() string { return r.left + "}{" + r.right }

func (r splitPattern) apply(cs *chunkString) {
	var out []segment
	for _, seg := range cs.segs {
		if !seg.chunk {
			out = append(out, seg)
			continue
		}
		pos := seg.start
		for _, sp := range spans(cs, r.re, seg.start, seg.end, 1, 1) {
			out = append(out, segment{pos, sp[1], true})
			pos = sp[1]
		}
		out = append(out, segment{pos, seg.end, true})
	}
	cs.segs = out
	cs.normalize()
}

// mergePattern joins two adjacent chunks when the first ends with left
// and the second starts with right.
type mergePattern struct {
	left, right string
	leftRe      *regexp.Regexp
	rightRe     *regexp.Regexp
}

func (r mergePattern) String() string { return r.left + "{}" + r.right }

func (r mergePattern) matchesEnd(cs *chunkString, seg segment) bool {
	for i := seg.start; i < seg.end; i++ {
		if s, _ := cs.render(i, seg.end); r.leftRe.MatchString(s) {
			return true
		}
	}
	return false
}

func (r mergePattern) apply(cs *chunkString) {
	var out []segment
	for i, seg := range cs.segs {
		n := len(out)
		if seg.chunk && n > 0 && out[n-1].chunk && out[n-1].end == seg.start {
			prev := cs.segs[i-1]
			if s, _ := cs.render(seg.start, seg.end); r.rightRe.MatchString(s) && r.matchesEnd(cs, prev) {
				out[n-1].end = seg.end
				continue
			}
		}
		out = append(out, seg)
	}
	cs.segs = out
}

// contextPattern chunks chunk only where it is preceded by left and
// followed by right.
type contextPattern struct {
	left, chunk, right string
	re                 *regexp.Regexp
}

func (r contextPattern) String() string { return r.left + "{" + r.chunk + "}" + r.right }

func (r contextPattern) apply(cs *chunkString) {
	var out []segment
	for _, seg := range cs.segs {
		if seg.chunk {
			out = append(out, seg)
			continue
		}
		out = append(out, cut(seg, spans(cs, r.re, seg.start, seg.end, 2, 3), true)...)
	}
	cs.segs = out
	cs.normalize()
}

var (
	tagPatternShape = regexp.MustCompile(`^(?:[^{}<>]|\{\d+,?\}|\{\d*,\d+\}|<[^{}<>]+>)+$`)
	unescapedDot    = regexp.MustCompile(`(^|[^\\])((?:\\\\)*)\.`)
)

// tagPatternRegexp turns a tag pattern such as "<DT>?<NN.*>+" into a
// regular expression over "<tag>" strings. An unescaped '.' never
// matches across tag boundaries.
func tagPatternRegexp(pattern string) (string, error) {
	p := strings.Join(strings.Fields(pattern), "")
	if p == "" || !strings.Contains(p, "<") || !tagPatternShape.MatchString(p) {
		return "", fmt.Errorf("%w: bad tag pattern %q", ErrBadGrammar, pattern)
	}
	p = strings.ReplaceAll(p, "<", "(?:<(?:")
	p = strings.ReplaceAll(p, ">", ")>)")
	for {
		next := unescapedDot.ReplaceAllString(p, "${1}${2}[^{}<>]")
		if next == p {
			break
		}
		p = next
	}
	return p, nil
}

func compileTagPattern(format string, patterns ...string) (*regexp.Regexp, error) {
	args := make([]any, len(patterns))
	for i, p := range patterns {
		rp, err := tagPatternRegexp(p)
		if err != nil {
			return nil, err
		}
		args[i] = rp
	}
	re, err := regexp.Compile(fmt.Sprintf(format, args...))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadGrammar, err)
	}
	return re, nil
}

var (
	ruleComment = regexp.MustCompile(`^((?:\\.|[^#])*)(#.*)?$`)
	contextRule = regexp.MustCompile(`^[^{}]*\{[^{}]*\}[^{}]*$`)
)

// parseChunkRule reads one rule line; blank lines and comments yield
// nil.
func parseChunkRule(line string) (chunkRule, error) {
	m := ruleComment.FindStringSubmatch(line)
	if m == nil {
		return nil, fmt.Errorf("%w: %q", ErrBadGrammar, line)
	}
	rule := strings.TrimSpace(m[1])
	switch {
	case rule == "":
		return nil, nil
	case strings.HasPrefix(rule, "{") && strings.HasSuffix(rule, "}"):
		src := rule[1 : len(rule)-1]
		re, err := compileTagPattern("%s", src)
		if err != nil {
			return nil, err
		}
		return chunkPattern{src: src, re: re}, nil
	case strings.HasPrefix(rule, "}") && strings.HasSuffix(rule, "{"):
		src := rule[1 : len(rule)-1]
		re, err := compileTagPattern("%s", src)
		if err != nil {
			return nil, err
		}
		return chinkPattern{src: src, re: re}, nil
	case strings.Contains(rule, "}{"):
		left, right, _ := strings.Cut(rule, "}{")
		re, err := compileTagPattern("(%s)(%s)", left, right)
		if err != nil {
			return nil, err
		}
		return splitPattern{left: left, right: right, re: re}, nil
	case strings.Contains(rule, "{}"):
		left, right, _ := strings.Cut(rule, "{}")
		leftRe, err := compileTagPattern("^(?:%s)$", left)
		if err != nil {
			return nil, err
		}
		rightRe, err := compileTagPattern("^(?:%s)", right)
		if err != nil {
			return nil, err
		}
		return mergePattern{left: left, right: right, leftRe: leftRe, rightRe: rightRe}, nil
	case contextRule.MatchString(rule):
		left, rest, _ := strings.Cut(rule, "{")
		chunk, right, _ := strings.Cut(rest, "}")
		re, err := compileTagPattern("(%s)(%s)(%s)", left, chunk, right)
		if err != nil {
			return nil, err
		}
		return contextPattern{left: left, chunk: chunk, right: right, re: re}, nil
	}
	return nil, fmt.Errorf("%w: illegal chunk pattern %q", ErrBadGrammar, rule)
}

// chunkStage applies its rules and labels the resulting chunks.
type chunkStage struct {
	label string
	rules []chunkRule
}

func (st chunkStage) parse(t *Tree) *Tree {
	if len(t.Children) == 0 {
		return &Tree{Label: t.Label}
	}
	cs := &chunkString{tags: make([]string, len(t.Children))}
	for i, c := range t.Children {
		switch c := c.(type) {
		case Leaf:
			cs.tags[i] = c.Tag
		case *Tree:
			cs.tags[i] = c.Label
		}
	}
	cs.segs = []segment{{0, len(t.Children), false}}
	for _, r := range st.rules {
		r.apply(cs)
	}
	out := &Tree{Label: t.Label}
	for _, seg := range cs.segs {
		if seg.chunk {
			kids := append([]Node(nil), t.Children[seg.start:seg.end]...)
			out.Children = append(out.Children, &Tree{Label: st.label, Children: kids})
			continue
		}
		out.Children = append(out.Children, t.Children[seg.start:seg.end]...)
	}
	return out
}

var stageMarker = regexp.MustCompile(`^((?:\\.|[^:])*):(.*)$`)

// RegexpParser is a cascade of regular-expression chunkers read from a
// grammar. Each stage starts with "LABEL:" and lists rules, one per
// line:
//
//	{<DT>?<NN.*>+}   chunk
//	}<VB.*>{         chink
//	<NN.*>}{<.*>     split
//	<JJ>{}<NN.*>     merge
//	<IN>{<DT>}<NN>   chunk in context
//
// Text after '#' is a comment. Later stages see the chunks built by
// earlier ones as tokens tagged with their label.
type RegexpParser struct {
	Grammar string
	Root    string
	Loop    int

	once   sync.Once
	stages []chunkStage
	err    error
}

// NewRegexpParser compiles grammar. The root label is "S".
func NewRegexpParser(grammar string) (*RegexpParser, error) {
	p := &RegexpParser{Grammar: grammar, Root: "S", Loop: 1}
	if err := p.compile(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *RegexpParser) compile() error {
	p.once.Do(func() { p.stages, p.err = readGrammar(p.Grammar) })
	return p.err
}

func readGrammar(grammar string) ([]chunkStage, error) {
	var (
		stages []chunkStage
		cur    *chunkStage
	)
	flush := func() {
		if cur != nil && len(cur.rules) > 0 {
			stages = append(stages, *cur)
		}
	}
	for _, line := range strings.Split(grammar, "\n") {
		line = strings.TrimSpace(line)
		if m := stageMarker.FindStringSubmatch(line); m != nil {
			flush()
			cur = &chunkStage{label: strings.TrimSpace(m[1])}
			line = strings.TrimSpace(m[2])
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rule, err := parseChunkRule(line)
		if err != nil {
			return nil, err
		}
		if rule == nil {
			continue
		}
		if cur == nil || cur.label == "" {
			return nil, fmt.Errorf("%w: expected stage marker (eg NP:) before %q", ErrBadGrammar, line)
		}
		cur.rules = append(cur.rules, rule)
	}
	flush()
	if len(stages) == 0 {
		return nil, ErrEmptyGrammar
	}
	return stages, nil
}

// Parse chunks a tagged sentence. An empty sentence yields an empty
// tree.
func (p *RegexpParser) Parse(tagged []TaggedWord) *Tree {
	return p.ParseTree(&Tree{Label: p.root(), Children: LeavesOf(tagged)})
}

// ParseTree runs the stages over the children of t, which may already
// contain chunks.
func (p *RegexpParser) ParseTree(t *Tree) *Tree {
	if p.compile() != nil {
		return t
	}
	for i := 0; i < max(p.Loop, 1); i++ {
		for _, st := range p.stages {
			t = st.parse(t)
		}
	}
	return t
}

func (p *RegexpParser) root() string {
	if p.Root == "" {
		return "S"
	}
	return p.Root
}

func (p *RegexpParser) String() string {
	if p.compile() != nil {
		return "<RegexpParser: invalid>"
	}
	var b strings.Builder
	b.WriteString("chunk.RegexpParser with ")
	fmt.Fprintf(&b, "%d stages:", len(p.stages))
	for _, st := range p.stages {
		fmt.Fprintf(&b, "\n%s:", st.label)
		for _, r := range st.rules {
			b.WriteString("\n  " + r.String())
		}
	}
	return b.String()
}

// ConllTagChunks turns chunk trees into (POS tag, IOB tag) sentences for
// training a tagger that chunks from tags alone.
func ConllTagChunks(trees []*Tree) []TaggedSent {
	out := make([]TaggedSent, len(trees))
	for i, t := range trees {
		rows := TreeToConllTags(t)
		sent := make(TaggedSent, len(rows))
		for j, r := range rows {
			sent[j] = TaggedWord{Word: r.Tag, Tag: r.IOB}
		}
		out[i] = sent
	}
	return out
}

// ChunkTreesToTrainChunks turns chunk trees into IOB rows.
func ChunkTreesToTrainChunks(trees []*Tree) [][]ConllTag {
	out := make([][]ConllTag, len(trees))
	for i, t := range trees {
		out[i] = TreeToConllTags(t)
	}
	return out
}

// TagChunker chunks by tagging the sequence of POS tags with IOB tags.
type TagChunker struct {
	Tagger Tagger
}

// NewTagChunker trains the builders in a backoff chain over the IOB tags
// of train; with no builders a unigram then bigram chain is used.
func NewTagChunker(train []*Tree, builders ...TaggerBuilder) (*TagChunker, error) {
	sents := ConllTagChunks(train)
	if len(sents) == 0 {
		return nil, fmt.Errorf("tag chunker: %w", ErrNoTrainingData)
	}
	if len(builders) == 0 {
		builders = []TaggerBuilder{UnigramBuilder, BigramBuilder}
	}
	return &TagChunker{Tagger: MakeBackoffs(sents, builders, nil)}, nil
}

// Parse returns nil for an empty sentence.
func (c *TagChunker) Parse(tagged []TaggedWord) *Tree {
	if len(tagged) == 0 {
		return nil
	}
	iob := c.Tagger.Tag(TaggedSent(tagged).Tags())
	rows := make([]ConllTag, len(tagged))
	for i, tw := range tagged {
		rows[i] = ConllTag{Word: tw.Word, Tag: tw.Tag}
		if i < len(iob) {
			rows[i].IOB = iob[i].Tag
		}
	}
	return ConllTagsToTree(rows, "S")
}

// ClassifierChunker chunks with a classifier tagger over PrevNextPosIOB
// features.
type ClassifierChunker struct {
	Tagger *ClassifierTagger
}

// NewClassifierChunker trains a chunker on chunk trees.
func NewClassifierChunker(train []*Tree) (*ClassifierChunker, error) {
	var sents []TaggedSent
	for _, rows := range ChunkTreesToTrainChunks(train) {
		sent := make(TaggedSent, len(rows))
		for i, r := range rows {
			sent[i] = TaggedWord{Word: joinWordTag(TaggedWord{Word: r.Word, Tag: r.Tag}), Tag: r.IOB}
		}
		sents = append(sents, sent)
	}
	t, err := NewClassifierTagger(sents, "iob", nil)
	if err != nil {
		return nil, fmt.Errorf("classifier chunker: %w", err)
	}
	return &ClassifierChunker{Tagger: t}, nil
}

// Parse returns nil for an empty sentence.
func (c *ClassifierChunker) Parse(tagged []TaggedWord) *Tree {
	if len(tagged) == 0 {
		return nil
	}
	tokens := make([]string, len(tagged))
	for i, tw := range tagged {
		tokens[i] = joinWordTag(tw)
	}
	iob := c.Tagger.Tag(tokens)
	rows := make([]ConllTag, len(tagged))
	for i, tw := range tagged {
		rows[i] = ConllTag{Word: tw.Word, Tag: tw.Tag, IOB: iob[i].Tag}
	}
	return ConllTagsToTree(rows, "S")
}

// ChunkScore accumulates chunker results against gold trees.
type ChunkScore struct {
	TagsCorrect int
	TagsTotal   int
	Correct     int
	Guessed     int
	Matched     int
}

// Accuracy is the share of IOB tags guessed correctly.
func (s ChunkScore) Accuracy() float64 {
	if s.TagsTotal == 0 {
		return 0
	}
	return float64(s.TagsCorrect) / float64(s.TagsTotal)
}

// Precision is the share of guessed chunks that are correct.
func (s ChunkScore) Precision() float64 {
	if s.Guessed == 0 {
		return 0
	}
	return float64(s.Matched) / float64(s.Guessed)
}

// Recall is the share of correct chunks that were guessed.
func (s ChunkScore) Recall() float64 {
	if s.Correct == 0 {
		return 0
	}
	return float64(s.Matched) / float64(s.Correct)
}

// FMeasure is the harmonic mean of precision and recall.
func (s ChunkScore) FMeasure() float64 {
	p, r := s.Precision(), s.Recall()
	if p == 0 || r == 0 {
		return 0
	}
	return 1 / (0.5/p + 0.5/r)
}

func (s ChunkScore) String() string {
	return fmt.Sprintf("ChunkParse score:\n    IOB Accuracy: %5.1f%%\n    Precision:    %5.1f%%\n    Recall:       %5.1f%%\n    F-Measure:    %5.1f%%",
		100*s.Accuracy(), 100*s.Precision(), 100*s.Recall(), 100*s.FMeasure())
}

// chunkSet identifies each chunk of t by position, label and words.
func chunkSet(t *Tree, sent int) map[string]bool {
	set := make(map[string]bool)
	pos := 0
	for _, c := range t.Children {
		st, ok := c.(*Tree)
		if !ok {
			pos++
			continue
		}
		key := fmt.Sprintf("%d:%d:%s", sent, pos, st.String())
		set[key] = true
		pos += len(st.Leaves())
	}
	return set
}

// EvaluateChunker parses the words of each gold tree and scores the
// result.
func EvaluateChunker(p ChunkParser, gold []*Tree) ChunkScore {
	var s ChunkScore
	for i, g := range gold {
		words := g.Pos()
		guess := p.Parse(words)
		if guess == nil {
			guess = &Tree{Label: g.Label, Children: LeavesOf(words)}
		}
		want, got := TreeToConllTags(g), TreeToConllTags(guess)
		for j := range want {
			if j < len(got) && got[j] == want[j] {
				s.TagsCorrect++
			}
			s.TagsTotal++
		}
		ws, gs := chunkSet(g, i), chunkSet(guess, i)
		s.Correct += len(ws)
		s.Guessed += len(gs)
		for k := range gs {
			if ws[k] {
				s.Matched++
			}
		}
	}
	return s
}
