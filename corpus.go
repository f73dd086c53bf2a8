package textlab

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strings"
)

// ReadTaggedSents reads one sentence per line, each token written
// word/TAG. Blank lines are skipped.
func ReadTaggedSents(r io.Reader) ([]TaggedSent, error) {
	var sents []TaggedSent
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		sent := make(TaggedSent, 0, len(fields))
		for _, f := range fields {
			sent = append(sent, splitTagged(f))
		}
		sents = append(sents, sent)
	}
	return sents, sc.Err()
}

// splitTagged splits "word/TAG" at the last slash. A token without a
// slash has an empty tag.
func splitTagged(tok string) TaggedWord {
	if i := strings.LastIndex(tok, "/"); i > 0 {
		return TaggedWord{Word: strings.ReplaceAll(tok[:i], `\/`, "/"), Tag: tok[i+1:]}
	}
	return TaggedWord{Word: tok}
}

// ReadParsedSents reads the bracketed parse trees of a .mrg file. The
// unlabeled bracket the treebank wraps around each sentence is removed.
func ReadParsedSents(r io.Reader) ([]*Tree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var trees []*Tree
	for _, block := range splitTopLevel(string(data)) {
		t, err := ParseTree(block)
		if err != nil {
			return nil, err
		}
		if t.Label == "" && len(t.Children) == 1 {
			if inner, ok := t.Children[0].(*Tree); ok {
				t = inner
			}
		}
		trees = append(trees, t)
	}
	return trees, nil
}

// splitTopLevel cuts s into its top-level parenthesized groups.
func splitTopLevel(s string) []string {
	var out []string
	depth, start := 0, -1
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			if depth == 0 {
				start = i
			}
			depth++
		case ')':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				out = append(out, s[start:i+1])
			}
		}
	}
	return out
}

// TaggedSentsFromTrees returns the tagged words of each parse tree,
// dropping empty elements (tag -NONE-).
func TaggedSentsFromTrees(trees []*Tree) []TaggedSent {
	out := make([]TaggedSent, 0, len(trees))
	for _, t := range trees {
		var sent TaggedSent
		for _, tw := range t.Pos() {
			if tw.Tag != "-NONE-" {
				sent = append(sent, tw)
			}
		}
		out = append(out, sent)
	}
	return out
}

var chunkedToken = regexp.MustCompile(`\[|\]|[^\s\[\]]+`)

// ReadChunkedSents reads the bracketed chunk format of the chunked
// treebank: "[ the/DT board/NN ]" is a noun-phrase chunk, other tokens
// are words outside chunks. Lines of '=' separate paragraphs and a
// sentence ends after a word tagged "." outside a chunk.
func ReadChunkedSents(r io.Reader) ([]*Tree, error) {
	var (
		trees []*Tree
		cur   = &Tree{Label: "S"}
		chunk *Tree
	)
	flush := func() {
		if chunk != nil {
			cur.Children = append(cur.Children, chunk)
			chunk = nil
		}
		if len(cur.Children) > 0 {
			trees = append(trees, cur)
		}
		cur = &Tree{Label: "S"}
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(line, "==") {
			flush()
			continue
		}
		for _, tok := range chunkedToken.FindAllString(line, -1) {
			switch tok {
			case "[":
				if chunk != nil {
					return nil, fmt.Errorf("line %d: nested chunk", lineNo)
				}
				chunk = &Tree{Label: "NP"}
			case "]":
				if chunk == nil {
					return nil, fmt.Errorf("line %d: unbalanced ']'", lineNo)
				}
				cur.Children = append(cur.Children, chunk)
				chunk = nil
			default:
				tw := splitTagged(tok)
				leaf := Leaf{Word: tw.Word, Tag: tw.Tag}
				if chunk != nil {
					chunk.Children = append(chunk.Children, leaf)
					continue
				}
				cur.Children = append(cur.Children, leaf)
				if tw.Tag == "." {
					flush()
				}
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	flush()
	return trees, nil
}

// ReadConllChunks reads CoNLL-2000 chunk data: one "word POS IOB" row
// per line, sentences separated by blank lines. Chunks whose type is
// not in chunkTypes are dropped (their words become "O"); with no
// chunkTypes every chunk is kept.
func ReadConllChunks(r io.Reader, chunkTypes ...string) ([]*Tree, error) {
	keep := make(map[string]bool, len(chunkTypes))
	for _, ct := range chunkTypes {
		keep[ct] = true
	}

	var (
		trees []*Tree
		rows  []ConllTag
	)
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			if len(rows) > 0 {
				trees = append(trees, ConllTagsToTree(rows, "S"))
				rows = nil
			}
			continue
		}
		if len(fields) < 3 {
			return nil, fmt.Errorf("line %d: want word, tag and chunk tag, got %q", lineNo, sc.Text())
		}
		iob := fields[2]
		if _, typ, ok := strings.Cut(iob, "-"); ok && len(keep) > 0 && !keep[typ] {
			iob = "O"
		}
		rows = append(rows, ConllTag{Word: fields[0], Tag: fields[1], IOB: iob})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		trees = append(trees, ConllTagsToTree(rows, "S"))
	}
	return trees, nil
}

// ReadWords reads plain text and splits it with WordPunctTokenize.
func ReadWords(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return WordPunctTokenize(string(data)), nil
}

// DirCorpus is a categorized plain-text corpus laid out as one
// directory per category, e.g. movie_reviews/{neg,pos}/*.txt.
type DirCorpus struct {
	fsys  fs.FS
	files map[string][]string
}

// OpenDirCorpus indexes the category directories of fsys.
func OpenDirCorpus(fsys fs.FS) (*DirCorpus, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read corpus root: %w", err)
	}
	c := &DirCorpus{fsys: fsys, files: make(map[string][]string)}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		cat := e.Name()
		files, err := fs.Glob(fsys, path.Join(cat, "*.txt"))
		if err != nil {
			return nil, err
		}
		sort.Strings(files)
		c.files[cat] = files
	}
	if len(c.files) == 0 {
		return nil, fmt.Errorf("corpus has no category directories: %w", fs.ErrNotExist)
	}
	return c, nil
}

// Categories returns the category names, sorted.
func (c *DirCorpus) Categories() []string {
	return sortedKeys(c.files)
}

// FileIDs returns the files of category, as paths relative to the
// corpus root.
func (c *DirCorpus) FileIDs(category string) []string {
	return c.files[category]
}

// Words returns the WordPunct tokens of one file.
func (c *DirCorpus) Words(fileID string) ([]string, error) {
	f, err := c.fsys.Open(fileID)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadWords(f)
}
