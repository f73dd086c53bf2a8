package textlab

import (
	"fmt"
	"regexp"
	"strings"
)

// Node is a child of a Tree: either a *Tree or a Leaf.
type Node interface {
	node()
}

// Leaf is a word. Tag is set for chunk trees, whose leaves are tagged
// words, and empty in parse trees, where the tag is the label of the
// enclosing preterminal.
type Leaf struct {
	Word string
	Tag  string
}

func (Leaf) node() {}

// Tree is a labeled, ordered tree of words.
type Tree struct {
	Label    string
	Children []Node
}

func (*Tree) node() {}

// NewTree returns a tree with the given label and children.
func NewTree(label string, children ...Node) *Tree {
	return &Tree{Label: label, Children: children}
}

// LeavesOf turns tagged words into chunk-tree leaves.
func LeavesOf(words []TaggedWord) []Node {
	out := make([]Node, len(words))
	for i, tw := range words {
		out[i] = Leaf{Word: tw.Word, Tag: tw.Tag}
	}
	return out
}

// Height returns the number of nodes on the longest path from the root
// to a leaf, leaves included: a tree of leaves has height 2.
func (t *Tree) Height() int {
	h := 0
	for _, c := range t.Children {
		switch c := c.(type) {
		case *Tree:
			h = max(h, c.Height())
		case Leaf:
			h = max(h, 1)
		}
	}
	return h + 1
}

// Leaves returns the leaves in order.
func (t *Tree) Leaves() []Leaf {
	var out []Leaf
	var walk func(*Tree)
	walk = func(t *Tree) {
		for _, c := range t.Children {
			switch c := c.(type) {
			case *Tree:
				walk(c)
			case Leaf:
				out = append(out, c)
			}
		}
	}
	walk(t)
	return out
}

// Words returns the words of the leaves.
func (t *Tree) Words() []string {
	leaves := t.Leaves()
	out := make([]string, len(leaves))
	for i, l := range leaves {
		out[i] = l.Word
	}
	return out
}

// Pos returns the leaves as tagged words. A leaf without a tag takes
// the label of its parent.
func (t *Tree) Pos() []TaggedWord {
	var out []TaggedWord
	var walk func(*Tree)
	walk = func(t *Tree) {
		for _, c := range t.Children {
			switch c := c.(type) {
			case *Tree:
				walk(c)
			case Leaf:
				tag := c.Tag
				if tag == "" {
					tag = t.Label
				}
				out = append(out, TaggedWord{Word: c.Word, Tag: tag})
			}
		}
	}
	walk(t)
	return out
}

// Subtrees returns the direct children that are trees.
func (t *Tree) Subtrees() []*Tree {
	var out []*Tree
	for _, c := range t.Children {
		if st, ok := c.(*Tree); ok {
			out = append(out, st)
		}
	}
	return out
}

// String renders the tree on one line in bracketed form. Tagged leaves
// print as word/TAG.
func (t *Tree) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t *Tree) write(b *strings.Builder) {
	b.WriteByte('(')
	b.WriteString(t.Label)
	for _, c := range t.Children {
		b.WriteByte(' ')
		switch c := c.(type) {
		case *Tree:
			c.write(b)
		case Leaf:
			b.WriteString(c.Word)
			if c.Tag != "" {
				b.WriteByte('/')
				b.WriteString(c.Tag)
			}
		}
	}
	b.WriteByte(')')
}

// Pretty renders the tree indented, one subtree per line when it does
// not fit in width columns.
func (t *Tree) Pretty(width int) string {
	var b strings.Builder
	t.pretty(&b, 0, width)
	return b.String()
}

func (t *Tree) pretty(b *strings.Builder, indent, width int) {
	if s := t.String(); len(s)+indent <= width {
		b.WriteString(s)
		return
	}
	b.WriteByte('(')
	b.WriteString(t.Label)
	for _, c := range t.Children {
		b.WriteByte('\n')
		b.WriteString(strings.Repeat(" ", indent+2))
		switch c := c.(type) {
		case *Tree:
			c.pretty(b, indent+2, width)
		case Leaf:
			b.WriteString(c.Word)
			if c.Tag != "" {
				b.WriteByte('/')
				b.WriteString(c.Tag)
			}
		}
	}
	b.WriteByte(')')
}

// Copy returns a deep copy of t.
func (t *Tree) Copy() *Tree {
	out := &Tree{Label: t.Label, Children: make([]Node, len(t.Children))}
	for i, c := range t.Children {
		if st, ok := c.(*Tree); ok {
			out.Children[i] = st.Copy()
		} else {
			out.Children[i] = c
		}
	}
	return out
}

// ParseTree reads a tree in bracketed Penn Treebank notation, e.g.
// "(S (NP (DT the) (NN cat)) (VP (VBD sat)))". Leaves are bare words.
func ParseTree(s string) (*Tree, error) {
	return parseBracketed(s, false)
}

// ParseChunkedTree reads a bracketed tree whose leaves are word/TAG
// pairs, e.g. "(S (NP the/DT cat/NN) sat/VBD)".
func ParseChunkedTree(s string) (*Tree, error) {
	return parseBracketed(s, true)
}

var bracketToken = regexp.MustCompile(`\(|\)|[^\s()]+`)

func parseBracketed(s string, tagged bool) (*Tree, error) {
	toks := bracketToken.FindAllString(s, -1)
	if len(toks) == 0 {
		return nil, fmt.Errorf("parse tree: empty input")
	}
	var stack []*Tree
	var root *Tree
	for i := 0; i < len(toks); i++ {
		switch tok := toks[i]; tok {
		case "(":
			t := &Tree{}
			if i+1 < len(toks) && toks[i+1] != "(" && toks[i+1] != ")" {
				t.Label = toks[i+1]
				i++
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, t)
			} else if root != nil {
				return nil, fmt.Errorf("parse tree: text after the root tree")
			} else {
				root = t
			}
			stack = append(stack, t)
		case ")":
			if len(stack) == 0 {
				return nil, fmt.Errorf("parse tree: unbalanced ')'")
			}
			stack = stack[:len(stack)-1]
		default:
			if len(stack) == 0 {
				return nil, fmt.Errorf("parse tree: leaf %q outside brackets", tok)
			}
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, makeLeaf(tok, tagged))
		}
	}
	if len(stack) > 0 {
		return nil, fmt.Errorf("parse tree: %d unclosed '('", len(stack))
	}
	return root, nil
}

func makeLeaf(tok string, tagged bool) Leaf {
	if tagged {
		if i := strings.LastIndex(tok, "/"); i > 0 {
			return Leaf{Word: tok[:i], Tag: tok[i+1:]}
		}
	}
	return Leaf{Word: tok}
}

// spaceBeforePunct matches whitespace in front of , . ; ?
var spaceBeforePunct = regexp.MustCompile(`\s([,.;?])`)

// ChunkTreeToSent joins the words of a chunk tree with concat and
// removes the separator before punctuation.
func ChunkTreeToSent(t *Tree, concat string) string {
	return spaceBeforePunct.ReplaceAllString(strings.Join(t.Words(), concat), "$1")
}

// FlattenDeepTree reduces a parse tree to depth 2: phrases of height 3
// become flat chunks of tagged words, lower subtrees become tagged
// words and taller ones are flattened recursively.
func FlattenDeepTree(t *Tree) *Tree {
	return &Tree{Label: t.Label, Children: flattenChildren(t.Children)}
}

func flattenChildren(children []Node) []Node {
	var out []Node
	for _, c := range children {
		st, ok := c.(*Tree)
		if !ok {
			out = append(out, c)
			continue
		}
		switch h := st.Height(); {
		case h < 3:
			out = append(out, LeavesOf(st.Pos())...)
		case h == 3:
			out = append(out, &Tree{Label: st.Label, Children: LeavesOf(st.Pos())})
		default:
			out = append(out, flattenChildren(st.Children)...)
		}
	}
	return out
}

// ShallowTree keeps only the top-level phrases of t, each as a flat
// chunk of tagged words.
func ShallowTree(t *Tree) *Tree {
	var out []Node
	for _, c := range t.Children {
		st, ok := c.(*Tree)
		if !ok {
			out = append(out, c)
			continue
		}
		if st.Height() < 3 {
			out = append(out, LeavesOf(st.Pos())...)
		} else {
			out = append(out, &Tree{Label: st.Label, Children: LeavesOf(st.Pos())})
		}
	}
	return &Tree{Label: t.Label, Children: out}
}

// ConvertTreeLabels returns a copy of t with labels renamed through
// mapping; labels absent from mapping are kept.
func ConvertTreeLabels(t *Tree, mapping map[string]string) *Tree {
	out := &Tree{Label: t.Label, Children: make([]Node, len(t.Children))}
	if l, ok := mapping[t.Label]; ok {
		out.Label = l
	}
	for i, c := range t.Children {
		if st, ok := c.(*Tree); ok {
			out.Children[i] = ConvertTreeLabels(st, mapping)
		} else {
			out.Children[i] = c
		}
	}
	return out
}

// TreeToConllTags converts a chunk tree into IOB rows: words inside a
// chunk get B-/I- prefixed chunk labels, words outside get "O".
func TreeToConllTags(t *Tree) []ConllTag {
	var out []ConllTag
	for _, c := range t.Children {
		switch c := c.(type) {
		case Leaf:
			out = append(out, ConllTag{Word: c.Word, Tag: c.Tag, IOB: "O"})
		case *Tree:
			for i, tw := range c.Pos() {
				prefix := "I-"
				if i == 0 {
					prefix = "B-"
				}
				out = append(out, ConllTag{Word: tw.Word, Tag: tw.Tag, IOB: prefix + c.Label})
			}
		}
	}
	return out
}

// ConllTagsToTree builds a chunk tree labeled root from IOB rows. An
// I- tag whose label differs from the open chunk starts a new chunk.
func ConllTagsToTree(rows []ConllTag, root string) *Tree {
	t := &Tree{Label: root}
	var cur *Tree
	for _, r := range rows {
		leaf := Leaf{Word: r.Word, Tag: r.Tag}
		state, label, _ := strings.Cut(r.IOB, "-")
		switch {
		case state == "B" || (state == "I" && (cur == nil || cur.Label != label)):
			cur = &Tree{Label: label, Children: []Node{leaf}}
			t.Children = append(t.Children, cur)
		case state == "I":
			cur.Children = append(cur.Children, leaf)
		default:
			cur = nil
			t.Children = append(t.Children, leaf)
		}
	}
	return t
}
