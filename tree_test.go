package textlab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) *Tree {
	t.Helper()
	tree, err := ParseTree(s)
	require.NoError(t, err, "ParseTree(%q)", s)
	return tree
}

func mustParseChunked(t *testing.T, s string) *Tree {
	t.Helper()
	tree, err := ParseChunkedTree(s)
	require.NoError(t, err, "ParseChunkedTree(%q)", s)
	return tree
}

func TestParseTree(t *testing.T) {
	const src = "(S (NP (DT the) (NN cat)) (VP (VBD sat)))"
	tree := mustParse(t, src)
	assert.Equal(t, src, tree.String())
	assert.Equal(t, 4, tree.Height())
	assert.Equal(t, []string{"the", "cat", "sat"}, tree.Words())
	assert.Equal(t, []TaggedWord{{"the", "DT"}, {"cat", "NN"}, {"sat", "VBD"}}, tree.Pos())
	assert.Len(t, tree.Subtrees(), 2)
}

func TestParseTreeErrors(t *testing.T) {
	for _, in := range []string{"", "(S (NP", "(S))", "(A) (B)", "word"} {
		_, err := ParseTree(in)
		assert.Error(t, err, "ParseTree(%q)", in)
	}
}

func TestParseChunkedTree(t *testing.T) {
	tree := mustParseChunked(t, "(S (NP the/DT cat/NN) sat/VBD)")
	assert.Equal(t, 3, tree.Height())
	assert.Equal(t, []TaggedWord{{"the", "DT"}, {"cat", "NN"}, {"sat", "VBD"}}, tree.Pos())
	require.Len(t, tree.Subtrees(), 1)
	assert.Equal(t, "NP", tree.Subtrees()[0].Label)
}

func TestPretty(t *testing.T) {
	tree := mustParseChunked(t, "(S (NP the/DT cat/NN) sat/VBD)")
	assert.Equal(t, tree.String(), tree.Pretty(80))
	assert.Equal(t, "(S\n  (NP\n    the/DT\n    cat/NN)\n  sat/VBD)", tree.Pretty(10))
}

func TestCopy(t *testing.T) {
	tree := mustParseChunked(t, "(S (NP the/DT cat/NN) sat/VBD)")
	cp := tree.Copy()
	cp.Subtrees()[0].Label = "XP"
	assert.Equal(t, "NP", tree.Subtrees()[0].Label)
}

func TestChunkTreeToSent(t *testing.T) {
	tree := mustParseChunked(t, "(S (NP the/DT cat/NN) sat/VBD ,/, then/RB slept/VBD ./.)")
	assert.Equal(t, "the cat sat, then slept.", ChunkTreeToSent(tree, " "))
}

func firstTreebankTree(t *testing.T) *Tree {
	t.Helper()
	trees, err := openTestToolkit(t).TreebankParsedSents()
	require.NoError(t, err)
	return trees[0]
}

func TestFlattenDeepTree(t *testing.T) {
	got := FlattenDeepTree(firstTreebankTree(t))
	assert.Equal(t,
		"(S (NP Pierre/NNP Vinken/NNP) ,/, (NP 61/CD years/NNS) old/JJ ,/, will/MD join/VB "+
			"(NP the/DT board/NN) as/IN (NP a/DT nonexecutive/JJ director/NN) (NP-TMP Nov./NNP 29/CD) ./.)",
		got.String())
	assert.Equal(t, 3, got.Height())
}

func TestShallowTree(t *testing.T) {
	got := ShallowTree(firstTreebankTree(t))
	assert.Equal(t,
		"(S (NP-SBJ Pierre/NNP Vinken/NNP ,/, 61/CD years/NNS old/JJ ,/,) "+
			"(VP will/MD join/VB the/DT board/NN as/IN a/DT nonexecutive/JJ director/NN Nov./NNP 29/CD) ./.)",
		got.String())
}

func TestConvertTreeLabels(t *testing.T) {
	tree := mustParseChunked(t, "(S (NP the/DT cat/NN) (VP sat/VBD))")
	got := ConvertTreeLabels(tree, map[string]string{"NP": "NOUN"})
	assert.Equal(t, "(S (NOUN the/DT cat/NN) (VP sat/VBD))", got.String())
	assert.Equal(t, "(S (NP the/DT cat/NN) (VP sat/VBD))", tree.String())
}

func TestConllTags(t *testing.T) {
	rows := []ConllTag{
		{"a", "DT", "I-NP"},
		{"b", "NN", "I-NP"},
		{"c", "VB", "I-VP"},
		{"d", ".", "O"},
	}
	tree := ConllTagsToTree(rows, "S")
	assert.Equal(t, "(S (NP a/DT b/NN) (VP c/VB) d/.)", tree.String())

	assert.Equal(t, []ConllTag{
		{"a", "DT", "B-NP"},
		{"b", "NN", "I-NP"},
		{"c", "VB", "B-VP"},
		{"d", ".", "O"},
	}, TreeToConllTags(tree))
}
