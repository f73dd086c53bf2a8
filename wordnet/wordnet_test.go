package wordnet

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dictDir = "../testdata/wordnet"

func openTest(t *testing.T) *WordNet {
	t.Helper()
	wn, err := Open(dictDir)
	require.NoError(t, err)
	return wn
}

func mustSynset(t *testing.T, wn *WordNet, name string) *Synset {
	t.Helper()
	ss, err := wn.Synset(name)
	require.NoError(t, err, "Synset(%q)", name)
	return ss
}

func names(ss []*Synset) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = s.Name()
	}
	return out
}

func TestOpenMissingDir(t *testing.T) {
	_, err := Open("testdata/nope")
	assert.Error(t, err)
}

// copyDict copies the fixture database to a temporary directory,
// replacing old with new in the named file.
func copyDict(t *testing.T, file, old, new string) string {
	t.Helper()
	dir := t.TempDir()
	entries, err := os.ReadDir(dictDir)
	require.NoError(t, err)
	for _, e := range entries {
		b, err := os.ReadFile(filepath.Join(dictDir, e.Name()))
		require.NoError(t, err)
		if e.Name() == file {
			require.Contains(t, string(b), old)
			b = []byte(strings.Replace(string(b), old, new, 1))
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, e.Name()), b, 0o644))
	}
	return dir
}

func TestOpenMalformedIndex(t *testing.T) {
	tests := []struct {
		name, old, new string
	}{
		{"negative count", "badly r 1 1", "badly r -1 1"},
		{"count past the offsets", "badly r 1 1", "badly r 9 1"},
		{"bad count", "badly r 1 1", "badly r x 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(copyDict(t, "index.adv", tt.old, tt.new))
			assert.ErrorContains(t, err, "index.adv")
		})
	}
}

func TestMalformedPointer(t *testing.T) {
	// Replacements keep the line length so that offsets stay valid.
	tests := []struct {
		name, new string
	}{
		{"short source/target", "! 00000146 r 01  "},
		{"bad hex", "! 00000146 r 01zz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wn, err := Open(copyDict(t, "data.adv", "! 00000146 r 0101", tt.new))
			require.NoError(t, err)

			_, err = wn.Synset("badly.r.01")
			assert.ErrorContains(t, err, "pointer")
			assert.Empty(t, wn.Synsets("badly", Adv))

			well := mustSynset(t, wn, "well.r.01")
			assert.Equal(t, "well.r.01", well.Name())
		})
	}
}

func TestSynsets(t *testing.T) {
	wn := openTest(t)
	tests := []struct {
		word string
		pos  []string
		want []string
	}{
		{"dog", nil, []string{"dog.n.01", "frump.n.01", "chase.v.01"}},
		{"dog", []string{Verb}, []string{"chase.v.01"}},
		{"dogs", []string{Noun}, []string{"dog.n.01", "frump.n.01"}},
		{"good", []string{Adj}, []string{"good.a.01", "beneficial.s.01"}},
		{"Albert Einstein", nil, []string{"einstein.n.01"}},
		{"children", nil, []string{"child.n.01"}},
		{"zzz", nil, []string{}},
	}
	for _, tt := range tests {
		got := names(wn.Synsets(tt.word, tt.pos...))
		assert.Equal(t, tt.want, got, "Synsets(%q, %v)", tt.word, tt.pos)
	}
}

func TestSynsetFields(t *testing.T) {
	wn := openTest(t)
	dog := mustSynset(t, wn, "dog.n.01")

	assert.Equal(t, Noun, dog.POS())
	assert.Equal(t, "a member of the genus Canis (probably descended from the common wolf) that has been domesticated by man since prehistoric times; occurs in many breeds", dog.Definition())
	assert.Equal(t, []string{"the dog barked all night"}, dog.Examples())
	assert.Equal(t, []string{"dog", "domestic_dog", "Canis_familiaris"}, dog.LemmaNames())
	assert.Equal(t, []string{"canine.n.01", "domestic_animal.n.01"}, names(dog.Hypernyms()))
	assert.Equal(t, "Lemma('dog.n.01.dog')", dog.Lemmas()[0].String())
	assert.Equal(t, "Canis familiaris", dog.Lemmas()[2].DisplayName())

	chase := mustSynset(t, wn, "chase.v.01")
	assert.Equal(t, []string{"The policeman chased the mugger down the alley"}, chase.Examples())
}

func TestSynsetLookupErrors(t *testing.T) {
	wn := openTest(t)
	for _, name := range []string{"dog.n.03", "dog", "good.a.02", "dog.x.01", "dog.n.zero"} {
		_, err := wn.Synset(name)
		assert.Error(t, err, "Synset(%q)", name)
	}
	_, err := wn.Synset("good.a.02")
	assert.True(t, errors.Is(err, ErrNoSynset))
}

func TestMorphy(t *testing.T) {
	wn := openTest(t)
	tests := []struct {
		form, pos string
		want      string
		ok        bool
	}{
		{"dogs", Noun, "dog", true},
		{"children", Noun, "child", true},
		{"believes", Noun, "belief", true},
		{"dying", Verb, "die", true},
		{"cooking", Verb, "cook", true},
		{"loves", Verb, "love", true},
		{"better", Adj, "good", true},
		{"dying", Noun, "dying", true},
		{"churches", Noun, "", false},
		{"loves", "", "love", true},
	}
	for _, tt := range tests {
		got, ok := wn.Morphy(tt.form, tt.pos)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Morphy(%q, %q) = %q, %v, want %q, %v", tt.form, tt.pos, got, ok, tt.want, tt.ok)
		}
	}
}

func TestKnown(t *testing.T) {
	wn := openTest(t)
	for word, want := range map[string]bool{
		"love":         true,
		"loves":        true,
		"loove":        false,
		"hippopotamus": true,
		"uh":           false,
		"coordination": true,
	} {
		if got := wn.Known(word); got != want {
			t.Errorf("Known(%q) = %v, want %v", word, got, want)
		}
	}
}

func TestSynonymsAntonyms(t *testing.T) {
	wn := openTest(t)
	assert.Equal(t, []string{"good", "beneficial", "well"}, wn.Synonyms("good"))
	assert.Equal(t, []string{"bad", "badly"}, wn.Antonyms("good"))
	assert.Equal(t, []string{"hate"}, wn.Antonyms("love"))

	happy := mustSynset(t, wn, "happy.a.01")
	ants := happy.Lemmas()[0].Antonyms()
	require.Len(t, ants, 1)
	assert.Equal(t, "unhappy", ants[0].Name())
	assert.Equal(t, "unhappy.a.01", ants[0].Synset().Name())
}

func TestAllSynsets(t *testing.T) {
	wn := openTest(t)
	assert.Len(t, wn.AllSynsets(Verb), 9)
	assert.Len(t, wn.AllSynsets(Adj), 5)
	assert.Equal(t, []string{"beneficial.s.01"}, names(wn.AllSynsets(AdjSat)))
	assert.Len(t, wn.AllSynsets(""), len(wn.AllSynsets(Noun))+9+5+2)
}

func TestDepths(t *testing.T) {
	wn := openTest(t)
	tests := []struct {
		name     string
		min, max int
	}{
		{"entity.n.01", 0, 0},
		{"dog.n.01", 7, 12},
		{"cat.n.01", 12, 12},
		{"einstein.n.01", 7, 7},
		{"die.v.01", 2, 2},
	}
	for _, tt := range tests {
		ss := mustSynset(t, wn, tt.name)
		if got := ss.MinDepth(); got != tt.min {
			t.Errorf("%s.MinDepth() = %d, want %d", tt.name, got, tt.min)
		}
		if got := ss.MaxDepth(); got != tt.max {
			t.Errorf("%s.MaxDepth() = %d, want %d", tt.name, got, tt.max)
		}
	}

	einstein := mustSynset(t, wn, "einstein.n.01")
	assert.Empty(t, einstein.Hypernyms())
	assert.Equal(t, []string{"physicist.n.01"}, names(einstein.InstanceHypernyms()))

	paths := mustSynset(t, wn, "dog.n.01").HypernymPaths()
	require.Len(t, paths, 2)
	assert.Equal(t, "entity.n.01", paths[0][0].Name())
	assert.Equal(t, "dog.n.01", paths[0][len(paths[0])-1].Name())
	assert.Len(t, paths[1], 8)
}

func TestShortestPathDistance(t *testing.T) {
	wn := openTest(t)
	dog := mustSynset(t, wn, "dog.n.01")
	cat := mustSynset(t, wn, "cat.n.01")
	love := mustSynset(t, wn, "love.v.01")

	assert.Equal(t, 0, dog.ShortestPathDistance(dog, false))
	assert.Equal(t, 4, dog.ShortestPathDistance(cat, false))
	assert.Equal(t, -1, dog.ShortestPathDistance(love, false))
	assert.Equal(t, 14, dog.ShortestPathDistance(love, true))
}

func TestLowestCommonHypernyms(t *testing.T) {
	wn := openTest(t)
	dog := mustSynset(t, wn, "dog.n.01")
	cat := mustSynset(t, wn, "cat.n.01")
	assert.Equal(t, []string{"carnivore.n.01"}, names(dog.LowestCommonHypernyms(cat, false, false)))

	love := mustSynset(t, wn, "love.v.01")
	hate := mustSynset(t, wn, "hate.v.01")
	assert.Empty(t, love.LowestCommonHypernyms(hate, false, true))
	assert.Equal(t, []string{rootName}, names(love.LowestCommonHypernyms(hate, true, true)))
}

func TestSimilarity(t *testing.T) {
	wn := openTest(t)
	dog := mustSynset(t, wn, "dog.n.01")
	cat := mustSynset(t, wn, "cat.n.01")
	love := mustSynset(t, wn, "love.v.01")
	hate := mustSynset(t, wn, "hate.v.01")

	tests := []struct {
		name string
		fn   func() (float64, bool)
		want float64
	}{
		{"path dog cat", func() (float64, bool) { return dog.PathSimilarity(cat) }, 0.2},
		{"path dog dog", func() (float64, bool) { return dog.PathSimilarity(dog) }, 1},
		{"wup dog cat", func() (float64, bool) { return dog.WupSimilarity(cat) }, 22.0 / 26.0},
		{"path love hate", func() (float64, bool) { return love.PathSimilarity(hate) }, 1.0 / 3.0},
		{"wup love hate", func() (float64, bool) { return love.WupSimilarity(hate) }, 0.5},
	}
	for _, tt := range tests {
		got, ok := tt.fn()
		require.True(t, ok, tt.name)
		assert.InDelta(t, tt.want, got, 1e-9, tt.name)
	}

	lch, ok, err := dog.LCHSimilarity(cat)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, -math.Log(5.0/24.0), lch, 1e-9)

	lch, ok, err = love.LCHSimilarity(hate)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, math.Ln2, lch, 1e-9)

	_, _, err = dog.LCHSimilarity(love)
	assert.ErrorIs(t, err, ErrPOSMismatch)
}
