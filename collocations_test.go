package textlab

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var collocWords = []string{"a", "b", "a", "b", "c", "a", "b"}

func TestBigramAssocMeasures(t *testing.T) {
	var bam BigramAssocMeasures
	ab := BigramMarginals{NII: 3, NIX: 3, NXI: 3, NXX: 7}

	assert.InDelta(t, 3.0/7.0, bam.RawFreq(ab), 1e-9)
	assert.InDelta(t, 1.0, bam.PhiSq(ab), 1e-9)
	assert.InDelta(t, 7.0, bam.ChiSq(ab), 1e-9)
	assert.InDelta(t, (3-9.0/7.0)/math.Sqrt(3), bam.StudentT(ab), 1e-9)
	assert.InDelta(t, math.Log2(21.0/9.0), bam.PMI(ab), 1e-9)
	assert.Greater(t, bam.LikelihoodRatio(ab), 0.0)

	assert.Zero(t, bam.PhiSq(BigramMarginals{NII: 1, NIX: 1, NXI: 1, NXX: 1}))
}

func TestMeasureLookup(t *testing.T) {
	for _, name := range []string{"", "likelihood_ratio", "chi_sq", "pmi", "raw_freq", "student_t", "phi_sq"} {
		_, err := BigramMeasure(name)
		assert.NoError(t, err, "BigramMeasure(%q)", name)
	}
	_, err := BigramMeasure("bogus")
	assert.Error(t, err)

	_, err = TrigramMeasure("phi_sq")
	assert.Error(t, err)
	_, err = TrigramMeasure("pmi")
	assert.NoError(t, err)
}

func TestBigramCollocationFinder(t *testing.T) {
	var bam BigramAssocMeasures
	f := NewBigramCollocationFinder(collocWords)
	assert.Equal(t, 7, f.N)
	assert.Equal(t, 3, f.NgramFD[[2]string{"a", "b"}])

	scored := f.ScoreNgrams(bam.RawFreq)
	require.Len(t, scored, 4)
	assert.Equal(t, []string{"a", "b"}, scored[0].Ngram)
	assert.Equal(t, "(a, b) 0.4286", scored[0].String())
	// ties are ordered by n-gram
	assert.Equal(t, [][]string{{"a", "b"}, {"b", "a"}, {"b", "c"}, {"c", "a"}}, f.NBest(bam.RawFreq, 10))

	assert.Equal(t, [][]string{{"a", "b"}}, f.NBest(bam.LikelihoodRatio, 1))
	assert.Equal(t, [][]string{{"a", "b"}}, f.NBest(bam.ChiSq, 1))
}

func TestBigramCollocationFinderFilters(t *testing.T) {
	var bam BigramAssocMeasures

	f := NewBigramCollocationFinder(collocWords)
	f.ApplyFreqFilter(2)
	assert.Equal(t, [][]string{{"a", "b"}}, f.NBest(bam.PMI, 10))

	f = NewBigramCollocationFinder(collocWords)
	f.ApplyWordFilter(func(w string) bool { return w == "c" })
	assert.Equal(t, [][]string{{"a", "b"}, {"b", "a"}}, f.NBest(bam.RawFreq, 10))
	assert.Equal(t, 1, f.WordFD["c"])

	f = NewBigramCollocationFinder(collocWords)
	f.ApplyNgramFilter(func(w1, w2 string) bool { return w1 == "a" })
	assert.Len(t, f.NBest(bam.RawFreq, 10), 3)
}

func TestBigramCollocationFinderWindow(t *testing.T) {
	f := NewBigramCollocationFinderWindow([]string{"a", "b", "c"}, 3)
	assert.Equal(t, 3, f.WindowSize)
	assert.Equal(t, map[[2]string]int{{"a", "b"}: 1, {"a", "c"}: 1, {"b", "c"}: 1}, f.NgramFD)

	scored := f.ScoreNgrams(BigramAssocMeasures{}.RawFreq)
	require.Len(t, scored, 3)
	assert.InDelta(t, 0.5/3, scored[0].Score, 1e-9)
}

func TestTrigramCollocationFinder(t *testing.T) {
	var tam TrigramAssocMeasures
	f := NewTrigramCollocationFinder(collocWords)
	assert.Len(t, f.NgramFD, 5)
	assert.Equal(t, 3, f.BigramFD[[2]string{"a", "b"}])
	assert.Equal(t, 1, f.WildcardFD[[2]string{"a", "a"}])

	assert.Equal(t, [][]string{{"a", "b", "a"}, {"a", "b", "c"}}, f.NBest(tam.RawFreq, 2))

	f.ApplyWordFilter(func(w string) bool { return w == "c" })
	assert.Equal(t, [][]string{{"a", "b", "a"}, {"b", "a", "b"}}, f.NBest(tam.RawFreq, 5))

	f.ApplyNgramFilter(func(w1, _, _ string) bool { return w1 == "b" })
	f.ApplyFreqFilter(1)
	assert.Equal(t, [][]string{{"a", "b", "a"}}, f.NBest(tam.StudentT, 5))
}

func TestCollocationWordFilter(t *testing.T) {
	drop := CollocationWordFilter(3, map[string]struct{}{"the": {}})
	assert.True(t, drop("an"))
	assert.True(t, drop("the"))
	assert.False(t, drop("grail"))
}

func TestWebtextCollocations(t *testing.T) {
	words, err := openTestToolkit(t).WebtextWords("grail.txt")
	require.NoError(t, err)
	stop, err := Stopwords("english")
	require.NoError(t, err)

	lower := make([]string, len(words))
	for i, w := range words {
		lower[i] = Lower(w)
	}
	f := NewBigramCollocationFinder(lower)
	f.ApplyWordFilter(CollocationWordFilter(3, stop))
	best := f.NBest(BigramAssocMeasures{}.LikelihoodRatio, 4)
	assert.NotEmpty(t, best)
	for _, bg := range best {
		assert.GreaterOrEqual(t, len(bg[0]), 3)
		assert.NotContains(t, stop, bg[1])
	}
}
