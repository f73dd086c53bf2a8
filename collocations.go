package textlab

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

const small = 1e-20

// BigramMarginals are the counts a bigram association measure scores:
// the bigram count, the counts of its two words and the total number
// of words.
type BigramMarginals struct {
	NII      float64
	NIX, NXI float64
	NXX      float64
}

// TrigramMarginals are the counts a trigram association measure scores.
// NIIX counts (w1, w2, *), NIXI counts (w1, *, w3), NXII counts
// (*, w2, w3); NIXX, NXIX and NXXI are the word counts.
type TrigramMarginals struct {
	NIII             float64
	NIIX, NIXI, NXII float64
	NIXX, NXIX, NXXI float64
	NXXX             float64
}

// BigramScoreFunc scores a bigram from its marginals.
type BigramScoreFunc func(BigramMarginals) float64

// TrigramScoreFunc scores a trigram from its marginals.
type TrigramScoreFunc func(TrigramMarginals) float64

func (m BigramMarginals) contingency() []float64 {
	oi := m.NXI - m.NII
	io := m.NIX - m.NII
	return []float64{m.NII, oi, io, m.NXX - m.NII - oi - io}
}

func (m TrigramMarginals) contingency() []float64 {
	oii := m.NXII - m.NIII
	ioi := m.NIXI - m.NIII
	iio := m.NIIX - m.NIII
	ooi := m.NXXI - m.NIII - oii - ioi
	oio := m.NXIX - m.NIII - oii - iio
	ioo := m.NIXX - m.NIII - ioi - iio
	ooo := m.NXXX - m.NIII - oii - ioi - iio - ooi - oio - ioo
	return []float64{m.NIII, oii, ioi, ooi, iio, oio, ioo, ooo}
}

// expectedValues returns the expected count of each contingency cell
// if the n words occurred independently.
func expectedValues(cont []float64, n int) []float64 {
	total := 0.0
	for _, c := range cont {
		total += c
	}
	out := make([]float64, len(cont))
	for i := range cont {
		prod := 1.0
		for b := 0; b < n; b++ {
			bit := 1 << b
			sum := 0.0
			for x := range cont {
				if x&bit == i&bit {
					sum += cont[x]
				}
			}
			prod *= sum
		}
		out[i] = prod / math.Pow(total, float64(n-1))
	}
	return out
}

func likelihoodRatio(cont []float64, n int) float64 {
	sum := 0.0
	for i, exp := range expectedValues(cont, n) {
		obs := cont[i]
		sum += obs * math.Log(obs/(exp+small)+small)
	}
	return 2 * sum
}

func chiSq(cont []float64, n int) float64 {
	sum := 0.0
	for i, exp := range expectedValues(cont, n) {
		d := cont[i] - exp
		sum += d * d / (exp + small)
	}
	return sum
}

// BigramAssocMeasures groups the bigram association measures; use its
// methods as BigramScoreFunc values.
type BigramAssocMeasures struct{}

// RawFreq is the relative frequency of the bigram.
func (BigramAssocMeasures) RawFreq(m BigramMarginals) float64 { return m.NII / m.NXX }

// StudentT is Student's t test with independence as null hypothesis.
func (BigramAssocMeasures) StudentT(m BigramMarginals) float64 {
	return (m.NII - m.NIX*m.NXI/m.NXX) / math.Sqrt(m.NII+small)
}

// PMI is the pointwise mutual information of the two words.
func (BigramAssocMeasures) PMI(m BigramMarginals) float64 {
	return math.Log2(m.NII*m.NXX) - math.Log2(m.NIX*m.NXI)
}

// PhiSq is the square of the Pearson correlation coefficient.
func (BigramAssocMeasures) PhiSq(m BigramMarginals) float64 {
	c := m.contingency()
	ii, oi, io, oo := c[0], c[1], c[2], c[3]
	den := (ii + io) * (ii + oi) * (io + oo) * (oi + oo)
	if den == 0 {
		return 0
	}
	d := ii*oo - io*oi
	return d * d / den
}

// ChiSq is Pearson's chi-square, computed as N times PhiSq.
func (a BigramAssocMeasures) ChiSq(m BigramMarginals) float64 { return m.NXX * a.PhiSq(m) }

// LikelihoodRatio is the log-likelihood ratio of the contingency table.
func (BigramAssocMeasures) LikelihoodRatio(m BigramMarginals) float64 {
	return likelihoodRatio(m.contingency(), 2)
}

// TrigramAssocMeasures groups the trigram association measures.
type TrigramAssocMeasures struct{}

// RawFreq is the relative frequency of the trigram.
func (TrigramAssocMeasures) RawFreq(m TrigramMarginals) float64 { return m.NIII / m.NXXX }

// StudentT is Student's t test with independence as null hypothesis.
func (TrigramAssocMeasures) StudentT(m TrigramMarginals) float64 {
	return (m.NIII - m.NIXX*m.NXIX*m.NXXI/(m.NXXX*m.NXXX)) / math.Sqrt(m.NIII+small)
}

// PMI is the pointwise mutual information of the three words.
func (TrigramAssocMeasures) PMI(m TrigramMarginals) float64 {
	return math.Log2(m.NIII*m.NXXX*m.NXXX) - math.Log2(m.NIXX*m.NXIX*m.NXXI)
}

// ChiSq is Pearson's chi-square over the 2x2x2 contingency table.
func (TrigramAssocMeasures) ChiSq(m TrigramMarginals) float64 { return chiSq(m.contingency(), 3) }

// LikelihoodRatio is the log-likelihood ratio of the contingency table.
func (TrigramAssocMeasures) LikelihoodRatio(m TrigramMarginals) float64 {
	return likelihoodRatio(m.contingency(), 3)
}

// BigramMeasure looks a bigram measure up by name: likelihood_ratio,
// chi_sq, pmi, raw_freq, student_t or phi_sq.
func BigramMeasure(name string) (BigramScoreFunc, error) {
	var a BigramAssocMeasures
	switch name {
	case "likelihood_ratio", "":
		return a.LikelihoodRatio, nil
	case "chi_sq":
		return a.ChiSq, nil
	case "pmi":
		return a.PMI, nil
	case "raw_freq":
		return a.RawFreq, nil
	case "student_t":
		return a.StudentT, nil
	case "phi_sq":
		return a.PhiSq, nil
	}
	return nil, fmt.Errorf("unknown association measure %q", name)
}

// TrigramMeasure looks a trigram measure up by name: likelihood_ratio,
// chi_sq, pmi, raw_freq or student_t.
func TrigramMeasure(name string) (TrigramScoreFunc, error) {
	var a TrigramAssocMeasures
	switch name {
	case "likelihood_ratio", "":
		return a.LikelihoodRatio, nil
	case "chi_sq":
		return a.ChiSq, nil
	case "pmi":
		return a.PMI, nil
	case "raw_freq":
		return a.RawFreq, nil
	case "student_t":
		return a.StudentT, nil
	}
	return nil, fmt.Errorf("unknown association measure %q", name)
}

// ScoredNgram is an n-gram with its association score.
type ScoredNgram struct {
	Ngram []string
	Score float64
}

func (s ScoredNgram) String() string {
	return fmt.Sprintf("(%s) %.4f", strings.Join(s.Ngram, ", "), s.Score)
}

// sortScored orders by score descending, then by n-gram.
func sortScored(s []ScoredNgram) {
	sort.Slice(s, func(i, j int) bool {
		if s[i].Score != s[j].Score {
			return s[i].Score > s[j].Score
		}
		for k := range s[i].Ngram {
			if s[i].Ngram[k] != s[j].Ngram[k] {
				return s[i].Ngram[k] < s[j].Ngram[k]
			}
		}
		return false
	})
}

func ngramsOf(scored []ScoredNgram, n int) [][]string {
	n = min(n, len(scored))
	out := make([][]string, n)
	for i := range out {
		out[i] = scored[i].Ngram
	}
	return out
}

// BigramCollocationFinder counts the words of a text and the pairs that
// co-occur within a window.
type BigramCollocationFinder struct {
	WordFD     map[string]int
	NgramFD    map[[2]string]int
	N          int
	WindowSize int
}

// NewBigramCollocationFinder counts adjacent word pairs.
func NewBigramCollocationFinder(words []string) *BigramCollocationFinder {
	return NewBigramCollocationFinderWindow(words, 2)
}

// NewBigramCollocationFinderWindow counts each word paired with every
// word of the following windowSize-1 positions.
func NewBigramCollocationFinderWindow(words []string, windowSize int) *BigramCollocationFinder {
	windowSize = max(windowSize, 2)
	f := &BigramCollocationFinder{
		WordFD:     make(map[string]int),
		NgramFD:    make(map[[2]string]int),
		WindowSize: windowSize,
	}
	for i, w1 := range words {
		f.WordFD[w1]++
		for j := i + 1; j < i+windowSize && j < len(words); j++ {
			f.NgramFD[[2]string{w1, words[j]}]++
		}
	}
	f.N = len(words)
	return f
}

// ApplyFreqFilter drops bigrams seen fewer than minFreq times.
func (f *BigramCollocationFinder) ApplyFreqFilter(minFreq int) {
	for ng, n := range f.NgramFD {
		if n < minFreq {
			delete(f.NgramFD, ng)
		}
	}
}

// ApplyWordFilter drops bigrams containing a word for which drop is
// true. Word counts are left untouched.
func (f *BigramCollocationFinder) ApplyWordFilter(drop func(string) bool) {
	for ng := range f.NgramFD {
		if drop(ng[0]) || drop(ng[1]) {
			delete(f.NgramFD, ng)
		}
	}
}

// ApplyNgramFilter drops bigrams for which drop is true.
func (f *BigramCollocationFinder) ApplyNgramFilter(drop func(w1, w2 string) bool) {
	for ng := range f.NgramFD {
		if drop(ng[0], ng[1]) {
			delete(f.NgramFD, ng)
		}
	}
}

// ScoreNgrams scores every remaining bigram, best first.
func (f *BigramCollocationFinder) ScoreNgrams(score BigramScoreFunc) []ScoredNgram {
	out := make([]ScoredNgram, 0, len(f.NgramFD))
	for ng, n := range f.NgramFD {
		nii := float64(n) / float64(f.WindowSize-1)
		if nii == 0 {
			continue
		}
		out = append(out, ScoredNgram{
			Ngram: []string{ng[0], ng[1]},
			Score: score(BigramMarginals{
				NII: nii,
				NIX: float64(f.WordFD[ng[0]]),
				NXI: float64(f.WordFD[ng[1]]),
				NXX: float64(f.N),
			}),
		})
	}
	sortScored(out)
	return out
}

// NBest returns the n best bigrams under score.
func (f *BigramCollocationFinder) NBest(score BigramScoreFunc, n int) [][]string {
	return ngramsOf(f.ScoreNgrams(score), n)
}

// TrigramCollocationFinder counts the words, pairs, gapped pairs and
// triples of a text.
type TrigramCollocationFinder struct {
	WordFD     map[string]int
	BigramFD   map[[2]string]int
	WildcardFD map[[2]string]int
	NgramFD    map[[3]string]int
	N          int
}

// NewTrigramCollocationFinder counts the trigrams of words.
func NewTrigramCollocationFinder(words []string) *TrigramCollocationFinder {
	f := &TrigramCollocationFinder{
		WordFD:     make(map[string]int),
		BigramFD:   make(map[[2]string]int),
		WildcardFD: make(map[[2]string]int),
		NgramFD:    make(map[[3]string]int),
		N:          len(words),
	}
	for i, w1 := range words {
		f.WordFD[w1]++
		if i+1 >= len(words) {
			continue
		}
		f.BigramFD[[2]string{w1, words[i+1]}]++
		if i+2 >= len(words) {
			continue
		}
		f.WildcardFD[[2]string{w1, words[i+2]}]++
		f.NgramFD[[3]string{w1, words[i+1], words[i+2]}]++
	}
	return f
}

// ApplyFreqFilter drops trigrams seen fewer than minFreq times.
func (f *TrigramCollocationFinder) ApplyFreqFilter(minFreq int) {
	for ng, n := range f.NgramFD {
		if n < minFreq {
			delete(f.NgramFD, ng)
		}
	}
}

// ApplyWordFilter drops trigrams containing a word for which drop is
// true.
func (f *TrigramCollocationFinder) ApplyWordFilter(drop func(string) bool) {
	for ng := range f.NgramFD {
		if drop(ng[0]) || drop(ng[1]) || drop(ng[2]) {
			delete(f.NgramFD, ng)
		}
	}
}

// ApplyNgramFilter drops trigrams for which drop is true.
func (f *TrigramCollocationFinder) ApplyNgramFilter(drop func(w1, w2, w3 string) bool) {
	for ng := range f.NgramFD {
		if drop(ng[0], ng[1], ng[2]) {
			delete(f.NgramFD, ng)
		}
	}
}

// ScoreNgrams scores every remaining trigram, best first.
func (f *TrigramCollocationFinder) ScoreNgrams(score TrigramScoreFunc) []ScoredNgram {
	out := make([]ScoredNgram, 0, len(f.NgramFD))
	for ng, n := range f.NgramFD {
		if n == 0 {
			continue
		}
		w1, w2, w3 := ng[0], ng[1], ng[2]
		out = append(out, ScoredNgram{
			Ngram: []string{w1, w2, w3},
			Score: score(TrigramMarginals{
				NIII: float64(n),
				NIIX: float64(f.BigramFD[[2]string{w1, w2}]),
				NIXI: float64(f.WildcardFD[[2]string{w1, w3}]),
				NXII: float64(f.BigramFD[[2]string{w2, w3}]),
				NIXX: float64(f.WordFD[w1]),
				NXIX: float64(f.WordFD[w2]),
				NXXI: float64(f.WordFD[w3]),
				NXXX: float64(f.N),
			}),
		})
	}
	sortScored(out)
	return out
}

// NBest returns the n best trigrams under score.
func (f *TrigramCollocationFinder) NBest(score TrigramScoreFunc, n int) [][]string {
	return ngramsOf(f.ScoreNgrams(score), n)
}

// CollocationWordFilter returns the usual filter for collocation
// discovery: words shorter than minLen or in stop are dropped.
func CollocationWordFilter(minLen int, stop map[string]struct{}) func(string) bool {
	return func(w string) bool {
		if len([]rune(w)) < minLen {
			return true
		}
		_, ok := stop[w]
		return ok
	}
}
