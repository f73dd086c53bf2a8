package textlab

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

const bos = "BOS"

// TnT is a second-order hidden Markov model tagger (Brants 2000). Tag
// transition probabilities interpolate unigram, bigram and trigram
// estimates with weights found by deleted interpolation. Tagging keeps
// the N most probable tag sequences; words never seen in training are
// tagged by Unk (or "Unk" when it is nil) without affecting the scores.
type TnT struct {
	Unk Tagger
	N   int

	Uni  map[string]int
	UniN int
	Bi   map[string]map[string]int
	BiN  map[string]int
	Tri  map[string]map[string]int
	TriN map[string]int
	Wd   map[string]map[string]int

	L1, L2, L3 float64
}

// NewTnT returns an untrained tagger with beam width n (200 when n < 1).
func NewTnT(unk Tagger, n int) *TnT {
	if n < 1 {
		n = 200
	}
	return &TnT{
		Unk:  unk,
		N:    n,
		Uni:  make(map[string]int),
		Bi:   make(map[string]map[string]int),
		BiN:  make(map[string]int),
		Tri:  make(map[string]map[string]int),
		TriN: make(map[string]int),
		Wd:   make(map[string]map[string]int),
	}
}

func incr(m map[string]map[string]int, k1, k2 string) {
	inner, ok := m[k1]
	if !ok {
		inner = make(map[string]int)
		m[k1] = inner
	}
	inner[k2]++
}

// Train counts the tag n-grams and word/tag pairs of data and computes
// the interpolation weights. It may be called again with more data.
func (t *TnT) Train(data []TaggedSent) error {
	for _, sent := range data {
		h1, h2 := bos, bos
		for _, tw := range sent {
			incr(t.Wd, tw.Word, tw.Tag)
			t.Uni[tw.Tag]++
			t.UniN++
			incr(t.Bi, h2, tw.Tag)
			t.BiN[h2]++
			tri := h1 + keySep + h2
			incr(t.Tri, tri, tw.Tag)
			t.TriN[tri]++
			h1, h2 = h2, tw.Tag
		}
	}
	return t.computeLambda()
}

func safeDiv(a, b int) float64 {
	if b == 0 {
		return -1
	}
	return float64(a) / float64(b)
}

// computeLambda credits each trigram count to the estimator that best
// predicts it with that occurrence left out.
func (t *TnT) computeLambda() error {
	var tl1, tl2, tl3 float64
	for hist, tags := range t.Tri {
		h2 := hist[strings.LastIndex(hist, keySep)+1:]
		for tag, n := range tags {
			if t.Uni[tag] == 1 {
				continue
			}
			c3 := safeDiv(n-1, t.TriN[hist]-1)
			c2 := safeDiv(t.Bi[h2][tag]-1, t.BiN[h2]-1)
			c1 := safeDiv(t.Uni[tag]-1, t.UniN-1)
			w := float64(n)
			switch {
			case c1 > c3 && c1 > c2:
				tl1 += w
			case c2 > c3 && c2 > c1:
				tl2 += w
			case c3 > c2 && c3 > c1:
				tl3 += w
			case c3 == c2 && c3 > c1:
				tl2 += w / 2
				tl3 += w / 2
			case c2 == c1 && c1 > c3:
				tl1 += w / 2
				tl2 += w / 2
			}
		}
	}
	sum := tl1 + tl2 + tl3
	if sum == 0 {
		return fmt.Errorf("tnt: cannot estimate interpolation weights: %w", ErrNoTrainingData)
	}
	t.L1, t.L2, t.L3 = tl1/sum, tl2/sum, tl3/sum
	return nil
}

type tntState struct {
	tags    []string
	logprob float64
}

func freq(m map[string]int, n int, k string) float64 {
	if n == 0 {
		return 0
	}
	return float64(m[k]) / float64(n)
}

// Tag returns the most probable tag sequence found by the beam search.
func (t *TnT) Tag(tokens []string) TaggedSent {
	states := []tntState{{tags: []string{bos, bos}}}
	for _, word := range tokens {
		wd, known := t.Wd[word]
		if !known {
			tag := "Unk"
			if t.Unk != nil {
				if tagged := t.Unk.Tag([]string{word}); len(tagged) == 1 {
					tag = tagged[0].Tag
				}
			}
			for i := range states {
				states[i].tags = append(states[i].tags, tag)
			}
			continue
		}

		cands := sortedKeys(wd)
		next := make([]tntState, 0, len(states)*len(cands))
		for _, st := range states {
			h1, h2 := st.tags[len(st.tags)-2], st.tags[len(st.tags)-1]
			tri := h1 + keySep + h2
			for _, tag := range cands {
				p := t.L1*freq(t.Uni, t.UniN, tag) +
					t.L2*freq(t.Bi[h2], t.BiN[h2], tag) +
					t.L3*freq(t.Tri[tri], t.TriN[tri], tag)
				pw := float64(wd[tag]) / float64(t.Uni[tag])
				tags := append(append(make([]string, 0, len(st.tags)+1), st.tags...), tag)
				next = append(next, tntState{tags: tags, logprob: st.logprob + math.Log2(p) + math.Log2(pw)})
			}
		}
		sort.SliceStable(next, func(i, j int) bool { return next[i].logprob > next[j].logprob })
		if len(next) > t.N {
			next = next[:t.N]
		}
		states = next
	}
	return zip(tokens, states[0].tags[2:])
}

func (t *TnT) String() string {
	return fmt.Sprintf("<TnT: %d words, %d tags, l=(%.3f, %.3f, %.3f)>", len(t.Wd), len(t.Uni), t.L1, t.L2, t.L3)
}
