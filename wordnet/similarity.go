package wordnet

import (
	"fmt"
	"math"
	"sort"
)

// rootName names the synthetic synset placed above every root when a
// measure simulates a single root.
const rootName = "*ROOT*"

// fakeRoot has no pointers and no database.
var fakeRoot = &Synset{name: rootName}

// needsRoot reports whether the taxonomy of s lacks a unique root.
// WordNet 3.0 nouns all descend from entity.n.01; verbs do not.
func (s *Synset) needsRoot() bool {
	return s.pos != Noun
}

// MaxDepth returns the length of the longest hypernym path from s to a
// root.
func (s *Synset) MaxDepth() int {
	ps := s.parents()
	if len(ps) == 0 {
		return 0
	}
	d := 0
	for _, p := range ps {
		d = max(d, p.MaxDepth())
	}
	return d + 1
}

// MinDepth returns the length of the shortest hypernym path from s to
// a root.
func (s *Synset) MinDepth() int {
	ps := s.parents()
	if len(ps) == 0 {
		return 0
	}
	d := math.MaxInt
	for _, p := range ps {
		d = min(d, p.MinDepth())
	}
	return d + 1
}

// HypernymPaths returns every path from a root down to s.
func (s *Synset) HypernymPaths() [][]*Synset {
	ps := s.parents()
	if len(ps) == 0 {
		return [][]*Synset{{s}}
	}
	var paths [][]*Synset
	for _, p := range ps {
		for _, path := range p.HypernymPaths() {
			paths = append(paths, append(append([]*Synset(nil), path...), s))
		}
	}
	return paths
}

// hypernymDistances maps every ancestor of s (and s itself) to its
// shortest distance from s, by breadth-first search over hypernyms and
// instance hypernyms. With simulateRoot the fake root is added one step
// past the farthest ancestor.
func (s *Synset) hypernymDistances(simulateRoot bool) map[*Synset]int {
	if s == fakeRoot {
		return map[*Synset]int{fakeRoot: 0}
	}
	type item struct {
		ss    *Synset
		depth int
	}
	dist := make(map[*Synset]int)
	queue := []item{{s, 0}}
	for len(queue) > 0 {
		it := queue[0]
		queue = queue[1:]
		if _, seen := dist[it.ss]; seen {
			continue
		}
		dist[it.ss] = it.depth
		for _, p := range it.ss.parents() {
			queue = append(queue, item{p, it.depth + 1})
		}
	}
	if simulateRoot {
		far := 0
		for _, d := range dist {
			far = max(far, d)
		}
		dist[fakeRoot] = far + 1
	}
	return dist
}

// ShortestPathDistance returns the number of edges on the shortest path
// between s and other through a common hypernym, or -1 when they share
// none.
func (s *Synset) ShortestPathDistance(other *Synset, simulateRoot bool) int {
	if s == other {
		return 0
	}
	d1 := s.hypernymDistances(simulateRoot)
	d2 := other.hypernymDistances(simulateRoot)
	best := -1
	for ss, a := range d1 {
		if b, ok := d2[ss]; ok && (best < 0 || a+b < best) {
			best = a + b
		}
	}
	return best
}

// commonHypernyms returns the synsets that are ancestors of (or equal
// to) both s and other.
func (s *Synset) commonHypernyms(other *Synset) []*Synset {
	mine := s.hypernymDistances(false)
	var out []*Synset
	for ss := range other.hypernymDistances(false) {
		if _, ok := mine[ss]; ok {
			out = append(out, ss)
		}
	}
	return out
}

// LowestCommonHypernyms returns the deepest shared ancestors of s and
// other, sorted by name. Depth is MinDepth when useMinDepth is set and
// MaxDepth otherwise.
func (s *Synset) LowestCommonHypernyms(other *Synset, simulateRoot, useMinDepth bool) []*Synset {
	common := s.commonHypernyms(other)
	if simulateRoot {
		common = append(common, fakeRoot)
	}
	if len(common) == 0 {
		return nil
	}
	depth := func(ss *Synset) int {
		if useMinDepth {
			return ss.MinDepth()
		}
		return ss.MaxDepth()
	}
	deepest := -1
	for _, ss := range common {
		deepest = max(deepest, depth(ss))
	}
	var out []*Synset
	for _, ss := range common {
		if depth(ss) == deepest {
			out = append(out, ss)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// PathSimilarity scores s and other by 1/(d+1) where d is the shortest
// path distance. The second result is false when no path exists.
func (s *Synset) PathSimilarity(other *Synset) (float64, bool) {
	d := s.ShortestPathDistance(other, s.needsRoot() || other.needsRoot())
	if d < 0 {
		return 0, false
	}
	return 1 / float64(d+1), true
}

// WupSimilarity returns the Wu-Palmer score 2·depth(lcs) /
// (len1 + len2 + 2·depth(lcs)), with depths counted from 1.
func (s *Synset) WupSimilarity(other *Synset) (float64, bool) {
	root := s.needsRoot() || other.needsRoot()
	subsumers := s.LowestCommonHypernyms(other, root, true)
	if len(subsumers) == 0 {
		return 0, false
	}
	subsumer := subsumers[0]
	for _, ss := range subsumers {
		if ss == s {
			subsumer = s
			break
		}
	}
	depth := subsumer.MaxDepth() + 1
	len1 := s.ShortestPathDistance(subsumer, root)
	len2 := other.ShortestPathDistance(subsumer, root)
	if len1 < 0 || len2 < 0 {
		return 0, false
	}
	return 2 * float64(depth) / float64(len1+len2+2*depth), true
}

// LCHSimilarity returns the Leacock-Chodorow score -log((d+1)/(2·D))
// where D is the deepest taxonomy depth of the part of speech. Both
// synsets must share a part of speech.
func (s *Synset) LCHSimilarity(other *Synset) (float64, bool, error) {
	if s.pos != other.pos {
		return 0, false, fmt.Errorf("%s and %s: %w", s.name, other.name, ErrPOSMismatch)
	}
	root := s.needsRoot()
	depth := s.wn.taxonomyDepth(s.pos, root)
	d := s.ShortestPathDistance(other, root)
	if d < 0 || depth == 0 {
		return 0, false, nil
	}
	return -math.Log(float64(d+1) / (2 * float64(depth))), true, nil
}

// taxonomyDepth returns the largest MaxDepth over all synsets of pos,
// plus one when a root is simulated. Results are cached.
func (wn *WordNet) taxonomyDepth(pos string, simulateRoot bool) int {
	wn.mu.Lock()
	d, ok := wn.maxDepth[pos]
	wn.mu.Unlock()
	if ok {
		return d
	}
	for _, ss := range wn.AllSynsets(pos) {
		d = max(d, ss.MaxDepth())
	}
	if simulateRoot {
		d++
	}
	wn.mu.Lock()
	wn.maxDepth[pos] = d
	wn.mu.Unlock()
	return d
}
