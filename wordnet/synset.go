package wordnet

import "strings"

// Pointer symbols used by the relations below.
const (
	ptrAntonym          = "!"
	ptrHypernym         = "@"
	ptrInstanceHypernym = "@i"
	ptrHyponym          = "~"
	ptrInstanceHyponym  = "~i"
	ptrSimilarTo        = "&"
)

type pointer struct {
	symbol string
	offset int64
	pos    string
	// source and target are 1-based lemma numbers; 0 for semantic
	// pointers between whole synsets.
	source int
	target int
}

// Synset is a set of synonymous lemmas sharing one sense.
type Synset struct {
	wn         *WordNet
	offset     int64
	pos        string
	lexFile    int
	name       string
	lemmas     []*Lemma
	pointers   []pointer
	definition string
	examples   []string
}

// Name returns the synset name, e.g. "dog.n.01".
func (s *Synset) Name() string { return s.name }

// POS returns the part of speech: n, v, a, s or r.
func (s *Synset) POS() string { return s.pos }

// Offset returns the byte offset of the synset in its data file.
func (s *Synset) Offset() int64 { return s.offset }

// Definition returns the gloss without its examples.
func (s *Synset) Definition() string { return s.definition }

// Examples returns the usage examples of the gloss.
func (s *Synset) Examples() []string { return s.examples }

// Lemmas returns the lemmas of the synset in database order.
func (s *Synset) Lemmas() []*Lemma { return s.lemmas }

// LemmaNames returns the names of the synset's lemmas.
func (s *Synset) LemmaNames() []string {
	out := make([]string, len(s.lemmas))
	for i, l := range s.lemmas {
		out[i] = l.name
	}
	return out
}

func (s *Synset) String() string { return "Synset('" + s.name + "')" }

// related follows the semantic pointers with the given symbol.
func (s *Synset) related(symbol string) []*Synset {
	if s.wn == nil {
		return nil
	}
	var out []*Synset
	for _, p := range s.pointers {
		if p.symbol != symbol || p.source != 0 {
			continue
		}
		if ss, err := s.wn.synsetAt(p.pos, p.offset); err == nil {
			out = append(out, ss)
		}
	}
	return out
}

// Hypernyms returns the more general synsets ("is a kind of").
func (s *Synset) Hypernyms() []*Synset { return s.related(ptrHypernym) }

// InstanceHypernyms returns the classes s is an instance of.
func (s *Synset) InstanceHypernyms() []*Synset { return s.related(ptrInstanceHypernym) }

// Hyponyms returns the more specific synsets.
func (s *Synset) Hyponyms() []*Synset { return s.related(ptrHyponym) }

// InstanceHyponyms returns the instances of s.
func (s *Synset) InstanceHyponyms() []*Synset { return s.related(ptrInstanceHyponym) }

// SimilarTos returns the adjective clusters linked to s.
func (s *Synset) SimilarTos() []*Synset { return s.related(ptrSimilarTo) }

// parents returns hypernyms followed by instance hypernyms.
func (s *Synset) parents() []*Synset {
	return append(s.Hypernyms(), s.InstanceHypernyms()...)
}

// Lemma is one word form of a synset.
type Lemma struct {
	name   string
	synset *Synset
}

// Name returns the lemma as stored, with underscores for spaces.
func (l *Lemma) Name() string { return l.name }

// Synset returns the synset the lemma belongs to.
func (l *Lemma) Synset() *Synset { return l.synset }

func (l *Lemma) String() string {
	return "Lemma('" + l.synset.name + "." + l.name + "')"
}

// number returns the 1-based position of l in its synset.
func (l *Lemma) number() int {
	for i, other := range l.synset.lemmas {
		if other == l {
			return i + 1
		}
	}
	return 0
}

// Antonyms returns the lemmas linked to l by antonym pointers.
func (l *Lemma) Antonyms() []*Lemma {
	ss := l.synset
	n := l.number()
	var out []*Lemma
	for _, p := range ss.pointers {
		if p.symbol != ptrAntonym || p.source != n {
			continue
		}
		target, err := ss.wn.synsetAt(p.pos, p.offset)
		if err != nil || p.target < 1 || p.target > len(target.lemmas) {
			continue
		}
		out = append(out, target.lemmas[p.target-1])
	}
	return out
}

// DisplayName returns the lemma with underscores replaced by spaces.
func (l *Lemma) DisplayName() string {
	return strings.ReplaceAll(l.name, "_", " ")
}
