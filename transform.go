package textlab

import (
	"fmt"
	"io"
	"strings"
)

// ChunkPredicate tests one tagged word of a chunk.
type ChunkPredicate func(TaggedWord) bool

// TagStartsWith matches words whose tag has the given prefix.
func TagStartsWith(prefix string) ChunkPredicate {
	return func(tw TaggedWord) bool { return strings.HasPrefix(tw.Tag, prefix) }
}

// TagEquals matches words tagged exactly tag.
func TagEquals(tag string) ChunkPredicate {
	return func(tw TaggedWord) bool { return tw.Tag == tag }
}

// FirstChunkIndex returns the index of the first word from start,
// moving by step, for which pred holds, or -1.
func FirstChunkIndex(chunk []TaggedWord, pred ChunkPredicate, start, step int) int {
	if step == 0 {
		step = 1
	}
	for i := start; i >= 0 && i < len(chunk); i += step {
		if pred(chunk[i]) {
			return i
		}
	}
	return -1
}

func cloneChunk(chunk []TaggedWord) []TaggedWord {
	return append([]TaggedWord(nil), chunk...)
}

// FilterInsignificant drops words whose tag ends with one of suffixes;
// with no suffixes, determiners and coordinating conjunctions (DT, CC)
// are dropped.
func FilterInsignificant(chunk []TaggedWord, suffixes ...string) []TaggedWord {
	if len(suffixes) == 0 {
		suffixes = []string{"DT", "CC"}
	}
	out := make([]TaggedWord, 0, len(chunk))
next:
	for _, tw := range chunk {
		for _, s := range suffixes {
			if strings.HasSuffix(tw.Tag, s) {
				continue next
			}
		}
		out = append(out, tw)
	}
	return out
}

var (
	pluralVerbForms = map[TaggedWord]TaggedWord{
		{"is", "VBZ"}:  {"are", "VBP"},
		{"was", "VBD"}: {"were", "VBD"},
	}
	singularVerbForms = map[TaggedWord]TaggedWord{
		{"are", "VBP"}:  {"is", "VBZ"},
		{"were", "VBD"}: {"was", "VBD"},
	}
)

// CorrectVerbs makes the first verb agree in number with the nearest
// noun, looking right of the verb first and then left.
func CorrectVerbs(chunk []TaggedWord) []TaggedWord {
	out := cloneChunk(chunk)
	vb := FirstChunkIndex(out, TagStartsWith("VB"), 0, 1)
	if vb < 0 {
		return out
	}
	isNoun := TagStartsWith("NN")
	nn := FirstChunkIndex(out, isNoun, vb+1, 1)
	if nn < 0 {
		nn = FirstChunkIndex(out, isNoun, vb-1, -1)
	}
	if nn < 0 {
		return out
	}
	forms := singularVerbForms
	if strings.HasSuffix(out[nn].Tag, "S") {
		forms = pluralVerbForms
	}
	if f, ok := forms[out[vb]]; ok {
		out[vb] = f
	}
	return out
}

// SwapVerbPhrase pivots the chunk around its first finite verb: the
// words after the verb come first, then the words before it; the verb
// itself is dropped.
func SwapVerbPhrase(chunk []TaggedWord) []TaggedWord {
	vb := FirstChunkIndex(chunk, func(tw TaggedWord) bool {
		return tw.Tag != "VBG" && strings.HasPrefix(tw.Tag, "VB") && len(tw.Tag) > 2
	}, 0, 1)
	if vb < 0 {
		return cloneChunk(chunk)
	}
	out := make([]TaggedWord, 0, len(chunk)-1)
	out = append(out, chunk[vb+1:]...)
	return append(out, chunk[:vb]...)
}

// SwapNounCardinal moves the first cardinal number in front of the noun
// that precedes it.
func SwapNounCardinal(chunk []TaggedWord) []TaggedWord {
	out := cloneChunk(chunk)
	cd := FirstChunkIndex(out, TagEquals("CD"), 0, 1)
	if cd <= 0 || !strings.HasPrefix(out[cd-1].Tag, "NN") {
		return out
	}
	out[cd-1], out[cd] = out[cd], out[cd-1]
	return out
}

// SwapInfinitivePhrase rewrites "book of recipes" as "recipes book": the
// words after the first preposition (other than "like") move in front
// of the noun phrase it attaches to, and the preposition is dropped.
func SwapInfinitivePhrase(chunk []TaggedWord) []TaggedWord {
	in := FirstChunkIndex(chunk, func(tw TaggedWord) bool {
		return tw.Tag == "IN" && tw.Word != "like"
	}, 0, 1)
	if in < 0 {
		return cloneChunk(chunk)
	}
	nn := max(FirstChunkIndex(chunk, TagStartsWith("NN"), in, -1), 0)
	out := make([]TaggedWord, 0, len(chunk)-1)
	out = append(out, chunk[:nn]...)
	out = append(out, chunk[in+1:]...)
	return append(out, chunk[nn:in]...)
}

// SingularizePluralNoun makes the first plural noun singular when
// another noun follows it ("recipes book" → "recipe book").
func SingularizePluralNoun(chunk []TaggedWord) []TaggedWord {
	out := cloneChunk(chunk)
	nns := FirstChunkIndex(out, TagEquals("NNS"), 0, 1)
	if nns >= 0 && nns+1 < len(out) && strings.HasPrefix(out[nns+1].Tag, "NN") {
		out[nns] = TaggedWord{
			Word: strings.TrimRight(out[nns].Word, "s"),
			Tag:  strings.TrimRight(out[nns].Tag, "S"),
		}
	}
	return out
}

// ChunkTransform is a named chunk rewriting step.
type ChunkTransform struct {
	Name string
	Fn   func([]TaggedWord) []TaggedWord
}

// DefaultTransformChain filters insignificant words, then swaps verb
// and infinitive phrases and singularizes plural nouns.
var DefaultTransformChain = []ChunkTransform{
	{"filter_insignificant", func(c []TaggedWord) []TaggedWord { return FilterInsignificant(c) }},
	{"swap_verb_phrase", SwapVerbPhrase},
	{"swap_infinitive_phrase", SwapInfinitivePhrase},
	{"singularize_plural_noun", SingularizePluralNoun},
}

// TransformChunk applies chain to chunk in order. When trace is not nil
// each intermediate result is written to it as "name : chunk".
func TransformChunk(chunk []TaggedWord, chain []ChunkTransform, trace io.Writer) []TaggedWord {
	if chain == nil {
		chain = DefaultTransformChain
	}
	out := cloneChunk(chunk)
	for _, step := range chain {
		out = step.Fn(out)
		if trace != nil {
			fmt.Fprintf(trace, "%s : %s\n", step.Name, TaggedSent(out))
		}
	}
	return out
}
