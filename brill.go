package textlab

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"
)

// Feature kinds of a Brill template.
const (
	FeaturePos  = "Pos"
	FeatureWord = "Word"
)

// BrillFeature looks at the tag (Pos) or the word (Word) of the tokens
// at the given offsets from the current one.
type BrillFeature struct {
	Kind      string
	Positions []int
}

// PosFeature returns a feature over tags at the given offsets.
func PosFeature(positions ...int) BrillFeature { return BrillFeature{Kind: FeaturePos, Positions: positions} }

// WordFeature returns a feature over words at the given offsets.
func WordFeature(positions ...int) BrillFeature { return BrillFeature{Kind: FeatureWord, Positions: positions} }

func (f BrillFeature) String() string {
	ps := make([]string, len(f.Positions))
	for i, p := range f.Positions {
		ps[i] = strconv.Itoa(p)
	}
	return f.Kind + "([" + strings.Join(ps, ",") + "])"
}

// values returns the distinct values the feature sees around index.
func (f BrillFeature) values(words, tags []string, index int) []string {
	var out []string
	for _, p := range f.Positions {
		j := index + p
		if j < 0 || j >= len(tags) {
			continue
		}
		v := tags[j]
		if f.Kind == FeatureWord {
			v = words[j]
		}
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

// BrillTemplate is a conjunction of features a rule conditions on.
type BrillTemplate struct {
	Features []BrillFeature
}

// Template builds a template from features.
func Template(features ...BrillFeature) BrillTemplate {
	return BrillTemplate{Features: features}
}

func (t BrillTemplate) String() string {
	parts := make([]string, len(t.Features))
	for i, f := range t.Features {
		parts[i] = f.String()
	}
	return "Template(" + strings.Join(parts, ", ") + ")"
}

// DefaultBrillTemplates returns the eighteen templates of the usual
// Brill setup: nine tag patterns and the same nine over words.
func DefaultBrillTemplates() []BrillTemplate {
	var out []BrillTemplate
	for _, mk := range []func(...int) BrillFeature{PosFeature, WordFeature} {
		out = append(out,
			Template(mk(-1)),
			Template(mk(1)),
			Template(mk(-2)),
			Template(mk(2)),
			Template(mk(-2, -1)),
			Template(mk(1, 2)),
			Template(mk(-3, -2, -1)),
			Template(mk(1, 2, 3)),
			Template(mk(-1), mk(1)),
		)
	}
	return out
}

// BrillCondition requires Feature to see Value at one of its positions.
type BrillCondition struct {
	Feature BrillFeature
	Value   string
}

// BrillRule rewrites Original to Replacement wherever every condition
// holds.
type BrillRule struct {
	Original    string
	Replacement string
	Conditions  []BrillCondition
}

// String renders the rule as "NN->VB if Pos:TO@[-1]".
func (r BrillRule) String() string {
	conds := make([]string, len(r.Conditions))
	for i, c := range r.Conditions {
		ps := make([]string, len(c.Feature.Positions))
		for j, p := range c.Feature.Positions {
			ps[j] = strconv.Itoa(p)
		}
		conds[i] = fmt.Sprintf("%s:%s@[%s]", c.Feature.Kind, c.Value, strings.Join(ps, ","))
	}
	return r.Original + "->" + r.Replacement + " if " + strings.Join(conds, " & ")
}

// AppliesAt reports whether the rule fires at index.
func (r BrillRule) AppliesAt(words, tags []string, index int) bool {
	if tags[index] != r.Original {
		return false
	}
	for _, c := range r.Conditions {
		if !slices.Contains(c.Feature.values(words, tags, index), c.Value) {
			return false
		}
	}
	return true
}

// Apply rewrites tags in place at every position where the rule fires
// and returns those positions. Positions are found before any change.
func (r BrillRule) Apply(words, tags []string) []int {
	var changed []int
	for i := range tags {
		if r.AppliesAt(words, tags, i) {
			changed = append(changed, i)
		}
	}
	for _, i := range changed {
		tags[i] = r.Replacement
	}
	return changed
}

// BrillTagger tags with Initial and then corrects the result with the
// learned rules, in order.
type BrillTagger struct {
	Initial Tagger
	Rules   []BrillRule
}

func (t *BrillTagger) Tag(tokens []string) TaggedSent {
	tagged := t.Initial.Tag(tokens)
	words, tags := tagged.Words(), tagged.Tags()
	for _, r := range t.Rules {
		r.Apply(words, tags)
	}
	return zip(words, tags)
}

func (t *BrillTagger) String() string {
	return fmt.Sprintf("<BrillTagger: %d rules>", len(t.Rules))
}

// TrainBrill learns up to maxRules transformation rules that correct the
// output of initial on train. At each step the rule with the highest
// score (errors fixed minus errors introduced) is kept; ties go to the
// rule whose string sorts first. Training stops when no rule scores at
// least minScore.
func TrainBrill(initial Tagger, train []TaggedSent, templates []BrillTemplate, maxRules, minScore int) (*BrillTagger, error) {
	if len(train) == 0 {
		return nil, ErrNoTrainingData
	}
	if len(templates) == 0 {
		templates = DefaultBrillTemplates()
	}
	minScore = max(minScore, 1)

	type sentence struct {
		words, gold, tags []string
	}
	corpus := make([]sentence, len(train))
	for i, sent := range train {
		words := sent.Words()
		corpus[i] = sentence{words: words, gold: sent.Tags(), tags: initial.Tag(words).Tags()}
	}

	bt := &BrillTagger{Initial: initial}
	for len(bt.Rules) < maxRules {
		fixes := make(map[string]int)
		rules := make(map[string]BrillRule)
		for _, s := range corpus {
			for i := range s.tags {
				if s.tags[i] == s.gold[i] {
					continue
				}
				for _, tpl := range templates {
					for _, r := range candidateRules(tpl, s.words, s.tags, i, s.gold[i]) {
						key := r.String()
						if _, ok := rules[key]; !ok {
							rules[key] = r
						}
						fixes[key]++
					}
				}
			}
		}

		keys := make([]string, 0, len(fixes))
		for k := range fixes {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			if fixes[keys[i]] != fixes[keys[j]] {
				return fixes[keys[i]] > fixes[keys[j]]
			}
			return keys[i] < keys[j]
		})

		bestKey, bestScore := "", minScore-1
		for _, k := range keys {
			if fixes[k] < bestScore || (fixes[k] == bestScore && bestKey == "") {
				break
			}
			r := rules[k]
			score := 0
			for _, s := range corpus {
				for i := range s.tags {
					if !r.AppliesAt(s.words, s.tags, i) {
						continue
					}
					switch s.gold[i] {
					case r.Replacement:
						score++
					case r.Original:
						score--
					}
				}
			}
			if score > bestScore || (score == bestScore && bestKey != "" && k < bestKey) {
				bestKey, bestScore = k, score
			}
		}
		if bestKey == "" {
			break
		}
		best := rules[bestKey]
		for _, s := range corpus {
			best.Apply(s.words, s.tags)
		}
		bt.Rules = append(bt.Rules, best)
	}
	return bt, nil
}

// candidateRules returns every rule of tpl that would turn the tag at
// index into gold, one per combination of the feature values seen.
func candidateRules(tpl BrillTemplate, words, tags []string, index int, gold string) []BrillRule {
	combos := [][]BrillCondition{nil}
	for _, f := range tpl.Features {
		vals := f.values(words, tags, index)
		if len(vals) == 0 {
			return nil
		}
		next := make([][]BrillCondition, 0, len(combos)*len(vals))
		for _, c := range combos {
			for _, v := range vals {
				cond := append(append([]BrillCondition(nil), c...), BrillCondition{Feature: f, Value: v})
				next = append(next, cond)
			}
		}
		combos = next
	}
	out := make([]BrillRule, len(combos))
	for i, c := range combos {
		out[i] = BrillRule{Original: tags[index], Replacement: gold, Conditions: c}
	}
	return out
}
