package textlab

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"sync"
)

// Features maps feature names to values. An empty value stands for a
// feature that is present but has no value (None): it is counted like
// any other value, whereas a missing name is ignored when classifying.
type Features map[string]string

// Present is the value of set-membership features.
const Present = "true"

// LabeledFeatures is a training or test instance.
type LabeledFeatures struct {
	Features Features
	Label    string
}

// BagOfWords marks every word as present.
func BagOfWords(words []string) Features {
	f := make(Features, len(words))
	for _, w := range words {
		f[w] = Present
	}
	return f
}

// BagOfNonStopwords is BagOfWords over the words not in the stopword
// list of lang.
func BagOfNonStopwords(words []string, lang string) (Features, error) {
	stop, err := Stopwords(lang)
	if err != nil {
		return nil, err
	}
	f := make(Features, len(words))
	for _, w := range words {
		if _, ok := stop[w]; !ok {
			f[w] = Present
		}
	}
	return f, nil
}

// BagOfBigramWords is BagOfWords over the words plus the n best bigrams
// under score, each written "w1 w2".
func BagOfBigramWords(words []string, score BigramScoreFunc, n int) Features {
	f := BagOfWords(words)
	for _, bg := range NewBigramCollocationFinder(words).NBest(score, n) {
		f[strings.Join(bg, " ")] = Present
	}
	return f
}

// CategorizedCorpus is a corpus whose files are grouped by category.
type CategorizedCorpus interface {
	Categories() []string
	FileIDs(category string) []string
	Words(fileID string) ([]string, error)
}

var _ CategorizedCorpus = (*DirCorpus)(nil)

// LabelFeatsFromCorpus extracts the features of every file of c, grouped
// by category.
func LabelFeatsFromCorpus(c CategorizedCorpus, detect func([]string) Features) (map[string][]Features, error) {
	out := make(map[string][]Features)
	for _, label := range c.Categories() {
		for _, id := range c.FileIDs(label) {
			words, err := c.Words(id)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", id, err)
			}
			out[label] = append(out[label], detect(words))
		}
	}
	return out, nil
}

// SplitLabelFeats puts the first split share of each label's instances in
// train and the rest in test. Labels are visited in sorted order.
func SplitLabelFeats(lfeats map[string][]Features, split float64) (train, test []LabeledFeatures) {
	for _, label := range sortedKeys(lfeats) {
		feats := lfeats[label]
		cut := int(float64(len(feats)) * split)
		for i, f := range feats {
			lf := LabeledFeatures{Features: f, Label: label}
			if i < cut {
				train = append(train, lf)
			} else {
				test = append(test, lf)
			}
		}
	}
	return train, test
}

// Classifier labels feature sets.
type Classifier interface {
	Classify(Features) string
}

// ProbDist is a probability distribution over labels.
type ProbDist struct {
	labels []string
	probs  map[string]float64
}

// Max returns the most probable label; ties go to the first label in
// sorted order.
func (d ProbDist) Max() string {
	best := ""
	for i, l := range d.labels {
		if i == 0 || d.probs[l] > d.probs[best] {
			best = l
		}
	}
	return best
}

// Prob returns the probability of label.
func (d ProbDist) Prob(label string) float64 { return d.probs[label] }

// Samples returns the labels, sorted.
func (d ProbDist) Samples() []string { return d.labels }

// eleProb is the expected likelihood estimate of a count: add 0.5 to
// every bin.
func eleProb(count, total, bins int) float64 {
	return (float64(count) + 0.5) / (float64(total) + float64(bins)*0.5)
}

// NaiveBayes is a naive Bayes classifier with expected likelihood
// estimates. Feature counts are kept per label and feature name.
type NaiveBayes struct {
	Labels        []string
	LabelCounts   map[string]int
	Total         int
	FeatureCounts map[string]map[string]int
	FeatureTotals map[string]int
	FeatureBins   map[string]int

	once        sync.Once
	informative []FeatureValue
}

func fkey(label, fname string) string { return label + keySep + fname }

// TrainNaiveBayes counts labels and feature values. A feature missing
// from an instance is counted as present with no value.
func TrainNaiveBayes(data []LabeledFeatures) (*NaiveBayes, error) {
	if len(data) == 0 {
		return nil, ErrNoTrainingData
	}
	nb := &NaiveBayes{
		LabelCounts:   make(map[string]int),
		FeatureCounts: make(map[string]map[string]int),
		FeatureTotals: make(map[string]int),
		FeatureBins:   make(map[string]int),
	}
	values := make(map[string]map[string]bool)
	for _, lf := range data {
		nb.LabelCounts[lf.Label]++
		nb.Total++
		for name, val := range lf.Features {
			incr(nb.FeatureCounts, fkey(lf.Label, name), val)
			nb.FeatureTotals[fkey(lf.Label, name)]++
			if values[name] == nil {
				values[name] = make(map[string]bool)
			}
			values[name][val] = true
		}
	}
	nb.Labels = sortedKeys(nb.LabelCounts)
	for _, label := range nb.Labels {
		n := nb.LabelCounts[label]
		for name := range values {
			k := fkey(label, name)
			if missing := n - nb.FeatureTotals[k]; missing > 0 {
				if nb.FeatureCounts[k] == nil {
					nb.FeatureCounts[k] = make(map[string]int)
				}
				nb.FeatureCounts[k][""] += missing
				nb.FeatureTotals[k] += missing
				values[name][""] = true
			}
		}
	}
	for name, vals := range values {
		nb.FeatureBins[name] = len(vals)
	}
	return nb, nil
}

func (nb *NaiveBayes) featureProb(label, name, val string) float64 {
	k := fkey(label, name)
	return eleProb(nb.FeatureCounts[k][val], nb.FeatureTotals[k], nb.FeatureBins[name])
}

// ProbClassify returns the posterior distribution over labels. Feature
// names never seen in training are ignored.
func (nb *NaiveBayes) ProbClassify(f Features) ProbDist {
	logp := make(map[string]float64, len(nb.Labels))
	for _, label := range nb.Labels {
		lp := math.Log2(eleProb(nb.LabelCounts[label], nb.Total, len(nb.Labels)))
		for name, val := range f {
			if _, known := nb.FeatureBins[name]; !known {
				continue
			}
			lp += math.Log2(nb.featureProb(label, name, val))
		}
		logp[label] = lp
	}
	return normalizeLog2(nb.Labels, logp)
}

// normalizeLog2 turns base-2 log scores into probabilities summing to 1.
func normalizeLog2(labels []string, logp map[string]float64) ProbDist {
	top := math.Inf(-1)
	for _, l := range labels {
		top = math.Max(top, logp[l])
	}
	sum := 0.0
	for _, l := range labels {
		sum += math.Exp2(logp[l] - top)
	}
	probs := make(map[string]float64, len(labels))
	for _, l := range labels {
		probs[l] = math.Exp2(logp[l]-top) / sum
	}
	return ProbDist{labels: labels, probs: probs}
}

// Classify returns the most probable label.
func (nb *NaiveBayes) Classify(f Features) string {
	return nb.ProbClassify(f).Max()
}

// FeatureValue is a feature name with one of its values.
type FeatureValue struct {
	Name  string
	Value string
}

// MostInformativeFeatures returns the n feature values whose probability
// differs most between labels, measured by the ratio of the smallest to
// the largest label probability among the labels the value was seen
// with.
func (nb *NaiveBayes) MostInformativeFeatures(n int) []FeatureValue {
	nb.once.Do(nb.rankFeatures)
	return nb.informative[:min(n, len(nb.informative))]
}

func (nb *NaiveBayes) rankFeatures() {
	maxp := make(map[FeatureValue]float64)
	minp := make(map[FeatureValue]float64)
	for k, counts := range nb.FeatureCounts {
		label, name, _ := strings.Cut(k, keySep)
		for val := range counts {
			fv := FeatureValue{Name: name, Value: val}
			p := nb.featureProb(label, name, val)
			if cur, ok := maxp[fv]; !ok || p > cur {
				maxp[fv] = p
			}
			if cur, ok := minp[fv]; !ok || p < cur {
				minp[fv] = p
			}
		}
	}
	out := make([]FeatureValue, 0, len(maxp))
	for fv := range maxp {
		out = append(out, fv)
	}
	special := func(v string) bool { return v == "" || v == Present }
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		ra, rb := minp[a]/maxp[a], minp[b]/maxp[b]
		if ra != rb {
			return ra < rb
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		if special(a.Value) != special(b.Value) {
			return !special(a.Value)
		}
		return strings.ToLower(a.Value) < strings.ToLower(b.Value)
	})
	nb.informative = out
}

func reprValue(v string) string {
	switch v {
	case "":
		return "None"
	case Present:
		return "True"
	}
	return "'" + v + "'"
}

// ShowMostInformativeFeatures writes the n most informative features
// with the ratio between the most and least likely labels.
func (nb *NaiveBayes) ShowMostInformativeFeatures(w io.Writer, n int) error {
	if _, err := fmt.Fprintln(w, "Most Informative Features"); err != nil {
		return err
	}
	for _, fv := range nb.MostInformativeFeatures(n) {
		var labels []string
		for _, l := range nb.Labels {
			if _, seen := nb.FeatureCounts[fkey(l, fv.Name)][fv.Value]; seen {
				labels = append(labels, l)
			}
		}
		if len(labels) < 2 {
			continue
		}
		sort.SliceStable(labels, func(i, j int) bool {
			return nb.featureProb(labels[i], fv.Name, fv.Value) > nb.featureProb(labels[j], fv.Name, fv.Value)
		})
		hi, lo := labels[0], labels[len(labels)-1]
		ratio := nb.featureProb(hi, fv.Name, fv.Value) / nb.featureProb(lo, fv.Name, fv.Value)
		_, err := fmt.Fprintf(w, "%24s = %-14s %6s : %-6s = %8.1f : 1.0\n",
			fv.Name, reprValue(fv.Value), truncate(hi, 6), truncate(lo, 6), ratio)
		if err != nil {
			return err
		}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// Accuracy returns the share of gold instances c labels correctly.
func Accuracy(c Classifier, gold []LabeledFeatures) float64 {
	if len(gold) == 0 {
		return 0
	}
	correct := 0
	for _, lf := range gold {
		if c.Classify(lf.Features) == lf.Label {
			correct++
		}
	}
	return float64(correct) / float64(len(gold))
}
