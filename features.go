package textlab

import (
	"fmt"
	"regexp"
	"strings"
)

// FeatureDetector extracts the features of tokens[index] given the tags
// chosen so far.
type FeatureDetector func(tokens []string, index int, history []string) Features

// featureDetectors holds the detectors a ClassifierTagger can refer to
// by name, so that trained taggers can be saved and loaded.
var featureDetectors = map[string]FeatureDetector{
	"pos": POSFeatures,
	"iob": iobFeatures,
}

// RegisterFeatureDetector makes fn available to ClassifierTagger under
// name.
func RegisterFeatureDetector(name string, fn FeatureDetector) {
	featureDetectors[name] = fn
}

var (
	shapeNumber    = regexp.MustCompile(`^(?:[0-9]+(\.[0-9]*)?|[0-9]*\.[0-9]+$)`)
	shapePunct     = regexp.MustCompile(`^\W+$`)
	shapeUpcase    = regexp.MustCompile(`^[A-Z][a-z]+$`)
	shapeDowncase  = regexp.MustCompile(`^[a-z]+$`)
	shapeMixedcase = regexp.MustCompile(`^\w+$`)
)

func wordShape(w string) string {
	switch {
	case shapeNumber.MatchString(w):
		return "number"
	case shapePunct.MatchString(w):
		return "punct"
	case shapeUpcase.MatchString(w):
		return "upcase"
	case shapeDowncase.MatchString(w):
		return "downcase"
	case shapeMixedcase.MatchString(w):
		return "mixedcase"
	}
	return "other"
}

func suffix(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[len(rs)-n:])
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}

// POSFeatures describes a word for part-of-speech tagging: the word, its
// suffixes and shape, the two previous words and the two previous tags.
// Features before the start of the sentence are present with no value.
func POSFeatures(tokens []string, index int, history []string) Features {
	word := tokens[index]
	lower := strings.ToLower(word)
	var prevword, prevprevword, prevtag, prevprevtag string
	if index > 0 {
		prevword = strings.ToLower(tokens[index-1])
		prevtag = history[index-1]
	}
	if index > 1 {
		prevprevword = strings.ToLower(tokens[index-2])
		prevprevtag = history[index-2]
	}
	return Features{
		"prevtag":          prevtag,
		"prevprevtag":      prevprevtag,
		"word":             word,
		"word.lower":       lower,
		"suffix3":          suffix(lower, 3),
		"suffix2":          suffix(lower, 2),
		"suffix1":          suffix(lower, 1),
		"prevprevword":     prevprevword,
		"prevword":         prevword,
		"prevtag+word":     orNone(prevtag) + "+" + lower,
		"prevprevtag+word": orNone(prevprevtag) + "+" + lower,
		"prevword+word":    orNone(prevword) + "+" + lower,
		"shape":            wordShape(word),
	}
}

// PrevNextPosIOB describes a tagged word for chunking: the word and tag
// of itself and its neighbours and the previous IOB tag. Positions past
// either end of the sentence read "<START>" or "<END>".
func PrevNextPosIOB(tokens []TaggedWord, index int, history []string) Features {
	prevword, prevpos, previob := "<START>", "<START>", "<START>"
	if index > 0 {
		prevword, prevpos = tokens[index-1].Word, tokens[index-1].Tag
		previob = history[index-1]
	}
	nextword, nextpos := "<END>", "<END>"
	if index < len(tokens)-1 {
		nextword, nextpos = tokens[index+1].Word, tokens[index+1].Tag
	}
	return Features{
		"word":     tokens[index].Word,
		"pos":      tokens[index].Tag,
		"nextword": nextword,
		"nextpos":  nextpos,
		"prevword": prevword,
		"prevpos":  prevpos,
		"previob":  previob,
	}
}

// joinWordTag packs a tagged word into a single token for taggers whose
// input is word and tag together.
func joinWordTag(tw TaggedWord) string { return tw.Word + keySep + tw.Tag }

func splitWordTag(tok string) TaggedWord {
	w, t, _ := strings.Cut(tok, keySep)
	return TaggedWord{Word: w, Tag: t}
}

func iobFeatures(tokens []string, index int, history []string) Features {
	tagged := make([]TaggedWord, len(tokens))
	for i, tok := range tokens {
		tagged[i] = splitWordTag(tok)
	}
	return PrevNextPosIOB(tagged, index, history)
}

// ClassifierTagger tags with a naive Bayes classifier over the features
// of the registered detector Detector. When CutoffProb is positive and
// the best tag is less probable than that, the backoff decides.
type ClassifierTagger struct {
	Detector   string
	Classifier *NaiveBayes
	CutoffProb float64
	Backoff    SequentialTagger
}

// NewClassifierTagger trains a classifier tagger on train using the
// detector registered as detector. History during training is the gold
// tags.
func NewClassifierTagger(train []TaggedSent, detector string, backoff SequentialTagger) (*ClassifierTagger, error) {
	detect, ok := featureDetectors[detector]
	if !ok {
		return nil, fmt.Errorf("unknown feature detector %q", detector)
	}
	var data []LabeledFeatures
	for _, sent := range train {
		tokens, tags := sent.Words(), sent.Tags()
		for i := range sent {
			data = append(data, LabeledFeatures{Features: detect(tokens, i, tags[:i]), Label: tags[i]})
		}
	}
	nb, err := TrainNaiveBayes(data)
	if err != nil {
		return nil, fmt.Errorf("classifier tagger: %w", err)
	}
	return &ClassifierTagger{Detector: detector, Classifier: nb, Backoff: backoff}, nil
}

// NewClassifierPOSTagger trains a part-of-speech tagger with POSFeatures.
func NewClassifierPOSTagger(train []TaggedSent) (*ClassifierTagger, error) {
	return NewClassifierTagger(train, "pos", nil)
}

func (t *ClassifierTagger) Tag(tokens []string) TaggedSent { return tagSequence(t, tokens) }

func (t *ClassifierTagger) ChooseTag(tokens []string, index int, history []string) (string, bool) {
	detect, ok := featureDetectors[t.Detector]
	if !ok {
		return "", false
	}
	f := detect(tokens, index, history)
	if t.CutoffProb <= 0 {
		return t.Classifier.Classify(f), true
	}
	pd := t.Classifier.ProbClassify(f)
	best := pd.Max()
	if pd.Prob(best) < t.CutoffProb {
		return "", false
	}
	return best, true
}

func (t *ClassifierTagger) BackoffTagger() SequentialTagger { return t.Backoff }

func (t *ClassifierTagger) String() string {
	return fmt.Sprintf("<ClassifierTagger: detector=%s, %d labels>", t.Detector, len(t.Classifier.Labels))
}
