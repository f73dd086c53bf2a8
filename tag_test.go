package textlab

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// tinyTrain is small enough to reason about: "can" is MD once and NN
// once.
var tinyTrain = []TaggedSent{
	{{"the", "DT"}, {"cat", "NN"}, {"sat", "VBD"}},
	{{"the", "DT"}, {"dog", "NN"}, {"barked", "VBD"}},
	{{"I", "PRP"}, {"can", "MD"}, {"run", "VB"}},
	{{"a", "DT"}, {"can", "NN"}, {"fell", "VBD"}},
}

func TestDefaultTagger(t *testing.T) {
	tagger := NewDefaultTagger("NN")
	assert.Equal(t, TaggedSent{{"Hello", "NN"}, {"World", "NN"}}, tagger.Tag([]string{"Hello", "World"}))
	assert.Equal(t, "<DefaultTagger: tag=NN>", tagger.String())
	assert.Empty(t, tagger.Tag(nil))
}

func TestUnigramTagger(t *testing.T) {
	tagger := NewUnigramTagger(tinyTrain, nil, 0)
	assert.Equal(t, 10, tagger.Size())
	// MD and NN tie for "can"; the smaller tag wins
	assert.Equal(t, TaggedSent{{"the", "DT"}, {"can", "MD"}, {"zzz", ""}}, tagger.Tag([]string{"the", "can", "zzz"}))

	cut := NewUnigramTagger(tinyTrain, nil, 1)
	assert.Equal(t, 1, cut.Size())
	assert.Equal(t, "DT", cut.Tag([]string{"the"})[0].Tag)
}

func TestBigramTaggerKeepsOnlyUsefulContexts(t *testing.T) {
	uni := NewUnigramTagger(tinyTrain, NewDefaultTagger("NN"), 0)
	bi := NewBigramTagger(tinyTrain, uni, 0)
	assert.Equal(t, 1, bi.Size())
	assert.Equal(t, "<NgramTagger: n=2, size=1>", bi.String())

	assert.Equal(t, TaggedSent{{"a", "DT"}, {"can", "NN"}, {"fell", "VBD"}}, bi.Tag([]string{"a", "can", "fell"}))
	assert.Equal(t, TaggedSent{{"I", "PRP"}, {"can", "MD"}, {"run", "VB"}}, bi.Tag([]string{"I", "can", "run"}))
	assert.Equal(t, "NN", bi.Tag([]string{"zzz"})[0].Tag)
}

func TestAffixTagger(t *testing.T) {
	suffix := NewAffixTagger(tinyTrain, nil, 0)
	assert.Equal(t, map[string]string{"ked": "VBD"}, suffix.Context)
	assert.Equal(t, TaggedSent{{"parked", "VBD"}, {"cat", ""}}, suffix.Tag([]string{"parked", "cat"}))

	prefix := NewAffixTaggerWith(tinyTrain, 2, 1, nil, 0)
	assert.Equal(t, "NN", prefix.Tag([]string{"cab"})[0].Tag)
	assert.Equal(t, "", prefix.Tag([]string{"I"})[0].Tag)
}

func TestRegexpTagger(t *testing.T) {
	tagger, err := NewRegexpTagger(DefaultRegexpRules, nil)
	require.NoError(t, err)
	tests := []struct {
		word, want string
	}{
		{"running", "VBG"},
		{"42", "CD"},
		{"-3.5", "CD"},
		{"the", "DT"},
		{"cats", "NNS"},
		{"happiness", "NN"},
		{"could", "MD"},
		{"wonderful", "JJ"},
		{"zzz", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tagger.Tag([]string{tt.word})[0].Tag, "Tag(%q)", tt.word)
	}

	_, err = NewRegexpTagger([]RegexpRule{{`(`, "X"}}, nil)
	assert.Error(t, err)
}

func TestWordNetTagger(t *testing.T) {
	tagger := &WordNetTagger{WordNet: openTestToolkit(t).WordNet(), Backoff: NewDefaultTagger("XX")}
	got := tagger.Tag([]string{"dog", "good", "love", "zzz"})
	assert.Equal(t, TaggedSent{{"dog", "NN"}, {"good", "JJ"}, {"love", "NN"}, {"zzz", "XX"}}, got)

	none := &WordNetTagger{}
	assert.Equal(t, "", none.Tag([]string{"dog"})[0].Tag)
}

func TestPretrainedTagger(t *testing.T) {
	got := NewPretrainedTagger().Tag([]string{"The", "dog", "barked"})
	require.Len(t, got, 3)
	assert.Equal(t, []string{"The", "dog", "barked"}, got.Words())
	assert.Equal(t, "DT", got[0].Tag)
}

func TestPosTag(t *testing.T) {
	got, err := PosTag("The dog barked")
	require.NoError(t, err)
	assert.Equal(t, []string{"The", "dog", "barked"}, got.Words())
	assert.Equal(t, "DT", got[0].Tag)
}

func TestMakeBackoffs(t *testing.T) {
	tagger := MakeBackoffs(tinyTrain, []TaggerBuilder{AffixBuilder, UnigramBuilder, BigramBuilder, TrigramBuilder}, NewDefaultTagger("NN"))

	var chain []string
	for st := tagger; st != nil; st = st.BackoffTagger() {
		switch st := st.(type) {
		case *NgramTagger:
			chain = append(chain, map[int]string{1: "unigram", 2: "bigram", 3: "trigram"}[st.N])
		case *AffixTagger:
			chain = append(chain, "affix")
		case *DefaultTagger:
			chain = append(chain, "default")
		}
	}
	assert.Equal(t, []string{"trigram", "bigram", "unigram", "affix", "default"}, chain)
	assert.Equal(t, 1.0, Evaluate(tagger, tinyTrain))
}

func TestEvaluate(t *testing.T) {
	assert.InDelta(t, 0.25, Evaluate(NewDefaultTagger("NN"), tinyTrain), 1e-9)
	assert.Zero(t, Evaluate(NewDefaultTagger("NN"), nil))
}

func TestCompareTaggers(t *testing.T) {
	defer goleak.VerifyNone(t)

	taggers := []NamedTagger{
		{"default", NewDefaultTagger("NN")},
		{"unigram", NewUnigramTagger(tinyTrain, NewDefaultTagger("NN"), 0)},
		{"dt", NewDefaultTagger("DT")},
	}
	scores, err := CompareTaggers(context.Background(), taggers, tinyTrain, 2)
	require.NoError(t, err)
	require.Len(t, scores, 3)
	assert.Equal(t, "default", scores[0].Name)
	assert.InDelta(t, 0.25, scores[0].Accuracy, 1e-9)
	assert.Equal(t, "unigram", scores[1].Name)
	assert.InDelta(t, 11.0/12.0, scores[1].Accuracy, 1e-9)
	assert.InDelta(t, 0.25, scores[2].Accuracy, 1e-9)
}

func TestCompareTaggersCanceled(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := CompareTaggers(ctx, []NamedTagger{{"default", NewDefaultTagger("NN")}}, tinyTrain, 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSplitTrainTest(t *testing.T) {
	train, test := SplitTrainTest(tinyTrain, 0.75)
	assert.Len(t, train, 3)
	assert.Len(t, test, 1)

	train, test = SplitTrainTest(tinyTrain, 2)
	assert.Len(t, train, 4)
	assert.Empty(t, test)
}
