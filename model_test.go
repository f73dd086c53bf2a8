package textlab

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaggerRoundTrip(t *testing.T) {
	re, err := NewRegexpTagger(DefaultRegexpRules, NewDefaultTagger("NN"))
	require.NoError(t, err)
	chain := MakeBackoffs(tinyTrain, []TaggerBuilder{AffixBuilder, UnigramBuilder, BigramBuilder}, re)
	brill, err := TrainBrill(NewUnigramTagger(brillTrain, NewDefaultTagger("NN"), 0), brillTrain, nil, 5, 1)
	require.NoError(t, err)
	tnt := NewTnT(NewDefaultTagger("NN"), 0)
	require.NoError(t, tnt.Train(tinyTrain))
	ct, err := NewClassifierTagger(tinyTrain, "pos", NewDefaultTagger("NN"))
	require.NoError(t, err)
	ct.CutoffProb = 0.6

	tokens := []string{"I", "can", "run", "a", "can", "zzzing", "42", "fell"}
	for name, tagger := range map[string]Tagger{
		"default":    NewDefaultTagger("NN"),
		"chain":      chain,
		"brill":      brill,
		"tnt":        tnt,
		"classifier": ct,
	} {
		t.Run(name, func(t *testing.T) {
			b, err := EncodeTagger(tagger)
			require.NoError(t, err)
			kind, err := ModelKind(b)
			require.NoError(t, err)
			assert.Equal(t, KindTagger, kind)

			back, err := DecodeTagger(b)
			require.NoError(t, err)
			assert.Equal(t, tagger.Tag(tokens), back.Tag(tokens))
		})
	}
}

func TestEncodeExternalTaggers(t *testing.T) {
	_, err := EncodeTagger(NewPretrainedTagger())
	assert.Error(t, err)
	_, err = EncodeTagger(&WordNetTagger{})
	assert.Error(t, err)
}

func TestChunkerRoundTrip(t *testing.T) {
	train := chunkTrees(t, chunkTrain)
	re, err := NewRegexpParser(ChunkGrammar)
	require.NoError(t, err)
	tc, err := NewTagChunker(train)
	require.NoError(t, err)
	cc, err := NewClassifierChunker(train)
	require.NoError(t, err)

	sent := tagged("the", "DT", "mat", "NN", "fell", "VBD", "on", "IN", "a", "DT", "cat", "NN")
	for name, c := range map[string]ChunkParser{"regexp": re, "tag": tc, "classifier": cc} {
		t.Run(name, func(t *testing.T) {
			b, err := EncodeChunker(c)
			require.NoError(t, err)
			back, err := DecodeChunker(b)
			require.NoError(t, err)
			assert.Equal(t, c.Parse(sent).String(), back.Parse(sent).String())
		})
	}
}

func TestClassifierRoundTrip(t *testing.T) {
	nb, err := TrainNaiveBayes(reviewTrain)
	require.NoError(t, err)

	b, err := EncodeClassifier(nb)
	require.NoError(t, err)
	back, err := DecodeClassifier(b)
	require.NoError(t, err)

	f := Features{"great": Present, "film": Present}
	assert.Equal(t, nb.Classify(f), back.Classify(f))
	assert.InDelta(t, nb.ProbClassify(f).Prob("pos"), back.ProbClassify(f).Prob("pos"), 1e-12)
	assert.Equal(t, nb.MostInformativeFeatures(3), back.MostInformativeFeatures(3))
}

func TestWrongKind(t *testing.T) {
	b, err := EncodeTagger(NewDefaultTagger("NN"))
	require.NoError(t, err)

	_, err = DecodeChunker(b)
	assert.ErrorIs(t, err, ErrWrongKind)
	_, err = DecodeClassifier(b)
	assert.ErrorIs(t, err, ErrWrongKind)

	_, err = DecodeTagger([]byte("not a model"))
	assert.Error(t, err)
	_, err = ModelKind(nil)
	assert.Error(t, err)
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()

	tagger := NewUnigramTagger(tinyTrain, NewDefaultTagger("NN"), 0)
	path := filepath.Join(dir, "unigram.gob")
	require.NoError(t, SaveTagger(path, tagger))
	back, err := LoadTagger(path)
	require.NoError(t, err)
	assert.Equal(t, tagger.Tag([]string{"the", "zzz"}), back.Tag([]string{"the", "zzz"}))

	p, err := NewRegexpParser(ChunkGrammar)
	require.NoError(t, err)
	cpath := filepath.Join(dir, "chunker.gob")
	require.NoError(t, SaveChunker(cpath, p))
	_, err = LoadChunker(cpath)
	require.NoError(t, err)

	nb, err := TrainNaiveBayes(reviewTrain)
	require.NoError(t, err)
	npath := filepath.Join(dir, "nb.gob")
	require.NoError(t, SaveClassifier(npath, nb))
	_, err = LoadClassifier(npath)
	require.NoError(t, err)

	_, err = LoadTagger(cpath)
	assert.ErrorIs(t, err, ErrWrongKind)
	_, err = LoadTagger(filepath.Join(dir, "missing.gob"))
	assert.Error(t, err)
	assert.Error(t, SaveTagger(filepath.Join(dir, "x.gob"), NewPretrainedTagger()))
}
