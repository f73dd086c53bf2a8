// Package textlab provides natural-language-processing primitives:
// tokenization, part-of-speech tagging, chunking, stemming and
// lemmatization, collocation discovery, contraction expansion,
// repeated-character normalization, text classification and
// chunk/tree transformations. Lexical-ontology lookups live in the
// wordnet subpackage.
package textlab

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/cours-de-latin/textlab/wordnet"
)

// Corpus directory names under the data directory.
const (
	TreebankDir      = "treebank"
	TreebankChunkDir = "treebank_chunk"
	Conll2000Dir     = "conll2000"
	MovieReviewsDir  = "movie_reviews"
	WebtextDir       = "webtext"
	WordNetDir       = "wordnet"
)

// Toolkit holds the loaded resources and resolves corpora under a data
// directory.
type Toolkit struct {
	// dataDir is the root of the corpora.
	dataDir string

	// wn is the WordNet database; nil when wordnet/ is absent.
	wn *wordnet.WordNet

	// dict is the dictionary lemmatizer, always available.
	dict *DictLemmatizer

	taggerOnce sync.Once
	tagger     Tagger
}

// New loads the resources found under dataDir and returns a ready-to-use
// Toolkit. The WordNet database is optional: when dataDir/wordnet does
// not exist the toolkit falls back to the dictionary lemmatizer.
func New(dataDir string) (*Toolkit, error) {
	t := &Toolkit{dataDir: dataDir}

	dict, err := NewDictLemmatizer()
	if err != nil {
		return nil, fmt.Errorf("load lemmatizer dictionary: %w", err)
	}
	t.dict = dict

	wnDir := filepath.Join(dataDir, WordNetDir)
	if _, err := os.Stat(wnDir); err == nil {
		wn, err := wordnet.Open(wnDir)
		if err != nil {
			return nil, fmt.Errorf("open wordnet: %w", err)
		}
		t.wn = wn
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("stat wordnet: %w", err)
	}
	return t, nil
}

// DataDir returns the root of the corpora.
func (t *Toolkit) DataDir() string {
	return t.dataDir
}

// WordNet returns the loaded WordNet database, or nil.
func (t *Toolkit) WordNet() *wordnet.WordNet {
	return t.wn
}

// Lemmatizer returns the WordNet lemmatizer when WordNet is loaded and
// the dictionary lemmatizer otherwise.
func (t *Toolkit) Lemmatizer() Lemmatizer {
	if t.wn != nil {
		return &WordNetLemmatizer{WordNet: t.wn}
	}
	return t.dict
}

// Dictionary returns the word list used to decide whether a word is
// valid: WordNet when loaded, the lemmatizer dictionary otherwise.
func (t *Toolkit) Dictionary() Dictionary {
	if t.wn != nil {
		return t.wn
	}
	return DictWords{t.dict}
}

// DefaultTaggerTrainSents is how many treebank sentences the default
// tagger is trained on.
const DefaultTaggerTrainSents = 3000

// Tagger returns the toolkit's default part-of-speech tagger, built on
// first use. With a treebank under the data directory it is a trigram,
// bigram, unigram and affix backoff chain ending in NN; otherwise it is
// the pretrained perceptron tagger.
func (t *Toolkit) Tagger() Tagger {
	t.taggerOnce.Do(func() {
		sents, err := t.TreebankTaggedSents()
		if err != nil || len(sents) == 0 {
			t.tagger = NewPretrainedTagger()
			return
		}
		train := sents[:min(len(sents), DefaultTaggerTrainSents)]
		t.tagger = MakeBackoffs(train,
			[]TaggerBuilder{AffixBuilder, UnigramBuilder, BigramBuilder, TrigramBuilder},
			NewDefaultTagger("NN"))
	})
	return t.tagger
}

// TreebankTaggedSents reads the tagged sentences of the parsed treebank.
func (t *Toolkit) TreebankTaggedSents() ([]TaggedSent, error) {
	trees, err := t.TreebankParsedSents()
	if err != nil {
		return nil, err
	}
	return TaggedSentsFromTrees(trees), nil
}

// TreebankParsedSents reads every .mrg file of the treebank corpus.
func (t *Toolkit) TreebankParsedSents() ([]*Tree, error) {
	var trees []*Tree
	err := t.eachFile(TreebankDir, ".mrg", func(f *os.File) error {
		ts, err := ReadParsedSents(f)
		if err != nil {
			return err
		}
		trees = append(trees, ts...)
		return nil
	})
	return trees, err
}

// TreebankChunkedSents reads every .pos file of the chunked treebank.
func (t *Toolkit) TreebankChunkedSents() ([]*Tree, error) {
	var trees []*Tree
	err := t.eachFile(TreebankChunkDir, ".pos", func(f *os.File) error {
		ts, err := ReadChunkedSents(f)
		if err != nil {
			return err
		}
		trees = append(trees, ts...)
		return nil
	})
	return trees, err
}

// ConllChunkedSents reads one CoNLL-2000 file ("train.txt", "test.txt")
// keeping only the given chunk types (all when empty).
func (t *Toolkit) ConllChunkedSents(file string, chunkTypes ...string) ([]*Tree, error) {
	f, err := os.Open(filepath.Join(t.dataDir, Conll2000Dir, file))
	if err != nil {
		return nil, fmt.Errorf("open conll2000 %s: %w", file, err)
	}
	defer f.Close()
	return ReadConllChunks(f, chunkTypes...)
}

// WebtextWords reads the words of one webtext file, e.g. "grail.txt".
func (t *Toolkit) WebtextWords(file string) ([]string, error) {
	f, err := os.Open(filepath.Join(t.dataDir, WebtextDir, file))
	if err != nil {
		return nil, fmt.Errorf("open webtext %s: %w", file, err)
	}
	defer f.Close()
	return ReadWords(f)
}

// MovieReviews opens the categorized movie review corpus.
func (t *Toolkit) MovieReviews() (*DirCorpus, error) {
	return OpenDirCorpus(os.DirFS(filepath.Join(t.dataDir, MovieReviewsDir)))
}

// eachFile calls fn for every file in dataDir/dir with the given
// extension, in lexical order.
func (t *Toolkit) eachFile(dir, ext string, fn func(*os.File) error) error {
	root := filepath.Join(t.dataDir, dir)
	matches, err := filepath.Glob(filepath.Join(root, "*"+ext))
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return fmt.Errorf("no %s files in %s: %w", ext, root, fs.ErrNotExist)
	}
	for _, path := range matches {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		err = fn(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
	}
	return nil
}
