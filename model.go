package textlab

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
)

// Model kinds recorded in saved models.
const (
	KindTagger     = "tagger"
	KindChunker    = "chunker"
	KindClassifier = "classifier"
)

// ErrWrongKind is returned when a saved model is not of the requested
// kind.
var ErrWrongKind = errors.New("textlab: wrong model kind")

func init() {
	gob.Register(&DefaultTagger{})
	gob.Register(&NgramTagger{})
	gob.Register(&AffixTagger{})
	gob.Register(&RegexpTagger{})
	gob.Register(&BrillTagger{})
	gob.Register(&TnT{})
	gob.Register(&ClassifierTagger{})
	gob.Register(&RegexpParser{})
	gob.Register(&TagChunker{})
	gob.Register(&ClassifierChunker{})
}

// envelope is the on-disk form of a model. Exactly one of the model
// fields is set, matching Kind.
type envelope struct {
	Kind       string
	Tagger     Tagger
	Chunker    ChunkParser
	Classifier *NaiveBayes
}

func encode(env envelope) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&env); err != nil {
		return nil, fmt.Errorf("encode %s: %w", env.Kind, err)
	}
	return buf.Bytes(), nil
}

func decode(b []byte, kind string) (envelope, error) {
	var env envelope
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&env); err != nil {
		return env, fmt.Errorf("decode %s: %w", kind, err)
	}
	if env.Kind != kind {
		return env, fmt.Errorf("%w: want %s, got %q", ErrWrongKind, kind, env.Kind)
	}
	return env, nil
}

// ModelKind returns the kind of an encoded model.
func ModelKind(b []byte) (string, error) {
	var env envelope
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&env); err != nil {
		return "", fmt.Errorf("decode model: %w", err)
	}
	return env.Kind, nil
}

// EncodeTagger serializes a trained tagger and its backoff chain.
// Taggers backed by external resources (WordNetTagger,
// PretrainedTagger) cannot be encoded.
func EncodeTagger(t Tagger) ([]byte, error) {
	return encode(envelope{Kind: KindTagger, Tagger: t})
}

// DecodeTagger restores a tagger written by EncodeTagger.
func DecodeTagger(b []byte) (Tagger, error) {
	env, err := decode(b, KindTagger)
	if err != nil {
		return nil, err
	}
	return env.Tagger, nil
}

// EncodeChunker serializes a chunk parser.
func EncodeChunker(c ChunkParser) ([]byte, error) {
	return encode(envelope{Kind: KindChunker, Chunker: c})
}

// DecodeChunker restores a chunk parser written by EncodeChunker.
func DecodeChunker(b []byte) (ChunkParser, error) {
	env, err := decode(b, KindChunker)
	if err != nil {
		return nil, err
	}
	return env.Chunker, nil
}

// EncodeClassifier serializes a naive Bayes classifier.
func EncodeClassifier(c *NaiveBayes) ([]byte, error) {
	return encode(envelope{Kind: KindClassifier, Classifier: c})
}

// DecodeClassifier restores a classifier written by EncodeClassifier.
func DecodeClassifier(b []byte) (*NaiveBayes, error) {
	env, err := decode(b, KindClassifier)
	if err != nil {
		return nil, err
	}
	return env.Classifier, nil
}

func save(path string, b []byte, err error) error {
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	return nil
}

func load(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	return b, nil
}

// SaveTagger writes t to path.
func SaveTagger(path string, t Tagger) error {
	b, err := EncodeTagger(t)
	return save(path, b, err)
}

// LoadTagger reads a tagger saved with SaveTagger.
func LoadTagger(path string) (Tagger, error) {
	b, err := load(path)
	if err != nil {
		return nil, err
	}
	return DecodeTagger(b)
}

// SaveChunker writes c to path.
func SaveChunker(path string, c ChunkParser) error {
	b, err := EncodeChunker(c)
	return save(path, b, err)
}

// LoadChunker reads a chunk parser saved with SaveChunker.
func LoadChunker(path string) (ChunkParser, error) {
	b, err := load(path)
	if err != nil {
		return nil, err
	}
	return DecodeChunker(b)
}

// SaveClassifier writes c to path.
func SaveClassifier(path string, c *NaiveBayes) error {
	b, err := EncodeClassifier(c)
	return save(path, b, err)
}

// LoadClassifier reads a classifier saved with SaveClassifier.
func LoadClassifier(path string) (*NaiveBayes, error) {
	b, err := load(path)
	if err != nil {
		return nil, err
	}
	return DecodeClassifier(b)
}
