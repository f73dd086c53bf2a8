package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cours-de-latin/textlab"
)

var chunkCmd = &cobra.Command{
	Use:   "chunk [text]",
	Short: "Chunk tagged text into phrases",
	Long: `Chunks the given text (the sample quotes by default) with a regular
expression grammar, then trains tag-based and classifier-based chunkers on
the chunked treebank and CoNLL-2000 corpora when they are present,
printing their scores.`,
	RunE: runChunk,
}

var (
	chunkSink    modelSink
	chunkGrammar string
	chunkTypes   []string
)

func init() {
	chunkSink.bind(chunkCmd)
	chunkCmd.Flags().StringVarP(&chunkGrammar, "grammar", "g", "", "Chunk grammar file (default: built-in NP/PP grammar)")
	chunkCmd.Flags().StringSliceVar(&chunkTypes, "types", []string{"NP"}, "CoNLL chunk types to train on")
}

func runChunk(cmd *cobra.Command, args []string) error {
	grammar := textlab.ChunkGrammar
	if chunkGrammar != "" {
		b, err := os.ReadFile(chunkGrammar)
		if err != nil {
			return fmt.Errorf("failed to read grammar: %w", err)
		}
		grammar = string(b)
	}
	parser, err := textlab.NewRegexpParser(grammar)
	if err != nil {
		return err
	}
	tk, err := loadToolkit()
	if err != nil {
		return err
	}

	texts := []string{textlab.Quote4, textlab.Quote5, textlab.Quote7}
	if len(args) > 0 {
		texts = []string{textArg(args, "")}
	}
	heading(parser.String())
	for _, text := range texts {
		words, err := textlab.WordTokenize(text)
		if err != nil {
			return err
		}
		fmt.Println(parser.Parse(tk.Tagger().Tag(words)).Pretty(80))
	}

	var parsers []namedChunker
	parsers = append(parsers, namedChunker{"regexp", parser})

	chunked, err := tk.TreebankChunkedSents()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		note("no chunked treebank in %s, skipping tag chunker", cfg.DataDir)
	case err != nil:
		return err
	default:
		train, test := textlab.SplitTrainTest(chunked, cfg.Training.Split)
		tc, err := textlab.NewTagChunker(train)
		if err != nil {
			return err
		}
		logger.Info("Trained tag chunker", zap.Int("sents", len(train)))
		heading("Treebank chunk scores")
		printChunkScore("regexp", textlab.EvaluateChunker(parser, test))
		printChunkScore("tag", textlab.EvaluateChunker(tc, test))
		parsers = append(parsers, namedChunker{"tag", tc})
	}

	conllTrain, err := tk.ConllChunkedSents("train.txt", chunkTypes...)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		note("no conll2000 corpus in %s, skipping classifier chunker", cfg.DataDir)
	case err != nil:
		return err
	default:
		conllTest, err := tk.ConllChunkedSents("test.txt", chunkTypes...)
		if err != nil {
			return err
		}
		cc, err := textlab.NewClassifierChunker(conllTrain)
		if err != nil {
			return err
		}
		logger.Info("Trained classifier chunker", zap.Int("sents", len(conllTrain)))
		heading("CoNLL-2000 chunk scores")
		printChunkScore("classifier", textlab.EvaluateChunker(cc, conllTest))
		parsers = append(parsers, namedChunker{"classifier", cc})
	}

	for _, nc := range parsers {
		b, err := textlab.EncodeChunker(nc.parser)
		if err != nil {
			return err
		}
		if err := chunkSink.write(cmd.Context(), "chunker_"+nc.name, textlab.KindChunker, b); err != nil {
			return err
		}
	}
	return nil
}

type namedChunker struct {
	name   string
	parser textlab.ChunkParser
}

func printChunkScore(name string, s textlab.ChunkScore) {
	fmt.Printf("%-12s accuracy %.4f  precision %.4f  recall %.4f  f-measure %.4f\n",
		name, s.Accuracy(), s.Precision(), s.Recall(), s.FMeasure())
}
