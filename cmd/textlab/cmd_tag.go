package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cours-de-latin/textlab"
)

var tagCmd = &cobra.Command{
	Use:   "tag [text]",
	Short: "Part-of-speech tag text",
	Long: `Tags the given text (the sample quotes by default) with the pretrained
tagger and with the toolkit's default tagger, which is trained on the
treebank when one is available.

Use "textlab tag train" to train and compare backoff, Brill, TnT and
classifier taggers.`,
	RunE: runTag,
}

var tagTrainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train, compare and save taggers on the treebank",
	RunE:  runTagTrain,
}

var (
	tagSink    modelSink
	tagSkipNB  bool
	tagSkipTnT bool
)

func init() {
	tagSink.bind(tagTrainCmd)
	tagTrainCmd.Flags().BoolVar(&tagSkipNB, "skip-classifier", false, "Do not train the classifier tagger")
	tagTrainCmd.Flags().BoolVar(&tagSkipTnT, "skip-tnt", false, "Do not train the TnT tagger")
	tagCmd.AddCommand(tagTrainCmd)
}

func runTag(cmd *cobra.Command, args []string) error {
	texts := []string{textlab.Quote1, textlab.Quote2, textlab.Quote3, textlab.Quote8}
	if len(args) > 0 {
		texts = []string{textArg(args, "")}
	}
	tk, err := loadToolkit()
	if err != nil {
		return err
	}
	for _, text := range texts {
		heading(text)
		tagged, err := textlab.PosTag(text)
		if err != nil {
			return err
		}
		fmt.Println("pretrained:", tagged)
		words, err := textlab.WordTokenize(text)
		if err != nil {
			return err
		}
		fmt.Println("default:   ", tk.Tagger().Tag(words))
	}
	return nil
}

func runTagTrain(cmd *cobra.Command, args []string) error {
	tk, err := loadToolkit()
	if err != nil {
		return err
	}
	sents, err := tk.TreebankTaggedSents()
	if err != nil {
		return err
	}
	sents = sents[:min(len(sents), cfg.Training.TrainSents)]
	train, test := textlab.SplitTrainTest(sents, cfg.Training.Split)
	logger.Info("Loaded treebank",
		zap.Int("train", len(train)),
		zap.Int("test", len(test)))

	nn := textlab.NewDefaultTagger("NN")
	re, err := textlab.NewRegexpTagger(textlab.DefaultRegexpRules, nn)
	if err != nil {
		return err
	}
	unigram := textlab.NewUnigramTagger(train, nn, 0)
	chain := textlab.MakeBackoffs(train,
		[]textlab.TaggerBuilder{textlab.UnigramBuilder, textlab.BigramBuilder, textlab.TrigramBuilder}, nn)
	affixChain := textlab.MakeBackoffs(train,
		[]textlab.TaggerBuilder{textlab.AffixBuilder, textlab.UnigramBuilder, textlab.BigramBuilder, textlab.TrigramBuilder}, re)

	taggers := []textlab.NamedTagger{
		{Name: "default", Tagger: nn},
		{Name: "regexp", Tagger: re},
		{Name: "unigram", Tagger: unigram},
		{Name: "ubt", Tagger: chain},
		{Name: "raubt", Tagger: affixChain},
	}
	if wn := tk.WordNet(); wn != nil {
		taggers = append(taggers, textlab.NamedTagger{
			Name:   "wordnet",
			Tagger: &textlab.WordNetTagger{WordNet: wn, Backoff: nn},
		})
	}

	start := time.Now()
	brill, err := textlab.TrainBrill(affixChain, train, nil, cfg.Training.BrillMaxRules, cfg.Training.BrillMinScore)
	if err != nil {
		return err
	}
	logger.Info("Trained Brill tagger", zap.Int("rules", len(brill.Rules)), zap.Duration("took", time.Since(start)))
	taggers = append(taggers, textlab.NamedTagger{Name: "brill", Tagger: brill})

	if !tagSkipTnT {
		tnt := textlab.NewTnT(affixChain, cfg.Training.TnTBeam)
		if err := tnt.Train(train); err != nil {
			return err
		}
		taggers = append(taggers, textlab.NamedTagger{Name: "tnt", Tagger: tnt})
	}
	if !tagSkipNB {
		start = time.Now()
		nb, err := textlab.NewClassifierPOSTagger(train)
		if err != nil {
			return err
		}
		nb.Backoff = chain
		logger.Info("Trained classifier tagger", zap.Duration("took", time.Since(start)))
		taggers = append(taggers, textlab.NamedTagger{Name: "classifier", Tagger: nb})
	}

	scores, err := textlab.CompareTaggers(cmd.Context(), taggers, test, cfg.Training.Workers)
	if err != nil {
		return err
	}
	heading("Accuracy on held-out sentences")
	for _, s := range scores {
		fmt.Printf("%-12s %.4f\n", s.Name, s.Accuracy)
	}

	heading("First Brill rules")
	for _, r := range brill.Rules[:min(10, len(brill.Rules))] {
		fmt.Println(r)
	}

	for _, nt := range taggers {
		if nt.Name == "wordnet" {
			continue
		}
		b, err := textlab.EncodeTagger(nt.Tagger)
		if err != nil {
			return err
		}
		if err := tagSink.write(cmd.Context(), "tagger_"+nt.Name, textlab.KindTagger, b); err != nil {
			return err
		}
	}
	return nil
}
