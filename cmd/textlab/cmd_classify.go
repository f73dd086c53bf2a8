package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cours-de-latin/textlab"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Train a naive Bayes sentiment classifier on movie reviews",
	Long: `Extracts bag-of-words features from the movie review corpus, trains a
naive Bayes classifier on part of each category and reports its accuracy
on the rest, with the most informative features.

Features:
  words      - every word
  nonstop    - every word that is not an English stopword
  bigrams    - every word plus the best bigrams by chi-square`,
	RunE: runClassify,
}

var (
	classifySink     modelSink
	classifyFeatures string
	classifyShow     int
)

func init() {
	classifySink.bind(classifyCmd)
	classifyCmd.Flags().StringVar(&classifyFeatures, "features", "words", "Feature extractor: words, nonstop or bigrams")
	classifyCmd.Flags().IntVar(&classifyShow, "show", 10, "Most informative features to show")
}

func featureExtractor(name string) (func([]string) textlab.Features, error) {
	switch name {
	case "words":
		return textlab.BagOfWords, nil
	case "nonstop":
		if _, err := textlab.Stopwords("english"); err != nil {
			return nil, err
		}
		return func(words []string) textlab.Features {
			f, _ := textlab.BagOfNonStopwords(words, "english")
			return f
		}, nil
	case "bigrams":
		score, err := textlab.BigramMeasure("chi_sq")
		if err != nil {
			return nil, err
		}
		return func(words []string) textlab.Features {
			return textlab.BagOfBigramWords(words, score, 200)
		}, nil
	}
	return nil, fmt.Errorf("unknown feature extractor %q", name)
}

func runClassify(cmd *cobra.Command, args []string) error {
	detect, err := featureExtractor(classifyFeatures)
	if err != nil {
		return err
	}
	tk, err := loadToolkit()
	if err != nil {
		return err
	}
	reviews, err := tk.MovieReviews()
	if err != nil {
		return err
	}
	logger.Info("Extracting features",
		zap.String("extractor", classifyFeatures),
		zap.Strings("categories", reviews.Categories()))

	lfeats, err := textlab.LabelFeatsFromCorpus(reviews, detect)
	if err != nil {
		return err
	}
	train, test := textlab.SplitLabelFeats(lfeats, cfg.Training.Split)
	nb, err := textlab.TrainNaiveBayes(train)
	if err != nil {
		return err
	}
	logger.Info("Trained classifier", zap.Int("train", len(train)), zap.Int("test", len(test)))

	heading("Naive Bayes")
	fmt.Printf("labels   %v\n", nb.Labels)
	fmt.Printf("accuracy %.4f\n", textlab.Accuracy(nb, test))
	fmt.Println()
	if err := nb.ShowMostInformativeFeatures(os.Stdout, classifyShow); err != nil {
		return err
	}

	heading("Sample prediction")
	words, err := textlab.WordTokenize(textlab.Quote8)
	if err != nil {
		return err
	}
	pd := nb.ProbClassify(detect(words))
	for _, l := range pd.Samples() {
		fmt.Printf("%-6s %.4f\n", l, pd.Prob(l))
	}

	b, err := textlab.EncodeClassifier(nb)
	if err != nil {
		return err
	}
	return classifySink.write(cmd.Context(), "classifier_"+classifyFeatures, textlab.KindClassifier, b)
}
