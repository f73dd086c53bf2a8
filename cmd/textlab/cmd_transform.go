package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cours-de-latin/textlab"
)

var transformCmd = &cobra.Command{
	Use:   "transform [text]",
	Short: "Rewrite chunks: filter, swap phrases, fix verb agreement",
	Long: `Tags and chunks the given text (the sample quotes by default) and
rewrites each chunk with the default transformation chain, printing every
step. The verb agreement correction runs on the two sample sentences with
agreement errors.`,
	RunE: runTransform,
}

var treesCmd = &cobra.Command{
	Use:   "trees",
	Short: "Flatten, shallow and relabel treebank parse trees",
	RunE:  runTrees,
}

var treesCount int

func init() {
	treesCmd.Flags().IntVarP(&treesCount, "count", "n", 1, "Number of treebank trees to show")
}

func tagText(text string) (textlab.TaggedSent, error) {
	tk, err := loadToolkit()
	if err != nil {
		return nil, err
	}
	words, err := textlab.WordTokenize(text)
	if err != nil {
		return nil, err
	}
	return tk.Tagger().Tag(words), nil
}

func runTransform(cmd *cobra.Command, args []string) error {
	texts := []string{textlab.Quote5, textlab.Quote6, textlab.Quote7}
	if len(args) > 0 {
		texts = []string{textArg(args, "")}
	}
	for _, text := range texts {
		tagged, err := tagText(text)
		if err != nil {
			return err
		}
		heading(text)
		fmt.Println("tagged :", tagged)
		textlab.TransformChunk(tagged, nil, os.Stdout)
	}

	heading("Verb agreement")
	for _, text := range []string{textlab.Wrong1, textlab.Wrong2} {
		tagged, err := tagText(text)
		if err != nil {
			return err
		}
		fmt.Printf("%s\n  -> %s\n", tagged, textlab.TaggedSent(textlab.CorrectVerbs(tagged)))
	}

	heading("Cardinals")
	tagged, err := tagText(textlab.Quote4)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n  -> %s\n", tagged, textlab.TaggedSent(textlab.SwapNounCardinal(tagged)))
	return nil
}

func runTrees(cmd *cobra.Command, args []string) error {
	tk, err := loadToolkit()
	if err != nil {
		return err
	}
	trees, err := tk.TreebankParsedSents()
	if err != nil {
		return err
	}
	logger.Debug("Loaded treebank", zap.Int("trees", len(trees)))

	labels := map[string]string{"NP": "NOUN", "VP": "VERB", "PP": "PREP"}
	for _, t := range trees[:min(treesCount, len(trees))] {
		heading("Parse tree")
		fmt.Println(t.Pretty(80))
		heading("Sentence")
		fmt.Println(textlab.ChunkTreeToSent(t, " "))
		heading("Flattened")
		flat := textlab.FlattenDeepTree(t)
		fmt.Println(flat.Pretty(80))
		heading("Shallow")
		fmt.Println(textlab.ShallowTree(t).Pretty(80))
		heading("Relabeled")
		fmt.Println(textlab.ConvertTreeLabels(flat, labels).Pretty(80))
	}
	return nil
}
