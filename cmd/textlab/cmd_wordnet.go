package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cours-de-latin/textlab/wordnet"
)

var synsetsCmd = &cobra.Command{
	Use:   "synsets [word] [other]",
	Short: "Look up WordNet synsets, synonyms and antonyms",
	Long: `Prints the synsets of a word with their definitions, examples, lemmas
and hypernyms, then its synonyms and antonyms. With a second word the
similarity of the first senses of both words is shown as well.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runSynsets,
}

var errNoWordNet = errors.New("no WordNet database under the data directory")

func runSynsets(cmd *cobra.Command, args []string) error {
	word := "cookbook"
	if len(args) > 0 {
		word = args[0]
	}
	tk, err := loadToolkit()
	if err != nil {
		return err
	}
	wn := tk.WordNet()
	if wn == nil {
		return fmt.Errorf("%w (%s)", errNoWordNet, cfg.DataDir)
	}

	synsets := wn.Synsets(word)
	if len(synsets) == 0 {
		fmt.Printf("No synsets for %q.\n", word)
		return nil
	}
	for _, ss := range synsets {
		heading(ss.Name())
		fmt.Println("definition:", ss.Definition())
		if ex := ss.Examples(); len(ex) > 0 {
			fmt.Println("examples:  ", strings.Join(ex, "; "))
		}
		fmt.Println("lemmas:    ", quoteList(ss.LemmaNames()))
		var hyper []string
		for _, h := range ss.Hypernyms() {
			hyper = append(hyper, h.Name())
		}
		if len(hyper) > 0 {
			fmt.Println("hypernyms: ", strings.Join(hyper, ", "))
		}
		fmt.Printf("depth:      min %d, max %d\n", ss.MinDepth(), ss.MaxDepth())
	}

	heading("Synonyms")
	fmt.Println(quoteList(wn.Synonyms(word)))
	heading("Antonyms")
	fmt.Println(quoteList(wn.Antonyms(word)))

	if len(args) < 2 {
		return nil
	}
	others := wn.Synsets(args[1])
	if len(others) == 0 {
		fmt.Printf("No synsets for %q.\n", args[1])
		return nil
	}
	return printSimilarity(synsets[0], others[0])
}

func printSimilarity(a, b *wordnet.Synset) error {
	heading(fmt.Sprintf("Similarity of %s and %s", a.Name(), b.Name()))
	if p, ok := a.PathSimilarity(b); ok {
		fmt.Printf("path %.4f\n", p)
	}
	if w, ok := a.WupSimilarity(b); ok {
		fmt.Printf("wup  %.4f\n", w)
	}
	l, ok, err := a.LCHSimilarity(b)
	switch {
	case errors.Is(err, wordnet.ErrPOSMismatch):
		note("lch: %v", err)
	case err != nil:
		return err
	case ok:
		fmt.Printf("lch  %.4f\n", l)
	}
	var common []string
	for _, c := range a.LowestCommonHypernyms(b, false, true) {
		common = append(common, c.Name())
	}
	fmt.Println("lowest common hypernyms:", strings.Join(common, ", "))
	return nil
}
