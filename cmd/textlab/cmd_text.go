package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cours-de-latin/textlab"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [text]",
	Short: "Split text into sentences and words",
	Long: `Runs the sentence, Treebank, word-punct, tweet and multi-word
tokenizers over the given text (the sample poem and tweet by default).

With --punkt the sentence tokenizer is loaded from a Punkt parameter file
instead of the bundled English model.`,
	RunE: runTokenize,
}

var stopwordsCmd = &cobra.Command{
	Use:   "stopwords [lang]",
	Short: "Remove stopwords from the sample text",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStopwords,
}

var stemCmd = &cobra.Command{
	Use:   "stem [words...]",
	Short: "Stem and lemmatize words",
	RunE:  runStem,
}

var contractionsCmd = &cobra.Command{
	Use:   "contractions [text]",
	Short: "Expand English contractions",
	RunE:  runContractions,
}

var repeatsCmd = &cobra.Command{
	Use:   "repeats [words...]",
	Short: "Remove repeated characters from words",
	RunE:  runRepeats,
}

var collocationsCmd = &cobra.Command{
	Use:   "collocations [webtext-file]",
	Short: "Find bigram and trigram collocations in a webtext file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCollocations,
}

var (
	punktPath      string
	snowballLang   string
	collocN        int
	collocMeasure  string
	collocMinFreq  int
	collocMinWords int
	htmlPath       string
	foldText       bool
)

func init() {
	tokenizeCmd.Flags().StringVar(&punktPath, "punkt", "", "Punkt parameter file (JSON)")
	stemCmd.Flags().StringVar(&snowballLang, "lang", "english", "Snowball language")
	collocationsCmd.Flags().IntVarP(&collocN, "n", "n", 20, "Number of collocations to show")
	collocationsCmd.Flags().StringVar(&collocMeasure, "measure", "likelihood_ratio", "Association measure")
	collocationsCmd.Flags().IntVar(&collocMinFreq, "min-freq", 0, "Minimum n-gram frequency (0 keeps all)")
	collocationsCmd.Flags().IntVar(&collocMinWords, "min-len", 3, "Minimum word length")
	for _, c := range []*cobra.Command{tokenizeCmd, collocationsCmd} {
		c.Flags().StringVar(&htmlPath, "html", "", "Read the input from the text of an HTML file")
		c.Flags().BoolVar(&foldText, "fold", false, "Remove diacritics from the input")
	}
}

// readInput returns the text of the --html file, or def when the flag is
// unset, cleaned up as --fold asks.
func readInput(def string) (string, error) {
	opts := textlab.TextOptions{Fold: foldText}
	text := def
	if htmlPath != "" {
		b, err := os.ReadFile(htmlPath)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", htmlPath, err)
		}
		text, opts.HTML = string(b), true
		logger.Debug("Reading HTML input", zap.String("path", htmlPath), zap.Int("bytes", len(b)))
	}
	if !opts.HTML && !opts.Fold {
		return text, nil
	}
	return textlab.CleanText(text, opts)
}

func textArg(args []string, def string) string {
	if len(args) > 0 {
		return strings.Join(args, " ")
	}
	return def
}

func runTokenize(cmd *cobra.Command, args []string) error {
	text, err := readInput(textArg(args, textlab.Sample))
	if err != nil {
		return err
	}

	heading("Sentences")
	var sents []string
	if punktPath != "" {
		st, lerr := textlab.LoadPunkt(punktPath)
		if lerr != nil {
			return lerr
		}
		logger.Debug("Loaded Punkt parameters", zap.String("path", punktPath))
		sents = st.Tokenize(text)
	} else {
		sents, err = textlab.SentTokenize(text)
		if err != nil {
			return err
		}
	}
	for i, s := range sents {
		fmt.Printf("%2d. %s\n", i+1, s)
	}

	heading("Treebank words")
	words, err := textlab.WordTokenize(text)
	if err != nil {
		return err
	}
	fmt.Println(quoteList(words))

	heading("Word-punct tokens")
	fmt.Println(quoteList(textlab.WordPunctTokenize(text)))

	tweet := text
	if htmlPath == "" {
		if tweet, err = readInput(textArg(args, textlab.SampleTweet)); err != nil {
			return err
		}
	}
	heading("Tweet tokens")
	fmt.Println(quoteList(textlab.NewTweetTokenizer().Tokenize(tweet)))
	heading("Tweet tokens without handles, lower-cased")
	tt := &textlab.TweetTokenizer{ReduceLen: true, StripHandles: true}
	fmt.Println(quoteList(tt.Tokenize(tweet)))

	heading("Multi-word expressions")
	mwe := textlab.NewMWETokenizer([][]string{{"good", "night"}, {"close", "of", "day"}}, "_")
	fmt.Println(quoteList(mwe.Tokenize(textlab.WordPunctTokenize(text))))
	return nil
}

func runStopwords(cmd *cobra.Command, args []string) error {
	lang := "english"
	if len(args) > 0 {
		lang = args[0]
	}
	stop, err := textlab.Stopwords(lang)
	if err != nil {
		return err
	}
	words, err := textlab.WordTokenize(textlab.Sample)
	if err != nil {
		return err
	}

	heading("Available languages")
	fmt.Println(strings.Join(textlab.StopwordLanguages(), ", "))
	heading(fmt.Sprintf("%d %s stopwords", len(stop), lang))
	heading("Words")
	fmt.Println(quoteList(words))
	heading("Without stopwords")
	fmt.Println(quoteList(textlab.RemoveStopwords(textlab.AlphaOnly(words), stop)))
	return nil
}

func runStem(cmd *cobra.Command, args []string) error {
	words := args
	if len(words) == 0 {
		words = textlab.AlphaOnly(textlab.WordPunctTokenize(textlab.Sample))
	}
	snow, err := textlab.NewSnowballStemmer(snowballLang)
	if err != nil {
		return err
	}
	tk, err := loadToolkit()
	if err != nil {
		return err
	}
	lem := tk.Lemmatizer()

	heading("Stems and lemmas")
	fmt.Printf("%-16s %-16s %-16s %-16s %s\n", "word", "porter", "snowball", "lemma (n)", "lemma (v)")
	var porter textlab.PorterStemmer
	for _, w := range words {
		lw := textlab.Lower(w)
		fmt.Printf("%-16s %-16s %-16s %-16s %s\n", w,
			porter.Stem(lw), snow.Stem(lw), lem.Lemmatize(lw, "n"), lem.Lemmatize(lw, "v"))
	}
	note("snowball languages: %s", strings.Join(textlab.SnowballLanguages(), ", "))
	return nil
}

func runContractions(cmd *cobra.Command, args []string) error {
	text := textArg(args, textlab.SampleContractions)
	heading("Original")
	fmt.Println(text)
	heading("Expanded")
	expanded := textlab.ExpandContractions(text)
	fmt.Println(expanded)
	heading("Tokens")
	words, err := textlab.WordTokenize(expanded)
	if err != nil {
		return err
	}
	fmt.Println(quoteList(words))
	return nil
}

func runRepeats(cmd *cobra.Command, args []string) error {
	words := args
	if len(words) == 0 {
		words = textlab.RepeatSamples
	}
	tk, err := loadToolkit()
	if err != nil {
		return err
	}
	r := textlab.RepeatReplacer{Dictionary: tk.Dictionary()}
	heading("Repeated characters")
	for _, w := range words {
		fmt.Printf("%-24s -> %s\n", w, r.Replace(w))
	}
	return nil
}

func runCollocations(cmd *cobra.Command, args []string) error {
	file := "grail.txt"
	if len(args) > 0 {
		file = args[0]
	}
	bigramScore, err := textlab.BigramMeasure(collocMeasure)
	if err != nil {
		return err
	}
	trigramScore, err := textlab.TrigramMeasure(collocMeasure)
	if err != nil {
		return err
	}
	var words []string
	if htmlPath != "" {
		text, err := readInput("")
		if err != nil {
			return err
		}
		file = htmlPath
		words = textlab.WordPunctTokenize(text)
	} else {
		tk, err := loadToolkit()
		if err != nil {
			return err
		}
		if words, err = tk.WebtextWords(file); err != nil {
			return err
		}
		if foldText {
			for i, w := range words {
				words[i] = textlab.FoldDiacritics(w)
			}
		}
	}
	stop, err := textlab.Stopwords("english")
	if err != nil {
		return err
	}
	logger.Info("Finding collocations", zap.String("file", file), zap.Int("words", len(words)))

	lower := make([]string, len(words))
	for i, w := range words {
		lower[i] = textlab.Lower(w)
	}
	filter := textlab.CollocationWordFilter(collocMinWords, stop)

	bf := textlab.NewBigramCollocationFinder(lower)
	heading("Bigrams, unfiltered (" + collocMeasure + ")")
	for _, bg := range bf.NBest(bigramScore, collocN) {
		fmt.Println(quoteList(bg))
	}

	bf.ApplyWordFilter(filter)
	if collocMinFreq > 0 {
		bf.ApplyFreqFilter(collocMinFreq)
	}
	heading("Bigrams (" + collocMeasure + ")")
	for _, bg := range bf.NBest(bigramScore, collocN) {
		fmt.Println(quoteList(bg))
	}

	tf := textlab.NewTrigramCollocationFinder(lower)
	tf.ApplyWordFilter(filter)
	if collocMinFreq > 0 {
		tf.ApplyFreqFilter(collocMinFreq)
	}
	heading("Trigrams (" + collocMeasure + ")")
	for _, tg := range tf.NBest(trigramScore, collocN) {
		fmt.Println(quoteList(tg))
	}
	return nil
}
