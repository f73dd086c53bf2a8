package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/cours-de-latin/textlab"
	"github.com/cours-de-latin/textlab/wordnet"
)

// ---- JSON response types ------------------------------------------------

type tokenizeResponse struct {
	Mode   string   `json:"mode"`
	Tokens []string `json:"tokens"`
}

type stemResponse struct {
	Word      string `json:"word"`
	Stem      string `json:"stem"`
	Algorithm string `json:"algorithm"`
}

type lemmatizeResponse struct {
	Word  string `json:"word"`
	POS   string `json:"pos"`
	Lemma string `json:"lemma"`
}

type replaceResponse struct {
	Mode   string `json:"mode"`
	Text   string `json:"text"`
	Result string `json:"result"`
}

type taggedWordJSON struct {
	Word string `json:"word"`
	Tag  string `json:"tag"`
}

type tagResponse struct {
	Tokens []taggedWordJSON `json:"tokens"`
}

type chunkJSON struct {
	Label string           `json:"label"`
	Words []taggedWordJSON `json:"words"`
}

type chunkResponse struct {
	Tree   string      `json:"tree"`
	Chunks []chunkJSON `json:"chunks"`
}

type synsetJSON struct {
	Name       string   `json:"name"`
	POS        string   `json:"pos"`
	Definition string   `json:"definition"`
	Examples   []string `json:"examples,omitempty"`
	Lemmas     []string `json:"lemmas"`
	Hypernyms  []string `json:"hypernyms,omitempty"`
}

type synsetsResponse struct {
	Word     string       `json:"word"`
	Synsets  []synsetJSON `json:"synsets"`
	Synonyms []string     `json:"synonyms"`
	Antonyms []string     `json:"antonyms"`
}

type scoredNgramJSON struct {
	Ngram []string `json:"ngram"`
	Score float64  `json:"score"`
}

type collocationsResponse struct {
	Measure  string            `json:"measure"`
	Bigrams  []scoredNgramJSON `json:"bigrams"`
	Trigrams []scoredNgramJSON `json:"trigrams"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ---- helpers ------------------------------------------------------------

func toTaggedJSON(words []textlab.TaggedWord) []taggedWordJSON {
	out := make([]taggedWordJSON, len(words))
	for i, tw := range words {
		out[i] = taggedWordJSON{Word: tw.Word, Tag: tw.Tag}
	}
	return out
}

func toSynsetJSON(ss *wordnet.Synset) synsetJSON {
	sj := synsetJSON{
		Name:       ss.Name(),
		POS:        ss.POS(),
		Definition: ss.Definition(),
		Examples:   ss.Examples(),
		Lemmas:     ss.LemmaNames(),
	}
	for _, h := range ss.Hypernyms() {
		sj.Hypernyms = append(sj.Hypernyms, h.Name())
	}
	return sj
}

func toScoredJSON(scored []textlab.ScoredNgram, n int) []scoredNgramJSON {
	out := make([]scoredNgramJSON, 0, min(n, len(scored)))
	for _, s := range scored[:min(n, len(scored))] {
		out = append(out, scoredNgramJSON{Ngram: s.Ngram, Score: s.Score})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("encode error", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// textInput is the text field shared by the POST bodies, with the
// clean-up to apply before processing.
type textInput struct {
	Text string `json:"text"`
	HTML bool   `json:"html"`
	Fold bool   `json:"fold"`
}

func (in *textInput) clean() error {
	if !in.HTML && !in.Fold {
		return nil
	}
	text, err := textlab.CleanText(in.Text, textlab.TextOptions{HTML: in.HTML, Fold: in.Fold})
	if err != nil {
		return err
	}
	in.Text = text
	return nil
}

// decodeBody reads a JSON body into v, cleans in and reports whether
// any text is left.
func decodeBody(w http.ResponseWriter, r *http.Request, v any, in *textInput) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil || strings.TrimSpace(in.Text) == "" {
		writeError(w, http.StatusBadRequest, "body must be JSON with a non-empty 'text' field")
		return false
	}
	if err := in.clean(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	if strings.TrimSpace(in.Text) == "" {
		writeError(w, http.StatusBadRequest, "no text left after clean-up")
		return false
	}
	return true
}

// queryBool reads an optional boolean query parameter.
func queryBool(q url.Values, name string) (bool, error) {
	v := q.Get(name)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("bad '%s' query parameter %q", name, v)
	}
	return b, nil
}

// ---- handlers -----------------------------------------------------------

func handleTokenize() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "GET required")
			return
		}
		text := r.URL.Query().Get("text")
		if text == "" {
			writeError(w, http.StatusBadRequest, "missing 'text' query parameter")
			return
		}
		in := textInput{Text: text}
		var err error
		if in.HTML, err = queryBool(r.URL.Query(), "html"); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if in.Fold, err = queryBool(r.URL.Query(), "fold"); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := in.clean(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		text = in.Text
		mode := r.URL.Query().Get("mode")
		if mode == "" {
			mode = "word"
		}

		var tokens []string
		switch mode {
		case "word":
			tokens, err = textlab.WordTokenize(text)
		case "sent":
			tokens, err = textlab.SentTokenize(text)
		case "tweet":
			tokens = textlab.NewTweetTokenizer().Tokenize(text)
		case "treebank":
			tokens = textlab.TreebankTokenize(text)
		case "wordpunct":
			tokens = textlab.WordPunctTokenize(text)
		default:
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown mode %q", mode))
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if tokens == nil {
			tokens = []string{}
		}
		writeJSON(w, http.StatusOK, tokenizeResponse{Mode: mode, Tokens: tokens})
	}
}

func handleStem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "GET required")
			return
		}
		q := r.URL.Query()
		word := q.Get("word")
		if word == "" {
			writeError(w, http.StatusBadRequest, "missing 'word' query parameter")
			return
		}
		algorithm := q.Get("algorithm")
		if algorithm == "" {
			algorithm = "porter"
		}

		var stemmer textlab.Stemmer
		switch algorithm {
		case "porter":
			stemmer = textlab.PorterStemmer{}
		case "snowball":
			lang := q.Get("lang")
			if lang == "" {
				lang = "english"
			}
			s, err := textlab.NewSnowballStemmer(lang)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			stemmer = s
		default:
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown algorithm %q", algorithm))
			return
		}
		writeJSON(w, http.StatusOK, stemResponse{
			Word:      word,
			Stem:      stemmer.Stem(textlab.Lower(word)),
			Algorithm: algorithm,
		})
	}
}

func handleLemmatize(tk *textlab.Toolkit) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "GET required")
			return
		}
		word := r.URL.Query().Get("word")
		if word == "" {
			writeError(w, http.StatusBadRequest, "missing 'word' query parameter")
			return
		}
		pos := r.URL.Query().Get("pos")
		if pos == "" {
			pos = wordnet.Noun
		}
		switch pos {
		case wordnet.Noun, wordnet.Verb, wordnet.Adj, wordnet.Adv:
		default:
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown part of speech %q", pos))
			return
		}
		writeJSON(w, http.StatusOK, lemmatizeResponse{
			Word:  word,
			POS:   pos,
			Lemma: tk.Lemmatizer().Lemmatize(textlab.Lower(word), pos),
		})
	}
}

func handleReplace(tk *textlab.Toolkit) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "POST required")
			return
		}
		var body struct {
			textInput
			Mode string `json:"mode"`
		}
		if !decodeBody(w, r, &body, &body.textInput) {
			return
		}
		if body.Mode == "" {
			body.Mode = "contractions"
		}

		var result string
		switch body.Mode {
		case "contractions":
			result = textlab.ExpandContractions(body.Text)
		case "repeats":
			result = textlab.RepeatReplacer{Dictionary: tk.Dictionary()}.ReplaceText(body.Text)
		default:
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown mode %q", body.Mode))
			return
		}
		writeJSON(w, http.StatusOK, replaceResponse{Mode: body.Mode, Text: body.Text, Result: result})
	}
}

func handleTag(tk *textlab.Toolkit) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "POST required")
			return
		}
		var body textInput
		if !decodeBody(w, r, &body, &body) {
			return
		}
		words, err := textlab.WordTokenize(body.Text)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, tagResponse{Tokens: toTaggedJSON(tk.Tagger().Tag(words))})
	}
}

func handleChunk(tk *textlab.Toolkit) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "POST required")
			return
		}
		var body struct {
			textInput
			Grammar string `json:"grammar"`
		}
		if !decodeBody(w, r, &body, &body.textInput) {
			return
		}
		if body.Grammar == "" {
			body.Grammar = textlab.ChunkGrammar
		}
		parser, err := textlab.NewRegexpParser(body.Grammar)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		words, err := textlab.WordTokenize(body.Text)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		tree := parser.Parse(tk.Tagger().Tag(words))
		chunks := []chunkJSON{}
		for _, c := range tree.Children {
			if st, ok := c.(*textlab.Tree); ok {
				chunks = append(chunks, chunkJSON{Label: st.Label, Words: toTaggedJSON(st.Pos())})
			}
		}
		writeJSON(w, http.StatusOK, chunkResponse{Tree: tree.String(), Chunks: chunks})
	}
}

func handleSynsets(tk *textlab.Toolkit) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "GET required")
			return
		}
		word := r.URL.Query().Get("word")
		if word == "" {
			writeError(w, http.StatusBadRequest, "missing 'word' query parameter")
			return
		}
		wn := tk.WordNet()
		if wn == nil {
			writeError(w, http.StatusNotFound, "wordnet is not available")
			return
		}
		synsets := wn.Synsets(word)
		if len(synsets) == 0 {
			writeError(w, http.StatusNotFound, fmt.Sprintf("no synsets for %q", word))
			return
		}
		out := make([]synsetJSON, len(synsets))
		for i, ss := range synsets {
			out[i] = toSynsetJSON(ss)
		}
		writeJSON(w, http.StatusOK, synsetsResponse{
			Word:     word,
			Synsets:  out,
			Synonyms: append([]string{}, wn.Synonyms(word)...),
			Antonyms: append([]string{}, wn.Antonyms(word)...),
		})
	}
}

func handleCollocations() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "POST required")
			return
		}
		var body struct {
			textInput
			N       int    `json:"n"`
			Measure string `json:"measure"`
		}
		if !decodeBody(w, r, &body, &body.textInput) {
			return
		}
		if body.N <= 0 {
			body.N = 10
		}
		if body.Measure == "" {
			body.Measure = "likelihood_ratio"
		}
		bigramScore, err := textlab.BigramMeasure(body.Measure)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		words := textlab.WordPunctTokenize(textlab.Lower(body.Text))
		resp := collocationsResponse{
			Measure:  body.Measure,
			Bigrams:  toScoredJSON(textlab.NewBigramCollocationFinder(words).ScoreNgrams(bigramScore), body.N),
			Trigrams: []scoredNgramJSON{},
		}
		// phi_sq has no trigram form
		if trigramScore, err := textlab.TrigramMeasure(body.Measure); err == nil {
			resp.Trigrams = toScoredJSON(textlab.NewTrigramCollocationFinder(words).ScoreNgrams(trigramScore), body.N)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
