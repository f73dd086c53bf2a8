package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cours-de-latin/textlab"
	"github.com/cours-de-latin/textlab/internal/config"
)

var (
	testToolkitOnce sync.Once
	testToolkit     *textlab.Toolkit
	testToolkitErr  error
)

func openToolkit(t *testing.T) *textlab.Toolkit {
	t.Helper()
	testToolkitOnce.Do(func() { testToolkit, testToolkitErr = textlab.New("../../testdata") })
	require.NoError(t, testToolkitErr)
	return testToolkit
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}

func TestMethodAndBodyErrors(t *testing.T) {
	mux := newMux(openToolkit(t))
	tests := []struct {
		method, target, body string
		status               int
	}{
		{http.MethodPost, "/api/tokenize?text=hi", "", http.StatusMethodNotAllowed},
		{http.MethodPost, "/api/stem?word=cats", "", http.StatusMethodNotAllowed},
		{http.MethodPost, "/api/lemmatize?word=dogs", "", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/replace", "", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/tag", "", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/chunk", "", http.StatusMethodNotAllowed},
		{http.MethodPost, "/api/synsets?word=dog", "", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/collocations", "", http.StatusMethodNotAllowed},

		{http.MethodGet, "/api/tokenize", "", http.StatusBadRequest},
		{http.MethodGet, "/api/tokenize?text=hi&mode=morse", "", http.StatusBadRequest},
		{http.MethodGet, "/api/tokenize?text=hi&html=maybe", "", http.StatusBadRequest},
		{http.MethodGet, "/api/stem", "", http.StatusBadRequest},
		{http.MethodGet, "/api/stem?word=cats&algorithm=lancaster", "", http.StatusBadRequest},
		{http.MethodGet, "/api/stem?word=cats&algorithm=snowball&lang=latin", "", http.StatusBadRequest},
		{http.MethodGet, "/api/lemmatize", "", http.StatusBadRequest},
		{http.MethodGet, "/api/lemmatize?word=dogs&pos=x", "", http.StatusBadRequest},
		{http.MethodPost, "/api/replace", "not json", http.StatusBadRequest},
		{http.MethodPost, "/api/replace", `{"text":"it's","mode":"pig-latin"}`, http.StatusBadRequest},
		{http.MethodPost, "/api/tag", `{"text":"  "}`, http.StatusBadRequest},
		{http.MethodPost, "/api/chunk", `{}`, http.StatusBadRequest},
		{http.MethodPost, "/api/tag", `{"text":"<script>x()</script>","html":true}`, http.StatusBadRequest},
		{http.MethodPost, "/api/chunk", `{"text":"the cat","grammar":"NP: {DT}"}`, http.StatusBadRequest},
		{http.MethodGet, "/api/synsets", "", http.StatusBadRequest},
		{http.MethodGet, "/api/synsets?word=zzyzx", "", http.StatusNotFound},
		{http.MethodPost, "/api/collocations", `{"text":"a b","measure":"magic"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			rec := do(t, mux, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.NotEmpty(t, decode[errorResponse](t, rec).Error)
		})
	}
}

func TestTokenize(t *testing.T) {
	mux := newMux(openToolkit(t))
	tests := []struct {
		mode string
		text string
		want []string
	}{
		{"", "Don't stop.", []string{"Do", "n't", "stop", "."}},
		{"wordpunct", "Can't", []string{"Can", "'", "t"}},
		{"tweet", "@remy: this is waaaaayyyy too much :-)", []string{"@remy", ":", "this", "is", "waaaaayyyy", "too", "much", ":-)"}},
		{"sent", "Hello there. Good bye.", []string{"Hello there.", "Good bye."}},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			q := url.Values{"text": {tt.text}}
			if tt.mode != "" {
				q.Set("mode", tt.mode)
			}
			rec := do(t, mux, http.MethodGet, "/api/tokenize?"+q.Encode(), "")
			require.Equal(t, http.StatusOK, rec.Code)
			got := decode[tokenizeResponse](t, rec)
			assert.Equal(t, tt.want, got.Tokens)
		})
	}
}

func TestStem(t *testing.T) {
	mux := newMux(openToolkit(t))

	rec := do(t, mux, http.MethodGet, "/api/stem?word=Cooking", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, stemResponse{Word: "Cooking", Stem: "cook", Algorithm: "porter"}, decode[stemResponse](t, rec))

	rec = do(t, mux, http.MethodGet, "/api/stem?word=hablando&algorithm=snowball&lang=spanish", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "habl", decode[stemResponse](t, rec).Stem)
}

func TestLemmatize(t *testing.T) {
	mux := newMux(openToolkit(t))

	rec := do(t, mux, http.MethodGet, "/api/lemmatize?word=children", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, lemmatizeResponse{Word: "children", POS: "n", Lemma: "child"}, decode[lemmatizeResponse](t, rec))

	rec = do(t, mux, http.MethodGet, "/api/lemmatize?word=better&pos=a", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "good", decode[lemmatizeResponse](t, rec).Lemma)
}

func TestReplace(t *testing.T) {
	mux := newMux(openToolkit(t))

	rec := do(t, mux, http.MethodPost, "/api/replace", `{"text":"can't is a contraction"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[replaceResponse](t, rec)
	assert.Equal(t, "contractions", got.Mode)
	assert.Equal(t, "cannot is a contraction", got.Result)

	rec = do(t, mux, http.MethodPost, "/api/replace", `{"text":"I looooooove it","mode":"repeats"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "I love it", decode[replaceResponse](t, rec).Result)
}

func TestTag(t *testing.T) {
	mux := newMux(openToolkit(t))

	rec := do(t, mux, http.MethodPost, "/api/tag", `{"text":"The board is happy."}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []taggedWordJSON{
		{"The", "DT"}, {"board", "NN"}, {"is", "VBZ"}, {"happy", "JJ"}, {".", "."},
	}, decode[tagResponse](t, rec).Tokens)
}

func TestChunk(t *testing.T) {
	mux := newMux(openToolkit(t))

	rec := do(t, mux, http.MethodPost, "/api/chunk", `{"text":"The board is happy."}`)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[chunkResponse](t, rec)
	assert.Equal(t, "(S (NP The/DT board/NN) is/VBZ happy/JJ ./.)", got.Tree)
	assert.Equal(t, []chunkJSON{{Label: "NP", Words: []taggedWordJSON{{"The", "DT"}, {"board", "NN"}}}}, got.Chunks)

	rec = do(t, mux, http.MethodPost, "/api/chunk", `{"text":"The board is happy.","grammar":"ADJ: {<JJ>}"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "(S The/DT board/NN is/VBZ (ADJ happy/JJ) ./.)", decode[chunkResponse](t, rec).Tree)
}

func TestSynsets(t *testing.T) {
	mux := newMux(openToolkit(t))

	rec := do(t, mux, http.MethodGet, "/api/synsets?word=dog", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[synsetsResponse](t, rec)
	names := make([]string, len(got.Synsets))
	for i, ss := range got.Synsets {
		names[i] = ss.Name
	}
	assert.Equal(t, []string{"dog.n.01", "frump.n.01", "chase.v.01"}, names)
	assert.Equal(t, "n", got.Synsets[0].POS)
	assert.NotEmpty(t, got.Synsets[0].Definition)
	assert.NotNil(t, got.Antonyms)

	rec = do(t, mux, http.MethodGet, "/api/synsets?word=good", "")
	require.Equal(t, http.StatusOK, rec.Code)
	good := decode[synsetsResponse](t, rec)
	assert.Equal(t, []string{"good", "beneficial", "well"}, good.Synonyms)
	assert.Equal(t, []string{"bad", "badly"}, good.Antonyms)
}

func TestCollocations(t *testing.T) {
	mux := newMux(openToolkit(t))

	rec := do(t, mux, http.MethodPost, "/api/collocations", `{"text":"a b a b c a b","n":1,"measure":"raw_freq"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[collocationsResponse](t, rec)
	assert.Equal(t, "raw_freq", got.Measure)
	require.Len(t, got.Bigrams, 1)
	assert.Equal(t, []string{"a", "b"}, got.Bigrams[0].Ngram)
	assert.InDelta(t, 3.0/7.0, got.Bigrams[0].Score, 1e-9)
	assert.Len(t, got.Trigrams, 1)

	rec = do(t, mux, http.MethodPost, "/api/collocations", `{"text":"a b a b c a b","measure":"phi_sq"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	phi := decode[collocationsResponse](t, rec)
	assert.NotEmpty(t, phi.Bigrams)
	assert.Empty(t, phi.Trigrams)
}

func TestHandlerRequestID(t *testing.T) {
	cfg := config.ServerConfig{AllowedOrigins: []string{"http://example.com"}}
	h := newHandler(openToolkit(t), cfg, zap.NewNop())

	rec := do(t, h, http.MethodGet, "/api/stem?word=cats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/api/stem?word=cats", nil)
	req.Header.Set("X-Request-ID", "abc")
	req.Header.Set("Origin", "http://example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "http://example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCleanInput(t *testing.T) {
	mux := newMux(openToolkit(t))

	q := url.Values{"text": {"<p>Crème <b>brûlée</b></p><script>x()</script>"}, "html": {"1"}, "fold": {"true"}}
	rec := do(t, mux, http.MethodGet, "/api/tokenize?"+q.Encode(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Creme", "brulee"}, decode[tokenizeResponse](t, rec).Tokens)

	rec = do(t, mux, http.MethodPost, "/api/tag", `{"text":"<html><head><title>t</title></head><body><p>The board is happy.</p></body></html>","html":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []taggedWordJSON{
		{"The", "DT"}, {"board", "NN"}, {"is", "VBZ"}, {"happy", "JJ"}, {".", "."},
	}, decode[tagResponse](t, rec).Tokens)

	rec = do(t, mux, http.MethodPost, "/api/replace", `{"text":"<p>I can’t go</p>","html":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[replaceResponse](t, rec)
	assert.Equal(t, "I can't go", got.Text)
	assert.Equal(t, "i cannot go", got.Result)

	rec = do(t, mux, http.MethodPost, "/api/collocations", `{"text":"<ul><li>a b</li><li>a b</li></ul>","html":true,"n":1,"measure":"raw_freq"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"a", "b"}, decode[collocationsResponse](t, rec).Bigrams[0].Ngram)
}
