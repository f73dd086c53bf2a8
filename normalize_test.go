package textlab

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollapseSpace(t *testing.T) {
	assert.Equal(t, "a b c", CollapseSpace("  a\n\t b   c \n"))
	assert.Equal(t, "", CollapseSpace(" \n "))
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, `"Hi" -- it's...`, NormalizeText("“Hi” — it’s…"))
	// NFC composes e + combining acute
	assert.Equal(t, "caf\u00e9", NormalizeText("cafe\u0301"))
}

func TestFoldDiacritics(t *testing.T) {
	assert.Equal(t, "cafe creme a la carte", FoldDiacritics("café crème à la carte"))
}

func TestLower(t *testing.T) {
	assert.Equal(t, "the good night", Lower("The GOOD Night"))
}

func TestExtractHTMLText(t *testing.T) {
	doc := `<html><head><title>t</title><style>p{}</style></head>
<body><h1>Do not go</h1><script>var x = 1;</script><p>gentle   into <b>that</b> good night.</p></body></html>`
	got, err := ExtractHTMLText(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "Do not go gentle into that good night.", got)
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		opts TextOptions
		want string
	}{
		{"plain", "It’s  café", TextOptions{}, "It's  café"},
		{"fold", "It’s café", TextOptions{Fold: true}, "It's cafe"},
		{"html", "<html><head><title>x</title></head><body><p>Crème</p> <p>brûlée</p></body></html>", TextOptions{HTML: true}, "Crème brûlée"},
		{"html and fold", "<p>Crème <b>brûlée</b></p><script>var x;</script>", TextOptions{HTML: true, Fold: true}, "Creme brulee"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CleanText(tt.in, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
