package wordcloud

import (
	"errors"
	"fmt"
	"image/png"
	"log"
	"os"

	"github.com/agentdir/agentdir/internal/catalog"
)

// ErrEmptyCorpus is returned when the catalog contains no use-case text.
// This is an explicit error rather than a placeholder image: an empty
// corpus means the scrape produced no usable detail data, and hiding that
// behind a blank PNG helps nobody.
var ErrEmptyCorpus = errors.New("wordcloud: no use case text found in catalog")

// Generator loads the catalog, builds word frequencies from the use-case
// corpus, and writes the rendered cloud as a PNG.
type Generator struct {
	store    *catalog.Store
	renderer Renderer
	outPath  string
	maxWords int
}

// NewGenerator wires a generator from its collaborators. maxWords caps how
// many distinct words reach the renderer; 0 means no cap.
func NewGenerator(store *catalog.Store, renderer Renderer, outPath string, maxWords int) *Generator {
	return &Generator{store: store, renderer: renderer, outPath: outPath, maxWords: maxWords}
}

// Run produces the word-cloud image. It returns the output path and the
// number of distinct words rendered.
func (g *Generator) Run() (string, int, error) {
	cat, err := g.store.Load()
	if err != nil {
		return "", 0, err
	}

	freq := Frequencies(cat.UseCaseCorpus())
	if len(freq) == 0 {
		return "", 0, ErrEmptyCorpus
	}
	freq = TopN(freq, g.maxWords)

	img, err := g.renderer.Render(freq)
	if err != nil {
		return "", 0, err
	}

	out, err := os.Create(g.outPath)
	if err != nil {
		return "", 0, fmt.Errorf("wordcloud: failed to create %q: %w", g.outPath, err)
	}
	defer out.Close()

	if err := png.Encode(out, img); err != nil {
		return "", 0, fmt.Errorf("wordcloud: failed to encode %q: %w", g.outPath, err)
	}

	log.Printf("wordcloud: rendered %d words to %s", len(freq), g.outPath)
	return g.outPath, len(freq), nil
}
