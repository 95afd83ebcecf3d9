package wordcloud

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math/rand"
	"os"

	"github.com/psykhi/wordclouds"
)

// ErrNoFont is returned when no usable TTF font is configured.
var ErrNoFont = errors.New("wordcloud: no font file configured")

// Renderer draws a word-cloud image from word frequencies.
type Renderer interface {
	Render(freq map[string]int) (image.Image, error)
}

// RenderOptions configures the Minecraft-styled renderer.
type RenderOptions struct {
	Width    int    // Canvas width in pixels.
	Height   int    // Canvas height in pixels.
	FontPath string // Path to a TTF font file. Required.
	Seed     int64  // Layout RNG seed; same seed + same input = same image.
}

// Minecraft theme: stone-gray background with a yellow-orange-red ramp.
var (
	minecraftBackground = color.RGBA{R: 0xC6, G: 0xC6, B: 0xC6, A: 0xFF}
	minecraftPalette    = []color.Color{
		color.RGBA{R: 0xFF, G: 0xFF, B: 0xB2, A: 0xFF},
		color.RGBA{R: 0xFE, G: 0xCC, B: 0x5C, A: 0xFF},
		color.RGBA{R: 0xFD, G: 0x8D, B: 0x3C, A: 0xFF},
		color.RGBA{R: 0xF0, G: 0x3B, B: 0x20, A: 0xFF},
		color.RGBA{R: 0xBD, G: 0x00, B: 0x26, A: 0xFF},
	}
)

// MinecraftRenderer renders word clouds with the Minecraft theme.
type MinecraftRenderer struct {
	opts RenderOptions
}

// NewMinecraftRenderer creates a renderer. Zero-valued dimensions fall back
// to an 800x400 canvas.
func NewMinecraftRenderer(opts RenderOptions) *MinecraftRenderer {
	if opts.Width <= 0 {
		opts.Width = 800
	}
	if opts.Height <= 0 {
		opts.Height = 400
	}
	return &MinecraftRenderer{opts: opts}
}

// Render lays the words out on the canvas, sized by frequency. The layout
// library draws from the shared math/rand source, so the seed is applied
// immediately before drawing to keep output reproducible.
func (r *MinecraftRenderer) Render(freq map[string]int) (image.Image, error) {
	if len(freq) == 0 {
		return nil, errors.New("wordcloud: nothing to render")
	}
	if r.opts.FontPath == "" {
		return nil, fmt.Errorf("%w: set AGENTDIR_FONT_PATH or --font", ErrNoFont)
	}
	if _, err := os.Stat(r.opts.FontPath); err != nil {
		return nil, fmt.Errorf("wordcloud: font file %q: %w", r.opts.FontPath, err)
	}

	rand.Seed(r.opts.Seed)

	cloud := wordclouds.NewWordcloud(freq,
		wordclouds.FontFile(r.opts.FontPath),
		wordclouds.Width(r.opts.Width),
		wordclouds.Height(r.opts.Height),
		wordclouds.FontMinSize(10),
		wordclouds.FontMaxSize(60),
		wordclouds.BackgroundColor(minecraftBackground),
		wordclouds.Colors(minecraftPalette),
		wordclouds.RandomPlacement(false),
	)
	return cloud.Draw(), nil
}
