// Package thumbnail draws the 9:16 short-news cover image.
package thumbnail

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"image/color"
	"os"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
)

const (
	Width  = 1080
	Height = 1920

	DefaultBackground = "#667eea"
	DefaultForeground = "#ffffff"
	DefaultHeadline   = "Sample Headline"
	Brand             = "Telugu Short News"

	headlineSize  = 90
	brandSize     = 40
	lineHeight    = 120
	sideMargin    = 100
	brandFromFoot = 100
)

var (
	overlayTop    = color.NRGBA{A: 77}
	overlayBottom = color.NRGBA{A: 153}
	brandColor    = color.NRGBA{R: 255, G: 255, B: 255, A: 204}
)

// Spec is what the thumbnail form collects. Colours are hex strings as
// typed by the user; bad values fall back to the defaults.
type Spec struct {
	Background string
	Foreground string
	Headline   string
}

// Renderer owns the parsed font. Faces are not safe for concurrent use, so
// Render is serialised.
type Renderer struct {
	mu       sync.Mutex
	headline font.Face
	brand    font.Face
}

// NewRenderer parses a TrueType font; nil uses Go Bold.
func NewRenderer(ttf []byte) (*Renderer, error) {
	if len(ttf) == 0 {
		ttf = gobold.TTF
	}
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face := func(size float64) font.Face {
		return truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingNone})
	}
	return &Renderer{headline: face(headlineSize), brand: face(brandSize)}, nil
}

// NewRendererFromFile loads the font at path, or Go Bold when path is empty.
// Go Bold has no Telugu glyphs, so real headlines want a Telugu font here.
func NewRendererFromFile(path string) (*Renderer, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return NewRenderer(nil)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font file: %w", err)
	}
	return NewRenderer(b)
}

var (
	defaultOnce     sync.Once
	defaultRenderer *Renderer
	defaultErr      error
)

// Render draws s with the built-in font.
func Render(s Spec) ([]byte, error) {
	defaultOnce.Do(func() { defaultRenderer, defaultErr = NewRenderer(nil) })
	if defaultErr != nil {
		return nil, defaultErr
	}
	return defaultRenderer.Render(s)
}

// Render returns the PNG bytes for s.
func (r *Renderer) Render(s Spec) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	dc := gg.NewContext(Width, Height)

	dc.SetColor(ParseHexColor(s.Background, DefaultBackground))
	dc.DrawRectangle(0, 0, Width, Height)
	dc.Fill()

	grad := gg.NewLinearGradient(0, 0, 0, Height)
	grad.AddColorStop(0, overlayTop)
	grad.AddColorStop(1, overlayBottom)
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, Width, Height)
	dc.Fill()

	headline := strings.TrimSpace(s.Headline)
	if headline == "" {
		headline = DefaultHeadline
	}
	dc.SetFontFace(r.headline)
	dc.SetColor(ParseHexColor(s.Foreground, DefaultForeground))
	measure := func(line string) float64 {
		w, _ := dc.MeasureString(line)
		return w
	}
	lines := wrap(headline, Width-sideMargin, measure)
	top := float64(Height-len(lines)*lineHeight) / 2
	for i, line := range lines {
		dc.DrawStringAnchored(line, Width/2, top+float64(i*lineHeight), 0.5, 0.5)
	}

	dc.SetFontFace(r.brand)
	dc.SetColor(brandColor)
	dc.DrawStringAnchored(Brand, Width/2, Height-brandFromFoot, 0.5, 0.5)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// wrap greedily packs space-separated words into lines no wider than limit.
// A single word wider than limit keeps its own line.
func wrap(text string, limit float64, measure func(string) float64) []string {
	words := strings.Split(text, " ")
	lines := make([]string, 0, 4)
	current := words[0]
	for _, w := range words[1:] {
		candidate := current + " " + w
		if measure(candidate) > limit {
			lines = append(lines, current)
			current = w
			continue
		}
		current = candidate
	}
	return append(lines, current)
}

// ParseHexColor reads #rgb or #rrggbb. Anything else yields def, which must
// itself be valid.
func ParseHexColor(s, def string) color.NRGBA {
	if c, ok := parseHex(s); ok {
		return c
	}
	c, _ := parseHex(def)
	return c
}

func parseHex(s string) (color.NRGBA, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return color.NRGBA{}, false
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return color.NRGBA{}, false
	}
	return color.NRGBA{R: raw[0], G: raw[1], B: raw[2], A: 255}, true
}
