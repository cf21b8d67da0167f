package thumbnail

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, b []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	return img
}

func assertRGB(t *testing.T, want color.NRGBA, got color.Color) {
	t.Helper()
	c := color.NRGBAModel.Convert(got).(color.NRGBA)
	assert.InDelta(t, want.R, c.R, 3)
	assert.InDelta(t, want.G, c.G, 3)
	assert.InDelta(t, want.B, c.B, 3)
}

func TestRenderLayout(t *testing.T) {
	b, err := Render(Spec{Background: "#667eea", Foreground: "#ffffff", Headline: "Big news today"})
	require.NoError(t, err)
	img := decode(t, b)
	assert.Equal(t, image.Rect(0, 0, Width, Height), img.Bounds())

	// 30% black over the background at the top, 60% at the bottom.
	assertRGB(t, color.NRGBA{R: 71, G: 88, B: 164}, img.At(0, 0))
	assertRGB(t, color.NRGBA{R: 41, G: 50, B: 94}, img.At(0, Height-1))

	bright := 0
	for y := Height/2 - lineHeight; y < Height/2+lineHeight; y++ {
		for x := 0; x < Width; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.R > 200 && c.G > 200 && c.B > 200 {
				bright++
			}
		}
	}
	assert.Positive(t, bright, "headline pixels expected around the centre")
}

func TestRenderFallsBackOnBadInput(t *testing.T) {
	a, err := Render(Spec{Background: "not-a-colour", Foreground: "#zzz"})
	require.NoError(t, err)
	b, err := Render(Spec{Headline: DefaultHeadline})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestNewRendererRejectsGarbage(t *testing.T) {
	_, err := NewRenderer([]byte("not a font"))
	assert.Error(t, err)

	_, err = NewRendererFromFile("/does/not/exist.ttf")
	assert.Error(t, err)

	r, err := NewRendererFromFile("")
	require.NoError(t, err)
	assert.NotNil(t, r)
}

func TestWrap(t *testing.T) {
	measure := func(s string) float64 { return float64(len(s) * 10) }

	assert.Equal(t, []string{"one two", "three"}, wrap("one two three", 80, measure))
	assert.Equal(t, []string{"supercalifragilistic", "x"}, wrap("supercalifragilistic x", 50, measure))
	assert.Equal(t, []string{"solo"}, wrap("solo", 10, measure))
}

func TestParseHexColor(t *testing.T) {
	assert.Equal(t, color.NRGBA{R: 0x66, G: 0x7e, B: 0xea, A: 255}, ParseHexColor("#667EEA", DefaultForeground))
	assert.Equal(t, color.NRGBA{R: 0xff, G: 0x00, B: 0xff, A: 255}, ParseHexColor(" f0f ", DefaultForeground))
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, ParseHexColor("#12345", DefaultForeground))
	assert.Equal(t, color.NRGBA{R: 0x66, G: 0x7e, B: 0xea, A: 255}, ParseHexColor("", DefaultBackground))
}
