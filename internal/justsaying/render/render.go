// Package render draws a saying onto a card image and builds its caption.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"microsites/internal/config"
	"microsites/internal/justsaying/sayings"
)

const (
	accentBarHeight = 18
	frameWidth      = 2
	titleTop        = 0.18
	gapAfterTitle   = 24
	gapAfterSub     = 16
)

// Card is the result of rendering one saying.
type Card struct {
	ImageRelPath string
	Caption      string
	RowID        string
}

// Renderer draws cards with a fixed layout and palette.
type Renderer struct {
	cfg    config.RenderConfig
	outDir string

	title, sub, credit font.Face
	bg, accent, ink    color.Color
}

// New loads fonts and colours. Empty font paths fall back to the bundled Go font.
func New(cfg config.RenderConfig, outDir string) (*Renderer, error) {
	r := &Renderer{cfg: cfg, outDir: outDir}

	var err error
	if r.title, err = loadFace(cfg.SerifFont, cfg.TitleSize); err != nil {
		return nil, err
	}
	if r.sub, err = loadFace(cfg.SansFont, cfg.SubSize); err != nil {
		return nil, err
	}
	if r.credit, err = loadFace(cfg.SansFont, cfg.CreditSize); err != nil {
		return nil, err
	}

	for _, c := range []struct {
		dst  *color.Color
		hex  string
		name string
	}{
		{&r.bg, cfg.Background, "background"},
		{&r.accent, cfg.Accent, "accent"},
		{&r.ink, cfg.Ink, "ink"},
	} {
		col, err := ParseHex(c.hex)
		if err != nil {
			return nil, fmt.Errorf("render %s colour: %w", c.name, err)
		}
		*c.dst = col
	}
	return r, nil
}

func loadFace(path string, size float64) (font.Face, error) {
	data := goregular.TTF
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read font %s: %w", path, err)
		}
		data = b
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %q: %w", path, err)
	}
	return opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
}

// ParseHex parses #RRGGBB.
func ParseHex(s string) (color.RGBA, error) {
	var c color.RGBA
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return c, fmt.Errorf("invalid hex colour %q", s)
	}
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return c, fmt.Errorf("invalid hex colour %q: %w", s, err)
	}
	c.A = 0xff
	return c, nil
}

// Render draws s, writes <outDir>/<today>-<id>.png and returns the card.
func (r *Renderer) Render(s sayings.Saying, today string) (Card, error) {
	var img image.Image = r.Draw(s)
	if w := r.cfg.OutputWidth; w > 0 && w != r.cfg.Width {
		img = resize.Resize(uint(w), 0, img, resize.Lanczos3)
	}

	if err := os.MkdirAll(r.outDir, 0o755); err != nil {
		return Card{}, fmt.Errorf("create output dir: %w", err)
	}
	rel := filepath.Join(r.outDir, fmt.Sprintf("%s-%s.png", today, s.ID))
	f, err := os.Create(rel)
	if err != nil {
		return Card{}, fmt.Errorf("create card: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return Card{}, fmt.Errorf("encode card: %w", err)
	}
	if err := f.Close(); err != nil {
		return Card{}, fmt.Errorf("close card: %w", err)
	}

	return Card{ImageRelPath: filepath.ToSlash(rel), Caption: Caption(s), RowID: s.ID}, nil
}

// Draw lays out s on a fresh canvas at the configured size.
func (r *Renderer) Draw(s sayings.Saying) *image.RGBA {
	w, h, m := r.cfg.Width, r.cfg.Height, r.cfg.Margin
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fill(img, img.Bounds(), r.bg)
	fill(img, image.Rect(0, 0, w, accentBarHeight+1), r.accent)

	maxWidth := w - 2*m
	y := math.Floor(float64(h) * titleTop)
	y = r.block(img, s.Text, r.title, r.cfg.TitleSize, m, y, maxWidth, r.ink)
	y += gapAfterTitle
	if s.Translation != "" {
		y = r.block(img, s.Translation, r.sub, r.cfg.SubSize, m, y, maxWidth, r.accent)
		y += gapAfterSub
	}

	if footer := r.cfg.Footer; footer != "" {
		fw := font.MeasureString(r.credit, footer).Ceil()
		text(img, footer, r.credit, w-m-fw, float64(h-m)-r.cfg.CreditSize, r.ink)
	}

	half := m / 2
	frame(img, image.Rect(half, half, w-half+1, h-half+1), frameWidth, r.accent)
	return img
}

func (r *Renderer) block(img draw.Image, s string, face font.Face, size float64, x int, y float64, maxWidth int, c color.Color) float64 {
	lines := Wrap(face, s, maxWidth)
	lineH := size * r.cfg.LineSpacing
	for i, line := range lines {
		text(img, line, face, x, y+float64(i)*lineH, c)
	}
	return y + float64(len(lines))*lineH
}

// Wrap breaks s into lines no wider than maxWidth pixels, greedily by word.
// A single word wider than maxWidth gets a line of its own.
func Wrap(face font.Face, s string, maxWidth int) []string {
	var lines, cur []string
	for _, word := range strings.Fields(s) {
		test := strings.Join(append(cur, word), " ")
		if font.MeasureString(face, test).Ceil() <= maxWidth {
			cur = append(cur, word)
			continue
		}
		if len(cur) > 0 {
			lines = append(lines, strings.Join(cur, " "))
		}
		cur = []string{word}
	}
	if len(cur) > 0 {
		lines = append(lines, strings.Join(cur, " "))
	}
	return lines
}

// text draws s with its top edge at y.
func text(img draw.Image, s string, face font.Face, x int, y float64, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.Int26_6(y*64) + face.Metrics().Ascent},
	}
	d.DrawString(s)
}

func fill(img draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

func frame(img draw.Image, r image.Rectangle, width int, c color.Color) {
	fill(img, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width), c)
	fill(img, image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y), c)
	fill(img, image.Rect(r.Min.X, r.Min.Y, r.Min.X+width, r.Max.Y), c)
	fill(img, image.Rect(r.Max.X-width, r.Min.Y, r.Max.X, r.Max.Y), c)
}

// Caption joins the saying, its translation and hashtags with blank lines.
func Caption(s sayings.Saying) string {
	parts := []string{s.Text}
	if s.Translation != "" {
		parts = append(parts, "Vertaling: "+s.Translation)
	}
	if s.Hashtags != "" {
		parts = append(parts, s.Hashtags)
	}
	return strings.Join(parts, "\n\n")
}
