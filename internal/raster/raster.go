// Package raster renders text offscreen and samples glyph interiors into
// particle targets.
package raster

import (
	"fmt"
	"image"
	"log"
	"math"
	"os"
	"strings"

	"github.com/san-kum/countdown/internal/dynamo"
	"github.com/san-kum/countdown/internal/surface"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	// LineHeight is the baseline-to-baseline distance in ems.
	LineHeight = 1.5
	// Threshold is the alpha a pixel must exceed to count as inside a glyph.
	Threshold = 128
)

type faceKey struct {
	size float64
	bold bool
}

// Rasterizer owns parsed fonts and a cache of sized faces. It is not safe
// for concurrent use.
type Rasterizer struct {
	regular *opentype.Font
	bold    *opentype.Font
	faces   map[faceKey]font.Face
}

// New loads the embedded Go fonts. A non-empty fontPath replaces both
// weights; if it cannot be loaded the embedded fonts are used instead.
func New(fontPath string) (*Rasterizer, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dynamo.ErrFontUnavailable, err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dynamo.ErrFontUnavailable, err)
	}
	r := &Rasterizer{regular: regular, bold: bold, faces: make(map[faceKey]font.Face)}

	if fontPath != "" {
		custom, err := loadFont(fontPath)
		if err != nil {
			log.Printf("[Raster] %v, falling back to Go Bold", err)
		} else {
			r.regular, r.bold = custom, custom
		}
	}
	return r, nil
}

func loadFont(path string) (*opentype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dynamo.ErrFontUnavailable, err)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", dynamo.ErrFontUnavailable, path, err)
	}
	return f, nil
}

func (r *Rasterizer) face(style surface.TextStyle) (font.Face, error) {
	key := faceKey{size: style.Size, bold: style.Bold}
	if f, ok := r.faces[key]; ok {
		return f, nil
	}
	src := r.regular
	if style.Bold {
		src = r.bold
	}
	f, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    style.Size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: size %v: %v", dynamo.ErrFontUnavailable, style.Size, err)
	}
	r.faces[key] = f
	return f, nil
}

// MeasureText returns the widest line's advance and the block height.
func (r *Rasterizer) MeasureText(text string, style surface.TextStyle) (float64, float64) {
	f, err := r.face(style)
	if err != nil || style.Size <= 0 {
		return 0, 0
	}
	lines := strings.Split(text, "\n")
	w := 0.0
	for _, line := range lines {
		w = math.Max(w, fromFixed(font.MeasureString(f, line)))
	}
	h := style.Size + float64(len(lines)-1)*style.Size*LineHeight
	return w, h
}

// Render draws one line into dst. y is the vertical middle of the line and
// x is its left edge or centre depending on style.Align.
func (r *Rasterizer) Render(dst *image.Alpha, text string, x, y float64, style surface.TextStyle) error {
	f, err := r.face(style)
	if err != nil {
		return err
	}
	m := f.Metrics()
	if style.Align == surface.AlignCenter {
		x -= fromFixed(font.MeasureString(f, text)) / 2
	}
	baseline := y + (fromFixed(m.Ascent)-fromFixed(m.Descent))/2

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.Opaque,
		Face: f,
		Dot:  fixed.Point26_6{X: toFixed(x), Y: toFixed(baseline)},
	}
	d.DrawString(text)
	return nil
}

// Mask renders a possibly multi-line block centred on a w x h canvas: the
// block is centred vertically and each line horizontally.
func (r *Rasterizer) Mask(text string, size float64, w, h int) (*image.Alpha, error) {
	if strings.TrimSpace(text) == "" {
		return nil, dynamo.ErrEmptyText
	}
	if w <= 0 || h <= 0 || size <= 0 {
		return nil, fmt.Errorf("%w: canvas %dx%d size %v", dynamo.ErrInvalidConfig, w, h, size)
	}
	img := image.NewAlpha(image.Rect(0, 0, w, h))
	style := surface.TextStyle{Size: size, Bold: true, Align: surface.AlignCenter}

	lines := strings.Split(text, "\n")
	lh := size * LineHeight
	startY := float64(h)/2 - float64(len(lines)-1)*lh/2
	for i, line := range lines {
		if err := r.Render(img, line, float64(w)/2, startY+float64(i)*lh, style); err != nil {
			return nil, err
		}
	}
	return img, nil
}

// Sample rasterises text and returns the grid points at the given stride
// whose alpha exceeds Threshold, in row-major order.
func (r *Rasterizer) Sample(text string, size float64, w, h, stride int) ([]dynamo.Vec2, error) {
	if stride < 1 {
		stride = 1
	}
	img, err := r.Mask(text, size, w, h)
	if err != nil {
		return nil, err
	}
	return SampleMask(img, stride), nil
}

// SampleMask scans img on a stride grid.
func SampleMask(img *image.Alpha, stride int) []dynamo.Vec2 {
	b := img.Bounds()
	var pts []dynamo.Vec2
	for y := b.Min.Y; y < b.Max.Y; y += stride {
		for x := b.Min.X; x < b.Max.X; x += stride {
			if img.AlphaAt(x, y).A > Threshold {
				pts = append(pts, dynamo.V(float64(x), float64(y)))
			}
		}
	}
	return pts
}

func toFixed(v float64) fixed.Int26_6 { return fixed.Int26_6(math.Round(v * 64)) }

func fromFixed(v fixed.Int26_6) float64 { return float64(v) / 64 }
