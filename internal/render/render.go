// Package render draws report metrics onto the template image.
package render

import (
	"bytes"
	"image"
	"image/color"
	_ "image/jpeg" // template decoders
	"image/png"
	"os"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/sells-group/ops-report/internal/layout"
	"github.com/sells-group/ops-report/internal/report"
)

var (
	textColor  = color.RGBA{A: 255}
	debugColor = color.RGBA{R: 200, A: 255}
)

// Options configures a Composer.
type Options struct {
	TemplatePath string
	// FontPath is a TrueType/OpenType font. When it cannot be loaded the
	// built-in 7x13 bitmap face is used.
	FontPath string
	FontSize float64
	// DebugLabels draws each metric key next to its value.
	DebugLabels bool
}

// Composer renders metrics onto a static template.
type Composer struct {
	opts   Options
	layout *layout.Layout
	face   font.Face
}

// NewComposer creates a Composer for the given layout.
func NewComposer(l *layout.Layout, opts Options) *Composer {
	return &Composer{opts: opts, layout: l, face: loadFace(opts.FontPath, opts.FontSize)}
}

func loadFace(path string, size float64) font.Face {
	if path == "" {
		return basicfont.Face7x13
	}
	if size <= 0 {
		size = 16
	}

	data, err := os.ReadFile(path)
	if err != nil {
		zap.L().Debug("render: font not readable, using built-in face", zap.String("path", path), zap.Error(err))
		return basicfont.Face7x13
	}
	f, err := opentype.Parse(data)
	if err != nil {
		zap.L().Warn("render: font not parseable, using built-in face", zap.String("path", path), zap.Error(err))
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		zap.L().Warn("render: font face failed, using built-in face", zap.String("path", path), zap.Error(err))
		return basicfont.Face7x13
	}
	return face
}

// Render draws the date label at the top-right anchor and each metric
// value at its layout cell, and returns the PNG bytes. Metrics without a
// cell are skipped.
func (c *Composer) Render(m *report.Metrics, dateLabel string) ([]byte, error) {
	src, err := c.loadTemplate()
	if err != nil {
		return nil, err
	}

	bounds := src.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)

	c.drawText(dst, c.layout.DatePosition(bounds.Dx()), dateLabel, textColor)

	for _, e := range m.Entries() {
		p, ok := c.layout.Cell(e.Label)
		if !ok {
			continue
		}
		value := strconv.Itoa(e.Count)
		c.drawText(dst, p, value, textColor)

		if c.opts.DebugLabels {
			offset := font.MeasureString(c.face, value).Ceil() + 8
			c.drawText(dst, layout.Point{X: p.X + offset, Y: p.Y}, e.Label, debugColor)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, eris.Wrap(err, "render: encode png")
	}
	return buf.Bytes(), nil
}

func (c *Composer) loadTemplate() (image.Image, error) {
	f, err := os.Open(c.opts.TemplatePath)
	if err != nil {
		return nil, eris.Wrapf(err, "render: open template %s", c.opts.TemplatePath)
	}
	defer f.Close() //nolint:errcheck

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, eris.Wrapf(err, "render: decode template %s", c.opts.TemplatePath)
	}
	return img, nil
}

// drawText writes s with its top-left corner at p, relative to the image
// origin.
func (c *Composer) drawText(dst *image.RGBA, p layout.Point, s string, col color.Color) {
	origin := dst.Bounds().Min
	ascent := c.face.Metrics().Ascent.Ceil()
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: c.face,
		Dot:  fixed.P(origin.X+p.X, origin.Y+p.Y+ascent),
	}
	d.DrawString(s)
}
