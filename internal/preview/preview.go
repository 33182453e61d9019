// Package preview draws the layout the static overlap pass worked with:
// estimated text boxes, declared shapes and colliding pairs, placed on the
// default single axes of the figure.
package preview

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"chartlint/internal/extract"
	"chartlint/internal/geom"
	"chartlint/internal/overlap"
)

// DefaultDPI matches matplotlib's figure.dpi.
const DefaultDPI = 100.0

// subplotpars по умолчанию
const (
	axesLeft   = 0.125
	axesRight  = 0.9
	axesBottom = 0.11
	axesTop    = 0.88
)

var (
	colorBackground = color.White
	colorAxes       = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
	colorShape      = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	colorBox        = color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff}
	colorOverlap    = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
	colorOverlapBg  = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0x40}
	colorText       = color.Black
)

// ErrNoLayout is returned when there is nothing to draw.
var ErrNoLayout = errors.New("preview: no static layout")

// Options controls the rendering.
type Options struct {
	DPI float64
	// Labels draws the text strings themselves inside their boxes.
	Labels bool
}

// Renderer draws layout previews. Faces are cached per point size.
type Renderer struct {
	opts  Options
	ttf   *truetype.Font
	faces map[float64]font.Face
}

// NewRenderer parses the embedded Go Sans face used for labels.
func NewRenderer(opts Options) (*Renderer, error) {
	if opts.DPI <= 0 {
		opts.DPI = DefaultDPI
	}
	ttf, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse label font: %w", err)
	}
	return &Renderer{opts: opts, ttf: ttf, faces: make(map[float64]font.Face)}, nil
}

func (r *Renderer) face(size float64) font.Face {
	if f, ok := r.faces[size]; ok {
		return f
	}
	f := truetype.NewFace(r.ttf, &truetype.Options{Size: size, DPI: r.opts.DPI})
	r.faces[size] = f
	return f
}

// frame maps axis fractions to pixels.
type frame struct {
	x0, y0, w, h float64
}

func (f frame) point(x, y float64) (float64, float64) {
	return f.x0 + x*f.w, f.y0 + (1-y)*f.h
}

func (f frame) rect(b geom.BBox) (x, y, w, h float64) {
	x, y = f.point(b.XMin, b.YMax)
	return x, y, b.Width() * f.w, b.Height() * f.h
}

// Size returns the canvas size in pixels for fig.
func (r *Renderer) Size(fig extract.Figure) (int, int) {
	fw, fh := fig.Width, fig.Height
	if fw <= 0 {
		fw = extract.DefaultFigWidth
	}
	if fh <= 0 {
		fh = extract.DefaultFigHeight
	}
	return int(fw*r.opts.DPI + 0.5), int(fh*r.opts.DPI + 0.5)
}

// Draw renders rep into an image.
func (r *Renderer) Draw(rep *overlap.StaticReport) (image.Image, error) {
	if rep == nil {
		return nil, ErrNoLayout
	}
	w, h := r.Size(rep.Figure)
	dc := gg.NewContext(w, h)
	dc.SetColor(colorBackground)
	dc.Clear()

	fr := frame{
		x0: axesLeft * float64(w),
		y0: (1 - axesTop) * float64(h),
		w:  (axesRight - axesLeft) * float64(w),
		h:  (axesTop - axesBottom) * float64(h),
	}
	dc.SetColor(colorAxes)
	dc.SetLineWidth(1)
	dc.DrawRectangle(fr.x0, fr.y0, fr.w, fr.h)
	dc.Stroke()

	for _, s := range rep.Shapes {
		x, y, sw, sh := fr.rect(geom.BBox{XMin: s.XMin, YMin: s.YMin, XMax: s.XMax, YMax: s.YMax})
		dc.SetColor(colorShape)
		dc.SetLineWidth(1.5)
		dc.DrawRectangle(x, y, sw, sh)
		dc.Stroke()
	}

	colliding := make(map[int]bool, 2*len(rep.Overlaps))
	for _, p := range rep.Overlaps {
		colliding[p.A] = true
		colliding[p.B] = true
	}
	for i, pl := range rep.Placed {
		x, y, bw, bh := fr.rect(pl.Box)
		if colliding[i] {
			dc.SetColor(colorOverlapBg)
			dc.DrawRectangle(x, y, bw, bh)
			dc.Fill()
			dc.SetColor(colorOverlap)
		} else {
			dc.SetColor(colorBox)
		}
		dc.SetLineWidth(1)
		dc.DrawRectangle(x, y, bw, bh)
		dc.Stroke()

		if r.opts.Labels && pl.Text.Text != "" && pl.Text.FontSize > 0 {
			dc.SetFontFace(r.face(pl.Text.FontSize))
			dc.SetColor(colorText)
			dc.DrawStringWrapped(pl.Text.Text, x, y, 0, 0, bw, geom.LineSpacing, gg.AlignLeft)
		}
	}

	// линии между центрами пересекающихся пар
	dc.SetColor(colorOverlap)
	dc.SetLineWidth(1)
	for _, p := range rep.Overlaps {
		ax, ay := fr.point(rep.Placed[p.A].Box.Center())
		bx, by := fr.point(rep.Placed[p.B].Box.Center())
		dc.DrawLine(ax, ay, bx, by)
		dc.Stroke()
	}
	return dc.Image(), nil
}

// WritePNG draws rep and writes it to path via a temp file in the same
// directory.
func (r *Renderer) WritePNG(path string, rep *overlap.StaticReport) error {
	img, err := r.Draw(rep)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".preview-*.png")
	if err != nil {
		return fmt.Errorf("create preview: %w", err)
	}
	tmpName := tmp.Name()
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := gg.SavePNG(tmpName, img); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("encode preview: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write preview: %w", err)
	}
	return nil
}
