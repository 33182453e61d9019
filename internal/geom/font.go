package geom

import (
	"fmt"
	"os"
	"sync"

	"github.com/flopp/go-findfont"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/width"
)

// Шрифт matplotlib по умолчанию.
const defaultFontFile = "DejaVuSans.ttf"

// Приближение для рун без глифа: средняя ширина латиницы в DejaVu Sans.
const fallbackAdvanceEm = 0.6

// Font gives glyph advances of a parsed TrueType/OpenType font. Safe for
// concurrent use.
type Font struct {
	Name string
	Path string // "" for the embedded Go Sans

	sf   *sfnt.Font
	upem float64
	bufs sync.Pool
	// advance in em by rune
	cache sync.Map
}

// ParseFont parses raw font data.
func ParseFont(data []byte, name, path string) (*Font, error) {
	sf, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", name, err)
	}
	if n, err := sf.Name(nil, sfnt.NameIDFull); err == nil && n != "" {
		name = n
	}
	f := &Font{Name: name, Path: path, sf: sf, upem: float64(sf.UnitsPerEm())}
	f.bufs.New = func() any { return new(sfnt.Buffer) }
	return f, nil
}

// LoadFont reads a font file from disk.
func LoadFont(path string) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	return ParseFont(data, path, path)
}

var (
	goSansOnce sync.Once
	goSans     *Font
)

// GoSans returns the embedded Go Sans font. It is always present.
func GoSans() *Font {
	goSansOnce.Do(func() {
		f, err := ParseFont(goregular.TTF, "Go Sans", "")
		if err != nil {
			panic("cannot load embedded font") // не бывает
		}
		goSans = f
	})
	return goSans
}

// FindFont locates a system font by file name (DejaVuSans.ttf) and falls
// back to Go Sans when it is missing or unreadable.
func FindFont(name string) *Font {
	if name == "" {
		name = defaultFontFile
	}
	if path, err := findfont.Find(name); err == nil && path != "" {
		if f, err := LoadFont(path); err == nil {
			return f
		}
	}
	return GoSans()
}

// AdvanceEm returns the advance width of r in em.
func (f *Font) AdvanceEm(r rune) float64 {
	if v, ok := f.cache.Load(r); ok {
		return v.(float64)
	}
	adv := f.advance(r)
	f.cache.Store(r, adv)
	return adv
}

func (f *Font) advance(r rune) float64 {
	buf := f.bufs.Get().(*sfnt.Buffer)
	defer f.bufs.Put(buf)

	idx, err := f.sf.GlyphIndex(buf, r)
	if err != nil || idx == 0 {
		return FallbackAdvanceEm(r)
	}
	// ppem == unitsPerEm: результат в 26.6 численно равен единицам шрифта
	adv, err := f.sf.GlyphAdvance(buf, idx, fixed.Int26_6(f.upem), font.HintingNone)
	if err != nil {
		return FallbackAdvanceEm(r)
	}
	return float64(adv) / f.upem
}

// FallbackAdvanceEm approximates a glyph without font data: East Asian wide
// runes take one em, everything else 0.6 em.
func FallbackAdvanceEm(r rune) float64 {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 1.0
	}
	return fallbackAdvanceEm
}
