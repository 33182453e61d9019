// Package geom estimates text geometry in axis-normalized coordinates.
package geom

import "fmt"

// BBox is an axis-aligned box in axis fractions (or pixels for rendered boxes).
type BBox struct {
	XMin, YMin, XMax, YMax float64
}

func (b BBox) Width() float64  { return b.XMax - b.XMin }
func (b BBox) Height() float64 { return b.YMax - b.YMin }

func (b BBox) Center() (float64, float64) {
	return (b.XMin + b.XMax) / 2, (b.YMin + b.YMax) / 2
}

// Area is zero for degenerate boxes.
func (b BBox) Area() float64 {
	if b.Empty() {
		return 0
	}
	return b.Width() * b.Height()
}

func (b BBox) Empty() bool {
	return b.XMax <= b.XMin || b.YMax <= b.YMin
}

// Intersects reports whether the boxes come closer than margin on both axes.
// With margin 0 only a positive-area intersection counts.
func (b BBox) Intersects(o BBox, margin float64) bool {
	return b.XMin < o.XMax+margin && o.XMin < b.XMax+margin &&
		b.YMin < o.YMax+margin && o.YMin < b.YMax+margin
}

// Intersection returns the common part; Empty() when there is none.
func (b BBox) Intersection(o BBox) BBox {
	return BBox{
		XMin: max(b.XMin, o.XMin),
		YMin: max(b.YMin, o.YMin),
		XMax: min(b.XMax, o.XMax),
		YMax: min(b.YMax, o.YMax),
	}
}

// Union returns the smallest box containing both.
func (b BBox) Union(o BBox) BBox {
	return BBox{
		XMin: min(b.XMin, o.XMin),
		YMin: min(b.YMin, o.YMin),
		XMax: max(b.XMax, o.XMax),
		YMax: max(b.YMax, o.YMax),
	}
}

func (b BBox) Contains(x, y float64) bool {
	return x >= b.XMin && x <= b.XMax && y >= b.YMin && y <= b.YMax
}

func (b BBox) String() string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f, %.3f)", b.XMin, b.YMin, b.XMax, b.YMax)
}
