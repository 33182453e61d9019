package extract

import (
	"chartlint/internal/ast"
	"chartlint/internal/source"
)

// Role: назначение текстового элемента; от него зависит минимальный кегль.
type Role uint8

const (
	RoleDefault Role = iota
	RoleTitle
	RoleAxisLabel
	RoleTickLabel
	RoleLegend
	RoleAnnotation
)

var roleNames = [...]string{
	RoleDefault:    "default",
	RoleTitle:      "title",
	RoleAxisLabel:  "axis-label",
	RoleTickLabel:  "tick-label",
	RoleLegend:     "legend",
	RoleAnnotation: "annotation",
}

func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return "unknown"
}

// ParseRole accepts the names printed by Role.String.
func ParseRole(s string) (Role, bool) {
	for i, n := range roleNames {
		if n == s {
			return Role(i), true
		}
	}
	return RoleDefault, false
}

// Roles lists every role in declaration order.
func Roles() []Role {
	return []Role{RoleDefault, RoleTitle, RoleAxisLabel, RoleTickLabel, RoleLegend, RoleAnnotation}
}

type HAlign uint8

const (
	HALeft HAlign = iota
	HACenter
	HARight
)

func (h HAlign) String() string {
	switch h {
	case HACenter:
		return "center"
	case HARight:
		return "right"
	}
	return "left"
}

type VAlign uint8

const (
	VABaseline VAlign = iota
	VABottom
	VACenter
	VATop
)

func (v VAlign) String() string {
	switch v {
	case VABottom:
		return "bottom"
	case VACenter:
		return "center"
	case VATop:
		return "top"
	}
	return "baseline"
}

// TextElement is a text label recovered from a drawing call.
type TextElement struct {
	X, Y     float64 // axis-normalized, valid when Positioned
	Text     string
	FontSize float64 // pt; literal or the role default
	// HasFontSize: размер задан литералом в самом вызове.
	HasFontSize bool
	SizeSpan    source.Span
	HAlign      HAlign
	VAlign      VAlign
	Role        Role
	Positioned  bool
	Axes        string // receiver the text is drawn on: "ax", "plt", "fig", UnknownAxes
	Method      string
	Span        source.Span
}

// Center returns the declared anchor point.
func (t TextElement) Center() (float64, float64) { return t.X, t.Y }

// UnknownAxes marks an element whose axes could not be told from the source,
// e.g. a patch that is never passed to add_patch.
const UnknownAxes = "?"

// ShapeElement is an axis-aligned rectangle drawn by a patch call.
type ShapeElement struct {
	XMin, YMin, XMax, YMax float64
	Kind                   string // Rectangle, FancyBboxPatch
	Axes                   string
	Span                   source.Span
}

// Limits is a data-coordinate interval from set_xlim/set_ylim.
type Limits struct {
	Lo, Hi float64
	Set    bool
}

// Normalize maps a data coordinate into [0,1] of the interval.
func (l Limits) Normalize(v float64) float64 {
	if !l.Set || l.Hi == l.Lo {
		return v
	}
	return (v - l.Lo) / (l.Hi - l.Lo)
}

// Scale maps a data-coordinate length into axis fraction.
func (l Limits) Scale(d float64) float64 {
	if !l.Set || l.Hi == l.Lo {
		return d
	}
	return d / (l.Hi - l.Lo)
}

// Figure holds figure-wide facts used for geometry and readability.
type Figure struct {
	Width, Height float64 // inches
	HasFigsize    bool
	Rows, Cols    int
	GridSpan      source.Span // first call declaring a multi-panel grid
	// FontSize: rcParams font.size, либо 10.
	FontSize float64
	RC       map[string]float64 // numeric rcParams found in the file
	XLim     map[string]Limits  // by axes receiver
	YLim     map[string]Limits
}

// Panels returns rows × cols (1 for a single axes).
func (f Figure) Panels() int {
	r, c := max(f.Rows, 1), max(f.Cols, 1)
	return r * c
}

// Result is everything extracted from one script.
type Result struct {
	File   *source.File
	AST    *ast.File
	Env    ast.Env
	Texts  []TextElement
	Shapes []ShapeElement
	Figure Figure
}

// Positioned returns only the texts with a known position.
func (r *Result) Positioned() []TextElement {
	out := make([]TextElement, 0, len(r.Texts))
	for _, t := range r.Texts {
		if t.Positioned {
			out = append(out, t)
		}
	}
	return out
}

const (
	DefaultFigWidth  = 6.4
	DefaultFigHeight = 4.8
	DefaultFontSize  = 10.0
)
