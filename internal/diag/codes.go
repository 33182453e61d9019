package diag

import (
	"fmt"
)

// Code is the issue kind.
type Code uint16

const (
	UnknownCode Code = 0

	// Входные данные
	FileNotFound Code = 1001
	ParseLimit   Code = 1002
	SyntaxError  Code = 1003

	// Статическая геометрия
	TextOverlap   Code = 2001
	TextNearEdge  Code = 2002
	CrowdedRegion Code = 2003

	// Читаемость
	SmallFont         Code = 3001
	CriticalSmallFont Code = 3002
	MultiPanel        Code = 3003
	ExcessiveText     Code = 3004

	// Рендер
	RenderError     Code = 4001
	RenderedOverlap Code = 4002

	// Размеры шрифтов
	RcParamsTooSmall   Code = 5001
	InlineFontTooSmall Code = 5002
	FixUnresolved      Code = 5003
)

var (
	codeName = map[Code]string{
		UnknownCode:        "UNKNOWN",
		FileNotFound:       "FILE_NOT_FOUND",
		ParseLimit:         "PARSE_LIMIT",
		SyntaxError:        "SYNTAX_ERROR",
		TextOverlap:        "TEXT_OVERLAP",
		TextNearEdge:       "TEXT_NEAR_EDGE",
		CrowdedRegion:      "CROWDED_REGION",
		SmallFont:          "SMALL_FONT",
		CriticalSmallFont:  "CRITICAL_SMALL_FONT",
		MultiPanel:         "MULTI_PANEL",
		ExcessiveText:      "EXCESSIVE_TEXT",
		RenderError:        "RENDER_ERROR",
		RenderedOverlap:    "RENDERED_OVERLAP",
		RcParamsTooSmall:   "RCPARAMS_TOO_SMALL",
		InlineFontTooSmall: "INLINE_FONT_TOO_SMALL",
		FixUnresolved:      "FIX_UNRESOLVED",
	}
	codeDescription = map[Code]string{
		UnknownCode:        "unknown issue",
		FileNotFound:       "chart script not found or unreadable",
		ParseLimit:         "call skipped: arguments are not literal",
		SyntaxError:        "source could not be tokenized",
		TextOverlap:        "estimated text boxes overlap",
		TextNearEdge:       "text sits on a shape edge",
		CrowdedRegion:      "too many labels in one region",
		SmallFont:          "font below legibility minimum",
		CriticalSmallFont:  "font illegible at embedding scale",
		MultiPanel:         "multi-panel figure",
		ExcessiveText:      "too many text elements",
		RenderError:        "script failed in sandboxed render",
		RenderedOverlap:    "rendered text boxes overlap",
		RcParamsTooSmall:   "global font size below minimum",
		InlineFontTooSmall: "inline font size below minimum",
		FixUnresolved:      "fix could not be applied",
	}
)

// ParseCode looks up a code by its kind name (TEXT_OVERLAP).
func ParseCode(name string) (Code, bool) {
	for c, n := range codeName {
		if n == name {
			return c, true
		}
	}
	return UnknownCode, false
}

// ID returns the kind name used in reports.
func (c Code) ID() string {
	if n, ok := codeName[c]; ok {
		return n
	}
	return fmt.Sprintf("CODE%04d", int(c))
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
