package trace

import (
	"fmt"
	"strings"
	"time"
)

// Kind is what an event marks.
type Kind uint8

const (
	KindBegin Kind = iota + 1
	KindEnd
	KindPoint
)

var kindNames = [...]string{KindBegin: "begin", KindEnd: "end", KindPoint: "point"}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is the granularity of a span. Coarser scopes have lower values.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // whole run
	ScopeFile                    // one chart script
	ScopeStage                   // extract, overlap, fonts, render
	ScopeDetail                  // per element, noisy
)

var scopeNames = [...]string{ScopeDriver: "driver", ScopeFile: "file", ScopeStage: "stage", ScopeDetail: "detail"}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff Level = iota
	LevelError
	LevelPhase
	LevelDetail
	LevelDebug
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel reads a --trace-level value. Empty means off.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return LevelOff, nil
	}
	for i, name := range levelNames {
		if name == s {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// deepest returns the finest scope whose spans pass at l, 0 for none.
func (l Level) deepest() Scope {
	switch l {
	case LevelPhase:
		return ScopeFile
	case LevelDetail:
		return ScopeStage
	case LevelDebug:
		return ScopeDetail
	default:
		return 0
	}
}

// Admits reports whether ev passes at level l. Points pass from LevelError
// up, spans only down to the level's deepest scope.
func (l Level) Admits(ev *Event) bool {
	if ev.Kind == KindPoint {
		return l >= LevelError
	}
	return ev.Scope <= l.deepest()
}

// Event is a single trace record.
type Event struct {
	Time   time.Time
	Seq    uint64 // monotonic across the process
	Kind   Kind
	Scope  Scope
	Span   uint64 // 0 for points
	Parent uint64
	Lane   int // position of the file in the batch, 0 outside files
	Name   string
	Detail string
	Attrs  map[string]string
}
