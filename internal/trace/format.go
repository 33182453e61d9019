package trace

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

// Format is the encoding of trace lines.
type Format uint8

const (
	FormatAuto   Format = iota // pick from the output path
	FormatText                 // one human-readable line per event
	FormatNDJSON               // one JSON object per line
)

// ParseFormat reads a --trace-format value.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	}
	return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson)", s)
}

type jsonEvent struct {
	Time   string            `json:"time"`
	Seq    uint64            `json:"seq"`
	Kind   string            `json:"kind"`
	Scope  string            `json:"scope"`
	Span   uint64            `json:"span,omitempty"`
	Parent uint64            `json:"parent,omitempty"`
	Lane   int               `json:"lane,omitempty"`
	Name   string            `json:"name"`
	Detail string            `json:"detail,omitempty"`
	Attrs  map[string]string `json:"attrs,omitempty"`
}

func encode(ev *Event, format Format, start time.Time) []byte {
	if format == FormatNDJSON {
		data, err := json.Marshal(jsonEvent{
			Time:   ev.Time.Format(time.RFC3339Nano),
			Seq:    ev.Seq,
			Kind:   ev.Kind.String(),
			Scope:  ev.Scope.String(),
			Span:   ev.Span,
			Parent: ev.Parent,
			Lane:   ev.Lane,
			Name:   ev.Name,
			Detail: ev.Detail,
			Attrs:  ev.Attrs,
		})
		if err != nil {
			return nil
		}
		return append(data, '\n')
	}
	return encodeText(ev, start)
}

var kindMarks = [...]string{KindBegin: ">", KindEnd: "<", KindPoint: "*"}

// encodeText: "+   12.345ms #2    > overlap (detail) issues=1"
func encodeText(ev *Event, start time.Time) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "+%9.3fms ", float64(ev.Time.Sub(start).Microseconds())/1000)
	if ev.Lane > 0 {
		fmt.Fprintf(&sb, "#%-3d ", ev.Lane)
	} else {
		sb.WriteString("     ")
	}
	if ev.Scope > 1 {
		sb.WriteString(strings.Repeat("  ", int(ev.Scope-1)))
	}
	if int(ev.Kind) < len(kindMarks) {
		sb.WriteString(kindMarks[ev.Kind])
		sb.WriteByte(' ')
	}
	sb.WriteString(ev.Name)
	if ev.Detail != "" {
		fmt.Fprintf(&sb, " (%s)", ev.Detail)
	}
	for _, k := range slices.Sorted(maps.Keys(ev.Attrs)) {
		fmt.Fprintf(&sb, " %s=%s", k, ev.Attrs[k])
	}
	sb.WriteByte('\n')
	return []byte(sb.String())
}
