package lexer

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Unquote декодирует значение строкового литерала Python (с префиксом или без).
// f-строки не вычисляются: ok=false.
func Unquote(lit string) (string, bool) {
	i := 0
	raw := false
	for i < len(lit) && lit[i] != '\'' && lit[i] != '"' {
		switch lit[i] {
		case 'r', 'R':
			raw = true
		case 'f', 'F':
			return "", false
		}
		i++
	}
	body := lit[i:]
	switch {
	case len(body) >= 6 && (strings.HasPrefix(body, `"""`) || strings.HasPrefix(body, `'''`)):
		if body[len(body)-3:] != body[:3] {
			return "", false
		}
		body = body[3 : len(body)-3]
	case len(body) >= 2 && body[0] == body[len(body)-1]:
		body = body[1 : len(body)-1]
	default:
		return "", false
	}
	if raw || !strings.Contains(body, `\`) {
		return body, true
	}
	return unescape(body), true
}

func unescape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch e := s[i]; e {
		case '\n': // продолжение строки внутри литерала
		case '\\', '\'', '"':
			b.WriteByte(e)
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case 'x', 'u', 'U':
			n := map[byte]int{'x': 2, 'u': 4, 'U': 8}[e]
			if i+n < len(s) {
				if v, err := strconv.ParseUint(s[i+1:i+1+n], 16, 32); err == nil && utf8.ValidRune(rune(v)) {
					b.WriteRune(rune(v))
					i += n
					continue
				}
			}
			b.WriteByte('\\')
			b.WriteByte(e)
		default:
			// неизвестные escape Python оставляет как есть
			b.WriteByte('\\')
			b.WriteByte(e)
		}
	}
	return b.String()
}
