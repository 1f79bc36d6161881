package nestconf

import (
	"strings"
	"unicode/utf8"
)

// lineLexer splits a single line (no trailing newline) into words,
// honoring quotes and escapes. It stops at bare brace tokens without
// consuming them; brace placement rules are the scanner's concern. The
// 1-based source line number is carried for error positions.
type lineLexer struct {
	src  string
	i    int
	line int
}

// words scans words from the cursor up to the next brace token or end of
// line and reports which brace follows (0 when the line is exhausted).
// The brace itself is not consumed.
func (l *lineLexer) words() ([]string, byte, error) {
	var out []string
	for {
		l.skipSpace()
		if l.i >= len(l.src) {
			return out, 0, nil
		}
		if c := l.src[l.i]; c == '{' || c == '}' {
			return out, c, nil
		}
		w, err := l.word()
		if err != nil {
			return nil, 0, err
		}
		out = append(out, w)
	}
}

// consumeBrace advances past the brace token words stopped at.
func (l *lineLexer) consumeBrace() {
	l.i++
}

func (l *lineLexer) skipSpace() {
	for l.i < len(l.src) && (l.src[l.i] == ' ' || l.src[l.i] == '\t') {
		l.i++
	}
}

// word consumes one word starting at the cursor. Quoted segments may open
// anywhere inside a word and concatenate with its unquoted parts.
func (l *lineLexer) word() (string, error) {
	var b strings.Builder
	for l.i < len(l.src) {
		switch c := l.src[l.i]; c {
		case ' ', '\t', '{', '}':
			return b.String(), nil
		case '\'', '"':
			if err := l.quoted(&b, c); err != nil {
				return "", err
			}
		case '\\':
			l.i++
			if l.i >= len(l.src) {
				return "", errAt(l.line, l.i, "unfinished escape at end of line")
			}
			r, size := utf8.DecodeRuneInString(l.src[l.i:])
			b.WriteRune(r)
			l.i += size
		default:
			r, size := utf8.DecodeRuneInString(l.src[l.i:])
			b.WriteRune(r)
			l.i += size
		}
	}
	return b.String(), nil
}

// quoted consumes a quoted segment, opening quote included. Inside '...'
// a backslash is literal; inside "..." it inserts the following character
// literally.
func (l *lineLexer) quoted(b *strings.Builder, q byte) error {
	start := l.i
	l.i++
	for l.i < len(l.src) {
		c := l.src[l.i]
		if c == q {
			l.i++
			return nil
		}
		if c == '\\' && q == '"' {
			l.i++
			if l.i >= len(l.src) {
				return errAt(l.line, l.i, "unfinished escape at end of line")
			}
			r, size := utf8.DecodeRuneInString(l.src[l.i:])
			b.WriteRune(r)
			l.i += size
			continue
		}
		r, size := utf8.DecodeRuneInString(l.src[l.i:])
		b.WriteRune(r)
		l.i += size
	}
	return errAt(l.line, start+1, "unterminated quote")
}
