package nestconf

import (
	"bytes"
	"strings"
)

// Format renders a directive tree in canonical form: every name and
// parameter double-quoted with '\\' and '"' escaped, 4-space indentation
// per nesting level, comments stripped (the tree never holds them), one
// directive per line. Canonical output parses back to an identical tree,
// and formatting canonical text is idempotent.
func Format(b Block) []byte {
	var buf bytes.Buffer
	writeBlock(&buf, b, 0)
	return buf.Bytes()
}

func writeBlock(buf *bytes.Buffer, b Block, depth int) {
	indent := strings.Repeat("    ", depth)
	for _, d := range b {
		buf.WriteString(indent)
		writeQuoted(buf, d.Name)
		for _, p := range d.Params {
			buf.WriteByte(' ')
			writeQuoted(buf, p)
		}
		if d.HasBlock {
			buf.WriteString(" {\n")
			writeBlock(buf, d.Children, depth+1)
			buf.WriteString(indent)
			buf.WriteString("}\n")
		} else {
			buf.WriteByte('\n')
		}
	}
}

func writeQuoted(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' || c == '\\' {
			buf.WriteByte('\\')
		}
		buf.WriteByte(c)
	}
	buf.WriteByte('"')
}
