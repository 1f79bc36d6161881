package nestconf

import "bytes"

var (
	bom  = []byte{0xEF, 0xBB, 0xBF}
	crlf = []byte("\r\n")
	cr   = []byte("\r")
	lf   = []byte("\n")
)

// Normalize prepares raw document bytes for scanning: it strips a leading
// UTF-8 BOM and rewrites CRLF and bare CR line endings to LF. The Parse
// entry points apply it already; callers feeding a Scanner directly can
// use it for the same behavior.
func Normalize(in []byte) []byte {
	in = bytes.TrimPrefix(in, bom)
	in = bytes.ReplaceAll(in, crlf, lf)
	return bytes.ReplaceAll(in, cr, lf)
}
