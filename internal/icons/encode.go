package icons

import "strings"

const upperhex = "0123456789ABCDEF"

// stripLineBreaks removes \r\n, \r and \n.
func stripLineBreaks(s string) string {
	return strings.NewReplacer("\r\n", "", "\r", "", "\n", "").Replace(s)
}

// EncodeSVG prepares raw SVG markup for a quoted
// `url('data:image/svg+xml;utf8,...')` value. Line breaks are dropped and
// every byte that is unsafe inside a quoted CSS url or a data URI is
// percent-encoded; everything else is kept verbatim so the output stays
// readable.
func EncodeSVG(raw []byte) string {
	s := stripLineBreaks(string(raw))

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if shouldEscape(c) {
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&15])
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func shouldEscape(c byte) bool {
	if c < 0x20 || c >= 0x7f {
		return true
	}
	switch c {
	case '%', '#', '<', '>', '"', '\'', '{', '}', '|', '\\', '^', '`', '(', ')':
		return true
	}
	return false
}
