package payload

import "strings"

const upperhex = "0123456789ABCDEF"

// escapeComponent percent-encodes s the way ECMAScript encodeURIComponent does.
func escapeComponent(s string) string {
	var sb strings.Builder

	sb.Grow(len(s))

	for i := range len(s) {
		c := s[i]
		if isUnreserved(c) {
			sb.WriteByte(c)

			continue
		}

		sb.WriteByte('%')
		sb.WriteByte(upperhex[c>>4])
		sb.WriteByte(upperhex[c&0x0f])
	}

	return sb.String()
}

// EscapeComponent is exported for link builders that must match browser-generated links.
func EscapeComponent(s string) string {
	return escapeComponent(s)
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}

	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}

	return false
}
