package wc

import (
	"unicode"
	"unicode/utf8"
)

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_'
}

// ScanWords is a bufio.SplitFunc implementing grep's definition of a
// word: a maximal run of letters, digits, and underscores.
func ScanWords(data []byte, atEOF bool) (advance int, token []byte, err error) {
	// Skip leading non-word runes
	start := 0
	for width := 0; start < len(data); start += width {
		var r rune
		r, width = utf8.DecodeRune(data[start:])
		if isWordRune(r) {
			break
		}
	}
	// Scan until non-word rune
	for width, i := 0, start; i < len(data); i += width {
		var r rune
		r, width = utf8.DecodeRune(data[i:])
		if !isWordRune(r) {
			return i + width, data[start:i], nil
		}
	}
	// If we're at EOF, we have a final, non-empty, non-terminated
	// word. Return it.
	if atEOF && len(data) > start {
		return len(data), data[start:], nil
	}
	// Request more data.
	return start, nil, nil
}
