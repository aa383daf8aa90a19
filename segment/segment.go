package segment

import "unicode"

// Segment bits.
const (
	A  byte = 1 << iota
	B       // top right
	C       // bottom right
	D       // bottom
	E       // bottom left
	F       // top left
	G       // middle
	DP      // decimal point
)

// Blank lights nothing.
const Blank byte = 0x00

// Digits are the patterns for 0 through 9.
var Digits = [10]byte{0x3f, 0x06, 0x5b, 0x4f, 0x66, 0x6d, 0x7d, 0x07, 0x7f, 0x6f}

var glyphs = map[rune]byte{
	'a': 0x77, 'b': 0x7c, 'c': 0x39, 'd': 0x5e,
	'e': 0x79, 'f': 0x71, 'g': 0x3d, 'h': 0x76,
	'i': 0x06, 'j': 0x1e, 'l': 0x38, 'n': 0x54,
	'o': 0x5c, 'p': 0x73, 'q': 0x67, 'r': 0x50,
	's': 0x6d, 't': 0x78, 'u': 0x3e, 'y': 0x6e,
	' ': Blank,
	'-': G,
	'_': D,
	'=': G | D,
	'°': A | B | F | G,
}

// Rune returns the pattern for r. Letters are case insensitive; the second
// return value is false if r can't be shown.
func Rune(r rune) (byte, bool) {
	if r >= '0' && r <= '9' {
		return Digits[r-'0'], true
	}
	b, ok := glyphs[unicode.ToLower(r)]
	return b, ok
}

// Encode converts s to one pattern per digit. A '.' sets the decimal point
// of the preceding digit, or takes a digit of its own when there is none (or
// the previous one already has its point lit). Runes that can't be shown are
// left blank.
func Encode(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r == '.' {
			if n := len(out); n > 0 && out[n-1]&DP == 0 {
				out[n-1] |= DP
			} else {
				out = append(out, DP)
			}
			continue
		}
		b, _ := Rune(r)
		out = append(out, b)
	}
	return out
}
