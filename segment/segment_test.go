package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDigits(t *testing.T) {
	want := []byte{
		A | B | C | D | E | F,
		B | C,
		A | B | D | E | G,
		A | B | C | D | G,
		B | C | F | G,
		A | C | D | F | G,
		A | C | D | E | F | G,
		A | B | C,
		A | B | C | D | E | F | G,
		A | B | C | D | F | G,
	}
	for i, w := range want {
		assert.Equalf(t, w, Digits[i], "digit %d", i)
	}
}

func TestRune(t *testing.T) {
	tests := []struct {
		name string
		r    rune
		want byte
		ok   bool
	}{
		{"digit", '7', 0x07, true},
		{"lower", 'a', 0x77, true},
		{"upper", 'A', 0x77, true},
		{"minus", '-', G, true},
		{"space", ' ', Blank, true},
		{"unknown", 'k', Blank, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Rune(tt.r)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []byte
	}{
		{"empty", "", []byte{}},
		{"digits", "123", []byte{0x06, 0x5b, 0x4f}},
		{"decimal", "1.5", []byte{0x06 | DP, 0x6d}},
		{"leading dot", ".5", []byte{DP, 0x6d}},
		{"double dot", "1..", []byte{0x06 | DP, DP}},
		{"unknown blank", "1k", []byte{0x06, Blank}},
		{"word", "HELP", []byte{0x76, 0x79, 0x38, 0x73}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Encode(tt.in))
		})
	}
}
