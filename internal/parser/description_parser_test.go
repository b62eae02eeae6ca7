package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDescription(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"single line", "VPN down", "VPN down"},
		{"three lines", "line1\nline2\nline3", "line1 line2 line3"},
		{"windows newlines", "a\r\nb\rc", "a b c"},
		{"blank lines dropped", "\n  first  \n\n\t\nsecond\n", "first second"},
		{"empty", "", ""},
		{"only whitespace", " \n \n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDescription(tt.input)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "\n")
		})
	}
}
