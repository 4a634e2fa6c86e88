package textmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"lower cases", "Hello World", "hello world"},
		{"strips diacritics", "não é fácil", "nao e facil"},
		{"strips punctuation", `"Hello, world!" - he said...`, "hello world he said"},
		{"collapses whitespace", "  a \t b\n\nc  ", "a b c"},
		{"question marks and colons", "Olá: tudo bem?", "ola tudo bem"},
		{"keeps digits", "I have 3 cats", "i have 3 cats"},
		{"only punctuation", `?!.,;:()-"'`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"Eu vou ao mercado.",
		"NÃO SEI!",
		"  spaced   out  ",
		"L'été, c'est ça - (vraiment)",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "normalize should be idempotent for %q", in)
	}
}
