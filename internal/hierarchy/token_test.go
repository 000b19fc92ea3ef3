package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToken(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "consonant preference", in: "Reporting", want: "RPRT"},
		{name: "first char kept even if vowel", in: "Export CSV", want: "EXPR"},
		{name: "short name passes through", in: "Pay", want: "PAY"},
		{name: "exactly token width", in: "Auth", want: "AUTH"},
		{name: "punctuation stripped", in: "e-mail (v2)", want: "EMLV"},
		{name: "digits kept", in: "S3 uploads", want: "S3PL"},
		{name: "vowels fill when consonants run out", in: "Aeiou", want: "AEIO"},
		{name: "whitespace only", in: "   ", want: "X"},
		{name: "empty", in: "", want: "X"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Token(tt.in))
		})
	}
}

func TestTokenDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		assert.Equal(t, Token("Customer Onboarding"), Token("Customer Onboarding"))
	}
}
