package hierarchy

import "strings"

// tokenWidth is the fixed width of name-derived tokens. Cosmetic only:
// uniqueness of a hierarchy ID comes from its sequence number.
const tokenWidth = 4

// Token converts a display name into a short uppercase token: strip
// non-alphanumerics, keep the first character, then prefer consonants.
// "Reporting" -> "RPRT", "Export CSV" -> "EXPR".
func Token(name string) string {
	var letters []rune
	for _, r := range strings.ToUpper(name) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			letters = append(letters, r)
		}
	}
	if len(letters) == 0 {
		return "X"
	}
	if len(letters) <= tokenWidth {
		return string(letters)
	}

	out := []rune{letters[0]}
	for _, r := range letters[1:] {
		if !isVowel(r) {
			out = append(out, r)
			if len(out) == tokenWidth {
				return string(out)
			}
		}
	}
	for _, r := range letters[1:] {
		if isVowel(r) {
			out = append(out, r)
			if len(out) == tokenWidth {
				return string(out)
			}
		}
	}
	return string(out)
}

func isVowel(r rune) bool {
	switch r {
	case 'A', 'E', 'I', 'O', 'U':
		return true
	}
	return false
}
