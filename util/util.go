// Package util holds the ASCII byte classes used when scanning jack source.
package util

func IsNumber(b byte) bool {
	return b >= '0' && b <= '9'
}

func IsUnderScore(b byte) bool {
	return b == '_'
}

func IsLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func IsLetterOrUnderscore(b byte) bool {
	return IsLetter(b) || IsUnderScore(b)
}

func IsLetterOrUnderscoreOrNumber(b byte) bool {
	return IsLetter(b) || IsUnderScore(b) || IsNumber(b)
}

// IsBlank reports whether b is one of the four separators skipped between tokens.
// Other unicode spaces are not blanks in jack.
func IsBlank(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// IsSimpleSymbol reports whether b is a one character symbol that never starts
// anything longer. '/' is excluded since it may open a comment.
func IsSimpleSymbol(b byte) bool {
	switch b {
	case '{', '}', '(', ')', '[', ']', '.', ',', ';', '+', '-', '*', '&', '|', '<', '>', '=', '~':
		return true
	}
	return false
}
