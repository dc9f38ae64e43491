package application

import (
	"regexp"
	"strings"
)

// Username and password format policy. Both checks are total: a malformed or
// empty candidate simply does not match.
var (
	// Only ASCII letters, minimum one character.
	usernameRe = regexp.MustCompile(`^[A-Za-z]+$`)
	// Letters, digits and the allowed symbol set, minimum six characters.
	// Go's regexp has no lookahead, so the "at least one symbol" half of the
	// policy is a separate ContainsAny check.
	passwordAlphabetRe = regexp.MustCompile(`^[A-Za-z0-9!@#$^&*]{6,}$`)
)

const passwordSymbols = "!@#$^&*"

// ValidateUsername reports whether candidate is an acceptable username:
// non-empty and composed exclusively of ASCII letters.
func ValidateUsername(candidate string) bool {
	return usernameRe.MatchString(candidate)
}

// ValidatePassword reports whether candidate is an acceptable password: at
// least six characters from the restricted alphabet, including at least one
// of ! @ # $ ^ & *.
func ValidatePassword(candidate string) bool {
	return passwordAlphabetRe.MatchString(candidate) && strings.ContainsAny(candidate, passwordSymbols)
}
