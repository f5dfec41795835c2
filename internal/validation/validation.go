package validation

import (
	"regexp"
	"strings"
)

var (
	letterRegex  = regexp.MustCompile(`[A-Za-z]`)
	digitRegex   = regexp.MustCompile(`\d`)
	specialRegex = regexp.MustCompile(`[@$!%*#?&]`)
	emailRegex   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// ValidatePassword enforces the signup policy: at least 8 characters
// with a letter, a digit, and one of @$!%*#?&.
func ValidatePassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	return letterRegex.MatchString(password) &&
		digitRegex.MatchString(password) &&
		specialRegex.MatchString(password)
}

func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidateTaskTitle reports whether the title is non-empty after
// trimming, returning the trimmed value.
func ValidateTaskTitle(title string) (string, bool) {
	trimmed := strings.TrimSpace(title)
	return trimmed, trimmed != ""
}
