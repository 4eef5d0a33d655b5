package utils

import "strings"

// NormalizeEmail trims whitespace and lowercases so uniqueness is
// case-insensitive ("A@b.com" and "a@b.com" collide).
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
