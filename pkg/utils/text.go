// Package utils provides shared helpers for text output and logging.
package utils

// Truncate returns s cut to maxLen characters, with "..." appended if truncated.
// Lengths count runes, so multi-byte text is never split mid-character.
// If maxLen is 0 or negative, returns s unchanged.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}

// Head returns the first n elements of s, or all of s when n is not positive or
// exceeds its length.
func Head[T any](s []T, n int) []T {
	if n <= 0 || n >= len(s) {
		return s
	}
	return s[:n]
}
