package utils

import (
	"strings"
	"unicode/utf8"
)

// CleanUTF8 strips invalid UTF-8 and NUL bytes and reports whether anything
// was removed.
func CleanUTF8(input string) (string, bool) {
	needsCleaning := strings.Contains(input, "\x00") || !utf8.ValidString(input)

	if !needsCleaning {
		return input, false
	}

	cleaned := strings.ToValidUTF8(input, "")
	cleaned = strings.ReplaceAll(cleaned, "\x00", "")

	return cleaned, true
}

// CleanText returns input with invalid bytes removed and surrounding space
// trimmed.
func CleanText(input string) string {
	cleaned, _ := CleanUTF8(input)
	return strings.TrimSpace(cleaned)
}

// CleanLines applies CleanText to every line and drops the empty ones.
func CleanLines(lines []string) []string {
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = CleanText(line); line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return cleaned
}
