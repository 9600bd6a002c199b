package utils

import (
	"strings"
	"unicode/utf8"
)

// CleanUTF8 strips NUL bytes and invalid UTF-8 so the text can be stored in a
// Postgres json column. The bool reports whether anything was removed.
func CleanUTF8(input string) (string, bool) {
	if !strings.Contains(input, "\x00") && utf8.ValidString(input) {
		return input, false
	}

	cleaned := strings.ReplaceAll(strings.ToValidUTF8(input, ""), "\x00", "")
	return cleaned, true
}

// CollapseSpace joins the words of input with single spaces.
func CollapseSpace(input string) string {
	return strings.Join(strings.Fields(input), " ")
}

// TruncateUTF8 shortens input to at most maxBytes without splitting a rune.
func TruncateUTF8(input string, maxBytes int) string {
	if len(input) <= maxBytes {
		return input
	}

	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(input[cut]) {
		cut--
	}
	return input[:cut]
}

// StorableText prepares page text scraped from the archive for the ledger.
func StorableText(input string, maxBytes int) string {
	cleaned, _ := CleanUTF8(CollapseSpace(input))
	return TruncateUTF8(cleaned, maxBytes)
}
