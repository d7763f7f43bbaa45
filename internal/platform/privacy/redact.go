// Package privacy provides utilities for keeping personally identifiable
// information out of logs and audit events.
package privacy

import "strings"

// MaskDocumentNumber hides the middle of a document number, keeping enough of
// both ends to correlate audit entries with a record without exposing the full
// number (e.g. "X1234567" -> "X12***67").
//
// Numbers of five characters or fewer are fully masked: with so little
// material, any visible part identifies the document.
func MaskDocumentNumber(number string) string {
	n := len(number)
	if n == 0 {
		return ""
	}
	if n <= 5 {
		return strings.Repeat("*", n)
	}
	return number[:3] + strings.Repeat("*", n-5) + number[n-2:]
}

// MaskName reduces a holder name to initials ("Maria da Silva" -> "M. d. S.")
// for log lines that need to distinguish holders without recording names.
func MaskName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, string([]rune(f)[0])+".")
	}
	return strings.Join(parts, " ")
}
