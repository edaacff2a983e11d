package booking

import "strings"

// NormalizePhone reduces a user-entered phone number to transmit-ready digits:
// every non-digit character is stripped, then one leading zero (local format).
// No length or country-code validation happens here; the upstream rejects
// numbers it cannot charge.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) > 1 && digits[0] == '0' {
		digits = digits[1:]
	}
	return digits
}
