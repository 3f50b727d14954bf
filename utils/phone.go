package utils

import "regexp"

// E.164: leading +, 7 to 15 digits, no leading zero.
var e164Pattern = regexp.MustCompile(`^\+[1-9]\d{6,14}$`)

// ValidPhone reports whether s is a well-formed E.164 phone number.
func ValidPhone(s string) bool {
	return e164Pattern.MatchString(s)
}
