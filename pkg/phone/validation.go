package phone

import (
	"regexp"
	"strings"
)

var (
	// E.164 phone number format regex provided by Twilio: https://www.twilio.com/docs/glossary/what-e164#regex-matching-for-e164
	e164Pattern = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)

	// Loosely formatted phone numbers as customers typically enter them at
	// checkout, with optional country code, spaces, dashes and parentheses
	loosePattern = regexp.MustCompile(`^\+?[0-9()\-\s]{7,20}$`)

	separators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
)

// IsE164Format returns whether a string is a E.164 formatted phone number.
func IsE164Format(phoneNumber string) bool {
	return e164Pattern.MatchString(phoneNumber)
}

// IsValidNumber returns whether a string is plausibly a customer phone number.
func IsValidNumber(phoneNumber string) bool {
	return loosePattern.MatchString(strings.TrimSpace(phoneNumber))
}

// Sanitize normalizes a customer-entered phone number by trimming whitespace
// and stripping formatting separators, so equivalent inputs map to the same
// rate limiting and block records.
func Sanitize(phoneNumber string) string {
	return separators.Replace(strings.TrimSpace(phoneNumber))
}
