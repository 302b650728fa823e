// Package phone normalizes Brazilian phone numbers into the canonical
// "+55 DD DDDDD-DDDD" display form used across client records and access
// requests.
package phone

import (
	"fmt"
	"strings"
	"unicode"
)

const countryCode = "55"

// ErrInvalidLength signals a number outside the accepted 10-11 digit range
// (area code + subscriber number, country code excluded).
var ErrInvalidLength = fmt.Errorf("telefone must have 10 or 11 digits")

// Normalize strips formatting, prefixes the country code exactly once and
// renders the canonical display form. Input that already carries the 55
// prefix is not double-prefixed.
func Normalize(raw string) (string, error) {
	digits := onlyDigits(raw)
	if !strings.HasPrefix(digits, countryCode) {
		digits = countryCode + digits
	}
	if len(digits) > 13 {
		digits = digits[:13]
	}

	national := digits[len(countryCode):]
	if len(national) < 10 || len(national) > 11 {
		return "", ErrInvalidLength
	}

	// 10-digit numbers (no ninth digit) keep a shorter first block.
	area := national[:2]
	subscriber := national[2:]
	split := len(subscriber) - 4
	return fmt.Sprintf("+%s %s %s-%s", countryCode, area, subscriber[:split], subscriber[split:]), nil
}

func onlyDigits(value string) string {
	var b strings.Builder
	for _, r := range value {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
