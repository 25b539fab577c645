package entity

import (
	"fmt"
	"strings"

	coreport "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
)

// CardBIN is the issuer prefix of every card number we generate
const CardBIN = "4532"

const cardNumberLength = 16

// LuhnCheckDigit returns the digit that makes payload+digit pass the Luhn check.
// payload must contain only ASCII digits.
func LuhnCheckDigit(payload string) byte {
	sum := 0
	// The check digit will sit to the right, so the rightmost payload digit is doubled
	double := true
	for i := len(payload) - 1; i >= 0; i-- {
		d := int(payload[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return byte('0' + (10-sum%10)%10)
}

// LuhnValid reports whether number passes the Luhn checksum. Spaces are ignored.
func LuhnValid(number string) bool {
	digits := strings.ReplaceAll(number, " ", "")
	if len(digits) < 2 {
		return false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return false
		}
	}
	return LuhnCheckDigit(digits[:len(digits)-1]) == digits[len(digits)-1]
}

// GenerateCardNumber draws a BIN-prefixed Luhn valid card number in grouped form
func GenerateCardNumber(rnd coreport.RandomSource) (string, error) {
	body, err := rnd.Digits(cardNumberLength - len(CardBIN) - 1)
	if err != nil {
		return "", fmt.Errorf("failed to generate card number: %w", err)
	}
	payload := CardBIN + body
	return FormatCardNumber(payload + string(LuhnCheckDigit(payload))), nil
}

// GenerateCVV draws a three digit card verification value
func GenerateCVV(rnd coreport.RandomSource) (string, error) {
	cvv, err := rnd.Digits(3)
	if err != nil {
		return "", fmt.Errorf("failed to generate cvv: %w", err)
	}
	return cvv, nil
}

// FormatCardNumber groups the digits of a card number in fours
func FormatCardNumber(number string) string {
	digits := strings.ReplaceAll(number, " ", "")
	var b strings.Builder
	for i := 0; i < len(digits); i++ {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(digits[i])
	}
	return b.String()
}

// MaskCardNumber hides everything but the last four digits
func MaskCardNumber(number string) string {
	digits := strings.ReplaceAll(number, " ", "")
	if len(digits) < 4 {
		return "••••"
	}
	return "•••• •••• •••• " + digits[len(digits)-4:]
}
