package entity

import (
	"fmt"
	"regexp"
	"time"

	coreport "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
)

// ReferencePrefix starts every transaction reference number
const ReferencePrefix = "TXN"

var referencePattern = regexp.MustCompile(`^TXN\d{8}\d{8}$`)

// GenerateReferenceNumber returns TXN<YYYYMMDD><8 random digits> for the UTC date of now
func GenerateReferenceNumber(now time.Time, rnd coreport.RandomSource) (string, error) {
	digits, err := rnd.Digits(8)
	if err != nil {
		return "", fmt.Errorf("generate reference number: %w", err)
	}
	return ReferencePrefix + now.UTC().Format("20060102") + digits, nil
}

// IsReferenceNumber reports whether s has the reference number shape
func IsReferenceNumber(s string) bool {
	return referencePattern.MatchString(s)
}
