package random

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

var ten = big.NewInt(10)

// CryptoSource draws from crypto/rand. Card numbers and CVVs come from here,
// so a predictable generator is not acceptable.
type CryptoSource struct{}

func NewCryptoSource() CryptoSource { return CryptoSource{} }

// Digits returns n uniformly distributed decimal digits
func (CryptoSource) Digits(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("digit count must be positive, got %d", n)
	}
	out := make([]byte, n)
	for i := range out {
		d, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("read random digit: %w", err)
		}
		out[i] = byte('0' + d.Int64())
	}
	return string(out), nil
}

// Hex returns n random bytes, hex encoded
func (CryptoSource) Hex(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("byte count must be positive, got %d", n)
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
