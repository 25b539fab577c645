package core

// RandomSource produces the unpredictable parts of reference numbers,
// account numbers, card numbers, CVVs and simulated chain hashes
type RandomSource interface {
	// Digits returns n random decimal digits
	Digits(n int) (string, error)
	// Hex returns n random bytes hex encoded
	Hex(n int) (string, error)
}
