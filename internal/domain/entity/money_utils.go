package entity

import (
	"fmt"
	"strings"

	errs "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits kept for every monetary amount
const MoneyScale = 8

// TokenScale is the number of fractional digits kept for on-chain token balances
const TokenScale = 18

// Currency is an ISO or crypto currency code
type Currency string

const (
	CurrencyUSD  Currency = "USD"
	CurrencyEUR  Currency = "EUR"
	CurrencyGBP  Currency = "GBP"
	CurrencyETH  Currency = "ETH"
	CurrencyBTC  Currency = "BTC"
	CurrencyUSDC Currency = "USDC"
	CurrencyUSDT Currency = "USDT"
	CurrencyDAI  Currency = "DAI"
)

var supportedCurrencies = map[Currency]bool{
	CurrencyUSD: true, CurrencyEUR: true, CurrencyGBP: true, CurrencyETH: true,
	CurrencyBTC: true, CurrencyUSDC: true, CurrencyUSDT: true, CurrencyDAI: true,
}

// IsValid reports whether the currency is supported
func (c Currency) IsValid() bool {
	return supportedCurrencies[c]
}

// ParseCurrency normalizes and validates a currency code
func ParseCurrency(code string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	if !c.IsValid() {
		return "", errs.NewValidationError("currency", fmt.Sprintf("unsupported currency %q", code))
	}
	return c, nil
}

// ParseAmount parses a decimal string and rejects values that are not
// strictly positive or carry more than MoneyScale fractional digits
func ParseAmount(amount string) (decimal.Decimal, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return decimal.Zero, fmt.Errorf("%w: empty value", errs.ErrInvalidAmount)
	}

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s", errs.ErrInvalidAmount, err.Error())
	}
	if err := ValidatePositive(d); err != nil {
		return decimal.Zero, err
	}
	if -d.Exponent() > MoneyScale {
		return decimal.Zero, fmt.Errorf("%w: maximum %d decimal places allowed", errs.ErrInvalidAmount, MoneyScale)
	}

	return d, nil
}

// ParseOptionalAmount parses an amount that may be absent
func ParseOptionalAmount(amount string) (*decimal.Decimal, error) {
	if strings.TrimSpace(amount) == "" {
		return nil, nil
	}
	d, err := ParseAmount(amount)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ValidatePositive rejects zero and negative amounts
func ValidatePositive(d decimal.Decimal) error {
	if !d.IsPositive() {
		return fmt.Errorf("%w: got %s", errs.ErrInvalidAmount, d.String())
	}
	return nil
}

// RoundMoney rounds half-even to MoneyScale digits
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(MoneyScale)
}

// FormatMoney renders an amount with exactly MoneyScale digits, e.g. "100.00000000"
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(MoneyScale)
}

// FormatOptionalMoney renders a nullable amount, empty when absent
func FormatOptionalMoney(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return FormatMoney(*d)
}
