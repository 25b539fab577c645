package entity

import (
	"testing"

	errs "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{"Integer", "100", "100.00000000", false},
		{"Two decimals", "10.25", "10.25000000", false},
		{"Eight decimals", "0.00000001", "0.00000001", false},
		{"Whitespace", "  5.5 ", "5.50000000", false},
		{"Nine decimals", "0.000000001", "", true},
		{"Zero", "0", "", true},
		{"Negative", "-1.00", "", true},
		{"Empty", "", "", true},
		{"Garbage", "ten", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseAmount(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, errs.ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, FormatMoney(got))
		})
	}
}

func TestParseOptionalAmount(t *testing.T) {
	got, err := ParseOptionalAmount("")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseOptionalAmount("12.5")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "12.50000000", FormatOptionalMoney(got))

	_, err = ParseOptionalAmount("-3")
	assert.ErrorIs(t, err, errs.ErrInvalidAmount)
}

func TestParseCurrency(t *testing.T) {
	c, err := ParseCurrency(" usd ")
	require.NoError(t, err)
	assert.Equal(t, CurrencyUSD, c)

	_, err = ParseCurrency("XYZ")
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestRoundMoney(t *testing.T) {
	d := decimal.RequireFromString("1.123456785")
	assert.Equal(t, "1.12345678", FormatMoney(RoundMoney(d)))
}
