package derive

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poolScope/internal/model"
)

func TestGetParsedBank(t *testing.T) {
	bank := model.BankRecord{
		BankID:           "0xb1",
		CoinType:         coinUSDC,
		DerivativeType:   ftUSDC,
		Available:        dec("250000000"),
		TotalFunds:       dec("1000000000"),
		DerivativeSupply: dec("800000000"),
	}

	parsed, err := GetParsedBank(BankInputs{
		Bank:       bank,
		Decimals:   6,
		BaseYields: NewCoinValues(map[string]decimal.Decimal{"0xDBA3::usdc::USDC": dec("8.5")}),
	})
	require.NoError(t, err)

	assertDecimal(t, "250", parsed.FundsAvailable)
	assertDecimal(t, "750", parsed.FundsDeployed)
	assertDecimal(t, "1000", parsed.TotalFunds)
	assertDecimal(t, "800", parsed.DerivativeSupply)
	assertDecimal(t, "1.25", parsed.ExchangeRate)
	assertDecimal(t, "75", parsed.UtilizationPercent)
	assertDecimal(t, "8.5", parsed.YieldPercent)
	assert.Equal(t, bank.DerivativeType, parsed.DerivativeType)
}

func TestGetParsedBankFundsIdentity(t *testing.T) {
	cases := [][3]string{
		{"0", "0", "0"},
		{"1", "1", "1"},
		{"18446744073709551615", "18446744073709551615", "18446744073709551615"},
		{"123456789012345678", "999999999999999999", "777777777777777777"},
		{"3", "10", "7"},
	}

	for _, tc := range cases {
		parsed, err := GetParsedBank(BankInputs{
			Bank: model.BankRecord{
				Available:        dec(tc[0]),
				TotalFunds:       dec(tc[1]),
				DerivativeSupply: dec(tc[2]),
			},
			Decimals: 18,
		})
		require.NoError(t, err)

		sum := parsed.FundsAvailable.Add(parsed.FundsDeployed)
		assert.True(t, sum.Equal(parsed.TotalFunds), "available+deployed=%s total=%s", sum, parsed.TotalFunds)
		assert.True(t, parsed.UtilizationPercent.GreaterThanOrEqual(decimal.Zero))
		assert.True(t, parsed.UtilizationPercent.LessThanOrEqual(hundred))
	}
}

func TestGetParsedBankZeroTotal(t *testing.T) {
	parsed, err := GetParsedBank(BankInputs{
		Bank: model.BankRecord{
			Available:        decimal.Zero,
			TotalFunds:       decimal.Zero,
			DerivativeSupply: dec("5000"),
		},
		Decimals: 3,
	})
	require.NoError(t, err)
	assert.True(t, parsed.UtilizationPercent.IsZero())
	assert.True(t, parsed.FundsDeployed.IsZero())
	assert.True(t, parsed.ExchangeRate.IsZero())
}

func TestGetParsedBankEmpty(t *testing.T) {
	parsed, err := GetParsedBank(BankInputs{Bank: model.BankRecord{BankID: "0xb2"}, Decimals: 9})
	require.NoError(t, err)
	assertDecimal(t, "1", parsed.ExchangeRate)
	assert.True(t, parsed.UtilizationPercent.IsZero())
	assert.True(t, parsed.YieldPercent.IsZero(), "absent base yield defaults to zero")
}

func TestGetParsedBankZeroSupply(t *testing.T) {
	_, err := GetParsedBank(BankInputs{
		Bank: model.BankRecord{
			BankID:     "0xb3",
			Available:  dec("10"),
			TotalFunds: dec("10"),
		},
	})
	assert.ErrorIs(t, err, ErrZeroDerivativeSupply)
}

func TestGetParsedBankAvailableExceedsTotal(t *testing.T) {
	_, err := GetParsedBank(BankInputs{
		Bank: model.BankRecord{
			BankID:           "0xb4",
			Available:        dec("11"),
			TotalFunds:       dec("10"),
			DerivativeSupply: dec("10"),
		},
	})
	assert.ErrorIs(t, err, ErrInconsistentBankFunds)
}

func TestGetParsedBankFullyAvailable(t *testing.T) {
	parsed, err := GetParsedBank(BankInputs{
		Bank: model.BankRecord{
			BankID:           "0xb5",
			Available:        dec("10"),
			TotalFunds:       dec("10"),
			DerivativeSupply: dec("10"),
		},
	})
	require.NoError(t, err)
	assert.True(t, parsed.FundsDeployed.IsZero())
	assert.True(t, parsed.UtilizationPercent.IsZero())
}
