package derive

import (
	"fmt"

	"github.com/shopspring/decimal"

	"poolScope/internal/model"
)

// BankInputs are the values needed to derive a ParsedBank.
type BankInputs struct {
	Bank       model.BankRecord
	Decimals   uint8
	BaseYields CoinValues
}

// GetParsedBank converts raw bank balances into funds, exchange rate,
// utilization and yield.
func GetParsedBank(in BankInputs) (model.ParsedBank, error) {
	bank := in.Bank
	fundsAvailable := ScaleByDecimals(bank.Available, in.Decimals)
	totalFunds := ScaleByDecimals(bank.TotalFunds, in.Decimals)
	if fundsAvailable.GreaterThan(totalFunds) {
		return model.ParsedBank{}, fmt.Errorf("%w: bank %s available %s > total %s",
			ErrInconsistentBankFunds, bank.BankID, bank.Available, bank.TotalFunds)
	}
	fundsDeployed := totalFunds.Sub(fundsAvailable)
	supply := ScaleByDecimals(bank.DerivativeSupply, in.Decimals)

	var exchangeRate decimal.Decimal
	switch {
	case !supply.IsZero():
		exchangeRate = quo(totalFunds, supply)
	case totalFunds.IsZero():
		// Empty bank: nothing minted, nothing held.
		exchangeRate = decimal.NewFromInt(1)
	default:
		return model.ParsedBank{}, fmt.Errorf("%w: bank %s", ErrZeroDerivativeSupply, bank.BankID)
	}

	yield, _ := in.BaseYields.Get(bank.CoinType)

	return model.ParsedBank{
		BankID:             bank.BankID,
		Version:            bank.Version,
		CoinType:           bank.CoinType,
		DerivativeType:     bank.DerivativeType,
		FundsAvailable:     fundsAvailable,
		FundsDeployed:      fundsDeployed,
		TotalFunds:         totalFunds,
		DerivativeSupply:   supply,
		ExchangeRate:       exchangeRate,
		UtilizationPercent: percentOf(fundsDeployed, totalFunds),
		YieldPercent:       yield,
	}, nil
}
