package derive

import (
	"fmt"

	"github.com/shopspring/decimal"

	"poolScope/internal/model"
)

// Settings are the deployment-specific values the pool derivation needs.
type Settings struct {
	Quoters          QuoterTypes
	PlaceholderPrice decimal.Decimal
}

// PoolInputs are the values needed to derive a ParsedPool.
type PoolInputs struct {
	Pool           model.PoolRecord
	Banks          BankLookup
	Assets         AssetLookup
	Oracles        OraclePrices
	PriceEstimates CoinValues
	Settings       Settings
}

// GetParsedPool derives normalized pool metrics. It returns nil without error
// when either side's bank is not in the lookup yet.
func GetParsedPool(in PoolInputs) (*model.ParsedPool, error) {
	pool := in.Pool

	bank0, ok0 := in.Banks.Get(pool.Side0)
	bank1, ok1 := in.Banks.Get(pool.Side1)
	if !ok0 || !ok1 {
		return nil, nil
	}

	decimals0, err := sideDecimals(in.Assets, bank0.CoinType, pool.Quoter.Decimals0)
	if err != nil {
		return nil, err
	}
	decimals1, err := sideDecimals(in.Assets, bank1.CoinType, pool.Quoter.Decimals1)
	if err != nil {
		return nil, err
	}

	balance0, balance1 := decimal.Zero, decimal.Zero
	if pool.RedeemQuote != nil {
		balance0 = ScaleByDecimals(pool.RedeemQuote.Amount0, decimals0)
		balance1 = ScaleByDecimals(pool.RedeemQuote.Amount1, decimals1)
	}

	quoter, err := ClassifyQuoter(pool.QuoterType, pool.Quoter, in.Settings.Quoters)
	if err != nil {
		return nil, fmt.Errorf("pool %s: %w", pool.PoolID, err)
	}

	priceIn := PriceInputs{
		Balance0:    balance0,
		Balance1:    balance1,
		Decimals1:   decimals1,
		Oracles:     in.Oracles,
		Placeholder: in.Settings.PlaceholderPrice,
	}
	if estimate, ok := in.PriceEstimates.Get(bank1.CoinType); ok {
		priceIn.Price1Estimate = &estimate
	}
	price0, price1, err := DerivePrices(quoter, priceIn)
	if err != nil {
		return nil, fmt.Errorf("pool %s: %w", pool.PoolID, err)
	}

	value0 := balance0.Mul(price0)
	value1 := balance1.Mul(price1)
	tvl := value0.Add(value1)

	feeTier := pool.SwapFeeBps.Shift(-2)
	protocolFee := decimal.Zero
	if !pool.ProtocolFeeDenominator.IsZero() {
		protocolFee = quo(pool.ProtocolFeeNumerator, pool.ProtocolFeeDenominator).
			Mul(feeTier.Shift(-2)).
			Mul(hundred)
	}

	yield0, yield1, blended := decimal.Zero, decimal.Zero, decimal.Zero
	if !tvl.IsZero() {
		yield0 = bankYield(bank0)
		yield1 = bankYield(bank1)
		blended = quo(value0.Mul(yield0).Add(value1.Mul(yield1)), tvl)
	}

	return &model.ParsedPool{
		PoolID:              pool.PoolID,
		Version:             pool.Version,
		Variant:             quoter.Kind(),
		CoinType0:           bank0.CoinType,
		CoinType1:           bank1.CoinType,
		Balance0:            balance0,
		Balance1:            balance1,
		Price0:              price0,
		Price1:              price1,
		TVL:                 tvl,
		FeeTierPercent:      feeTier,
		ProtocolFeePercent:  protocolFee,
		Yield0Percent:       yield0,
		Yield1Percent:       yield1,
		BlendedYieldPercent: blended,
		LPSupply:            ScaleByDecimals(pool.LPSupply, LPTokenDecimals),
		LPMinted:            scaleOptional(pool.LPMinted, LPTokenDecimals),
		LPBurned:            scaleOptional(pool.LPBurned, LPTokenDecimals),
	}, nil
}

// bankYield scales a bank's base yield by how much of its funds are deployed.
func bankYield(bank model.ParsedBank) decimal.Decimal {
	return bank.YieldPercent.Mul(bank.UtilizationPercent).Shift(-2)
}

func sideDecimals(assets AssetLookup, coinType string, recorded *uint8) (uint8, error) {
	if asset, ok := assets.Get(coinType); ok {
		return asset.Decimals, nil
	}
	if recorded != nil {
		return *recorded, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrMissingDecimals, coinType)
}

func scaleOptional(raw *decimal.Decimal, decimals uint8) *decimal.Decimal {
	if raw == nil {
		return nil
	}
	scaled := ScaleByDecimals(*raw, decimals)
	return &scaled
}
