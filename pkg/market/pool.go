package market

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/FomoFactory/fomo-relay/core/chainio/fomo"
)

// ToDecimal scales a raw token amount down by decimals
func ToDecimal(value *big.Int, decimals uint8) decimal.Decimal {
	if value == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(value, -int32(decimals))
}

// PriceTokenMarket prices a memecoin from its pool reserves. The pool is a memecoin/WETH pair in
// either order, so each side's price is picked by matching the relationship ids.
func PriceTokenMarket(network string, weth common.Address, state *fomo.PoolState, pool *GeckoPool) *TokenMarket {
	out := &TokenMarket{Address: state.Token, PoolAddress: state.Pool}
	if pool == nil || pool.Relationships.BaseToken.Data == nil || pool.Relationships.QuoteToken.Data == nil {
		return out
	}

	baseID := strings.ToLower(pool.Relationships.BaseToken.Data.ID)
	quoteID := strings.ToLower(pool.Relationships.QuoteToken.Data.ID)

	tokenPrice := pool.Attributes.QuoteTokenPriceUSD
	if baseID == resourceID(network, state.Token) {
		tokenPrice = pool.Attributes.BaseTokenPriceUSD
	}
	ethPrice := pool.Attributes.BaseTokenPriceUSD
	if quoteID == resourceID(network, weth) {
		ethPrice = pool.Attributes.QuoteTokenPriceUSD
	}

	tokenBalance := ToDecimal(state.TokenBalance, state.Decimals)
	ethBalance := ToDecimal(state.WethBalance, state.WethDecimals)
	totalSupply := ToDecimal(state.TotalSupply, state.Decimals)

	liquidity := ethBalance.Mul(ethPrice).Add(tokenBalance.Mul(tokenPrice)).InexactFloat64()
	marketCap := totalSupply.Mul(tokenPrice).InexactFloat64()

	out.Volume = &Volume24{H24: pool.Attributes.VolumeUSD.H24.InexactFloat64()}
	out.Liquidity = &liquidity
	out.MarketCap = &marketCap
	return out
}
