package market

import (
	"encoding/json"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FomoFactory/fomo-relay/core/chainio/fomo"
)

var (
	weth       = common.HexToAddress("0x4200000000000000000000000000000000000006")
	tokenA     = common.HexToAddress("0xAaAaAaAaAaAaAaAaAaAaAaAaAaAaAaAaAaAaAaAa")
	tokenB     = common.HexToAddress("0xbBbBBBBbbBBBbbbBbbBbbbbBBbBbbbbBbBbbBBbB")
	poolA      = common.HexToAddress("0x1000000000000000000000000000000000000001")
	poolB      = common.HexToAddress("0x1000000000000000000000000000000000000002")
	ether18    = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	oneMillion = new(big.Int).Mul(big.NewInt(1_000_000), ether18)
)

func poolState(token, pool common.Address) *fomo.PoolState {
	return &fomo.PoolState{
		Token:        token,
		Pool:         pool,
		Name:         "Token " + token.Hex()[:6],
		Symbol:       "TKN",
		Decimals:     18,
		TotalSupply:  oneMillion,
		TokenBalance: new(big.Int).Mul(big.NewInt(400_000), ether18),
		WethBalance:  new(big.Int).Mul(big.NewInt(2), ether18),
		WethDecimals: 18,
		PositionID:   big.NewInt(1),
	}
}

// geckoPoolJSON builds a pool resource the way the API serializes it, prices as strings
func geckoPoolJSON(pool, base, quote common.Address, basePrice, quotePrice, volume string) string {
	return `{
		"id": "` + resourceID("base", pool) + `",
		"type": "pool",
		"attributes": {
			"address": "` + pool.Hex() + `",
			"base_token_price_usd": "` + basePrice + `",
			"quote_token_price_usd": "` + quotePrice + `",
			"base_token_price_native_currency": "0.0000004",
			"quote_token_price_native_currency": "1.0",
			"fdv_usd": null,
			"reserve_in_usd": "5400.12",
			"volume_usd": {"m5": "0.0", "h24": "` + volume + `"}
		},
		"relationships": {
			"base_token": {"data": {"id": "` + resourceID("base", base) + `", "type": "token"}},
			"quote_token": {"data": {"id": "` + resourceID("base", quote) + `", "type": "token"}}
		}
	}`
}

func decodePool(t *testing.T, raw string) *GeckoPool {
	var pool GeckoPool
	require.NoError(t, json.Unmarshal([]byte(raw), &pool))
	return &pool
}

func TestPriceTokenMarket(t *testing.T) {
	tests := []struct {
		name string
		pool string
	}{
		{
			name: "memecoin is the base token",
			pool: geckoPoolJSON(poolA, tokenA, weth, "0.001", "2500", "321.5"),
		},
		{
			name: "memecoin is the quote token",
			pool: geckoPoolJSON(poolA, weth, tokenA, "2500", "0.001", "321.5"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := PriceTokenMarket("base", weth, poolState(tokenA, poolA), decodePool(t, tt.pool))

			assert.Equal(t, tokenA, tm.Address)
			assert.Equal(t, poolA, tm.PoolAddress)
			require.NotNil(t, tm.Liquidity)
			require.NotNil(t, tm.MarketCap)
			require.NotNil(t, tm.Volume)
			// 2 ETH at 2500 plus 400k tokens at 0.001
			assert.InDelta(t, 5400.0, *tm.Liquidity, 1e-9)
			assert.InDelta(t, 1000.0, *tm.MarketCap, 1e-9)
			assert.InDelta(t, 321.5, tm.Volume.H24, 1e-9)
		})
	}
}

func TestPriceTokenMarketWithoutPoolData(t *testing.T) {
	tm := PriceTokenMarket("base", weth, poolState(tokenA, poolA), nil)
	assert.Equal(t, &TokenMarket{Address: tokenA, PoolAddress: poolA}, tm)

	pool := decodePool(t, `{"id":"base_x","attributes":{},"relationships":{"base_token":{"data":null},"quote_token":{"data":null}}}`)
	tm = PriceTokenMarket("base", weth, poolState(tokenA, poolA), pool)
	assert.Nil(t, tm.MarketCap)

	raw, err := json.Marshal(tm)
	require.NoError(t, err)
	assert.JSONEq(t, `{"address":"`+strings.ToLower(tokenA.Hex())+`","poolAddress":"`+strings.ToLower(poolA.Hex())+`"}`, string(raw))
}

func TestToDecimal(t *testing.T) {
	assert.Equal(t, "1.5", ToDecimal(big.NewInt(1500000), 6).String())
	assert.Equal(t, "0", ToDecimal(nil, 18).String())
	assert.Equal(t, "1000000", ToDecimal(oneMillion, 18).String())
}
