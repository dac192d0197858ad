package market

import (
	"github.com/ethereum/go-ethereum/common"
)

type TxnCount struct {
	Buys  int64 `json:"buys"`
	Sells int64 `json:"sells"`
}

type Txns struct {
	M5  TxnCount `json:"m5"`
	H1  TxnCount `json:"h1"`
	H6  TxnCount `json:"h6"`
	H24 TxnCount `json:"h24"`
}

type Volume struct {
	M5  float64 `json:"m5"`
	H1  float64 `json:"h1"`
	H6  float64 `json:"h6"`
	H24 float64 `json:"h24"`
}

type Liquidity struct {
	USD   float64 `json:"usd"`
	Base  float64 `json:"base"`
	Quote float64 `json:"quote"`
}

// DexAggregate sums every DexScreener pair a token trades in
type DexAggregate struct {
	Txns      Txns      `json:"txns"`
	Volume    Volume    `json:"volume"`
	Liquidity Liquidity `json:"liquidity"`
	MarketCap float64   `json:"marketCap"`
}

type Volume24 struct {
	H24 float64 `json:"h24"`
}

// TokenMarket is the market data of one memecoin priced from its pool. Only Address and
// PoolAddress are set when the pool has no price data yet.
type TokenMarket struct {
	Address     common.Address `json:"address"`
	PoolAddress common.Address `json:"poolAddress"`
	Volume      *Volume24      `json:"volume,omitempty"`
	Liquidity   *float64       `json:"liquidity,omitempty"`
	MarketCap   *float64       `json:"marketCap,omitempty"`
}

func (t *TokenMarket) marketCap() float64 {
	if t.MarketCap == nil {
		return 0
	}
	return *t.MarketCap
}

type LeaderboardEntry struct {
	TokenMarket
	Name        string  `json:"name"`
	Symbol      string  `json:"symbol"`
	TotalSupply float64 `json:"totalSupply"`
	Rank        int     `json:"rank"`
}

type PoolFees struct {
	Token0 float64 `json:"token0"`
	Token1 float64 `json:"token1"`
}

// PoolInfo is the locked position of a memecoin pool. Fees are what the owner could claim now.
type PoolInfo struct {
	Address    common.Address `json:"address"`
	Owner      common.Address `json:"owner"`
	PositionID string         `json:"positionId"`
	Token0     common.Address `json:"token0"`
	Token1     common.Address `json:"token1"`
	Fees       PoolFees       `json:"fees"`
}

type EthPrice struct {
	USD float64 `json:"usd"`
}
