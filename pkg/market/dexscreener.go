package market

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-resty/resty/v2"
)

type dexPair struct {
	ChainID     string `json:"chainId"`
	DexID       string `json:"dexId"`
	PairAddress string `json:"pairAddress"`
	Txns        Txns   `json:"txns"`
	Volume      Volume `json:"volume"`
	Liquidity   *struct {
		USD   *float64 `json:"usd"`
		Base  float64  `json:"base"`
		Quote float64  `json:"quote"`
	} `json:"liquidity"`
	FDV *float64 `json:"fdv"`
}

type dexTokensResponse struct {
	SchemaVersion string    `json:"schemaVersion"`
	Pairs         []dexPair `json:"pairs"`
}

type DexScreenerClient struct {
	httpClient *resty.Client
}

func NewDexScreenerClient(baseURL string, timeout time.Duration) *DexScreenerClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &DexScreenerClient{httpClient: client}
}

// TokenAggregate fetches every pair of token and sums their activity
func (c *DexScreenerClient) TokenAggregate(ctx context.Context, token common.Address) (*DexAggregate, error) {
	var result dexTokensResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetPathParam("address", token.Hex()).
		SetResult(&result).
		Get("/latest/dex/tokens/{address}")
	if err != nil {
		return nil, fmt.Errorf("dexscreener request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: dexscreener returned %d", ErrUpstreamStatus, resp.StatusCode())
	}

	return aggregatePairs(result.Pairs), nil
}

func aggregatePairs(pairs []dexPair) *DexAggregate {
	agg := &DexAggregate{}
	for _, pair := range pairs {
		addTxns(&agg.Txns.M5, pair.Txns.M5)
		addTxns(&agg.Txns.H1, pair.Txns.H1)
		addTxns(&agg.Txns.H6, pair.Txns.H6)
		addTxns(&agg.Txns.H24, pair.Txns.H24)

		agg.Volume.M5 += pair.Volume.M5
		agg.Volume.H1 += pair.Volume.H1
		agg.Volume.H6 += pair.Volume.H6
		agg.Volume.H24 += pair.Volume.H24

		if pair.Liquidity != nil {
			if pair.Liquidity.USD != nil {
				agg.Liquidity.USD += *pair.Liquidity.USD
			}
			agg.Liquidity.Base += pair.Liquidity.Base
			agg.Liquidity.Quote += pair.Liquidity.Quote
		}

		if pair.FDV != nil {
			agg.MarketCap += *pair.FDV
		}
	}
	return agg
}

func addTxns(dst *TxnCount, src TxnCount) {
	dst.Buys += src.Buys
	dst.Sells += src.Sells
}
