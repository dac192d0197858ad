package market

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-resty/resty/v2"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// geckoMultiPoolLimit is the most pool addresses the multi endpoint accepts per request
const geckoMultiPoolLimit = 30

type geckoRelationship struct {
	Data *struct {
		ID   string `json:"id"`
		Type string `json:"type"`
	} `json:"data"`
}

// GeckoPool is the part of a GeckoTerminal pool resource the relay reads. Prices and volumes
// arrive as decimal strings.
type GeckoPool struct {
	ID         string `json:"id"`
	Attributes struct {
		Address                       string          `json:"address"`
		BaseTokenPriceUSD             decimal.Decimal `json:"base_token_price_usd"`
		BaseTokenPriceNativeCurrency  decimal.Decimal `json:"base_token_price_native_currency"`
		QuoteTokenPriceUSD            decimal.Decimal `json:"quote_token_price_usd"`
		QuoteTokenPriceNativeCurrency decimal.Decimal `json:"quote_token_price_native_currency"`
		FdvUSD                        decimal.Decimal `json:"fdv_usd"`
		ReserveInUSD                  decimal.Decimal `json:"reserve_in_usd"`
		VolumeUSD                     struct {
			H24 decimal.Decimal `json:"h24"`
		} `json:"volume_usd"`
	} `json:"attributes"`
	Relationships struct {
		BaseToken  geckoRelationship `json:"base_token"`
		QuoteToken geckoRelationship `json:"quote_token"`
	} `json:"relationships"`
}

type geckoPoolsResponse struct {
	Data []*GeckoPool `json:"data"`
}

type GeckoTerminalClient struct {
	httpClient *resty.Client
	network    string
}

func NewGeckoTerminalClient(baseURL, network string, timeout time.Duration) *GeckoTerminalClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &GeckoTerminalClient{httpClient: client, network: network}
}

// PoolID is the GeckoTerminal resource id of an address on the client's network
func (c *GeckoTerminalClient) PoolID(address common.Address) string {
	return resourceID(c.network, address)
}

func resourceID(network string, address common.Address) string {
	return strings.ToLower(network + "_" + address.Hex())
}

// Pools fetches pool data in batches and indexes it by lowercased resource id. Pools GeckoTerminal
// does not know are simply absent from the result.
func (c *GeckoTerminalClient) Pools(ctx context.Context, pools []common.Address) (map[string]*GeckoPool, error) {
	out := make(map[string]*GeckoPool, len(pools))

	for _, chunk := range lo.Chunk(pools, geckoMultiPoolLimit) {
		addresses := lo.Map(chunk, func(a common.Address, _ int) string {
			return strings.ToLower(a.Hex())
		})

		var result geckoPoolsResponse
		resp, err := c.httpClient.R().
			SetContext(ctx).
			SetRawPathParams(map[string]string{
				"network":   c.network,
				"addresses": strings.Join(addresses, ","),
			}).
			SetResult(&result).
			Get("/networks/{network}/pools/multi/{addresses}")
		if err != nil {
			return nil, fmt.Errorf("geckoterminal request: %w", err)
		}
		if resp.IsError() {
			return nil, fmt.Errorf("%w: geckoterminal returned %d", ErrUpstreamStatus, resp.StatusCode())
		}

		for _, pool := range result.Data {
			if pool == nil {
				continue
			}
			out[strings.ToLower(pool.ID)] = pool
		}
	}

	return out, nil
}
