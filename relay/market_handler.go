package relay

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"github.com/FomoFactory/fomo-relay/pkg/market"
)

// maxTokensPerRequest caps the addresses of one market lookup
const maxTokensPerRequest = 100

type errorResp struct {
	Error string `json:"error"`
}

type metadataResp struct {
	Metadata string `json:"metadata,omitempty"`
	Error    string `json:"error,omitempty"`
}

func (r *Relay) handleTokenDex(c echo.Context) error {
	address := c.Param("address")
	if !common.IsHexAddress(address) {
		return c.JSON(http.StatusBadRequest, errorResp{Error: ErrMsgInvalidAddress})
	}

	agg, err := r.market.TokenDex(c.Request().Context(), common.HexToAddress(address))
	if err != nil {
		return r.marketError(c, "dexscreener lookup failed", err)
	}
	return c.JSON(http.StatusOK, agg)
}

func (r *Relay) handleTokensMarket(c echo.Context) error {
	raw := strings.Split(c.QueryParam("addresses"), ",")
	raw = lo.Filter(lo.Map(raw, func(s string, _ int) string { return strings.TrimSpace(s) }), func(s string, _ int) bool {
		return s != ""
	})
	if len(raw) == 0 {
		return c.JSON(http.StatusBadRequest, errorResp{Error: ErrMsgInvalidAddress})
	}
	for _, s := range raw {
		if !common.IsHexAddress(s) {
			return c.JSON(http.StatusBadRequest, errorResp{Error: ErrMsgInvalidAddress})
		}
	}

	tokens := lo.Uniq(lo.Map(raw, func(s string, _ int) common.Address { return common.HexToAddress(s) }))
	if len(tokens) > maxTokensPerRequest {
		return c.JSON(http.StatusBadRequest, errorResp{Error: ErrMsgTooManyTokens})
	}

	markets, err := r.market.TokensMarket(c.Request().Context(), tokens)
	if err != nil {
		return r.marketError(c, "token market lookup failed", err)
	}
	return c.JSON(http.StatusOK, HttpJsonResp[[]*market.TokenMarket]{Data: markets})
}

func (r *Relay) handleTokenPool(c echo.Context) error {
	address := c.Param("address")
	if !common.IsHexAddress(address) {
		return c.JSON(http.StatusBadRequest, errorResp{Error: ErrMsgInvalidAddress})
	}

	info, err := r.market.TokenPool(c.Request().Context(), common.HexToAddress(address))
	if err != nil {
		return r.marketError(c, "pool lookup failed", err)
	}
	return c.JSON(http.StatusOK, HttpJsonResp[*market.PoolInfo]{Data: info})
}

func (r *Relay) handleAccountMemecoins(c echo.Context) error {
	address := c.Param("address")
	if !common.IsHexAddress(address) {
		return c.JSON(http.StatusBadRequest, errorResp{Error: ErrMsgInvalidAddress})
	}

	tokens, err := r.market.AccountMemecoins(c.Request().Context(), common.HexToAddress(address))
	if err != nil {
		return r.marketError(c, "account memecoins lookup failed", err)
	}
	return c.JSON(http.StatusOK, HttpJsonResp[[]common.Address]{Data: tokens})
}

func (r *Relay) handleEthPrice(c echo.Context) error {
	price, err := r.market.EthPrice(c.Request().Context())
	if err != nil {
		return r.marketError(c, "eth price lookup failed", err)
	}
	return c.JSON(http.StatusOK, price)
}

func (r *Relay) handleLeaderboard(c echo.Context) error {
	entries, err := r.market.Leaderboard(c.Request().Context())
	if err != nil {
		return r.marketError(c, "leaderboard lookup failed", err)
	}
	return c.JSON(http.StatusOK, HttpJsonResp[[]*market.LeaderboardEntry]{Data: entries})
}

func (r *Relay) marketError(c echo.Context, msg string, err error) error {
	if errors.Is(err, market.ErrChainUnavailable) {
		return c.JSON(http.StatusServiceUnavailable, errorResp{Error: ErrMsgChainDisabled})
	}

	r.logger.Warn(msg, "path", c.Path(), "error", err)
	return c.JSON(http.StatusBadGateway, errorResp{Error: ErrMsgMarketData})
}

// handleMetadata always answers 200, the frame client renders whichever field is set
func (r *Relay) handleMetadata(c echo.Context) error {
	path := c.QueryParam("path")
	if path == "" {
		return c.JSON(http.StatusOK, metadataResp{Error: ErrMsgMissingMetaPath})
	}

	head, err := r.market.FrameMetadata(c.Request().Context(), path)
	if err == nil {
		return c.JSON(http.StatusOK, metadataResp{Metadata: head})
	}

	var statusErr *market.MetadataStatusError
	switch {
	case errors.As(err, &statusErr):
		return c.JSON(http.StatusOK, metadataResp{Error: fmt.Sprintf("%s: %d", ErrMsgMetadataPrefix, statusErr.Status)})
	case errors.Is(err, market.ErrNoHeadTag):
		return c.JSON(http.StatusOK, metadataResp{Error: ErrMsgNoHeadTag})
	default:
		r.logger.Warn("frame metadata fetch failed", "path", path, "error", err)
		return c.JSON(http.StatusOK, metadataResp{Error: fmt.Sprintf("%s: %v", ErrMsgMetadataPrefix, err)})
	}
}
