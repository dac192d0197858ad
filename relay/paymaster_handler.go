package relay

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/labstack/echo/v4"
	"github.com/oklog/ulid/v2"

	"github.com/FomoFactory/fomo-relay/pkg/erc4337/userop"
	"github.com/FomoFactory/fomo-relay/pkg/erc7677"
)

var errInvalidParams = errors.New("invalid paymaster params")

type rpcRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      json.RawMessage   `json:"id,omitempty"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc,omitempty"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// paymasterCall is a decoded rpcRequest
type paymasterCall struct {
	method     string
	rawUserOp  json.RawMessage
	userOp     *userop.UserOperation
	entryPoint common.Address
	chainID    *big.Int
	context    json.RawMessage
}

func parsePaymasterCall(req *rpcRequest) (*paymasterCall, error) {
	if len(req.Params) < 3 {
		return nil, fmt.Errorf("%w: want at least 3 params, got %d", errInvalidParams, len(req.Params))
	}

	var op userop.UserOperation
	if err := json.Unmarshal(req.Params[0], &op); err != nil {
		return nil, fmt.Errorf("%w: userOp: %v", errInvalidParams, err)
	}

	var entryPoint string
	if err := json.Unmarshal(req.Params[1], &entryPoint); err != nil || !common.IsHexAddress(entryPoint) {
		return nil, fmt.Errorf("%w: entryPoint", errInvalidParams)
	}

	chainID, err := parseChainID(req.Params[2])
	if err != nil {
		return nil, err
	}

	call := &paymasterCall{
		method:     req.Method,
		rawUserOp:  req.Params[0],
		userOp:     &op,
		entryPoint: common.HexToAddress(entryPoint),
		chainID:    chainID,
	}
	if len(req.Params) > 3 && string(req.Params[3]) != "null" {
		call.context = req.Params[3]
	}
	return call, nil
}

// parseChainID accepts a JSON number, a 0x-prefixed hex string or a decimal string
func parseChainID(raw json.RawMessage) (*big.Int, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		// not a string, try a bare number
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, fmt.Errorf("%w: chainId", errInvalidParams)
		}
		s = n.String()
	}

	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err := hexutil.DecodeBig(strings.ToLower(s))
		if err != nil {
			return nil, fmt.Errorf("%w: chainId: %v", errInvalidParams, err)
		}
		return v, nil
	}

	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("%w: chainId %q", errInvalidParams, s)
	}
	return v, nil
}

func (r *Relay) handlePaymaster(c echo.Context) error {
	var req rpcRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return c.JSON(http.StatusOK, rpcResponse{Error: ErrMsgInvalidRequest})
	}
	resp := rpcResponse{JSONRPC: req.JSONRPC, ID: req.ID}

	log := r.logger.With("request_id", ulid.Make().String(), "method", req.Method)

	call, err := parsePaymasterCall(&req)
	if err != nil {
		log.Info("rejecting malformed paymaster request", "error", err)
		resp.Error = ErrMsgInvalidRequest
		return c.JSON(http.StatusOK, resp)
	}

	ctx := c.Request().Context()
	methodLabel := metricMethod(call.method)

	decision := r.evaluator.Decide(ctx, call.chainID, call.entryPoint, call.userOp)
	if !decision.Sponsor {
		r.metrics.IncSponsorshipDecision(methodLabel, "rejected", string(decision.Reason))
		log.Info("operation not sponsored",
			"sender", call.userOp.Sender.Hex(),
			"reason", decision.Reason,
			"target", decision.Target,
			"function", decision.Function)
		resp.Error = ErrMsgNotSponsorable
		return c.JSON(http.StatusOK, resp)
	}
	r.metrics.IncSponsorshipDecision(methodLabel, "approved", string(decision.Reason))

	if !erc7677.IsPaymasterMethod(call.method) {
		resp.Error = ErrMsgMethodNotFound
		return c.JSON(http.StatusOK, resp)
	}

	start := time.Now()
	result, err := r.paymaster.Call(ctx, call.method, call.rawUserOp, call.entryPoint, call.chainID, call.context)
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.metrics.ObserveUpstreamPaymaster(call.method, status, time.Since(start))

	if err != nil {
		log.Error("upstream paymaster call failed", "sender", call.userOp.Sender.Hex(), "error", err)
		captureError(c, err)
		resp.Error = ErrMsgUpstream
		return c.JSON(http.StatusOK, resp)
	}

	log.Info("operation sponsored", "sender", call.userOp.Sender.Hex(), "function", decision.Function)
	resp.Result = result
	return c.JSON(http.StatusOK, resp)
}

// metricMethod folds arbitrary client supplied method names into one label
func metricMethod(method string) string {
	if erc7677.IsPaymasterMethod(method) {
		return method
	}
	return "other"
}
