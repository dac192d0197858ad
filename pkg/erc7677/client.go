// Package erc7677 talks to an ERC-7677 paymaster web service. The relay only forwards approved
// requests, so params and results are kept as raw JSON.
package erc7677

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

const (
	MethodGetPaymasterStubData = "pm_getPaymasterStubData"
	MethodGetPaymasterData     = "pm_getPaymasterData"
)

var ErrUnsupportedMethod = errors.New("unsupported paymaster method")

// IsPaymasterMethod reports whether method is one of the two ERC-7677 calls
func IsPaymasterMethod(method string) bool {
	return method == MethodGetPaymasterStubData || method == MethodGetPaymasterData
}

// Client is a stateless JSON-RPC client of the upstream paymaster
type Client struct {
	client  *rpc.Client
	url     string
	timeout time.Duration
}

// NewClient dials the paymaster at url. Each call is bounded by timeout, zero leaves only the
// caller's deadline.
func NewClient(url string, timeout time.Duration) (*Client, error) {
	// DialHTTP keeps each call a plain POST, which hosted paymaster endpoints expect
	c, err := rpc.DialHTTP(url)
	if err != nil {
		return nil, fmt.Errorf("error creating paymaster client: %w", err)
	}
	return &Client{client: c, url: url, timeout: timeout}, nil
}

func (c *Client) Close() {
	c.client.Close()
}

// Call forwards one of the ERC-7677 methods. userOp and paymasterContext are passed through
// untouched; a nil context is omitted from the params.
func (c *Client) Call(
	ctx context.Context,
	method string,
	userOp json.RawMessage,
	entryPoint common.Address,
	chainID *big.Int,
	paymasterContext json.RawMessage,
) (json.RawMessage, error) {
	if !IsPaymasterMethod(method) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMethod, method)
	}

	params := []interface{}{userOp, entryPoint, (*hexutil.Big)(chainID)}
	if len(paymasterContext) > 0 {
		params = append(params, paymasterContext)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var result json.RawMessage
	if err := c.client.CallContext(ctx, &result, method, params...); err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	return result, nil
}

func (c *Client) GetPaymasterStubData(ctx context.Context, userOp json.RawMessage, entryPoint common.Address, chainID *big.Int, paymasterContext json.RawMessage) (json.RawMessage, error) {
	return c.Call(ctx, MethodGetPaymasterStubData, userOp, entryPoint, chainID, paymasterContext)
}

func (c *Client) GetPaymasterData(ctx context.Context, userOp json.RawMessage, entryPoint common.Address, chainID *big.Int, paymasterContext json.RawMessage) (json.RawMessage, error) {
	return c.Call(ctx, MethodGetPaymasterData, userOp, entryPoint, chainID, paymasterContext)
}
