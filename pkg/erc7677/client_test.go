package erc7677

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

// fakePaymaster records the last request and answers with result, or an error when fail is set
func fakePaymaster(t *testing.T, result string, fail bool, last *rpcRequest) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(last))

		w.Header().Set("Content-Type", "application/json")
		if fail {
			_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":` + string(last.ID) + `,"error":{"code":-32000,"message":"policy rejected"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":` + string(last.ID) + `,"result":` + result + `}`))
	}))
}

var entryPoint = common.HexToAddress("0x5FF137D4b0FDCD49DcA30c7CF57E578a026d2789")

func TestGetPaymasterStubData(t *testing.T) {
	var got rpcRequest
	srv := fakePaymaster(t, `{"paymasterAndData":"0x1234","isFinal":false}`, false, &got)
	defer srv.Close()

	c, err := NewClient(srv.URL, 5*time.Second)
	require.NoError(t, err)
	defer c.Close()

	userOp := json.RawMessage(`{"sender":"0x804e49e8c4edb560ae7c48b554f6d2e27bb81557","callData":"0x"}`)
	result, err := c.GetPaymasterStubData(context.Background(), userOp, entryPoint, big.NewInt(8453), nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"paymasterAndData":"0x1234","isFinal":false}`, string(result))

	assert.Equal(t, MethodGetPaymasterStubData, got.Method)
	require.Len(t, got.Params, 3)
	assert.JSONEq(t, string(userOp), string(got.Params[0]))
	assert.JSONEq(t, `"0x5ff137d4b0fdcd49dca30c7cf57e578a026d2789"`, string(got.Params[1]))
	assert.JSONEq(t, `"0x2105"`, string(got.Params[2]))
}

func TestGetPaymasterDataForwardsContext(t *testing.T) {
	var got rpcRequest
	srv := fakePaymaster(t, `{"paymasterAndData":"0xabcd"}`, false, &got)
	defer srv.Close()

	c, err := NewClient(srv.URL, 5*time.Second)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.GetPaymasterData(context.Background(), json.RawMessage(`{}`), entryPoint, big.NewInt(8453), json.RawMessage(`{"policyId":"fomo"}`))
	require.NoError(t, err)

	assert.Equal(t, MethodGetPaymasterData, got.Method)
	require.Len(t, got.Params, 4)
	assert.JSONEq(t, `{"policyId":"fomo"}`, string(got.Params[3]))
}

func TestCallUpstreamError(t *testing.T) {
	var got rpcRequest
	srv := fakePaymaster(t, ``, true, &got)
	defer srv.Close()

	c, err := NewClient(srv.URL, 5*time.Second)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.GetPaymasterData(context.Background(), json.RawMessage(`{}`), entryPoint, big.NewInt(8453), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "policy rejected")
}

func TestCallRejectsOtherMethods(t *testing.T) {
	c, err := NewClient("http://127.0.0.1:1", 0)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Call(context.Background(), "eth_sendUserOperation", json.RawMessage(`{}`), entryPoint, big.NewInt(8453), nil)
	assert.ErrorIs(t, err, ErrUnsupportedMethod)
	assert.False(t, IsPaymasterMethod("eth_chainId"))
}

func TestCallTimesOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, 50*time.Millisecond)
	require.NoError(t, err)
	defer c.Close()

	start := time.Now()
	_, err = c.GetPaymasterStubData(context.Background(), json.RawMessage(`{}`), entryPoint, big.NewInt(8453), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}
