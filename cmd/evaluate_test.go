package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FomoFactory/fomo-relay/core/chainio/aa"
	"github.com/FomoFactory/fomo-relay/core/chainio/fomo"
	relayconfig "github.com/FomoFactory/fomo-relay/core/config"
	"github.com/FomoFactory/fomo-relay/pkg/erc4337/userop"
	"github.com/FomoFactory/fomo-relay/pkg/logger"
)

func evaluateConfig() *relayconfig.Config {
	return &relayconfig.Config{
		Logger:  logger.NewNoOpLogger(),
		ChainID: big.NewInt(8453),
		Contracts: relayconfig.Contracts{
			EntryPoint:      aa.EntrypointV06Address,
			MagicSpend:      aa.DefaultMagicSpend,
			FomoFactory:     common.HexToAddress("0xf0f0f0f0f0f0f0f0f0f0f0f0f0f0f0f0f0f0f0f0"),
			LiquidityLocker: common.HexToAddress("0x10c4e710c4e710c4e710c4e710c4e710c4e710c4"),
			SwapRouter:      relayconfig.DefaultSwapRouter,
		},
	}
}

func userOpJSON(t *testing.T, target common.Address, method string, args ...interface{}) string {
	parsed, err := fomo.ERC20MetaData.GetAbi()
	require.NoError(t, err)
	data, err := parsed.Pack(method, args...)
	require.NoError(t, err)
	callData, err := aa.PackExecute(target, nil, data)
	require.NoError(t, err)

	raw, err := json.Marshal(&userop.UserOperation{
		Sender:   common.HexToAddress("0x804e49e8C4eDb560AE7c48B554f6d2e27Bb81557"),
		CallData: callData,
	})
	require.NoError(t, err)
	return string(raw)
}

func TestEvaluateUserOp(t *testing.T) {
	token := common.HexToAddress("0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913")

	tests := []struct {
		name    string
		op      string
		chainID int64
		want    []string
	}{
		{
			name:    "approve is sponsored",
			op:      userOpJSON(t, token, "approve", relayconfig.DefaultSwapRouter, big.NewInt(1)),
			chainID: 8453,
			want:    []string{"sponsor:  true", "reason:   sponsored", "function: approve"},
		},
		{
			name:    "transfer is not",
			op:      userOpJSON(t, token, "transfer", relayconfig.DefaultSwapRouter, big.NewInt(1)),
			chainID: 8453,
			want:    []string{"sponsor:  false", "reason:   target_not_allowed", "function: transfer"},
		},
		{
			name:    "wrong chain",
			op:      userOpJSON(t, token, "approve", relayconfig.DefaultSwapRouter, big.NewInt(1)),
			chainID: 1,
			want:    []string{"sponsor:  false", "reason:   chain_mismatch"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := evaluateUserOp(context.Background(), &out, evaluateConfig(), strings.NewReader(tt.op), aa.EntrypointV06Address, big.NewInt(tt.chainID))
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, out.String(), want)
			}
		})
	}
}

func TestEvaluateUserOpBadInput(t *testing.T) {
	var out bytes.Buffer
	err := evaluateUserOp(context.Background(), &out, evaluateConfig(), strings.NewReader("not json"), aa.EntrypointV06Address, big.NewInt(8453))
	assert.ErrorContains(t, err, "cannot decode user operation")
}
