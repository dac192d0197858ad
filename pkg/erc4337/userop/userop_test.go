package userop

import (
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalWalletPayload(t *testing.T) {
	// shape sent by the Coinbase wallet SDK for pm_getPaymasterStubData
	payload := `{
		"sender": "0x804e49e8c4edb560ae7c48b554f6d2e27bb81557",
		"nonce": "0x1",
		"initCode": "0x",
		"callData": "0x34fcd5be",
		"callGasLimit": "0x0",
		"verificationGasLimit": "0x0",
		"preVerificationGas": "0x0",
		"maxFeePerGas": "0x3b9aca00",
		"maxPriorityFeePerGas": "0x3b9aca00",
		"paymasterAndData": "0x",
		"signature": "0x"
	}`

	var op UserOperation
	require.NoError(t, json.Unmarshal([]byte(payload), &op))

	assert.Equal(t, common.HexToAddress("0x804e49e8C4eDb560AE7c48B554f6d2e27Bb81557"), op.Sender)
	assert.Equal(t, []byte{0x34, 0xfc, 0xd5, 0xbe}, []byte(op.CallData))
	assert.False(t, op.HasInitCode())
	assert.Equal(t, int64(1e9), op.MaxFeePerGas.ToInt().Int64())
}

func TestUnmarshalRejectsUnprefixedCallData(t *testing.T) {
	var op UserOperation
	err := json.Unmarshal([]byte(`{"sender":"0x804e49e8c4edb560ae7c48b554f6d2e27bb81557","callData":"34fcd5be"}`), &op)
	assert.Error(t, err)
}
