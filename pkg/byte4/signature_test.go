package byte4

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ERC20 approve plus an overloaded router execute, which abi.JSON names execute and execute0
const testABI = `[
	{
		"inputs": [
			{"name": "spender", "type": "address"},
			{"name": "amount", "type": "uint256"}
		],
		"name": "approve",
		"outputs": [{"name": "", "type": "bool"}],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [
			{"name": "commands", "type": "bytes"},
			{"name": "inputs", "type": "bytes[]"}
		],
		"name": "execute",
		"outputs": [],
		"stateMutability": "payable",
		"type": "function"
	},
	{
		"inputs": [
			{"name": "commands", "type": "bytes"},
			{"name": "inputs", "type": "bytes[]"},
			{"name": "deadline", "type": "uint256"}
		],
		"name": "execute",
		"outputs": [],
		"stateMutability": "payable",
		"type": "function"
	}
]`

func TestGetMethodFromCalldata(t *testing.T) {
	parsedABI, err := abi.JSON(strings.NewReader(testABI))
	require.NoError(t, err)

	decodeHex := func(s string) []byte {
		b, err := hex.DecodeString(s)
		require.NoError(t, err)
		return b
	}

	tests := []struct {
		name        string
		calldata    []byte
		wantSig     string
		wantErr     bool
		errContains string
	}{
		{
			name:     "approve selector with arguments",
			calldata: decodeHex("095ea7b3000000000000000000000000ce289bb9fb0a9591317981223cbe33d5dc42268d0000000000000000000000000000000000000000000000000de0b6b3a7640000"),
			wantSig:  "approve(address,uint256)",
		},
		{
			name:     "router execute with deadline",
			calldata: decodeHex("3593564c"),
			wantSig:  "execute(bytes,bytes[],uint256)",
		},
		{
			name:     "router execute without deadline",
			calldata: decodeHex("24856bc3"),
			wantSig:  "execute(bytes,bytes[])",
		},
		{
			name:        "invalid selector length",
			calldata:    []byte{0x09, 0x5e},
			wantErr:     true,
			errContains: "invalid selector length",
		},
		{
			name:        "unknown selector",
			calldata:    decodeHex("12345678"),
			wantErr:     true,
			errContains: "no matching method found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method, err := GetMethodFromCalldata(parsedABI, tt.calldata)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				assert.Nil(t, method)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, method)
			assert.Equal(t, tt.wantSig, Signature(*method))
		})
	}
}

func TestSelector(t *testing.T) {
	assert.Equal(t, "0x095ea7b3", Selector([]byte{0x09, 0x5e, 0xa7, 0xb3, 0x00}))
	assert.Equal(t, "0x095e", Selector([]byte{0x09, 0x5e}))
}
