package aa

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackExecuteSelector(t *testing.T) {
	target := common.HexToAddress("0x804e49e8C4eDb560AE7c48B554f6d2e27Bb81557")

	calldata, err := PackExecute(target, nil, []byte{0xde, 0xad})
	require.NoError(t, err)

	// execute(address,uint256,bytes)
	assert.Equal(t, "0xb61d27f6", hexutil.Encode(calldata[:4]))
	assert.Equal(t, target, common.BytesToAddress(calldata[4:36]))
}

func TestPackExecuteBatchSelector(t *testing.T) {
	calldata, err := PackExecuteBatch([]Call{
		{Target: DefaultMagicSpend, Value: big.NewInt(0)},
		{Target: common.HexToAddress("0x1111111111111111111111111111111111111111"), Data: []byte{0x01}},
	})
	require.NoError(t, err)

	// executeBatch((address,uint256,bytes)[])
	assert.Equal(t, "0x34fcd5be", hexutil.Encode(calldata[:4]))
}

func TestSmartWalletABIHasBothExecuteShapes(t *testing.T) {
	parsed, err := SmartWalletABI()
	require.NoError(t, err)

	_, ok := parsed.Methods["execute"]
	assert.True(t, ok)
	batch, ok := parsed.Methods["executeBatch"]
	require.True(t, ok)
	assert.Equal(t, "executeBatch((address,uint256,bytes)[])", batch.Sig)
}
