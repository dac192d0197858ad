package aa

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Call is one sub call of a smart wallet execution. Field order and types mirror the
// CoinbaseSmartWallet.Call tuple so abi unpacking can copy into it directly.
type Call struct {
	Target common.Address `json:"target"`
	Value  *big.Int       `json:"value"`
	Data   []byte         `json:"data"`
}

// SmartWalletABI returns the parsed smart wallet ABI. bind.MetaData caches the parse.
func SmartWalletABI() (*abi.ABI, error) {
	parsed, err := SmartWalletMetaData.GetAbi()
	if err != nil {
		return nil, fmt.Errorf("invalid smart wallet ABI: %w", err)
	}
	return parsed, nil
}

// PackExecute generates the callData of a single-call user operation
func PackExecute(targetAddress common.Address, ethValue *big.Int, calldata []byte) ([]byte, error) {
	parsed, err := SmartWalletABI()
	if err != nil {
		return nil, err
	}

	if ethValue == nil {
		ethValue = big.NewInt(0)
	}
	return parsed.Pack("execute", targetAddress, ethValue, calldata)
}

// PackExecuteBatch generates the callData of a batched user operation, as keys.coinbase.com does
func PackExecuteBatch(calls []Call) ([]byte, error) {
	parsed, err := SmartWalletABI()
	if err != nil {
		return nil, err
	}

	normalized := make([]Call, len(calls))
	for i, c := range calls {
		normalized[i] = c
		if normalized[i].Value == nil {
			normalized[i].Value = big.NewInt(0)
		}
		if normalized[i].Data == nil {
			normalized[i].Data = []byte{}
		}
	}
	return parsed.Pack("executeBatch", normalized)
}
