package aa

import (
	"github.com/ethereum/go-ethereum/common"
)

var (
	// EntrypointV06Address is the canonical ERC-4337 v0.6 EntryPoint, the only version the
	// Coinbase smart wallet sponsors against.
	EntrypointV06Address = common.HexToAddress("0x5FF137D4b0FDCD49DcA30c7CF57E578a026d2789")

	// ERC1967ImplementationSlot is bytes32(uint256(keccak256('eip1967.proxy.implementation')) - 1)
	ERC1967ImplementationSlot = common.HexToHash("0x360894a13ba1a3210667c828492db98dca3e2076cc3735a920a3ca505d382bbc")

	// Coinbase smart wallet v1 deployments, identical on Base and Base Sepolia
	DefaultSmartWalletFactory        = common.HexToAddress("0x0BA5ED0c6AA8c49038F819E587E2633c4A9F428a")
	DefaultSmartWalletImplementation = common.HexToAddress("0x000100abaad02f1cfC8Bbe32bD5a564817339E72")
	DefaultMagicSpend                = common.HexToAddress("0x011A61C07DbF256A68256B1cB51A5e246730aB92")
)
