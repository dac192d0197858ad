package aa

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrUnexpectedFactory        = errors.New("initCode does not deploy through the smart wallet factory")
	ErrUnexpectedBytecode       = errors.New("sender bytecode is not the smart wallet proxy")
	ErrUnexpectedImplementation = errors.New("sender proxy does not point at the smart wallet implementation")
	ErrMissingProxyBytecode     = errors.New("smart wallet proxy bytecode is not configured")
)

const DefaultVerifyTimeout = 3 * time.Second

// CodeStorageReader is the slice of an ethclient.Client the verifier needs
type CodeStorageReader interface {
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
	StorageAt(ctx context.Context, account common.Address, key common.Hash, blockNumber *big.Int) ([]byte, error)
}

// SmartWalletVerifier checks that a user operation sender is, or is about to be, a genuine
// Coinbase smart wallet before its callData is trusted.
type SmartWalletVerifier struct {
	client         CodeStorageReader
	factory        common.Address
	implementation common.Address
	proxyCode      []byte
	timeout        time.Duration
}

func NewSmartWalletVerifier(client CodeStorageReader, factory, implementation common.Address, proxyCode []byte, timeout time.Duration) *SmartWalletVerifier {
	if timeout <= 0 {
		timeout = DefaultVerifyTimeout
	}

	return &SmartWalletVerifier{
		client:         client,
		factory:        factory,
		implementation: implementation,
		proxyCode:      proxyCode,
		timeout:        timeout,
	}
}

// Verify returns nil when sender is a smart wallet proxy to the expected implementation, or has no
// code yet and initCode deploys it through the expected factory. All RPC round trips share one
// timeout; callers must treat any error as a rejection.
func (v *SmartWalletVerifier) Verify(ctx context.Context, sender common.Address, initCode []byte) error {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	code, err := v.client.CodeAt(ctx, sender, nil)
	if err != nil {
		return fmt.Errorf("get code of %s: %w", sender.Hex(), err)
	}

	if len(code) == 0 {
		// factory address is the first 20 bytes of initCode
		if len(initCode) < common.AddressLength {
			return ErrUnexpectedFactory
		}
		if common.BytesToAddress(initCode[:common.AddressLength]) != v.factory {
			return ErrUnexpectedFactory
		}
		return nil
	}

	if len(v.proxyCode) == 0 {
		return ErrMissingProxyBytecode
	}
	if !bytes.Equal(code, v.proxyCode) {
		return ErrUnexpectedBytecode
	}

	slot, err := v.client.StorageAt(ctx, sender, ERC1967ImplementationSlot, nil)
	if err != nil {
		return fmt.Errorf("get implementation slot of %s: %w", sender.Hex(), err)
	}
	if len(slot) != common.HashLength {
		return fmt.Errorf("implementation slot of %s has %d bytes", sender.Hex(), len(slot))
	}
	if common.BytesToAddress(slot) != v.implementation {
		return ErrUnexpectedImplementation
	}

	return nil
}
