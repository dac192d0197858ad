package aa

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChain struct {
	code    []byte
	slot    []byte
	codeErr error
	block   bool
}

func (f *fakeChain) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.code, f.codeErr
}

func (f *fakeChain) StorageAt(ctx context.Context, account common.Address, key common.Hash, blockNumber *big.Int) ([]byte, error) {
	if key != ERC1967ImplementationSlot {
		return nil, errors.New("unexpected slot")
	}
	return f.slot, nil
}

var (
	testSender = common.HexToAddress("0x804e49e8C4eDb560AE7c48B554f6d2e27Bb81557")
	proxyCode  = []byte{0x36, 0x3d, 0x3d, 0x37}
)

func newTestVerifier(chain *fakeChain) *SmartWalletVerifier {
	return NewSmartWalletVerifier(chain, DefaultSmartWalletFactory, DefaultSmartWalletImplementation, proxyCode, 50*time.Millisecond)
}

func TestVerifyUndeployedAccount(t *testing.T) {
	chain := &fakeChain{}

	initCode := append(DefaultSmartWalletFactory.Bytes(), 0x3f, 0xfb, 0xa3, 0x6f)
	assert.NoError(t, newTestVerifier(chain).Verify(context.Background(), testSender, initCode))

	other := append(common.HexToAddress("0x9406Cc6185a346906296840746125a0E44976454").Bytes(), 0x01)
	assert.ErrorIs(t, newTestVerifier(chain).Verify(context.Background(), testSender, other), ErrUnexpectedFactory)

	assert.ErrorIs(t, newTestVerifier(chain).Verify(context.Background(), testSender, []byte{0x01}), ErrUnexpectedFactory)
}

func TestVerifyDeployedAccount(t *testing.T) {
	goodSlot := common.BytesToHash(DefaultSmartWalletImplementation.Bytes()).Bytes()

	chain := &fakeChain{code: proxyCode, slot: goodSlot}
	require.NoError(t, newTestVerifier(chain).Verify(context.Background(), testSender, nil))

	chain = &fakeChain{code: []byte{0x60, 0x80}, slot: goodSlot}
	assert.ErrorIs(t, newTestVerifier(chain).Verify(context.Background(), testSender, nil), ErrUnexpectedBytecode)

	chain = &fakeChain{code: proxyCode, slot: common.BytesToHash(testSender.Bytes()).Bytes()}
	assert.ErrorIs(t, newTestVerifier(chain).Verify(context.Background(), testSender, nil), ErrUnexpectedImplementation)
}

func TestVerifyRequiresProxyBytecode(t *testing.T) {
	goodSlot := common.BytesToHash(DefaultSmartWalletImplementation.Bytes()).Bytes()
	chain := &fakeChain{code: []byte{0xde, 0xad, 0xbe, 0xef}, slot: goodSlot}

	for _, code := range [][]byte{nil, {}} {
		verifier := NewSmartWalletVerifier(chain, DefaultSmartWalletFactory, DefaultSmartWalletImplementation, code, 0)
		assert.ErrorIs(t, verifier.Verify(context.Background(), testSender, nil), ErrMissingProxyBytecode)
	}

	// undeployed accounts are checked against the factory only
	chain = &fakeChain{}
	verifier := NewSmartWalletVerifier(chain, DefaultSmartWalletFactory, DefaultSmartWalletImplementation, nil, 0)
	assert.NoError(t, verifier.Verify(context.Background(), testSender, DefaultSmartWalletFactory.Bytes()))
}

func TestVerifyFailsClosedOnRPCErrors(t *testing.T) {
	chain := &fakeChain{codeErr: errors.New("connection refused")}
	assert.Error(t, newTestVerifier(chain).Verify(context.Background(), testSender, nil))

	chain = &fakeChain{block: true}
	err := newTestVerifier(chain).Verify(context.Background(), testSender, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
