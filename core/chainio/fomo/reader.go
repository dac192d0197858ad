package fomo

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
)

// maxMulticallSize bounds the sub calls packed into one aggregate3 eth_call
const maxMulticallSize = 300

var (
	// Multicall3Address is the same on every chain Multicall3 is deployed to
	Multicall3Address = common.HexToAddress("0xcA11bde05977b3631167028862bE2a173976CA11")

	ErrFeedNotConfigured = errors.New("eth/usd price feed is not configured")

	maxUint128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
)

// PoolState is the on-chain half of a token's market data
type PoolState struct {
	Token        common.Address
	Pool         common.Address
	Name         string
	Symbol       string
	Decimals     uint8
	TotalSupply  *big.Int
	TokenBalance *big.Int
	WethBalance  *big.Int
	WethDecimals uint8
	PositionID   *big.Int
}

// PoolPosition is the locked liquidity position of a token pool and the fees it has accrued
type PoolPosition struct {
	Pool       common.Address
	PositionID *big.Int
	Owner      common.Address
	Token0     common.Address
	Token1     common.Address
	Fees0      *big.Int
	Fees1      *big.Int
}

// Contracts are the deployments the Reader talks to. PositionManager and EthUsdFeed are only
// needed by PoolPosition and EthUsdPrice.
type Contracts struct {
	Factory         common.Address
	Locker          common.Address
	Weth            common.Address
	Multicall       common.Address
	PositionManager common.Address
	EthUsdFeed      common.Address
}

// Reader performs the read-only factory and ERC20 calls behind the market endpoints. Reads that
// fan out per token go through Multicall3 so a request costs a constant number of eth_calls per
// maxMulticallSize sub calls.
type Reader struct {
	backend   bind.ContractCaller
	contracts Contracts

	factory   *bind.BoundContract
	multicall *bind.BoundContract

	factoryABI         *abi.ABI
	erc20ABI           *abi.ABI
	lockerABI          *abi.ABI
	poolABI            *abi.ABI
	positionManagerABI *abi.ABI
	feedABI            *abi.ABI
}

func NewReader(backend bind.ContractCaller, contracts Contracts) (*Reader, error) {
	if contracts.Multicall == (common.Address{}) {
		contracts.Multicall = Multicall3Address
	}

	r := &Reader{backend: backend, contracts: contracts}
	for _, m := range []struct {
		name string
		meta *bind.MetaData
		dst  **abi.ABI
	}{
		{"factory", FomoFactoryMetaData, &r.factoryABI},
		{"erc20", ERC20MetaData, &r.erc20ABI},
		{"locker", LiquidityLockerMetaData, &r.lockerABI},
		{"pool", UniswapV3PoolMetaData, &r.poolABI},
		{"position manager", NonfungiblePositionManagerMetaData, &r.positionManagerABI},
		{"price feed", AggregatorV3MetaData, &r.feedABI},
	} {
		parsed, err := m.meta.GetAbi()
		if err != nil {
			return nil, fmt.Errorf("invalid %s ABI: %w", m.name, err)
		}
		*m.dst = parsed
	}

	multicallABI, err := Multicall3MetaData.GetAbi()
	if err != nil {
		return nil, fmt.Errorf("invalid multicall ABI: %w", err)
	}

	r.factory = bind.NewBoundContract(contracts.Factory, *r.factoryABI, backend, nil, nil)
	r.multicall = bind.NewBoundContract(contracts.Multicall, *multicallABI, backend, nil, nil)
	return r, nil
}

// QueryMemecoins lists every memecoin the factory has created, oldest first
func (r *Reader) QueryMemecoins(ctx context.Context) ([]common.Address, error) {
	var out []interface{}
	err := r.factory.Call(&bind.CallOpts{Context: ctx}, &out, "queryMemecoins", big.NewInt(0), math.MaxBig256, false)
	if err != nil {
		return nil, fmt.Errorf("queryMemecoins: %w", err)
	}

	return *abi.ConvertType(out[0], new([]common.Address)).(*[]common.Address), nil
}

// MemecoinsOf lists the memecoins created by account
func (r *Reader) MemecoinsOf(ctx context.Context, account common.Address) ([]common.Address, error) {
	var out []interface{}
	if err := r.factory.Call(&bind.CallOpts{Context: ctx}, &out, "memecoinsOf", account); err != nil {
		return nil, fmt.Errorf("memecoinsOf %s: %w", account.Hex(), err)
	}

	return *abi.ConvertType(out[0], new([]common.Address)).(*[]common.Address), nil
}

// PoolStates reads the pool of each token and the balances held by it. The result is index
// aligned with tokens.
func (r *Reader) PoolStates(ctx context.Context, tokens []common.Address) ([]*PoolState, error) {
	if len(tokens) == 0 {
		return []*PoolState{}, nil
	}

	// pools first, the balances are keyed by pool address
	metaCalls := make([]contractCall, 0, len(tokens)+1)
	for _, token := range tokens {
		metaCalls = append(metaCalls, contractCall{r.factoryABI, r.contracts.Factory, "poolMetadataOf", []interface{}{token}})
	}
	metaCalls = append(metaCalls, contractCall{r.erc20ABI, r.contracts.Weth, "decimals", nil})

	metas, err := r.aggregate(ctx, metaCalls)
	if err != nil {
		return nil, err
	}
	wethDecimals := *abi.ConvertType(metas[len(tokens)][0], new(uint8)).(*uint8)

	states := make([]*PoolState, len(tokens))
	const perToken = 6
	balanceCalls := make([]contractCall, 0, len(tokens)*perToken)
	for i, token := range tokens {
		states[i] = &PoolState{
			Token:        token,
			Pool:         *abi.ConvertType(metas[i][0], new(common.Address)).(*common.Address),
			PositionID:   *abi.ConvertType(metas[i][1], new(*big.Int)).(**big.Int),
			WethDecimals: wethDecimals,
		}
		pool := states[i].Pool
		balanceCalls = append(balanceCalls,
			contractCall{r.erc20ABI, token, "name", nil},
			contractCall{r.erc20ABI, token, "symbol", nil},
			contractCall{r.erc20ABI, token, "decimals", nil},
			contractCall{r.erc20ABI, token, "totalSupply", nil},
			contractCall{r.erc20ABI, token, "balanceOf", []interface{}{pool}},
			contractCall{r.erc20ABI, r.contracts.Weth, "balanceOf", []interface{}{pool}},
		)
	}

	values, err := r.aggregate(ctx, balanceCalls)
	if err != nil {
		return nil, err
	}
	for i, state := range states {
		v := values[i*perToken : (i+1)*perToken]
		state.Name = *abi.ConvertType(v[0][0], new(string)).(*string)
		state.Symbol = *abi.ConvertType(v[1][0], new(string)).(*string)
		state.Decimals = *abi.ConvertType(v[2][0], new(uint8)).(*uint8)
		state.TotalSupply = *abi.ConvertType(v[3][0], new(*big.Int)).(**big.Int)
		state.TokenBalance = *abi.ConvertType(v[4][0], new(*big.Int)).(**big.Int)
		state.WethBalance = *abi.ConvertType(v[5][0], new(*big.Int)).(**big.Int)
	}

	return states, nil
}

// PoolPosition reads who owns the locked position of token and simulates a collect from the
// locker to learn the fees it could claim.
func (r *Reader) PoolPosition(ctx context.Context, token common.Address) (*PoolPosition, error) {
	metas, err := r.aggregate(ctx, []contractCall{{r.factoryABI, r.contracts.Factory, "poolMetadataOf", []interface{}{token}}})
	if err != nil {
		return nil, err
	}

	pos := &PoolPosition{
		Pool:       *abi.ConvertType(metas[0][0], new(common.Address)).(*common.Address),
		PositionID: *abi.ConvertType(metas[0][1], new(*big.Int)).(**big.Int),
	}

	values, err := r.aggregate(ctx, []contractCall{
		{r.lockerABI, r.contracts.Locker, "ownerOf", []interface{}{pos.PositionID}},
		{r.poolABI, pos.Pool, "token0", nil},
		{r.poolABI, pos.Pool, "token1", nil},
	})
	if err != nil {
		return nil, err
	}
	pos.Owner = *abi.ConvertType(values[0][0], new(common.Address)).(*common.Address)
	pos.Token0 = *abi.ConvertType(values[1][0], new(common.Address)).(*common.Address)
	pos.Token1 = *abi.ConvertType(values[2][0], new(common.Address)).(*common.Address)

	params := collectParams{
		TokenId:    pos.PositionID,
		Recipient:  pos.Pool,
		Amount0Max: maxUint128,
		Amount1Max: maxUint128,
	}
	data, err := r.positionManagerABI.Pack("collect", params)
	if err != nil {
		return nil, fmt.Errorf("pack collect: %w", err)
	}

	// the locker holds the position NFT, so only a call from it is authorized
	manager := r.contracts.PositionManager
	raw, err := r.backend.CallContract(ctx, ethereum.CallMsg{From: r.contracts.Locker, To: &manager, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("collect %s: %w", pos.PositionID, err)
	}
	fees, err := r.positionManagerABI.Unpack("collect", raw)
	if err != nil {
		return nil, fmt.Errorf("unpack collect: %w", err)
	}
	pos.Fees0 = *abi.ConvertType(fees[0], new(*big.Int)).(**big.Int)
	pos.Fees1 = *abi.ConvertType(fees[1], new(*big.Int)).(**big.Int)

	return pos, nil
}

// EthUsdPrice returns the latest Chainlink ETH/USD answer and its decimals
func (r *Reader) EthUsdPrice(ctx context.Context) (*big.Int, uint8, error) {
	if r.contracts.EthUsdFeed == (common.Address{}) {
		return nil, 0, ErrFeedNotConfigured
	}

	values, err := r.aggregate(ctx, []contractCall{
		{r.feedABI, r.contracts.EthUsdFeed, "latestRoundData", nil},
		{r.feedABI, r.contracts.EthUsdFeed, "decimals", nil},
	})
	if err != nil {
		return nil, 0, err
	}

	answer := *abi.ConvertType(values[0][1], new(*big.Int)).(**big.Int)
	decimals := *abi.ConvertType(values[1][0], new(uint8)).(*uint8)
	return answer, decimals, nil
}

type contractCall struct {
	contract *abi.ABI
	target   common.Address
	method   string
	args     []interface{}
}

// call3 and call3Result mirror Multicall3.Call3 and Multicall3.Result field by field
type call3 struct {
	Target       common.Address
	AllowFailure bool
	CallData     []byte
}

type call3Result struct {
	Success    bool
	ReturnData []byte
}

type collectParams struct {
	TokenId    *big.Int
	Recipient  common.Address
	Amount0Max *big.Int
	Amount1Max *big.Int
}

// aggregate runs calls through Multicall3 and returns the unpacked outputs of each, in order. Any
// failing sub call fails the whole batch.
func (r *Reader) aggregate(ctx context.Context, calls []contractCall) ([][]interface{}, error) {
	out := make([][]interface{}, 0, len(calls))

	for start := 0; start < len(calls); start += maxMulticallSize {
		chunk := calls[start:min(start+maxMulticallSize, len(calls))]

		packed := make([]call3, len(chunk))
		for i, c := range chunk {
			data, err := c.contract.Pack(c.method, c.args...)
			if err != nil {
				return nil, fmt.Errorf("pack %s: %w", c.method, err)
			}
			packed[i] = call3{Target: c.target, CallData: data}
		}

		var res []interface{}
		if err := r.multicall.Call(&bind.CallOpts{Context: ctx}, &res, "aggregate3", packed); err != nil {
			return nil, fmt.Errorf("aggregate3 of %d calls: %w", len(packed), err)
		}
		results := *abi.ConvertType(res[0], new([]call3Result)).(*[]call3Result)
		if len(results) != len(chunk) {
			return nil, fmt.Errorf("aggregate3 returned %d results for %d calls", len(results), len(chunk))
		}

		for i, result := range results {
			c := chunk[i]
			if !result.Success {
				return nil, fmt.Errorf("%s on %s reverted", c.method, c.target.Hex())
			}
			values, err := c.contract.Unpack(c.method, result.ReturnData)
			if err != nil {
				return nil, fmt.Errorf("unpack %s on %s: %w", c.method, c.target.Hex(), err)
			}
			out = append(out, values)
		}
	}

	return out, nil
}
