package sponsorship

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/FomoFactory/fomo-relay/core/chainio/aa"
	"github.com/FomoFactory/fomo-relay/core/chainio/fomo"
	"github.com/FomoFactory/fomo-relay/pkg/byte4"
	"github.com/FomoFactory/fomo-relay/pkg/erc4337/userop"
	"github.com/FomoFactory/fomo-relay/pkg/logger"
)

// maxBatchCalls is one optional magic spend preamble plus the sponsored action
const maxBatchCalls = 2

var ErrInvalidPolicy = errors.New("invalid sponsorship policy")

// PolicyConfig is the per-chain allow list the evaluator is built with
type PolicyConfig struct {
	ChainID    *big.Int
	EntryPoint common.Address
	MagicSpend common.Address
	Factory    common.Address
	Locker     common.Address
	Router     common.Address
}

// AccountVerifier is the optional gate that checks the sender is a genuine smart wallet
type AccountVerifier interface {
	Verify(ctx context.Context, sender common.Address, initCode []byte) error
}

// targetRule allows calls to one contract when they decode as one of functions
type targetRule struct {
	name      string
	target    common.Address
	contract  *abi.ABI
	functions []string
}

type Evaluator struct {
	chainID    *big.Int
	entryPoint common.Address
	magicSpend common.Address

	// checked in order, the first rule whose target matches decides
	rules []targetRule
	erc20 *abi.ABI

	verifier AccountVerifier
	logger   logger.Logger
}

type Option func(*Evaluator)

// WithAccountVerifier enables the sender bytecode and proxy implementation check
func WithAccountVerifier(v AccountVerifier) Option {
	return func(e *Evaluator) {
		e.verifier = v
	}
}

func WithLogger(l logger.Logger) Option {
	return func(e *Evaluator) {
		e.logger = logger.EnsureLogger(l)
	}
}

func NewEvaluator(cfg PolicyConfig, opts ...Option) (*Evaluator, error) {
	if cfg.ChainID == nil || cfg.ChainID.Sign() <= 0 {
		return nil, fmt.Errorf("%w: chain id is required", ErrInvalidPolicy)
	}
	if cfg.EntryPoint == (common.Address{}) {
		return nil, fmt.Errorf("%w: entrypoint is required", ErrInvalidPolicy)
	}

	factoryABI, err := fomo.FomoFactoryMetaData.GetAbi()
	if err != nil {
		return nil, err
	}
	lockerABI, err := fomo.LiquidityLockerMetaData.GetAbi()
	if err != nil {
		return nil, err
	}
	routerABI, err := fomo.UniversalRouterMetaData.GetAbi()
	if err != nil {
		return nil, err
	}
	erc20ABI, err := fomo.ERC20MetaData.GetAbi()
	if err != nil {
		return nil, err
	}
	if _, err := aa.SmartWalletABI(); err != nil {
		return nil, err
	}

	e := &Evaluator{
		chainID:    new(big.Int).Set(cfg.ChainID),
		entryPoint: cfg.EntryPoint,
		magicSpend: cfg.MagicSpend,
		rules: []targetRule{
			{name: "factory", target: cfg.Factory, contract: factoryABI, functions: []string{"createMemecoin"}},
			{name: "locker", target: cfg.Locker, contract: lockerABI, functions: []string{"claimFees"}},
			{name: "router", target: cfg.Router, contract: routerABI, functions: []string{"execute"}},
		},
		erc20:  erc20ABI,
		logger: logger.NewNoOpLogger(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// Evaluate reports whether the operation's gas should be sponsored. It never fails: anything
// unexpected is a rejection.
func (e *Evaluator) Evaluate(ctx context.Context, chainID *big.Int, entryPoint common.Address, op *userop.UserOperation) bool {
	return e.Decide(ctx, chainID, entryPoint, op).Sponsor
}

// Decide is Evaluate with the reason attached
func (e *Evaluator) Decide(ctx context.Context, chainID *big.Int, entryPoint common.Address, op *userop.UserOperation) Decision {
	if chainID == nil || chainID.Cmp(e.chainID) != 0 {
		return reject(ReasonChainMismatch)
	}
	// common.Address is the normalized form, so this is a case-insensitive compare of the hex
	if entryPoint != e.entryPoint {
		return reject(ReasonEntryPointMismatch)
	}
	if op == nil {
		return reject(ReasonDecodeFailure)
	}

	if e.verifier != nil {
		if err := e.verifier.Verify(ctx, op.Sender, op.InitCode); err != nil {
			e.logger.Warn("sponsorship account check failed", "sender", op.Sender.Hex(), "error", err)
			return reject(ReasonAccountUnverified)
		}
	}

	decoded, err := DecodeAccountCall(op.CallData)
	if err != nil {
		e.logger.Warn("sponsorship check failed", "sender", op.Sender.Hex(), "selector", byte4.Selector(op.CallData), "error", err)
		return reject(ReasonDecodeFailure)
	}

	var calls []aa.Call
	switch d := decoded.(type) {
	case Execute, ExecuteBatch:
		calls = d.Calls()
	case Unknown:
		return Decision{Reason: ReasonUnsupportedFunction, Function: d.Method}
	default:
		return reject(ReasonUnsupportedFunction)
	}

	switch {
	case len(calls) == 0:
		return reject(ReasonEmptyBatch)
	case len(calls) > maxBatchCalls:
		return reject(ReasonBatchTooLarge)
	case len(calls) == maxBatchCalls && calls[0].Target != e.magicSpend:
		return reject(ReasonMagicSpendMissing)
	}

	return e.decideCall(op.Sender, calls[len(calls)-1])
}

// decideCall checks the sponsored action against the target allow list, falling back to a plain
// ERC20 approve for any other contract.
func (e *Evaluator) decideCall(sender common.Address, call aa.Call) Decision {
	for _, rule := range e.rules {
		if rule.target == (common.Address{}) || call.Target != rule.target {
			continue
		}
		return e.matchFunction(sender, call, rule.name, rule.contract, rule.functions)
	}

	return e.matchFunction(sender, call, "erc20", e.erc20, []string{"approve"})
}

func (e *Evaluator) matchFunction(sender common.Address, call aa.Call, name string, contract *abi.ABI, functions []string) Decision {
	decision := Decision{Reason: ReasonTargetNotAllowed, Target: name}

	function, err := DecodeFunctionName(contract, call.Data)
	if err != nil {
		e.logger.Warn("sponsored call does not decode", "sender", sender.Hex(), "target", call.Target.Hex(), "rule", name, "error", err)
		return decision
	}

	decision.Function = function
	for _, allowed := range functions {
		if function == allowed {
			decision.Sponsor = true
			decision.Reason = ReasonSponsored
			return decision
		}
	}
	return decision
}
