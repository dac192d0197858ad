package sponsorship

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/FomoFactory/fomo-relay/core/chainio/aa"
	"github.com/FomoFactory/fomo-relay/pkg/byte4"
)

var (
	ErrMalformedCallData = errors.New("malformed call data")
	ErrUnexpectedArgs    = errors.New("unexpected decoded arguments")
)

// DecodeError is the failure side of every decode step. Evaluate turns it into a rejection.
type DecodeError struct {
	Stage string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Stage, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decoded is the outer call a user operation makes on its smart wallet. It is one of
// Unknown, Execute or ExecuteBatch.
type Decoded interface {
	// Calls normalizes the outer call into the list of sub calls it performs
	Calls() []aa.Call
	isDecoded()
}

// Unknown is a smart wallet function that is neither execute nor executeBatch
type Unknown struct {
	Method string
}

type Execute struct {
	Call aa.Call
}

type ExecuteBatch struct {
	Batch []aa.Call
}

func (Unknown) Calls() []aa.Call        { return nil }
func (d Execute) Calls() []aa.Call      { return []aa.Call{d.Call} }
func (d ExecuteBatch) Calls() []aa.Call { return d.Batch }

func (Unknown) isDecoded()      {}
func (Execute) isDecoded()      {}
func (ExecuteBatch) isDecoded() {}

// DecodeAccountCall decodes a user operation callData against the smart wallet ABI
func DecodeAccountCall(callData []byte) (Decoded, error) {
	parsed, err := aa.SmartWalletABI()
	if err != nil {
		return nil, &DecodeError{Stage: "account", Err: err}
	}

	method, args, err := unpackCall(parsed, callData)
	if err != nil {
		return nil, &DecodeError{Stage: "account", Err: err}
	}

	switch method.RawName {
	case "execute":
		if len(args) != 3 {
			return nil, &DecodeError{Stage: "execute", Err: ErrUnexpectedArgs}
		}
		target, okTarget := args[0].(common.Address)
		value, okValue := args[1].(*big.Int)
		data, okData := args[2].([]byte)
		if !okTarget || !okValue || !okData {
			return nil, &DecodeError{Stage: "execute", Err: ErrUnexpectedArgs}
		}
		return Execute{Call: aa.Call{Target: target, Value: value, Data: data}}, nil

	case "executeBatch":
		var calls []aa.Call
		if err := method.Inputs.Copy(&calls, args); err != nil {
			return nil, &DecodeError{Stage: "executeBatch", Err: fmt.Errorf("%w: %v", ErrUnexpectedArgs, err)}
		}
		return ExecuteBatch{Batch: calls}, nil

	default:
		return Unknown{Method: method.RawName}, nil
	}
}

// DecodeFunctionName decodes data against contract and returns the raw name of the matched
// function once its arguments unpack cleanly.
func DecodeFunctionName(contract *abi.ABI, data []byte) (string, error) {
	method, _, err := unpackCall(contract, data)
	if err != nil {
		return "", err
	}
	return method.RawName, nil
}

// unpackCall resolves the selector and unpacks the arguments. The abi package can panic on
// adversarial offsets, which is reported as ErrMalformedCallData.
func unpackCall(contract *abi.ABI, data []byte) (method *abi.Method, args []interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			method, args = nil, nil
			err = fmt.Errorf("%w: %v", ErrMalformedCallData, r)
		}
	}()

	method, err = byte4.GetMethodFromCalldata(*contract, data)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedCallData, err)
	}

	args, err = method.Inputs.Unpack(data[4:])
	if err != nil {
		return nil, nil, fmt.Errorf("%w: unpack %s: %v", ErrMalformedCallData, method.RawName, err)
	}
	return method, args, nil
}
