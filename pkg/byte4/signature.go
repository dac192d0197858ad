package byte4

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/crypto"
)

// Signature returns the canonical `name(type1,type2,...)` form of an ABI method. Overloaded methods
// are keyed as execute0, execute1... inside abi.ABI, so the raw name is used here.
func Signature(method abi.Method) string {
	types := make([]string, 0, len(method.Inputs))
	for _, input := range method.Inputs {
		types = append(types, input.Type.String())
	}

	return fmt.Sprintf("%v(%v)", method.RawName, strings.Join(types, ","))
}

// GetMethodFromCalldata returns the ABI method matching the 4-byte selector at the start of calldata
func GetMethodFromCalldata(parsedABI abi.ABI, calldata []byte) (*abi.Method, error) {
	if len(calldata) < 4 {
		return nil, fmt.Errorf("invalid selector length: %d", len(calldata))
	}

	// Function calls in the EVM are identified by the first four bytes of keccak256 of the
	// canonical signature.
	methodID := calldata[:4]

	for _, method := range parsedABI.Methods {
		hash := crypto.Keccak256([]byte(Signature(method)))[:4]
		if bytes.Equal(hash, methodID) {
			m := method
			return &m, nil
		}
	}

	return nil, fmt.Errorf("no matching method found for selector: 0x%x", methodID)
}

// Selector is the hex form of a method's 4-byte id, used in logs
func Selector(calldata []byte) string {
	if len(calldata) < 4 {
		return fmt.Sprintf("0x%x", calldata)
	}
	return fmt.Sprintf("0x%x", calldata[:4])
}
