package deployer

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/fardream/go-bcs/bcs"
)

const AddressLength = 32

var maxU128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

// ParseAddress accepts short ("0x1") and long form account addresses.
func ParseAddress(s string) ([AddressLength]byte, error) {
	var addr [AddressLength]byte
	h := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "0x")
	if h == "" || len(h) > AddressLength*2 {
		return addr, newDeployDataError("invalid address %q", s)
	}
	if len(h)%2 == 1 {
		h = "0" + h
	}
	b, err := hexutil.Decode("0x" + h)
	if err != nil {
		return addr, newDeployDataError("invalid address %q: %v", s, err)
	}
	copy(addr[:], common.LeftPadBytes(b, AddressLength))
	return addr, nil
}

// NormalizeAddress returns the 0x-prefixed long form of an address.
func NormalizeAddress(s string) (string, error) {
	addr, err := ParseAddress(s)
	if err != nil {
		return "", err
	}
	return hexutil.Encode(addr[:]), nil
}

// EncodeArguments returns the BCS bytes of each entry function argument.
func EncodeArguments(args []Argument) ([][]byte, error) {
	encoded := make([][]byte, len(args))
	for i, arg := range args {
		b, err := encodeArgument(arg)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		encoded[i] = b
	}
	return encoded, nil
}

func encodeArgument(arg Argument) ([]byte, error) {
	switch arg.Kind {
	case ArgString:
		return bcs.Marshal(arg.Value)
	case ArgAddress:
		addr, err := ParseAddress(arg.Value)
		if err != nil {
			return nil, err
		}
		return bcs.Marshal(addr)
	case ArgU8:
		v, err := strconv.ParseUint(arg.Value, 10, 8)
		if err != nil {
			return nil, newDeployDataError("invalid u8 %q", arg.Value)
		}
		return bcs.Marshal(uint8(v))
	case ArgU64:
		v, err := strconv.ParseUint(arg.Value, 10, 64)
		if err != nil {
			return nil, newDeployDataError("invalid u64 %q", arg.Value)
		}
		return bcs.Marshal(v)
	case ArgU128:
		v, ok := new(big.Int).SetString(arg.Value, 10)
		if !ok || v.Sign() < 0 || v.Cmp(maxU128) > 0 {
			return nil, newDeployDataError("invalid u128 %q", arg.Value)
		}
		// little endian: low word first
		lo := new(big.Int).And(v, new(big.Int).SetUint64(^uint64(0))).Uint64()
		hi := new(big.Int).Rsh(v, 64).Uint64()
		return bcs.Marshal([2]uint64{lo, hi})
	case ArgBool:
		v, err := strconv.ParseBool(arg.Value)
		if err != nil {
			return nil, newDeployDataError("invalid bool %q", arg.Value)
		}
		return bcs.Marshal(v)
	default:
		return nil, newDeployDataError("unsupported argument kind %s", arg.Kind)
	}
}
