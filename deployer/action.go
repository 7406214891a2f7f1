package deployer

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

const (
	ArgString  = "string"
	ArgAddress = "address"
	ArgU8      = "u8"
	ArgU64     = "u64"
	ArgU128    = "u128"
	ArgBool    = "bool"

	NftModule         = "elevtrix_nft"
	NftDeployFunction = "deploy"
)

var identifierRegexp = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// FunctionId identifies a Move entry function, "0xaddr::module::name".
type FunctionId struct {
	Address string
	Module  string
	Name    string
}

func ParseFunctionId(s string) (*FunctionId, error) {
	parts := strings.Split(strings.TrimSpace(s), "::")
	if len(parts) != 3 {
		return nil, newDeployDataError("invalid function id %q, want address::module::name", s)
	}
	address, err := NormalizeAddress(parts[0])
	if err != nil {
		return nil, err
	}
	if !identifierRegexp.MatchString(parts[1]) {
		return nil, newDeployDataError("invalid module name %q", parts[1])
	}
	if !identifierRegexp.MatchString(parts[2]) {
		return nil, newDeployDataError("invalid function name %q", parts[2])
	}
	return &FunctionId{Address: address, Module: parts[1], Name: parts[2]}, nil
}

func (f FunctionId) String() string {
	return f.Address + "::" + f.Module + "::" + f.Name
}

type Argument struct {
	Kind  string
	Value string
}

// ParseArgument reads "kind:value". Values without a known kind prefix are strings,
// so "test12" and "string:a:b" both stay literal.
func ParseArgument(s string) Argument {
	if kind, value, ok := strings.Cut(s, ":"); ok {
		switch kind {
		case ArgString, ArgAddress, ArgU8, ArgU64, ArgU128, ArgBool:
			return Argument{Kind: kind, Value: value}
		}
	}
	return Argument{Kind: ArgString, Value: s}
}

// jsonValue is the representation the fullnode expects in an entry function payload.
func (a Argument) jsonValue() (interface{}, error) {
	switch a.Kind {
	case ArgAddress:
		return NormalizeAddress(a.Value)
	case ArgU8:
		v, err := strconv.ParseUint(a.Value, 10, 8)
		if err != nil {
			return nil, newDeployDataError("invalid u8 %q", a.Value)
		}
		return v, nil
	case ArgBool:
		v, err := strconv.ParseBool(a.Value)
		if err != nil {
			return nil, newDeployDataError("invalid bool %q", a.Value)
		}
		return v, nil
	default:
		// strings, u64 and u128 are all sent as json strings
		return a.Value, nil
	}
}

type DeployAction struct {
	Function      *FunctionId
	TypeArguments []string
	Arguments     []Argument
}

// NewEntryFunctionAction builds a call of function with raw "kind:value" arguments.
func NewEntryFunctionAction(function string, args []string) (*DeployAction, error) {
	fid, err := ParseFunctionId(function)
	if err != nil {
		return nil, err
	}
	arguments := make([]Argument, len(args))
	for i, a := range args {
		arguments[i] = ParseArgument(a)
	}
	action := &DeployAction{
		Function:      fid,
		TypeArguments: []string{},
		Arguments:     arguments,
	}
	// reject anything the chain would reject before paying for it
	if _, err := EncodeArguments(arguments); err != nil {
		return nil, err
	}
	return action, nil
}

// NewNftDeployAction calls contract::elevtrix_nft::deploy(name, symbol, owner).
func NewNftDeployAction(contractAddress, name, symbol, owner string) (*DeployAction, error) {
	if name == "" {
		return nil, newDeployDataError("collection name must not empty")
	}
	function := contractAddress + "::" + NftModule + "::" + NftDeployFunction
	return NewEntryFunctionAction(function, []string{
		ArgString + ":" + name,
		ArgString + ":" + symbol,
		ArgAddress + ":" + owner,
	})
}

func (a *DeployAction) JsonString() string {
	bytes, err := json.Marshal(a)
	if err != nil {
		return ""
	}
	return string(bytes)
}
