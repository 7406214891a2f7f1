package deployer

import (
	"errors"
	"fmt"
	"time"
)

const (
	DefaultNetwork         = "testnet"
	DefaultContractAddress = "0x010e9d09c4c87a2495dc778faeba68ce6a8d7bce7f967adf11abf4fb53b1ed54"
	DefaultFundAmount      = uint64(100_000_000)
)

// DefaultArguments are name, symbol and owner of the deployed collection.
var DefaultArguments = []string{"test12", "test12", ArgAddress + ":0x1"}

type Config struct {
	Network   string
	NodeUrl   string // overrides the named network's fullnode
	FaucetUrl string // overrides the named network's faucet

	ContractAddress string
	Module          string
	Function        string
	TypeArguments   []string
	Arguments       []string

	FundAmount  uint64
	PrivateKey  string // reuse an account instead of generating one
	SkipFaucet  bool
	EstimateGas bool

	WaitTimeout  time.Duration
	PollInterval time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		Network:         DefaultNetwork,
		ContractAddress: DefaultContractAddress,
		Module:          NftModule,
		Function:        NftDeployFunction,
		Arguments:       append([]string(nil), DefaultArguments...),
		FundAmount:      DefaultFundAmount,
		WaitTimeout:     DefaultWaitTimeout,
		PollInterval:    DefaultPollInterval,
	}
}

// FunctionId returns "contract::module::function".
func (c *Config) FunctionId() string {
	return c.ContractAddress + "::" + c.Module + "::" + c.Function
}

// ResolveNetwork applies the url overrides on top of the named network.
func (c *Config) ResolveNetwork() (NetworkConfig, error) {
	nc, err := NetworkByName(c.Network)
	if err != nil {
		if c.NodeUrl == "" {
			return NetworkConfig{}, err
		}
		nc = NetworkConfig{Name: c.Network}
	}
	if c.NodeUrl != "" {
		nc.NodeUrl = c.NodeUrl
	}
	if c.FaucetUrl != "" {
		nc.FaucetUrl = c.FaucetUrl
	}
	return nc, nil
}

func (c *Config) Validate() error {
	if c.Module == "" || c.Function == "" {
		return errors.New("module and function must not empty")
	}
	if _, err := ParseFunctionId(c.FunctionId()); err != nil {
		return err
	}
	nc, err := c.ResolveNetwork()
	if err != nil {
		return err
	}
	if !c.SkipFaucet {
		if !nc.HasFaucet() {
			return fmt.Errorf("%w: %s", ErrNoFaucet, nc.Name)
		}
		if c.FundAmount == 0 {
			return errors.New("fund amount must be positive")
		}
	}
	if c.SkipFaucet && c.PrivateKey == "" {
		return errors.New("a generated account can not pay gas without the faucet, set a private key")
	}
	if c.WaitTimeout <= 0 || c.PollInterval <= 0 {
		return errors.New("wait timeout and poll interval must be positive")
	}
	return nil
}
