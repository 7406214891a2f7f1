package deployer

import "fmt"

// NetworkConfig selects the fullnode and faucet used by the deployer.
// An empty FaucetUrl means the network cannot be funded from a faucet.
type NetworkConfig struct {
	Name      string
	NodeUrl   string
	FaucetUrl string
}

var (
	DevnetConfig = NetworkConfig{
		Name:      "devnet",
		NodeUrl:   "https://fullnode.devnet.aptoslabs.com",
		FaucetUrl: "https://faucet.devnet.aptoslabs.com",
	}
	TestnetConfig = NetworkConfig{
		Name:      "testnet",
		NodeUrl:   "https://fullnode.testnet.aptoslabs.com",
		FaucetUrl: "https://faucet.testnet.aptoslabs.com",
	}
	LocalnetConfig = NetworkConfig{
		Name:      "local",
		NodeUrl:   "http://127.0.0.1:8080",
		FaucetUrl: "http://127.0.0.1:8081",
	}
	// MainnetConfig has no faucet, these are real user assets.
	MainnetConfig = NetworkConfig{
		Name:    "mainnet",
		NodeUrl: "https://fullnode.mainnet.aptoslabs.com",
	}
)

// NamedNetworks maps a network name to its NetworkConfig
var NamedNetworks map[string]NetworkConfig

func init() {
	NamedNetworks = make(map[string]NetworkConfig, 4)
	for _, nc := range []NetworkConfig{DevnetConfig, TestnetConfig, LocalnetConfig, MainnetConfig} {
		NamedNetworks[nc.Name] = nc
	}
}

func NetworkByName(name string) (NetworkConfig, error) {
	nc, ok := NamedNetworks[name]
	if !ok {
		return NetworkConfig{}, fmt.Errorf("unknown network %q", name)
	}
	return nc, nil
}

func (nc NetworkConfig) HasFaucet() bool {
	return nc.FaucetUrl != ""
}
