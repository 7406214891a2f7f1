package deployer

import (
	"github.com/coming-chat/wallet-SDK/core/aptos"
	"github.com/tyler-smith/go-bip39"
)

// NewRandomAccount creates a fresh account from a new 12 word mnemonic.
// The mnemonic is returned so the caller can recover the account later.
func NewRandomAccount() (*aptos.Account, string, error) {
	entropy, err := bip39.NewEntropy(128)
	if err != nil {
		return nil, "", err
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return nil, "", err
	}
	account, err := aptos.NewAccountWithMnemonic(mnemonic)
	if err != nil {
		return nil, "", err
	}
	return account, mnemonic, nil
}

// LoadAccount reuses an existing key instead of generating one.
func LoadAccount(privateKeyHex string) (*aptos.Account, error) {
	if privateKeyHex == "" {
		return nil, newDeployDataError("private key must not empty")
	}
	return aptos.AccountWithPrivateKey(privateKeyHex)
}
