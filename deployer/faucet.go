package deployer

import (
	"context"

	"github.com/coming-chat/go-aptos/aptosclient"
)

type Faucet interface {
	// FundAccount mints amount octas to address and returns the faucet transaction hashes.
	FundAccount(ctx context.Context, address string, amount uint64) ([]string, error)
}

type aptosFaucet struct {
	url  string
	fund func(address string, amount uint64, faucetUrl string) ([]string, error)
}

type fundResult struct {
	hashes []string
	err    error
}

// NewAptosFaucet returns nil when url is empty, callers must handle that as ErrNoFaucet.
func NewAptosFaucet(url string) Faucet {
	if url == "" {
		return nil
	}
	return &aptosFaucet{url: url, fund: aptosclient.FaucetFundAccount}
}

func (f *aptosFaucet) FundAccount(ctx context.Context, address string, amount uint64) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if amount == 0 {
		return nil, newDeployDataError("fund amount must be positive")
	}
	// the sdk request carries no context or timeout, so give up on it when ctx ends
	done := make(chan fundResult, 1)
	go func() {
		hashes, err := f.fund(address, amount, f.url)
		done <- fundResult{hashes: hashes, err: err}
	}()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		return res.hashes, res.err
	}
}
