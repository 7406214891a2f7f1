package deployer

import (
	"context"
	"fmt"
	"io"

	"github.com/coming-chat/wallet-SDK/core/aptos"
	"github.com/coming-chat/wallet-SDK/core/base"
	"go.uber.org/zap"
)

// Runner funds an account and calls one entry function with it.
type Runner struct {
	Contract *DeployContract
	Faucet   Faucet
	Logger   *zap.Logger
	Out      io.Writer
}

type Result struct {
	Address    string
	Mnemonic   string // empty when the account came from a private key
	FundHashes []string
	Hash       string
	Detail     *base.TransactionDetail
}

func NewRunner(cfg *Config, logger *zap.Logger, out io.Writer) (*Runner, error) {
	nc, err := cfg.ResolveNetwork()
	if err != nil {
		return nil, err
	}
	chain := aptos.NewChainWithRestUrl(nc.NodeUrl)
	contract, err := NewDeployContract(chain, cfg.ContractAddress)
	if err != nil {
		return nil, err
	}
	logger.Debug("using network",
		zap.String("network", nc.Name),
		zap.String("node", nc.NodeUrl),
		zap.String("faucet", nc.FaucetUrl))
	return &Runner{
		Contract: contract,
		Faucet:   NewAptosFaucet(nc.FaucetUrl),
		Logger:   logger,
		Out:      out,
	}, nil
}

// Run executes account setup, funding, submission and confirmation in order.
func (r *Runner) Run(ctx context.Context, cfg *Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	action, err := NewEntryFunctionAction(cfg.FunctionId(), cfg.Arguments)
	if err != nil {
		return nil, err
	}
	action.TypeArguments = cfg.TypeArguments
	opts := WaitOptions{PollInterval: cfg.PollInterval, Timeout: cfg.WaitTimeout}

	account, mnemonic, err := r.account(cfg)
	if err != nil {
		return nil, fmt.Errorf("account: %w", err)
	}
	result := &Result{Address: account.Address(), Mnemonic: mnemonic}
	fmt.Fprintf(r.Out, "=== Addresses ===\n\n")
	fmt.Fprintf(r.Out, "Account address is: %s\n", result.Address)

	if !cfg.SkipFaucet {
		result.FundHashes, err = r.fund(ctx, result.Address, cfg.FundAmount, opts)
		if err != nil {
			return result, fmt.Errorf("fund %s: %w", result.Address, err)
		}
	}

	if err := r.deploy(ctx, account, action, cfg.EstimateGas, opts, result); err != nil {
		if !cfg.SkipFaucet && result.Mnemonic != "" {
			r.Logger.Warn("deploy failed after funding, keep the mnemonic to recover the account",
				zap.String("address", result.Address),
				zap.String("mnemonic", result.Mnemonic))
		}
		return result, err
	}
	return result, nil
}

func (r *Runner) deploy(ctx context.Context, account base.Account, action *DeployAction, estimateGas bool, opts WaitOptions, result *Result) error {
	encoded, err := EncodeArguments(action.Arguments)
	if err != nil {
		return err
	}
	size := 0
	for _, b := range encoded {
		size += len(b)
	}
	r.Logger.Info("built entry function call",
		zap.String("function", action.Function.String()),
		zap.Int("args", len(encoded)),
		zap.Int("argsBcsBytes", size))

	if estimateGas {
		fee, err := r.Contract.EstimateGasFee(account, action)
		if err != nil {
			r.Logger.Warn("gas estimation failed", zap.Error(err))
		} else {
			r.Logger.Info("estimated gas fee", zap.String("octas", fee))
		}
	}

	result.Hash, err = r.Contract.SendTransaction(account, action)
	if err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	fmt.Fprintf(r.Out, "Transaction hash: %s\n", result.Hash)

	result.Detail, err = r.Contract.WaitForTransaction(ctx, result.Hash, opts)
	if err != nil {
		return err
	}
	r.Logger.Info("transaction committed",
		zap.String("hash", result.Hash),
		zap.String("fee", result.Detail.EstimateFees))
	return nil
}

func (r *Runner) account(cfg *Config) (*aptos.Account, string, error) {
	if cfg.PrivateKey != "" {
		account, err := LoadAccount(cfg.PrivateKey)
		return account, "", err
	}
	return NewRandomAccount()
}

func (r *Runner) fund(ctx context.Context, address string, amount uint64, opts WaitOptions) ([]string, error) {
	if r.Faucet == nil {
		return nil, ErrNoFaucet
	}
	hashes, err := r.Faucet.FundAccount(ctx, address, amount)
	if err != nil {
		return nil, err
	}
	for _, hash := range hashes {
		if _, err := waitForTransaction(ctx, r.Contract.client, hash, address, opts); err != nil {
			return hashes, err
		}
		r.Logger.Debug("faucet transaction committed", zap.String("hash", hash))
	}
	r.Logger.Info("account funded", zap.String("address", address), zap.Uint64("amount", amount))
	return hashes, nil
}
