package deployer

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/sha3"
)

type fakeFaucet struct {
	hashes  []string
	err     error
	funded  []string
	amounts []uint64
}

func (f *fakeFaucet) FundAccount(ctx context.Context, address string, amount uint64) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.funded = append(f.funded, address)
	f.amounts = append(f.amounts, amount)
	return f.hashes, nil
}

func testRunner(t *testing.T, chain *fakeChain, fetcher *fakeFetcher, faucet Faucet) (*Runner, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &Runner{
		Contract: testContract(chain, fetcher),
		Faucet:   faucet,
		Logger:   zaptest.NewLogger(t),
		Out:      out,
	}, out
}

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.PollInterval = fastWait.PollInterval
	cfg.WaitTimeout = fastWait.Timeout
	return cfg
}

func TestRunnerRun(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.add("0xfaucet", pending("0xfaucet"), nil)
	fetcher.add("0xfaucet", committed("0xfaucet", true), nil)
	fetcher.add("0xdeploy", committed("0xdeploy", true), nil)
	chain := &fakeChain{hash: "0xdeploy", gasFee: "1000"}
	faucet := &fakeFaucet{hashes: []string{"0xfaucet"}}
	runner, out := testRunner(t, chain, fetcher, faucet)

	cfg := testConfig()
	cfg.EstimateGas = true
	result, err := runner.Run(context.Background(), cfg)
	require.Nil(t, err)

	require.NotEmpty(t, result.Address)
	require.NotEmpty(t, result.Mnemonic)
	require.Equal(t, []string{result.Address}, faucet.funded)
	require.Equal(t, []uint64{DefaultFundAmount}, faucet.amounts)
	require.Equal(t, []string{"0xfaucet"}, result.FundHashes)
	require.Equal(t, "0xdeploy", result.Hash)
	require.Equal(t, "700", result.Detail.EstimateFees)
	require.Len(t, chain.submitted, 1)
	require.Equal(t, 2, fetcher.calls["0xfaucet"])

	console := out.String()
	require.Contains(t, console, "=== Addresses ===")
	require.Contains(t, console, result.Address)
	require.Contains(t, console, "Transaction hash: 0xdeploy")
}

func TestRunnerFundFails(t *testing.T) {
	chain := &fakeChain{hash: "0xdeploy"}
	runner, _ := testRunner(t, chain, newFakeFetcher(), &fakeFaucet{err: errors.New("faucet is rate limited")})

	result, err := runner.Run(context.Background(), testConfig())
	require.ErrorContains(t, err, "faucet is rate limited")
	require.NotEmpty(t, result.Address)
	require.Empty(t, chain.submitted)
}

func TestRunnerNoFaucet(t *testing.T) {
	runner, _ := testRunner(t, &fakeChain{}, newFakeFetcher(), nil)
	_, err := runner.Run(context.Background(), testConfig())
	require.True(t, errors.Is(err, ErrNoFaucet))
}

func TestRunnerDeployFails(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.add("0xdeploy", committed("0xdeploy", false), nil)
	chain := &fakeChain{hash: "0xdeploy", gasErr: errors.New("simulation failed")}
	runner, _ := testRunner(t, chain, fetcher, &fakeFaucet{})

	cfg := testConfig()
	cfg.EstimateGas = true
	result, err := runner.Run(context.Background(), cfg)
	var failed *TransactionFailedError
	require.True(t, errors.As(err, &failed))
	require.Equal(t, "0xdeploy", result.Hash)
}

func TestRunnerSubmitFails(t *testing.T) {
	chain := &fakeChain{submitErr: errors.New("INSUFFICIENT_BALANCE_FOR_TRANSACTION_FEE")}
	runner, out := testRunner(t, chain, newFakeFetcher(), &fakeFaucet{})

	result, err := runner.Run(context.Background(), testConfig())
	require.ErrorContains(t, err, "INSUFFICIENT_BALANCE")
	require.Empty(t, result.Hash)
	require.NotContains(t, out.String(), "Transaction hash")
}

func TestRunnerInvalidConfig(t *testing.T) {
	runner, _ := testRunner(t, &fakeChain{}, newFakeFetcher(), &fakeFaucet{})
	cfg := testConfig()
	cfg.Arguments = []string{"u64:not-a-number"}
	_, err := runner.Run(context.Background(), cfg)
	var dataErr *DeployDataError
	require.True(t, errors.As(err, &dataErr))
}

func TestRunnerReusesPrivateKey(t *testing.T) {
	seed := bytes.Repeat([]byte{0x2a}, ed25519.SeedSize)
	pub := ed25519.NewKeyFromSeed(seed).Public().(ed25519.PublicKey)
	authKey := sha3.Sum256(append(append([]byte{}, pub...), 0x00))
	wantAddress, err := NormalizeAddress(hex.EncodeToString(authKey[:]))
	require.Nil(t, err)

	fetcher := newFakeFetcher()
	fetcher.add("0xdeploy", committed("0xdeploy", true), nil)
	chain := &fakeChain{hash: "0xdeploy"}
	faucet := &fakeFaucet{hashes: []string{"0xfaucet"}}
	runner, out := testRunner(t, chain, fetcher, faucet)

	cfg := testConfig()
	cfg.PrivateKey = "0x" + hex.EncodeToString(seed)
	cfg.SkipFaucet = true
	result, err := runner.Run(context.Background(), cfg)
	require.Nil(t, err)

	require.Empty(t, faucet.funded)
	require.Empty(t, result.FundHashes)
	require.Empty(t, result.Mnemonic)
	gotAddress, err := NormalizeAddress(result.Address)
	require.Nil(t, err)
	require.Equal(t, wantAddress, gotAddress)
	require.Contains(t, out.String(), result.Address)
	require.Equal(t, "0xdeploy", result.Hash)
}

func TestLoadAccountEmpty(t *testing.T) {
	_, err := LoadAccount("")
	var dataErr *DeployDataError
	require.True(t, errors.As(err, &dataErr))
}

func TestRunnerKeepsMnemonicAfterFundedFailure(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	fetcher := newFakeFetcher()
	fetcher.add("0xfaucet", committed("0xfaucet", true), nil)
	chain := &fakeChain{submitErr: errors.New("SEQUENCE_NUMBER_TOO_OLD")}
	runner, _ := testRunner(t, chain, fetcher, &fakeFaucet{hashes: []string{"0xfaucet"}})
	runner.Logger = zap.New(core)

	result, err := runner.Run(context.Background(), testConfig())
	require.NotNil(t, err)
	require.NotEmpty(t, result.Mnemonic)

	entries := logs.FilterField(zap.String("mnemonic", result.Mnemonic)).All()
	require.Len(t, entries, 1)
	require.Equal(t, result.Address, entries[0].ContextMap()["address"])

	// nothing to recover when the faucet never paid
	core, logs = observer.New(zap.WarnLevel)
	runner, _ = testRunner(t, &fakeChain{}, newFakeFetcher(), &fakeFaucet{err: errors.New("faucet down")})
	runner.Logger = zap.New(core)
	_, err = runner.Run(context.Background(), testConfig())
	require.NotNil(t, err)
	require.Zero(t, logs.Len())
}
