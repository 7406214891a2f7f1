package deployer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/coming-chat/go-aptos/aptostypes"
	"github.com/coming-chat/wallet-SDK/core/aptos"
	"github.com/coming-chat/wallet-SDK/core/base"
)

const (
	DefaultPollInterval = time.Second
	DefaultWaitTimeout  = 60 * time.Second

	pendingTransactionType = "pending_transaction"
)

// Chain is the part of aptos.IChain the deployer signs and submits through.
type Chain interface {
	SubmitTransactionPayload(account base.Account, data []byte) (string, error)
	EstimatePayloadGasFee(account base.Account, data []byte) (*base.OptionalString, error)
}

type TransactionFetcher interface {
	GetTransactionByHash(hash string) (*aptostypes.Transaction, error)
}

type WaitOptions struct {
	PollInterval time.Duration
	Timeout      time.Duration
}

func (o WaitOptions) withDefaults() WaitOptions {
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultWaitTimeout
	}
	return o
}

// DeployContract submits entry function calls against one deployed Move package.
type DeployContract struct {
	chain   Chain
	client  func() (TransactionFetcher, error)
	address string
}

func NewDeployContract(chain base.Chain, contractAddress string) (*DeployContract, error) {
	aptosChain, ok := chain.(aptos.IChain)
	if !ok {
		return nil, errors.New("invalid chain object")
	}
	address, err := NormalizeAddress(contractAddress)
	if err != nil {
		return nil, err
	}
	return &DeployContract{
		chain: aptosChain,
		client: func() (TransactionFetcher, error) {
			client, err := aptosChain.GetClient()
			if err != nil {
				return nil, err
			}
			return client, nil
		},
		address: address,
	}, nil
}

func (c *DeployContract) Address() string {
	return c.address
}

// EstimateGasFee returns gas price * gas used of a simulated run, in octas.
func (c *DeployContract) EstimateGasFee(account base.Account, action *DeployAction) (string, error) {
	data, err := c.payloadData(action)
	if err != nil {
		return "", err
	}
	gasFee, err := c.chain.EstimatePayloadGasFee(account, data)
	if err != nil {
		return "", err
	}
	return gasFee.Value, nil
}

// SendTransaction signs the action with account and submits it, returning the transaction hash.
func (c *DeployContract) SendTransaction(account base.Account, action *DeployAction) (string, error) {
	data, err := c.payloadData(action)
	if err != nil {
		return "", err
	}
	return c.chain.SubmitTransactionPayload(account, data)
}

func (c *DeployContract) payloadData(action *DeployAction) ([]byte, error) {
	payload, err := c.createPayload(action)
	if err != nil {
		return nil, err
	}
	return json.Marshal(payload)
}

func (c *DeployContract) createPayload(action *DeployAction) (*aptostypes.Payload, error) {
	if action == nil || action.Function == nil {
		return nil, newDeployDataError("deploy action is nil")
	}
	if action.Function.Address != c.address {
		return nil, newDeployDataError("function %s does not belong to contract %s", action.Function, c.address)
	}
	args := make([]interface{}, len(action.Arguments))
	for i, arg := range action.Arguments {
		v, err := arg.jsonValue()
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	typeArgs := action.TypeArguments
	if typeArgs == nil {
		typeArgs = []string{}
	}
	return &aptostypes.Payload{
		Type:          aptostypes.EntryFunctionPayload,
		Function:      action.Function.String(),
		TypeArguments: typeArgs,
		Arguments:     args,
	}, nil
}

// WaitForTransaction polls the fullnode until hash is committed.
// A committed transaction the VM rejected returns its detail and a *TransactionFailedError.
func (c *DeployContract) WaitForTransaction(ctx context.Context, hash string, opts WaitOptions) (*base.TransactionDetail, error) {
	return waitForTransaction(ctx, c.client, hash, c.address, opts)
}

func (c *DeployContract) FetchTransactionDetail(hash string) (*base.TransactionDetail, error) {
	client, err := c.client()
	if err != nil {
		return nil, err
	}
	transaction, err := client.GetTransactionByHash(hash)
	if err != nil {
		return nil, err
	}
	if transaction.Type == pendingTransactionType {
		return nil, fmt.Errorf("transaction %s is still pending", hash)
	}
	return toBaseTransaction(transaction, c.address), nil
}

func waitForTransaction(ctx context.Context, newClient func() (TransactionFetcher, error), hash, toAddress string, opts WaitOptions) (*base.TransactionDetail, error) {
	opts = opts.withDefaults()
	client, err := newClient()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()
	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()

	var lastErr error
	for {
		transaction, err := client.GetTransactionByHash(hash)
		if err != nil {
			if !isNotFound(err) {
				return nil, err
			}
			// not indexed yet, keep polling
			lastErr = err
		} else if transaction.Type != pendingTransactionType {
			detail := toBaseTransaction(transaction, toAddress)
			if !transaction.Success {
				return detail, &TransactionFailedError{Hash: hash, VmStatus: transaction.VmStatus}
			}
			return detail, nil
		}

		select {
		case <-ctx.Done():
			if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, ctx.Err()
			}
			if lastErr != nil {
				return nil, fmt.Errorf("%w %s: %w", ErrWaitTimeout, hash, lastErr)
			}
			return nil, fmt.Errorf("%w %s", ErrWaitTimeout, hash)
		case <-ticker.C:
		}
	}
}

func isNotFound(err error) bool {
	var restErr *aptostypes.RestError
	return errors.As(err, &restErr) && restErr.Code == 404
}

func toBaseTransaction(transaction *aptostypes.Transaction, toAddress string) *base.TransactionDetail {
	detail := &base.TransactionDetail{
		HashString:  transaction.Hash,
		FromAddress: transaction.Sender,
		ToAddress:   toAddress,
	}

	gasFee := transaction.GasUnitPrice * transaction.GasUsed
	detail.EstimateFees = strconv.FormatUint(gasFee, 10)

	if transaction.Success {
		detail.Status = base.TransactionStatusSuccess
	} else {
		detail.Status = base.TransactionStatusFailure
		detail.FailureMessage = transaction.VmStatus
	}

	timestamp := transaction.Timestamp / 1e6
	detail.FinishTimestamp = int64(timestamp)

	return detail
}
