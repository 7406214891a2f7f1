package deployer

import (
	"errors"
	"fmt"
)

var (
	ErrNoFaucet    = errors.New("network has no faucet")
	ErrWaitTimeout = errors.New("timed out waiting for transaction")
)

// DeployDataError reports malformed input that never reached the chain.
type DeployDataError struct {
	message string
}

func newDeployDataError(format string, a ...interface{}) error {
	return &DeployDataError{message: fmt.Sprintf(format, a...)}
}

func (e *DeployDataError) Error() string {
	return e.message
}

// TransactionFailedError is returned when a transaction was committed but the VM rejected it.
type TransactionFailedError struct {
	Hash     string
	VmStatus string
}

func (e *TransactionFailedError) Error() string {
	return fmt.Sprintf("transaction %s failed: %s", e.Hash, e.VmStatus)
}
