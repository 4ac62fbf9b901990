package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout means a transaction was sent but no receipt arrived within
	// the configured wait. The transaction may still be mined later.
	ErrTimeout = errors.New("timed out waiting for transaction receipt")
	// ErrReverted means the transaction was mined with a failed status.
	ErrReverted = errors.New("transaction reverted")
	// ErrNoContest means the contest contract has not created any contest yet.
	ErrNoContest = errors.New("no contest has been created")
)

// Error wraps a failed contract interaction.
type Error struct {
	Contract string
	Method   string
	TxHash   string
	Err      error
}

func (e *Error) Error() string {
	if e.TxHash != "" {
		return fmt.Sprintf("ledger %s.%s (tx %s): %v", e.Contract, e.Method, e.TxHash, e.Err)
	}
	return fmt.Sprintf("ledger %s.%s: %v", e.Contract, e.Method, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
