package ledger

import (
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

var (
	// ErrNetwork matches every *NetworkError via errors.Is.
	ErrNetwork = errors.New("ledger network error")
	// ErrConfirmationTimeout matches every *ConfirmationTimeoutError via errors.Is.
	ErrConfirmationTimeout = errors.New("confirmation timeout")
)

// NetworkError is a transport level failure talking to the RPC endpoint.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("ledger network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

// SubmissionRejectedError is returned when the node refuses a request outright,
// e.g. a failed preflight simulation or a stale blockhash.
type SubmissionRejectedError struct {
	Reason string
	Code   int
	Data   interface{}
}

func (e *SubmissionRejectedError) Error() string {
	return fmt.Sprintf("submission rejected (code %d): %s", e.Code, e.Reason)
}

// ConfirmationTimeoutError leaves the outcome of Signature unknown.
type ConfirmationTimeoutError struct {
	Signature  solana.Signature
	Commitment Commitment
	Waited     time.Duration
}

func (e *ConfirmationTimeoutError) Error() string {
	return fmt.Sprintf("signature %s not %s after %s", e.Signature, e.Commitment, e.Waited)
}

func (e *ConfirmationTimeoutError) Is(target error) bool {
	return target == ErrConfirmationTimeout
}
