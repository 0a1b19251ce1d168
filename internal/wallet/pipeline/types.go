package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"

	"github/chapool/go-dapp/internal/wallet/ledger"
)

const (
	OperationMemo    = "memo"
	OperationAirdrop = "airdrop"

	// MemoCommitment is enough for a user-visible memo.
	MemoCommitment = ledger.CommitmentConfirmed
	// AirdropCommitment waits until the funds can no longer be rolled back.
	AirdropCommitment = ledger.CommitmentFinalized
)

var (
	ErrEmptyMemo     = errors.New("memo text must not be empty")
	ErrInvalidAmount = errors.New("airdrop amount must be positive")
	// ErrSignedMessageMismatch means the signer returned something other than
	// the message it was asked to sign.
	ErrSignedMessageMismatch = errors.New("signed transaction does not match the compiled message")
)

// LedgerError means the network executed the transaction and rejected it.
// Details are the ledger's error value, unmodified.
type LedgerError struct {
	Operation string
	Signature solana.Signature
	Details   interface{}
}

func (e *LedgerError) Error() string {
	return fmt.Sprintf("%s transaction %s failed on ledger: %v", e.Operation, e.Signature, e.Details)
}

// Result describes a confirmed operation. Balance is nil when the follow-up
// refresh failed; the operation itself still succeeded.
type Result struct {
	Operation   string
	Signature   solana.Signature
	Commitment  ledger.Commitment
	Slot        uint64
	ExplorerURL string
	Balance     *uint64
	Took        time.Duration
}

// Service runs ledger operations for the connected account end to end.
type Service interface {
	// Memo writes text to the ledger in a transaction signed by the connected wallet.
	Memo(ctx context.Context, text string) (*Result, error)
	// Airdrop requests lamports from the cluster faucet for the connected account.
	Airdrop(ctx context.Context, lamports uint64) (*Result, error)
}
