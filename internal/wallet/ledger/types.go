package ledger

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// Commitment is the confirmation level an operation waits for.
type Commitment string

const (
	CommitmentProcessed Commitment = Commitment(rpc.ConfirmationStatusProcessed)
	CommitmentConfirmed Commitment = Commitment(rpc.ConfirmationStatusConfirmed)
	CommitmentFinalized Commitment = Commitment(rpc.ConfirmationStatusFinalized)
)

var commitmentRank = map[Commitment]int{
	CommitmentProcessed: 1,
	CommitmentConfirmed: 2,
	CommitmentFinalized: 3,
}

// Reaches reports whether c is at least as strong as want.
func (c Commitment) Reaches(want Commitment) bool {
	have, ok := commitmentRank[c]
	if !ok {
		return false
	}

	return have >= commitmentRank[want]
}

func (c Commitment) Valid() bool {
	_, ok := commitmentRank[c]
	return ok
}

// Blockhash is a freshness token. It is fetched for every build and never cached.
type Blockhash struct {
	Hash                 solana.Hash
	LastValidBlockHeight uint64
}

// ConfirmationResult is the terminal outcome of waiting for a signature.
// Err carries the ledger's execution error verbatim; nil means success.
type ConfirmationResult struct {
	Signature  solana.Signature
	Commitment Commitment
	Slot       uint64
	Err        interface{}
}

func (r *ConfirmationResult) Succeeded() bool {
	return r.Err == nil
}

// Client is the application's view of the ledger network, bound to one cluster.
type Client interface {
	GetBalance(ctx context.Context, owner solana.PublicKey) (uint64, error)
	GetLatestBlockhash(ctx context.Context) (*Blockhash, error)
	RequestAirdrop(ctx context.Context, recipient solana.PublicKey, lamports uint64) (solana.Signature, error)
	SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
	ConfirmTransaction(ctx context.Context, sig solana.Signature, commitment Commitment) (*ConfirmationResult, error)
}
