package test

import (
	"context"
	"crypto/rand"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"

	"github/chapool/go-dapp/internal/wallet/ledger"
)

// ConfirmCall records one ConfirmTransaction invocation.
type ConfirmCall struct {
	Signature  solana.Signature
	Commitment ledger.Commitment
}

// FakeLedger is an in-memory ledger.Client. Airdrops credit the recipient and
// sent transactions are charged FeeLamports once they confirm successfully.
type FakeLedger struct {
	mu sync.Mutex

	Blockhash   solana.Hash
	FeeLamports uint64

	BalanceErr   error
	BlockhashErr error
	AirdropErr   error
	SendErr      error
	ConfirmErr   error
	// ExecutionErr is reported as the ledger's error for confirmed transactions.
	ExecutionErr interface{}

	balances     map[solana.PublicKey]uint64
	pending      map[solana.Signature]func()
	sent         []*solana.Transaction
	balanceCalls int
	confirms     []ConfirmCall
}

var _ ledger.Client = (*FakeLedger)(nil)

func NewFakeLedger() *FakeLedger {
	var hash solana.Hash
	_, _ = rand.Read(hash[:])

	return &FakeLedger{
		Blockhash:   hash,
		FeeLamports: 5000,
		balances:    make(map[solana.PublicKey]uint64),
		pending:     make(map[solana.Signature]func()),
	}
}

func (l *FakeLedger) SetBalance(owner solana.PublicKey, lamports uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.balances[owner] = lamports
}

func (l *FakeLedger) GetBalance(_ context.Context, owner solana.PublicKey) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.balanceCalls++
	if l.BalanceErr != nil {
		return 0, l.BalanceErr
	}

	return l.balances[owner], nil
}

func (l *FakeLedger) GetLatestBlockhash(_ context.Context) (*ledger.Blockhash, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.BlockhashErr != nil {
		return nil, l.BlockhashErr
	}

	return &ledger.Blockhash{Hash: l.Blockhash, LastValidBlockHeight: 1000}, nil
}

func (l *FakeLedger) RequestAirdrop(_ context.Context, recipient solana.PublicKey, lamports uint64) (solana.Signature, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.AirdropErr != nil {
		return solana.Signature{}, l.AirdropErr
	}

	var sig solana.Signature
	_, _ = rand.Read(sig[:])

	l.pending[sig] = func() {
		l.balances[recipient] += lamports
	}

	return sig, nil
}

func (l *FakeLedger) SendTransaction(_ context.Context, tx *solana.Transaction) (solana.Signature, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.SendErr != nil {
		return solana.Signature{}, l.SendErr
	}
	if len(tx.Signatures) == 0 || tx.Signatures[0].IsZero() {
		return solana.Signature{}, &ledger.SubmissionRejectedError{Reason: "transaction is not signed", Code: -32003}
	}
	if len(tx.Message.AccountKeys) == 0 {
		return solana.Signature{}, errors.New("fake ledger: message without accounts")
	}

	l.sent = append(l.sent, tx)

	sig := tx.Signatures[0]
	payer := tx.Message.AccountKeys[0]
	fee := l.FeeLamports
	l.pending[sig] = func() {
		if l.balances[payer] >= fee {
			l.balances[payer] -= fee
		}
	}

	return sig, nil
}

func (l *FakeLedger) ConfirmTransaction(_ context.Context, sig solana.Signature, commitment ledger.Commitment) (*ledger.ConfirmationResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.confirms = append(l.confirms, ConfirmCall{Signature: sig, Commitment: commitment})

	if l.ConfirmErr != nil {
		return nil, l.ConfirmErr
	}

	if l.ExecutionErr == nil {
		if apply, ok := l.pending[sig]; ok {
			apply()
		}
	}
	delete(l.pending, sig)

	return &ledger.ConfirmationResult{
		Signature:  sig,
		Commitment: commitment,
		Slot:       42,
		Err:        l.ExecutionErr,
	}, nil
}

// Sent returns the transactions accepted by SendTransaction.
func (l *FakeLedger) Sent() []*solana.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]*solana.Transaction, len(l.sent))
	copy(out, l.sent)
	return out
}

func (l *FakeLedger) BalanceCalls() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.balanceCalls
}

func (l *FakeLedger) Confirmations() []ConfirmCall {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]ConfirmCall, len(l.confirms))
	copy(out, l.confirms)
	return out
}
