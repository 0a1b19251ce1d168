package test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github/chapool/go-dapp/internal/wallet/address"
	"github/chapool/go-dapp/internal/wallet/signer"
)

// ErrReentered is returned by FakeWallet when a second session is opened while
// one is still active.
var ErrReentered = errors.New("fake wallet: session reentered")

// FakeWallet is an in-process signer. It is both the Transactor and the Wallet
// handed to the callback, fails on reentrant sessions and records every call.
type FakeWallet struct {
	Key    solana.PrivateKey
	Label  string
	Rotate bool

	AuthorizeErr   error
	ReauthorizeErr error
	DeauthorizeErr error
	SignErr        error
	// SignHook replaces the default signing when set.
	SignHook func(payloads [][]byte) ([][]byte, error)
	// InSession runs inside every session before the callback, e.g. to block it.
	InSession func()

	active    int32
	mu        sync.Mutex
	authToken string
	calls     []string
	sessions  int
	reentered bool
	lastIdent signer.Identity
	cluster   string
}

var (
	_ signer.Wallet     = (*FakeWallet)(nil)
	_ signer.Transactor = (*FakeWallet)(nil)
)

func NewFakeWallet(t *testing.T) *FakeWallet {
	t.Helper()

	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}

	return &FakeWallet{
		Key:   key,
		Label: "fake",
	}
}

func (w *FakeWallet) PublicKey() solana.PublicKey {
	return w.Key.PublicKey()
}

func (w *FakeWallet) Transact(ctx context.Context, fn signer.TransactFunc) error {
	if !atomic.CompareAndSwapInt32(&w.active, 0, 1) {
		w.mu.Lock()
		w.reentered = true
		w.mu.Unlock()
		return ErrReentered
	}
	defer atomic.StoreInt32(&w.active, 0)

	w.record("open")
	w.mu.Lock()
	w.sessions++
	w.mu.Unlock()

	if w.InSession != nil {
		w.InSession()
	}

	defer w.record("close")
	return fn(ctx, w)
}

func (w *FakeWallet) Authorize(_ context.Context, req signer.AuthorizeRequest) (*signer.AuthorizationResult, error) {
	w.record("authorize")

	if w.AuthorizeErr != nil {
		return nil, w.AuthorizeErr
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.lastIdent = req.Identity
	w.cluster = req.Cluster
	w.authToken = uuid.NewString()

	return &signer.AuthorizationResult{
		Accounts: []signer.AuthorizedAccount{
			{Address: address.Encode(w.Key.PublicKey()), Label: w.Label},
		},
		AuthToken: w.authToken,
	}, nil
}

func (w *FakeWallet) Reauthorize(_ context.Context, req signer.ReauthorizeRequest) (*signer.AuthorizationResult, error) {
	w.record("reauthorize")

	if w.ReauthorizeErr != nil {
		return nil, w.ReauthorizeErr
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.lastIdent = req.Identity
	if req.AuthToken != w.authToken {
		return nil, errors.Wrap(signer.ErrAuthorizationFailed, "unknown auth token")
	}
	if w.Rotate {
		w.authToken = uuid.NewString()
	}

	return &signer.AuthorizationResult{
		Accounts: []signer.AuthorizedAccount{
			{Address: address.Encode(w.Key.PublicKey()), Label: w.Label},
		},
		AuthToken: w.authToken,
	}, nil
}

func (w *FakeWallet) Deauthorize(_ context.Context, authToken string) error {
	w.record("deauthorize")

	if w.DeauthorizeErr != nil {
		return w.DeauthorizeErr
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if authToken == w.authToken {
		w.authToken = ""
	}

	return nil
}

func (w *FakeWallet) SignTransactions(_ context.Context, payloads [][]byte) ([][]byte, error) {
	w.record("sign_transactions")

	if w.SignErr != nil {
		return nil, w.SignErr
	}
	if w.SignHook != nil {
		return w.SignHook(payloads)
	}

	return SignPayloads(w.Key, payloads)
}

// AuthToken is the token the fake currently accepts.
func (w *FakeWallet) AuthToken() string {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.authToken
}

// Calls lists the wallet calls in order, including session open/close markers.
func (w *FakeWallet) Calls() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]string, len(w.calls))
	copy(out, w.calls)
	return out
}

func (w *FakeWallet) Sessions() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.sessions
}

func (w *FakeWallet) Reentered() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.reentered
}

func (w *FakeWallet) LastIdentity() signer.Identity {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.lastIdent
}

func (w *FakeWallet) Cluster() string {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.cluster
}

func (w *FakeWallet) record(call string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.calls = append(w.calls, call)
}

// SignPayloads signs each serialized transaction with key, in order.
func SignPayloads(key solana.PrivateKey, payloads [][]byte) ([][]byte, error) {
	out := make([][]byte, 0, len(payloads))

	for i, payload := range payloads {
		tx, err := solana.TransactionFromBytes(payload)
		if err != nil {
			return nil, fmt.Errorf("payload %d: %w", i, err)
		}

		if _, err := tx.PartialSign(func(pk solana.PublicKey) *solana.PrivateKey {
			if pk.Equals(key.PublicKey()) {
				return &key
			}
			return nil
		}); err != nil {
			return nil, fmt.Errorf("payload %d: %w", i, err)
		}

		raw, err := tx.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("payload %d: %w", i, err)
		}
		out = append(out, raw)
	}

	return out, nil
}
