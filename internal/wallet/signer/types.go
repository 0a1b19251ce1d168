package signer

import (
	"context"

	"github/chapool/go-dapp/internal/wallet/session"
)

// Identity is the application record presented verbatim on every authorize and
// reauthorize call.
type Identity struct {
	Name string
	URI  string
	Icon string
}

type AuthorizeRequest struct {
	Cluster  string
	Identity Identity
}

type ReauthorizeRequest struct {
	AuthToken string
	Identity  Identity
}

// AuthorizedAccount is an account as returned by the signer. Address is the
// base64 transport encoding of the public key.
type AuthorizedAccount struct {
	Address string
	Label   string
}

type AuthorizationResult struct {
	Accounts  []AuthorizedAccount
	AuthToken string
}

// Wallet is the capability set exposed by an external signer inside an open
// exclusive session. Implementations never expose key material.
type Wallet interface {
	Authorize(ctx context.Context, req AuthorizeRequest) (*AuthorizationResult, error)
	Reauthorize(ctx context.Context, req ReauthorizeRequest) (*AuthorizationResult, error)
	Deauthorize(ctx context.Context, authToken string) error
	// SignTransactions signs serialized transactions and returns them in input order.
	SignTransactions(ctx context.Context, payloads [][]byte) ([][]byte, error)
}

// TransactFunc runs inside an exclusive signer session.
type TransactFunc func(ctx context.Context, wallet Wallet) error

// Transactor opens an exclusive session with the signer, runs fn and always
// closes the session again, also when fn fails.
type Transactor interface {
	Transact(ctx context.Context, fn TransactFunc) error
}

type State int

const (
	StateDisconnected State = iota
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Service owns the auth token lifecycle of the single wallet session.
type Service interface {
	// Connect authorizes from scratch and replaces any held account.
	Connect(ctx context.Context) (*session.Account, error)
	// Reauthorize refreshes the held token; the account is replaced when the signer rotates it.
	Reauthorize(ctx context.Context) (*session.Account, error)
	// SignTransactions reauthorizes and signs inside one exclusive session.
	SignTransactions(ctx context.Context, payloads [][]byte) ([][]byte, error)
	// Disconnect deauthorizes (best effort) and drops the held account.
	Disconnect(ctx context.Context) error
	State() State
}
