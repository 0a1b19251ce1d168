package signer_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github/chapool/go-dapp/internal/test"
	"github/chapool/go-dapp/internal/wallet/address"
	"github/chapool/go-dapp/internal/wallet/session"
	"github/chapool/go-dapp/internal/wallet/signer"
)

var identity = signer.Identity{
	Name: "Hyperdrive Workshop App",
	URI:  "https://yourdapp.com",
	Icon: "favicon.ico",
}

func newService(t *testing.T, transactor signer.Transactor) (signer.Service, *session.Store) {
	t.Helper()

	store := session.NewStore()
	svc, err := signer.NewService(signer.NewExclusiveTransactor(transactor), store, "testnet", identity)
	require.NoError(t, err)

	return svc, store
}

func TestConnect(t *testing.T) {
	wallet := test.NewFakeWallet(t)
	svc, store := newService(t, wallet)

	assert.Equal(t, signer.StateDisconnected, svc.State())

	acc, err := svc.Connect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, wallet.PublicKey(), acc.Address)
	assert.Equal(t, address.Encode(wallet.PublicKey()), acc.TransportAddress)
	assert.Equal(t, wallet.AuthToken(), acc.AuthToken)
	assert.Equal(t, "testnet", wallet.Cluster())
	assert.Equal(t, identity, wallet.LastIdentity())
	assert.Equal(t, signer.StateConnected, svc.State())

	held, ok := store.CurrentAccount()
	require.True(t, ok)
	assert.Equal(t, *acc, *held)

	assert.Equal(t, []string{"open", "authorize", "close"}, wallet.Calls())
}

func TestConnectTwiceHoldsSecondAccount(t *testing.T) {
	wallet := test.NewFakeWallet(t)
	svc, store := newService(t, wallet)

	first, err := svc.Connect(context.Background())
	require.NoError(t, err)
	second, err := svc.Connect(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, first.AuthToken, second.AuthToken)

	held, ok := store.CurrentAccount()
	require.True(t, ok)
	assert.Equal(t, second.AuthToken, held.AuthToken)
}

func TestConnectAuthorizationFailed(t *testing.T) {
	wallet := test.NewFakeWallet(t)
	wallet.AuthorizeErr = errors.Wrap(signer.ErrAuthorizationFailed, "user declined")
	svc, store := newService(t, wallet)

	_, err := svc.Connect(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, signer.ErrAuthorizationFailed))
	assert.False(t, errors.Is(err, signer.ErrReauthorizationFailed))

	_, ok := store.CurrentAccount()
	assert.False(t, ok)
}

type badAddressWallet struct {
	*test.FakeWallet
}

func (w badAddressWallet) Transact(ctx context.Context, fn signer.TransactFunc) error {
	return fn(ctx, w)
}

func (w badAddressWallet) Authorize(context.Context, signer.AuthorizeRequest) (*signer.AuthorizationResult, error) {
	return &signer.AuthorizationResult{
		Accounts:  []signer.AuthorizedAccount{{Address: "AAEC"}},
		AuthToken: "token",
	}, nil
}

func TestConnectInvalidAddress(t *testing.T) {
	svc, store := newService(t, badAddressWallet{test.NewFakeWallet(t)})

	_, err := svc.Connect(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, address.ErrInvalidAddressEncoding))

	_, ok := store.CurrentAccount()
	assert.False(t, ok)
}

func TestReauthorizeKeepsToken(t *testing.T) {
	wallet := test.NewFakeWallet(t)
	svc, _ := newService(t, wallet)

	connected, err := svc.Connect(context.Background())
	require.NoError(t, err)

	acc, err := svc.Reauthorize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, connected.AuthToken, acc.AuthToken)
}

func TestReauthorizeRotatesToken(t *testing.T) {
	wallet := test.NewFakeWallet(t)
	wallet.Rotate = true
	svc, store := newService(t, wallet)

	connected, err := svc.Connect(context.Background())
	require.NoError(t, err)
	require.True(t, store.SetBalance(connected.Address, 77))

	acc, err := svc.Reauthorize(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, connected.AuthToken, acc.AuthToken)
	assert.Equal(t, wallet.AuthToken(), acc.AuthToken)

	held, ok := store.CurrentAccount()
	require.True(t, ok)
	assert.Equal(t, acc.AuthToken, held.AuthToken)
	assert.Equal(t, uint64(77), store.CurrentBalance())

	// the previously returned account is untouched
	assert.NotEqual(t, held.AuthToken, connected.AuthToken)
}

func TestReauthorizeFailedIsDistinct(t *testing.T) {
	wallet := test.NewFakeWallet(t)
	svc, store := newService(t, wallet)

	_, err := svc.Connect(context.Background())
	require.NoError(t, err)

	wallet.ReauthorizeErr = errors.Wrap(signer.ErrAuthorizationFailed, "token revoked")

	_, err = svc.Reauthorize(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, signer.ErrReauthorizationFailed))
	assert.False(t, errors.Is(err, signer.ErrAuthorizationFailed))
	assert.Contains(t, err.Error(), "reauthorize: token revoked")
	assert.True(t, strings.HasSuffix(err.Error(), signer.ErrReauthorizationFailed.Error()), err.Error())

	_, ok := store.CurrentAccount()
	assert.False(t, ok)
	assert.Equal(t, signer.StateDisconnected, svc.State())

	// never retried as a fresh authorize
	assert.NotContains(t, wallet.Calls()[3:], "authorize")
}

func TestReauthorizeTransportErrorKeepsSession(t *testing.T) {
	wallet := test.NewFakeWallet(t)
	svc, store := newService(t, wallet)

	_, err := svc.Connect(context.Background())
	require.NoError(t, err)

	wallet.ReauthorizeErr = errors.Wrap(signer.ErrSignerUnavailable, "connection refused")

	_, err = svc.Reauthorize(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, signer.ErrSignerUnavailable))
	assert.False(t, errors.Is(err, signer.ErrReauthorizationFailed))

	_, ok := store.CurrentAccount()
	assert.True(t, ok)
}

func TestReauthorizeWithoutSession(t *testing.T) {
	svc, _ := newService(t, test.NewFakeWallet(t))

	_, err := svc.Reauthorize(context.Background())
	assert.True(t, errors.Is(err, session.ErrNoActiveSession))
}

func TestSignTransactionsSingleSession(t *testing.T) {
	wallet := test.NewFakeWallet(t)
	svc, _ := newService(t, wallet)

	_, err := svc.Connect(context.Background())
	require.NoError(t, err)

	wallet.SignHook = func(payloads [][]byte) ([][]byte, error) {
		return payloads, nil
	}

	signed, err := svc.SignTransactions(context.Background(), [][]byte{[]byte("a"), []byte("b")})
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("a"), []byte("b")}, signed)

	assert.Equal(t, []string{
		"open", "authorize", "close",
		"open", "reauthorize", "sign_transactions", "close",
	}, wallet.Calls())
}

func TestSignTransactionsCountMismatch(t *testing.T) {
	wallet := test.NewFakeWallet(t)
	svc, _ := newService(t, wallet)

	_, err := svc.Connect(context.Background())
	require.NoError(t, err)

	wallet.SignHook = func(payloads [][]byte) ([][]byte, error) {
		return payloads[:1], nil
	}

	_, err = svc.SignTransactions(context.Background(), [][]byte{[]byte("a"), []byte("b")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, signer.ErrSignatureCountMismatch))
}

func TestSignTransactionsReauthorizeFailedSkipsSigning(t *testing.T) {
	wallet := test.NewFakeWallet(t)
	svc, _ := newService(t, wallet)

	_, err := svc.Connect(context.Background())
	require.NoError(t, err)

	wallet.ReauthorizeErr = errors.Wrap(signer.ErrAuthorizationFailed, "revoked")

	_, err = svc.SignTransactions(context.Background(), [][]byte{[]byte("a")})
	assert.True(t, errors.Is(err, signer.ErrReauthorizationFailed))
	assert.NotContains(t, wallet.Calls(), "sign_transactions")
}

func TestSignTransactionsWithoutSession(t *testing.T) {
	svc, _ := newService(t, test.NewFakeWallet(t))

	_, err := svc.SignTransactions(context.Background(), [][]byte{[]byte("a")})
	assert.True(t, errors.Is(err, session.ErrNoActiveSession))
}

func TestExclusiveTransactorRejectsConcurrentSession(t *testing.T) {
	wallet := test.NewFakeWallet(t)

	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	wallet.InSession = func() {
		once.Do(func() {
			close(entered)
			<-release
		})
	}

	svc, _ := newService(t, wallet)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Connect(context.Background())
		done <- err
	}()

	<-entered

	_, err := svc.Connect(context.Background())
	assert.True(t, errors.Is(err, signer.ErrSignerBusy))

	close(release)
	require.NoError(t, <-done)

	assert.False(t, wallet.Reentered())
	assert.Equal(t, 1, wallet.Sessions())
}

func TestExclusiveTransactorRejectsNestedSession(t *testing.T) {
	wallet := test.NewFakeWallet(t)
	transactor := signer.NewExclusiveTransactor(wallet)

	var nested error
	err := transactor.Transact(context.Background(), func(ctx context.Context, _ signer.Wallet) error {
		nested = transactor.Transact(ctx, func(context.Context, signer.Wallet) error {
			return nil
		})
		return nil
	})
	require.NoError(t, err)

	assert.True(t, errors.Is(nested, signer.ErrSignerBusy))
	assert.False(t, wallet.Reentered())

	// released after the first session returned
	require.NoError(t, transactor.Transact(context.Background(), func(context.Context, signer.Wallet) error {
		return nil
	}))
}

func TestDisconnect(t *testing.T) {
	wallet := test.NewFakeWallet(t)
	svc, store := newService(t, wallet)

	_, err := svc.Connect(context.Background())
	require.NoError(t, err)

	require.NoError(t, svc.Disconnect(context.Background()))

	_, ok := store.CurrentAccount()
	assert.False(t, ok)
	assert.Empty(t, wallet.AuthToken())
	assert.Contains(t, wallet.Calls(), "deauthorize")
}

func TestDisconnectDeauthorizeFailureStillClears(t *testing.T) {
	wallet := test.NewFakeWallet(t)
	svc, store := newService(t, wallet)

	_, err := svc.Connect(context.Background())
	require.NoError(t, err)

	wallet.DeauthorizeErr = errors.New("signer went away")

	require.NoError(t, svc.Disconnect(context.Background()))
	_, ok := store.CurrentAccount()
	assert.False(t, ok)
}

func TestDisconnectWithoutSession(t *testing.T) {
	wallet := test.NewFakeWallet(t)
	svc, _ := newService(t, wallet)

	require.NoError(t, svc.Disconnect(context.Background()))
	assert.Empty(t, wallet.Calls())
}

func TestNewServiceValidates(t *testing.T) {
	_, err := signer.NewService(nil, session.NewStore(), "testnet", identity)
	require.Error(t, err)

	_, err = signer.NewService(test.NewFakeWallet(t), nil, "testnet", identity)
	require.Error(t, err)

	_, err = signer.NewService(test.NewFakeWallet(t), session.NewStore(), "", identity)
	require.Error(t, err)
}
