package session_test

import (
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/go-dapp/internal/wallet/session"
)

func newAccount(t *testing.T, token string) session.Account {
	t.Helper()

	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	return session.Account{
		Address:     key.PublicKey(),
		AuthToken:   token,
		ConnectedAt: time.Unix(1700000000, 0),
	}
}

func TestEmptyStore(t *testing.T) {
	store := session.NewStore()

	_, ok := store.CurrentAccount()
	assert.False(t, ok)
	assert.Equal(t, uint64(0), store.CurrentBalance())

	_, err := store.CurrentPublicKey()
	assert.ErrorIs(t, err, session.ErrNoActiveSession)
	assert.False(t, store.Snapshot().Connected())
}

func TestSetAccountReplaces(t *testing.T) {
	store := session.NewStore()
	first := newAccount(t, "token-1")
	second := newAccount(t, "token-2")

	store.SetAccount(first)
	store.SetAccount(second)

	acc, ok := store.CurrentAccount()
	require.True(t, ok)
	assert.Equal(t, second.Address, acc.Address)
	assert.Equal(t, "token-2", acc.AuthToken)
}

func TestCurrentAccountIsCopy(t *testing.T) {
	store := session.NewStore()
	store.SetAccount(newAccount(t, "token"))

	acc, _ := store.CurrentAccount()
	acc.AuthToken = "mutated"

	again, _ := store.CurrentAccount()
	assert.Equal(t, "token", again.AuthToken)
}

func TestBalanceBelongsToAccount(t *testing.T) {
	store := session.NewStore()
	first := newAccount(t, "token-1")
	second := newAccount(t, "token-2")

	store.SetAccount(first)
	require.True(t, store.SetBalance(first.Address, 42))
	assert.Equal(t, uint64(42), store.CurrentBalance())

	// token rotation for the same address keeps the balance
	store.SetAccount(first.WithAuthToken("token-1b"))
	assert.Equal(t, uint64(42), store.CurrentBalance())

	// new identity resets it, and late results for the old one are dropped
	store.SetAccount(second)
	assert.Equal(t, uint64(0), store.CurrentBalance())
	assert.False(t, store.SetBalance(first.Address, 99))
	assert.Equal(t, uint64(0), store.CurrentBalance())
}

func TestClear(t *testing.T) {
	store := session.NewStore()
	acc := newAccount(t, "token")
	store.SetAccount(acc)
	store.SetBalance(acc.Address, 7)

	store.Clear()

	snap := store.Snapshot()
	assert.False(t, snap.Connected())
	assert.Equal(t, uint64(0), snap.Balance)
}
