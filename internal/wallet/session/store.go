package session

import (
	"sync"

	"github.com/gagliardetto/solana-go"
)

// Store holds at most one Account and the last observed balance for it.
//
// Writers: only the signer service calls SetAccount/Clear and only the balance
// service calls SetBalance. Those writers are serialized by the exclusive signer
// session; the lock exists because the view reads concurrently.
type Store struct {
	mu      sync.RWMutex
	account *Account
	balance uint64
}

func NewStore() *Store {
	return &Store{}
}

// SetAccount replaces the held account. Switching to a different address drops
// the balance, which belonged to the previous account.
func (s *Store) SetAccount(account Account) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.account == nil || !s.account.Address.Equals(account.Address) {
		s.balance = 0
	}

	acc := account
	s.account = &acc
}

// CurrentAccount returns a copy of the held account.
func (s *Store) CurrentAccount() (*Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.account == nil {
		return nil, false
	}

	acc := *s.account
	return &acc, true
}

// CurrentPublicKey returns the held account's address or ErrNoActiveSession.
func (s *Store) CurrentPublicKey() (solana.PublicKey, error) {
	acc, ok := s.CurrentAccount()
	if !ok {
		return solana.PublicKey{}, ErrNoActiveSession
	}

	return acc.Address, nil
}

// SetBalance records the balance fetched for owner. Results for an account that
// is no longer current are discarded and false is returned.
func (s *Store) SetBalance(owner solana.PublicKey, lamports uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.account == nil || !s.account.Address.Equals(owner) {
		return false
	}

	s.balance = lamports
	return true
}

// CurrentBalance is 0 until the first refresh.
func (s *Store) CurrentBalance() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.balance
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{Balance: s.balance}
	if s.account != nil {
		acc := *s.account
		snap.Account = &acc
	}

	return snap
}

// Clear tears the session down.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.account = nil
	s.balance = 0
}
