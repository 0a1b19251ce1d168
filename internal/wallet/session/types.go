package session

import (
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

// ErrNoActiveSession is returned by every operation that needs a connected account.
var ErrNoActiveSession = errors.New("no active wallet session")

// Account is the identity bound to the active session. It is replaced, never
// mutated, when the signer rotates the auth token.
type Account struct {
	Address          solana.PublicKey
	TransportAddress string // base64 form as returned by the signer
	Label            string
	AuthToken        string
	ConnectedAt      time.Time
}

// WithAuthToken returns a copy of the account carrying the rotated token.
func (a Account) WithAuthToken(token string) Account {
	a.AuthToken = token
	return a
}

// Snapshot is a consistent read of the store for the view layer.
type Snapshot struct {
	Account *Account
	Balance uint64
}

// Connected reports whether the snapshot holds an account.
func (s Snapshot) Connected() bool {
	return s.Account != nil
}
