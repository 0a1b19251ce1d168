package seed

import (
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

var (
	ErrNotInitialized  = errors.New("seed not initialized")
	ErrInvalidMnemonic = errors.New("invalid mnemonic")
)

// Manager holds the development signer's seed in memory.
type Manager interface {
	// Initialize validates the BIP39 mnemonic and derives the seed.
	Initialize(mnemonic string, passphrase string) error

	// GetSeed returns a copy of the seed or nil.
	GetSeed() []byte

	// SigningKey derives the ed25519 key from the first 32 seed bytes, the
	// same key solana-keygen recovers from a mnemonic without a derivation path.
	SigningKey() (solana.PrivateKey, error)

	IsInitialized() bool

	// Clear zeroes the seed.
	Clear()
}
