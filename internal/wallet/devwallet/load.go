package devwallet

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"

	"github/chapool/go-dapp/internal/wallet/keystore"
	"github/chapool/go-dapp/internal/wallet/seed"
)

// Init generates a mnemonic, stores it encrypted and returns it together with
// the resulting address. The mnemonic is shown once and never stored in clear.
func Init(ctx context.Context, ks keystore.Service, password string) (string, solana.PublicKey, error) {
	mnemonic, err := seed.NewMnemonic()
	if err != nil {
		return "", solana.PublicKey{}, err
	}

	seeds := seed.NewManager()
	defer seeds.Clear()

	if err := seeds.Initialize(mnemonic, ""); err != nil {
		return "", solana.PublicKey{}, err
	}

	key, err := seeds.SigningKey()
	if err != nil {
		return "", solana.PublicKey{}, err
	}

	if _, err := ks.Create(ctx, mnemonic, password); err != nil {
		return "", solana.PublicKey{}, err
	}

	return mnemonic, key.PublicKey(), nil
}

// Load unlocks the keystore and builds the wallet from its mnemonic.
func Load(ctx context.Context, ks keystore.Service, seeds seed.Manager, password string, opts Options) (*Wallet, error) {
	mnemonic, err := ks.Unlock(ctx, password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to unlock keystore")
	}

	if err := seeds.Initialize(mnemonic, ""); err != nil {
		return nil, err
	}

	key, err := seeds.SigningKey()
	if err != nil {
		return nil, err
	}

	return New(key, opts)
}
