package keystore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github/chapool/go-dapp/internal/wallet/keystore"
)

const mnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func newService(t *testing.T) keystore.Service {
	t.Helper()

	svc, err := keystore.NewService(filepath.Join(t.TempDir(), "nested", "keystore.json"), keystore.LightScryptParams())
	require.NoError(t, err)
	return svc
}

func TestCreateAndUnlock(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	exists, err := svc.Exists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)

	file, err := svc.Create(ctx, mnemonic, "hunter2")
	require.NoError(t, err)
	assert.Equal(t, 3, file.Version)
	assert.Equal(t, "aes-128-ctr", file.Crypto.Cipher)
	assert.Equal(t, "scrypt", file.Crypto.KDF)
	assert.NotContains(t, file.Crypto.Ciphertext, "abandon")

	info, err := os.Stat(svc.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := svc.Unlock(ctx, "hunter2")
	require.NoError(t, err)
	assert.Equal(t, mnemonic, got)
}

func TestUnlockWrongPassword(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.Create(ctx, mnemonic, "hunter2")
	require.NoError(t, err)

	_, err = svc.Unlock(ctx, "hunter3")
	assert.True(t, errors.Is(err, keystore.ErrInvalidPassword))
}

func TestCreateNeverOverwrites(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.Create(ctx, mnemonic, "a")
	require.NoError(t, err)

	_, err = svc.Create(ctx, "other words", "b")
	assert.True(t, errors.Is(err, keystore.ErrKeystoreExists))

	got, err := svc.Unlock(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, mnemonic, got)
}

func TestUnlockMissing(t *testing.T) {
	_, err := newService(t).Unlock(context.Background(), "a")
	assert.True(t, errors.Is(err, keystore.ErrKeystoreNotFound))
}

func TestUnlockCorrupt(t *testing.T) {
	svc := newService(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(svc.Path()), 0o700))
	require.NoError(t, os.WriteFile(svc.Path(), []byte(`{"version":1}`), 0o600))

	_, err := svc.Unlock(context.Background(), "a")
	require.Error(t, err)
	assert.False(t, errors.Is(err, keystore.ErrInvalidPassword))
}

func TestNewServiceRequiresPath(t *testing.T) {
	_, err := keystore.NewService("", keystore.DefaultScryptParams())
	require.Error(t, err)
}
