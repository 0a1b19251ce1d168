package seed_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tyler-smith/go-bip39"

	"github/chapool/go-dapp/internal/wallet/seed"
)

const mnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestInitializeAndDerive(t *testing.T) {
	m := seed.NewManager()
	assert.False(t, m.IsInitialized())

	_, err := m.SigningKey()
	assert.ErrorIs(t, err, seed.ErrNotInitialized)

	require.NoError(t, m.Initialize(mnemonic, ""))
	assert.True(t, m.IsInitialized())
	assert.Equal(t, bip39.NewSeed(mnemonic, ""), m.GetSeed())

	key, err := m.SigningKey()
	require.NoError(t, err)
	require.NoError(t, key.Validate())

	again, err := m.SigningKey()
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey(), again.PublicKey())
}

func TestPassphraseChangesKey(t *testing.T) {
	a := seed.NewManager()
	b := seed.NewManager()
	require.NoError(t, a.Initialize(mnemonic, ""))
	require.NoError(t, b.Initialize(mnemonic, "extra"))

	ka, err := a.SigningKey()
	require.NoError(t, err)
	kb, err := b.SigningKey()
	require.NoError(t, err)

	assert.NotEqual(t, ka.PublicKey(), kb.PublicKey())
}

func TestInitializeRejectsInvalidMnemonic(t *testing.T) {
	m := seed.NewManager()

	err := m.Initialize("not a real mnemonic", "")
	assert.ErrorIs(t, err, seed.ErrInvalidMnemonic)
	assert.False(t, m.IsInitialized())
}

func TestInitializeNormalizesWhitespace(t *testing.T) {
	m := seed.NewManager()
	require.NoError(t, m.Initialize("  abandon abandon abandon abandon abandon abandon\nabandon abandon abandon abandon abandon about ", ""))
	assert.Equal(t, bip39.NewSeed(mnemonic, ""), m.GetSeed())
}

func TestClear(t *testing.T) {
	m := seed.NewManager()
	require.NoError(t, m.Initialize(mnemonic, ""))

	s := m.GetSeed()
	m.Clear()

	assert.False(t, m.IsInitialized())
	assert.Nil(t, m.GetSeed())
	// copies handed out earlier are not affected
	assert.Len(t, s, 64)
}

func TestNewMnemonic(t *testing.T) {
	words, err := seed.NewMnemonic()
	require.NoError(t, err)
	assert.True(t, bip39.IsMnemonicValid(words))

	m := seed.NewManager()
	require.NoError(t, m.Initialize(words, ""))
}
