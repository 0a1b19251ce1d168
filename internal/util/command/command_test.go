package command_test

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github/chapool/go-dapp/internal/api"
	"github/chapool/go-dapp/internal/config"
	"github/chapool/go-dapp/internal/util/command"
)

func TestWithServer(t *testing.T) {
	ctx := t.Context()

	var testError = errors.New("test error")

	cfg := config.DefaultServiceConfigFromEnv()
	cfg.Logger.PrettyPrintConsole = false

	called := false
	resultErr := command.WithServer(ctx, cfg, func(_ context.Context, s *api.Server) error {
		called = true

		assert.True(t, s.Ready())
		assert.False(t, s.Store.Snapshot().Connected())

		return testError
	})

	require.True(t, called)
	assert.Equal(t, testError, resultErr)
}

func TestWithServerInvalidConfig(t *testing.T) {
	cfg := config.DefaultServiceConfigFromEnv()
	cfg.Ledger.Cluster = "localnet"
	cfg.Ledger.RPCURL = "://not-a-url"

	err := command.WithServer(t.Context(), cfg, func(_ context.Context, _ *api.Server) error {
		t.Fatal("closure must not run")
		return nil
	})
	require.Error(t, err)
}

func TestNewSubcommandGroup(t *testing.T) {
	group := command.NewSubcommandGroup("probe",
		command.NewSubcommandGroup("liveness"),
		command.NewSubcommandGroup("readiness"),
	)

	assert.Equal(t, "probe", group.Use)
	assert.Len(t, group.Commands(), 2)
}

func TestBindFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "memo"}
	cmd.Flags().String("message", "Hello Solana", "")
	cmd.Flags().Uint64("airdrop-lamports", 1, "")

	t.Setenv("APP_AIRDROP_LAMPORTS", "42")

	v, err := command.BindFlags(cmd)
	require.NoError(t, err)
	assert.Equal(t, "Hello Solana", v.GetString("message"))
	assert.Equal(t, uint64(42), v.GetUint64("airdrop-lamports"))

	require.NoError(t, cmd.Flags().Set("message", "gm"))
	assert.Equal(t, "gm", v.GetString("message"))
}
