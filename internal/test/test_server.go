package test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github/chapool/go-dapp/internal/api"
	"github/chapool/go-dapp/internal/api/router"
	"github/chapool/go-dapp/internal/config"
	"github/chapool/go-dapp/internal/wallet/signer"
)

const shutdownTimeout = 10 * time.Second

// Fakes are the external systems a test server talks to.
type Fakes struct {
	Wallet *FakeWallet
	Ledger *FakeLedger
}

// WithTestServer returns a fully configured server (using the default server
// config) backed by an in-memory ledger and wallet.
func WithTestServer(t *testing.T, closure func(s *api.Server)) {
	t.Helper()

	WithTestServerConfigurable(t, config.DefaultServiceConfigFromEnv(), closure)
}

// WithTestServerConfigurable returns a fully configured server, allowing for
// configuration using the provided server config.
func WithTestServerConfigurable(t *testing.T, cfg config.Server, closure func(s *api.Server)) {
	t.Helper()

	WithTestServerFakes(t, cfg, func(s *api.Server, _ Fakes) {
		closure(s)
	})
}

// WithTestServerFakes hands the closure the fakes the server was built with so
// tests can preset balances and inject failures.
func WithTestServerFakes(t *testing.T, cfg config.Server, closure func(s *api.Server, fakes Fakes)) {
	t.Helper()

	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	fakes := Fakes{
		Wallet: NewFakeWallet(t),
		Ledger: NewFakeLedger(),
	}

	s, err := api.InitNewServerWithDeps(cfg, fakes.Ledger, signer.NewExclusiveTransactor(fakes.Wallet))
	require.NoError(t, err, "failed to init test server")

	router.Init(s)

	closure(s, fakes)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if errs := s.Shutdown(ctx); len(errs) > 0 {
		t.Fatalf("failed to shutdown test server: %v", errs)
	}
}
