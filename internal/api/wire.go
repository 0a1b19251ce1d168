//go:build wireinject

package api

import (
	"github.com/google/wire"

	"github/chapool/go-dapp/internal/config"
	"github/chapool/go-dapp/internal/metrics"
	"github/chapool/go-dapp/internal/wallet/ledger"
	"github/chapool/go-dapp/internal/wallet/signer"
)

// INJECTORS - https://github.com/google/wire/blob/main/docs/guide.md#injectors

// serviceSet groups the default set of providers that are required for initing a server
var serviceSet = wire.NewSet(
	newServerWithComponents,
	metrics.New,
	NewSessionStore,
	NewSignerService,
	NewBalanceService,
	NewPipelineService,
)

// InitNewServer returns a new Server instance talking to the configured ledger
// RPC endpoint and external signer.
func InitNewServer(
	_ config.Server,
) (*Server, error) {
	wire.Build(serviceSet, NewLedgerClient, NewTransactor)
	return new(Server), nil
}

// InitNewServerWithDeps returns a new Server instance with the given ledger
// client and signer transactor. All the other components are initialized via
// go wire according to the configuration.
func InitNewServerWithDeps(
	_ config.Server,
	_ ledger.Client,
	_ signer.Transactor,
) (*Server, error) {
	wire.Build(serviceSet)
	return new(Server), nil
}
