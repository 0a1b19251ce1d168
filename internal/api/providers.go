package api

import (
	"github.com/pkg/errors"

	"github/chapool/go-dapp/internal/config"
	"github/chapool/go-dapp/internal/metrics"
	"github/chapool/go-dapp/internal/wallet/balance"
	"github/chapool/go-dapp/internal/wallet/chain"
	"github/chapool/go-dapp/internal/wallet/ledger"
	"github/chapool/go-dapp/internal/wallet/pipeline"
	"github/chapool/go-dapp/internal/wallet/session"
	"github/chapool/go-dapp/internal/wallet/signer"
	"github/chapool/go-dapp/internal/wallet/walletrpc"
)

// PROVIDERS - https://github.com/google/wire/blob/main/docs/guide.md#defining-providers

func NewSessionStore() *session.Store {
	return session.NewStore()
}

//nolint:ireturn // Returning interface is intentional for dependency injection
func NewLedgerClient(cfg config.Server) (ledger.Client, error) {
	cluster, err := chain.Resolve(cfg.Ledger.Cluster, cfg.Ledger.RPCURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve ledger cluster")
	}

	return ledger.NewRPCClient(cluster, cfg.Ledger.ConfirmTimeout, cfg.Ledger.PollInterval), nil
}

// NewTransactor connects to the external signer configured in cfg.Wallet. The
// returned transactor never opens two signer sessions at once.
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewTransactor(cfg config.Server) signer.Transactor {
	return signer.NewExclusiveTransactor(walletrpc.NewClient(cfg.Wallet.Endpoint, cfg.Wallet.RequestTimeout))
}

//nolint:ireturn // Returning interface is intentional for dependency injection
func NewSignerService(cfg config.Server, transactor signer.Transactor, store *session.Store) (signer.Service, error) {
	return signer.NewService(transactor, store, cfg.Ledger.Cluster, signer.Identity{
		Name: cfg.Wallet.Identity.Name,
		URI:  cfg.Wallet.Identity.URI,
		Icon: cfg.Wallet.Identity.Icon,
	})
}

//nolint:ireturn // Returning interface is intentional for dependency injection
func NewBalanceService(ledgerClient ledger.Client, store *session.Store, metricsService *metrics.Service) balance.Service {
	return balance.NewService(ledgerClient, store, metricsService)
}

//nolint:ireturn // Returning interface is intentional for dependency injection
func NewPipelineService(
	cfg config.Server,
	signerService signer.Service,
	ledgerClient ledger.Client,
	balanceService balance.Service,
	store *session.Store,
	metricsService *metrics.Service,
) (pipeline.Service, error) {
	return pipeline.NewService(pipeline.Deps{
		Signer:          signerService,
		Ledger:          ledgerClient,
		Balance:         balanceService,
		Store:           store,
		Metrics:         metricsService,
		Cluster:         cfg.Ledger.Cluster,
		ExplorerBaseURL: cfg.Pipeline.ExplorerBaseURL,
	})
}
