package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github/chapool/go-dapp/internal/config"
	"github/chapool/go-dapp/internal/metrics"
	"github/chapool/go-dapp/internal/util"
	"github/chapool/go-dapp/internal/wallet/balance"
	"github/chapool/go-dapp/internal/wallet/ledger"
	"github/chapool/go-dapp/internal/wallet/pipeline"
	"github/chapool/go-dapp/internal/wallet/session"
	"github/chapool/go-dapp/internal/wallet/signer"
)

type Router struct {
	Routes            []*echo.Route
	Root              *echo.Group
	Management        *echo.Group
	APIV1Session      *echo.Group
	APIV1Transactions *echo.Group
}

// Server is a central struct keeping all the dependencies.
// It is initialized with wire, which handles making the new instances of the components
// in the right order. To add a new component, 3 steps are required:
// - declaring it in this struct
// - adding a provider function in providers.go
// - adding the provider's function name to the arguments of wire.Build() in wire.go
//
// Components labeled as `wire:"-"` will be skipped and have to be initialized after the InitNewServer* call.
// For more information about wire refer to https://pkg.go.dev/github.com/google/wire
type Server struct {
	// skip wire:
	// -> initialized with router.Init(s) function
	Echo   *echo.Echo `wire:"-"`
	Router *Router    `wire:"-"`

	Config   config.Server
	Metrics  *metrics.Service
	Store    *session.Store
	Ledger   ledger.Client
	Signer   signer.Service
	Balance  balance.Service
	Pipeline pipeline.Service
}

// newServerWithComponents is used by wire to initialize the server components.
// Components not listed here won't be handled by wire and should be initialized separately.
// Components which shouldn't be handled must be labeled `wire:"-"` in Server struct.
func newServerWithComponents(
	cfg config.Server,
	metrics *metrics.Service,
	store *session.Store,
	ledgerClient ledger.Client,
	signerService signer.Service,
	balanceService balance.Service,
	pipelineService pipeline.Service,
) *Server {
	return &Server{
		Config:   cfg,
		Metrics:  metrics,
		Store:    store,
		Ledger:   ledgerClient,
		Signer:   signerService,
		Balance:  balanceService,
		Pipeline: pipelineService,
	}
}

func NewServer(config config.Server) *Server {
	s := &Server{
		Config: config,
	}

	return s
}

func (s *Server) Ready() bool {
	if err := util.IsStructInitialized(s); err != nil {
		log.Debug().Err(err).Msg("Server is not fully initialized")
		return false
	}

	return true
}

func (s *Server) Start() error {
	if !s.Ready() {
		return errors.New("server is not ready")
	}

	if err := s.Echo.Start(s.Config.Echo.ListenAddress); err != nil {
		return fmt.Errorf("failed to start echo server: %w", err)
	}

	return nil
}

func (s *Server) Shutdown(ctx context.Context) []error {
	log.Warn().Msg("Shutting down server")

	var errs []error

	if s.Signer != nil && s.Signer.State() == signer.StateConnected {
		log.Debug().Msg("Disconnecting wallet session")

		if err := s.Signer.Disconnect(ctx); err != nil {
			log.Error().Err(err).Msg("Failed to disconnect wallet session")
			errs = append(errs, err)
		}
	}

	if s.Echo != nil {
		log.Debug().Msg("Shutting down echo server")

		if err := s.Echo.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Failed to shutdown echo server")
			errs = append(errs, err)
		}
	}

	return errs
}
