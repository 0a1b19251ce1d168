package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github/chapool/go-dapp/internal/api"
	"github/chapool/go-dapp/internal/api/router"
	"github/chapool/go-dapp/internal/config"
	"github/chapool/go-dapp/internal/util/command"
)

const (
	listenFlag      = "listen"
	shutdownTimeout = 10 * time.Second
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Starts the wallet session server",
		Long: `Starts the HTTP server exposing the wallet session and transaction
operations. The wallet signer is reached via WALLET_ENDPOINT.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags, err := command.BindFlags(cmd)
			if err != nil {
				return err
			}

			cfg := config.DefaultServiceConfigFromEnv()
			if listen := flags.GetString(listenFlag); listen != "" {
				cfg.Echo.ListenAddress = listen
			}

			return runServer(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringP(listenFlag, "l", "", "Listen address, overrides SERVER_ECHO_LISTEN_ADDRESS.")

	return cmd
}

func runServer(ctx context.Context, cfg config.Server) error {
	command.ConfigureLogger(cfg.Logger)

	s, err := api.InitNewServer(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to initialize server")
	}

	router.Init(s)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("listen", cfg.Echo.ListenAddress).Str("cluster", cfg.Ledger.Cluster).Msg("Starting server")
		if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "server stopped")
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if errs := s.Shutdown(shutdownCtx); len(errs) > 0 {
		log.Error().Errs("errors", errs).Msg("Failed to gracefully shut down server")
		return errors.New("server shutdown failed")
	}

	log.Info().Msg("Server stopped")

	return nil
}
