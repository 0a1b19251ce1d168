package signer

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github/chapool/go-dapp/internal/api/middleware"
	"github/chapool/go-dapp/internal/config"
	"github/chapool/go-dapp/internal/util/command"
	"github/chapool/go-dapp/internal/wallet/devwallet"
	"github/chapool/go-dapp/internal/wallet/keystore"
	"github/chapool/go-dapp/internal/wallet/seed"
	"github/chapool/go-dapp/internal/wallet/walletrpc"
)

const shutdownTimeout = 10 * time.Second

var scryptParams = keystore.DefaultScryptParams()

// New returns the development signer commands. The signer is a local stand-in
// for a wallet app and must not hold real funds.
func New() *cobra.Command {
	return command.NewSubcommandGroup("signer",
		newInit(),
		newServe(),
	)
}

func newInit() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Creates the encrypted development signer keystore",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.DefaultServiceConfigFromEnv()
			command.ConfigureLogger(cfg.Logger)

			return runInit(cmd.Context(), cfg.DevSigner)
		},
	}
}

func newServe() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Unlocks the keystore and serves the signer protocol",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.DefaultServiceConfigFromEnv()
			command.ConfigureLogger(cfg.Logger)

			return runServe(cmd.Context(), cfg)
		},
	}
}

func runInit(ctx context.Context, cfg config.DevSigner) error {
	ks, err := keystore.NewService(cfg.KeystorePath, scryptParams)
	if err != nil {
		return errors.Wrap(err, "failed to create keystore service")
	}

	exists, err := ks.Exists(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to check keystore")
	}
	if exists {
		return errors.Wrapf(keystore.ErrKeystoreExists, "keystore %s", ks.Path())
	}

	log.Info().Str("path", ks.Path()).Msg("No keystore found. Creating a new one...")

	password, err := readPassword(cfg, true)
	if err != nil {
		return err
	}

	mnemonic, pubkey, err := devwallet.Init(ctx, ks, password)
	if err != nil {
		return errors.Wrap(err, "failed to initialize keystore")
	}

	//nolint:forbidigo // the mnemonic is shown exactly once
	fmt.Printf("\nMnemonic (write it down, it is not shown again):\n\n  %s\n\nAddress: %s\n", mnemonic, pubkey)

	log.Info().Str("path", ks.Path()).Str("address", pubkey.String()).Msg("Keystore created")

	return nil
}

func runServe(ctx context.Context, cfg config.Server) error {
	ks, err := keystore.NewService(cfg.DevSigner.KeystorePath, scryptParams)
	if err != nil {
		return errors.Wrap(err, "failed to create keystore service")
	}

	password, err := readPassword(cfg.DevSigner, false)
	if err != nil {
		return err
	}

	seeds := seed.NewManager()
	defer seeds.Clear()

	wallet, err := devwallet.Load(ctx, ks, seeds, password, devwallet.Options{
		RotateAuthTokens:   cfg.DevSigner.RotateAuthTokens,
		Clusters:           []string{cfg.Ledger.Cluster},
		SessionIdleTimeout: cfg.DevSigner.SessionIdleTimeout,
	})
	if err != nil {
		return err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Level:          cfg.Logger.RequestLevel,
		LogRequestBody: cfg.Logger.LogRequestBody,
	}))

	walletrpc.NewHandler(wallet).Register(e)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("listen", cfg.DevSigner.ListenAddress).
			Str("address", wallet.PublicKey().String()).
			Str("cluster", cfg.Ledger.Cluster).
			Msg("Starting development signer")
		if err := e.Start(cfg.DevSigner.ListenAddress); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "signer stopped")
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "failed to shut down signer")
	}

	log.Info().Msg("Development signer stopped")

	return nil
}
