package common

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github/chapool/go-dapp/internal/api"
	"github/chapool/go-dapp/internal/util"
)

func GetHealthyRoute(s *api.Server) *echo.Route {
	return s.Router.Management.GET("/healthy", getHealthyHandler(s))
}

// Health check
// Returns an human readable string about the current service status.
// In addition to readiness probes, it reaches out to the ledger RPC endpoint.
func getHealthyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !s.Ready() {
			return c.String(StatusNotReady, "Not ready.")
		}

		ctx, cancel := context.WithTimeout(c.Request().Context(), s.Config.Management.LivenessTimeout)
		defer cancel()

		var str strings.Builder
		fmt.Fprintln(&str, "Ready.")

		healthy := true

		blockhash, err := s.Ledger.GetLatestBlockhash(ctx)
		if err != nil {
			util.LogFromContext(ctx).Warn().Err(err).Msg("Health check failed to reach the ledger")
			fmt.Fprintf(&str, "Ledger %s: unreachable.\n", s.Config.Ledger.Cluster)
			healthy = false
		} else {
			fmt.Fprintf(&str, "Ledger %s: last valid block height %d.\n", s.Config.Ledger.Cluster, blockhash.LastValidBlockHeight)
		}

		fmt.Fprintf(&str, "Wallet session: %s.\n", s.Signer.State())

		if !healthy {
			return c.String(StatusNotReady, str.String())
		}

		return c.String(http.StatusOK, str.String())
	}
}
