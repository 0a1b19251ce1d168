package session

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github/chapool/go-dapp/internal/api"
	"github/chapool/go-dapp/internal/metrics"
	"github/chapool/go-dapp/internal/util"
	"github/chapool/go-dapp/internal/wallet/balance"
)

func PostConnectRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Session.POST("/connect", postConnectHandler(s))
}

// postConnectHandler authorizes with the wallet and loads the balance of the
// returned account. A failed balance read still answers with the session.
func postConnectHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		account, err := s.Signer.Connect(ctx)
		s.Metrics.ObserveSignerCall("connect", metrics.SignerOutcome(err))
		if err != nil {
			log.Debug().Err(err).Msg("Failed to connect wallet")
			return err
		}

		if _, err := s.Balance.Refresh(ctx, account.Address); err != nil {
			log.Warn().Err(err).Str("address", account.Address.String()).Msg("Failed to load balance after connect")
		}

		return util.ValidateAndReturn(c, http.StatusOK, balance.ToSessionView(s.Store.Snapshot(), s.Config.Ledger.Cluster))
	}
}
