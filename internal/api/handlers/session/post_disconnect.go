package session

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github/chapool/go-dapp/internal/api"
	"github/chapool/go-dapp/internal/metrics"
	"github/chapool/go-dapp/internal/util"
)

func PostDisconnectRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Session.POST("/disconnect", postDisconnectHandler(s))
}

func postDisconnectHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		err := s.Signer.Disconnect(ctx)
		s.Metrics.ObserveSignerCall("disconnect", metrics.SignerOutcome(err))
		if err != nil {
			util.LogFromContext(ctx).Debug().Err(err).Msg("Failed to disconnect wallet")
			return err
		}

		return c.NoContent(http.StatusNoContent)
	}
}
