package session

import (
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"

	"github/chapool/go-dapp/internal/api"
	"github/chapool/go-dapp/internal/types"
	"github/chapool/go-dapp/internal/util"
	"github/chapool/go-dapp/internal/wallet/balance"
)

func GetSessionRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Session.GET("", getSessionHandler(s))
}

func getSessionHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		params := types.NewGetSessionRouteParams()
		if err := util.BindAndValidateQueryParams(c, &params); err != nil {
			return err
		}

		if swag.BoolValue(params.Refresh) && s.Store.Snapshot().Connected() {
			if _, err := s.Balance.RefreshCurrent(ctx); err != nil {
				util.LogFromContext(ctx).Debug().Err(err).Msg("Failed to refresh balance")
				return err
			}
		}

		return util.ValidateAndReturn(c, http.StatusOK, balance.ToSessionView(s.Store.Snapshot(), s.Config.Ledger.Cluster))
	}
}
