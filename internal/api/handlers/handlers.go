package handlers

import (
	"github.com/labstack/echo/v4"

	"github/chapool/go-dapp/internal/api"
	"github/chapool/go-dapp/internal/api/handlers/common"
	"github/chapool/go-dapp/internal/api/handlers/session"
	"github/chapool/go-dapp/internal/api/handlers/transactions"
)

func AttachAllRoutes(s *api.Server) {
	// attach our routes
	s.Router.Routes = []*echo.Route{
		common.GetHealthyRoute(s),
		common.GetMetricsRoute(s),
		common.GetReadyRoute(s),
		session.GetSessionRoute(s),
		session.PostConnectRoute(s),
		session.PostDisconnectRoute(s),
		transactions.PostAirdropRoute(s),
		transactions.PostMemoRoute(s),
	}
}
