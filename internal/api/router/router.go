package router

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	"github/chapool/go-dapp/internal/api"
	"github/chapool/go-dapp/internal/api/handlers"
	"github/chapool/go-dapp/internal/api/httperrors"
	"github/chapool/go-dapp/internal/api/middleware"
	"github/chapool/go-dapp/internal/metrics"
)

func Init(s *api.Server) {
	s.Echo = echo.New()

	s.Echo.Debug = s.Config.Echo.Debug
	s.Echo.HideBanner = true
	s.Echo.HidePort = true
	s.Echo.HTTPErrorHandler = httperrors.HTTPErrorHandler

	// ---
	// General middleware
	if s.Config.Echo.EnableTrailingSlashMiddleware {
		s.Echo.Pre(echoMiddleware.RemoveTrailingSlash())
	} else {
		log.Warn().Msg("Disabling trailing slash middleware due to environment config")
	}

	if s.Config.Echo.EnableRecoverMiddleware {
		s.Echo.Use(echoMiddleware.Recover())
	} else {
		log.Warn().Msg("Disabling recover middleware due to environment config")
	}

	if s.Config.Echo.EnableRequestIDMiddleware {
		s.Echo.Use(echoMiddleware.RequestID())
	} else {
		log.Warn().Msg("Disabling request ID middleware due to environment config")
	}

	s.Echo.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:                 metrics.Namespace,
		Subsystem:                 "http",
		Registerer:                s.Metrics.Registry,
		Skipper:                   skipManagement,
		DoNotUseRequestPathFor404: true,
	}))

	s.Echo.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Level:             s.Config.Logger.RequestLevel,
		LogRequestBody:    s.Config.Logger.LogRequestBody,
		LogRequestHeader:  s.Config.Logger.LogRequestHeader,
		LogResponseBody:   s.Config.Logger.LogResponseBody,
		LogResponseHeader: s.Config.Logger.LogResponseHeader,
	}))

	if s.Config.Echo.EnableCORSMiddleware {
		s.Echo.Use(echoMiddleware.CORS())
	} else {
		log.Warn().Msg("Disabling CORS middleware due to environment config")
	}

	s.Router = &api.Router{
		Routes:            nil, // will be populated by handlers.AttachAllRoutes(s)
		Root:              s.Echo.Group(""),
		Management:        s.Echo.Group("/-"),
		APIV1Session:      s.Echo.Group("/api/v1/session"),
		APIV1Transactions: s.Echo.Group("/api/v1/transactions"),
	}

	// ---
	// Finally attach our handlers
	handlers.AttachAllRoutes(s)
}

func skipManagement(c echo.Context) bool {
	path := c.Request().URL.Path
	return strings.HasPrefix(path, "/-/") || path == "/metrics"
}
