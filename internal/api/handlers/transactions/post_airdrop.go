package transactions

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github/chapool/go-dapp/internal/api"
	"github/chapool/go-dapp/internal/types"
	"github/chapool/go-dapp/internal/util"
)

func PostAirdropRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Transactions.POST("/airdrop", postAirdropHandler(s))
}

func postAirdropHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var body types.PostAirdropPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		lamports := s.Config.Pipeline.AirdropLamports
		if body.Lamports != nil {
			lamports = uint64(*body.Lamports) //nolint:gosec // validated to be positive
		}

		result, err := s.Pipeline.Airdrop(ctx, lamports)
		if err != nil {
			util.LogFromContext(ctx).Debug().Err(err).Uint64("lamports", lamports).Msg("Airdrop failed")
			return err
		}

		return util.ValidateAndReturn(c, http.StatusOK, result.ToTypes())
	}
}
