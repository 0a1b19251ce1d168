package transactions

import (
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"

	"github/chapool/go-dapp/internal/api"
	"github/chapool/go-dapp/internal/types"
	"github/chapool/go-dapp/internal/util"
)

func PostMemoRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Transactions.POST("/memo", postMemoHandler(s))
}

func postMemoHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var body types.PostMemoPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		message := s.Config.Pipeline.DefaultMemo
		if body.Message != nil {
			message = swag.StringValue(body.Message)
		}

		result, err := s.Pipeline.Memo(ctx, message)
		if err != nil {
			util.LogFromContext(ctx).Debug().Err(err).Msg("Memo failed")
			return err
		}

		return util.ValidateAndReturn(c, http.StatusOK, result.ToTypes())
	}
}
