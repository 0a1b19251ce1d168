package httperrors

import (
	"net/http"

	oaerrors "github.com/go-openapi/errors"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github/chapool/go-dapp/internal/types"
	"github/chapool/go-dapp/internal/util"
)

// HTTPErrorHandler renders every error returned by a handler as JSON. Domain
// errors are mapped via FromDomain, payload validation failures become 400.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	log := util.LogFromEchoContext(c)

	var (
		code int
		body interface{}
	)

	var (
		hve *HTTPValidationError
		he  *HTTPError
		ee  *echo.HTTPError
	)

	switch {
	case errors.As(err, &hve):
		code, body = int(swag.Int64Value(hve.Code)), hve
	case errors.As(err, &he):
		code, body = int(swag.Int64Value(he.Code)), he
	case errors.As(err, &ee):
		mapped := NewFromEcho(ee)
		code, body = ee.Code, mapped
	default:
		if composite, ok := util.IsValidationError(err); ok {
			hve = NewHTTPValidationError(http.StatusBadRequest, types.PublicHTTPErrorTypeGeneric, http.StatusText(http.StatusBadRequest), validationDetails(composite))
			code, body = http.StatusBadRequest, hve
			break
		}

		if mapped, ok := FromDomain(err); ok {
			code, body = int(swag.Int64Value(mapped.Code)), mapped
			break
		}

		code = http.StatusInternalServerError
		body = NewHTTPError(code, types.PublicHTTPErrorTypeGeneric, http.StatusText(code))
	}

	if code >= http.StatusInternalServerError {
		log.Error().Err(err).Int("status", code).Msg("Request failed")
	} else {
		log.Debug().Err(err).Int("status", code).Msg("Request failed")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, body)
	}
	if err != nil {
		log.Warn().Err(err).Msg("Failed to send error response")
	}
}

func validationDetails(composite *oaerrors.CompositeError) []*types.HTTPValidationErrorDetail {
	details := make([]*types.HTTPValidationErrorDetail, 0, len(composite.Errors))

	for _, err := range composite.Errors {
		switch e := err.(type) { //nolint:errorlint // Validate returns the concrete types
		case *oaerrors.Validation:
			details = append(details, &types.HTTPValidationErrorDetail{
				Key:   swag.String(e.Name),
				In:    swag.String(e.In),
				Error: swag.String(e.Error()),
			})
		case *oaerrors.CompositeError:
			details = append(details, validationDetails(e)...)
		default:
			details = append(details, &types.HTTPValidationErrorDetail{
				Key:   swag.String(""),
				In:    swag.String("body"),
				Error: swag.String(e.Error()),
			})
		}
	}

	return details
}
