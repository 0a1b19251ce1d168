package util

import (
	"net/http"

	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/labstack/echo/v4"
)

type validatable interface {
	Validate(formats strfmt.Registry) error
}

// BindAndValidateBody binds the request body into v and runs its generated-style
// Validate method. Validation failures come back as *errors.CompositeError and are
// translated to HTTP 400 by the error handler.
func BindAndValidateBody(c echo.Context, v validatable) error {
	if c.Request().ContentLength != 0 {
		if err := (&echo.DefaultBinder{}).BindBody(c, v); err != nil {
			LogFromEchoContext(c).Debug().Err(err).Msg("Failed to bind request body")
			return err
		}
	}

	if err := v.Validate(strfmt.Default); err != nil {
		LogFromEchoContext(c).Debug().Err(err).Msg("Request body failed validation")
		return err
	}

	return nil
}

// ValidateAndReturn validates the response payload before sending it, so a
// malformed response is logged and turned into a 500 instead of leaking out.
func ValidateAndReturn(c echo.Context, code int, v validatable) error {
	if err := v.Validate(strfmt.Default); err != nil {
		LogFromEchoContext(c).Error().Err(err).Msg("Response failed validation")
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	return c.JSON(code, v)
}

// IsValidationError reports whether err originates from a payload Validate method.
func IsValidationError(err error) (*errors.CompositeError, bool) {
	if composite, ok := err.(*errors.CompositeError); ok { //nolint:errorlint // Validate returns the composite unwrapped
		return composite, true
	}
	if single, ok := err.(*errors.Validation); ok { //nolint:errorlint // see above
		return errors.CompositeValidationError(single), true
	}
	return nil, false
}

// BindAndValidateQueryParams binds the query string into v and validates it.
func BindAndValidateQueryParams(c echo.Context, v validatable) error {
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, v); err != nil {
		LogFromEchoContext(c).Debug().Err(err).Msg("Failed to bind query params")
		return err
	}

	if err := v.Validate(strfmt.Default); err != nil {
		LogFromEchoContext(c).Debug().Err(err).Msg("Query params failed validation")
		return err
	}

	return nil
}
