package httperrors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"

	"github/chapool/go-dapp/internal/types"
)

// HTTPError is the JSON error body of every failed request. AdditionalData is
// merged into the top level of the body.
type HTTPError struct {
	types.PublicHTTPError
	Internal       error                  `json:"-"`
	AdditionalData map[string]interface{} `json:"-"`
}

type HTTPValidationError struct {
	types.HTTPValidationError
	Internal error `json:"-"`
}

func NewHTTPError(code int, errorType types.PublicHTTPErrorType, title string) *HTTPError {
	return &HTTPError{
		PublicHTTPError: types.PublicHTTPError{
			Code:  swag.Int64(int64(code)),
			Title: swag.String(title),
			Type:  types.NewPublicHTTPErrorType(errorType),
		},
	}
}

func NewHTTPErrorWithDetail(code int, errorType types.PublicHTTPErrorType, title string, detail string) *HTTPError {
	e := NewHTTPError(code, errorType, title)
	e.Detail = detail
	return e
}

func NewFromEcho(e *echo.HTTPError) *HTTPError {
	return NewHTTPError(e.Code, types.PublicHTTPErrorTypeGeneric, http.StatusText(e.Code))
}

// WithData returns a copy of e carrying key in its body.
func (e *HTTPError) WithData(key string, value interface{}) *HTTPError {
	out := *e
	out.AdditionalData = make(map[string]interface{}, len(e.AdditionalData)+1)
	for k, v := range e.AdditionalData {
		out.AdditionalData[k] = v
	}
	out.AdditionalData[key] = value
	return &out
}

// WithInternal returns a copy of e wrapping err for logging.
func (e *HTTPError) WithInternal(err error) *HTTPError {
	out := *e
	out.Internal = err
	return &out
}

func (e *HTTPError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "HTTPError %d (%s): %s", swag.Int64Value(e.Code), *e.Type, swag.StringValue(e.Title))

	if len(e.Detail) > 0 {
		fmt.Fprintf(&b, " - %s", e.Detail)
	}
	if e.Internal != nil {
		fmt.Fprintf(&b, ", %v", e.Internal)
	}
	if len(e.AdditionalData) > 0 {
		keys := make([]string, 0, len(e.AdditionalData))
		for k := range e.AdditionalData {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteString(". Additional: ")
		for i, k := range keys {
			fmt.Fprintf(&b, "%s=%v", k, e.AdditionalData[k])
			if i < len(keys)-1 {
				b.WriteString(", ")
			}
		}
	}

	return b.String()
}

func (e *HTTPError) Unwrap() error {
	return e.Internal
}

func (e *HTTPError) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(e.PublicHTTPError)
	if err != nil || len(e.AdditionalData) == 0 {
		return raw, err
	}

	body := make(map[string]interface{}, len(e.AdditionalData)+4)
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, err
	}
	for k, v := range e.AdditionalData {
		if _, taken := body[k]; !taken {
			body[k] = v
		}
	}

	return json.Marshal(body)
}

func NewHTTPValidationError(code int, errorType types.PublicHTTPErrorType, title string, validationErrors []*types.HTTPValidationErrorDetail) *HTTPValidationError {
	return &HTTPValidationError{
		HTTPValidationError: types.HTTPValidationError{
			PublicHTTPError: types.PublicHTTPError{
				Code:  swag.Int64(int64(code)),
				Title: swag.String(title),
				Type:  types.NewPublicHTTPErrorType(errorType),
			},
			ValidationErrors: validationErrors,
		},
	}
}

func (e *HTTPValidationError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "HTTPValidationError %d (%s): %s", swag.Int64Value(e.Code), *e.Type, swag.StringValue(e.Title))

	if len(e.Detail) > 0 {
		fmt.Fprintf(&b, " - %s", e.Detail)
	}
	if e.Internal != nil {
		fmt.Fprintf(&b, ", %v", e.Internal)
	}

	b.WriteString(" - Validation: ")
	for i, ve := range e.ValidationErrors {
		fmt.Fprintf(&b, "%s (in %s): %s", swag.StringValue(ve.Key), swag.StringValue(ve.In), swag.StringValue(ve.Error))
		if i < len(e.ValidationErrors)-1 {
			b.WriteString(", ")
		}
	}

	return b.String()
}
