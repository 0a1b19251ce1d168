package httperrors

import (
	"net/http"

	"github/chapool/go-dapp/internal/types"
)

var (
	ErrBadRequestInvalidBody = NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeINVALIDREQUEST, "The request body is invalid.")
)
