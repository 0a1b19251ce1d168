package httperrors

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pkg/errors"

	"github/chapool/go-dapp/internal/types"
	"github/chapool/go-dapp/internal/wallet/address"
	"github/chapool/go-dapp/internal/wallet/ledger"
	"github/chapool/go-dapp/internal/wallet/pipeline"
	"github/chapool/go-dapp/internal/wallet/session"
	"github/chapool/go-dapp/internal/wallet/signer"
	"github/chapool/go-dapp/internal/wallet/walletrpc"
)

var (
	ErrConflictNoActiveSession     = NewHTTPError(http.StatusConflict, types.PublicHTTPErrorTypeNOACTIVESESSION, "No wallet is connected.")
	ErrConflictSignerBusy          = NewHTTPError(http.StatusConflict, types.PublicHTTPErrorTypeSIGNERBUSY, "Another wallet interaction is in progress.")
	ErrServiceUnavailableSigner    = NewHTTPError(http.StatusServiceUnavailable, types.PublicHTTPErrorTypeSIGNERUNAVAILABLE, "The wallet could not be reached.")
	ErrUnauthorizedAuthorization   = NewHTTPError(http.StatusUnauthorized, types.PublicHTTPErrorTypeAUTHORIZATIONFAILED, "The wallet declined the authorization.")
	ErrUnauthorizedReauthorization = NewHTTPError(http.StatusUnauthorized, types.PublicHTTPErrorTypeREAUTHORIZATIONFAILED, "The wallet session expired, connect again.")
	ErrForbiddenSigningDeclined    = NewHTTPError(http.StatusForbidden, types.PublicHTTPErrorTypeSIGNINGDECLINED, "The wallet declined to sign.")
	ErrBadGatewaySignedPayload     = NewHTTPError(http.StatusBadGateway, types.PublicHTTPErrorTypeSIGNEDPAYLOADMISMATCH, "The wallet returned an unexpected signed payload.")
	ErrBadGatewaySignerProtocol    = NewHTTPError(http.StatusBadGateway, types.PublicHTTPErrorTypeSIGNERPROTOCOLERROR, "The wallet sent an invalid response.")
	ErrBadGatewayAddressEncoding   = NewHTTPError(http.StatusBadGateway, types.PublicHTTPErrorTypeINVALIDADDRESSENCODING, "The wallet returned an invalid account address.")
	ErrServiceUnavailableLedger    = NewHTTPError(http.StatusServiceUnavailable, types.PublicHTTPErrorTypeNETWORKERROR, "The ledger could not be reached.")
	ErrUnprocessableSubmission     = NewHTTPError(http.StatusUnprocessableEntity, types.PublicHTTPErrorTypeSUBMISSIONREJECTED, "The ledger rejected the submission.")
	ErrUnprocessableLedger         = NewHTTPError(http.StatusUnprocessableEntity, types.PublicHTTPErrorTypeLEDGERERROR, "The transaction failed on the ledger.")
	ErrGatewayTimeoutConfirmation  = NewHTTPError(http.StatusGatewayTimeout, types.PublicHTTPErrorTypeCONFIRMATIONTIMEOUT, "The transaction was not confirmed in time, its outcome is unknown.")
)

// FromDomain maps wallet and ledger errors onto their public HTTP error.
// ok is false for errors without a mapping.
func FromDomain(err error) (*HTTPError, bool) {
	var (
		ledgerErr   *pipeline.LedgerError
		timeoutErr  *ledger.ConfirmationTimeoutError
		rejectedErr *ledger.SubmissionRejectedError
	)

	switch {
	case errors.As(err, &ledgerErr):
		return ErrUnprocessableLedger.
			WithData("signature", ledgerErr.Signature.String()).
			WithData("details", ledgerErr.Details).
			withDetail(ledgerDetail(ledgerErr.Details)).
			WithInternal(err), true
	case errors.As(err, &timeoutErr):
		return ErrGatewayTimeoutConfirmation.
			WithData("signature", timeoutErr.Signature.String()).
			WithInternal(err), true
	case errors.As(err, &rejectedErr):
		return ErrUnprocessableSubmission.
			withDetail(rejectedErr.Reason).
			WithInternal(err), true
	case errors.Is(err, ledger.ErrNetwork):
		return ErrServiceUnavailableLedger.WithInternal(err), true
	case errors.Is(err, session.ErrNoActiveSession):
		return ErrConflictNoActiveSession.WithInternal(err), true
	case errors.Is(err, signer.ErrSignerBusy):
		return ErrConflictSignerBusy.WithInternal(err), true
	case errors.Is(err, signer.ErrSignerUnavailable):
		return ErrServiceUnavailableSigner.WithInternal(err), true
	case errors.Is(err, signer.ErrReauthorizationFailed):
		return ErrUnauthorizedReauthorization.WithInternal(err), true
	case errors.Is(err, signer.ErrAuthorizationFailed):
		return ErrUnauthorizedAuthorization.WithInternal(err), true
	case errors.Is(err, signer.ErrNotSigned):
		return ErrForbiddenSigningDeclined.WithInternal(err), true
	case errors.Is(err, address.ErrInvalidAddressEncoding):
		return ErrBadGatewayAddressEncoding.WithInternal(err), true
	case errors.Is(err, signer.ErrSignatureCountMismatch),
		errors.Is(err, pipeline.ErrSignedMessageMismatch):
		return ErrBadGatewaySignedPayload.WithInternal(err), true
	case errors.Is(err, walletrpc.ErrInvalidResponse),
		errors.Is(err, walletrpc.ErrUnknownSession),
		errors.Is(err, walletrpc.ErrInvalidPayloads),
		errors.Is(err, walletrpc.ErrTooManyPayloads):
		return ErrBadGatewaySignerProtocol.WithInternal(err), true
	case errors.Is(err, pipeline.ErrEmptyMemo),
		errors.Is(err, pipeline.ErrInvalidAmount):
		return NewHTTPErrorWithDetail(http.StatusBadRequest, types.PublicHTTPErrorTypeINVALIDREQUEST,
			http.StatusText(http.StatusBadRequest), errors.Cause(err).Error()).WithInternal(err), true
	}

	return nil, false
}

// ledgerDetail renders the ledger's error value as the JSON the node returned.
func ledgerDetail(details interface{}) string {
	raw, err := json.Marshal(details)
	if err != nil {
		return fmt.Sprintf("%v", details)
	}

	return string(raw)
}

func (e *HTTPError) withDetail(detail string) *HTTPError {
	out := *e
	out.Detail = detail
	return &out
}
